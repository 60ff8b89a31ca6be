package board

import "fmt"

// Square is one board cell: its label, its image outline and its piece.
type Square struct {
	Coord Coordinate
	Quad  Quad
	Piece Piece
}

func (s Square) IsEmpty() bool { return s.Piece.IsEmpty() }

// State is the tracked board. It is owned by a single caller; the only
// occupancy mutator is Commit.
type State struct {
	squares    [NumSquares]Square
	start      Coordinate
	generation uint64
}

type colorPair struct{ left, right Color }

// startingSquares maps the colors of the leftmost and rightmost boundary
// pieces to the algebraic label of grid cell (0, 7), the starting corner.
var startingSquares = map[colorPair]Coordinate{
	{Black, Black}: MustCoordinate("h8"),
	{Black, White}: MustCoordinate("a8"),
	{White, White}: MustCoordinate("a1"),
	{White, Black}: MustCoordinate("h1"),
}

// gridToCoordinate maps grid cell (h, v) to a coordinate for each of the
// four possible starting corners.
var gridToCoordinate = map[Coordinate]func(h, v int) Coordinate{
	MustCoordinate("a1"): func(h, v int) Coordinate { return NewCoordinate(File(h), Rank(7-v)) },
	MustCoordinate("h1"): func(h, v int) Coordinate { return NewCoordinate(File(v), Rank(h)) },
	MustCoordinate("h8"): func(h, v int) Coordinate { return NewCoordinate(File(7-h), Rank(v)) },
	MustCoordinate("a8"): func(h, v int) Coordinate { return NewCoordinate(File(7-v), Rank(7-h)) },
}

// ResolveOrientation looks up the starting corner for a boundary color pair.
func ResolveOrientation(left, right Color) (Coordinate, error) {
	start, ok := startingSquares[colorPair{left, right}]
	if !ok {
		return 0, newError(UnrecognizedOrientation, 0, "boundary colors (%s, %s)", left, right)
	}
	return start, nil
}

// NewState indexes the 81 calibrated grid corners into 64 labelled squares
// and places the standard starting position. The orientation is fixed here
// and never recomputed.
func NewState(corners []Point, left, right Color) (*State, error) {
	start, err := ResolveOrientation(left, right)
	if err != nil {
		return nil, err
	}
	return NewStateWithOrientation(corners, start)
}

// NewStateWithOrientation is NewState for an already resolved starting
// corner, used when resuming a stored session.
func NewStateWithOrientation(corners []Point, start Coordinate) (*State, error) {
	toCoord, ok := gridToCoordinate[start]
	if !ok {
		return nil, newError(UnrecognizedOrientation, 0, "starting square %s", start)
	}
	grid, err := gridQuads(corners)
	if err != nil {
		return nil, err
	}

	s := &State{start: start}
	var seen [NumSquares]bool
	for h := 0; h < 8; h++ {
		for v := 0; v < 8; v++ {
			c := toCoord(h, v)
			if seen[c] {
				return nil, fmt.Errorf("grid cell (%d, %d) maps to duplicate coordinate %s", h, v, c)
			}
			seen[c] = true
			s.squares[c] = Square{Coord: c, Quad: grid[h][v], Piece: InitialPiece(c)}
		}
	}
	return s, nil
}

var backRank = [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// InitialPiece is the standard starting occupant of c.
func InitialPiece(c Coordinate) Piece {
	switch c.Rank() {
	case Rank1:
		return NewPiece(White, backRank[c.File()])
	case Rank2:
		return WhitePawn
	case Rank7:
		return BlackPawn
	case Rank8:
		return NewPiece(Black, backRank[c.File()])
	default:
		return Empty
	}
}

// Orientation is the starting corner, the label of grid cell (0, 7).
func (s *State) Orientation() Coordinate { return s.start }

// Generation increments on every Commit.
func (s *State) Generation() uint64 { return s.generation }

func (s *State) Square(c Coordinate) Square { return s.squares[c] }

func (s *State) Piece(c Coordinate) Piece { return s.squares[c].Piece }

// Squares returns a copy of all squares in coordinate order (a1, b1, ... h8).
func (s *State) Squares() []Square {
	out := make([]Square, NumSquares)
	copy(out, s.squares[:])
	return out
}

// Occupied counts non-empty squares.
func (s *State) Occupied() int {
	n := 0
	for _, sq := range s.squares {
		if !sq.IsEmpty() {
			n++
		}
	}
	return n
}

// Placement returns the current occupancy keyed by coordinate, omitting
// empty squares.
func (s *State) Placement() map[Coordinate]Piece {
	out := make(map[Coordinate]Piece)
	for _, sq := range s.squares {
		if !sq.IsEmpty() {
			out[sq.Coord] = sq.Piece
		}
	}
	return out
}

// Diff returns a Result whose updates bring the board to target. Squares
// absent from target are expected to be empty. The result is committed
// like any reconstruction.
func (s *State) Diff(target map[Coordinate]Piece) Result {
	res := Result{Shape: ShapeSync, Generation: s.generation}
	for _, sq := range s.squares {
		want := target[sq.Coord]
		if want != sq.Piece {
			res.Updates = append(res.Updates, Update{Coord: sq.Coord, From: sq.Piece, To: want})
		}
	}
	return res
}
