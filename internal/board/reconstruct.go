package board

// Shape is the closed set of move shapes a Delta can take. Exactly one
// shape is chosen per Delta by ShapeOf and each shape has one handler.
type Shape uint8

const (
	ShapeInvalid Shape = iota
	ShapeTwoMove
	ShapeHeuristicTwoMove
	ShapeEnPassant
	ShapeCastle
	// ShapeSync marks results built by State.Diff rather than reconstruction.
	ShapeSync
)

func (s Shape) String() string {
	switch s {
	case ShapeTwoMove:
		return "two_move"
	case ShapeHeuristicTwoMove:
		return "heuristic_two_move"
	case ShapeEnPassant:
		return "en_passant"
	case ShapeCastle:
		return "castle"
	case ShapeSync:
		return "sync"
	default:
		return "invalid"
	}
}

// Update is one square's occupancy change to be committed.
type Update struct {
	Coord Coordinate
	From  Piece
	To    Piece
}

// Result is a reconstructed move. It is bound to the State generation it
// was computed from and must be committed against that same generation.
type Result struct {
	Move       string
	Shape      Shape
	Promotion  PieceType
	Updates    []Update
	Discarded  []Coordinate
	Generation uint64
}

// Origin and Destination decode the coordinate-notation move.
func (r Result) Origin() (Coordinate, bool) { return moveSquare(r.Move, 0) }

func (r Result) Destination() (Coordinate, bool) { return moveSquare(r.Move, 2) }

func moveSquare(move string, at int) (Coordinate, bool) {
	if len(move) < at+2 {
		return 0, false
	}
	c, err := ParseCoordinate(move[at : at+2])
	return c, err == nil
}

// ShapeOf dispatches on the number of changed squares. A three-square
// change whose single EmptyToOccupied square sits on rank 3 or 6 is always
// en passant.
func ShapeOf(d Delta) Shape {
	switch len(d) {
	case 4:
		return ShapeCastle
	case 3:
		if _, ok := enPassantDestination(d); ok {
			return ShapeEnPassant
		}
		return ShapeHeuristicTwoMove
	case 2:
		return ShapeTwoMove
	default:
		return ShapeInvalid
	}
}

func enPassantDestination(d Delta) (Change, bool) {
	if d.Count(EmptyToOccupied) != 1 {
		return Change{}, false
	}
	dest, _ := d.First(EmptyToOccupied)
	r := dest.Coord.Rank()
	return dest, r == Rank3 || r == Rank6
}

// Reconstruct determines the move that produced d. detections are the raw
// detections of the cycle (used for promotion) and legal is the rules
// engine's legal-move set (used by heuristic recovery). On failure the
// returned error is a *Error and nothing must be committed.
func (s *State) Reconstruct(d Delta, detections []Detection, legal LegalMoves) (Result, error) {
	var (
		res Result
		err error
	)
	switch shape := ShapeOf(d); shape {
	case ShapeCastle:
		res, err = s.castle(d)
	case ShapeEnPassant:
		res, err = s.enPassant(d)
	case ShapeHeuristicTwoMove:
		res, err = s.heuristicTwoMove(d, detections, legal)
	case ShapeTwoMove:
		res, err = s.twoMove(d, detections)
	default:
		err = newError(NoMoveDetected, len(d), "%d changed squares", len(d))
	}
	if err != nil {
		return Result{}, err
	}
	res.Generation = s.generation
	return res, nil
}

type castlePattern struct {
	king, rook Coordinate
	move       string
	color      Color
	kingTo     Coordinate
	rookTo     Coordinate
	vacated    []Coordinate
}

var castlePatterns = []castlePattern{
	{king: MustCoordinate("e1"), rook: MustCoordinate("a1"), move: "e1c1", color: White,
		kingTo: MustCoordinate("c1"), rookTo: MustCoordinate("d1"),
		vacated: []Coordinate{MustCoordinate("a1"), MustCoordinate("b1"), MustCoordinate("e1")}},
	{king: MustCoordinate("e1"), rook: MustCoordinate("h1"), move: "e1g1", color: White,
		kingTo: MustCoordinate("g1"), rookTo: MustCoordinate("f1"),
		vacated: []Coordinate{MustCoordinate("h1"), MustCoordinate("e1")}},
	{king: MustCoordinate("e8"), rook: MustCoordinate("a8"), move: "e8c8", color: Black,
		kingTo: MustCoordinate("c8"), rookTo: MustCoordinate("d8"),
		vacated: []Coordinate{MustCoordinate("a8"), MustCoordinate("b8"), MustCoordinate("e8")}},
	{king: MustCoordinate("e8"), rook: MustCoordinate("h8"), move: "e8g8", color: Black,
		kingTo: MustCoordinate("g8"), rookTo: MustCoordinate("f8"),
		vacated: []Coordinate{MustCoordinate("h8"), MustCoordinate("e8")}},
}

func (s *State) castle(d Delta) (Result, error) {
	var kings, rooks []Change
	for _, c := range d {
		switch c.Piece.Type() {
		case King:
			kings = append(kings, c)
		case Rook:
			rooks = append(rooks, c)
		}
	}
	if len(kings) != 1 || len(rooks) != 1 {
		return Result{}, newError(NoMoveDetected, len(d), "castle needs one king and one rook, got %d and %d", len(kings), len(rooks))
	}
	king, rook := kings[0].Coord, rooks[0].Coord
	for _, p := range castlePatterns {
		if p.king != king || p.rook != rook {
			continue
		}
		var updates []Update
		for _, c := range p.vacated {
			updates = append(updates, Update{Coord: c, From: s.Piece(c), To: Empty})
		}
		updates = append(updates,
			Update{Coord: p.kingTo, From: s.Piece(p.kingTo), To: NewPiece(p.color, King)},
			Update{Coord: p.rookTo, From: s.Piece(p.rookTo), To: NewPiece(p.color, Rook)},
		)
		return Result{Move: p.move, Shape: ShapeCastle, Updates: updates}, nil
	}
	return Result{}, newError(NoMoveDetected, len(d), "king %s and rook %s match no castle", king, rook)
}

// enPassant only checks the square pattern. Any pawn off the destination
// file qualifies as the origin; the caller rejects moves the rules engine
// does not list as legal.
func (s *State) enPassant(d Delta) (Result, error) {
	dest, _ := enPassantDestination(d)
	var origin, captured *Change
	for i := range d {
		c := &d[i]
		if c.Coord == dest.Coord {
			continue
		}
		switch {
		case c.Coord.File() != dest.Coord.File() && c.Piece.Type() == Pawn:
			origin = c
		case c.Coord.File() == dest.Coord.File():
			captured = c
		}
	}
	if origin == nil || captured == nil {
		return Result{}, newError(NoMoveDetected, len(d), "en passant to %s without origin pawn or captured square", dest.Coord)
	}
	return Result{
		Move:  origin.Coord.String() + dest.Coord.String(),
		Shape: ShapeEnPassant,
		Updates: []Update{
			{Coord: origin.Coord, From: origin.Piece, To: Empty},
			{Coord: dest.Coord, From: dest.Piece, To: origin.Piece},
			{Coord: captured.Coord, From: captured.Piece, To: Empty},
		},
	}, nil
}

// heuristicTwoMove drops OccupiedToEmpty squares that cannot be the origin
// of a legal move onto the destination, then expects a plain two-square
// move to remain.
func (s *State) heuristicTwoMove(d Delta, detections []Detection, legal LegalMoves) (Result, error) {
	dest, ok := d.First(EmptyToOccupied)
	if !ok {
		dest, ok = d.First(ColorChange)
	}
	if !ok {
		return Result{}, newError(NoMoveDetected, len(d), "no destination among %d changed squares", len(d))
	}

	kept := make(Delta, 0, len(d))
	var discarded []Coordinate
	for _, c := range d {
		if c.Kind == OccupiedToEmpty && !legalPair(legal, c.Coord, dest.Coord) {
			discarded = append(discarded, c.Coord)
			continue
		}
		kept = append(kept, c)
	}
	if len(kept) != 2 {
		return Result{}, newError(AmbiguousStartSquare, len(kept), "%d candidates remain for destination %s", len(kept), dest.Coord)
	}

	res, err := s.twoMove(kept, detections)
	if err != nil {
		return Result{}, err
	}
	res.Shape = ShapeHeuristicTwoMove
	res.Discarded = discarded
	return res, nil
}

// legalPair also accepts promotion moves, which the rules engine only lists
// with their suffix.
func legalPair(legal LegalMoves, from, to Coordinate) bool {
	if legal == nil {
		return false
	}
	move := from.String() + to.String()
	if legal.Contains(move) {
		return true
	}
	for _, t := range []PieceType{Queen, Rook, Bishop, Knight} {
		if legal.Contains(move + t.PromotionLetter()) {
			return true
		}
	}
	return false
}

func (s *State) twoMove(d Delta, detections []Detection) (Result, error) {
	a, b := d[0], d[1]
	if a.Piece.IsEmpty() && b.Piece.IsEmpty() {
		return Result{}, newError(InvalidBothEmpty, len(d), "%s and %s", a.Coord, b.Coord)
	}
	if d.Count(OccupiedToEmpty) != 1 {
		return Result{}, newError(NoMoveDetected, len(d), "need one vacated square, got %d", d.Count(OccupiedToEmpty))
	}
	origin, dest := a, b
	if b.Kind == OccupiedToEmpty {
		origin, dest = b, a
	}

	mover := origin.Piece
	res := Result{
		Move:  origin.Coord.String() + dest.Coord.String(),
		Shape: ShapeTwoMove,
		Updates: []Update{
			{Coord: origin.Coord, From: origin.Piece, To: Empty},
			{Coord: dest.Coord, From: dest.Piece, To: mover},
		},
	}

	r := dest.Coord.Rank()
	if mover.Type() == Pawn && (r == Rank1 || r == Rank8) {
		if t := s.promotionType(dest.Coord, detections); t != NoPieceType {
			res.Promotion = t
			res.Updates[1].To = NewPiece(mover.Color(), t)
			res.Move += t.PromotionLetter()
		}
	}
	return res, nil
}

// promotionType picks the most confident knight/bishop/rook/queen detection
// on dest; the earliest wins a tie. Without one it falls back to the first
// detection of the whole frame, whatever its square.
func (s *State) promotionType(dest Coordinate, detections []Detection) PieceType {
	var best *Detection
	inside := Inside(s.squares[dest].Quad, detections)
	for i := range inside {
		det := &inside[i]
		if det.Label.Type().PromotionLetter() == "" {
			continue
		}
		if best == nil || det.Confidence > best.Confidence {
			best = det
		}
	}
	if best == nil {
		if len(detections) == 0 {
			return NoPieceType
		}
		best = &detections[0]
	}
	t := best.Label.Type()
	if t.PromotionLetter() == "" {
		return NoPieceType
	}
	return t
}
