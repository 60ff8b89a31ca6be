package board

// ChangeKind is how a square's occupancy appears to have changed.
type ChangeKind uint8

const (
	EmptyToOccupied ChangeKind = iota + 1
	OccupiedToEmpty
	ColorChange
)

func (k ChangeKind) String() string {
	switch k {
	case EmptyToOccupied:
		return "empty_to_occupied"
	case OccupiedToEmpty:
		return "occupied_to_empty"
	case ColorChange:
		return "color_change"
	default:
		return "none"
	}
}

// Change is one changed square. Piece is the occupant before the change.
type Change struct {
	Coord Coordinate
	Kind  ChangeKind
	Piece Piece
}

// Delta is the changed-square set of one decision cycle. It is produced
// fresh by Classify and never stored on the State.
type Delta []Change

func (d Delta) Len() int { return len(d) }

// Count returns how many changes have kind k.
func (d Delta) Count(k ChangeKind) int {
	n := 0
	for _, c := range d {
		if c.Kind == k {
			n++
		}
	}
	return n
}

// First returns the first change of kind k.
func (d Delta) First(k ChangeKind) (Change, bool) {
	for _, c := range d {
		if c.Kind == k {
			return c, true
		}
	}
	return Change{}, false
}

// Classify compares every square against the detections that fall inside
// it and returns the squares whose occupancy changed, in coordinate order.
//
// Per square, detections are scanned in input order and the first decisive
// one wins: any detection on an empty square is EmptyToOccupied, a
// detection of the other color is ColorChange, and one matching both color
// and type leaves the square unchanged. An occupied square with no
// detection at all is OccupiedToEmpty.
func (s *State) Classify(detections []Detection) Delta {
	var delta Delta
	for _, sq := range s.squares {
		kind, changed := classifySquare(sq, detections)
		if changed {
			delta = append(delta, Change{Coord: sq.Coord, Kind: kind, Piece: sq.Piece})
		}
	}
	return delta
}

func classifySquare(sq Square, detections []Detection) (ChangeKind, bool) {
	found := false
	for _, d := range detections {
		if !sq.Quad.Contains(d.Point) {
			continue
		}
		found = true
		if sq.IsEmpty() {
			return EmptyToOccupied, true
		}
		color := d.Label.Color()
		if color != NoColor && color != sq.Piece.Color() {
			return ColorChange, true
		}
		if color == sq.Piece.Color() && d.Label.Type() == sq.Piece.Type() {
			return 0, false
		}
	}
	if !sq.IsEmpty() && !found {
		return OccupiedToEmpty, true
	}
	return 0, false
}
