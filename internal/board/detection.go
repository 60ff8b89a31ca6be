package board

// Detection is one detector observation for a frame.
type Detection struct {
	Point      Point   `json:"point"`
	Label      Label   `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Inside returns the detections whose point falls in q, preserving order.
func Inside(q Quad, detections []Detection) []Detection {
	var out []Detection
	for _, d := range detections {
		if q.Contains(d.Point) {
			out = append(out, d)
		}
	}
	return out
}

// MoveSet is a set of legal moves in coordinate notation ("e2e4", "e7e8q").
type MoveSet map[string]struct{}

func NewMoveSet(moves ...string) MoveSet {
	set := make(MoveSet, len(moves))
	for _, m := range moves {
		set[m] = struct{}{}
	}
	return set
}

func (s MoveSet) Add(move string) { s[move] = struct{}{} }

func (s MoveSet) Contains(move string) bool {
	_, ok := s[move]
	return ok
}

// LegalMoves answers membership queries for the heuristic filter.
type LegalMoves interface {
	Contains(move string) bool
}
