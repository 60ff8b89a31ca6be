package tracker

import "github.com/park285/Cheese-board-tracker/internal/board"

// stabilityGate holds a reconstructed move until the same move has been
// seen on the required number of consecutive frames.
type stabilityGate struct {
	required int
	move     string
	gen      uint64
	seen     int
}

func newStabilityGate(required int) *stabilityGate {
	if required < 1 {
		required = 1
	}
	return &stabilityGate{required: required}
}

// observe records r and reports whether it may be committed.
func (g *stabilityGate) observe(r board.Result) bool {
	if r.Move != g.move || r.Generation != g.gen {
		g.move, g.gen, g.seen = r.Move, r.Generation, 0
	}
	g.seen++
	return g.seen >= g.required
}

func (g *stabilityGate) reset() {
	g.move, g.gen, g.seen = "", 0, 0
}

func (g *stabilityGate) pending() int {
	return g.seen
}
