package board

// Commit applies a result's updates. It is the only occupancy mutator. A
// result computed against another generation is rejected untouched.
func (s *State) Commit(r Result) error {
	if r.Generation != s.generation {
		return ErrStaleGeneration
	}
	for _, u := range r.Updates {
		s.squares[u.Coord].Piece = u.To
	}
	s.generation++
	return nil
}
