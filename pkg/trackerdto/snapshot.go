package trackerdto

import "time"

// Snapshot is the externally visible state of a tracked game.
type Snapshot struct {
	SessionUUID string
	Orientation string
	FEN         string
	MovesUCI    []string
	MovesSAN    []string
	Turn        string
	MoveCount   int
	Outcome     string
	OutcomeMeta string
	OpeningECO  string
	OpeningName string
	StartedAt   time.Time
	UpdatedAt   time.Time
}

func (s *Snapshot) Finished() bool {
	return s != nil && s.Outcome != "" && s.Outcome != "*"
}
