package trackerdto

// MoveOutcome describes one committed move.
type MoveOutcome struct {
	UCI        string
	SAN        string
	Ply        int
	Shape      string
	Discarded  []string
	Resynced   bool
	Finished   bool
	GameID     int64
	BoardImage []byte
	ImagePath  string
	State      *Snapshot
}
