package domain

import "time"

// TrackedGame is a game observed over the board, archived when it ends or
// when the tracker is reset.
type TrackedGame struct {
	ID           int64
	SessionUUID  string
	Orientation  string
	Result       string
	ResultMethod string
	MovesUCI     []string
	MovesSAN     []string
	PGN          string
	OpeningECO   string
	OpeningName  string
	StartedAt    time.Time
	EndedAt      time.Time
	Duration     time.Duration
}
