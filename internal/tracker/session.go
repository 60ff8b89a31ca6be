package tracker

import (
	"context"
	"time"

	"github.com/park285/Cheese-board-tracker/internal/board"
)

// LatestSession is accepted by Resume in place of a session id.
const LatestSession = "latest"

// Session is the resumable part of a tracked game. The board placement is
// not stored; it is rebuilt by replaying Moves.
type Session struct {
	ID          string        `json:"id"`
	Orientation string        `json:"orientation"`
	Corners     []board.Point `json:"corners"`
	Moves       []string      `json:"moves"`
	StartedAt   time.Time     `json:"started_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// SessionStore persists sessions between restarts. Load returns nil, nil
// when the session does not exist.
type SessionStore interface {
	Save(ctx context.Context, s *Session, ttl time.Duration) error
	Load(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	Latest(ctx context.Context) (string, error)
}

func sessionKey(id string) string { return "tracker:session:" + id }

const latestKey = "tracker:session:latest"
