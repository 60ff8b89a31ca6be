package tracker

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/park285/Cheese-board-tracker/internal/domain"
)

// memrepo is the in-memory repository used when no database is configured.
type memrepo struct {
	mu sync.RWMutex

	nextID int64

	gamesByID      map[int64]*domain.TrackedGame
	gamesBySession map[string]*domain.TrackedGame
}

func NewMemoryRepository() Repository {
	return &memrepo{
		gamesByID:      make(map[int64]*domain.TrackedGame),
		gamesBySession: make(map[string]*domain.TrackedGame),
	}
}

func (m *memrepo) InsertGame(ctx context.Context, game *domain.TrackedGame) (int64, error) {
	if game == nil {
		return 0, ErrDuplicateGame
	}
	key := strings.TrimSpace(game.SessionUUID)

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.gamesBySession[key]; exists {
		return 0, ErrDuplicateGame
	}

	m.nextID++
	stored := *game
	stored.ID = m.nextID
	stored.MovesUCI = append([]string(nil), game.MovesUCI...)
	stored.MovesSAN = append([]string(nil), game.MovesSAN...)

	m.gamesByID[stored.ID] = &stored
	m.gamesBySession[key] = &stored
	return stored.ID, nil
}

func (m *memrepo) GetGameBySession(ctx context.Context, sessionUUID string) (*domain.TrackedGame, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if g, ok := m.gamesBySession[strings.TrimSpace(sessionUUID)]; ok && g != nil {
		out := *g
		return &out, nil
	}
	return nil, nil
}

func (m *memrepo) GetRecentGames(ctx context.Context, limit int) ([]*domain.TrackedGame, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	items := make([]*domain.TrackedGame, 0, len(m.gamesByID))
	for _, g := range m.gamesByID {
		out := *g
		items = append(items, &out)
	}
	// ended_at desc, then id desc
	sort.Slice(items, func(i, j int) bool {
		if !items[i].EndedAt.Equal(items[j].EndedAt) {
			return items[i].EndedAt.After(items[j].EndedAt)
		}
		return items[i].ID > items[j].ID
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}
