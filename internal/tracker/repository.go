package tracker

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/park285/Cheese-board-tracker/internal/domain"
)

// Repository archives tracked games once they finish or are reset.
type Repository interface {
	InsertGame(ctx context.Context, game *domain.TrackedGame) (int64, error)
	GetGameBySession(ctx context.Context, sessionUUID string) (*domain.TrackedGame, error)
	GetRecentGames(ctx context.Context, limit int) ([]*domain.TrackedGame, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// OpenPostgres connects to DATABASE_URL with the pool settings used by the
// tracker binary.
func OpenPostgres(databaseURL string) (*sql.DB, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(16)
	db.SetMaxIdleConns(8)
	db.SetConnMaxLifetime(30 * time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

const schema = `
	CREATE TABLE IF NOT EXISTS tracked_games (
		id            BIGSERIAL PRIMARY KEY,
		session_uuid  TEXT NOT NULL UNIQUE,
		orientation   TEXT NOT NULL,
		result        TEXT NOT NULL,
		result_method TEXT NOT NULL,
		moves_uci     JSONB NOT NULL,
		moves_san     JSONB NOT NULL,
		pgn           TEXT NOT NULL,
		opening_eco   TEXT NOT NULL DEFAULT '',
		opening_name  TEXT NOT NULL DEFAULT '',
		started_at    TIMESTAMPTZ NOT NULL,
		ended_at      TIMESTAMPTZ NOT NULL,
		duration_ms   BIGINT
	)`

func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create tracked_games: %w", err)
	}
	return nil
}

func (r *repository) InsertGame(ctx context.Context, game *domain.TrackedGame) (int64, error) {
	if game == nil {
		return 0, fmt.Errorf("nil tracked game payload")
	}

	movesUCI, err := json.Marshal(game.MovesUCI)
	if err != nil {
		return 0, fmt.Errorf("marshal moves_uci: %w", err)
	}
	movesSAN, err := json.Marshal(game.MovesSAN)
	if err != nil {
		return 0, fmt.Errorf("marshal moves_san: %w", err)
	}

	const query = `
		INSERT INTO tracked_games (
			session_uuid,
			orientation,
			result,
			result_method,
			moves_uci,
			moves_san,
			pgn,
			opening_eco,
			opening_name,
			started_at,
			ended_at,
			duration_ms
		)
		VALUES ($1, $2, $3, $4, $5::jsonb, $6::jsonb, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (session_uuid) DO NOTHING
		RETURNING id`

	var id sql.NullInt64
	err = r.db.QueryRowContext(
		ctx,
		query,
		game.SessionUUID,
		game.Orientation,
		game.Result,
		game.ResultMethod,
		movesUCI,
		movesSAN,
		game.PGN,
		game.OpeningECO,
		game.OpeningName,
		game.StartedAt,
		game.EndedAt,
		game.Duration.Milliseconds(),
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !id.Valid) {
		return 0, ErrDuplicateGame
	}
	if err != nil {
		return 0, fmt.Errorf("insert tracked game: %w", err)
	}
	return id.Int64, nil
}

const selectGame = `
	SELECT
		id,
		session_uuid,
		orientation,
		result,
		result_method,
		moves_uci,
		moves_san,
		pgn,
		opening_eco,
		opening_name,
		started_at,
		ended_at,
		duration_ms
	FROM tracked_games`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGame(row rowScanner) (*domain.TrackedGame, error) {
	var (
		game         domain.TrackedGame
		movesUCIJSON []byte
		movesSANJSON []byte
		durationMS   sql.NullInt64
	)
	if err := row.Scan(
		&game.ID,
		&game.SessionUUID,
		&game.Orientation,
		&game.Result,
		&game.ResultMethod,
		&movesUCIJSON,
		&movesSANJSON,
		&game.PGN,
		&game.OpeningECO,
		&game.OpeningName,
		&game.StartedAt,
		&game.EndedAt,
		&durationMS,
	); err != nil {
		return nil, err
	}
	if durationMS.Valid {
		game.Duration = time.Duration(durationMS.Int64) * time.Millisecond
	}
	if err := json.Unmarshal(movesUCIJSON, &game.MovesUCI); err != nil {
		return nil, fmt.Errorf("unmarshal moves_uci: %w", err)
	}
	if err := json.Unmarshal(movesSANJSON, &game.MovesSAN); err != nil {
		return nil, fmt.Errorf("unmarshal moves_san: %w", err)
	}
	return &game, nil
}

func (r *repository) GetGameBySession(ctx context.Context, sessionUUID string) (*domain.TrackedGame, error) {
	row := r.db.QueryRowContext(ctx, selectGame+` WHERE session_uuid = $1 LIMIT 1`, sessionUUID)
	game, err := scanGame(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select tracked game by session: %w", err)
	}
	return game, nil
}

func (r *repository) GetRecentGames(ctx context.Context, limit int) ([]*domain.TrackedGame, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.QueryContext(ctx, selectGame+` ORDER BY ended_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("select tracked games: %w", err)
	}
	defer rows.Close()

	games := make([]*domain.TrackedGame, 0, limit)
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tracked game: %w", err)
		}
		games = append(games, game)
	}
	return games, rows.Err()
}
