package trackerbuilder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/park285/Cheese-board-tracker/internal/calib"
	"github.com/park285/Cheese-board-tracker/internal/config"
	"github.com/park285/Cheese-board-tracker/internal/msgcat"
	"github.com/park285/Cheese-board-tracker/internal/notify"
	"github.com/park285/Cheese-board-tracker/internal/render"
	"github.com/park285/Cheese-board-tracker/internal/tracker"
)

type Deps struct {
	Tracker   *tracker.Tracker
	Store     tracker.SessionStore
	Repo      tracker.Repository
	Presenter *notify.Presenter

	closers []io.Closer
}

// Close releases the session store and database handles.
func (d *Deps) Close() error {
	if d == nil {
		return nil
	}
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func New(cfg *config.AppConfig, cal *calib.Calibration, logger *zap.Logger) (*Deps, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	if cal == nil {
		return nil, fmt.Errorf("nil calibration")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	deps := &Deps{}
	fail := func(err error) (*Deps, error) {
		_ = deps.Close()
		return nil, err
	}

	// Session store: Redis when configured, otherwise local Badger.
	switch {
	case strings.TrimSpace(cfg.RedisURL) != "":
		store, err := tracker.NewRedisStore(cfg.RedisURL)
		if err != nil {
			return fail(fmt.Errorf("init redis store: %w", err))
		}
		deps.Store = store
		deps.closers = append(deps.closers, store)
		logger.Info("session_store", zap.String("kind", "redis"))
	case strings.TrimSpace(cfg.BadgerDir) != "":
		store, err := tracker.NewBadgerStore(cfg.BadgerDir)
		if err != nil {
			return fail(fmt.Errorf("init badger store: %w", err))
		}
		deps.Store = store
		deps.closers = append(deps.closers, store)
		logger.Info("session_store", zap.String("kind", "badger"), zap.String("dir", cfg.BadgerDir))
	default:
		logger.Warn("session_store_disabled", zap.String("hint", "set REDIS_URL or BADGER_DIR to resume sessions"))
	}

	// Repository: Postgres when configured, otherwise in memory.
	if strings.TrimSpace(cfg.DatabaseURL) != "" {
		db, err := tracker.OpenPostgres(cfg.DatabaseURL)
		if err != nil {
			return fail(fmt.Errorf("open postgres: %w", err))
		}
		deps.closers = append(deps.closers, db)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = tracker.EnsureSchema(ctx, db)
		cancel()
		if err != nil {
			return fail(err)
		}
		deps.Repo = tracker.NewRepository(db)
	} else {
		logger.Warn("game_repository_in_memory")
		deps.Repo = tracker.NewMemoryRepository()
	}

	catalog, err := msgcat.New(cfg.MessagesDir)
	if err != nil {
		return fail(fmt.Errorf("load messages: %w", err))
	}
	egress := notify.NewEgress(cfg.NotifyURL, logger)
	deps.Presenter = notify.NewPresenter(egress, notify.NewFormatter(catalog), cfg.NotifyChannel)

	trCfg := tracker.Config{
		StableFrames:    cfg.StableFrames,
		SessionTTL:      cfg.SessionTTL,
		GameDir:         cfg.GameDir,
		SaveBoardImages: cfg.SaveBoardImages,
	}
	deps.Tracker = tracker.New(cal.Corners, deps.Store, deps.Repo, render.NewSVGBoardRenderer(), trCfg, logger)

	left, right, ok, err := cal.BoundaryOverride()
	if err != nil {
		return fail(fmt.Errorf("calibration boundary: %w", err))
	}
	if ok {
		deps.Tracker.SetBoundaryOverride(left, right)
	}
	return deps, nil
}
