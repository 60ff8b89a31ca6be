package main

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/park285/Cheese-board-tracker/internal/detect"
	"github.com/park285/Cheese-board-tracker/internal/notify"
	"github.com/park285/Cheese-board-tracker/internal/tracker"
	"github.com/park285/Cheese-board-tracker/pkg/trackerdto"
)

type loop struct {
	tracker       *tracker.Tracker
	presenter     *notify.Presenter
	source        detect.Source
	minConfidence float64
	retryDelay    time.Duration
	logger        *zap.Logger

	// fallback replaces source once it reports detect.ErrStreamFailed.
	fallback func() detect.Source
	// resets carries operator reset requests, served between frames.
	resets <-chan struct{}

	// awaitingSetup holds initialization after a finished or reset game
	// until the pieces are back on their starting squares.
	awaitingSetup bool
	// lastFailure is the code of the last reported failure; a fault that
	// persists across frames is reported once.
	lastFailure string
}

func (l *loop) resume(ctx context.Context, id string) {
	snap, err := l.tracker.Resume(ctx, id)
	if err != nil {
		l.logger.Warn("tracker_resume_failed", zap.String("session", id), zap.Error(err))
		return
	}
	if err := l.presenter.Started(ctx, snap, true); err != nil {
		l.logger.Warn("notify_failed", zap.Error(err))
	}
}

func (l *loop) run(ctx context.Context) {
	for {
		l.serveResets(ctx)
		frame, err := l.source.Next(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, detect.ErrStreamClosed) {
				return
			}
			if errors.Is(err, detect.ErrStreamFailed) {
				if l.fallback == nil {
					l.logger.Error("detector_stream_failed", zap.Error(err))
					return
				}
				l.logger.Warn("detector_stream_failed_polling", zap.Error(err))
				l.source, l.fallback = l.fallback(), nil
				continue
			}
			l.logger.Warn("detector_frame_failed", zap.Error(err))
			if !l.sleep(ctx) {
				return
			}
			continue
		}
		l.handle(ctx, frame)
	}
}

func (l *loop) handle(ctx context.Context, frame detect.Frame) {
	dets := frame.Detections(l.minConfidence)

	if !l.tracker.Initialized() {
		if l.awaitingSetup && !l.tracker.SetupReady(dets) {
			return
		}
		snap, err := l.tracker.Initialize(ctx, dets)
		if err != nil {
			l.logger.Warn("tracker_initialize_failed", zap.Uint64("seq", frame.Seq), zap.Error(err))
			return
		}
		l.awaitingSetup = false
		l.notify(l.presenter.Started(ctx, snap, false))
		return
	}

	out, err := l.tracker.Process(ctx, dets)
	if err != nil {
		if errors.Is(err, tracker.ErrAwaitingStability) {
			return
		}
		l.failure(ctx, tracker.ToDomainError(err))
		return
	}
	l.lastFailure = ""
	if out == nil {
		return
	}
	l.notify(l.presenter.Move(ctx, out))

	if out.Finished {
		if _, err := l.tracker.Reset(ctx); err != nil {
			l.logger.Warn("tracker_reset_failed", zap.Error(err))
		}
		l.awaitingSetup = true
	}
}

// failure reports non-retryable faults once per distinct code. Unchanged
// frames and committed moves clear the last code.
func (l *loop) failure(ctx context.Context, de *trackerdto.DomainError) {
	if de == nil || de.Retryable || de.Code == l.lastFailure {
		return
	}
	l.lastFailure = de.Code
	l.notify(l.presenter.Failure(ctx, de))
}

func (l *loop) serveResets(ctx context.Context) {
	for {
		select {
		case <-l.resets:
			l.resetGame(ctx)
		default:
			return
		}
	}
}

// resetGame drops the tracked game on operator request. An unfinished game
// with moves is archived first.
func (l *loop) resetGame(ctx context.Context) {
	if !l.tracker.Initialized() {
		l.logger.Info("tracker_reset_skipped")
		return
	}
	id, err := l.tracker.Reset(ctx)
	if err != nil {
		l.logger.Warn("tracker_reset_failed", zap.Error(err))
	}
	l.awaitingSetup = true
	l.lastFailure = ""
	l.notify(l.presenter.Reset(ctx, id))
}

func (l *loop) notify(err error) {
	if err != nil {
		l.logger.Warn("notify_failed", zap.Error(err))
	}
}

func (l *loop) sleep(ctx context.Context) bool {
	d := l.retryDelay
	if d <= 0 {
		d = 500 * time.Millisecond
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
