package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/park285/Cheese-board-tracker/internal/calib"
	appcfg "github.com/park285/Cheese-board-tracker/internal/config"
	"github.com/park285/Cheese-board-tracker/internal/detect"
	"github.com/park285/Cheese-board-tracker/internal/obslog"
	"github.com/park285/Cheese-board-tracker/internal/trackerbuilder"
)

func main() {
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer obslog.Sync()
	logger := obslog.L()

	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	cal, err := calib.Load(cfg.CalibrationFile)
	if err != nil {
		log.Fatalf("calibration error: %v", err)
	}

	deps, err := trackerbuilder.New(cfg, cal, logger)
	if err != nil {
		log.Fatalf("tracker init error: %v", err)
	}
	defer func() { _ = deps.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := detect.NewClient(cfg.DetectorBaseURL)
	hctx, hcancel := context.WithTimeout(ctx, 5*time.Second)
	if h, err := client.Health(hctx); err != nil {
		logger.Warn("detector_health_failed", zap.Error(err))
	} else {
		logger.Info("detector_health", zap.String("status", h.Status), zap.String("model", h.Model), zap.Float64("fps", h.FPS))
	}
	hcancel()

	var (
		src      detect.Source
		fallback func() detect.Source
	)
	if cfg.DetectorWSURL != "" {
		stream := detect.NewStream(cfg.DetectorWSURL,
			detect.WithStreamLogger(logger),
			detect.WithStateCallback(func(s detect.StreamState) {
				logger.Info("detector_stream_state", zap.String("state", s.String()))
			}),
		)
		cctx, ccancel := context.WithTimeout(ctx, 10*time.Second)
		err := stream.Connect(cctx)
		ccancel()
		if err != nil {
			logger.Warn("detector_stream_connect_failed", zap.Error(err))
		}
		defer func() { _ = stream.Close(context.Background()) }()
		src = stream
		fallback = func() detect.Source { return detect.NewPoller(client, cfg.PollInterval) }
	} else {
		src = detect.NewPoller(client, cfg.PollInterval)
	}

	// SIGHUP resets the tracked game.
	resets := make(chan struct{}, 1)
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-hup:
				select {
				case resets <- struct{}{}:
				default:
				}
			}
		}
	}()

	lp := &loop{
		tracker:       deps.Tracker,
		presenter:     deps.Presenter,
		source:        src,
		fallback:      fallback,
		resets:        resets,
		minConfidence: cfg.MinConfidence,
		retryDelay:    cfg.PollInterval,
		logger:        logger,
	}
	if cfg.ResumeSession != "" {
		lp.resume(ctx, cfg.ResumeSession)
	}
	lp.run(ctx)

	// The session stays in the store so the next start can resume it.
	if snap := deps.Tracker.Snapshot(); snap != nil {
		logger.Info("tracker_shutdown", zap.String("session", snap.SessionUUID), zap.Int("moves", snap.MoveCount))
	}
}
