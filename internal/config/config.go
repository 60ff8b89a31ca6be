package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

type AppConfig struct {
	DetectorBaseURL string
	DetectorWSURL   string

	CalibrationFile string

	RedisURL    string
	BadgerDir   string
	DatabaseURL string

	GameDir         string
	SaveBoardImages bool

	SessionTTL    time.Duration
	StableFrames  int
	MinConfidence float64
	PollInterval  time.Duration

	NotifyURL     string
	NotifyChannel string
	MessagesDir   string

	ResumeSession string
}

func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		GameDir:         "games",
		SaveBoardImages: true,
		SessionTTL:      24 * time.Hour,
		StableFrames:    2,
		MinConfidence:   0.1,
		PollInterval:    500 * time.Millisecond,
	}

	cfg.DetectorBaseURL = strings.TrimSpace(os.Getenv("DETECTOR_BASE_URL"))
	cfg.DetectorWSURL = strings.TrimSpace(os.Getenv("DETECTOR_WS_URL"))
	cfg.CalibrationFile = strings.TrimSpace(os.Getenv("CALIBRATION_FILE"))

	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	cfg.BadgerDir = strings.TrimSpace(os.Getenv("BADGER_DIR"))
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))

	if v := strings.TrimSpace(os.Getenv("GAME_DIR")); v != "" {
		cfg.GameDir = v
	}
	if v := strings.TrimSpace(os.Getenv("SAVE_BOARD_IMAGES")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.SaveBoardImages = b
		}
	}
	if v := strings.TrimSpace(os.Getenv("SESSION_TTL")); v != "" { // seconds
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SessionTTL = time.Duration(n) * time.Second
		}
	}
	if v := strings.TrimSpace(os.Getenv("STABLE_FRAMES")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.StableFrames = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("MIN_CONFIDENCE")); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 && f <= 1 {
			cfg.MinConfidence = f
		}
	}
	if v := strings.TrimSpace(os.Getenv("POLL_INTERVAL_MS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.PollInterval = time.Duration(n) * time.Millisecond
		}
	}

	cfg.NotifyURL = strings.TrimSpace(os.Getenv("NOTIFY_URL"))
	cfg.NotifyChannel = strings.TrimSpace(os.Getenv("NOTIFY_CHANNEL"))
	cfg.MessagesDir = strings.TrimSpace(os.Getenv("MESSAGES_DIR"))
	cfg.ResumeSession = strings.TrimSpace(os.Getenv("RESUME_SESSION"))

	if cfg.DetectorBaseURL == "" {
		return nil, errors.New("DETECTOR_BASE_URL is required")
	}
	if cfg.CalibrationFile == "" {
		return nil, errors.New("CALIBRATION_FILE is required")
	}

	return cfg, nil
}
