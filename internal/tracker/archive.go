package tracker

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const sessionDirLayout = "2006-01-02_15-04-05"

// boardImagePath returns GAME_DIR/<session start>/<ply>.png.
func boardImagePath(gameDir string, startedAt time.Time, ply int) string {
	return filepath.Join(gameDir, startedAt.Format(sessionDirLayout), strconv.Itoa(ply)+".png")
}

func writeBoardImage(path string, png []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create game dir: %w", err)
	}
	if err := os.WriteFile(path, png, 0o644); err != nil {
		return fmt.Errorf("write board image: %w", err)
	}
	return nil
}
