// Package calib loads the camera calibration: the 81 image-space corners
// of the board's 9x9 lattice, indexed 9*h + v.
package calib

import (
	"errors"
	"fmt"
	"os"
	"strings"

	yaml "gopkg.in/yaml.v3"

	"github.com/park285/Cheese-board-tracker/internal/board"
)

const CornerCount = 81

// Calibration is the on-disk calibration document. Left and Right are
// optional boundary colors used instead of the first frame's boundary
// pieces, for setups where the edge pieces are hard to detect.
type Calibration struct {
	Camera  string        `yaml:"camera,omitempty"`
	Corners []board.Point `yaml:"corners"`
	Left    string        `yaml:"left,omitempty"`
	Right   string        `yaml:"right,omitempty"`
}

func Load(path string) (*Calibration, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read calibration: %w", err)
	}
	c, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func Parse(raw []byte) (*Calibration, error) {
	var c Calibration
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse calibration: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Calibration) Validate() error {
	if len(c.Corners) != CornerCount {
		return fmt.Errorf("calibration has %d corners, want %d", len(c.Corners), CornerCount)
	}
	if (c.Left == "") != (c.Right == "") {
		return errors.New("calibration must set both left and right or neither")
	}
	if _, _, ok, err := c.BoundaryOverride(); ok && err != nil {
		return err
	}
	return nil
}

// BoundaryOverride returns the configured boundary colors, if any.
func (c *Calibration) BoundaryOverride() (left, right board.Color, ok bool, err error) {
	if strings.TrimSpace(c.Left) == "" || strings.TrimSpace(c.Right) == "" {
		return board.NoColor, board.NoColor, false, nil
	}
	if left, err = board.ParseColor(c.Left); err != nil {
		return board.NoColor, board.NoColor, true, fmt.Errorf("left: %w", err)
	}
	if right, err = board.ParseColor(c.Right); err != nil {
		return board.NoColor, board.NoColor, true, fmt.Errorf("right: %w", err)
	}
	return left, right, true, nil
}

// Save writes c in the format Load reads.
func (c *Calibration) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	raw, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode calibration: %w", err)
	}
	return os.WriteFile(path, raw, 0o644)
}
