package detect

import (
	"time"

	"github.com/park285/Cheese-board-tracker/internal/board"
)

// Box is one detector bounding box in image pixels.
type Box struct {
	XMin       float64 `json:"xmin"`
	YMin       float64 `json:"ymin"`
	XMax       float64 `json:"xmax"`
	YMax       float64 `json:"ymax"`
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Frame is the detector output for one captured image.
type Frame struct {
	Seq        uint64    `json:"seq"`
	CapturedAt time.Time `json:"captured_at"`
	Boxes      []Box     `json:"boxes"`
}

// Detections converts the frame's boxes to anchor-point detections,
// dropping boxes below minConfidence. Order is preserved.
func (f Frame) Detections(minConfidence float64) []board.Detection {
	out := make([]board.Detection, 0, len(f.Boxes))
	for _, b := range f.Boxes {
		if b.Confidence < minConfidence {
			continue
		}
		out = append(out, board.Detection{Point: Anchor(b), Label: board.Label(b.Label), Confidence: b.Confidence})
	}
	return out
}

type Health struct {
	Status string  `json:"status"`
	Model  string  `json:"model"`
	FPS    float64 `json:"fps"`
}

func (h Health) OK() bool { return h.Status == "ok" }
