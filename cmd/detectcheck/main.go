package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/park285/Cheese-board-tracker/internal/detect"
)

// detectcheck probes the detector: REST health, one latest frame and, when
// DETECTOR_WS_URL is set, a short stream observation window.
func main() {
	baseURL := strings.TrimSpace(os.Getenv("DETECTOR_BASE_URL"))
	wsURL := strings.TrimSpace(os.Getenv("DETECTOR_WS_URL"))
	token := strings.TrimSpace(os.Getenv("DETECTOR_TOKEN"))

	if baseURL == "" {
		log.Fatal("DETECTOR_BASE_URL is required")
	}

	headers := func() map[string]string {
		m := map[string]string{}
		if token != "" {
			m["Authorization"] = "Bearer " + token
		}
		return m
	}

	client := detect.NewClient(baseURL,
		detect.WithHeaderProvider(headers),
		detect.WithTimeout(8*time.Second),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	h, err := client.Health(ctx)
	if err != nil {
		log.Printf("/health error: %v", err)
	} else {
		log.Printf("/health ok=%t status=%s model=%s fps=%.1f", h.OK(), h.Status, h.Model, h.FPS)
	}

	f, err := client.Latest(ctx)
	if err != nil {
		log.Printf("/frames/latest error: %v", err)
	} else {
		describe("latest", *f)
	}

	if wsURL == "" {
		log.Println("DETECTOR_WS_URL not set; skipping stream check")
		return
	}

	stream := detect.NewStream(wsURL,
		detect.WithStreamHeaders(headers),
		detect.WithReconnect(0),
		detect.WithStateCallback(func(s detect.StreamState) {
			log.Printf("stream state: %s", s)
		}),
	)
	cctx, ccancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer ccancel()
	if err := stream.Connect(cctx); err != nil {
		log.Printf("stream connect error: %v", err)
		return
	}
	defer func() { _ = stream.Close(context.Background()) }()

	// Observe for a short window
	octx, ocancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer ocancel()
	frames := 0
	for {
		f, err := stream.Next(octx)
		if err != nil {
			if !errors.Is(err, context.DeadlineExceeded) {
				log.Printf("stream error: %v", err)
			}
			break
		}
		frames++
		describe("stream", f)
	}
	log.Printf("stream observed=%d dropped=%d", frames, stream.Dropped())
}

func describe(source string, f detect.Frame) {
	dets := f.Detections(0)
	boundary := "none"
	if left, right, err := detect.BoundaryColors(dets); err == nil {
		boundary = fmt.Sprintf("left=%s right=%s", left, right)
	}
	fmt.Printf("%s seq=%d boxes=%d boundary=%s\n", source, f.Seq, len(f.Boxes), boundary)
}
