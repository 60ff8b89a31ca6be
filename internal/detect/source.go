package detect

import (
	"context"
	"time"
)

// Source yields detector frames to the tracking loop. Next blocks until a
// frame newer than the previous one is available or ctx ends.
type Source interface {
	Next(ctx context.Context) (Frame, error)
}

// Poller turns the REST client into a Source by polling /frames/latest.
// Frames whose sequence number has not advanced are skipped.
type Poller struct {
	client   *Client
	interval time.Duration
	lastSeq  uint64
	seen     bool
}

func NewPoller(client *Client, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	return &Poller{client: client, interval: interval}
}

func (p *Poller) Next(ctx context.Context) (Frame, error) {
	for {
		f, err := p.client.Latest(ctx)
		if err != nil {
			return Frame{}, err
		}
		if !p.seen || f.Seq != p.lastSeq {
			p.seen, p.lastSeq = true, f.Seq
			return *f, nil
		}
		if err := sleepWithContext(ctx, p.interval); err != nil {
			return Frame{}, err
		}
	}
}
