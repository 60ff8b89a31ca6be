package notify

import (
	"context"

	"go.uber.org/zap"
)

// Egress abstracts where tracker messages go.
type Egress interface {
	SendText(ctx context.Context, channel, message string) error
	SendImage(ctx context.Context, channel, imageBase64 string) error
}

// NewEgress returns the webhook client when url is set, otherwise an
// egress that only logs.
func NewEgress(url string, logger *zap.Logger, opts ...Option) Egress {
	if url == "" {
		if logger == nil {
			logger = zap.NewNop()
		}
		return &logEgress{logger: logger}
	}
	return NewClient(url, opts...)
}

type logEgress struct {
	logger *zap.Logger
}

func (l *logEgress) SendText(ctx context.Context, channel, message string) error {
	l.logger.Info("notify_text", zap.String("channel", channel), zap.String("message", message))
	return nil
}

func (l *logEgress) SendImage(ctx context.Context, channel, imageBase64 string) error {
	l.logger.Debug("notify_image", zap.String("channel", channel), zap.Int("bytes", len(imageBase64)))
	return nil
}
