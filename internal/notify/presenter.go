package notify

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/park285/Cheese-board-tracker/pkg/trackerdto"
)

// Presenter delivers formatted tracker events to one channel.
type Presenter struct {
	egress    Egress
	formatter *Formatter
	channel   string
}

func NewPresenter(egress Egress, formatter *Formatter, channel string) *Presenter {
	return &Presenter{egress: egress, formatter: formatter, channel: channel}
}

func (p *Presenter) Started(ctx context.Context, snap *trackerdto.Snapshot, resumed bool) error {
	if p == nil {
		return nil
	}
	return p.text(ctx, p.formatter.Start(snap, resumed))
}

// Move sends the move line, then the board image, then the game-over
// summary when the move ended the game.
func (p *Presenter) Move(ctx context.Context, out *trackerdto.MoveOutcome) error {
	if p == nil || out == nil {
		return nil
	}
	if err := p.text(ctx, p.formatter.Move(out)); err != nil {
		return err
	}
	if len(out.BoardImage) > 0 && p.egress != nil {
		encoded := base64.StdEncoding.EncodeToString(out.BoardImage)
		if err := p.egress.SendImage(ctx, p.channel, encoded); err != nil {
			return err
		}
	}
	if out.Finished {
		return p.text(ctx, p.formatter.Finished(out))
	}
	return nil
}

// Failure reports errors that will not clear by themselves; retryable
// detector noise is not sent.
func (p *Presenter) Failure(ctx context.Context, de *trackerdto.DomainError) error {
	if p == nil || de == nil || de.Retryable {
		return nil
	}
	return p.text(ctx, p.formatter.Failure(de))
}

func (p *Presenter) Reset(ctx context.Context, gameID int64) error {
	if p == nil {
		return nil
	}
	return p.text(ctx, p.formatter.Reset(gameID))
}

func (p *Presenter) text(ctx context.Context, message string) error {
	if p.egress == nil || strings.TrimSpace(message) == "" {
		return nil
	}
	return p.egress.SendText(ctx, p.channel, message)
}
