// Package notifxconsole logs messages instead of delivering them. Intended
// for development and tests.
package notifxconsole

import (
	"context"

	"github.com/oidc-lite/oidc-lite/pkg/notifx"
	"go.uber.org/zap"
)

// Sender implements notifx.Sender by logging the message via zap.
type Sender struct {
	log     *zap.Logger
	channel notifx.Channel
}

// NewSender creates a console sender labelled with the channel it stands in for.
func NewSender(log *zap.Logger, channel notifx.Channel) *Sender {
	if log == nil {
		log = zap.NewNop()
	}
	return &Sender{log: log, channel: channel}
}

// Send logs the message details.
func (s *Sender) Send(_ context.Context, msg notifx.Message) error {
	s.log.Info("console delivery (dev mode)",
		zap.String("channel", s.channel.String()),
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("text", msg.Text),
	)
	return nil
}
