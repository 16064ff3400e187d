// Package otpsrv orchestrates OTP issuance: one generated code fanned out
// across the requested delivery channels, and single-use validation of
// submitted codes.
package otpsrv

import (
	"context"
	"fmt"

	"github.com/oidc-lite/oidc-lite/pkg/asyncx"
	"github.com/oidc-lite/oidc-lite/pkg/idp/otp"
	"github.com/oidc-lite/oidc-lite/pkg/notifx"
	"go.uber.org/zap"
)

// Outcome is the caller-visible result of a send or validate operation.
type Outcome struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

const (
	mailSubject = "Your OIDC OTP"

	msgSent        = "OTP sent successfully"
	msgSendFailed  = "Failed to send OTP"
	msgCodeValid   = "OTP is valid and verified"
	msgCodeInvalid = "OTP is invalid or expired"
)

type DispatchService struct {
	store   *otp.Store
	mux     *notifx.Mux
	limiter otp.RateLimiter
	log     *zap.Logger
}

// NewDispatchService wires the OTP store to the delivery channel mux. The
// rate limiter is optional; nil disables the per-recipient cooldown.
func NewDispatchService(store *otp.Store, mux *notifx.Mux, limiter otp.RateLimiter, log *zap.Logger) *DispatchService {
	if log == nil {
		log = zap.NewNop()
	}
	return &DispatchService{store: store, mux: mux, limiter: limiter, log: log}
}

// SendOTP generates one code and delivers it over every requested channel
// concurrently. The same code is reused across all channels of one call, so
// the user can confirm it regardless of which channel actually reached them.
// If any delivery fails the whole operation reports failure without naming
// the failed channel.
func (s *DispatchService) SendOTP(ctx context.Context, channels []notifx.Channel, recipient string) (*Outcome, error) {
	if recipient == "" {
		return nil, otp.ErrInvalidInput("recipient is required")
	}
	if len(channels) == 0 {
		return nil, otp.ErrInvalidInput("at least one delivery channel is required")
	}
	for _, ch := range channels {
		if !ch.IsValid() {
			return nil, otp.ErrInvalidInput(fmt.Sprintf("unknown delivery channel %q", ch))
		}
	}

	if s.limiter != nil {
		allowed, err := s.limiter.Allow(ctx, recipient)
		if err != nil {
			// A limiter outage must not block sign-in; fail open.
			s.log.Warn("otp rate limiter unavailable", zap.Error(err))
		} else if !allowed {
			return nil, otp.ErrTooManyRequests()
		}
	}

	code, err := s.store.Generate(otp.DefaultCodeLength)
	if err != nil {
		return nil, otp.ErrSendFailed(err)
	}

	err = asyncx.ForEach(ctx, channels, func(ctx context.Context, ch notifx.Channel) error {
		return s.mux.Send(ctx, ch, buildMessage(ch, recipient, code))
	})
	if err != nil {
		// The code stays outstanding; the caller may retry the whole send.
		s.log.Warn("otp delivery failed",
			zap.String("recipient", recipient),
			zap.Error(err),
		)
		return &Outcome{Success: false, Message: msgSendFailed}, nil
	}

	s.log.Info("otp sent",
		zap.String("recipient", recipient),
		zap.Int("channels", len(channels)),
	)
	return &Outcome{Success: true, Message: msgSent}, nil
}

// ValidateOTP checks a submitted code. Validation consumes the code on
// success; a second attempt with the same code always fails.
func (s *DispatchService) ValidateOTP(ctx context.Context, code string) (*Outcome, error) {
	if code == "" {
		return nil, otp.ErrInvalidInput("otp code is required")
	}

	if s.store.Validate(code) {
		return &Outcome{Success: true, Message: msgCodeValid}, nil
	}
	return &Outcome{Success: false, Message: msgCodeInvalid}, nil
}

func buildMessage(ch notifx.Channel, recipient, code string) notifx.Message {
	if ch == notifx.ChannelMail {
		return notifx.Message{
			To:      recipient,
			Subject: mailSubject,
			HTML:    fmt.Sprintf("<p>Your OTP for OIDC is <strong>%s</strong></p>", code),
		}
	}
	return notifx.Message{
		To:   recipient,
		Text: fmt.Sprintf("Your OTP for OIDC is %s", code),
	}
}
