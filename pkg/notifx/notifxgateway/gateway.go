// Package notifxgateway delivers text messages (SMS, WhatsApp) through a
// provider-agnostic HTTP gateway: the message is POSTed as JSON to a
// configured endpoint which owns the carrier integration.
package notifxgateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/oidc-lite/oidc-lite/pkg/notifx"
)

// Sender implements notifx.Sender against an HTTP message gateway.
type Sender struct {
	endpoint string
	apiKey   string
	channel  notifx.Channel
	client   *http.Client
}

// NewSender creates a gateway sender for one channel.
func NewSender(endpoint, apiKey string, channel notifx.Channel) *Sender {
	return &Sender{
		endpoint: endpoint,
		apiKey:   apiKey,
		channel:  channel,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

type gatewayPayload struct {
	Channel string `json:"channel"`
	To      string `json:"to"`
	Content string `json:"content"`
}

// Send POSTs the message to the gateway endpoint. Any non-2xx response is a
// delivery failure.
func (s *Sender) Send(ctx context.Context, msg notifx.Message) error {
	if msg.To == "" {
		return notifx.Errors.New(notifx.ErrInvalidMessage).WithDetail("reason", "no recipient")
	}

	body, err := json.Marshal(gatewayPayload{
		Channel: s.channel.String(),
		To:      msg.To,
		Content: msg.Text,
	})
	if err != nil {
		return notifx.Errors.NewWithCause(notifx.ErrSendFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return notifx.Errors.NewWithCause(notifx.ErrSendFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return notifx.Errors.NewWithCause(notifx.ErrSendFailed, err).
			WithDetail("channel", s.channel.String())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return notifx.Errors.NewWithCause(notifx.ErrSendFailed, fmt.Errorf("gateway returned %d", resp.StatusCode)).
			WithDetail("channel", s.channel.String())
	}
	return nil
}
