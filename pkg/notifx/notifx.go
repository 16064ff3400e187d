// Package notifx defines the outbound delivery-channel abstraction: a single
// Sender capability per channel (mail, SMS, WhatsApp) and a Mux that selects
// the concrete transport by channel type at call time. Concrete transports
// live in sub-packages (notifxses, notifxgateway, notifxconsole).
package notifx

import (
	"context"
)

// Channel discriminates the delivery transport for a message.
type Channel string

const (
	ChannelMail     Channel = "mail"
	ChannelSMS      Channel = "sms"
	ChannelWhatsApp Channel = "whatsapp"
)

// IsValid reports whether the channel is one of the known transports.
func (c Channel) IsValid() bool {
	switch c {
	case ChannelMail, ChannelSMS, ChannelWhatsApp:
		return true
	}
	return false
}

func (c Channel) String() string { return string(c) }

// Message is a single outbound message. Text channels use Text; mail uses
// Subject plus HTML (falling back to Text when HTML is empty).
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject,omitempty"`
	Text    string `json:"text,omitempty"`
	HTML    string `json:"html,omitempty"`
}

// Sender delivers a single message over one transport.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SenderFunc adapts a function to the Sender interface.
type SenderFunc func(ctx context.Context, msg Message) error

func (f SenderFunc) Send(ctx context.Context, msg Message) error { return f(ctx, msg) }

// Mux routes messages to the Sender registered for their channel.
type Mux struct {
	senders map[Channel]Sender
}

// NewMux creates an empty channel mux.
func NewMux() *Mux {
	return &Mux{senders: make(map[Channel]Sender)}
}

// Register installs the sender for a channel, replacing any previous one.
func (m *Mux) Register(ch Channel, s Sender) {
	m.senders[ch] = s
}

// Sender returns the transport registered for a channel.
func (m *Mux) Sender(ch Channel) (Sender, error) {
	if !ch.IsValid() {
		return nil, Errors.NewWithMessage(ErrUnknownChannel, "unknown delivery channel").
			WithDetail("channel", ch.String())
	}
	s, ok := m.senders[ch]
	if !ok {
		return nil, Errors.New(ErrNoSender).WithDetail("channel", ch.String())
	}
	return s, nil
}

// Send delivers msg over the given channel.
func (m *Mux) Send(ctx context.Context, ch Channel, msg Message) error {
	s, err := m.Sender(ch)
	if err != nil {
		return err
	}
	return s.Send(ctx, msg)
}
