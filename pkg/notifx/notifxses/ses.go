// Package notifxses implements the mail delivery channel on AWS SES.
package notifxses

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/oidc-lite/oidc-lite/pkg/notifx"
)

// Sender implements notifx.Sender for the mail channel using AWS SES.
type Sender struct {
	client      *ses.Client
	fromAddress string
}

// NewSender creates a new SES mail sender.
func NewSender(client *ses.Client, fromAddress string) *Sender {
	return &Sender{
		client:      client,
		fromAddress: fromAddress,
	}
}

// Send delivers one mail message via SES.
func (s *Sender) Send(ctx context.Context, msg notifx.Message) error {
	if msg.To == "" {
		return notifx.Errors.New(notifx.ErrInvalidMessage).WithDetail("reason", "no recipient")
	}

	body := &types.Body{}
	if msg.HTML != "" {
		body.Html = &types.Content{
			Data:    aws.String(msg.HTML),
			Charset: aws.String("UTF-8"),
		}
	} else {
		body.Text = &types.Content{
			Data:    aws.String(msg.Text),
			Charset: aws.String("UTF-8"),
		}
	}

	input := &ses.SendEmailInput{
		Source: aws.String(s.fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{msg.To},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(msg.Subject),
				Charset: aws.String("UTF-8"),
			},
			Body: body,
		},
	}

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return notifx.Errors.NewWithCause(notifx.ErrSendFailed, err).
			WithDetail("channel", notifx.ChannelMail.String())
	}
	return nil
}
