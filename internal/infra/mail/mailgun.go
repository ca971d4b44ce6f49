package mail

import (
	"context"
	"fmt"
	"time"

	"github.com/mailgun/mailgun-go/v4"

	"github.com/xavierca1/lead-intake/internal/infra/logger"
	"github.com/xavierca1/lead-intake/internal/usecase"
)

type mailgunClient interface {
	NewMessage(from, subject, text string, to ...string) *mailgun.Message
	Send(ctx context.Context, m *mailgun.Message) (string, string, error)
}

// MailgunSender delivers messages through the Mailgun HTTP API.
type MailgunSender struct {
	From   string
	client mailgunClient
}

func NewMailgunSender(domain, apiKey, from string) *MailgunSender {
	return &MailgunSender{
		From:   from,
		client: mailgun.NewMailgun(domain, apiKey),
	}
}

func (s *MailgunSender) Send(ctx context.Context, msg usecase.OutgoingEmail) error {
	message := s.client.NewMessage(s.From, msg.Subject, "", msg.To)
	message.SetHtml(msg.HTML)
	if msg.ReplyTo != "" {
		message.SetReplyTo(msg.ReplyTo)
	}

	sendCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, id, err := s.client.Send(sendCtx, message)
	if err != nil {
		return fmt.Errorf("mailgun send to %s: %w", msg.To, err)
	}

	logger.C(ctx).Debug().Str("to", msg.To).Str("message_id", id).Msg("email sent")
	return nil
}
