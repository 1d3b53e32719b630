// Package notify delivers outbound email in the background.
package notify

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/chengtian/temple-backend/pkg/logger"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

var (
	ErrMailDisabled = errors.New("mail delivery not configured")
	ErrSendFailed   = errors.New("mail provider rejected message")
)

type Message struct {
	To      string
	Subject string
	HTML    string
	Kind    string // 템플릿 이름, 로그용
}

// Mailer delivers a single message.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SendGridMailer sends through the SendGrid v3 API.
type SendGridMailer struct {
	client *sendgrid.Client
	from   *mail.Email
}

func NewSendGridMailer(apiKey, sender, senderName string) (*SendGridMailer, error) {
	if apiKey == "" || sender == "" {
		return nil, ErrMailDisabled
	}
	return &SendGridMailer{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail(senderName, sender),
	}, nil
}

func (m *SendGridMailer) Send(ctx context.Context, msg Message) error {
	email := mail.NewSingleEmail(m.from, msg.Subject, mail.NewEmail("", msg.To), "", msg.HTML)

	resp, err := m.client.SendWithContext(ctx, email)
	if err != nil {
		return fmt.Errorf("sendgrid request failed: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: status %d: %s", ErrSendFailed, resp.StatusCode, resp.Body)
	}
	return nil
}

// Disabled is the Mailer used when no provider credentials are configured.
type Disabled struct{}

func (Disabled) Send(_ context.Context, msg Message) error {
	logger.Warn("Mail delivery disabled, message dropped", map[string]interface{}{
		"kind": msg.Kind,
	})
	return ErrMailDisabled
}
