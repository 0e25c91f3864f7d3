package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/mariphil/foundation-site/internal/domain/donation"
)

// Sender delivers a single HTML email.
type Sender interface {
	Send(ctx context.Context, to, subject, html string) error
}

// SendClient is the part of the SendGrid client used here.
type SendClient interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// SendGrid sends mail through the SendGrid v3 API.
type SendGrid struct {
	client  SendClient
	from    *mail.Email
	timeout time.Duration
}

func NewSendGrid(apiKey, fromEmail, fromName string, timeout time.Duration) *SendGrid {
	return NewSendGridWithClient(sendgrid.NewSendClient(apiKey), fromEmail, fromName, timeout)
}

func NewSendGridWithClient(client SendClient, fromEmail, fromName string, timeout time.Duration) *SendGrid {
	return &SendGrid{
		client:  client,
		from:    mail.NewEmail(fromName, fromEmail),
		timeout: timeout,
	}
}

func (s *SendGrid) Send(ctx context.Context, to, subject, html string) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	msg := mail.NewSingleEmail(s.from, subject, mail.NewEmail("", to), "", html)
	resp, err := s.client.SendWithContext(ctx, msg)
	if err != nil {
		return &donation.UpstreamError{Service: "sendgrid", Err: err}
	}
	if resp.StatusCode >= 300 {
		return &donation.UpstreamError{
			Service: "sendgrid",
			Err:     fmt.Errorf("unexpected status %d: %s", resp.StatusCode, resp.Body),
		}
	}
	slog.DebugContext(ctx, "Email sent", slog.String("subject", subject), slog.Int("status", resp.StatusCode))
	return nil
}

// LogSender only logs outgoing mail. It is used when no SendGrid key is set.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, to, subject, html string) error {
	slog.InfoContext(ctx, "Email delivery disabled, message not sent",
		slog.String("to", to),
		slog.String("subject", subject),
		slog.Int("bytes", len(html)),
	)
	return nil
}
