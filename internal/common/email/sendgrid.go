package email

import (
	"context"
	"fmt"

	apperrors "acc-notifications/internal/common/errors"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridClient is satisfied by *sendgrid.Client.
type SendGridClient interface {
	Send(email *mail.SGMailV3) (*rest.Response, error)
}

type SendGridSender struct {
	client    SendGridClient
	fromEmail string
	fromName  string
}

func NewSendGridSender(apiKey, fromEmail, fromName string) *SendGridSender {
	return NewSendGridSenderWithClient(sendgrid.NewSendClient(apiKey), fromEmail, fromName)
}

func NewSendGridSenderWithClient(client SendGridClient, fromEmail, fromName string) *SendGridSender {
	return &SendGridSender{client: client, fromEmail: fromEmail, fromName: fromName}
}

func (s *SendGridSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := mail.NewV3Mail()
	m.SetFrom(mail.NewEmail(s.fromName, s.fromEmail))
	m.Subject = msg.Subject

	p := mail.NewPersonalization()
	p.AddTos(mail.NewEmail(msg.ToName, msg.To))
	m.AddPersonalizations(p)
	m.AddContent(mail.NewContent("text/plain", msg.Body))

	resp, err := s.client.Send(m)
	if err != nil {
		return apperrors.NewNotificationSendFailedError(s.Provider(), err)
	}
	if resp.StatusCode >= 300 {
		return apperrors.NewNotificationSendFailedError(s.Provider(), fmt.Errorf("status %d: %s", resp.StatusCode, resp.Body))
	}
	return nil
}

func (s *SendGridSender) Provider() string { return "sendgrid" }
