// Package email delivers plain-text notification emails through a configurable provider.
package email

import (
	"context"
	"fmt"

	"acc-notifications/internal/common/config"
	"acc-notifications/internal/common/logger"
)

// Message is one outbound plain-text email.
type Message struct {
	To      string
	ToName  string
	Subject string
	Body    string
}

// Sender hands a message to an email transport.
type Sender interface {
	Send(ctx context.Context, msg Message) error
	Provider() string
}

// NewSender builds the sender selected by cfg.Provider.
func NewSender(ctx context.Context, cfg config.EmailConfig, log logger.Logger) (Sender, error) {
	switch cfg.Provider {
	case config.EmailProviderSES:
		return NewSESSender(ctx, cfg.SES.Region, cfg.FromEmail, cfg.FromName)
	case config.EmailProviderSendGrid:
		return NewSendGridSender(cfg.SendGrid.APIKey, cfg.FromEmail, cfg.FromName), nil
	case config.EmailProviderSMTP:
		return NewSMTPSender(SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			UseTLS:   cfg.SMTP.UseTLS,
			From:     cfg.FromEmail,
			FromName: cfg.FromName,
		}), nil
	case config.EmailProviderNone, "":
		return NewLogSender(log), nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.Provider)
	}
}

// LogSender records messages in the log instead of sending them.
type LogSender struct {
	logger logger.Logger
}

func NewLogSender(log logger.Logger) *LogSender {
	return &LogSender{logger: log}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.logger.Debug("Email suppressed", map[string]interface{}{
		"to":      msg.To,
		"subject": msg.Subject,
	})
	return nil
}

func (s *LogSender) Provider() string { return config.EmailProviderNone }

func formatAddress(name, addr string) string {
	if name == "" {
		return addr
	}
	return fmt.Sprintf("%q <%s>", name, addr)
}
