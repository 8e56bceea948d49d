package mailer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/mailgun/mailgun-go/v4"
)

// MailgunConfig holds the configuration for the Mailgun transport
type MailgunConfig struct {
	Domain      string
	APIKey      string
	From        string
	ResetURL    string // base URL the reset token is appended to
	SendTimeout time.Duration
}

func (c *MailgunConfig) validate() error {
	if c.Domain == "" || c.APIKey == "" || c.From == "" {
		return errors.New("invalid Mailgun configuration")
	}
	return nil
}

// MailgunMailer implements Mailer on top of the Mailgun API
type MailgunMailer struct {
	mg     *mailgun.MailgunImpl
	config MailgunConfig
}

// NewMailgunMailer creates a Mailer backed by Mailgun
func NewMailgunMailer(cfg MailgunConfig) (*MailgunMailer, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 30 * time.Second
	}
	return &MailgunMailer{
		mg:     mailgun.NewMailgun(cfg.Domain, cfg.APIKey),
		config: cfg,
	}, nil
}

// SendWelcome sends the post-registration welcome email
func (m *MailgunMailer) SendWelcome(ctx context.Context, toEmail, toName string) error {
	text := fmt.Sprintf(`Hello %s,

Welcome to the course platform! Your account has been created and you can log in right away.

---
This is an automated message, please do not reply.
`, toName)

	return m.send(ctx, toEmail, "Welcome to the course platform", text)
}

// SendPasswordReset sends the reset secret to the account's email address
func (m *MailgunMailer) SendPasswordReset(ctx context.Context, toEmail, toName, resetToken string) error {
	text := fmt.Sprintf(`Hello %s,

We received a request to reset your password. Use the link below to choose a new one:

%s/%s

This link will expire in 10 minutes. If you didn't request a password reset, please ignore this email.

---
This is an automated message, please do not reply.
`, toName, m.config.ResetURL, resetToken)

	return m.send(ctx, toEmail, "Password reset request", text)
}

func (m *MailgunMailer) send(ctx context.Context, toEmail, subject, text string) error {
	ctx, cancel := context.WithTimeout(ctx, m.config.SendTimeout)
	defer cancel()

	message := m.mg.NewMessage(m.config.From, subject, text)
	if err := message.AddRecipient(toEmail); err != nil {
		return fmt.Errorf("failed to add recipient: %w", err)
	}

	_, id, err := m.mg.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	log.Printf("Email queued: %s", id)
	return nil
}
