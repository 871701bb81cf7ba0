package service

import (
	"context"
	"fmt"
	"net/url"

	"github.com/wneessen/go-mail"
)

// Mailer sends transactional email. Implementations are expected to be
// safe for concurrent use.
type Mailer interface {
	SendVerificationEmail(ctx context.Context, to, verifyURL string) error
}

// SMTPMailer sends email over SMTP using go-mail.
type SMTPMailer struct {
	client *mail.Client
	from   string
}

// SMTPMailerConfig holds SMTP connection settings
type SMTPMailerConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// NewSMTPMailer creates a mailer connected to the configured SMTP relay.
func NewSMTPMailer(cfg SMTPMailerConfig) (*SMTPMailer, error) {
	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.User),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}

	return &SMTPMailer{
		client: client,
		from:   cfg.From,
	}, nil
}

// SendVerificationEmail sends the account verification link.
func (m *SMTPMailer) SendVerificationEmail(ctx context.Context, to, verifyURL string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid to address: %w", err)
	}

	msg.Subject("Verify your email address")
	msg.SetBodyString(mail.TypeTextPlain, fmt.Sprintf(
		"Welcome!\n\nPlease confirm your email address by opening the link below:\n\n%s\n\nIf you did not create an account, you can ignore this message.\n",
		verifyURL,
	))

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send verification email: %w", err)
	}
	return nil
}

// VerificationURL builds the link embedded in the verification email.
func VerificationURL(baseURL, token string) string {
	return fmt.Sprintf("%s/api/auth/verify-email?token=%s", baseURL, url.QueryEscape(token))
}
