// Package mail sends operational notification emails. Delivery is best
// effort: callers fire the send in the background and only log failures.
package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"
)

// AdminCreatedNotice carries the details of a newly registered admin.
type AdminCreatedNotice struct {
	Username  string
	Email     string
	FullName  string
	CreatedAt time.Time
}

// Notifier sends notification emails.
type Notifier interface {
	AdminCreated(ctx context.Context, notice AdminCreatedNotice) error
}

// SMTPConfig holds the settings for the SMTP notifier.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string
}

// SMTPNotifier delivers notifications over SMTP.
type SMTPNotifier struct {
	cfg SMTPConfig
}

// NewSMTPNotifier creates a notifier for the given SMTP settings.
func NewSMTPNotifier(cfg SMTPConfig) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg}
}

// AdminCreated emails the configured recipient about the new admin account.
func (n *SMTPNotifier) AdminCreated(_ context.Context, notice AdminCreatedNotice) error {
	var body strings.Builder
	fmt.Fprintf(&body, "From: %s\r\n", n.cfg.From)
	fmt.Fprintf(&body, "To: %s\r\n", n.cfg.To)
	fmt.Fprintf(&body, "Subject: New admin user created\r\n")
	fmt.Fprintf(&body, "\r\n")
	fmt.Fprintf(&body, "A new admin account was registered.\r\n\r\n")
	fmt.Fprintf(&body, "Username: %s\r\n", notice.Username)
	if notice.FullName != "" {
		fmt.Fprintf(&body, "Full name: %s\r\n", notice.FullName)
	}
	if notice.Email != "" {
		fmt.Fprintf(&body, "Email: %s\r\n", notice.Email)
	}
	fmt.Fprintf(&body, "Created at: %s\r\n", notice.CreatedAt.UTC().Format(time.RFC3339))

	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)
	auth := smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)

	if err := smtp.SendMail(addr, auth, n.cfg.From, []string{n.cfg.To}, []byte(body.String())); err != nil {
		return fmt.Errorf("send admin-created mail: %w", err)
	}
	return nil
}

// NopNotifier discards all notifications. Used when SMTP is not configured.
type NopNotifier struct{}

// AdminCreated does nothing.
func (NopNotifier) AdminCreated(context.Context, AdminCreatedNotice) error { return nil }
