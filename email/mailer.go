// Package email delivers account lifecycle mail. Delivery is fire and
// forget: sends run on their own goroutine and failures are logged, never
// surfaced to the request that triggered them.
package email

import (
	"fmt"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/user/taskman-go/config"
)

// Mailer sends account lifecycle notifications. Implementations must not
// block the caller on delivery.
type Mailer interface {
	// SendWelcome greets a freshly registered user.
	SendWelcome(to, name string)
	// SendCancellation acknowledges an account deletion.
	SendCancellation(to, name string)
}

// New returns an SMTP-backed mailer, or a no-op mailer when no SMTP host
// is configured (local development, tests).
func New(cfg *config.MailConfig, logger *zap.Logger) Mailer {
	if cfg.Host == "" {
		logger.Info("no SMTP host configured, outbound mail disabled")
		return &NoopMailer{logger: logger}
	}
	return &SMTPMailer{cfg: cfg, logger: logger}
}

// SMTPMailer delivers mail over SMTP using go-mail.
type SMTPMailer struct {
	cfg    *config.MailConfig
	logger *zap.Logger
}

// SendWelcome implements Mailer.
func (m *SMTPMailer) SendWelcome(to, name string) {
	subject := "Thanks for joining in!"
	body := fmt.Sprintf("Welcome to the app, %s. Let me know how you get along with the app.", name)
	go m.deliver(to, subject, body)
}

// SendCancellation implements Mailer.
func (m *SMTPMailer) SendCancellation(to, name string) {
	subject := "Sorry to see you go!"
	body := fmt.Sprintf("Goodbye, %s. I hope to see you back sometime soon.", name)
	go m.deliver(to, subject, body)
}

func (m *SMTPMailer) deliver(to, subject, body string) {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		m.logger.Error("invalid mail sender", zap.String("from", m.cfg.From), zap.Error(err))
		return
	}
	if err := msg.To(to); err != nil {
		m.logger.Error("invalid mail recipient", zap.String("to", to), zap.Error(err))
		return
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	client, err := mail.NewClient(m.cfg.Host,
		mail.WithPort(m.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.cfg.Username),
		mail.WithPassword(m.cfg.Password),
	)
	if err != nil {
		m.logger.Error("failed to create SMTP client", zap.Error(err))
		return
	}
	if err := client.DialAndSend(msg); err != nil {
		m.logger.Error("failed to send mail", zap.String("to", to), zap.Error(err))
	}
}

// NoopMailer drops all mail. Used when SMTP is not configured.
type NoopMailer struct {
	logger *zap.Logger
}

// SendWelcome implements Mailer.
func (m *NoopMailer) SendWelcome(to, name string) {
	m.logger.Debug("skipping welcome mail", zap.String("to", to))
}

// SendCancellation implements Mailer.
func (m *NoopMailer) SendCancellation(to, name string) {
	m.logger.Debug("skipping cancellation mail", zap.String("to", to))
}
