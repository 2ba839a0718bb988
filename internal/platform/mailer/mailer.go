package mailer

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"github.com/phrazzld/flashlists/internal/config"
	"github.com/phrazzld/flashlists/internal/platform/logger"
	"github.com/phrazzld/flashlists/internal/redact"
	"gopkg.in/gomail.v2"
)

// Message is one outgoing email with a plain text body and an HTML alternative.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// NewSender returns an SMTPSender when mail is enabled and a LogSender otherwise.
func NewSender(cfg config.MailConfig, logger *slog.Logger) Sender {
	if !cfg.Enabled {
		return NewLogSender(logger)
	}
	return NewSMTPSender(cfg, logger)
}

// SMTPSender sends mail through an SMTP relay.
type SMTPSender struct {
	from     string
	fromName string
	send     func(m ...*gomail.Message) error
	logger   *slog.Logger
}

// NewSMTPSender dials cfg.Host for every message.
func NewSMTPSender(cfg config.MailConfig, logger *slog.Logger) *SMTPSender {
	if logger == nil {
		logger = slog.Default()
	}
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return &SMTPSender{
		from:     cfg.FromAddress,
		fromName: cfg.FromName,
		send:     dialer.DialAndSend,
		logger:   logger.With(slog.String("component", "mailer")),
	}
}

// Send implements Sender.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.send(s.build(msg)); err != nil {
		log.Error("failed to send email",
			slog.String("to", redact.Email(msg.To)),
			slog.String("subject", msg.Subject),
			slog.Any("error", err))
		return fmt.Errorf("failed to send email: %w", err)
	}

	log.Info("email sent",
		slog.String("to", redact.Email(msg.To)),
		slog.String("subject", msg.Subject))
	return nil
}

func (s *SMTPSender) build(msg Message) *gomail.Message {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.from, s.fromName)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Text)
	if msg.HTML != "" {
		m.AddAlternative("text/html", msg.HTML)
	}
	return m
}

// LogSender logs messages instead of sending them.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a LogSender.
func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{logger: logger.With(slog.String("component", "mailer"))}
}

// Send implements Sender. Links carry one-time tokens, so only the subject
// and the masked recipient are logged.
func (s *LogSender) Send(ctx context.Context, msg Message) error {
	logger.FromContextOrDefault(ctx, s.logger).Info("mail delivery disabled; message dropped",
		slog.String("to", redact.Email(msg.To)),
		slog.String("subject", msg.Subject))
	return nil
}

// VerificationMessage builds the email sent after registration.
func VerificationMessage(publicURL, to, username, token string) Message {
	link := joinURL(publicURL, "/auth/verify/", token)
	return Message{
		To:      to,
		Subject: "Verify your email - Flashlists",
		Text:    fmt.Sprintf("Hi %s,\n\nConfirm your email address by opening this link:\n%s\n", username, link),
		HTML: fmt.Sprintf(`<p>Hi %s,</p><p>Confirm your email address: <a href="%s">%s</a></p>`,
			html.EscapeString(username), html.EscapeString(link), html.EscapeString(link)),
	}
}

// ResetMessage builds the password reset email.
func ResetMessage(publicURL, to, username, token string) Message {
	link := joinURL(publicURL, "/auth/reset/", token)
	return Message{
		To:      to,
		Subject: "Reset your password - Flashlists",
		Text:    fmt.Sprintf("Hi %s,\n\nChoose a new password by opening this link:\n%s\n", username, link),
		HTML: fmt.Sprintf(`<p>Hi %s,</p><p>Choose a new password: <a href="%s">%s</a></p>`,
			html.EscapeString(username), html.EscapeString(link), html.EscapeString(link)),
	}
}

func joinURL(base, path, token string) string {
	return strings.TrimRight(base, "/") + path + token
}
