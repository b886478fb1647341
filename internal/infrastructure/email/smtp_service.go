package email

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"freewriter/internal/config"
)

type EmailService interface {
	SendWelcomeEmail(ctx context.Context, data WelcomeEmailData) error
	SendNewsletterWelcome(ctx context.Context, data NewsletterWelcomeData) error
}

// sendFunc matches smtp.SendMail.
type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type smtpEmailService struct {
	smtpAddr string
	smtpFrom string
	fromName string
	auth     smtp.Auth
	send     sendFunc
	now      func() time.Time
}

// NewSMTPEmailService builds a sender. Auth is only used when a username is configured
// (a local MailHog/Mailpit needs none).
func NewSMTPEmailService(cfg config.SMTPConfig) EmailService {
	s := &smtpEmailService{
		smtpAddr: net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		smtpFrom: cfg.From,
		fromName: cfg.FromName,
		send:     smtp.SendMail,
		now:      time.Now,
	}
	if cfg.Username != "" {
		s.auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return s
}

func (s *smtpEmailService) SendWelcomeEmail(ctx context.Context, data WelcomeEmailData) error {
	return s.deliver(ctx, Message{
		To:      data.Email,
		Subject: "Congrats New FreeWriter member!",
		Body: fmt.Sprintf(`Hi %s,

Welcome to FreeWriter. Your account is ready: browse the catalog, rate the books you read
and share your own work through the upload page.

Happy reading,
The FreeWriter team`, data.Username),
	})
}

func (s *smtpEmailService) SendNewsletterWelcome(ctx context.Context, data NewsletterWelcomeData) error {
	subject := "You're subscribed to the FreeWriter newsletter"
	intro := "Thanks for subscribing to the FreeWriter newsletter."
	if data.Reactivated {
		subject = "Welcome back to the FreeWriter newsletter"
		intro = "Your FreeWriter newsletter subscription is active again."
	}

	return s.deliver(ctx, Message{
		To:      data.Email,
		Subject: subject,
		Body: intro + `

You will hear from us when new books land in the catalog.

The FreeWriter team`,
	})
}

func (s *smtpEmailService) deliver(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	raw := s.buildMessage(msg)
	if err := s.send(s.smtpAddr, s.auth, s.smtpFrom, []string{msg.To}, raw); err != nil {
		log.Error().
			Err(err).
			Str("to", msg.To).
			Str("smtp_addr", s.smtpAddr).
			Msg("Failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}

	log.Info().Str("to", msg.To).Str("subject", msg.Subject).Msg("Email sent")
	return nil
}

func (s *smtpEmailService) buildMessage(msg Message) []byte {
	from := s.smtpFrom
	if s.fromName != "" {
		from = fmt.Sprintf("%s <%s>", s.fromName, s.smtpFrom)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	fmt.Fprintf(&b, "Date: %s\r\n", s.now().UTC().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	b.WriteString(strings.ReplaceAll(msg.Body, "\n", "\r\n"))
	return []byte(b.String())
}
