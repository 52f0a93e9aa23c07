package notification

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
	"time"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
	Retries  int
}

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type SMTPDispatcher struct {
	cfg      SMTPConfig
	logger   *slog.Logger
	sendMail sendMailFunc
	backoff  func(attempt int) time.Duration
}

func NewSMTPDispatcher(cfg SMTPConfig, logger *slog.Logger) *SMTPDispatcher {
	if cfg.Retries <= 0 {
		cfg.Retries = 3
	}
	return &SMTPDispatcher{
		cfg:      cfg,
		logger:   logger,
		sendMail: smtp.SendMail,
		backoff: func(attempt int) time.Duration {
			// 1s, 2s, 4s ...
			return time.Duration(1<<(attempt-1)) * time.Second
		},
	}
}

func (d *SMTPDispatcher) Transport() string { return "smtp" }

func (d *SMTPDispatcher) Configured() bool { return d.cfg.Host != "" }

func (d *SMTPDispatcher) compose(msg Message) []byte {
	var b strings.Builder
	if d.cfg.FromName != "" {
		fmt.Fprintf(&b, "From: %s <%s>\r\n", d.cfg.FromName, d.cfg.From)
	} else {
		fmt.Fprintf(&b, "From: %s\r\n", d.cfg.From)
	}
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	for k, v := range msg.Headers {
		fmt.Fprintf(&b, "%s: %s\r\n", k, v)
	}
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.HTML)
	return []byte(b.String())
}

// Send delivers msg with bounded retries and exponential backoff. It gives up
// early when ctx is cancelled.
func (d *SMTPDispatcher) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	var auth smtp.Auth
	if d.cfg.Username != "" {
		auth = smtp.PlainAuth("", d.cfg.Username, d.cfg.Password, d.cfg.Host)
	}
	addr := fmt.Sprintf("%s:%d", d.cfg.Host, d.cfg.Port)
	body := d.compose(msg)

	var lastErr error
	for attempt := 1; attempt <= d.cfg.Retries; attempt++ {
		err := d.sendMail(addr, auth, d.cfg.From, []string{msg.To}, body)
		if err == nil {
			d.logger.Info("email sent", "to", msg.To, "subject", msg.Subject, "attempt", attempt)
			return nil
		}

		lastErr = err
		d.logger.Warn("failed to send email",
			"to", msg.To,
			"subject", msg.Subject,
			"attempt", attempt,
			"max_retries", d.cfg.Retries,
			"error", err)

		if attempt < d.cfg.Retries {
			select {
			case <-time.After(d.backoff(attempt)):
			case <-ctx.Done():
				return fmt.Errorf("email to %s abandoned: %w", msg.To, ctx.Err())
			}
		}
	}

	return fmt.Errorf("failed to send email after %d attempts: %w", d.cfg.Retries, lastErr)
}
