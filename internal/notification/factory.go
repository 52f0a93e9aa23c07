package notification

import (
	"fmt"
	"log/slog"

	"github.com/frahmantamala/leave-management/internal"
)

// NewDelivery builds the dispatcher that talks to the outside world for the
// configured transport. The returned close function releases its resources.
func NewDelivery(cfg internal.NotificationConfig, logger *slog.Logger) (Dispatcher, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Transport {
	case "", "log":
		return NewLogDispatcher(logger), noop, nil
	case "smtp":
		return NewSMTPDispatcher(SMTPConfigFrom(cfg), logger), noop, nil
	case "kafka":
		d := NewKafkaDispatcher(NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic), cfg.Kafka.Topic, logger)
		return d, d.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown notification transport %q", cfg.Transport)
	}
}

// NewMailDelivery is the final hop used by the notifications worker: SMTP
// when configured, the log dispatcher otherwise.
func NewMailDelivery(cfg internal.NotificationConfig, logger *slog.Logger) Dispatcher {
	if cfg.SMTPConfigured() {
		return NewSMTPDispatcher(SMTPConfigFrom(cfg), logger)
	}
	return NewLogDispatcher(logger)
}

func SMTPConfigFrom(cfg internal.NotificationConfig) SMTPConfig {
	return SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SenderEmail,
		FromName: cfg.SenderName,
		Retries:  cfg.SMTP.Retries,
	}
}
