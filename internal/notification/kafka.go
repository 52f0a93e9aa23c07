package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

// MessageWriter is the subset of *kafkago.Writer the dispatcher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// KafkaDispatcher hands rendered messages to a topic; the notifications
// worker consumes it and performs the actual delivery.
type KafkaDispatcher struct {
	writer MessageWriter
	topic  string
	logger *slog.Logger
}

func NewKafkaWriter(brokers []string, topic string) *kafkago.Writer {
	return &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		BatchTimeout: 50 * time.Millisecond,
	}
}

func NewKafkaDispatcher(writer MessageWriter, topic string, logger *slog.Logger) *KafkaDispatcher {
	return &KafkaDispatcher{writer: writer, topic: topic, logger: logger}
}

func (d *KafkaDispatcher) Transport() string { return "kafka" }

func (d *KafkaDispatcher) Configured() bool { return true }

func (d *KafkaDispatcher) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	// The writer already carries the topic, so the message must not set one.
	err = d.writer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(msg.To),
		Value: payload,
		Headers: []kafkago.Header{
			{Key: "subject", Value: []byte(msg.Subject)},
		},
	})
	if err != nil {
		return fmt.Errorf("publish notification to %s: %w", d.topic, err)
	}

	d.logger.Debug("notification queued on kafka", "topic", d.topic, "to", msg.To, "subject", msg.Subject)
	return nil
}

func (d *KafkaDispatcher) Close() error {
	return d.writer.Close()
}

// MessageReader is the subset of *kafkago.Reader the consumer needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

func NewKafkaReader(brokers []string, topic, groupID string) *kafkago.Reader {
	return kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
}

// Consumer reads queued notifications and delivers them through a final
// dispatcher such as SMTP.
type Consumer struct {
	reader   MessageReader
	delivery Dispatcher
	logger   *slog.Logger
}

func NewConsumer(reader MessageReader, delivery Dispatcher, logger *slog.Logger) *Consumer {
	return &Consumer{reader: reader, delivery: delivery, logger: logger}
}

// Run blocks until ctx is cancelled. Undecodable messages are committed and
// skipped; failed deliveries are committed too, keeping at-most-once
// semantics for notifications.
func (c *Consumer) Run(ctx context.Context) error {
	c.logger.Info("notification consumer started", "delivery", c.delivery.Transport())

	for {
		km, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info("notification consumer stopped")
				return nil
			}
			c.logger.Error("fetch notification message failed", "error", err)
			select {
			case <-time.After(time.Second):
			case <-ctx.Done():
				return nil
			}
			continue
		}

		var msg Message
		if err := json.Unmarshal(km.Value, &msg); err != nil {
			c.logger.Error("decode notification message failed", "offset", km.Offset, "error", err)
			c.commit(ctx, km)
			continue
		}

		if err := c.delivery.Send(ctx, msg); err != nil {
			c.logger.Error("notification delivery failed",
				"to", msg.To,
				"subject", msg.Subject,
				"offset", km.Offset,
				"error", err)
		}
		c.commit(ctx, km)
	}
}

func (c *Consumer) commit(ctx context.Context, km kafkago.Message) {
	if err := c.reader.CommitMessages(ctx, km); err != nil {
		c.logger.Error("commit notification message failed", "offset", km.Offset, "error", err)
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
