package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)

// Job é o payload consumido pelo worker externo de e-mail/SMS.
type Job struct {
	ID        string    `json:"id"`
	Channel   string    `json:"channel"`
	To        string    `json:"to"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaNotifier struct {
	writer  messageWriter
	timeout time.Duration
}

func NewKafkaNotifier(brokers []string, topic string) *KafkaNotifier {
	return &KafkaNotifier{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			MaxAttempts:  3,
			BatchTimeout: 50 * time.Millisecond,
			Logger:       kafka.LoggerFunc(func(string, ...any) {}),
			ErrorLogger: kafka.LoggerFunc(func(msg string, args ...any) {
				slog.Error("kafka writer", "msg", msg, "args", args)
			}),
		},
		timeout: 5 * time.Second,
	}
}

func (n *KafkaNotifier) publish(ctx context.Context, channel, to, message string) bool {
	if to == "" {
		return false
	}

	job := Job{
		ID:        uuid.NewString(),
		Channel:   channel,
		To:        to,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
	value, err := json.Marshal(job)
	if err != nil {
		slog.Error("notification encode failed", "channel", channel, "err", err)
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	// chave = destinatário, mantém a ordem por cliente
	err = n.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(to),
		Value: value,
		Headers: []kafka.Header{
			{Key: "channel", Value: []byte(channel)},
		},
	})
	if err != nil {
		slog.Warn("notification publish failed", "channel", channel, "job_id", job.ID, "err", err)
		return false
	}
	return true
}

func (n *KafkaNotifier) SendConfirmation(ctx context.Context, email, phone, message string) Delivery {
	return Delivery{
		EmailSent: n.publish(ctx, ChannelEmail, email, message),
		SMSSent:   n.publish(ctx, ChannelSMS, phone, message),
	}
}

func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}

var (
	_ Notifier = (*KafkaNotifier)(nil)
	_ Notifier = LogNotifier{}
)
