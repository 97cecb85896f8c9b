package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	failOn string
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	for _, m := range msgs {
		for _, h := range m.Headers {
			if h.Key == "channel" && string(h.Value) == w.failOn {
				return errors.New("broker down")
			}
		}
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func TestConfirmationMessage(t *testing.T) {
	start := time.Date(2024, 6, 1, 14, 0, 0, 0, time.UTC)
	msg := ConfirmationMessage("Anna", start, "Salon Nord", "4821")

	assert.Equal(t,
		"Dear Anna,\nYour appointment at 2024-06-01 14:00 with Salon Nord has been confirmed. "+
			"Your OTP is 4821. Please present this OTP at the time of your appointment.",
		msg,
	)
}

func TestKafkaNotifierPublishesPerChannel(t *testing.T) {
	w := &fakeWriter{}
	n := &KafkaNotifier{writer: w, timeout: time.Second}

	d := n.SendConfirmation(context.Background(), "anna@example.com", "+15551234567", "hello")

	assert.Equal(t, Delivery{EmailSent: true, SMSSent: true}, d)
	require.Len(t, w.msgs, 2)

	var job Job
	require.NoError(t, json.Unmarshal(w.msgs[1].Value, &job))
	assert.Equal(t, ChannelSMS, job.Channel)
	assert.Equal(t, "+15551234567", job.To)
	assert.Equal(t, "+15551234567", string(w.msgs[1].Key))
	assert.NotEmpty(t, job.ID)
}

func TestKafkaNotifierFailureIsNotFatal(t *testing.T) {
	w := &fakeWriter{failOn: ChannelSMS}
	n := &KafkaNotifier{writer: w, timeout: time.Second}

	d := n.SendConfirmation(context.Background(), "", "+15551234567", "hello")

	assert.Equal(t, Delivery{}, d)
	assert.Empty(t, w.msgs)
}

func TestLogNotifier(t *testing.T) {
	d := LogNotifier{}.SendConfirmation(context.Background(), "", "+15551234567", "hi")
	assert.Equal(t, Delivery{EmailSent: false, SMSSent: true}, d)
}
