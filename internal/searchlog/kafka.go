package searchlog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-faster/errors"
	"github.com/segmentio/kafka-go"
)

const DefaultTopic = "catalog.search.requests"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events as JSON messages keyed by request id.
type KafkaPublisher struct {
	w messageWriter
}

func NewKafkaPublisher(broker, topic string) *KafkaPublisher {
	if topic == "" {
		topic = DefaultTopic
	}
	return &KafkaPublisher{w: &kafka.Writer{
		Addr:         kafka.TCP(broker),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		Async:        true,
		BatchTimeout: 50 * time.Millisecond,
	}}
}

func (p *KafkaPublisher) Publish(ctx context.Context, e Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return errors.Wrap(err, "marshal search event")
	}

	msg := kafka.Message{
		Value: data,
		Time:  e.At,
	}
	if e.RequestID != "" {
		msg.Key = []byte(e.RequestID)
	}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		return errors.Wrap(err, "write search event")
	}
	return nil
}

// Close flushes pending async writes.
func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}
