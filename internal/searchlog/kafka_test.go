package searchlog

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestKafkaPublisher_Publish(t *testing.T) {
	fw := &fakeWriter{}
	p := &KafkaPublisher{w: fw}
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	err := p.Publish(context.Background(), Event{
		RequestID:    "req-9",
		Categories:   []string{"pottery"},
		Search:       "vase",
		Sort:         "price-low",
		Page:         1,
		PageSize:     8,
		TotalMatched: 2,
		At:           at,
	})
	require.NoError(t, err)
	require.Len(t, fw.msgs, 1)

	msg := fw.msgs[0]
	assert.Equal(t, "req-9", string(msg.Key))
	assert.Equal(t, at, msg.Time)

	var got Event
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, "vase", got.Search)
	assert.Equal(t, 2, got.TotalMatched)

	require.NoError(t, p.Close())
	assert.True(t, fw.closed)
}

func TestKafkaPublisher_NoKeyWithoutRequestID(t *testing.T) {
	fw := &fakeWriter{}
	p := &KafkaPublisher{w: fw}

	require.NoError(t, p.Publish(context.Background(), Event{Sort: "featured"}))
	assert.Nil(t, fw.msgs[0].Key)
}

func TestKafkaPublisher_WrapsWriteError(t *testing.T) {
	boom := errors.New("broker down")
	p := &KafkaPublisher{w: &fakeWriter{err: boom}}

	err := p.Publish(context.Background(), Event{Sort: "featured"})
	assert.ErrorIs(t, err, boom)
}

func TestNewKafkaPublisher_DefaultTopic(t *testing.T) {
	p := NewKafkaPublisher("localhost:9092", "")
	w, ok := p.w.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, DefaultTopic, w.Topic)
	assert.True(t, w.Async)
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), Event{}))
	assert.NoError(t, p.Close())
}
