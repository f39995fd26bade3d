package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"psychology_station/article"
)

const eventGenerated = "article.generated"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Event is the payload published for each generated article.
type Event struct {
	Type       string          `json:"type"`
	Article    article.Article `json:"article"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// Kafka publishes article events keyed by article id.
type Kafka struct {
	w messageWriter
}

func NewKafka(brokers []string, topic string) (*Kafka, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka sink requires at least one broker")
	}
	if topic == "" {
		return nil, errors.New("kafka sink requires a topic")
	}
	return &Kafka{w: &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		MaxAttempts:  3,
		RequiredAcks: kafka.RequireOne,
	}}, nil
}

func (k *Kafka) Archive(ctx context.Context, a article.Article) error {
	value, err := json.Marshal(Event{
		Type:       eventGenerated,
		Article:    a,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(a.ID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(eventGenerated)},
			{Key: "category", Value: []byte(a.Category)},
		},
	}
	if err := k.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish article %s: %w", a.ID, err)
	}
	return nil
}

func (k *Kafka) Close() error {
	return k.w.Close()
}
