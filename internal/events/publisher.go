// Package events publishes checkout settlement notifications.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	DefaultTopic     = "checkout.settled"
	eventTypeSettled = "checkout_settled"
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
)

// SettlementEvent describes how one checkout attempt ended. OrderID is empty when the
// attempt failed before an order existed.
type SettlementEvent struct {
	OrderID   string    `json:"order_id,omitempty"`
	Amount    int64     `json:"amount"`
	Currency  string    `json:"currency"`
	Outcome   string    `json:"outcome"`
	Kind      string    `json:"kind,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	UserID    string    `json:"user_id"`
	SettledAt time.Time `json:"settled_at"`
}

type Publisher interface {
	PublishSettlement(ctx context.Context, event SettlementEvent) error
}

// Nop drops every event.
type Nop struct{}

func (Nop) PublishSettlement(context.Context, SettlementEvent) error { return nil }

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(topic string, brokers ...string) *KafkaPublisher {
	if topic == "" {
		topic = DefaultTopic
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: w}
}

func (p *KafkaPublisher) PublishSettlement(ctx context.Context, event SettlementEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal settlement event: %w", err)
	}

	key := event.OrderID
	if key == "" {
		key = event.UserID
	}
	msg := kafka.Message{
		Key:   []byte(key),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventTypeSettled)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish settlement event: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
