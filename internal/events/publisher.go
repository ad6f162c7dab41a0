// Package events publishes domain events to Kafka. Delivery is best effort:
// event loss is logged, never surfaced to the request that produced it.
package events

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/IBM/sarama"
)

// Event types emitted by the services.
const (
	TypeIdentitySynced  = "identity.synced"
	TypeFriendRequested = "friend.requested"
	TypeFriendAccepted  = "friend.accepted"
	TypeFriendRemoved   = "friend.removed"
)

type envelope struct {
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurredAt"`
	Payload    interface{} `json:"payload"`
}

// Publisher writes events to a single topic, keyed so that events for one
// entity stay ordered within a partition. A nil *Publisher drops everything,
// which keeps Kafka optional.
type Publisher struct {
	producer sarama.SyncProducer
	topic    string
}

func NewPublisher(producer sarama.SyncProducer, topic string) *Publisher {
	if producer == nil {
		return nil
	}
	return &Publisher{producer: producer, topic: topic}
}

// Emit serializes and sends one event.
func (p *Publisher) Emit(eventType, key string, payload interface{}) {
	if p == nil {
		return
	}

	data, err := json.Marshal(envelope{
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	})
	if err != nil {
		slog.Error("failed to encode event", "type", eventType, "error", err)
		return
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(data),
	}
	if _, _, err := p.producer.SendMessage(msg); err != nil {
		slog.Error("failed to publish event", "type", eventType, "key", key, "error", err)
	}
}

// Close flushes and closes the underlying producer.
func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	return p.producer.Close()
}
