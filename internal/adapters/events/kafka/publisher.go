// Package kafka publica los eventos de actividad para que otros
// dispositivos de la familia refresquen sus pantallas.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"baby-care-tracker/internal/domain/activities"
	"baby-care-tracker/internal/observability"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher implementa activities.Publisher sobre un kafka.Writer.
// La key es la familia: los eventos de una familia quedan ordenados.
// La escritura es síncrona; el plazo lo pone el ctx del llamador.
type Publisher struct {
	writer messageWriter
}

func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Compression:  kafka.Snappy,
			BatchTimeout: 50 * time.Millisecond,
			WriteTimeout: 2 * time.Second,
			MaxAttempts:  3,
			Async:        false,
		},
	}
}

type eventPayload struct {
	Type       activities.EventType      `json:"type"`
	FamilyID   string                    `json:"family_id"`
	ActorID    string                    `json:"actor_id"`
	OccurredAt time.Time                 `json:"occurred_at"`
	Record     activities.RecordResponse `json:"record"`
}

func (p *Publisher) Publish(ctx context.Context, e activities.Event) error {
	value, err := json.Marshal(eventPayload{
		Type:       e.Type,
		FamilyID:   e.FamilyID,
		ActorID:    e.ActorID,
		OccurredAt: e.OccurredAt,
		Record:     activities.ToResponse(e.Record),
	})
	if err != nil {
		return fmt.Errorf("kafka: encode event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(e.FamilyID),
		Value: value,
		Time:  e.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(e.Type)},
			{Key: "activity-kind", Value: []byte(e.Record.Kind)},
		},
	})
	observability.RecordEventPublished(err)
	if err != nil {
		return fmt.Errorf("kafka: write: %w", err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
