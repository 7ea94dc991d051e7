package activities

import (
	"context"
	"time"
)

type EventType string

const (
	EventCreated EventType = "activity.created"
	EventUpdated EventType = "activity.updated"
	EventDeleted EventType = "activity.deleted"
)

// Event avisa a otros dispositivos de la familia que cambió un registro.
type Event struct {
	Type       EventType
	FamilyID   string
	ActorID    string
	Record     Record
	OccurredAt time.Time
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, Event) error { return nil }

// NopPublisher descarta los eventos (modo dev sin broker).
func NopPublisher() Publisher { return nopPublisher{} }
