package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"baby-care-tracker/internal/domain/activities"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestPublish_KeyedByFamily(t *testing.T) {
	w := &fakeWriter{}
	p := &Publisher{writer: w}

	at := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	err := p.Publish(context.Background(), activities.Event{
		Type:       activities.EventCreated,
		FamilyID:   "fam-1",
		ActorID:    "cg-1",
		OccurredAt: at,
		Record: activities.Record{
			ID: "r-1", BabyID: "b-1", Kind: activities.KindSleep, StartedAt: at,
			Detail: activities.Sleep{Location: activities.SleepCrib},
		},
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "fam-1", string(msg.Key))
	assert.Equal(t, "activity.created", string(msg.Headers[0].Value))

	var payload map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &payload))
	assert.Equal(t, "cg-1", payload["actor_id"])
	record := payload["record"].(map[string]any)
	assert.Equal(t, "r-1", record["id"])
	assert.Equal(t, true, record["in_progress"])

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestPublish_WrapsWriterError(t *testing.T) {
	boom := errors.New("broker down")
	p := &Publisher{writer: &fakeWriter{err: boom}}

	err := p.Publish(context.Background(), activities.Event{Type: activities.EventDeleted, FamilyID: "f"})
	assert.ErrorIs(t, err, boom)
}
