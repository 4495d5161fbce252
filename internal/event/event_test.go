package event

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryBus_DeliversToSubscribers(t *testing.T) {
	bus := NewInMemoryBus()

	var got []Event
	bus.Subscribe(RosterJoined, func(ctx context.Context, e Event) error {
		got = append(got, e)
		return nil
	})

	e := Event{
		Version: EventSchemaVersion,
		Type:    RosterJoined,
		Payload: RosterChangedPayloadV1{QuestID: "q1", UserID: "alice", Placement: "roster"},
	}
	require.NoError(t, bus.Publish(context.Background(), e))
	require.Len(t, got, 1)
	assert.Equal(t, e, got[0])
}

func TestInMemoryBus_TypeIsolation(t *testing.T) {
	bus := NewInMemoryBus()

	called := false
	bus.Subscribe(QuestCompleted, func(ctx context.Context, e Event) error {
		called = true
		return nil
	})

	require.NoError(t, bus.Publish(context.Background(), Event{Type: RosterLeft}))
	assert.False(t, called)
}

func TestInMemoryBus_HandlerErrorAbortsPublish(t *testing.T) {
	bus := NewInMemoryBus()

	boom := errors.New("boom")
	bus.Subscribe(QuestCreated, func(ctx context.Context, e Event) error {
		return boom
	})
	secondRan := false
	bus.Subscribe(QuestCreated, func(ctx context.Context, e Event) error {
		secondRan = true
		return nil
	})

	err := bus.Publish(context.Background(), Event{Type: QuestCreated})
	assert.ErrorIs(t, err, boom)
	assert.False(t, secondRan)
}

func TestDecodePayload(t *testing.T) {
	e := NewTitleChangedEvent("q1", "t1", "[RECRUITING] [D&D] Strahd")

	p, err := DecodePayload[TitleChangedPayloadV1](e.Payload)
	require.NoError(t, err)
	assert.Equal(t, "q1", p.QuestID)
	assert.Equal(t, "t1", p.ThreadID)
	assert.Equal(t, "[RECRUITING] [D&D] Strahd", p.Title)
}

func TestDecodePayload_FromGenericMap(t *testing.T) {
	// Payloads read back from the dead letter file arrive as generic maps.
	raw := map[string]interface{}{
		"quest_id":          "q1",
		"thread_creator_id": "dm-1",
		"quest_title":       "Strahd",
	}

	p, err := DecodePayload[SystemUnresolvedPayloadV1](raw)
	require.NoError(t, err)
	assert.Equal(t, "dm-1", p.ThreadCreatorID)
}
