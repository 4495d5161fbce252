// Package event carries state-change notifications from the quest lifecycle
// service to external collaborators: the thread-renaming gateway, the
// DM-clarification side channel, and anything else that subscribes.
package event

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Type represents the type of an event
type Type string

// EventSchemaVersion is the current event schema version
const EventSchemaVersion = "1.0"

// Event types emitted by the quest lifecycle service.
const (
	QuestCreated          Type = "quest.created"
	QuestUpdated          Type = "quest.updated"
	QuestCompleted        Type = "quest.completed"
	QuestCancelled        Type = "quest.cancelled"
	QuestTitleChanged     Type = "quest.title_changed"
	QuestSystemUnresolved Type = "quest.system_unresolved"
	RosterJoined          Type = "roster.joined"
	RosterLeft            Type = "roster.left"
	RosterPromoted        Type = "roster.promoted"
)

// Event represents a generic event in the system
type Event struct {
	Version string      `json:"version"` // Event schema version (e.g., "1.0")
	Type    Type        `json:"type"`
	Payload interface{} `json:"payload"`
}

// TitleChangedPayloadV1 carries the canonical title for the thread-rename
// collaborator.
type TitleChangedPayloadV1 struct {
	QuestID  string `json:"quest_id"`
	ThreadID string `json:"thread_id"`
	Title    string `json:"title"`
}

// SystemUnresolvedPayloadV1 is the DM-clarification notification hook: a new
// quest whose game system could not be determined.
type SystemUnresolvedPayloadV1 struct {
	QuestID         string `json:"quest_id"`
	ThreadCreatorID string `json:"thread_creator_id"`
	QuestTitle      string `json:"quest_title"`
}

// RosterChangedPayloadV1 describes a join, leave, or promotion.
type RosterChangedPayloadV1 struct {
	QuestID   string `json:"quest_id"`
	UserID    string `json:"user_id"`
	Placement string `json:"placement,omitempty"`
	Promoted  bool   `json:"promoted,omitempty"`
}

// QuestStatePayloadV1 describes a lifecycle transition.
type QuestStatePayloadV1 struct {
	QuestID string `json:"quest_id"`
	Status  string `json:"status"`
}

// NewTitleChangedEvent creates a title-change event with typed payload.
func NewTitleChangedEvent(questID, threadID, canonicalTitle string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    QuestTitleChanged,
		Payload: TitleChangedPayloadV1{
			QuestID:  questID,
			ThreadID: threadID,
			Title:    canonicalTitle,
		},
	}
}

// NewSystemUnresolvedEvent creates a DM-clarification event.
func NewSystemUnresolvedEvent(questID, threadCreatorID, questTitle string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    QuestSystemUnresolved,
		Payload: SystemUnresolvedPayloadV1{
			QuestID:         questID,
			ThreadCreatorID: threadCreatorID,
			QuestTitle:      questTitle,
		},
	}
}

// Handler processes a published event.
type Handler func(ctx context.Context, e Event) error

// Bus is the minimal publish/subscribe contract.
type Bus interface {
	Publish(ctx context.Context, e Event) error
	Subscribe(t Type, h Handler)
}

// InMemoryBus is a synchronous in-process Bus. Handlers run on the
// publisher's goroutine; the first handler error aborts the publish.
type InMemoryBus struct {
	mu       sync.RWMutex
	handlers map[Type][]Handler
}

// NewInMemoryBus creates an empty bus.
func NewInMemoryBus() *InMemoryBus {
	return &InMemoryBus{handlers: make(map[Type][]Handler)}
}

// Subscribe registers a handler for an event type.
func (b *InMemoryBus) Subscribe(t Type, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[t] = append(b.handlers[t], h)
}

// Publish delivers the event to every subscribed handler.
func (b *InMemoryBus) Publish(ctx context.Context, e Event) error {
	b.mu.RLock()
	hs := append([]Handler(nil), b.handlers[e.Type]...)
	b.mu.RUnlock()

	for _, h := range hs {
		if err := h(ctx, e); err != nil {
			return fmt.Errorf("handler for %s: %w", e.Type, err)
		}
	}
	return nil
}

// DeadLetterEntry is the JSON line format of the dead letter file.
type DeadLetterEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Event     Event     `json:"event"`
}
