package metrics

import (
	"context"

	"github.com/meridwen/QuestBoard_Go/internal/domain"
	"github.com/meridwen/QuestBoard_Go/internal/event"
)

// EventMetricsCollector subscribes to board events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all events
func (e *EventMetricsCollector) Register(bus event.Bus) {
	eventTypes := []event.Type{
		event.QuestCreated,
		event.QuestCompleted,
		event.QuestCancelled,
		event.QuestSystemUnresolved,
		event.RosterJoined,
		event.RosterLeft,
		event.RosterPromoted,
	}

	for _, eventType := range eventTypes {
		bus.Subscribe(eventType, e.HandleEvent)
	}
}

// HandleEvent updates counters for a published event.
func (e *EventMetricsCollector) HandleEvent(_ context.Context, evt event.Event) error {
	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	switch evt.Type {
	case event.QuestCreated:
		QuestsCreated.Inc()
	case event.QuestCompleted:
		QuestsClosed.WithLabelValues(string(domain.StatusCompleted)).Inc()
	case event.QuestCancelled:
		QuestsClosed.WithLabelValues(string(domain.StatusCancelled)).Inc()
	case event.QuestSystemUnresolved:
		SystemsUnresolved.Inc()
	case event.RosterJoined:
		if p, err := event.DecodePayload[event.RosterChangedPayloadV1](evt.Payload); err == nil {
			RosterJoins.WithLabelValues(string(p.Placement)).Inc()
		}
	case event.RosterLeft:
		if p, err := event.DecodePayload[event.RosterChangedPayloadV1](evt.Payload); err == nil {
			RosterLeaves.WithLabelValues(string(p.Placement)).Inc()
		}
	case event.RosterPromoted:
		RosterPromotions.Inc()
	}

	return nil
}
