package store

import (
	"context"
	"log"

	"github.com/example/catalog-browser/internal/metrics"
)

// EventStoreInterface defines the interface for event stores
type EventStoreInterface interface {
	Append(ctx context.Context, aggregateID, aggregateType, eventType string, data any) (*Event, error)
	GetEvents(aggregateID string) []Event
	GetEventsFromVersion(ctx context.Context, aggregateID string, version int) []Event
	GetAllEvents() []Event
}

// Publisher forwards appended events to a message broker
type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
}

// publish forwards an already stored event. The log is the source of truth,
// so a broker failure is logged and counted but does not fail the append;
// consumers catch up by rebuilding from the log.
func publish(ctx context.Context, publisher Publisher, event Event) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, event.AggregateID, event); err != nil {
		metrics.PublishFailures.Inc()
		log.Printf("[Store] Failed to publish %s v%d for %s: %v", event.EventType, event.Version, event.AggregateID, err)
	}
}
