package projection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/example/catalog-browser/internal/domain/catalog"
	"github.com/example/catalog-browser/internal/infrastructure/store"
)

// Projector applies catalog session events to live session stores
type Projector struct {
	sessions   *store.SessionStore
	eventStore store.EventStoreInterface
	snapshots  store.SnapshotStore
}

// NewProjector creates a projector. eventStore and snapshots may be nil;
// without an event store sessions cannot be rebuilt after a gap.
func NewProjector(sessions *store.SessionStore, eventStore store.EventStoreInterface, snapshots store.SnapshotStore) *Projector {
	return &Projector{
		sessions:   sessions,
		eventStore: eventStore,
		snapshots:  snapshots,
	}
}

// HandleEvent is the broker message handler
func (p *Projector) HandleEvent(ctx context.Context, key, value []byte) error {
	var event store.Event
	if err := json.Unmarshal(value, &event); err != nil {
		return err
	}

	log.Printf("[Projector] Received event: %s (session: %s, version: %d)", event.EventType, event.AggregateID, event.Version)

	if event.AggregateType != catalog.AggregateType {
		return nil
	}
	_, err := p.Apply(ctx, event)
	return err
}

// Apply dispatches event to its session and returns the committed state.
// Events at or below the session's version are duplicates and are ignored.
// A SessionEnded event drops the session and closes its subscriptions.
func (p *Projector) Apply(ctx context.Context, event store.Event) (catalog.State, error) {
	if event.EventType == catalog.EventSessionEnded {
		p.end(event.AggregateID)
		return catalog.State{}, nil
	}

	intent, err := catalog.DecodeIntent(event.EventType, event.Data)
	if err != nil {
		return catalog.State{}, fmt.Errorf("failed to decode %s: %w", event.EventType, err)
	}

	session := p.sessions.GetOrCreate(event.AggregateID, func() *catalog.Store {
		return catalog.NewStore(nil)
	})

	current := session.Version()
	switch {
	case event.Version != 0 && event.Version <= current:
		return session.State(), nil
	case event.Version > current+1 && p.eventStore != nil:
		log.Printf("[Projector] Gap in session %s (have %d, got %d), rebuilding", event.AggregateID, current, event.Version)
		rebuilt, err := p.Rebuild(ctx, event.AggregateID)
		if err != nil {
			if errors.Is(err, store.ErrSessionNotFound) {
				// drop the placeholder registered above
				p.sessions.Delete(event.AggregateID)
			}
			return catalog.State{}, err
		}
		if rebuilt.Version() >= event.Version {
			return rebuilt.State(), nil
		}
		session = rebuilt
	}

	state := session.Dispatch(intent)
	p.maybeSnapshot(ctx, event.AggregateID, session)
	return state, nil
}

// Rebuild restores a session from its latest snapshot plus newer events
// and registers it, replacing any live store. Sessions with no events and
// ended sessions yield store.ErrSessionNotFound.
func (p *Projector) Rebuild(ctx context.Context, sessionID string) (*catalog.Store, error) {
	if p.eventStore == nil {
		return nil, fmt.Errorf("rebuild %s: no event store configured", sessionID)
	}

	state := catalog.NewState(nil)
	version := 0

	var snapshot *store.Snapshot
	if p.snapshots != nil {
		var err error
		snapshot, err = p.snapshots.GetLatestSnapshot(ctx, sessionID)
		if err != nil {
			return nil, fmt.Errorf("failed to get snapshot: %w", err)
		}
	}

	var events []store.Event
	if snapshot != nil {
		if err := json.Unmarshal(snapshot.State, &state); err != nil {
			return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
		}
		version = snapshot.Version
		events = p.eventStore.GetEventsFromVersion(ctx, sessionID, snapshot.Version)
	} else {
		events = p.eventStore.GetEvents(sessionID)
	}

	if snapshot == nil && len(events) == 0 {
		return nil, store.ErrSessionNotFound
	}

	for _, event := range events {
		if event.EventType == catalog.EventSessionEnded {
			return nil, store.ErrSessionNotFound
		}
		intent, err := catalog.DecodeIntent(event.EventType, event.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to apply event %d: %w", event.Version, err)
		}
		state = intent.Apply(state)
		version = event.Version
	}

	session := catalog.NewStoreFromState(state, version)
	p.sessions.Set(sessionID, session)
	log.Printf("[Projector] Rebuilt session %s at version %d (%d events replayed)", sessionID, version, len(events))
	return session, nil
}

// RebuildAll restores every session in the event log that has not ended
// and returns how many were restored.
func (p *Projector) RebuildAll(ctx context.Context) (int, error) {
	if p.eventStore == nil {
		return 0, nil
	}

	seen := make(map[string]bool)
	restored := 0
	for _, event := range p.eventStore.GetAllEvents() {
		if event.AggregateType != catalog.AggregateType || seen[event.AggregateID] {
			continue
		}
		seen[event.AggregateID] = true
		_, err := p.Rebuild(ctx, event.AggregateID)
		switch {
		case errors.Is(err, store.ErrSessionNotFound):
			continue
		case err != nil:
			return restored, err
		}
		restored++
	}
	return restored, nil
}

func (p *Projector) end(sessionID string) {
	session, err := p.sessions.Get(sessionID)
	if err != nil {
		return
	}
	p.sessions.Delete(sessionID)
	session.Close()
	log.Printf("[Projector] Session %s ended", sessionID)
}

func (p *Projector) maybeSnapshot(ctx context.Context, sessionID string, session *catalog.Store) {
	if p.snapshots == nil {
		return
	}
	state, version := session.Snapshot()
	if !store.ShouldSnapshot(version) {
		return
	}

	data, err := json.Marshal(state)
	if err != nil {
		log.Printf("[Projector] Failed to marshal snapshot for %s: %v", sessionID, err)
		return
	}
	err = p.snapshots.SaveSnapshot(ctx, store.Snapshot{
		AggregateID:   sessionID,
		AggregateType: catalog.AggregateType,
		Version:       version,
		State:         data,
		CreatedAt:     time.Now(),
	})
	if err != nil {
		log.Printf("[Projector] Failed to save snapshot for %s: %v", sessionID, err)
	}
}
