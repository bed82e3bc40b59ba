package catalog

import "sync"

// Store owns the state of one browsing session. Dispatch is the single write
// path; readers only ever see committed copies.
type Store struct {
	mu          sync.RWMutex
	state       State
	version     int
	subscribers map[int]chan State
	nextSubID   int
	closed      bool
}

// NewStore creates a store over the initial state for products.
func NewStore(products []Product) *Store {
	return NewStoreFromState(NewState(products), 0)
}

// NewStoreFromState creates a store that resumes from a previously committed
// state, e.g. a snapshot.
func NewStoreFromState(state State, version int) *Store {
	return &Store{
		state:       state.Clone(),
		version:     version,
		subscribers: make(map[int]chan State),
	}
}

// Dispatch applies intent and commits the resulting state. It returns a copy
// of the new state.
func (s *Store) Dispatch(intent Intent) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = intent.Apply(s.state)
	s.version++
	committed := s.state.Clone()
	for _, ch := range s.subscribers {
		publishLatest(ch, committed.Clone())
	}
	return committed
}

// State returns a copy of the latest committed state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Version is the number of intents applied to this store, including any
// counted before a snapshot it was restored from.
func (s *Store) Version() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Snapshot returns the committed state together with its version.
func (s *Store) Snapshot() (State, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone(), s.version
}

// Subscribe returns a channel that yields the current state immediately and
// then the latest state after every commit. Slow readers skip intermediate
// states. The returned func unsubscribes and closes the channel.
func (s *Store) Subscribe() (<-chan State, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan State, 1)
	if s.closed {
		close(ch)
		return ch, func() {}
	}

	id := s.nextSubID
	s.nextSubID++
	ch <- s.state.Clone()
	s.subscribers[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		// Close may already have released the channel
		if _, ok := s.subscribers[id]; ok {
			delete(s.subscribers, id)
			close(ch)
		}
	}
	return ch, cancel
}

// Close ends every subscription. Subscribing to a closed store yields an
// already closed channel.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	for id, ch := range s.subscribers {
		delete(s.subscribers, id)
		close(ch)
	}
}

// Subscribers returns the number of active subscriptions.
func (s *Store) Subscribers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subscribers)
}

// publishLatest replaces any undelivered state in ch with state. Callers hold
// the store lock, so ch has no other writer.
func publishLatest(ch chan State, state State) {
	select {
	case <-ch:
	default:
	}
	ch <- state
}
