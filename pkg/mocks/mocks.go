// Package mocks provides mock implementations of interfaces for testing.
// These follow Go best practices for test doubles.
package mocks

import (
	"sync"

	"github.com/breakwatch/breakwatch/pkg/interfaces"
	"github.com/breakwatch/breakwatch/pkg/types"
)

// MockMediaSource is a scriptable media source. Activate drives listeners
// synchronously, so tests combined with the immediate flush scheduler are
// fully deterministic.
type MockMediaSource struct {
	mu       sync.Mutex
	states   map[string]bool
	channels map[string]*mockChannel
	nextID   int
}

type mockChannel struct {
	listeners map[int]interfaces.MediaListener
	order     []int
}

// NewMockMediaSource creates a new mock media source with no active queries
func NewMockMediaSource() *MockMediaSource {
	return &MockMediaSource{
		states:   make(map[string]bool),
		channels: make(map[string]*mockChannel),
	}
}

// Matches reports the scripted truth of query
func (m *MockMediaSource) Matches(query string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.states[query]
}

// Subscribe implements interfaces.MediaSource
func (m *MockMediaSource) Subscribe(query string, listener interfaces.MediaListener) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	ch, ok := m.channels[query]
	if !ok {
		ch = &mockChannel{listeners: make(map[int]interfaces.MediaListener)}
		m.channels[query] = ch
	}

	m.nextID++
	id := m.nextID
	ch.listeners[id] = listener
	ch.order = append(ch.order, id)

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		current, ok := m.channels[query]
		if !ok {
			return
		}
		delete(current.listeners, id)
		for i, lid := range current.order {
			if lid == id {
				current.order = append(current.order[:i], current.order[i+1:]...)
				break
			}
		}
		if len(current.listeners) == 0 {
			delete(m.channels, query)
		}
	}
}

// Activate makes query the only true query: every other currently-true
// query transitions to false first, then query transitions to true. Returns
// whether any listener-visible state changed.
func (m *MockMediaSource) Activate(query string) bool {
	m.mu.Lock()
	var toDeactivate []string
	for q, on := range m.states {
		if on && q != query {
			toDeactivate = append(toDeactivate, q)
		}
	}
	alreadyActive := m.states[query]
	m.mu.Unlock()

	changed := false
	for _, q := range toDeactivate {
		m.SetMatches(q, false)
		changed = true
	}
	if !alreadyActive {
		m.SetMatches(query, true)
		changed = true
	}
	return changed
}

// Deactivate forces query to false
func (m *MockMediaSource) Deactivate(query string) bool {
	m.mu.Lock()
	active := m.states[query]
	m.mu.Unlock()
	if !active {
		return false
	}
	m.SetMatches(query, false)
	return true
}

// SetMatches scripts query's truth without touching other queries, driving
// listeners when the value flips. Tests exercising overlapping ranges use
// this to hold several queries true at once.
func (m *MockMediaSource) SetMatches(query string, matches bool) {
	m.mu.Lock()
	unchanged := m.states[query] == matches
	m.mu.Unlock()
	if unchanged {
		return
	}
	m.Emit(query, matches)
}

// Emit delivers a raw transition event even when the scripted state already
// holds, for simulating out-of-order or repeated signals from a racy
// underlying evaluator.
func (m *MockMediaSource) Emit(query string, matches bool) {
	m.mu.Lock()
	m.states[query] = matches

	var listeners []interfaces.MediaListener
	if ch, ok := m.channels[query]; ok {
		for _, id := range ch.order {
			if fn, ok := ch.listeners[id]; ok {
				listeners = append(listeners, fn)
			}
		}
	}
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(types.MediaChange{MediaQuery: query, Matches: matches})
	}
}

// SubscriberCount returns how many listeners are attached for query
func (m *MockMediaSource) SubscriberCount(query string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ch, ok := m.channels[query]; ok {
		return len(ch.listeners)
	}
	return 0
}

// RecordingSink collects canonical change events in delivery order
type RecordingSink struct {
	mu     sync.Mutex
	events []types.MediaChange
}

// NewRecordingSink creates an empty recording sink
func NewRecordingSink() *RecordingSink {
	return &RecordingSink{}
}

// OnChange implements interfaces.ChangeSink
func (r *RecordingSink) OnChange(change types.MediaChange) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, change)
}

// Events returns a snapshot of recorded events
func (r *RecordingSink) Events() []types.MediaChange {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]types.MediaChange, len(r.events))
	copy(out, r.events)
	return out
}

// Reset clears recorded events
func (r *RecordingSink) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

// MockNotifier records notifier calls for assertions
type MockNotifier struct {
	mu          sync.Mutex
	Activated   []types.MediaChange
	Deactivated []types.MediaChange
}

// NewMockNotifier creates a new mock notifier
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

// NotifyActivated implements interfaces.ChangeNotifier
func (n *MockNotifier) NotifyActivated(change types.MediaChange) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Activated = append(n.Activated, change)
}

// NotifyDeactivated implements interfaces.ChangeNotifier
func (n *MockNotifier) NotifyDeactivated(change types.MediaChange) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Deactivated = append(n.Deactivated, change)
}
