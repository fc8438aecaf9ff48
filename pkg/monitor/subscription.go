package monitor

import (
	"sync"

	"github.com/google/uuid"

	"github.com/breakwatch/breakwatch/pkg/interfaces"
	"github.com/breakwatch/breakwatch/pkg/types"
)

// Subscription is one attachment to the monitor's canonical stream.
// Unsubscribing stops delivery with no further side effects; it is safe to
// call more than once.
type Subscription struct {
	id          string
	filterQuery string
	fn          interfaces.ChangeSink
	monitor     *Monitor

	done bool
	mu   sync.Mutex
}

func newSubscription(m *Monitor, filterQuery string, fn interfaces.ChangeSink) *Subscription {
	return &Subscription{
		id:          uuid.New().String(),
		filterQuery: filterQuery,
		fn:          fn,
		monitor:     m,
	}
}

// ID returns the subscription's unique identifier
func (s *Subscription) ID() string {
	return s.id
}

// Unsubscribe detaches the subscription from the monitor
func (s *Subscription) Unsubscribe() {
	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		return
	}
	s.done = true
	s.mu.Unlock()

	s.monitor.unsubscribe(s)
}

// deliver invokes the callback unless the subscription has ended. The done
// check closes the window between a dispatch snapshot and an unsubscribe.
func (s *Subscription) deliver(change types.MediaChange) {
	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		return
	}
	fn := s.fn
	s.mu.Unlock()

	fn(change)
}
