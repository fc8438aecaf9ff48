// Package evaluator adapts a media source into a multiplexed query evaluator
package evaluator

import (
	"sync"

	"github.com/google/uuid"

	"github.com/breakwatch/breakwatch/pkg/interfaces"
	"github.com/breakwatch/breakwatch/pkg/logger"
	"github.com/breakwatch/breakwatch/pkg/types"
)

// Adapter multiplexes many logical listeners onto a smaller set of distinct
// underlying query subscriptions: exactly one source subscription exists per
// distinct query string no matter how many listeners are attached, and every
// underlying event fans out to all of them. Registering a listener for a
// query that already holds delivers an immediate synthetic activation, so
// late subscribers still learn about an already-active range.
type Adapter struct {
	source interfaces.MediaSource
	logger logger.Logger

	channels map[string]*channel
	mu       sync.RWMutex
}

// channel is the single underlying subscription for one distinct query
// string plus the logical listeners fanned out from it.
type channel struct {
	query       string
	unsubscribe func()
	listeners   map[string]interfaces.MediaListener
	order       []string
}

// Handle identifies one logical listener registration
type Handle struct {
	id    string
	query string
}

// Query returns the query string the handle listens on
func (h *Handle) Query() string {
	return h.query
}

// New creates an adapter over the given source
func New(source interfaces.MediaSource, log logger.Logger) *Adapter {
	return &Adapter{
		source:   source,
		logger:   log,
		channels: make(map[string]*channel),
	}
}

// IsActive reports whether the query currently holds. Malformed queries are
// inert: they evaluate to false, never to an error.
func (a *Adapter) IsActive(query string) bool {
	return a.source.Matches(query)
}

// Listen attaches a logical listener for the query's transitions
func (a *Adapter) Listen(query string, listener interfaces.MediaListener) interfaces.ListenerHandle {
	a.mu.Lock()

	ch, ok := a.channels[query]
	if !ok {
		ch = &channel{
			query:     query,
			listeners: make(map[string]interfaces.MediaListener),
		}
		ch.unsubscribe = a.source.Subscribe(query, a.fanOut(query))
		a.channels[query] = ch
		if a.logger != nil {
			a.logger.Debug("Opened underlying subscription",
				logger.WithField("query", query))
		}
	}

	handle := &Handle{id: uuid.New().String(), query: query}
	ch.listeners[handle.id] = listener
	ch.order = append(ch.order, handle.id)

	active := a.source.Matches(query)
	a.mu.Unlock()

	if active {
		listener(types.MediaChange{MediaQuery: query, Matches: true})
	}

	return handle
}

// Unlisten detaches a logical listener. Removing the last listener for a
// query tears down the underlying subscription.
func (a *Adapter) Unlisten(h interfaces.ListenerHandle) {
	handle, ok := h.(*Handle)
	if !ok || handle == nil {
		return
	}

	a.mu.Lock()
	ch, ok := a.channels[handle.query]
	if !ok {
		a.mu.Unlock()
		return
	}

	delete(ch.listeners, handle.id)
	for i, id := range ch.order {
		if id == handle.id {
			ch.order = append(ch.order[:i], ch.order[i+1:]...)
			break
		}
	}

	var teardown func()
	if len(ch.listeners) == 0 {
		teardown = ch.unsubscribe
		delete(a.channels, handle.query)
		if a.logger != nil {
			a.logger.Debug("Closed underlying subscription",
				logger.WithField("query", handle.query))
		}
	}
	a.mu.Unlock()

	if teardown != nil {
		teardown()
	}
}

// ListenerCount returns the number of logical listeners for query
func (a *Adapter) ListenerCount(query string) int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if ch, ok := a.channels[query]; ok {
		return len(ch.listeners)
	}
	return 0
}

// SubscriptionCount returns the number of distinct underlying subscriptions
func (a *Adapter) SubscriptionCount() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.channels)
}

// fanOut builds the single underlying callback for one query, delivering
// each raw event to all attached listeners in registration order.
func (a *Adapter) fanOut(query string) interfaces.MediaListener {
	return func(change types.MediaChange) {
		a.mu.RLock()
		ch, ok := a.channels[query]
		if !ok {
			a.mu.RUnlock()
			return
		}
		listeners := make([]interfaces.MediaListener, 0, len(ch.order))
		for _, id := range ch.order {
			if fn, ok := ch.listeners[id]; ok {
				listeners = append(listeners, fn)
			}
		}
		a.mu.RUnlock()

		for _, fn := range listeners {
			fn(change)
		}
	}
}
