// Package viewport provides a size-driven media source for the evaluator
package viewport

import (
	"sync"

	"github.com/breakwatch/breakwatch/pkg/interfaces"
	"github.com/breakwatch/breakwatch/pkg/logger"
	"github.com/breakwatch/breakwatch/pkg/types"
)

// Source evaluates media queries against a current viewport size and
// notifies subscribers when a query's truth flips. It implements
// interfaces.MediaSource for production consumers driven by real dimensions
// (window metrics, terminal geometry, layout probes).
//
// Registration, removal and SetSize are expected on the same goroutine as
// delivery; the mutex covers incidental cross-goroutine reads, not delivery
// ordering.
type Source struct {
	logger logger.Logger

	width  float64
	height float64

	queries    map[string]*watchedQuery
	queryOrder []string
	nextID     int
	mu         sync.RWMutex
}

type watchedQuery struct {
	matcher   matcher
	lastMatch bool
	listeners map[int]interfaces.MediaListener
	order     []int
}

// NewSource creates a source with an initial viewport size
func NewSource(width, height float64, log logger.Logger) *Source {
	return &Source{
		logger:  log,
		width:   width,
		height:  height,
		queries: make(map[string]*watchedQuery),
	}
}

// Matches reports whether query holds for the current size. A query that
// fails to parse is inert: it never matches and never errors.
func (s *Source) Matches(query string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if wq, ok := s.queries[query]; ok {
		return wq.matcher.matches(s.width, s.height)
	}
	return parseQuery(query).matches(s.width, s.height)
}

// Subscribe implements interfaces.MediaSource
func (s *Source) Subscribe(query string, listener interfaces.MediaListener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	wq, ok := s.queries[query]
	if !ok {
		m := parseQuery(query)
		wq = &watchedQuery{
			matcher:   m,
			lastMatch: m.matches(s.width, s.height),
			listeners: make(map[int]interfaces.MediaListener),
		}
		s.queries[query] = wq
		s.queryOrder = append(s.queryOrder, query)
	}

	s.nextID++
	id := s.nextID
	wq.listeners[id] = listener
	wq.order = append(wq.order, id)

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		current, ok := s.queries[query]
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
			delete(s.queries, query)
			for i, q := range s.queryOrder {
				if q == query {
					s.queryOrder = append(s.queryOrder[:i], s.queryOrder[i+1:]...)
					break
				}
			}
		}
	}
}

// Size returns the current viewport dimensions
func (s *Source) Size() (width, height float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height
}

// SetSize updates the viewport and delivers a transition to every watched
// query whose truth flipped. Several queries flipping on one resize are
// delivered back to back within the caller's tick, which is exactly the
// burst the change queue coalesces.
func (s *Source) SetSize(width, height float64) {
	type delivery struct {
		listeners []interfaces.MediaListener
		change    types.MediaChange
	}

	s.mu.Lock()
	s.width = width
	s.height = height

	// Walk in registration order so flips within one resize are delivered
	// deterministically.
	var pending []delivery
	for _, query := range s.queryOrder {
		wq := s.queries[query]
		now := wq.matcher.matches(width, height)
		if now == wq.lastMatch {
			continue
		}
		wq.lastMatch = now

		listeners := make([]interfaces.MediaListener, 0, len(wq.order))
		for _, id := range wq.order {
			if fn, ok := wq.listeners[id]; ok {
				listeners = append(listeners, fn)
			}
		}
		pending = append(pending, delivery{
			listeners: listeners,
			change:    types.MediaChange{MediaQuery: query, Matches: now},
		})
	}
	s.mu.Unlock()

	for _, d := range pending {
		if s.logger != nil {
			s.logger.Debug("Viewport transition",
				logger.WithField("query", d.change.MediaQuery),
				logger.WithField("matches", d.change.Matches))
		}
		for _, fn := range d.listeners {
			fn(d.change)
		}
	}
}
