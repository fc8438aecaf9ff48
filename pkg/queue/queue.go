// Package queue provides the change-coalescing and priority-resolution engine
package queue

import (
	"sync"

	"github.com/breakwatch/breakwatch/pkg/interfaces"
	"github.com/breakwatch/breakwatch/pkg/logger"
	"github.com/breakwatch/breakwatch/pkg/types"
)

// ChangeQueue converts a burst of raw activation/deactivation events arriving
// within one flush cycle into a canonical ordered sequence: every buffered
// deactivation in arrival order, then at most one activation picked by
// breakpoint priority. Ties between simultaneously queued activations are
// broken by registry order, never by arrival order.
type ChangeQueue struct {
	breakpoints interfaces.BreakPointLookup
	scheduler   interfaces.FlushScheduler
	sink        interfaces.ChangeSink
	logger      logger.Logger

	activated    []types.MediaChange
	deactivated  []types.MediaChange
	flushPending bool

	mu sync.Mutex
}

// New creates a change queue delivering canonical events to sink
func New(
	breakpoints interfaces.BreakPointLookup,
	scheduler interfaces.FlushScheduler,
	sink interfaces.ChangeSink,
	log logger.Logger,
) *ChangeQueue {
	return &ChangeQueue{
		breakpoints: breakpoints,
		scheduler:   scheduler,
		sink:        sink,
		logger:      log,
	}
}

// OnRawChange buffers one raw event and schedules a flush if none is pending.
// With the immediate scheduler the flush runs before OnRawChange returns;
// with the deferred scheduler it runs after the current burst has drained.
func (q *ChangeQueue) OnRawChange(change types.MediaChange) {
	q.mu.Lock()
	if change.Matches {
		q.activated = append(q.activated, change)
	} else {
		q.deactivated = append(q.deactivated, change)
	}

	if q.flushPending {
		q.mu.Unlock()
		return
	}
	q.flushPending = true
	q.mu.Unlock()

	q.scheduler.Schedule(q.flush)
}

// Pending reports whether a flush is currently scheduled
func (q *ChangeQueue) Pending() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.flushPending
}

// flush executes exactly once per scheduled cycle. It empties both buffers
// and clears the pending guard before delivering, so sinks that feed new raw
// events back in start a fresh cycle.
func (q *ChangeQueue) flush() {
	q.mu.Lock()
	deactivated := q.deactivated
	activated := q.activated
	q.deactivated = nil
	q.activated = nil
	q.flushPending = false
	q.mu.Unlock()

	// Every simultaneous deactivation is real; all are reported, in the
	// order received.
	for _, change := range deactivated {
		q.emit(change)
	}

	if len(activated) == 0 {
		return
	}

	// At most one activation per flush: the first breakpoint in priority
	// order with a queued matching activation wins.
	for _, bp := range q.breakpoints.Items() {
		if change, ok := firstForQuery(activated, bp.MediaQuery); ok {
			q.emit(change)
			return
		}
	}

	if q.logger != nil {
		q.logger.Debug("No queued activation matched a registered breakpoint",
			logger.WithField("queued", len(activated)))
	}
}

func (q *ChangeQueue) emit(change types.MediaChange) {
	if q.logger != nil {
		q.logger.Debug("Emitting canonical change",
			logger.WithField("query", change.MediaQuery),
			logger.WithField("matches", change.Matches))
	}
	q.sink(change)
}

func firstForQuery(changes []types.MediaChange, query string) (types.MediaChange, bool) {
	for _, c := range changes {
		if c.MediaQuery == query {
			return c, true
		}
	}
	return types.MediaChange{}, false
}
