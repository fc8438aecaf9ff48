// Package monitor orchestrates the registry, evaluator and change queue
package monitor

import (
	"sync"

	"github.com/breakwatch/breakwatch/pkg/interfaces"
	"github.com/breakwatch/breakwatch/pkg/logger"
	"github.com/breakwatch/breakwatch/pkg/queue"
	"github.com/breakwatch/breakwatch/pkg/registry"
	"github.com/breakwatch/breakwatch/pkg/types"
)

// Dependencies carries the monitor's injected collaborators
type Dependencies struct {
	Evaluator interfaces.QueryEvaluator
	Scheduler interfaces.FlushScheduler
	Notifier  interfaces.ChangeNotifier
	Logger    logger.Logger
}

// Monitor wires every registered breakpoint to the evaluator, routes raw
// events through the change queue, and republishes canonical events with
// alias/suffix metadata injected from the registry.
type Monitor struct {
	registry  *registry.Registry
	evaluator interfaces.QueryEvaluator
	notifier  interfaces.ChangeNotifier
	logger    logger.Logger
	queue     *queue.ChangeQueue

	handles []interfaces.ListenerHandle

	subscribers map[string]*Subscription
	subOrder    []string

	// ad-hoc listeners for queries outside the registry, refcounted per query
	adHoc map[string]*adHocChannel

	closed bool
	mu     sync.RWMutex
}

type adHocChannel struct {
	handle interfaces.ListenerHandle
	refs   int
}

// New creates a monitor over a built registry. The evaluator dependency is
// required; the scheduler defaults to deferred flushing when absent.
func New(reg *registry.Registry, deps Dependencies) *Monitor {
	if reg == nil {
		panic("registry is required")
	}
	if deps.Evaluator == nil {
		panic("Evaluator dependency is required")
	}
	if deps.Scheduler == nil {
		deps.Scheduler = queue.DeferredScheduler{}
	}

	m := &Monitor{
		registry:    reg,
		evaluator:   deps.Evaluator,
		notifier:    deps.Notifier,
		logger:      deps.Logger,
		subscribers: make(map[string]*Subscription),
		adHoc:       make(map[string]*adHocChannel),
	}
	m.queue = queue.New(reg, deps.Scheduler, m.dispatch, deps.Logger)

	// One listener per registered breakpoint query; raw events for
	// registered queries always pass through the coalescing queue.
	for _, bp := range reg.Items() {
		handle := deps.Evaluator.Listen(bp.MediaQuery, m.queue.OnRawChange)
		m.handles = append(m.handles, handle)
	}

	return m
}

// IsActive resolves aliasOrQuery against the registry, falling back to
// treating the input as a literal query string, and reports current truth.
// Unknown aliases never error; an unmatched literal simply evaluates false.
func (m *Monitor) IsActive(aliasOrQuery string) bool {
	return m.evaluator.IsActive(m.resolveQuery(aliasOrQuery))
}

// Active returns the highest-priority currently-true non-overlapping
// breakpoint. When no non-overlapping breakpoint is true, the least specific
// registered breakpoint serves as catch-all if it is true; otherwise nil.
func (m *Monitor) Active() *types.BreakPoint {
	items := m.registry.Items()
	for i := range items {
		if !items[i].Overlapping && m.evaluator.IsActive(items[i].MediaQuery) {
			bp := items[i]
			return &bp
		}
	}
	if n := len(items); n > 0 && m.evaluator.IsActive(items[n-1].MediaQuery) {
		bp := items[n-1]
		return &bp
	}
	return nil
}

// ActiveOverlaps returns all overlapping breakpoints currently true, in
// priority order.
func (m *Monitor) ActiveOverlaps() []types.BreakPoint {
	var out []types.BreakPoint
	for _, bp := range m.registry.Overlapping() {
		if m.evaluator.IsActive(bp.MediaQuery) {
			out = append(out, bp)
		}
	}
	return out
}

// Registry exposes the monitor's read-only breakpoint set
func (m *Monitor) Registry() *registry.Registry {
	return m.registry
}

// Subscribe attaches fn to the full canonical stream. Every delivered event
// carries alias and suffix when the query maps to a registered breakpoint.
func (m *Monitor) Subscribe(fn interfaces.ChangeSink) *Subscription {
	return m.observe("", fn)
}

// Observe attaches fn to the canonical stream filtered to one breakpoint's
// (or literal query's) transitions. Observing a query outside the registry
// attaches an ad-hoc evaluator listener whose events bypass range-priority
// resolution and are forwarded directly.
func (m *Monitor) Observe(aliasOrQuery string, fn interfaces.ChangeSink) *Subscription {
	return m.observe(m.resolveQuery(aliasOrQuery), fn)
}

// Close detaches every evaluator listener and drops all subscribers
func (m *Monitor) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	handles := m.handles
	m.handles = nil
	for _, ch := range m.adHoc {
		handles = append(handles, ch.handle)
	}
	m.adHoc = make(map[string]*adHocChannel)
	m.subscribers = make(map[string]*Subscription)
	m.subOrder = nil
	m.mu.Unlock()

	for _, h := range handles {
		m.evaluator.Unlisten(h)
	}
}

// resolveQuery maps an alias to its registered query, or returns the input
// unchanged when no alias matches.
func (m *Monitor) resolveQuery(aliasOrQuery string) string {
	if bp := m.registry.FindByAlias(aliasOrQuery); bp != nil {
		return bp.MediaQuery
	}
	return aliasOrQuery
}

func (m *Monitor) observe(filterQuery string, fn interfaces.ChangeSink) *Subscription {
	sub := newSubscription(m, filterQuery, fn)

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return sub
	}
	m.subscribers[sub.id] = sub
	m.subOrder = append(m.subOrder, sub.id)

	var attach string
	if filterQuery != "" && m.registry.FindByQuery(filterQuery) == nil {
		if ch, ok := m.adHoc[filterQuery]; ok {
			ch.refs++
		} else {
			attach = filterQuery
		}
	}
	m.mu.Unlock()

	if attach != "" {
		handle := m.evaluator.Listen(attach, m.dispatch)
		m.mu.Lock()
		m.adHoc[attach] = &adHocChannel{handle: handle, refs: 1}
		m.mu.Unlock()
	}

	return sub
}

func (m *Monitor) unsubscribe(sub *Subscription) {
	m.mu.Lock()
	if _, ok := m.subscribers[sub.id]; !ok {
		m.mu.Unlock()
		return
	}
	delete(m.subscribers, sub.id)
	for i, id := range m.subOrder {
		if id == sub.id {
			m.subOrder = append(m.subOrder[:i], m.subOrder[i+1:]...)
			break
		}
	}

	var detach interfaces.ListenerHandle
	if sub.filterQuery != "" {
		if ch, ok := m.adHoc[sub.filterQuery]; ok {
			ch.refs--
			if ch.refs == 0 {
				detach = ch.handle
				delete(m.adHoc, sub.filterQuery)
			}
		}
	}
	m.mu.Unlock()

	if detach != nil {
		m.evaluator.Unlisten(detach)
	}
}

// dispatch is the queue's output sink and the direct path for ad-hoc
// queries. It injects alias/suffix from the registry (producing a copy, the
// original event is never mutated) and delivers to subscribers in
// registration order.
func (m *Monitor) dispatch(change types.MediaChange) {
	enriched := change.WithBreakPoint(m.registry.FindByQuery(change.MediaQuery))

	if m.logger != nil {
		m.logger.Debug("Dispatching change",
			logger.WithField("query", enriched.MediaQuery),
			logger.WithField("alias", enriched.Alias),
			logger.WithField("matches", enriched.Matches))
	}

	if m.notifier != nil {
		if enriched.Matches {
			m.notifier.NotifyActivated(enriched)
		} else {
			m.notifier.NotifyDeactivated(enriched)
		}
	}

	m.mu.RLock()
	subs := make([]*Subscription, 0, len(m.subOrder))
	for _, id := range m.subOrder {
		if sub, ok := m.subscribers[id]; ok {
			subs = append(subs, sub)
		}
	}
	m.mu.RUnlock()

	for _, sub := range subs {
		if sub.filterQuery != "" && sub.filterQuery != enriched.MediaQuery {
			continue
		}
		sub.deliver(enriched)
	}
}
