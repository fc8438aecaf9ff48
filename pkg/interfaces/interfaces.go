// Package interfaces provides abstractions for dependency injection and testability
package interfaces

import (
	"github.com/breakwatch/breakwatch/pkg/types"
)

// MediaListener is invoked with every transition of a single query string
type MediaListener func(change types.MediaChange)

// MediaSource is the evaluator capability the core depends on. A source can
// test a condition string and notify on its transitions. Malformed query
// strings are inert: they never match and never error.
type MediaSource interface {
	// Matches reports whether the query currently holds.
	Matches(query string) bool
	// Subscribe registers a listener for transitions of query and returns a
	// function that removes it. Each call opens one underlying notification
	// stream; fan-out across logical subscribers is the adapter's job, not
	// the source's.
	Subscribe(query string, listener MediaListener) (unsubscribe func())
}

// QueryEvaluator is the multiplexing surface the monitor consumes: many
// logical listeners per distinct query string, exactly one underlying source
// subscription each.
type QueryEvaluator interface {
	IsActive(query string) bool
	Listen(query string, listener MediaListener) ListenerHandle
	Unlisten(handle ListenerHandle)
}

// ListenerHandle identifies one logical listener registration
type ListenerHandle interface {
	Query() string
}

// FlushScheduler decides when a pending change-queue flush executes. A
// scheduled flush runs exactly once; there is no cancellation.
type FlushScheduler interface {
	Schedule(flush func())
}

// ChangeSink receives canonical (post-coalescing) change events
type ChangeSink func(change types.MediaChange)

// ChangeNotifier surfaces breakpoint transitions outside the process
type ChangeNotifier interface {
	NotifyActivated(change types.MediaChange)
	NotifyDeactivated(change types.MediaChange)
}

// BreakPointLookup is the read-only registry view the queue and monitor need
type BreakPointLookup interface {
	FindByAlias(alias string) *types.BreakPoint
	FindByQuery(query string) *types.BreakPoint
	Items() []types.BreakPoint
	Overlapping() []types.BreakPoint
}
