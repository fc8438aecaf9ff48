package queue

import (
	"time"

	"github.com/breakwatch/breakwatch/pkg/interfaces"
	"github.com/breakwatch/breakwatch/pkg/types"
)

// ImmediateScheduler runs the flush in-line on the caller's goroutine.
// Deterministic; the scheduler of choice for tests and one-shot resolution.
type ImmediateScheduler struct{}

// Schedule implements interfaces.FlushScheduler
func (ImmediateScheduler) Schedule(flush func()) {
	flush()
}

// DeferredScheduler runs the flush on the next tick, after the synchronous
// burst of raw events that triggered it has fully drained. Once scheduled the
// flush always executes exactly once.
type DeferredScheduler struct{}

// Schedule implements interfaces.FlushScheduler
func (DeferredScheduler) Schedule(flush func()) {
	time.AfterFunc(0, flush)
}

// SchedulerFor maps a scheduling policy to its implementation. Unknown
// policies fall back to deferred, the production default.
func SchedulerFor(policy types.SchedulingPolicy) interfaces.FlushScheduler {
	if policy == types.SchedulingImmediate {
		return ImmediateScheduler{}
	}
	return DeferredScheduler{}
}
