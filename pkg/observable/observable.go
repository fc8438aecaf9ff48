// Package observable provides the activation-only view over the monitor
package observable

import (
	"github.com/breakwatch/breakwatch/pkg/interfaces"
	"github.com/breakwatch/breakwatch/pkg/monitor"
	"github.com/breakwatch/breakwatch/pkg/types"
)

// Media is a narrowed projection of the monitor's stream for consumers that
// only care about "what just became true": deactivation events are filtered
// out entirely, activations pass through in original relative order.
type Media struct {
	monitor *monitor.Monitor
}

// New creates the facade over an existing monitor
func New(m *monitor.Monitor) *Media {
	return &Media{monitor: m}
}

// IsActive passes through to the monitor's truth lookup
func (o *Media) IsActive(aliasOrQuery string) bool {
	return o.monitor.IsActive(aliasOrQuery)
}

// Subscribe attaches fn to the activation stream. By contract fn never
// observes a Matches == false event.
func (o *Media) Subscribe(fn interfaces.ChangeSink) *monitor.Subscription {
	return o.monitor.Subscribe(func(change types.MediaChange) {
		if change.Matches {
			fn(change)
		}
	})
}
