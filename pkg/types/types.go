// Package types provides core types and configurations for Breakwatch
package types

import (
	"errors"
	"fmt"
	"strings"
)

// LogLevel represents logging verbosity levels
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// SchedulingPolicy selects how the change queue schedules its flush step
type SchedulingPolicy string

const (
	// SchedulingImmediate flushes in-line before the raw event handler
	// returns. Deterministic; used in tests and one-shot resolution.
	SchedulingImmediate SchedulingPolicy = "immediate"
	// SchedulingDeferred flushes on the next tick, after the current burst
	// of raw events has drained, so simultaneous range flips coalesce into
	// one flush.
	SchedulingDeferred SchedulingPolicy = "deferred"
)

// BreakPoint describes a named viewport/condition range. Instances are
// immutable once registered. Priority is the registry index; registries are
// expected ordered smallest-range-first, so a lower index means a more
// specific range.
type BreakPoint struct {
	Alias       string `json:"alias" yaml:"alias"`
	MediaQuery  string `json:"mediaQuery" yaml:"mediaQuery"`
	Suffix      string `json:"suffix,omitempty" yaml:"suffix,omitempty"`
	Overlapping bool   `json:"overlapping,omitempty" yaml:"overlapping,omitempty"`
	Priority    int    `json:"-" yaml:"-"`
}

// MediaChange is emitted once per condition transition. Alias and Suffix are
// populated by the monitor when the query maps to a registered breakpoint;
// they stay empty for ad-hoc queries.
type MediaChange struct {
	MediaQuery string
	Matches    bool
	Alias      string
	Suffix     string
}

// WithBreakPoint returns a copy of the change carrying the breakpoint's
// alias and suffix. The receiver is never mutated; delivered events are
// immutable.
func (c MediaChange) WithBreakPoint(bp *BreakPoint) MediaChange {
	out := c
	if bp != nil {
		out.Alias = bp.Alias
		out.Suffix = bp.Suffix
	}
	return out
}

func (c MediaChange) String() string {
	state := "deactivated"
	if c.Matches {
		state = "activated"
	}
	if c.Alias != "" {
		return fmt.Sprintf("%s %q (%s)", state, c.Alias, c.MediaQuery)
	}
	return fmt.Sprintf("%s %q", state, c.MediaQuery)
}

// MonitorConfig configures the monitor's change queue
type MonitorConfig struct {
	Scheduling SchedulingPolicy `json:"scheduling,omitempty" yaml:"scheduling,omitempty"`
}

// NotificationConfig configures desktop notifications
type NotificationConfig struct {
	Enabled        bool   `json:"enabled" yaml:"enabled"`
	ActivatedSound string `json:"activatedSound,omitempty" yaml:"activatedSound,omitempty"`
}

// ConfigurationError reports a registry build whose merged result omits
// aliases the caller declared as required. It is the only error class the
// core defines; every runtime lookup fails soft instead of erroring.
type ConfigurationError struct {
	MissingAliases []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("breakpoint registry missing required aliases: %s",
		strings.Join(e.MissingAliases, ", "))
}

// IsConfigurationError reports whether err wraps a ConfigurationError
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}
