// Package registry holds the canonical ordered set of breakpoint definitions
package registry

import (
	"strings"
	"unicode"

	"github.com/breakwatch/breakwatch/pkg/types"
)

// Registry is the deduplicated, ordered breakpoint list. It is built once at
// startup and read-only afterwards, so it is safe to share across consumers
// without synchronization.
type Registry struct {
	items   []types.BreakPoint
	byAlias map[string]int
	byQuery map[string]int
}

// Build merges the default and custom definition lists into a registry.
// Custom entries override defaults sharing an alias while keeping the
// default's position; unseen aliases are appended in order. Every entry gets
// a validated PascalCase suffix and its final index as priority. Build fails
// with a *types.ConfigurationError when the merged result omits any of the
// required aliases.
func Build(defaults, custom []types.BreakPoint, required ...string) (*Registry, error) {
	merged := mergeByAlias(validateSuffixes(defaults), validateSuffixes(custom))

	var missing []string
	for _, alias := range required {
		if _, ok := indexOf(merged, alias); !ok {
			missing = append(missing, alias)
		}
	}
	if len(missing) > 0 {
		return nil, &types.ConfigurationError{MissingAliases: missing}
	}

	r := &Registry{
		items:   merged,
		byAlias: make(map[string]int, len(merged)),
		byQuery: make(map[string]int, len(merged)),
	}
	for i := range r.items {
		r.items[i].Priority = i
		r.byAlias[r.items[i].Alias] = i
		// First alias wins for a shared query string; lookups by query
		// resolve to the more specific entry.
		if _, seen := r.byQuery[r.items[i].MediaQuery]; !seen {
			r.byQuery[r.items[i].MediaQuery] = i
		}
	}
	return r, nil
}

// FindByAlias returns the breakpoint registered under alias, or nil
func (r *Registry) FindByAlias(alias string) *types.BreakPoint {
	if i, ok := r.byAlias[alias]; ok {
		bp := r.items[i]
		return &bp
	}
	return nil
}

// FindByQuery returns the breakpoint registered for the query string, or nil
func (r *Registry) FindByQuery(query string) *types.BreakPoint {
	if i, ok := r.byQuery[query]; ok {
		bp := r.items[i]
		return &bp
	}
	return nil
}

// Items returns the breakpoints in priority order
func (r *Registry) Items() []types.BreakPoint {
	out := make([]types.BreakPoint, len(r.items))
	copy(out, r.items)
	return out
}

// Overlapping returns the breakpoints flagged overlapping, in priority order
func (r *Registry) Overlapping() []types.BreakPoint {
	var out []types.BreakPoint
	for _, bp := range r.items {
		if bp.Overlapping {
			out = append(out, bp)
		}
	}
	return out
}

// Size returns the number of registered breakpoints
func (r *Registry) Size() int {
	return len(r.items)
}

// DeriveSuffix converts an alias into its PascalCase display suffix, splitting
// on non-alphanumeric separators and capitalizing each segment. Derivation is
// idempotent: an already PascalCase alias maps to itself.
func DeriveSuffix(alias string) string {
	var b strings.Builder
	upperNext := true
	for _, r := range alias {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upperNext = true
			continue
		}
		if upperNext {
			b.WriteRune(unicode.ToUpper(r))
			upperNext = false
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// validateSuffixes fills in missing suffixes; supplied non-empty suffixes are
// never overwritten.
func validateSuffixes(in []types.BreakPoint) []types.BreakPoint {
	out := make([]types.BreakPoint, len(in))
	copy(out, in)
	for i := range out {
		if out[i].Suffix == "" {
			out[i].Suffix = DeriveSuffix(out[i].Alias)
		}
	}
	return out
}

// mergeByAlias applies custom over defaults: shared aliases are replaced in
// place (retaining their original position), new aliases are appended.
func mergeByAlias(defaults, custom []types.BreakPoint) []types.BreakPoint {
	merged := make([]types.BreakPoint, len(defaults))
	copy(merged, defaults)
	for _, c := range custom {
		if i, ok := indexOf(merged, c.Alias); ok {
			merged[i] = c
		} else {
			merged = append(merged, c)
		}
	}
	return merged
}

func indexOf(list []types.BreakPoint, alias string) (int, bool) {
	for i, bp := range list {
		if bp.Alias == alias {
			return i, true
		}
	}
	return 0, false
}
