package config

import "github.com/breakwatch/breakwatch/pkg/types"

// DefaultBreakPoints returns the built-in breakpoint dataset, ordered
// smallest range first so registry position doubles as priority. The exact
// query strings are opaque configuration; the core never interprets them.
// The lt-*/gt-* entries are open-ended ranges that intentionally hold
// simultaneously with the exclusive ones, hence the overlapping flag.
func DefaultBreakPoints() []types.BreakPoint {
	return []types.BreakPoint{
		{Alias: "xs", MediaQuery: "screen and (min-width: 0px) and (max-width: 599.98px)"},
		{Alias: "sm", MediaQuery: "screen and (min-width: 600px) and (max-width: 959.98px)"},
		{Alias: "md", MediaQuery: "screen and (min-width: 960px) and (max-width: 1279.98px)"},
		{Alias: "lg", MediaQuery: "screen and (min-width: 1280px) and (max-width: 1919.98px)"},
		{Alias: "xl", MediaQuery: "screen and (min-width: 1920px) and (max-width: 4999.98px)"},

		{Alias: "lt-sm", MediaQuery: "screen and (max-width: 599.98px)", Overlapping: true},
		{Alias: "lt-md", MediaQuery: "screen and (max-width: 959.98px)", Overlapping: true},
		{Alias: "lt-lg", MediaQuery: "screen and (max-width: 1279.98px)", Overlapping: true},
		{Alias: "lt-xl", MediaQuery: "screen and (max-width: 1919.98px)", Overlapping: true},

		{Alias: "gt-xs", MediaQuery: "screen and (min-width: 600px)", Overlapping: true},
		{Alias: "gt-sm", MediaQuery: "screen and (min-width: 960px)", Overlapping: true},
		{Alias: "gt-md", MediaQuery: "screen and (min-width: 1280px)", Overlapping: true},
		{Alias: "gt-lg", MediaQuery: "screen and (min-width: 1920px)", Overlapping: true},
	}
}
