package viewport

import (
	"strconv"
	"strings"
)

// matcher tests a parsed query against viewport dimensions
type matcher interface {
	matches(width, height float64) bool
}

// neverMatcher is the inert matcher for malformed queries
type neverMatcher struct{}

func (neverMatcher) matches(float64, float64) bool { return false }

// alwaysMatcher backs bare "all"/"screen" queries
type alwaysMatcher struct{}

func (alwaysMatcher) matches(float64, float64) bool { return true }

type rangeMatcher struct {
	minWidth, maxWidth   float64
	minHeight, maxHeight float64
	hasMinW, hasMaxW     bool
	hasMinH, hasMaxH     bool
}

func (m rangeMatcher) matches(width, height float64) bool {
	if m.hasMinW && width < m.minWidth {
		return false
	}
	if m.hasMaxW && width > m.maxWidth {
		return false
	}
	if m.hasMinH && height < m.minHeight {
		return false
	}
	if m.hasMaxH && height > m.maxHeight {
		return false
	}
	return true
}

// parseQuery understands the practical subset of media-query syntax the
// default breakpoint sets use: an optional "screen"/"all" media type and
// "and"-joined (min|max)-(width|height) features with px values. Anything
// else parses to a matcher that never matches; lookup against an unknown or
// malformed query stays inert rather than erroring.
func parseQuery(query string) matcher {
	q := strings.TrimSpace(strings.ToLower(query))
	if q == "" {
		return neverMatcher{}
	}
	if q == "all" || q == "screen" {
		return alwaysMatcher{}
	}

	var m rangeMatcher
	sawFeature := false

	for _, part := range strings.Split(q, " and ") {
		part = strings.TrimSpace(part)
		if part == "all" || part == "screen" {
			continue
		}
		if !strings.HasPrefix(part, "(") || !strings.HasSuffix(part, ")") {
			return neverMatcher{}
		}

		feature, value, ok := strings.Cut(part[1:len(part)-1], ":")
		if !ok {
			return neverMatcher{}
		}
		px, err := parsePixels(value)
		if err != nil {
			return neverMatcher{}
		}

		switch strings.TrimSpace(feature) {
		case "min-width":
			m.minWidth, m.hasMinW = px, true
		case "max-width":
			m.maxWidth, m.hasMaxW = px, true
		case "min-height":
			m.minHeight, m.hasMinH = px, true
		case "max-height":
			m.maxHeight, m.hasMaxH = px, true
		default:
			return neverMatcher{}
		}
		sawFeature = true
	}

	if !sawFeature {
		return neverMatcher{}
	}
	return m
}

func parsePixels(value string) (float64, error) {
	v := strings.TrimSpace(value)
	v = strings.TrimSuffix(v, "px")
	return strconv.ParseFloat(strings.TrimSpace(v), 64)
}
