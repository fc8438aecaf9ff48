package viewport

import (
	"testing"

	"github.com/breakwatch/breakwatch/pkg/types"
)

func TestParseQuery_WidthRanges(t *testing.T) {
	cases := []struct {
		query  string
		width  float64
		height float64
		want   bool
	}{
		{"screen and (min-width: 600px) and (max-width: 959.98px)", 700, 400, true},
		{"screen and (min-width: 600px) and (max-width: 959.98px)", 599, 400, false},
		{"screen and (min-width: 600px) and (max-width: 959.98px)", 960, 400, false},
		{"(min-width: 1280px)", 1280, 0, true},
		{"(min-width: 1280px)", 1279.5, 0, false},
		{"(max-width: 599.98px)", 320, 0, true},
		{"(min-height: 500px)", 100, 600, true},
		{"(min-height: 500px)", 100, 400, false},
		{"(max-height: 800px) and (min-width: 100px)", 200, 700, true},
		{"all", 1, 1, true},
		{"screen", 1, 1, true},
	}

	for _, tc := range cases {
		if got := parseQuery(tc.query).matches(tc.width, tc.height); got != tc.want {
			t.Errorf("parseQuery(%q).matches(%v, %v) = %v, want %v",
				tc.query, tc.width, tc.height, got, tc.want)
		}
	}
}

func TestParseQuery_MalformedIsInert(t *testing.T) {
	malformed := []string{
		"",
		"((((",
		"(min-width 600px)",
		"(min-depth: 600px)",
		"(min-width: abc)",
		"print",
		"min-width: 600px",
	}

	for _, q := range malformed {
		if parseQuery(q).matches(10000, 10000) {
			t.Errorf("expected %q to never match", q)
		}
	}
}

func TestSource_MatchesWithoutSubscription(t *testing.T) {
	s := NewSource(700, 400, nil)

	if !s.Matches("(min-width: 600px)") {
		t.Error("expected 700px viewport to satisfy min-width 600")
	}
	if s.Matches("(min-width: 960px)") {
		t.Error("expected 700px viewport to fail min-width 960")
	}
}

func TestSource_SetSizeDeliversTransitions(t *testing.T) {
	s := NewSource(320, 480, nil)

	var events []types.MediaChange
	unsubscribe := s.Subscribe("(min-width: 600px)", func(c types.MediaChange) {
		events = append(events, c)
	})
	defer unsubscribe()

	s.SetSize(800, 480)
	s.SetSize(900, 480) // still matching, no transition
	s.SetSize(500, 480)

	if len(events) != 2 {
		t.Fatalf("expected 2 transitions, got %d", len(events))
	}
	if !events[0].Matches || events[1].Matches {
		t.Errorf("expected activation then deactivation, got %+v", events)
	}
}

func TestSource_SimultaneousFlipsInOneResize(t *testing.T) {
	s := NewSource(320, 480, nil)

	var events []types.MediaChange
	record := func(c types.MediaChange) { events = append(events, c) }

	s.Subscribe("(min-width: 0px) and (max-width: 599.98px)", record)
	s.Subscribe("(min-width: 600px) and (max-width: 959.98px)", record)
	s.Subscribe("(min-width: 600px)", record)

	// One resize flips all three queries within the caller's tick
	s.SetSize(700, 480)

	if len(events) != 3 {
		t.Fatalf("expected 3 transitions from one resize, got %d", len(events))
	}
	if events[0].Matches {
		t.Errorf("expected the xs range to deactivate first, got %+v", events[0])
	}
	if !events[1].Matches || !events[2].Matches {
		t.Errorf("expected sm and gt-xs activations, got %+v", events)
	}
}

func TestSource_UnsubscribeStopsDelivery(t *testing.T) {
	s := NewSource(320, 480, nil)

	count := 0
	unsubscribe := s.Subscribe("(min-width: 600px)", func(types.MediaChange) { count++ })

	s.SetSize(800, 480)
	unsubscribe()
	s.SetSize(300, 480)

	if count != 1 {
		t.Errorf("expected delivery to stop after unsubscribe, got %d", count)
	}

	// Unsubscribing again is harmless
	unsubscribe()
}
