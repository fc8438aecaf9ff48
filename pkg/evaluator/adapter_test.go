package evaluator_test

import (
	"testing"

	"github.com/breakwatch/breakwatch/pkg/evaluator"
	"github.com/breakwatch/breakwatch/pkg/mocks"
	"github.com/breakwatch/breakwatch/pkg/types"
)

func collect(events *[]types.MediaChange) func(types.MediaChange) {
	return func(change types.MediaChange) {
		*events = append(*events, change)
	}
}

func TestListen_SingleUnderlyingSubscriptionPerQuery(t *testing.T) {
	source := mocks.NewMockMediaSource()
	adapter := evaluator.New(source, nil)

	var a, b, c []types.MediaChange
	adapter.Listen("q1", collect(&a))
	adapter.Listen("q1", collect(&b))
	adapter.Listen("q2", collect(&c))

	// Three logical listeners, two distinct queries, one source
	// subscription each
	if got := source.SubscriberCount("q1"); got != 1 {
		t.Errorf("expected 1 underlying subscription for q1, got %d", got)
	}
	if got := source.SubscriberCount("q2"); got != 1 {
		t.Errorf("expected 1 underlying subscription for q2, got %d", got)
	}
	if got := adapter.SubscriptionCount(); got != 2 {
		t.Errorf("expected 2 adapter channels, got %d", got)
	}
	if got := adapter.ListenerCount("q1"); got != 2 {
		t.Errorf("expected 2 logical listeners for q1, got %d", got)
	}
}

func TestListen_FanOut(t *testing.T) {
	source := mocks.NewMockMediaSource()
	adapter := evaluator.New(source, nil)

	var a, b []types.MediaChange
	adapter.Listen("q1", collect(&a))
	adapter.Listen("q1", collect(&b))

	source.SetMatches("q1", true)
	source.SetMatches("q1", false)

	if len(a) != 2 || len(b) != 2 {
		t.Fatalf("expected both listeners to see 2 events, got %d and %d", len(a), len(b))
	}
	if !a[0].Matches || a[1].Matches {
		t.Errorf("unexpected event order for first listener: %+v", a)
	}
}

func TestListen_LateSubscriptionSyntheticActivation(t *testing.T) {
	source := mocks.NewMockMediaSource()
	adapter := evaluator.New(source, nil)

	source.SetMatches("q1", true)

	var events []types.MediaChange
	adapter.Listen("q1", collect(&events))

	// Registration against an already-true query yields an immediate
	// synthetic activation before any new raw event occurs
	if len(events) != 1 {
		t.Fatalf("expected 1 synthetic event, got %d", len(events))
	}
	if !events[0].Matches || events[0].MediaQuery != "q1" {
		t.Errorf("expected synthetic activation for q1, got %+v", events[0])
	}
}

func TestListen_NoSyntheticForInactiveQuery(t *testing.T) {
	source := mocks.NewMockMediaSource()
	adapter := evaluator.New(source, nil)

	var events []types.MediaChange
	adapter.Listen("q1", collect(&events))

	if len(events) != 0 {
		t.Fatalf("expected no synthetic event for inactive query, got %d", len(events))
	}
}

func TestUnlisten_TearsDownLastListener(t *testing.T) {
	source := mocks.NewMockMediaSource()
	adapter := evaluator.New(source, nil)

	var a, b []types.MediaChange
	h1 := adapter.Listen("q1", collect(&a))
	h2 := adapter.Listen("q1", collect(&b))

	adapter.Unlisten(h1)
	if got := source.SubscriberCount("q1"); got != 1 {
		t.Errorf("expected underlying subscription kept while listeners remain, got %d", got)
	}

	source.SetMatches("q1", true)
	if len(a) != 0 {
		t.Error("expected no delivery after Unlisten")
	}
	if len(b) != 1 {
		t.Errorf("expected remaining listener to receive event, got %d", len(b))
	}

	adapter.Unlisten(h2)
	if got := source.SubscriberCount("q1"); got != 0 {
		t.Errorf("expected underlying subscription torn down, got %d", got)
	}
	if got := adapter.SubscriptionCount(); got != 0 {
		t.Errorf("expected no adapter channels left, got %d", got)
	}
}

func TestIsActive_MalformedQueryIsInert(t *testing.T) {
	source := mocks.NewMockMediaSource()
	adapter := evaluator.New(source, nil)

	// Unknown or malformed queries evaluate false, never error
	if adapter.IsActive("((((") {
		t.Error("expected malformed query to never match")
	}
	if adapter.IsActive("") {
		t.Error("expected empty query to never match")
	}
}
