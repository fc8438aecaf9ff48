package notifier_test

import (
	"testing"

	"github.com/breakwatch/breakwatch/pkg/notifier"
	"github.com/breakwatch/breakwatch/pkg/types"
)

func TestNotifier_Disabled(t *testing.T) {
	n := notifier.New(types.NotificationConfig{Enabled: false}, nil)

	// Disabled notifiers must be inert; no desktop notification fires
	n.NotifyActivated(types.MediaChange{MediaQuery: "Q1", Matches: true, Alias: "sm"})
	n.NotifyDeactivated(types.MediaChange{MediaQuery: "Q1", Matches: false, Alias: "sm"})
}

func TestNotifier_Enabled(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping desktop notification in short mode")
	}

	n := notifier.New(types.NotificationConfig{Enabled: true}, nil)

	// This would normally show a system notification. In tests we just
	// verify it doesn't crash on any platform.
	n.NotifyActivated(types.MediaChange{MediaQuery: "Q1", Matches: true, Alias: "sm"})
	n.NotifyDeactivated(types.MediaChange{MediaQuery: "Q1", Matches: false})
}
