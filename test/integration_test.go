//go:build integration
// +build integration

package integration_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/breakwatch/breakwatch/internal/viewport"
	"github.com/breakwatch/breakwatch/pkg/config"
	"github.com/breakwatch/breakwatch/pkg/evaluator"
	"github.com/breakwatch/breakwatch/pkg/logger"
	"github.com/breakwatch/breakwatch/pkg/monitor"
	"github.com/breakwatch/breakwatch/pkg/observable"
	"github.com/breakwatch/breakwatch/pkg/queue"
	"github.com/breakwatch/breakwatch/pkg/registry"
	"github.com/breakwatch/breakwatch/pkg/types"
)

func testLogger(t *testing.T) logger.Logger {
	t.Helper()
	return logger.CreateLoggerWithOutput("error", os.Stderr)
}

func eventually(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

// TestEndToEndResize drives the full pipeline: default registry, viewport
// source, monitor with deferred scheduling, observable facade.
func TestEndToEndResize(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	log := testLogger(t)
	reg, err := registry.Build(config.DefaultBreakPoints(), nil, "xs", "sm", "md", "lg", "xl")
	if err != nil {
		t.Fatalf("building registry: %v", err)
	}

	source := viewport.NewSource(320, 480, log)
	m := monitor.New(reg, monitor.Dependencies{
		Evaluator: evaluator.New(source, log),
		Logger:    log,
	})
	defer m.Close()

	media := observable.New(m)

	var mu sync.Mutex
	var activations []string
	sub := media.Subscribe(func(change types.MediaChange) {
		mu.Lock()
		activations = append(activations, change.Alias)
		mu.Unlock()
	})
	defer sub.Unsubscribe()

	if active := m.Active(); active == nil || active.Alias != "xs" {
		t.Fatalf("expected xs active at 320px, got %+v", active)
	}

	source.SetSize(700, 480)
	eventually(t, 2*time.Second, func() bool {
		active := m.Active()
		return active != nil && active.Alias == "sm"
	})

	source.SetSize(2000, 480)
	eventually(t, 2*time.Second, func() bool {
		active := m.Active()
		return active != nil && active.Alias == "xl"
	})

	eventually(t, 2*time.Second, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(activations) >= 2
	})

	mu.Lock()
	defer mu.Unlock()
	sawSm, sawXl := false, false
	for _, alias := range activations {
		switch alias {
		case "sm":
			sawSm = true
		case "xl":
			sawXl = true
		}
	}
	if !sawSm || !sawXl {
		t.Errorf("expected sm and xl activations, got %v", activations)
	}
}

// TestEndToEndOverlaps verifies overlapping ranges activate alongside the
// exclusive range without competing for Active().
func TestEndToEndOverlaps(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	log := testLogger(t)
	reg, err := registry.Build(config.DefaultBreakPoints(), nil)
	if err != nil {
		t.Fatalf("building registry: %v", err)
	}

	source := viewport.NewSource(1000, 800, log)
	m := monitor.New(reg, monitor.Dependencies{
		Evaluator: evaluator.New(source, log),
		Scheduler: queue.ImmediateScheduler{},
		Logger:    log,
	})
	defer m.Close()

	active := m.Active()
	if active == nil || active.Alias != "md" {
		t.Fatalf("expected md active at 1000px, got %+v", active)
	}

	overlapAliases := map[string]bool{}
	for _, bp := range m.ActiveOverlaps() {
		overlapAliases[bp.Alias] = true
	}
	for _, want := range []string{"lt-lg", "lt-xl", "gt-xs", "gt-sm"} {
		if !overlapAliases[want] {
			t.Errorf("expected overlap %q active at 1000px, got %v", want, overlapAliases)
		}
	}
	if overlapAliases["gt-md"] || overlapAliases["lt-md"] {
		t.Errorf("unexpected overlaps active at 1000px: %v", overlapAliases)
	}
}

// TestEndToEndConfigFile loads custom breakpoints from a JSON config file and
// verifies they override and extend the defaults.
func TestEndToEndConfigFile(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "breakwatch.config.json")

	file := config.File{
		Version: "1.0",
		BreakPoints: []types.BreakPoint{
			{Alias: "sm", MediaQuery: "screen and (min-width: 500px) and (max-width: 959.98px)"},
			{Alias: "ultra", MediaQuery: "screen and (min-width: 5000px)"},
		},
	}
	data, err := json.Marshal(file)
	if err != nil {
		t.Fatalf("marshaling config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	manager := config.NewManager()
	custom, err := manager.LoadBreakPoints(configPath)
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}

	reg, err := registry.Build(config.DefaultBreakPoints(), custom)
	if err != nil {
		t.Fatalf("building registry: %v", err)
	}

	sm := reg.FindByAlias("sm")
	if sm == nil || sm.MediaQuery != "screen and (min-width: 500px) and (max-width: 959.98px)" {
		t.Errorf("expected overridden sm query, got %+v", sm)
	}

	ultra := reg.FindByAlias("ultra")
	if ultra == nil {
		t.Fatal("expected appended ultra breakpoint")
	}
	if ultra.Suffix != "Ultra" {
		t.Errorf("expected derived suffix Ultra, got %q", ultra.Suffix)
	}
	if ultra.Priority != reg.Size()-1 {
		t.Errorf("expected ultra appended last, got priority %d of %d", ultra.Priority, reg.Size())
	}

	log := testLogger(t)
	source := viewport.NewSource(520, 480, log)
	m := monitor.New(reg, monitor.Dependencies{
		Evaluator: evaluator.New(source, log),
		Scheduler: queue.ImmediateScheduler{},
		Logger:    log,
	})
	defer m.Close()

	if active := m.Active(); active == nil || active.Alias != "sm" {
		t.Fatalf("expected overridden sm active at 520px, got %+v", active)
	}

	source.SetSize(6000, 480)
	if active := m.Active(); active == nil || active.Alias != "ultra" {
		t.Fatalf("expected ultra active at 6000px, got %+v", active)
	}
}
