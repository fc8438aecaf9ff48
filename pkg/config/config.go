// Package config handles breakpoint configuration loading and management
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/breakwatch/breakwatch/pkg/types"
)

// File is the on-disk shape of a breakpoint configuration
type File struct {
	Version       string                    `json:"version" yaml:"version"`
	BreakPoints   []types.BreakPoint        `json:"breakpoints" yaml:"breakpoints"`
	Monitor       *types.MonitorConfig      `json:"monitor,omitempty" yaml:"monitor,omitempty"`
	Notifications *types.NotificationConfig `json:"notifications,omitempty" yaml:"notifications,omitempty"`
}

// Manager handles configuration operations
type Manager struct{}

// NewManager creates a new configuration manager
func NewManager() *Manager {
	return &Manager{}
}

// LoadFile loads a breakpoint configuration from disk, trying JSON first
// and falling back to YAML.
func (m *Manager) LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg File
	if err := json.Unmarshal(data, &cfg); err == nil {
		return m.validate(&cfg)
	}
	if err := yaml.Unmarshal(data, &cfg); err == nil {
		return m.validate(&cfg)
	}

	return nil, fmt.Errorf("failed to parse config as JSON or YAML")
}

// LoadBreakPoints loads just the custom breakpoint list from path
func (m *Manager) LoadBreakPoints(path string) ([]types.BreakPoint, error) {
	cfg, err := m.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return cfg.BreakPoints, nil
}

// Validate checks a configuration for structural problems. Query semantics
// are not validated here; a query the evaluator cannot interpret simply
// never matches.
func (m *Manager) Validate(cfg *File) error {
	if cfg.Version != "" && cfg.Version != "1.0" {
		return fmt.Errorf("unsupported config version: %s", cfg.Version)
	}

	seen := make(map[string]bool)
	for i, bp := range cfg.BreakPoints {
		if bp.Alias == "" {
			return fmt.Errorf("breakpoint %d: alias is required", i)
		}
		if bp.MediaQuery == "" {
			return fmt.Errorf("breakpoint %q: mediaQuery is required", bp.Alias)
		}
		if seen[bp.Alias] {
			return fmt.Errorf("duplicate breakpoint alias: %s", bp.Alias)
		}
		seen[bp.Alias] = true
	}

	if cfg.Monitor != nil {
		switch cfg.Monitor.Scheduling {
		case "", types.SchedulingImmediate, types.SchedulingDeferred:
		default:
			return fmt.Errorf("invalid scheduling policy: %s", cfg.Monitor.Scheduling)
		}
	}

	return nil
}

// GetDefaultConfig returns the default configuration
func (m *Manager) GetDefaultConfig() *File {
	return &File{
		Version:     "1.0",
		BreakPoints: nil, // customs only; defaults are merged at registry build
		Monitor: &types.MonitorConfig{
			Scheduling: types.SchedulingDeferred,
		},
		Notifications: &types.NotificationConfig{
			Enabled: false,
		},
	}
}

func (m *Manager) validate(cfg *File) (*File, error) {
	if err := m.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
