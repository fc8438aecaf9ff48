// Package config provides configuration management including hot-reload functionality
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/breakwatch/breakwatch/pkg/logger"
	"github.com/breakwatch/breakwatch/pkg/types"
)

// ReloadCallback is called with the freshly parsed breakpoint list when the
// watched file changes. Registries stay immutable; callers that want the new
// definitions rebuild a registry and monitor from them.
type ReloadCallback func([]types.BreakPoint, error)

// ReloadManager watches a breakpoint configuration file and re-parses it on
// change, debounced so editor write bursts yield one reload.
type ReloadManager struct {
	configPath     string
	logger         logger.Logger
	manager        *Manager
	watcher        *fsnotify.Watcher
	callbacks      []ReloadCallback
	lastModTime    time.Time
	debounceTimer  *time.Timer
	debouncePeriod time.Duration
	mu             sync.RWMutex
	ctx            context.Context
	cancel         context.CancelFunc
	isWatching     bool
}

// NewReloadManager creates a new configuration reload manager
func NewReloadManager(configPath string, log logger.Logger) *ReloadManager {
	ctx, cancel := context.WithCancel(context.Background())

	return &ReloadManager{
		configPath:     configPath,
		logger:         log,
		manager:        NewManager(),
		debouncePeriod: 500 * time.Millisecond,
		ctx:            ctx,
		cancel:         cancel,
	}
}

// AddCallback adds a reload callback
func (rm *ReloadManager) AddCallback(callback ReloadCallback) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	rm.callbacks = append(rm.callbacks, callback)
}

// RemoveAllCallbacks removes all reload callbacks
func (rm *ReloadManager) RemoveAllCallbacks() {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	rm.callbacks = nil
}

// StartWatching begins watching the configuration file for changes
func (rm *ReloadManager) StartWatching() error {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	if rm.isWatching {
		return fmt.Errorf("already watching configuration file")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	rm.watcher = watcher

	// Watch the directory; many editors replace the file on save, which
	// surfaces as create/rename rather than write on the path itself.
	configDir := filepath.Dir(rm.configPath)
	if err := rm.watcher.Add(configDir); err != nil {
		rm.watcher.Close()
		return fmt.Errorf("failed to watch config directory: %w", err)
	}

	if stat, err := os.Stat(rm.configPath); err == nil {
		rm.lastModTime = stat.ModTime()
	}

	rm.isWatching = true

	go rm.watchLoop()

	if rm.logger != nil {
		rm.logger.Debug("Started watching configuration file",
			logger.WithField("path", rm.configPath))
	}

	return nil
}

// StopWatching stops watching and releases the watcher
func (rm *ReloadManager) StopWatching() {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	if !rm.isWatching {
		return
	}
	rm.cancel()
	if rm.debounceTimer != nil {
		rm.debounceTimer.Stop()
	}
	rm.watcher.Close()
	rm.isWatching = false
}

// Reload parses the configuration file once and invokes the callbacks
func (rm *ReloadManager) Reload() {
	breakpoints, err := rm.manager.LoadBreakPoints(rm.configPath)

	if err != nil && rm.logger != nil {
		rm.logger.Error("Failed to reload breakpoint configuration",
			logger.WithField("path", rm.configPath),
			logger.WithField("error", err))
	}

	rm.mu.RLock()
	callbacks := make([]ReloadCallback, len(rm.callbacks))
	copy(callbacks, rm.callbacks)
	rm.mu.RUnlock()

	for _, cb := range callbacks {
		cb(breakpoints, err)
	}
}

func (rm *ReloadManager) watchLoop() {
	for {
		select {
		case <-rm.ctx.Done():
			return

		case event, ok := <-rm.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(rm.configPath) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			rm.scheduleReload()

		case err, ok := <-rm.watcher.Errors:
			if !ok {
				return
			}
			if rm.logger != nil {
				rm.logger.Warn("Config watcher error",
					logger.WithField("error", err))
			}
		}
	}
}

func (rm *ReloadManager) scheduleReload() {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	if rm.debounceTimer != nil {
		rm.debounceTimer.Stop()
	}
	rm.debounceTimer = time.AfterFunc(rm.debouncePeriod, func() {
		if stat, err := os.Stat(rm.configPath); err == nil {
			rm.mu.Lock()
			if !stat.ModTime().After(rm.lastModTime) {
				rm.mu.Unlock()
				return
			}
			rm.lastModTime = stat.ModTime()
			rm.mu.Unlock()
		}
		rm.Reload()
	})
}
