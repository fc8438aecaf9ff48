// Package notifier surfaces breakpoint transitions as desktop notifications
package notifier

import (
	"fmt"

	"github.com/gen2brain/beeep"

	"github.com/breakwatch/breakwatch/pkg/logger"
	"github.com/breakwatch/breakwatch/pkg/types"
)

// ChangeNotifier posts a desktop notification per canonical transition.
// Delivery failures are logged and otherwise ignored; notifications are
// best-effort and must never disturb the monitor's stream.
type ChangeNotifier struct {
	enabled   bool
	playSound bool
	logger    logger.Logger
}

// New creates a change notifier from configuration
func New(cfg types.NotificationConfig, log logger.Logger) *ChangeNotifier {
	return &ChangeNotifier{
		enabled:   cfg.Enabled,
		playSound: cfg.ActivatedSound != "",
		logger:    log,
	}
}

// NotifyActivated announces a range becoming active
func (n *ChangeNotifier) NotifyActivated(change types.MediaChange) {
	if !n.enabled {
		return
	}

	title := "Breakpoint active"
	message := change.MediaQuery
	if change.Alias != "" {
		message = fmt.Sprintf("%s (%s)", change.Alias, change.MediaQuery)
	}

	n.send(title, message, n.playSound)
}

// NotifyDeactivated announces a range becoming inactive
func (n *ChangeNotifier) NotifyDeactivated(change types.MediaChange) {
	if !n.enabled {
		return
	}

	title := "Breakpoint inactive"
	message := change.MediaQuery
	if change.Alias != "" {
		message = fmt.Sprintf("%s (%s)", change.Alias, change.MediaQuery)
	}

	n.send(title, message, false)
}

func (n *ChangeNotifier) send(title, message string, sound bool) {
	if err := beeep.Notify(title, message, ""); err != nil {
		if n.logger != nil {
			n.logger.Debug("Failed to send notification",
				logger.WithField("error", err))
		}
		return
	}

	if sound {
		if err := beeep.Beep(beeep.DefaultFreq, beeep.DefaultDuration); err != nil && n.logger != nil {
			n.logger.Debug("Failed to play sound",
				logger.WithField("error", err))
		}
	}
}
