// Package notification provides desktop notification utilities.
package notification

import (
	"fmt"
	"time"

	"github.com/gen2brain/beeep"
	"github.com/xvierd/detox-cli/internal/config"
	"github.com/xvierd/detox-cli/internal/ports"
)

// Notifier handles desktop notifications.
type Notifier struct {
	cfg    *config.NotificationConfig
	notify func(title, message string, icon any) error
	beep   func(freq float64, duration int) error
}

var _ ports.Notifier = (*Notifier)(nil)

// New creates a new notifier with the given configuration.
func New(cfg *config.NotificationConfig) *Notifier {
	beeep.AppName = "detox"
	return &Notifier{
		cfg:    cfg,
		notify: beeep.Notify,
		beep:   beeep.Beep,
	}
}

// Notify displays a desktop notification if enabled, with a beep when
// sound is on.
func (n *Notifier) Notify(title, message string) error {
	if !n.IsEnabled() {
		return nil
	}
	if err := n.notify(title, message, ""); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	if n.cfg.Sound {
		if err := n.beep(beeep.DefaultFreq, beeep.DefaultDuration); err != nil {
			return fmt.Errorf("failed to beep: %w", err)
		}
	}
	return nil
}

// NotifyQuotaComplete announces the end of the day's work. The block has
// already been lifted when this is sent.
func (n *Notifier) NotifyQuotaComplete(worked time.Duration) error {
	title := "Work complete!"
	message := fmt.Sprintf("You worked %s today. Blocked sites are reachable again.", worked.Round(time.Second))
	return n.Notify(title, message)
}

// IsEnabled returns true if notifications are enabled.
func (n *Notifier) IsEnabled() bool {
	return n.cfg != nil && n.cfg.Enabled
}
