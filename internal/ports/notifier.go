package ports

import "time"

// Notifier tells the user about events outside the terminal.
type Notifier interface {
	// NotifyQuotaComplete announces that the daily quota was satisfied.
	NotifyQuotaComplete(worked time.Duration) error
}
