package domain

import (
	"fmt"
	"strings"
	"time"
)

// Settings are read once at startup and never change during a run.
type Settings struct {
	// WorkDuration is the daily quota.
	WorkDuration time.Duration
	// BlockedDomains are appended to the host file in this order.
	BlockedDomains []string
	// ExpectedStart is the offset from local midnight at which work is
	// expected to begin. Nil disables lateness.
	ExpectedStart *time.Duration
	// WeekendDays are the non-work days.
	WeekendDays []time.Weekday
}

// DefaultWeekendDays returns Saturday and Sunday.
func DefaultWeekendDays() []time.Weekday {
	return []time.Weekday{time.Saturday, time.Sunday}
}

// Validate checks the settings invariants.
func (s Settings) Validate() error {
	if s.WorkDuration <= 0 {
		return fmt.Errorf("%w: work duration must be positive, got %s", ErrInvalidSettings, s.WorkDuration)
	}
	for _, d := range s.BlockedDomains {
		if strings.TrimSpace(d) == "" {
			return fmt.Errorf("%w: blocked domain cannot be empty", ErrInvalidSettings)
		}
		if strings.ContainsAny(d, " \t\r\n#") {
			return fmt.Errorf("%w: blocked domain %q contains whitespace or '#'", ErrInvalidSettings, d)
		}
	}
	if s.ExpectedStart != nil && (*s.ExpectedStart < 0 || *s.ExpectedStart >= 24*time.Hour) {
		return fmt.Errorf("%w: expected start %s is outside the day", ErrInvalidSettings, *s.ExpectedStart)
	}
	return nil
}

// ParseWeekday converts an English weekday name, full or three-letter,
// into a time.Weekday.
func ParseWeekday(name string) (time.Weekday, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for d := time.Sunday; d <= time.Saturday; d++ {
		full := strings.ToLower(d.String())
		if n == full || n == full[:3] {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown weekday %q", ErrInvalidSettings, name)
}

// ParseClock converts "HH:MM" into an offset from midnight.
func ParseClock(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: expected HH:MM, got %q", ErrInvalidSettings, s)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}
