// Package statefile stores the detox save record as a TOML file.
package statefile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/xvierd/detox-cli/internal/domain"
)

const currentVersion = 1

// Layouts written by earlier releases, tried after RFC 3339.
var legacyLayouts = []string{
	"2006-01-02 15:04:05.999999999 -07:00",
	"2006-01-02 15:04:05.999999999 UTC",
}

// rawTime keeps a timestamp undecoded so parse failures can be classified
// separately from TOML syntax errors. TOML datetimes arrive here as
// RFC 3339 text.
type rawTime string

func (r *rawTime) UnmarshalText(text []byte) error {
	*r = rawTime(text)
	return nil
}

type record struct {
	Version        int     `toml:"version"`
	Detox          bool    `toml:"detox"`
	TimeStarted    rawTime `toml:"time_started,omitempty"`
	LastCompletion rawTime `toml:"last_completion,omitempty"`
	PausedAt       rawTime `toml:"paused_at,omitempty"`
	PausedFor      string  `toml:"paused_for,omitempty"`
	// Read only: earlier records kept whole seconds.
	PausedSeconds  int64   `toml:"paused_seconds,omitempty"`
}

// Store reads and writes the save record at a fixed path.
type Store struct {
	path string
}

// New creates a store for the record at path.
func New(path string) *Store {
	return &Store{path: path}
}

// Load reads the save record.
func (s *Store) Load(ctx context.Context) (*domain.PersistedState, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: save record %s not found (run `detox init`)", domain.ErrConfig, s.path)
		}
		return nil, fmt.Errorf("%w: read save record: %v", domain.ErrConfig, err)
	}
	return Decode(data)
}

// Save writes the record atomically: a synced temp file renamed over the
// previous one.
func (s *Store) Save(ctx context.Context, state *domain.PersistedState) error {
	data, err := Encode(state)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: create state dir: %v", domain.ErrIO, err)
	}

	tmpFile, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp save record: %v", domain.ErrIO, err)
	}
	name := tmpFile.Name()
	_, err = tmpFile.Write(data)
	if err == nil {
		err = tmpFile.Sync()
	}
	if err1 := tmpFile.Close(); err1 != nil && err == nil {
		err = err1
	}
	if err != nil {
		os.Remove(name)
		return fmt.Errorf("%w: write temp save record: %v", domain.ErrIO, err)
	}

	if err := os.Rename(name, s.path); err != nil {
		os.Remove(name)
		return fmt.Errorf("%w: rename save record: %v", domain.ErrIO, err)
	}
	return nil
}

// Init writes an empty record unless one already exists. It reports
// whether a record was written.
func (s *Store) Init(ctx context.Context) (bool, error) {
	if _, err := os.Stat(s.path); err == nil {
		return false, nil
	}
	if err := s.Save(ctx, &domain.PersistedState{}); err != nil {
		return false, err
	}
	return true, nil
}

// Decode parses a save record. Syntax errors are domain.ErrConfig and bad
// timestamps domain.ErrTimeParse.
func Decode(data []byte) (*domain.PersistedState, error) {
	var rec record
	if _, err := toml.Decode(string(data), &rec); err != nil {
		return nil, fmt.Errorf("%w: decode save record: %v", domain.ErrConfig, err)
	}
	if rec.Version > currentVersion {
		return nil, fmt.Errorf("%w: save record version %d is newer than supported %d", domain.ErrConfig, rec.Version, currentVersion)
	}
	pausedFor, err := decodePausedFor(rec)
	if err != nil {
		return nil, err
	}

	state := &domain.PersistedState{
		DetoxActive: rec.Detox,
		PausedFor:   pausedFor,
	}

	if state.SessionStart, err = parseField("time_started", rec.TimeStarted); err != nil {
		return nil, err
	}
	if state.LastCompletion, err = parseField("last_completion", rec.LastCompletion); err != nil {
		return nil, err
	}
	if state.PausedAt, err = parseField("paused_at", rec.PausedAt); err != nil {
		return nil, err
	}

	if err := state.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConfig, err)
	}
	return state, nil
}

// Encode renders a save record in the current format.
func Encode(state *domain.PersistedState) ([]byte, error) {
	rec := record{
		Version:        currentVersion,
		Detox:          state.DetoxActive,
		TimeStarted:    formatField(state.SessionStart),
		LastCompletion: formatField(state.LastCompletion),
		PausedAt:       formatField(state.PausedAt),
	}
	if state.PausedFor > 0 {
		rec.PausedFor = state.PausedFor.String()
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(rec); err != nil {
		return nil, fmt.Errorf("%w: encode save record: %v", domain.ErrIO, err)
	}
	return buf.Bytes(), nil
}

func decodePausedFor(rec record) (time.Duration, error) {
	if rec.PausedFor == "" {
		if rec.PausedSeconds < 0 {
			return 0, fmt.Errorf("%w: paused_seconds cannot be negative", domain.ErrConfig)
		}
		return time.Duration(rec.PausedSeconds) * time.Second, nil
	}
	d, err := time.ParseDuration(rec.PausedFor)
	if err != nil {
		return 0, fmt.Errorf("%w: paused_for: %v", domain.ErrConfig, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%w: paused_for cannot be negative", domain.ErrConfig)
	}
	return d, nil
}

// ParseTimestamp accepts RFC 3339 and the legacy layouts.
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range legacyLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", domain.ErrTimeParse, s)
}

func parseField(name string, raw rawTime) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := ParseTimestamp(string(raw))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return &t, nil
}

func formatField(t *time.Time) rawTime {
	if t == nil {
		return ""
	}
	return rawTime(t.Format(time.RFC3339Nano))
}
