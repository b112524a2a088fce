// Package domain contains the core rules of the detox timer: the work
// session state machine, its durable record and the time accounting that
// survives process restarts. It has no knowledge of files, terminals or
// databases.
package domain

import "errors"

// Error classes. Adapters wrap the underlying cause with one of these so
// callers can branch with errors.Is.
var (
	// ErrConfig marks a missing or malformed settings file or save record.
	ErrConfig = errors.New("configuration error")
	// ErrIO marks a failure reading or writing the host file, its backup or
	// the save record while running.
	ErrIO = errors.New("i/o error")
	// ErrTimeParse marks a persisted timestamp that cannot be decoded.
	ErrTimeParse = errors.New("invalid timestamp")
)

// Specific failures.
var (
	ErrInvalidSettings   = errors.New("invalid settings")
	ErrInconsistentState = errors.New("inconsistent save state")
	ErrBackupMissing     = errors.New("host file backup missing")
	ErrNotEngaged        = errors.New("no block engaged")
)
