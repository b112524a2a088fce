// Package hosts blocks domains by pointing them at the loopback address in
// the system host file.
package hosts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xvierd/detox-cli/internal/domain"
)

// LoopbackAddress is the address blocked domains resolve to.
const LoopbackAddress = "127.0.0.1"

// Blocker edits a host file. Every operation holds an exclusive lock on
// lockPath so two instances never interleave edits.
type Blocker struct {
	hostsPath  string
	backupPath string
	lockPath   string
}

// NewBlocker creates a blocker. An empty lockPath disables locking.
func NewBlocker(hostsPath, backupPath, lockPath string) *Blocker {
	return &Blocker{
		hostsPath:  hostsPath,
		backupPath: backupPath,
		lockPath:   lockPath,
	}
}

// BlockLines renders the text Engage appends for domains: a blank
// separator line, then one loopback line per domain.
func BlockLines(domains []string) string {
	var b strings.Builder
	b.WriteString("\n")
	for _, d := range domains {
		fmt.Fprintf(&b, "%s  %s\n", LoopbackAddress, d)
	}
	return b.String()
}

// Backup copies the host file to the backup path, replacing any previous
// backup.
func (b *Blocker) Backup(ctx context.Context) error {
	return b.withLock(func() error {
		data, err := os.ReadFile(b.hostsPath)
		if err != nil {
			return fmt.Errorf("%w: read host file: %v", domain.ErrIO, err)
		}
		if err := writeAtomic(b.backupPath, data); err != nil {
			return fmt.Errorf("%w: write backup: %v", domain.ErrIO, err)
		}
		return nil
	})
}

// Engage appends the block lines for domains to the host file.
func (b *Blocker) Engage(ctx context.Context, domains []string) error {
	return b.withLock(func() error {
		f, err := os.OpenFile(b.hostsPath, os.O_WRONLY|os.O_APPEND, 0)
		if err != nil {
			return fmt.Errorf("%w: open host file: %v", domain.ErrIO, err)
		}
		_, err = f.WriteString(BlockLines(domains))
		if err == nil {
			err = f.Sync()
		}
		if err1 := f.Close(); err1 != nil && err == nil {
			err = err1
		}
		if err != nil {
			return fmt.Errorf("%w: append to host file: %v", domain.ErrIO, err)
		}
		return nil
	})
}

// Revert overwrites the host file with the backup.
func (b *Blocker) Revert(ctx context.Context) error {
	return b.withLock(func() error {
		data, err := os.ReadFile(b.backupPath)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("%w: %w: %s", domain.ErrIO, domain.ErrBackupMissing, b.backupPath)
			}
			return fmt.Errorf("%w: read backup: %v", domain.ErrIO, err)
		}
		// The host file is rewritten in place so its owner, mode and any
		// bind mount survive.
		if err := writeInPlace(b.hostsPath, data); err != nil {
			return fmt.Errorf("%w: restore host file: %v", domain.ErrIO, err)
		}
		return nil
	})
}

// Engaged reports whether the host file currently differs from the backup
// by exactly the block lines for domains.
func (b *Blocker) Engaged(domains []string) (bool, error) {
	current, err := os.ReadFile(b.hostsPath)
	if err != nil {
		return false, fmt.Errorf("%w: read host file: %v", domain.ErrIO, err)
	}
	backup, err := os.ReadFile(b.backupPath)
	if err != nil {
		return false, fmt.Errorf("%w: read backup: %v", domain.ErrIO, err)
	}
	return bytes.Equal(current, append(backup, BlockLines(domains)...)), nil
}

func (b *Blocker) withLock(fn func() error) error {
	if b.lockPath == "" {
		return fn()
	}
	if err := os.MkdirAll(filepath.Dir(b.lockPath), 0755); err != nil {
		return fmt.Errorf("%w: create lock dir: %v", domain.ErrIO, err)
	}
	lockFile, err := os.OpenFile(b.lockPath, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return fmt.Errorf("%w: open lock file: %v", domain.ErrIO, err)
	}
	defer lockFile.Close()

	if err := lock(lockFile); err != nil {
		return fmt.Errorf("%w: acquire lock: %v", domain.ErrIO, err)
	}
	defer unlock(lockFile)

	return fn()
}

func writeInPlace(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return err
	}
	_, err = f.Write(data)
	if err == nil {
		err = f.Sync()
	}
	if err1 := f.Close(); err1 != nil && err == nil {
		err = err1
	}
	return err
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmpFile, err := os.CreateTemp(dir, filepath.Base(path)+".tmp")
	if err != nil {
		return err
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
		return err
	}
	if err := os.Rename(name, path); err != nil {
		os.Remove(name)
		return err
	}
	return nil
}
