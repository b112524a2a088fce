package hosts

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xvierd/detox-cli/internal/domain"
)

const pristine = "127.0.0.1\tlocalhost\n::1\tlocalhost\n"

func newTestBlocker(t *testing.T, content string) (*Blocker, string) {
	t.Helper()
	dir := t.TempDir()
	hostsPath := filepath.Join(dir, "hosts")
	require.NoError(t, os.WriteFile(hostsPath, []byte(content), 0644))
	return NewBlocker(hostsPath, filepath.Join(dir, "data", "hosts.backup"), filepath.Join(dir, "data", "hosts.lock")), hostsPath
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestBlockLines(t *testing.T) {
	assert.Equal(t, "\n127.0.0.1  a.com\n127.0.0.1  b.com\n", BlockLines([]string{"a.com", "b.com"}))
	assert.Equal(t, "\n", BlockLines(nil))
}

func TestBlocker_EngageAppendsInOrder(t *testing.T) {
	ctx := context.Background()
	b, hostsPath := newTestBlocker(t, pristine)

	require.NoError(t, b.Backup(ctx))
	require.NoError(t, b.Engage(ctx, []string{"example.com", "www.example.com"}))

	want := pristine + "\n127.0.0.1  example.com\n127.0.0.1  www.example.com\n"
	assert.Equal(t, want, readFile(t, hostsPath))

	engaged, err := b.Engaged([]string{"example.com", "www.example.com"})
	require.NoError(t, err)
	assert.True(t, engaged)
}

func TestBlocker_RevertIsByteIdentical(t *testing.T) {
	contents := []string{
		pristine,
		"",
		"no trailing newline",
		"# comment\r\n127.0.0.1 windows\r\n",
	}

	for _, content := range contents {
		t.Run(content, func(t *testing.T) {
			ctx := context.Background()
			b, hostsPath := newTestBlocker(t, content)

			require.NoError(t, b.Backup(ctx))
			require.NoError(t, b.Engage(ctx, []string{"a.com", "b.com"}))
			require.NoError(t, b.Revert(ctx))

			assert.Equal(t, content, readFile(t, hostsPath))
		})
	}
}

func TestBlocker_RevertWithoutBackup(t *testing.T) {
	b, hostsPath := newTestBlocker(t, pristine)

	err := b.Revert(context.Background())

	assert.True(t, errors.Is(err, domain.ErrIO), "got %v", err)
	assert.True(t, errors.Is(err, domain.ErrBackupMissing), "got %v", err)
	assert.Equal(t, pristine, readFile(t, hostsPath), "host file must be untouched")
}

func TestBlocker_MissingHostFile(t *testing.T) {
	dir := t.TempDir()
	b := NewBlocker(filepath.Join(dir, "missing"), filepath.Join(dir, "backup"), "")

	assert.True(t, errors.Is(b.Backup(context.Background()), domain.ErrIO))
	assert.True(t, errors.Is(b.Engage(context.Background(), []string{"a.com"}), domain.ErrIO))
}

func TestBlocker_ConcurrentEngagesDoNotInterleave(t *testing.T) {
	ctx := context.Background()
	b, hostsPath := newTestBlocker(t, pristine)
	domains := []string{"a.com", "b.com", "c.com"}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, b.Engage(ctx, domains))
		}()
	}
	wg.Wait()

	block := BlockLines(domains)
	want := pristine + block + block + block + block
	assert.Equal(t, want, readFile(t, hostsPath))
}
