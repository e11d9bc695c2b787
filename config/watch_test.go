package config_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/spritefsm/config"
)

const minimal = `id: %s
initial: idle
states:
  - {name: idle, duration: 1, repeat: true, frames: [{progress: 0, value: 0}]}
`

func TestWatchReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "anim.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf(minimal, "first")), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		mu  sync.Mutex
		ids []string
	)
	done := make(chan error, 1)
	go func() {
		done <- config.Watch(ctx, path, func(def *config.Definition) {
			mu.Lock()
			ids = append(ids, def.ID)
			mu.Unlock()
		}, config.WithDebounce(20*time.Millisecond))
	}()

	// Give the watcher time to register.
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte("id: ["), 0o644))
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf(minimal, "second")), 0o644))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(ids) > 0 && ids[len(ids)-1] == "second"
	}, 2*time.Second, 10*time.Millisecond)

	mu.Lock()
	assert.NotContains(t, ids, "first")
	mu.Unlock()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	err := config.Watch(context.Background(), filepath.Join(t.TempDir(), "missing", "anim.yaml"), func(*config.Definition) {})
	assert.Error(t, err)
}
