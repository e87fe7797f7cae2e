package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelevant(t *testing.T) {
	assert.True(t, Relevant("pkg/ui.go", "_gen.go"))
	assert.False(t, Relevant("pkg/state_gen.go", "_gen.go"))
	assert.False(t, Relevant("pkg/ui_test.go", "_gen.go"))
	assert.False(t, Relevant("pkg/README.md", "_gen.go"))
	assert.False(t, Relevant("pkg/.ui.go", "_gen.go"))
}

func TestSkipped(t *testing.T) {
	for _, name := range []string{".git", "_examples", "vendor", "testdata"} {
		assert.True(t, Skipped(name), name)
	}
	assert.False(t, Skipped("internal"))
	assert.False(t, Skipped("."))
}

func TestRunCoalescesChanges(t *testing.T) {
	root := t.TempDir()
	w, err := New(Options{Root: root, Suffix: "_gen.go", Debounce: 50 * time.Millisecond})
	require.NoError(t, err)
	defer w.Close()

	var runs atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(context.Context) error {
			runs.Add(1)
			return nil
		})
	}()

	require.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, 10*time.Millisecond)

	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(root, "a.go"), []byte("package a\n"), 0o600))
	}
	require.Eventually(t, func() bool { return runs.Load() == 2 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(root, "a_gen.go"), []byte("package a\n"), 0o600))
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(2), runs.Load())

	w.Trigger()
	require.Eventually(t, func() bool { return runs.Load() == 3 }, time.Second, 10*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
