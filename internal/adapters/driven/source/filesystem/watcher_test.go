package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_Relevant(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "doc.txt")
	writeFile(t, file, "content")

	w, err := NewWatcher(dir, time.Millisecond)
	require.NoError(t, err)
	defer w.Close()

	tests := []struct {
		name     string
		event    fsnotify.Event
		expected bool
	}{
		{"write to txt", fsnotify.Event{Name: file, Op: fsnotify.Write}, true},
		{"create txt", fsnotify.Event{Name: file, Op: fsnotify.Create}, true},
		{"remove txt", fsnotify.Event{Name: filepath.Join(dir, "gone.txt"), Op: fsnotify.Remove}, true},
		{"rename md", fsnotify.Event{Name: filepath.Join(dir, "old.md"), Op: fsnotify.Rename}, true},
		{"chmod only", fsnotify.Event{Name: file, Op: fsnotify.Chmod}, false},
		{"hidden file", fsnotify.Event{Name: filepath.Join(dir, ".swap.txt"), Op: fsnotify.Write}, false},
		{"unsupported extension", fsnotify.Event{Name: filepath.Join(dir, "img.png"), Op: fsnotify.Create}, false},
		{"directory", fsnotify.Event{Name: dir, Op: fsnotify.Create}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, w.relevant(tt.event))
		})
	}
}

func TestWatcher_DebouncedChange(t *testing.T) {
	dir := t.TempDir()

	w, err := NewWatcher(dir, 50*time.Millisecond)
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func() {
			select {
			case changed <- struct{}{}:
			default:
			}
		})
	}()

	// A burst of writes collapses into one notification.
	for i := 0; i < 3; i++ {
		writeFile(t, filepath.Join(dir, "doc.txt"), "content")
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestWatcher_IgnoresIrrelevantFiles(t *testing.T) {
	dir := t.TempDir()

	w, err := NewWatcher(dir, 30*time.Millisecond)
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 1)
	go w.Run(ctx, func() { //nolint:errcheck
		select {
		case changed <- struct{}{}:
		default:
		}
	})

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.pdf"), []byte("x"), 0644))

	select {
	case <-changed:
		t.Fatal("unsupported file triggered a change")
	case <-time.After(200 * time.Millisecond):
	}
}
