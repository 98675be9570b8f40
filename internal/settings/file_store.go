package settings

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

const reloadDebounce = 100 * time.Millisecond

// FileStore serves settings from a YAML file of key: float pairs. A missing
// file is treated as empty so every key falls back to its default.
type FileStore struct {
	path string

	mu     sync.RWMutex
	values map[string]float64
}

func OpenFile(path string) (*FileStore, error) {
	s := &FileStore{path: path}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Float(key string) (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *FileStore) Reload() error {
	values := make(map[string]float64)
	data, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return fmt.Errorf("read settings %s: %w", s.path, err)
	default:
		if err := yaml.Unmarshal(data, &values); err != nil {
			return fmt.Errorf("parse settings %s: %w", s.path, err)
		}
	}

	s.mu.Lock()
	s.values = values
	s.mu.Unlock()
	return nil
}

// Watch reloads the store whenever its file changes, until ctx is done.
// onReload, if non-nil, runs after every successful reload.
func (s *FileStore) Watch(ctx context.Context, onReload func(Snapshot)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create settings watcher: %w", err)
	}
	// Editors replace files on save, so watch the directory rather than the file.
	dir := filepath.Dir(s.path)
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	go s.watchLoop(ctx, w, onReload)
	return nil
}

func (s *FileStore) watchLoop(ctx context.Context, w *fsnotify.Watcher, onReload func(Snapshot)) {
	defer w.Close()

	target := filepath.Clean(s.path)
	// A single save can emit several events; reload once they settle.
	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			pending = time.After(reloadDebounce)
		case <-pending:
			pending = nil
			if err := s.Reload(); err != nil {
				slog.Warn("Settings reload failed", "path", s.path, "error", err)
				continue
			}
			snap := Read(s)
			slog.Info("Settings reloaded", "path", s.path, "horizontal", snap.Horizontal, "vertical", snap.Vertical)
			if onReload != nil {
				onReload(snap)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			slog.Warn("Settings watcher error", "error", err)
		}
	}
}
