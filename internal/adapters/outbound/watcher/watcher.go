package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/openkraft/codereview/internal/adapters/outbound/scanner"
)

// DefaultDebounce coalesces the several write events editors emit per save.
const DefaultDebounce = 300 * time.Millisecond

// FSWatcher implements domain.ChangeWatcher with fsnotify.
type FSWatcher struct {
	debounce time.Duration
	logger   *zap.Logger
}

func New(debounce time.Duration, logger *zap.Logger) *FSWatcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FSWatcher{debounce: debounce, logger: logger}
}

// Watch blocks until ctx is cancelled. Directories created while watching
// are added; skipped directories are never watched.
func (w *FSWatcher) Watch(ctx context.Context, root string, onChange func(path string)) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	if err := w.addTree(fw, absRoot); err != nil {
		return err
	}
	w.logger.Info("watching", zap.String("root", absRoot))

	pending := make(map[string]time.Time)

	tick := time.NewTicker(w.debounce / 3)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			info, err := os.Stat(event.Name)
			if err != nil {
				continue
			}
			if info.IsDir() {
				if event.Op&fsnotify.Create != 0 {
					if err := w.addTree(fw, event.Name); err != nil {
						w.logger.Warn("watching new directory", zap.String("dir", event.Name), zap.Error(err))
					}
				}
				continue
			}
			pending[event.Name] = time.Now()

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", zap.Error(err))

		case now := <-tick.C:
			var ready []string
			for path, at := range pending {
				if now.Sub(at) >= w.debounce {
					ready = append(ready, path)
					delete(pending, path)
				}
			}
			sort.Strings(ready)
			for _, path := range ready {
				onChange(path)
			}
		}
	}
}

func (w *FSWatcher) addTree(fw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != dir && scanner.SkipDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := fw.Add(p); err != nil {
			return fmt.Errorf("watching %s: %w", p, err)
		}
		return nil
	})
}
