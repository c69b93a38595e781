// Package watcher triggers a callback when watched files change on disk.
package watcher

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// Watcher watches files for changes. Bursts of events for one file
// (editors often write, truncate and rename) collapse into a single call.
type Watcher struct {
	paths    []string
	onChange func(path string)
	debounce time.Duration
	log      logrus.FieldLogger
}

// New creates a watcher for paths
func New(paths []string, onChange func(path string)) *Watcher {
	return &Watcher{
		paths:    paths,
		onChange: onChange,
		debounce: 500 * time.Millisecond,
		log:      logrus.StandardLogger(),
	}
}

// WithDebounce sets the debounce duration
func (w *Watcher) WithDebounce(d time.Duration) *Watcher {
	w.debounce = d
	return w
}

// WithLogger sets the logger
func (w *Watcher) WithLogger(l logrus.FieldLogger) *Watcher {
	w.log = l
	return w
}

// Watch blocks until ctx is cancelled. The directories holding the files are
// watched rather than the files, so a file replaced by rename is still seen.
// onChange is never called concurrently with itself.
func (w *Watcher) Watch(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	watchedDirs := make(map[string]bool)
	fileSet := make(map[string]bool)
	for _, path := range w.paths {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		dir := filepath.Dir(absPath)
		if !watchedDirs[dir] {
			if err := fsw.Add(dir); err != nil {
				return err
			}
			watchedDirs[dir] = true
		}
		fileSet[absPath] = true
		w.log.Infof("Watching %s for changes", absPath)
	}

	var (
		mu     sync.Mutex
		timers = make(map[string]*time.Timer)
		calls  sync.Mutex
	)
	stopAll := func() {
		mu.Lock()
		defer mu.Unlock()
		for _, t := range timers {
			t.Stop()
		}
	}

	for {
		select {
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			absPath, err := filepath.Abs(event.Name)
			if err != nil || !fileSet[absPath] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			mu.Lock()
			if t, exists := timers[absPath]; exists {
				t.Stop()
			}
			timers[absPath] = time.AfterFunc(w.debounce, func() {
				if ctx.Err() != nil {
					return
				}
				calls.Lock()
				defer calls.Unlock()
				w.log.Infof("File changed: %s", absPath)
				w.onChange(absPath)
			})
			mu.Unlock()

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warnf("Watcher error: %v", err)

		case <-ctx.Done():
			stopAll()
			return ctx.Err()
		}
	}
}
