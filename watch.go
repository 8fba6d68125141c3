package pubsite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// rebuildDelay is how long the watcher waits for changes to settle.
const rebuildDelay = 300 * time.Millisecond

// Watch rebuilds the site whenever something under InputDir changes,
// until ctx is canceled. Bursts of events collapse into one build, and a
// change arriving mid-build queues exactly one more. Build failures are
// logged, not returned.
func (a *App) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer watcher.Close()
	if err := a.addDirsRecursive(watcher, a.Config.InputDir); err != nil {
		return err
	}

	rebuildReq, trigger, stop := newDebouncer(rebuildDelay)
	defer stop()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case <-rebuildReq:
				a.logger.Info("Change detected; rebuilding site")
				if _, err := a.Build(ctx); err != nil {
					a.logger.Warn("rebuild failed", "error", err)
				}
			}
		}
	}()
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if shouldIgnoreEvent(ev.Name) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					_ = a.addDirsRecursive(watcher, ev.Name)
				}
			}
			a.logger.Debug("File change detected", "path", ev.Name, "op", ev.Op.String())
			trigger()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.logger.Warn("watcher error", "error", err)
		}
	}
}

// newDebouncer returns a channel that receives once per burst of trigger
// calls, delay after the last one.
func newDebouncer(delay time.Duration) (<-chan struct{}, func(), func()) {
	var mu sync.Mutex
	var timer *time.Timer
	req := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(delay, func() {
			select {
			case req <- struct{}{}:
			default:
			}
		})
	}
	stop := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
	}
	return req, trigger, stop
}

func (a *App) addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.Add(p); err != nil {
			a.logger.Warn("watch add failed", "dir", p, "error", err)
		}
		return nil
	})
}

// shouldIgnoreEvent reports events for hidden, editor swap and OS lock
// files.
func shouldIgnoreEvent(p string) bool {
	base := filepath.Base(p)
	switch {
	case strings.HasPrefix(base, "."):
		return true
	case strings.HasSuffix(base, "~"), strings.HasSuffix(base, ".swp"), strings.HasSuffix(base, ".swx"):
		return true
	case strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"):
		return true
	case base == "Thumbs.db":
		return true
	}
	return false
}
