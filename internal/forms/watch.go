package forms

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/electrum-nmc/formbuilder/internal/logger"
)

// DebounceDelay is how long a form must stay quiet before it is rebuilt.
const DebounceDelay = 100 * time.Millisecond

// Watch rebuilds forms whenever their source changes, until ctx is done.
// Build failures are reported to the observer and do not stop watching.
func Watch(ctx context.Context, b *Builder, onEvent Observer) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(b.FormsDir()); err != nil {
		return fmt.Errorf("failed to watch %s: %w", b.FormsDir(), err)
	}

	logger.Info("watching forms", "dir", b.FormsDir(), "pattern", b.Pattern())

	// Builds run one at a time, in the order their timers fire.
	var buildMu sync.Mutex
	d := newDebouncer(DebounceDelay, func(path string) {
		if ctx.Err() != nil {
			return
		}

		buildMu.Lock()
		defer buildMu.Unlock()

		logger.Info("form changed", "form", path)
		form, n, err := b.BuildForm(ctx, path)
		if err != nil {
			logger.Warn("rebuild failed", "form", path, "error", err)
			if onEvent != nil {
				onEvent(Event{Stage: StageFailed, Form: form, Index: 1, Err: err})
			}
			return
		}
		if onEvent != nil {
			onEvent(Event{Stage: StageDone, Form: form, Index: 1, Replacements: n})
		}
	})
	defer d.stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if matched, _ := filepath.Match(b.Pattern(), filepath.Base(event.Name)); !matched {
				continue
			}

			d.trigger(event.Name)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err)
		}
	}
}

// debouncer runs fn for a path once the path has been quiet for delay.
type debouncer struct {
	delay time.Duration
	fn    func(path string)

	mu     sync.Mutex
	timers map[string]*time.Timer
	wg     sync.WaitGroup
}

func newDebouncer(delay time.Duration, fn func(path string)) *debouncer {
	return &debouncer{
		delay:  delay,
		fn:     fn,
		timers: make(map[string]*time.Timer),
	}
}

// trigger (re)starts the timer for path.
func (d *debouncer) trigger(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.arm(path)
}

// arm must be called with d.mu held.
func (d *debouncer) arm(path string) {
	if t, ok := d.timers[path]; ok && t.Stop() {
		d.wg.Done()
	}

	d.wg.Add(1)
	var t *time.Timer
	t = time.AfterFunc(d.delay, func() {
		defer d.wg.Done()
		d.mu.Lock()
		// A later trigger may already have replaced this timer.
		if d.timers[path] == t {
			delete(d.timers, path)
		}
		d.mu.Unlock()
		d.fn(path)
	})
	d.timers[path] = t
}

// pending counts paths waiting for their timer.
func (d *debouncer) pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.timers)
}

// stop cancels pending timers and waits for running callbacks.
func (d *debouncer) stop() {
	d.mu.Lock()
	for path, t := range d.timers {
		if t.Stop() {
			d.wg.Done()
		}
		delete(d.timers, path)
	}
	d.mu.Unlock()
	d.wg.Wait()
}
