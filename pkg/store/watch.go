package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"tableflip.dev/calnotes/pkg/datekey"
)

// Event is emitted by Watch when rows change underneath the caller. An empty
// Date means the change could not be tied to a single day.
type Event struct {
	Date datekey.Key
}

// Watch streams change events for the diskv tree until ctx is cancelled.
func (s *Diskv) Watch(ctx context.Context) (<-chan Event, error) {
	if s.basePath == "" {
		return nil, errors.New("store: base path unknown")
	}
	if err := os.MkdirAll(s.basePath, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}
	return watchTree(ctx, s.basePath, true, s.dateForPath)
}

// Watch streams an event whenever the database files change.
func (s *SQLite) Watch(ctx context.Context) (<-chan Event, error) {
	dir := filepath.Dir(s.path)
	name := filepath.Base(s.path)
	return watchTree(ctx, dir, false, func(path string) (Event, bool) {
		return Event{}, strings.HasPrefix(filepath.Base(path), name)
	})
}

// dateForPath derives the row date from a base/YYYY/MM/DD/id path.
func (s *Diskv) dateForPath(path string) (Event, bool) {
	rel, err := filepath.Rel(s.basePath, path)
	if err != nil || rel == "." {
		return Event{}, true
	}
	parts := strings.Split(rel, string(os.PathSeparator))
	if len(parts) < 3 {
		return Event{}, true
	}
	k := datekey.Key(strings.Join(parts[:3], "-"))
	if !k.Valid() {
		return Event{}, true
	}
	return Event{Date: k}, true
}

func watchTree(ctx context.Context, root string, recursive bool, classify func(string) (Event, bool)) (<-chan Event, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("store: create watcher: %w", err)
	}
	var closeOnce sync.Once
	closeWatcher := func() {
		closeOnce.Do(func() {
			if err := watcher.Close(); err != nil {
				slog.Warn("store: watcher close", slog.String("error", err.Error()))
			}
		})
	}

	dirs := []string{root}
	if recursive {
		if dirs, err = collectDirs(root); err != nil {
			closeWatcher()
			return nil, fmt.Errorf("store: enumerate directories: %w", err)
		}
	}
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			closeWatcher()
			return nil, fmt.Errorf("store: watch %s: %w", dir, err)
		}
	}

	events := make(chan Event, 64)

	go func() {
		defer close(events)
		defer closeWatcher()

		watched := make(map[string]struct{}, len(dirs))
		for _, dir := range dirs {
			watched[dir] = struct{}{}
		}

		send := func(ev Event) {
			select {
			case events <- ev:
			default:
				// Consumer is behind; its next refresh picks the change up.
			}
		}

		throttle := newEventThrottle(100 * time.Millisecond)
		defer throttle.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Debug("store: watcher error", slog.String("error", err.Error()))
				throttle.Enqueue(Event{}, send)
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}

				if recursive && evt.Op&fsnotify.Create == fsnotify.Create {
					if info, err := os.Stat(evt.Name); err == nil && info.IsDir() {
						// Nested day directories may already exist by the time
						// the parent is seen.
						sub, _ := collectDirs(filepath.Clean(evt.Name))
						for _, dir := range sub {
							if _, found := watched[dir]; found {
								continue
							}
							if err := watcher.Add(dir); err != nil {
								slog.Warn("store: watch directory", slog.String("dir", dir), slog.String("error", err.Error()))
								continue
							}
							watched[dir] = struct{}{}
						}
					}
				}

				if ev, ok := classify(evt.Name); ok {
					throttle.Enqueue(ev, send)
				}
			}
		}
	}()

	return events, nil
}

// collectDirs walks base and returns all directories that should be watched.
func collectDirs(base string) ([]string, error) {
	dirs := []string{base}
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() && path != base {
			dirs = append(dirs, path)
		}
		return nil
	})
	return dirs, err
}

// eventThrottle coalesces bursts of filesystem activity into one event per day.
type eventThrottle struct {
	mu      sync.Mutex
	timer   *time.Timer
	pending map[datekey.Key]struct{}
	delay   time.Duration
	stopped bool
}

func newEventThrottle(delay time.Duration) *eventThrottle {
	return &eventThrottle{
		delay:   delay,
		pending: make(map[datekey.Key]struct{}),
	}
}

func (t *eventThrottle) Enqueue(ev Event, send func(Event)) {
	t.mu.Lock()
	t.pending[ev.Date] = struct{}{}
	if t.timer == nil && !t.stopped {
		t.timer = time.AfterFunc(t.delay, func() {
			t.flush(send)
		})
	}
	t.mu.Unlock()
}

// flush holds the lock while sending so nothing is sent once Stop returns;
// send never blocks.
func (t *eventThrottle) flush(send func(Event)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	pending := t.pending
	t.pending = make(map[datekey.Key]struct{})
	t.timer = nil
	if t.stopped {
		return
	}
	for date := range pending {
		send(Event{Date: date})
	}
}

func (t *eventThrottle) Stop() {
	t.mu.Lock()
	t.stopped = true
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()
}
