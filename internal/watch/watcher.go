// Package watch notices when open files are changed by other programs.
package watch

import (
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"notepad/internal/log"

	"github.com/fsnotify/fsnotify"
)

// Change is a file event on one of the tracked files.
type Change struct {
	Path      string
	Op        fsnotify.Op
	Timestamp time.Time
}

// Watcher tracks a set of files by watching their parent directories
// with fsnotify.
type Watcher struct {
	// Tracked files
	files map[string]bool

	// Watched directories and how many tracked files live in each
	directories map[string]int

	// Channel delivering changes
	changes chan Change

	// Channel to signal stop
	stopChan chan struct{}

	// fsnotify watcher instance
	fsWatcher *fsnotify.Watcher

	mutex   sync.RWMutex
	running bool
}

// New creates a watcher with nothing tracked.
func New() (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		files:       make(map[string]bool),
		directories: make(map[string]int),
		changes:     make(chan Change, 16),
		stopChan:    make(chan struct{}),
		fsWatcher:   fsWatcher,
	}, nil
}

// Sync replaces the tracked set with paths. Directories that no longer
// hold a tracked file stop being watched. The first directory that cannot
// be watched is returned as an error; the rest of the set is still
// applied.
func (w *Watcher) Sync(paths []string) error {
	want := make(map[string]bool, len(paths))
	dirs := make(map[string]int)
	for _, p := range paths {
		if p == "" {
			continue
		}
		p = filepath.Clean(p)
		if want[p] {
			continue
		}
		want[p] = true
		dirs[filepath.Dir(p)]++
	}

	w.mutex.Lock()
	defer w.mutex.Unlock()

	var firstErr error
	for dir := range w.directories {
		if _, keep := dirs[dir]; keep {
			continue
		}
		if err := w.fsWatcher.Remove(dir); err != nil {
			log.LogWithFields(log.F("directory", dir), log.F("error", err)).Debug("Remove watch failed")
		}
	}
	for dir := range dirs {
		if _, ok := w.directories[dir]; ok {
			continue
		}
		if err := w.fsWatcher.Add(dir); err != nil {
			log.LogWithFields(log.F("directory", dir), log.F("error", err)).Warn("Cannot watch directory")
			if firstErr == nil {
				firstErr = fmt.Errorf("failed to watch directory %s: %w", dir, err)
			}
			delete(dirs, dir)
			for p := range want {
				if filepath.Dir(p) == dir {
					delete(want, p)
				}
			}
			continue
		}
		log.LogWithFields(log.F("directory", dir)).Debug("Watching directory")
	}

	w.files = want
	w.directories = dirs
	return firstErr
}

// Files returns the tracked files, sorted.
func (w *Watcher) Files() []string {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	out := make([]string, 0, len(w.files))
	for p := range w.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Directories returns the watched directories, sorted.
func (w *Watcher) Directories() []string {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	out := make([]string, 0, len(w.directories))
	for d := range w.directories {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// Changes returns the channel that delivers changes. It is closed by Stop.
func (w *Watcher) Changes() <-chan Change {
	return w.changes
}

// deliver forwards a change on a tracked file. The read lock keeps Stop
// from closing the channel mid-send.
func (w *Watcher) deliver(event fsnotify.Event) {
	path := filepath.Clean(event.Name)

	w.mutex.RLock()
	defer w.mutex.RUnlock()
	if !w.running || !w.files[path] {
		return
	}

	change := Change{Path: path, Op: event.Op, Timestamp: time.Now()}

	// Never block the fsnotify reader
	select {
	case w.changes <- change:
	default:
		log.LogWithFields(log.F("path", path)).Warn("Change channel is full, dropped event")
	}
}

// Start begins delivering changes.
func (w *Watcher) Start() error {
	w.mutex.Lock()
	if w.running {
		w.mutex.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.stopChan = make(chan struct{})
	stop := w.stopChan
	w.mutex.Unlock()

	go w.loop(stop)

	log.Debug("Watcher started")
	return nil
}

const relevant = fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove

func (w *Watcher) loop(stop <-chan struct{}) {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if event.Op&relevant != 0 {
				w.deliver(event)
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.LogWithFields(log.F("error", err)).Error("fsnotify watcher error")

		case <-stop:
			return
		}
	}
}

// Stop halts the watcher and closes the change channel. A stopped watcher
// cannot be restarted.
func (w *Watcher) Stop() {
	w.mutex.Lock()
	if !w.running {
		w.mutex.Unlock()
		return
	}
	close(w.stopChan)
	w.running = false
	close(w.changes)
	w.mutex.Unlock()

	if err := w.fsWatcher.Close(); err != nil {
		log.LogWithFields(log.F("error", err)).Error("Error closing fsnotify watcher")
	}
	log.Debug("Watcher stopped")
}

// IsRunning returns whether the watcher is currently active.
func (w *Watcher) IsRunning() bool {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return w.running
}
