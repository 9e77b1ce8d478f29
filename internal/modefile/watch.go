package modefile

import (
	"os"
	"sync"
	"time"
)

// Watcher tracks file modification times. Scan is driven by the caller
// (a cron job) instead of an internal ticker.
type Watcher struct {
	Paths []string

	mu        sync.Mutex
	lastMTime map[string]time.Time
}

func NewWatcher(paths ...string) *Watcher {
	return &Watcher{Paths: paths, lastMTime: make(map[string]time.Time)}
}

// Prime records current mtimes without reporting them as changes.
func (w *Watcher) Prime() {
	w.scan(true)
}

// Scan returns the paths whose mtime moved since the previous scan. A file
// seen for the first time after Prime counts as changed.
func (w *Watcher) Scan() []string {
	return w.scan(false)
}

func (w *Watcher) scan(prime bool) []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	var changed []string
	for _, p := range w.Paths {
		fi, err := os.Stat(p)
		if err != nil {
			// missing file: forget it so a re-created file is picked up
			delete(w.lastMTime, p)
			continue
		}
		mt := fi.ModTime()
		last, ok := w.lastMTime[p]
		if ok && !mt.After(last) {
			continue
		}
		w.lastMTime[p] = mt
		if !prime {
			changed = append(changed, p)
		}
	}
	return changed
}
