package modefile

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Read parses the mode override artifact: a single integer 1..3.
func Read(path string) (int, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	s := strings.TrimSpace(string(b))
	m, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("mode file %s: %q is not an integer", path, s)
	}
	if m < 1 || m > 3 {
		return 0, fmt.Errorf("mode file %s: %d out of range 1..3", path, m)
	}
	return m, nil
}

// Poller re-reads the mode file when its mtime changes and hands valid
// values to Apply. Bad content leaves the mode unchanged.
type Poller struct {
	Path    string
	Apply   func(mode int) error
	Logger  *zap.Logger
	watcher *Watcher
}

func NewPoller(path string, apply func(int) error, logger *zap.Logger) *Poller {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := NewWatcher(path)
	w.Prime()
	return &Poller{Path: path, Apply: apply, Logger: logger, watcher: w}
}

// Poll checks the file once. It reports whether a new mode was applied.
func (p *Poller) Poll() bool {
	if len(p.watcher.Scan()) == 0 {
		return false
	}
	m, err := Read(p.Path)
	if err != nil {
		p.Logger.Warn("mode file ignored", zap.String("path", p.Path), zap.Error(err))
		return false
	}
	if err := p.Apply(m); err != nil {
		p.Logger.Warn("mode not applied", zap.Int("mode", m), zap.Error(err))
		return false
	}
	p.Logger.Info("mode updated from file", zap.Int("mode", m))
	return true
}
