package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/xtding233/prizewheel/internal/prize"
)

// Outcome is one recorded spin.
type Outcome struct {
	PrizeID   string
	PrizeName string
	Filler    bool
}

// Seed restores a day's counters after a restart.
// Delivered is keyed by prize id (any case).
type Seed struct {
	TotalSpins  int
	TotalFiller int
	Delivered   map[string]int
}

// Aggregator keeps the active day's summary and writes it through to
// "report_<date>.csv" in Dir after every change.
type Aggregator struct {
	Dir    string
	DryRun bool
	Logger *zap.Logger

	initialized bool
	dirty       bool
	date        string
	totalSpins  int
	totalFiller int
	prizes      []PrizeCount
	index       map[string]int
}

func NewAggregator(dir string, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{Dir: dir, Logger: logger}
}

// Path is the artifact location for date.
func (a *Aggregator) Path(date string) string {
	return filepath.Join(a.Dir, "report_"+date+".csv")
}

func (a *Aggregator) Date() string { return a.date }

// Initialize starts a day. A previous day still held is flushed first.
// The initial snapshot is written so a report exists before the first spin.
func (a *Aggregator) Initialize(date string, cat prize.Catalog, seed Seed) {
	if a.initialized {
		a.Flush(true)
	}
	a.date = date
	a.prizes = make([]PrizeCount, 0, cat.Len())
	a.index = make(map[string]int, cat.Len())
	for _, p := range cat.Prizes {
		key := strings.ToLower(p.ID)
		if _, dup := a.index[key]; dup || key == "" {
			continue
		}
		name := p.Name
		if name == "" {
			name = p.ID
		}
		a.index[key] = len(a.prizes)
		a.prizes = append(a.prizes, PrizeCount{ID: p.ID, Name: name})
	}

	delivered := 0
	for id, n := range seed.Delivered {
		if n <= 0 {
			continue
		}
		if i, ok := a.index[strings.ToLower(id)]; ok {
			a.prizes[i].Delivered += n
			delivered += n
		}
	}
	a.totalFiller = max(seed.TotalFiller, 0)
	a.totalSpins = max(seed.TotalSpins, a.totalFiller+delivered)

	a.initialized = true
	a.dirty = true
	a.Flush(true)
}

// Record counts one spin and writes through.
func (a *Aggregator) Record(o Outcome) {
	if !a.initialized {
		a.Logger.Warn("report record before initialize", zap.String("prize", o.PrizeID))
		return
	}
	a.totalSpins++
	if o.Filler {
		a.totalFiller++
	} else if o.PrizeID != "" {
		key := strings.ToLower(o.PrizeID)
		i, ok := a.index[key]
		if !ok {
			name := o.PrizeName
			if name == "" {
				name = o.PrizeID
			}
			i = len(a.prizes)
			a.index[key] = i
			a.prizes = append(a.prizes, PrizeCount{ID: o.PrizeID, Name: name})
		}
		a.prizes[i].Delivered++
	}
	a.dirty = true
	a.Flush(false)
}

// Flush writes the summary when dirty, or always when forced.
// A failed write keeps the summary dirty so the next flush retries.
func (a *Aggregator) Flush(force bool) {
	if !a.initialized || (!a.dirty && !force) {
		return
	}
	if a.DryRun {
		a.dirty = false
		return
	}
	if err := a.write(); err != nil {
		a.Logger.Error("report write failed", zap.String("date", a.date), zap.Error(err))
		return
	}
	a.dirty = false
}

// Rotate closes the outgoing day and opens newDate with zeroed counters.
func (a *Aggregator) Rotate(newDate string) {
	if !a.initialized || newDate == a.date {
		return
	}
	a.Flush(true)
	a.Logger.Info("report rotated", zap.String("from", a.date), zap.String("to", newDate))
	a.date = newDate
	a.totalSpins, a.totalFiller = 0, 0
	for i := range a.prizes {
		a.prizes[i].Delivered = 0
	}
	a.dirty = true
	a.Flush(true)
}

// Summary returns a copy of the in-memory state.
func (a *Aggregator) Summary() Summary {
	return Summary{
		Date:        a.date,
		TotalSpins:  a.totalSpins,
		TotalFiller: a.totalFiller,
		Delivered:   append([]PrizeCount(nil), a.prizes...),
	}
}

func (a *Aggregator) write() error {
	b, err := encode(a.Summary())
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := os.MkdirAll(a.Dir, 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	dst := a.Path(a.date)
	tmp := dst + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, dst)
}
