package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/xtding233/prizewheel/internal/draw"
	"github.com/xtding233/prizewheel/internal/inventory"
	"github.com/xtding233/prizewheel/internal/pacing"
	"github.com/xtding233/prizewheel/internal/prize"
	"github.com/xtding233/prizewheel/internal/report"
	"github.com/xtding233/prizewheel/internal/selector"
)

var (
	ErrBusy        = errors.New("spin already in progress")
	ErrNoStock     = errors.New("no stock left for today")
	ErrNoCandidate = errors.New("no eligible prize for mode and no filler stock")
	ErrInvalidMode = errors.New("mode must be 1, 2 or 3")
)

// Progress sources for the pacing curve.
const (
	ProgressClock = "clock"
	ProgressSpins = "spins"
)

// Options are the tunables of one wheel.
type Options struct {
	Mode       int
	DryRun     bool
	AutoRotate bool

	ExpectedSpinsPerDay int
	// PlannedSpins > 0 enables catch-up forcing once real stock covers
	// every remaining planned spin.
	PlannedSpins       int
	MinProb            float64
	MaxProb            float64
	AdjustmentStrength float64
	Curve              pacing.Curve
	Progress           string
	Schedule           pacing.Schedule

	Shares selector.Shares
	Caps   selector.Caps
}

// Config wires an Engine.
type Config struct {
	Catalog prize.Catalog
	Store   *inventory.Store
	Report  *report.Aggregator
	Dates   *inventory.DateResolver
	RNG     draw.RandomSource
	Logger  *zap.Logger
	Options Options
}

// Engine owns one wheel and one day's quota. Spin is exclusive: an
// overlapping trigger gets ErrBusy. Background jobs and admin calls wait
// for the same lock.
type Engine struct {
	mu    sync.Mutex
	phase atomic.Int32

	opts    Options
	catalog prize.Catalog
	filler  int
	store   *inventory.Store
	report  *report.Aggregator
	dates   *inventory.DateResolver
	rng     draw.RandomSource
	logger  *zap.Logger

	initialized  bool
	date         string
	ledger       []int
	remaining    []int
	goal         int
	missingDay   bool
	ledgerAbsent bool
	mode         int
	streak       selector.Streak
	spinsDone    int
	commitErrors int
}

func New(c Config) (*Engine, error) {
	if c.Catalog.Len() == 0 {
		return nil, errors.New("engine: empty catalog")
	}
	if err := c.Catalog.Validate(); err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	if !selector.ValidMode(c.Options.Mode) {
		return nil, fmt.Errorf("engine: %w: %d", ErrInvalidMode, c.Options.Mode)
	}
	if c.Store == nil || c.Report == nil {
		return nil, errors.New("engine: store and report are required")
	}
	if c.Dates == nil {
		c.Dates = inventory.NewDateResolver(time.Local)
	}
	if c.RNG == nil {
		c.RNG = draw.DefaultRNG()
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	if c.Options.Curve == nil {
		c.Options.Curve = pacing.Linear
	}
	c.Store.DryRun = c.Store.DryRun || c.Options.DryRun
	c.Report.DryRun = c.Report.DryRun || c.Options.DryRun
	return &Engine{
		opts:    c.Options,
		catalog: c.Catalog,
		filler:  c.Catalog.FillerIndex(),
		store:   c.Store,
		report:  c.Report,
		dates:   c.Dates,
		rng:     c.RNG,
		logger:  c.Logger,
		mode:    c.Options.Mode,
	}, nil
}

// Initialize loads the active day's stock and report.
func (e *Engine) Initialize(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.initializeLocked(ctx, e.dates.Resolve())
}

func (e *Engine) initializeLocked(ctx context.Context, date string) {
	base := e.store.LoadBaseStock(date, e.catalog)
	remaining := e.store.ApplyPersistedState(ctx, date, e.catalog, base.Stock)
	for i := range remaining {
		// a snapshot can never hold more than the ledger granted
		if i != e.filler && remaining[i] > base.Stock[i] {
			e.logger.Warn("snapshot exceeds ledger, clamped",
				zap.String("prize", e.catalog.Prizes[i].ID),
				zap.Int("snapshot", remaining[i]), zap.Int("ledger", base.Stock[i]))
			remaining[i] = base.Stock[i]
		}
	}

	e.date = date
	e.ledger = base.Stock
	e.remaining = remaining
	e.goal = base.Total(e.filler)
	e.missingDay = base.MissingDay
	e.ledgerAbsent = base.LedgerAbsent
	e.streak.Reset()

	seed := e.restoreSeed(date)
	if prev := e.report.Date(); prev != "" && prev != date && seedEmpty(seed) {
		e.report.Rotate(date)
	} else {
		e.report.Initialize(date, e.catalog, seed)
	}
	e.spinsDone = e.report.Summary().TotalSpins
	e.commit(ctx)
	e.initialized = true

	e.logger.Info("day initialized",
		zap.String("date", date),
		zap.Int("daily_goal", e.goal),
		zap.Int("remaining_real", e.realStock()),
		zap.Int("spins_done", e.spinsDone),
		zap.Bool("missing_day", e.missingDay),
		zap.Bool("ledger_absent", e.ledgerAbsent))
	if e.missingDay {
		e.logger.Warn("no ledger rows for active date", zap.String("date", date))
	}
}

// restoreSeed derives delivered counts from stock and totals from an
// existing report for date.
func (e *Engine) restoreSeed(date string) report.Seed {
	seed := report.Seed{Delivered: make(map[string]int)}
	for i, p := range e.catalog.Prizes {
		if i == e.filler {
			continue
		}
		if d := e.ledger[i] - e.remaining[i]; d > 0 {
			seed.Delivered[p.ID] = d
		}
	}
	if e.opts.DryRun {
		return seed
	}
	prev, err := report.ReadSummary(e.report.Path(date))
	if err != nil || prev.Date != date {
		return seed
	}
	seed.TotalSpins = prev.TotalSpins
	seed.TotalFiller = prev.TotalFiller
	return seed
}

func seedEmpty(s report.Seed) bool {
	return s.TotalSpins == 0 && s.TotalFiller == 0 && len(s.Delivered) == 0
}

// CheckRollover re-initializes when the resolved date moved. Reports whether it did.
func (e *Engine) CheckRollover(ctx context.Context) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rolloverLocked(ctx)
}

func (e *Engine) rolloverLocked(ctx context.Context) bool {
	date := e.dates.Resolve()
	if e.initialized && date == e.date {
		return false
	}
	if e.initialized {
		e.logger.Info("day rollover", zap.String("from", e.date), zap.String("to", date))
		e.commit(ctx)
		e.report.Flush(true)
	}
	e.initializeLocked(ctx, date)
	return true
}

// SetMode changes the eligibility mode.
func (e *Engine) SetMode(mode int) error {
	if !selector.ValidMode(mode) {
		return fmt.Errorf("%w: %d", ErrInvalidMode, mode)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.mode != mode {
		e.logger.Info("mode changed", zap.Int("from", e.mode), zap.Int("to", mode))
	}
	e.mode = mode
	return nil
}

func (e *Engine) Mode() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

// Flush force-writes the inventory snapshot and the report.
func (e *Engine) Flush(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.initialized {
		return
	}
	e.commit(ctx)
	e.report.Flush(true)
}

// Shutdown flushes pending state. The engine stays usable afterwards.
func (e *Engine) Shutdown(ctx context.Context) {
	e.Flush(ctx)
	e.logger.Info("engine shut down")
}

// Remaining returns a copy of the current stock, aligned with the catalog.
func (e *Engine) Remaining() []int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]int(nil), e.remaining...)
}

func (e *Engine) Catalog() prize.Catalog { return e.catalog }

func (e *Engine) commit(ctx context.Context) {
	if err := e.store.Commit(ctx, e.date, e.catalog, e.remaining); err != nil {
		e.commitErrors++
	}
}

func (e *Engine) realStock() int {
	n := 0
	for i, v := range e.remaining {
		if i != e.filler {
			n += v
		}
	}
	return n
}

func (e *Engine) fillerAvailable() bool {
	return e.filler >= 0 && e.remaining[e.filler] > 0
}
