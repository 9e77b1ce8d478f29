package simulate

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/xtding233/prizewheel/internal/draw"
	"github.com/xtding233/prizewheel/internal/engine"
	"github.com/xtding233/prizewheel/internal/inventory"
	"github.com/xtding233/prizewheel/internal/pacing"
	"github.com/xtding233/prizewheel/internal/prize"
	"github.com/xtding233/prizewheel/internal/report"
)

// RejectedID marks a timeline entry whose trigger was rejected.
const RejectedID = "REJECTED"

// Setup is the wheel under test. Options come from the live configuration;
// the simulator overrides the fields that only make sense for a replay.
type Setup struct {
	Catalog    prize.Catalog
	LedgerPath string
	Options    engine.Options
	Location   *time.Location
	Logger     *zap.Logger
}

// Params describes one simulated day.
type Params struct {
	Date string
	Runs int
	// ModeShares splits Runs across modes 1, 2 and 3, in that order.
	ModeShares [3]float64
	Seed       uint64
}

// DefaultSchedule is the 11:00-20:00 window used when none is configured.
var DefaultSchedule = pacing.Schedule{DayStart: 11 * time.Hour, DayEnd: 20 * time.Hour}

// DefaultModeShares is 30% mode 1, 30% mode 2 and the rest mode 3.
var DefaultModeShares = [3]float64{0.3, 0.3, 0.4}

type TimelineEntry struct {
	Clock   string
	Mode    int
	PrizeID string
}

// DayResult is what a simulated day delivered.
type DayResult struct {
	Date        string
	Runs        int
	Delivered   []report.PrizeCount
	Filler      int
	Rejected    int
	DailyGoal   int
	Undelivered int
	Timeline    []TimelineEntry
}

// FillerShare is filler outcomes over accepted spins.
func (r DayResult) FillerShare() float64 {
	accepted := r.Runs - r.Rejected
	if accepted <= 0 {
		return 0
	}
	return float64(r.Filler) / float64(accepted)
}

// ModeShares builds the per-mode split from the mode 1 and mode 2 shares;
// mode 3 gets what is left.
func ModeShares(m1, m2 float64) ([3]float64, error) {
	if math.IsNaN(m1) || math.IsNaN(m2) || m1 < 0 || m2 < 0 {
		return [3]float64{}, fmt.Errorf("simulate: mode shares must be >= 0, got %v and %v", m1, m2)
	}
	rest := 1 - m1 - m2
	if rest < -1e-9 {
		return [3]float64{}, fmt.Errorf("simulate: mode 1 and 2 shares add up to %v, more than 1", m1+m2)
	}
	return [3]float64{m1, m2, max(rest, 0)}, nil
}

// SplitRuns rounds each mode's share of runs; mode 3 takes the remainder.
func SplitRuns(runs int, shares [3]float64) [3]int {
	m1 := int(math.Round(float64(runs) * shares[0]))
	m2 := int(math.Round(float64(runs) * shares[1]))
	m1 = min(max(m1, 0), runs)
	m2 = min(max(m2, 0), runs-m1)
	return [3]int{m1, m2, runs - m1 - m2}
}

// RunDay replays one day against the ledger in dry-run mode: no snapshot or
// report is written and the date override is cleared before returning.
func RunDay(ctx context.Context, s Setup, p Params) (DayResult, error) {
	if p.Runs <= 0 {
		return DayResult{}, errors.New("simulate: runs must be positive")
	}
	logger := s.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	dates := inventory.NewDateResolver(s.Location)
	if err := dates.SetOverride(p.Date); err != nil {
		return DayResult{}, fmt.Errorf("simulate: %w", err)
	}
	defer dates.ClearOverride()

	opts := s.Options
	opts.Mode = 1
	opts.DryRun = true
	opts.AutoRotate = false
	opts.Progress = engine.ProgressSpins
	opts.ExpectedSpinsPerDay = p.Runs
	opts.PlannedSpins = p.Runs
	if opts.Schedule.DayEnd <= opts.Schedule.DayStart {
		opts.Schedule = DefaultSchedule
	}

	eng, err := engine.New(engine.Config{
		Catalog: s.Catalog,
		Store:   &inventory.Store{LedgerPath: s.LedgerPath, Logger: logger},
		Report:  report.NewAggregator("", logger),
		Dates:   dates,
		RNG:     draw.NewSeededRNG(p.Seed),
		Logger:  logger,
		Options: opts,
	})
	if err != nil {
		return DayResult{}, fmt.Errorf("simulate: %w", err)
	}
	eng.Initialize(ctx)

	start, _ := time.ParseInLocation(inventory.DateLayout, p.Date, time.UTC)
	start = start.Add(opts.Schedule.DayStart)
	span := opts.Schedule.DayEnd - opts.Schedule.DayStart
	step := span / time.Duration(p.Runs)

	res := DayResult{Date: p.Date, Runs: p.Runs, Timeline: make([]TimelineEntry, 0, p.Runs)}
	clock := start
	for i, n := range SplitRuns(p.Runs, p.ModeShares) {
		mode := i + 1
		if err := eng.SetMode(mode); err != nil {
			return DayResult{}, err
		}
		for j := 0; j < n; j++ {
			if err := ctx.Err(); err != nil {
				return DayResult{}, err
			}
			entry := TimelineEntry{Clock: clock.Format("15:04"), Mode: mode}
			out, err := eng.Spin(ctx)
			switch {
			case err == nil:
				entry.PrizeID = out.PrizeID
			case errors.Is(err, engine.ErrNoStock), errors.Is(err, engine.ErrNoCandidate):
				entry.PrizeID = RejectedID
				res.Rejected++
			default:
				return DayResult{}, err
			}
			res.Timeline = append(res.Timeline, entry)
			clock = clock.Add(step)
		}
	}

	st := eng.Status()
	res.Filler = st.TotalFiller
	res.DailyGoal = st.DailyGoal
	res.Undelivered = st.RemainingReal
	for _, ps := range st.Prizes {
		if !ps.Filler && ps.Delivered > 0 {
			res.Delivered = append(res.Delivered, report.PrizeCount{ID: ps.ID, Name: ps.Name, Delivered: ps.Delivered})
		}
	}
	logger.Info("simulated day",
		zap.String("date", p.Date),
		zap.Int("runs", p.Runs),
		zap.Int("daily_goal", res.DailyGoal),
		zap.Int("undelivered", res.Undelivered),
		zap.Int("filler", res.Filler),
		zap.Int("rejected", res.Rejected))
	return res, nil
}
