package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xtding233/prizewheel/internal/draw"
	"github.com/xtding233/prizewheel/internal/pacing"
	"github.com/xtding233/prizewheel/internal/report"
	"github.com/xtding233/prizewheel/internal/selector"
)

// Phase is the per-spin state, exposed for diagnostics.
type Phase int32

const (
	Idle Phase = iota
	EvaluatingStock
	DecidingOutcome
	Selecting
	Committing
)

func (p Phase) String() string {
	switch p {
	case EvaluatingStock:
		return "evaluating_stock"
	case DecidingOutcome:
		return "deciding_outcome"
	case Selecting:
		return "selecting"
	case Committing:
		return "committing"
	default:
		return "idle"
	}
}

// Outcome is the decision handed to the presentation layer. Index is the
// catalog slot, used to map the result onto the wheel.
type Outcome struct {
	SpinID    string
	Date      string
	Index     int
	PrizeID   string
	PrizeName string
	Category  string
	Filler    bool
	Reason    string
	// Probability is the pacing p_real, zero when the draw was skipped.
	Probability float64
}

// Decision reasons.
const (
	ReasonPacing      = "pacing"
	ReasonStreak      = "streak"
	ReasonCatchUp     = "catch_up"
	ReasonNoReal      = "no_real_stock"
	ReasonNoCandidate = "no_candidate"
)

func (e *Engine) Phase() Phase { return Phase(e.phase.Load()) }

func (e *Engine) setPhase(p Phase) { e.phase.Store(int32(p)) }

// Spin decides one trigger. It never waits: if another spin holds the
// engine the call returns ErrBusy.
func (e *Engine) Spin(ctx context.Context) (Outcome, error) {
	if !e.mu.TryLock() {
		return Outcome{}, ErrBusy
	}
	defer e.mu.Unlock()
	defer e.setPhase(Idle)

	if !e.initialized || e.opts.AutoRotate {
		e.rolloverLocked(ctx)
	}

	e.setPhase(EvaluatingStock)
	realStock := e.realStock()
	fillerOK := e.fillerAvailable()
	if realStock <= 0 && !fillerOK {
		return Outcome{}, ErrNoStock
	}

	e.setPhase(DecidingOutcome)
	e.spinsDone++
	out := Outcome{SpinID: uuid.NewString(), Date: e.date, Index: -1}
	wantReal := false
	switch e.streak.Override(e.opts.Caps, realStock > 0, fillerOK) {
	case selector.ForceReal:
		wantReal, out.Reason = true, ReasonStreak
	case selector.ForceFiller:
		out.Reason = ReasonStreak
	default:
		wantReal, out.Reason = e.decide(realStock, fillerOK, &out)
	}

	idx := -1
	if wantReal {
		e.setPhase(Selecting)
		if i, ok := selector.Choose(selector.Request{
			Mode:        e.mode,
			Remaining:   e.remaining,
			Categories:  e.catalog.Categories(),
			Weights:     e.catalog.Weights(),
			FillerIndex: e.filler,
			Shares:      e.opts.Shares,
			RNG:         e.rng,
		}); ok {
			idx = i
		} else {
			out.Reason = ReasonNoCandidate
		}
	}
	if idx < 0 {
		if !fillerOK {
			e.spinsDone--
			e.logger.Warn("spin rejected", zap.Int("mode", e.mode), zap.Int("remaining_real", realStock))
			return Outcome{}, ErrNoCandidate
		}
		idx = e.filler
	}

	e.setPhase(Committing)
	p := e.catalog.Prizes[idx]
	isReal := idx != e.filler
	if isReal {
		e.remaining[idx] = max(e.remaining[idx]-1, 0)
		e.commit(ctx)
	}
	e.streak.Record(isReal)
	e.report.Record(report.Outcome{PrizeID: p.ID, PrizeName: p.Name, Filler: !isReal})

	out.Index = idx
	out.PrizeID = p.ID
	out.PrizeName = p.Name
	out.Category = p.Category.String()
	out.Filler = !isReal
	e.logger.Debug("spin",
		zap.String("spin_id", out.SpinID),
		zap.String("prize", p.ID),
		zap.Bool("filler", out.Filler),
		zap.String("reason", out.Reason),
		zap.Float64("p_real", out.Probability))
	return out, nil
}

// decide runs the catch-up rule and the pacing draw.
func (e *Engine) decide(realStock int, fillerOK bool, out *Outcome) (bool, string) {
	if realStock <= 0 {
		return false, ReasonNoReal
	}
	if e.opts.PlannedSpins > 0 {
		left := max(1, e.opts.PlannedSpins-e.spinsDone+1)
		if realStock >= left {
			return true, ReasonCatchUp
		}
	}
	p := pacing.ProbabilityOfReal(pacing.Input{
		DailyGoal:           e.goal,
		ExpectedSpinsPerDay: e.opts.ExpectedSpinsPerDay,
		RemainingReal:       realStock,
		DeliveredReal:       pacing.Delivered(e.goal, realStock),
		DayProgress:         e.progress(),
		Curve:               e.opts.Curve,
		AdjustmentStrength:  e.opts.AdjustmentStrength,
		MinProb:             e.opts.MinProb,
		MaxProb:             e.opts.MaxProb,
	})
	out.Probability = p
	hit, err := draw.Bernoulli(p, e.rng)
	if err != nil {
		e.logger.Warn("pacing draw failed", zap.Float64("p_real", p), zap.Error(err))
	}
	return hit || !fillerOK, ReasonPacing
}

func (e *Engine) progress() float64 {
	if e.opts.Progress == ProgressSpins {
		return pacing.SpinProgress(e.spinsDone, e.opts.ExpectedSpinsPerDay)
	}
	now := time.Now
	if e.dates.Now != nil {
		now = e.dates.Now
	}
	loc := e.dates.Location
	if loc == nil {
		loc = time.Local
	}
	return pacing.ClockProgress(now().In(loc), e.opts.Schedule)
}
