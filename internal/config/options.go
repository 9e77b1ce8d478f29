package config

import (
	"github.com/xtding233/prizewheel/internal/engine"
	"github.com/xtding233/prizewheel/internal/pacing"
	"github.com/xtding233/prizewheel/internal/selector"
)

// EngineOptions translates the validated configuration into engine tunables.
func (c Config) EngineOptions() (engine.Options, error) {
	pts, err := pacing.ParsePoints(c.Pacing.CurvePoints)
	if err != nil {
		return engine.Options{}, err
	}
	curve, err := pacing.ParseCurve(c.Pacing.Curve, pts)
	if err != nil {
		return engine.Options{}, err
	}
	sched, err := pacing.ParseSchedule(c.Schedule.DayStart, c.Schedule.DayEnd)
	if err != nil {
		return engine.Options{}, err
	}
	return engine.Options{
		Mode:                c.Wheel.Mode,
		DryRun:              c.Wheel.DryRun,
		AutoRotate:          c.Wheel.AutoRotate,
		ExpectedSpinsPerDay: c.Pacing.ExpectedSpinsPerDay,
		PlannedSpins:        c.Pacing.PlannedSpins,
		MinProb:             c.Pacing.MinProb,
		MaxProb:             c.Pacing.MaxProb,
		AdjustmentStrength:  c.Pacing.AdjustmentStrength,
		Curve:               curve,
		Progress:            c.Pacing.Progress,
		Schedule:            sched,
		Shares: selector.Shares{
			Small:  c.Selector.ShareSmall,
			Medium: c.Selector.ShareMedium,
			Large:  c.Selector.ShareLarge,
		},
		Caps: selector.Caps{
			MaxReal:   c.Streak.MaxReal,
			MaxFiller: c.Streak.MaxFiller,
		},
	}, nil
}
