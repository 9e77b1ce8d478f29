package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"

	"github.com/xtding233/prizewheel/internal/pacing"
)

// Validate checks semantic constraints and reports every violation at once.
func Validate(cfg Config) error {
	var errs []string

	if cfg.Wheel.Mode < 1 || cfg.Wheel.Mode > 3 {
		errs = append(errs, "wheel.mode must be 1, 2 or 3")
	}

	p := cfg.Pacing
	if p.MinProb < 0 || p.MinProb > 1 {
		errs = append(errs, "pacing.min_prob must be in [0,1]")
	}
	if p.MaxProb < 0 || p.MaxProb > 1 {
		errs = append(errs, "pacing.max_prob must be in [0,1]")
	}
	if p.MinProb > p.MaxProb {
		errs = append(errs, "pacing.min_prob must be <= pacing.max_prob")
	}
	if p.ExpectedSpinsPerDay < 0 {
		errs = append(errs, "pacing.expected_spins_per_day must be >= 0")
	}
	if p.PlannedSpins < 0 {
		errs = append(errs, "pacing.planned_spins must be >= 0")
	}
	if p.AdjustmentStrength < 0 {
		errs = append(errs, "pacing.adjustment_strength must be >= 0")
	}
	switch p.Progress {
	case "clock", "spins":
	default:
		errs = append(errs, "pacing.progress must be one of: clock, spins")
	}
	if pts, err := pacing.ParsePoints(p.CurvePoints); err != nil {
		errs = append(errs, "pacing.curve_points: "+err.Error())
	} else if _, err := pacing.ParseCurve(p.Curve, pts); err != nil {
		errs = append(errs, "pacing.curve: "+err.Error())
	}

	if _, err := pacing.ParseSchedule(cfg.Schedule.DayStart, cfg.Schedule.DayEnd); err != nil {
		errs = append(errs, "schedule: "+err.Error())
	}
	if _, err := cfg.Schedule.Location(); err != nil {
		errs = append(errs, fmt.Sprintf("schedule.timezone %q: %v", cfg.Schedule.Timezone, err))
	}

	s := cfg.Selector
	if s.ShareSmall < 0 || s.ShareMedium < 0 || s.ShareLarge < 0 {
		errs = append(errs, "selector shares must be >= 0")
	}
	if cfg.Streak.MaxReal < 0 || cfg.Streak.MaxFiller < 0 {
		errs = append(errs, "streak caps must be >= 0 (0 disables)")
	}

	switch cfg.State.Backend {
	case "file":
	case "redis":
		if cfg.State.RedisAddr == "" {
			errs = append(errs, "state.redis_addr is required for state.backend=redis")
		}
	default:
		errs = append(errs, "state.backend must be one of: file, redis")
	}

	if cfg.Cron.Enabled {
		parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
		specs := [][2]string{
			{"cron.mode_poll", cfg.Cron.ModePoll},
			{"cron.rollover_check", cfg.Cron.RolloverCheck},
		}
		for _, kv := range specs {
			if _, err := parser.Parse(kv[1]); err != nil {
				errs = append(errs, fmt.Sprintf("%s %q: %v", kv[0], kv[1], err))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
