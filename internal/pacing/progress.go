package pacing

import (
	"fmt"
	"time"
)

// Schedule is the operating window as offsets from midnight.
type Schedule struct {
	DayStart time.Duration
	DayEnd   time.Duration
}

// ParseClock reads "HH:MM" into an offset from midnight.
func ParseClock(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

func ParseSchedule(start, end string) (Schedule, error) {
	s, err := ParseClock(start)
	if err != nil {
		return Schedule{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return Schedule{}, err
	}
	if e <= s {
		return Schedule{}, fmt.Errorf("day end %s must be after day start %s", end, start)
	}
	return Schedule{DayStart: s, DayEnd: e}, nil
}

// ClockProgress is the fraction of the operating window elapsed at now's
// wall-clock time. Before start → 0, after end → 1.
func ClockProgress(now time.Time, s Schedule) float64 {
	if s.DayEnd <= s.DayStart {
		return 0
	}
	tod := time.Duration(now.Hour())*time.Hour +
		time.Duration(now.Minute())*time.Minute +
		time.Duration(now.Second())*time.Second +
		time.Duration(now.Nanosecond())
	return clamp01(float64(tod-s.DayStart) / float64(s.DayEnd-s.DayStart))
}

// SpinProgress is done/expected clamped to [0,1]; expected ≤ 0 gives 0.
func SpinProgress(done, expected int) float64 {
	if expected <= 0 {
		return 0
	}
	return clamp01(float64(done) / float64(expected))
}
