package pacing

import "math"

// Input carries everything the pacing decision reads. The model never mutates stock.
type Input struct {
	DailyGoal           int
	ExpectedSpinsPerDay int
	RemainingReal       int
	DeliveredReal       int
	DayProgress         float64
	Curve               Curve
	AdjustmentStrength  float64
	MinProb             float64
	MaxProb             float64
}

// Delivered derives delivered-so-far from the frozen goal and current real stock.
func Delivered(goal, remainingReal int) int {
	d := goal - remainingReal
	if d < 0 {
		return 0
	}
	if d > goal {
		return goal
	}
	return d
}

// ProbabilityOfReal returns the chance that this spin should award a real prize.
// Behind schedule raises it above the base rate, ahead of schedule lowers it.
func ProbabilityOfReal(in Input) float64 {
	lo, hi := in.MinProb, in.MaxProb
	if lo > hi {
		lo, hi = hi, lo
	}
	if in.DailyGoal <= 0 || in.ExpectedSpinsPerDay <= 0 {
		return hi
	}
	goal := float64(in.DailyGoal)

	base := clamp01(goal / math.Max(1, float64(in.ExpectedSpinsPerDay)))

	curve := in.Curve
	if curve == nil {
		curve = Linear
	}
	ratio := clamp01(curve.Evaluate(in.DayProgress))

	diff := ratio*goal - float64(in.DeliveredReal)
	normalized := diff / math.Max(1, goal)

	p := base * (1 + in.AdjustmentStrength*normalized)
	if math.IsNaN(p) {
		return lo
	}
	return math.Max(lo, math.Min(hi, p))
}

func clamp01(x float64) float64 {
	if math.IsNaN(x) || x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
