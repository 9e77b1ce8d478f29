package selector

import (
	"github.com/xtding233/prizewheel/internal/draw"
	"github.com/xtding233/prizewheel/internal/prize"
)

// Eligibility modes.
const (
	ModeSmall       = 1
	ModeSmallMedium = 2
	ModeAll         = 3
)

// ValidMode reports whether m is one of the eligibility modes.
func ValidMode(m int) bool { return m >= ModeSmall && m <= ModeAll }

// Shares weights the category draw in modes 2 and 3.
type Shares struct {
	Small  float64
	Medium float64
	Large  float64
}

// DefaultShares favours small prizes.
var DefaultShares = Shares{Small: 0.7, Medium: 0.25, Large: 0.05}

// Request is the input to Choose. Slices are indexed by catalog slot.
type Request struct {
	Mode        int
	Remaining   []int
	Categories  []prize.Category
	Weights     []float64
	FillerIndex int
	Shares      Shares
	RNG         draw.RandomSource
}

// Choose picks an in-stock, non-filler prize eligible under the mode.
// ok=false means no candidate; the caller decides whether filler applies.
// Modes outside 1..3 are served like mode 3.
func Choose(req Request) (int, bool) {
	var buckets [3][]int
	for i, left := range req.Remaining {
		if i == req.FillerIndex || left <= 0 || i >= len(req.Categories) {
			continue
		}
		switch req.Categories[i] {
		case prize.Medium:
			buckets[prize.Medium] = append(buckets[prize.Medium], i)
		case prize.Large:
			buckets[prize.Large] = append(buckets[prize.Large], i)
		default:
			buckets[prize.Small] = append(buckets[prize.Small], i)
		}
	}
	small, medium, large := buckets[prize.Small], buckets[prize.Medium], buckets[prize.Large]
	if len(small) == 0 && len(medium) == 0 && len(large) == 0 {
		return -1, false
	}

	if req.Mode == ModeSmall {
		return found(WeightedPick(small, req.Weights, req.RNG))
	}

	shares := [3]float64{
		nonNeg(req.Shares.Small),
		nonNeg(req.Shares.Medium),
		nonNeg(req.Shares.Large),
	}
	if req.Mode == ModeSmallMedium {
		shares[prize.Large] = 0
	}
	eligible := make([]int, 0, len(small)+len(medium)+len(large))
	sum := 0.0
	for c := range buckets {
		if len(buckets[c]) == 0 {
			shares[c] = 0
		}
		sum += shares[c]
		if req.Mode == ModeSmallMedium && prize.Category(c) == prize.Large {
			continue
		}
		eligible = append(eligible, buckets[c]...)
	}
	if sum <= 0 {
		return found(WeightedPick(eligible, req.Weights, req.RNG))
	}

	r := draw.Uniform(req.RNG, 1)
	cum := 0.0
	pick := -1
	for c := range shares {
		if shares[c] <= 0 {
			continue
		}
		cum += shares[c] / sum
		if r < cum {
			pick = c
			break
		}
	}
	if pick < 0 {
		// float rounding at the top edge
		for c := len(shares) - 1; c >= 0; c-- {
			if shares[c] > 0 {
				pick = c
				break
			}
		}
	}
	if idx := WeightedPick(buckets[pick], req.Weights, req.RNG); idx >= 0 {
		return idx, true
	}
	return found(WeightedPick(eligible, req.Weights, req.RNG))
}

func found(idx int) (int, bool) { return idx, idx >= 0 }

func nonNeg(x float64) float64 {
	if x > 0 {
		return x
	}
	return 0
}
