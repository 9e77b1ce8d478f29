package selector

import "github.com/xtding233/prizewheel/internal/draw"

// WeightedPick returns one element of list with probability proportional to
// max(0, weights[idx]). A zero total falls back to a uniform pick; an empty
// list returns -1.
//
// The draw r is compared with `r <= acc`, so at an exact boundary the earlier
// entry wins even when the later one carries the weight. Kept as is; replays
// of recorded seeds depend on it.
func WeightedPick(list []int, weights []float64, rng draw.RandomSource) int {
	if len(list) == 0 {
		return -1
	}
	total := 0.0
	for _, idx := range list {
		total += weightAt(weights, idx)
	}
	if total <= 0 {
		return list[draw.Index(rng, len(list))]
	}
	r := draw.Uniform(rng, total)
	acc := 0.0
	for _, idx := range list {
		acc += weightAt(weights, idx)
		if r <= acc {
			return idx
		}
	}
	return list[len(list)-1]
}

func weightAt(weights []float64, idx int) float64 {
	if idx < 0 || idx >= len(weights) {
		return 0
	}
	if w := weights[idx]; w > 0 {
		return w
	}
	return 0
}
