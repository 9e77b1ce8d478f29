package draw

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidProb = errors.New("probability must be a finite value in [0,1]")

// Bernoulli reports whether one trial with chance p hits: rng.Float64() < p.
// 0 and 1 are decided without consuming randomness.
func Bernoulli(p float64, rng RandomSource) (bool, error) {
	switch {
	case math.IsNaN(p) || p < 0 || p > 1:
		return false, fmt.Errorf("%w: got %v", ErrInvalidProb, p)
	case p == 0:
		return false, nil
	case p == 1:
		return true, nil
	}
	if rng == nil {
		rng = DefaultRNG()
	}
	return rng.Float64() < p, nil
}
