package draw

import (
	"errors"
	"math"
	"testing"
)

func TestBernoulliThreshold(t *testing.T) {
	tests := []struct {
		name string
		p    float64
		r    float64
		want bool
	}{
		{"min band never hits at r=p", 0.1, 0.1, false},
		{"min band hits just below", 0.1, 0.0999, true},
		{"base rate", 0.35, 0.2, true},
		{"base rate miss", 0.35, 0.5, false},
		{"max band", 0.9, 0.89, true},
		{"closed band zero", 0, 0, false},
		{"negative zero", math.Copysign(0, -1), 0, false},
		{"always", 1, 0.999, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Bernoulli(tt.p, constRNG(tt.r))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("Bernoulli(%v) with r=%v = %v, want %v", tt.p, tt.r, got, tt.want)
			}
		})
	}
}

func TestBernoulliRejectsOutOfBand(t *testing.T) {
	for _, p := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), -0.01, 1.0000001} {
		if _, err := Bernoulli(p, constRNG(0.5)); !errors.Is(err, ErrInvalidProb) {
			t.Fatalf("p=%v: want ErrInvalidProb, got %v", p, err)
		}
	}
}

type countingRNG struct{ calls int }

func (c *countingRNG) Float64() float64 { c.calls++; return 0.5 }

func TestBernoulliEdgesSkipRandomness(t *testing.T) {
	rng := &countingRNG{}
	_, _ = Bernoulli(0, rng)
	_, _ = Bernoulli(1, rng)
	if rng.calls != 0 {
		t.Fatalf("p=0 and p=1 consumed %d draws", rng.calls)
	}
	_, _ = Bernoulli(0.4, rng)
	if rng.calls != 1 {
		t.Fatalf("p=0.4 should draw once, drew %d", rng.calls)
	}
}

func TestIndexStaysInRange(t *testing.T) {
	rng := NewSeededRNG(7)
	seen := make([]int, 4)
	for i := 0; i < 4000; i++ {
		idx := Index(rng, 4)
		if idx < 0 || idx >= 4 {
			t.Fatalf("index out of range: %d", idx)
		}
		seen[idx]++
	}
	for i, c := range seen {
		if c == 0 {
			t.Fatalf("index %d never drawn", i)
		}
	}
}

type constRNG float64

func (c constRNG) Float64() float64 { return float64(c) }

func TestIndexClampsUpperEdge(t *testing.T) {
	// a source returning exactly 1 must not produce n
	if got := Index(constRNG(1), 3); got != 2 {
		t.Fatalf("Index(1.0, 3) = %d, want 2", got)
	}
}
