package pacing

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Curve maps day progress in [0,1] to the expected delivered ratio in [0,1].
type Curve interface {
	Evaluate(t float64) float64
}

// Easing names a built-in curve.
type Easing string

const (
	EaseLinear     Easing = "linear"
	EaseOutQuad    Easing = "easeOutQuad"
	EaseInOutCubic Easing = "easeInOutCubic"
	EaseKeyframes  Easing = "keyframes"
)

var ErrCurveConfig = errors.New("invalid pacing curve config")

// Func adapts a plain function to Curve.
type Func func(t float64) float64

func (f Func) Evaluate(t float64) float64 { return f(t) }

var (
	Linear = Func(func(t float64) float64 { return clamp01(t) })

	// EaseOutQuad front-loads delivery: f(t) = 1 - (1 - t)^2
	EaseOutQuadCurve = Func(func(t float64) float64 {
		t = clamp01(t)
		return 1 - (1-t)*(1-t)
	})

	// EaseInOutCubic accelerates then decelerates around midday.
	EaseInOutCubicCurve = Func(func(t float64) float64 {
		t = clamp01(t)
		if t < 0.5 {
			return 4 * t * t * t
		}
		u := -2*t + 2
		return 1 - u*u*u/2
	})
)

// Point is one keyframe.
type Point struct {
	T float64
	V float64
}

// Keyframes is a piecewise-linear curve. Values before the first point and
// after the last are held flat.
type Keyframes struct {
	points []Point
}

func NewKeyframes(points []Point) (*Keyframes, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: keyframes need at least one point", ErrCurveConfig)
	}
	cp := append([]Point(nil), points...)
	sort.SliceStable(cp, func(i, j int) bool { return cp[i].T < cp[j].T })
	return &Keyframes{points: cp}, nil
}

func (k *Keyframes) Evaluate(t float64) float64 {
	ps := k.points
	if t <= ps[0].T {
		return ps[0].V
	}
	last := ps[len(ps)-1]
	if t >= last.T {
		return last.V
	}
	for i := 1; i < len(ps); i++ {
		a, b := ps[i-1], ps[i]
		if t > b.T {
			continue
		}
		span := b.T - a.T
		if span <= 0 {
			return b.V
		}
		return a.V + (b.V-a.V)*(t-a.T)/span
	}
	return last.V
}

// ParsePoints reads keyframes written as "t:v", e.g. "0.5:0.3".
func ParsePoints(raw []string) ([]Point, error) {
	out := make([]Point, 0, len(raw))
	for _, s := range raw {
		tv := strings.SplitN(strings.TrimSpace(s), ":", 2)
		if len(tv) != 2 {
			return nil, fmt.Errorf("%w: point %q is not t:v", ErrCurveConfig, s)
		}
		t, err := strconv.ParseFloat(strings.TrimSpace(tv[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: point %q: %v", ErrCurveConfig, s, err)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(tv[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: point %q: %v", ErrCurveConfig, s, err)
		}
		out = append(out, Point{T: t, V: v})
	}
	return out, nil
}

// ParseCurve resolves a curve by name. Empty name means linear.
func ParseCurve(name string, points []Point) (Curve, error) {
	switch Easing(strings.TrimSpace(name)) {
	case "", EaseLinear:
		return Linear, nil
	case EaseOutQuad:
		return EaseOutQuadCurve, nil
	case EaseInOutCubic:
		return EaseInOutCubicCurve, nil
	case EaseKeyframes:
		return NewKeyframes(points)
	}
	return nil, fmt.Errorf("%w: unknown curve %q", ErrCurveConfig, name)
}
