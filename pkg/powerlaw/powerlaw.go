// Package powerlaw fits discrete power-law distributions to integer samples such as node
// degrees and community sizes.
package powerlaw

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mathext"
)

// ErrEmptySample is returned for a sample with no values at or above x_min.
var ErrEmptySample = errors.New("empty sample")

// Result is a fitted power law p(x) ~ x^-Tau for x >= XMin.
type Result struct {
	Tau   float64 `json:"tau"`
	XMin  float64 `json:"xmin"`
	KS    float64 `json:"ks"`     // Kolmogorov-Smirnov distance of the tail fit
	NTail int     `json:"n_tail"` // values at or above XMin
}

type options struct {
	xmin    float64
	pinned  bool
	minTail int
}

// Option configures Fit.
type Option func(*options)

// WithXMin fixes x_min instead of searching for it.
func WithXMin(xmin float64) Option {
	return func(o *options) {
		o.xmin = xmin
		o.pinned = true
	}
}

// WithMinTail skips x_min candidates that leave fewer than n values in the tail.
func WithMinTail(n int) Option {
	return func(o *options) {
		o.minTail = n
	}
}

// Fit estimates the exponent of a discrete power law.
//
// The exponent uses the discrete approximation tau = 1 + n / sum(ln(x / (xmin - 0.5))).
// Without WithXMin, every distinct value except the largest is tried as x_min and the one
// whose fit has the smallest KS distance wins; ties keep the smaller x_min.
func Fit(data []int, opts ...Option) (Result, error) {
	o := options{minTail: 1}
	for _, opt := range opts {
		opt(&o)
	}

	if len(data) == 0 {
		return Result{}, ErrEmptySample
	}
	values := make([]float64, len(data))
	for i, v := range data {
		if v <= 0 {
			return Result{}, fmt.Errorf("power-law fit requires positive values, got %d", v)
		}
		values[i] = float64(v)
	}
	sort.Float64s(values)

	if o.pinned {
		return fitTail(values, o.xmin)
	}

	candidates := distinct(values)
	if len(candidates) > 1 {
		candidates = candidates[:len(candidates)-1]
	}

	var best Result
	found := false
	for _, xmin := range candidates {
		r, err := fitTail(values, xmin)
		if err != nil {
			return Result{}, err
		}
		if r.NTail < o.minTail {
			continue
		}
		if !found || r.KS < best.KS {
			best = r
			found = true
		}
	}
	if !found {
		return Result{}, fmt.Errorf("no x_min candidate leaves %d values in the tail: %w", o.minTail, ErrEmptySample)
	}
	return best, nil
}

// fitTail fits the values >= xmin of an ascending sample.
func fitTail(sorted []float64, xmin float64) (Result, error) {
	if xmin < 1 {
		return Result{}, fmt.Errorf("x_min must be at least 1, got %v", xmin)
	}
	start := sort.SearchFloat64s(sorted, xmin)
	tail := sorted[start:]
	if len(tail) == 0 {
		return Result{}, fmt.Errorf("no values at or above x_min %v: %w", xmin, ErrEmptySample)
	}

	logs := make([]float64, len(tail))
	shift := xmin - 0.5
	for i, x := range tail {
		logs[i] = math.Log(x / shift)
	}
	n := float64(len(tail))
	tau := 1 + n/floats.Sum(logs)

	return Result{
		Tau:   tau,
		XMin:  xmin,
		KS:    ksDistance(tail, tau, xmin),
		NTail: len(tail),
	}, nil
}

// ksDistance compares P(X < x) of the ascending tail with the fitted discrete power law,
// whose CDF is 1 - zeta(tau, x) / zeta(tau, xmin).
func ksDistance(tail []float64, tau, xmin float64) float64 {
	n := float64(len(tail))
	norm := mathext.Zeta(tau, xmin)

	d := 0.0
	for i := 0; i < len(tail); i++ {
		if i > 0 && tail[i] == tail[i-1] {
			continue
		}
		empirical := float64(i) / n
		fitted := 1 - mathext.Zeta(tau, tail[i])/norm
		if diff := math.Abs(empirical - fitted); diff > d {
			d = diff
		}
	}
	return d
}

func distinct(sorted []float64) []float64 {
	var out []float64
	for i, v := range sorted {
		if i == 0 || v != sorted[i-1] {
			out = append(out, v)
		}
	}
	return out
}
