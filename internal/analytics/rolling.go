package analytics

import (
	"fmt"
	"math"
)

// RollingPeriodReturn computes the compounded return over a trailing window
// of daily returns: prod(1+r) - 1 across the window ending at each index.
// The first window-1 entries are missing; entries whose window contains a
// missing return are missing as well.
//
// The product is maintained incrementally as the window slides, so the cost
// is O(n) regardless of window size.
func RollingPeriodReturn(returns []float64, window int) ([]float64, error) {
	if window < 1 {
		return nil, fmt.Errorf("rolling period return: window must be positive, got %d", window)
	}

	out := make([]float64, len(returns))
	var acc productAccumulator
	for i, r := range returns {
		acc.add(1.0 + r)
		if i >= window {
			acc.remove(1.0 + returns[i-window])
		}
		if i < window-1 || !acc.defined() {
			out[i] = missing()
			continue
		}
		out[i] = acc.product() - 1.0
	}
	return out, nil
}

// productAccumulator maintains a sliding product. Zero factors are counted
// rather than multiplied in, so the running product never collapses to zero
// and eviction stays exact.
type productAccumulator struct {
	prod  float64
	zeros int
	nans  int
	init  bool
}

func (a *productAccumulator) add(f float64) {
	if !a.init {
		a.prod = 1.0
		a.init = true
	}
	switch {
	case math.IsNaN(f):
		a.nans++
	case f == 0:
		a.zeros++
	default:
		a.prod *= f
	}
}

func (a *productAccumulator) remove(f float64) {
	switch {
	case math.IsNaN(f):
		a.nans--
	case f == 0:
		a.zeros--
	default:
		a.prod /= f
	}
}

func (a *productAccumulator) defined() bool { return a.nans == 0 }

func (a *productAccumulator) product() float64 {
	if a.zeros > 0 {
		return 0
	}
	return a.prod
}

// RollingCorrelation computes the Pearson correlation of two return series
// over a trailing window. Entries are missing until a full window is
// available, when either side holds a missing value inside the window, or
// when either side has zero variance in the window.
func RollingCorrelation(x, y []float64, window int) ([]float64, error) {
	moments, err := rollingMoments(x, y, window)
	if err != nil {
		return nil, fmt.Errorf("rolling correlation: %w", err)
	}

	out := make([]float64, len(x))
	for i, m := range moments {
		if !m.complete {
			out[i] = missing()
			continue
		}
		varX := m.n*m.sxx - m.sx*m.sx
		varY := m.n*m.syy - m.sy*m.sy
		if varX <= 0 || varY <= 0 {
			out[i] = missing()
			continue
		}
		corr := (m.n*m.sxy - m.sx*m.sy) / math.Sqrt(varX*varY)
		// Guard against floating error nudging the ratio past the bound.
		out[i] = math.Max(-1.0, math.Min(1.0, corr))
	}
	return out, nil
}

// RollingBeta computes the asset's sensitivity to the benchmark,
// cov(asset, benchmark) / var(benchmark), over a trailing window. A window
// with zero benchmark variance yields a missing entry, never a fault.
func RollingBeta(asset, benchmark []float64, window int) ([]float64, error) {
	moments, err := rollingMoments(asset, benchmark, window)
	if err != nil {
		return nil, fmt.Errorf("rolling beta: %w", err)
	}

	out := make([]float64, len(asset))
	for i, m := range moments {
		if !m.complete {
			out[i] = missing()
			continue
		}
		varBench := m.n*m.syy - m.sy*m.sy
		if varBench <= 0 {
			out[i] = missing()
			continue
		}
		out[i] = (m.n*m.sxy - m.sx*m.sy) / varBench
	}
	return out, nil
}

// windowMoments holds the fused sliding sums for one window position. The
// sums are over x, y, x*y, x^2 and y^2, which is enough to derive covariance,
// variances, correlation and beta in one pass.
type windowMoments struct {
	n                     float64
	sx, sy, sxy, sxx, syy float64
	complete              bool
}

// rollingMoments computes the fused sliding sums for every index. A single
// accumulator replaces the separate rolling covariance and variance passes of
// the reference implementation; the derived statistics are identical.
func rollingMoments(x, y []float64, window int) ([]windowMoments, error) {
	if window < 1 {
		return nil, fmt.Errorf("window must be positive, got %d", window)
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf("series length mismatch: %d vs %d", len(x), len(y))
	}

	out := make([]windowMoments, len(x))
	var m windowMoments
	nans := 0
	m.n = float64(window)

	add := func(a, b float64) {
		if math.IsNaN(a) || math.IsNaN(b) {
			nans++
			return
		}
		m.sx += a
		m.sy += b
		m.sxy += a * b
		m.sxx += a * a
		m.syy += b * b
	}
	remove := func(a, b float64) {
		if math.IsNaN(a) || math.IsNaN(b) {
			nans--
			return
		}
		m.sx -= a
		m.sy -= b
		m.sxy -= a * b
		m.sxx -= a * a
		m.syy -= b * b
	}

	for i := range x {
		add(x[i], y[i])
		if i >= window {
			remove(x[i-window], y[i-window])
		}
		m.complete = i >= window-1 && nans == 0
		out[i] = m
	}
	return out, nil
}
