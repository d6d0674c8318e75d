package analytics

import "time"

// Drawdown computes the running peak-relative decline of a level series:
// level[t] / max(level[0..t]) - 1. The result is always <= 0, equals 0 at
// every new all-time high, and is defined from the first observation on (no
// warm-up, unlike the rolling statistics).
func Drawdown(levels []float64) []float64 {
	out := make([]float64, len(levels))
	peak := missing()
	for i, v := range levels {
		if isMissing(v) {
			out[i] = missing()
			continue
		}
		if isMissing(peak) || v > peak {
			peak = v
		}
		if peak == 0 {
			out[i] = missing()
			continue
		}
		out[i] = v/peak - 1.0
	}
	return out
}

// Drawdowns computes the drawdown of every column of a level panel, typically
// the rebased panel so columns share a common starting point.
func Drawdowns(p *Panel) *Panel {
	out := &Panel{
		Dates:   append([]time.Time(nil), p.Dates...),
		Columns: make([]Column, len(p.Columns)),
	}
	for j, c := range p.Columns {
		out.Columns[j] = Column{Name: c.Name, Values: Drawdown(c.Values)}
	}
	return out
}
