package analytics

import (
	"errors"
	"sort"
	"time"
)

// ErrNoData is returned by Align when no symbol contributed any observations.
var ErrNoData = errors.New("no data available for any symbol")

// SkippedSymbol records a symbol that was excluded during alignment. Skipped
// symbols are a warning condition, not a failure: processing continues with
// the remaining symbols.
type SkippedSymbol struct {
	Symbol string `json:"symbol"`
	Reason string `json:"reason"`
}

// Align merges per-symbol series with possibly different calendars into one
// complete panel.
//
// The panel index is the union of all observation dates, ascending, with
// duplicate dates collapsed keeping the first occurrence. Short gaps (for
// example mismatched holiday calendars across exchanges) are closed per
// column by forward-fill followed by backward-fill; any row where a column is
// still missing afterwards is dropped. Columns are ordered by symbol name so
// the output is deterministic.
//
// Empty or missing series are skipped and reported in the returned slice.
// When every symbol is empty, Align fails with ErrNoData.
//
// Note: the fill order (forward before backward) matches the reference
// pipeline. Backward-filling a leading gap leaks the first real observation
// backward, so the panel start is an approximation rather than a strict
// no-look-ahead guarantee.
func Align(series map[string]Series) (*Panel, []SkippedSymbol, error) {
	var skipped []SkippedSymbol

	symbols := make([]string, 0, len(series))
	for symbol, s := range series {
		if s.IsEmpty() {
			skipped = append(skipped, SkippedSymbol{Symbol: symbol, Reason: "no observations"})
			continue
		}
		symbols = append(symbols, symbol)
	}
	if len(symbols) == 0 {
		return nil, skipped, ErrNoData
	}
	sort.Strings(symbols)
	sort.Slice(skipped, func(i, j int) bool { return skipped[i].Symbol < skipped[j].Symbol })

	dates := unionDates(series, symbols)

	panel := &Panel{
		Dates:   dates,
		Columns: make([]Column, len(symbols)),
	}
	for i, symbol := range symbols {
		panel.Columns[i] = Column{
			Name:   symbol,
			Values: projectOnto(dates, NewSeries(series[symbol])),
		}
	}

	for i := range panel.Columns {
		fillForward(panel.Columns[i].Values)
		fillBackward(panel.Columns[i].Values)
	}

	return dropIncompleteRows(panel), skipped, nil
}

// unionDates returns the sorted union of observation dates across symbols.
func unionDates(series map[string]Series, symbols []string) []time.Time {
	seen := make(map[time.Time]struct{})
	var dates []time.Time
	for _, symbol := range symbols {
		for _, p := range series[symbol] {
			day := truncateToDay(p.Date)
			if _, ok := seen[day]; ok {
				continue
			}
			seen[day] = struct{}{}
			dates = append(dates, day)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// truncateToDay normalizes a timestamp to midnight UTC so timestamps from
// different providers key the same calendar day.
func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// projectOnto maps a sorted series onto the shared date index, marking dates
// the series does not cover as missing.
func projectOnto(dates []time.Time, s Series) []float64 {
	values := make([]float64, len(dates))
	next := 0
	for i, d := range dates {
		values[i] = missing()
		for next < len(s) && truncateToDay(s[next].Date).Before(d) {
			next++
		}
		if next < len(s) && truncateToDay(s[next].Date).Equal(d) {
			values[i] = s[next].Value
			next++
		}
	}
	return values
}

// fillForward replaces each missing cell with the last preceding value.
func fillForward(values []float64) {
	last := missing()
	for i, v := range values {
		if isMissing(v) {
			values[i] = last
			continue
		}
		last = v
	}
}

// fillBackward replaces each missing cell with the next following value.
func fillBackward(values []float64) {
	next := missing()
	for i := len(values) - 1; i >= 0; i-- {
		if isMissing(values[i]) {
			values[i] = next
			continue
		}
		next = values[i]
	}
}

// dropIncompleteRows removes every row where at least one column is still
// missing, leaving a complete panel.
func dropIncompleteRows(p *Panel) *Panel {
	keep := make([]int, 0, len(p.Dates))
	for i := range p.Dates {
		complete := true
		for _, c := range p.Columns {
			if isMissing(c.Values[i]) {
				complete = false
				break
			}
		}
		if complete {
			keep = append(keep, i)
		}
	}

	out := &Panel{
		Dates:   make([]time.Time, len(keep)),
		Columns: make([]Column, len(p.Columns)),
	}
	for j, c := range p.Columns {
		out.Columns[j] = Column{Name: c.Name, Values: make([]float64, len(keep))}
	}
	for row, src := range keep {
		out.Dates[row] = p.Dates[src]
		for j, c := range p.Columns {
			out.Columns[j].Values[row] = c.Values[src]
		}
	}
	return out
}
