package analytics

import (
	"math"
	"sort"
	"time"
)

// Point is a single dated observation.
type Point struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// Series is an ordered sequence of daily observations. A well-formed series
// has unique dates in strictly ascending order; NewSeries establishes that
// invariant for arbitrary input.
type Series []Point

// NewSeries returns a series built from points, sorted by date with duplicate
// dates collapsed keeping the first occurrence. The input slice is not
// modified.
func NewSeries(points []Point) Series {
	s := make(Series, len(points))
	copy(s, points)

	// Stable sort keeps the first occurrence of a duplicated date ahead of
	// later ones, so the dedup pass below retains it.
	sort.SliceStable(s, func(i, j int) bool { return s[i].Date.Before(s[j].Date) })

	out := s[:0]
	for i, p := range s {
		if i > 0 && sameDay(p.Date, out[len(out)-1].Date) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// sameDay compares two timestamps at calendar-day resolution.
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Len returns the number of observations.
func (s Series) Len() int { return len(s) }

// IsEmpty reports whether the series has no observations.
func (s Series) IsEmpty() bool { return len(s) == 0 }

// Column is one named value column of a Panel, index-aligned with the panel
// dates.
type Column struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// Panel is a date-indexed table: a shared ascending date index plus one
// equally long value column per symbol. After alignment a panel is complete
// (no NaN cells); derived tables may carry NaN cells for undefined entries.
type Panel struct {
	Dates   []time.Time `json:"dates"`
	Columns []Column    `json:"columns"`
}

// Rows returns the number of dates in the panel.
func (p *Panel) Rows() int { return len(p.Dates) }

// ColumnNames returns the column names in panel order.
func (p *Panel) ColumnNames() []string {
	names := make([]string, len(p.Columns))
	for i, c := range p.Columns {
		names[i] = c.Name
	}
	return names
}

// Column returns the values of the named column, or false when the panel has
// no such column.
func (p *Panel) Column(name string) ([]float64, bool) {
	for _, c := range p.Columns {
		if c.Name == name {
			return c.Values, true
		}
	}
	return nil, false
}

// missing is the cell marker for values that are not (yet) computable.
func missing() float64 { return math.NaN() }

// isMissing reports whether a cell holds the missing-value marker.
func isMissing(v float64) bool { return math.IsNaN(v) }

// dropAllMissingRows returns a copy of p without the rows where every column
// is missing. Rows with at least one defined cell are kept.
func dropAllMissingRows(p *Panel) *Panel {
	keep := make([]int, 0, len(p.Dates))
	for i := range p.Dates {
		for _, c := range p.Columns {
			if !isMissing(c.Values[i]) {
				keep = append(keep, i)
				break
			}
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
