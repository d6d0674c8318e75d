package analytics

import "time"

// Returns derives a panel of simple daily returns, (v[t] - v[t-1]) / v[t-1],
// per column. The first row of the source panel has no prior value and is
// dropped. A prior value of exactly zero yields a missing cell rather than a
// fault; the marker propagates through downstream rolling statistics.
func Returns(p *Panel) *Panel {
	if p.Rows() < 2 {
		return &Panel{Columns: emptyColumns(p)}
	}

	out := &Panel{
		Dates:   append([]time.Time(nil), p.Dates[1:]...),
		Columns: make([]Column, len(p.Columns)),
	}
	for j, c := range p.Columns {
		values := make([]float64, len(c.Values)-1)
		for t := 1; t < len(c.Values); t++ {
			prev := c.Values[t-1]
			if prev == 0 || isMissing(prev) || isMissing(c.Values[t]) {
				values[t-1] = missing()
				continue
			}
			values[t-1] = (c.Values[t] - prev) / prev
		}
		out.Columns[j] = Column{Name: c.Name, Values: values}
	}
	return out
}

// Rebase derives indexed levels, v[t] / v[0] * 100, per column. On an aligned
// panel every column starts at the common first date, so rebased columns are
// directly comparable and the first value is exactly 100.
func Rebase(p *Panel) *Panel {
	out := &Panel{
		Dates:   append([]time.Time(nil), p.Dates...),
		Columns: make([]Column, len(p.Columns)),
	}
	for j, c := range p.Columns {
		values := make([]float64, len(c.Values))
		if len(c.Values) > 0 {
			base := c.Values[0]
			for t, v := range c.Values {
				if base == 0 || isMissing(base) || isMissing(v) {
					values[t] = missing()
					continue
				}
				values[t] = v / base * 100.0
			}
		}
		out.Columns[j] = Column{Name: c.Name, Values: values}
	}
	return out
}

// emptyColumns returns zero-length columns mirroring the source panel layout.
func emptyColumns(p *Panel) []Column {
	cols := make([]Column, len(p.Columns))
	for j, c := range p.Columns {
		cols[j] = Column{Name: c.Name}
	}
	return cols
}
