// Package analytics implements the comparative time-series engine behind the
// relative-performance reports.
//
// The package is a pure transformation layer: it consumes per-symbol daily
// level series already parsed by the fetch layer and produces derived panels
// and tables. It performs no network or file I/O and never mutates its inputs.
//
// # Pipeline
//
// Raw per-symbol series flow through the stages in order:
//
//  1. Align: merge heterogeneous calendars into one complete Panel
//     (union of dates, forward-fill then backward-fill, drop incomplete rows)
//  2. Returns / Rebase: daily simple returns and indexed-to-100 levels
//  3. Rolling statistics: compounded period return, correlation and beta
//     over trailing windows, computed with streaming accumulators
//  4. Drawdown: running peak-relative decline per column
//  5. Compare: per-(asset, benchmark) excess-return, correlation and beta
//     tables with collision-free column names
//
// # Missing values
//
// Cells that are not yet computable (rolling warm-up, zero-variance windows,
// division by a zero prior value) are represented as NaN, never as zero and
// never as an error. Exporters render NaN cells as blanks. Alignment is the
// only stage that can fail outright: ErrNoData is returned when no symbol
// contributed any observations.
package analytics
