package analytics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func comparisonFixture(t *testing.T) *Panel {
	t.Helper()
	levels := map[string]Series{
		"GSOX": seriesOf(1, 100, 110, 99, 105, 112, 108, 115, 111),
		"SPX":  seriesOf(1, 100, 105, 100, 102, 104, 103, 106, 105),
		"MXWO": seriesOf(1, 50, 51, 50, 52, 53, 52, 54, 53),
	}
	return Returns(panelOf(t, levels))
}

func TestCompareColumnNaming(t *testing.T) {
	rets := comparisonFixture(t)

	cmp, err := Compare(rets, "GSOX", []string{"SPX", "MXWO"}, CompareOptions{ReturnWindow: 2, RiskWindow: 3})
	require.NoError(t, err)

	assert.Equal(t, []string{"GSOX-vs-SPX", "GSOX-vs-MXWO"}, cmp.Excess.ColumnNames())
	assert.Equal(t, []string{"Corr(GSOX,SPX)", "Corr(GSOX,MXWO)"}, cmp.Correlation.ColumnNames())
	assert.Equal(t, []string{"Beta(GSOX,SPX)", "Beta(GSOX,MXWO)"}, cmp.Beta.ColumnNames())
}

func TestCompareExcessMatchesPeriodReturns(t *testing.T) {
	rets := comparisonFixture(t)
	opts := CompareOptions{ReturnWindow: 3, RiskWindow: 4}

	cmp, err := Compare(rets, "GSOX", []string{"SPX"}, opts)
	require.NoError(t, err)

	asset, _ := rets.Column("GSOX")
	bench, _ := rets.Column("SPX")
	assetPeriod, err := RollingPeriodReturn(asset, opts.ReturnWindow)
	require.NoError(t, err)
	benchPeriod, err := RollingPeriodReturn(bench, opts.ReturnWindow)
	require.NoError(t, err)

	excess, ok := cmp.Excess.Column("GSOX-vs-SPX")
	require.True(t, ok)

	// The excess table drops the warm-up rows; remaining rows line up with
	// the defined tail of the rolling period returns.
	offset := len(assetPeriod) - len(excess)
	require.Greater(t, offset, 0, "warm-up rows must be dropped")
	for i, v := range excess {
		assert.InDelta(t, assetPeriod[offset+i]-benchPeriod[offset+i], v, 1e-12)
	}
}

func TestCompareDropsRowsOnlyWhenAllColumnsMissing(t *testing.T) {
	// One benchmark with flat prices: its correlation column is undefined on
	// every date, but rows survive because the other column is defined.
	levels := map[string]Series{
		"GSOX": seriesOf(1, 100, 110, 99, 105, 112, 108),
		"SPX":  seriesOf(1, 100, 105, 100, 102, 104, 103),
		"FLAT": seriesOf(1, 100, 100, 100, 100, 100, 100),
	}
	rets := Returns(panelOf(t, levels))

	cmp, err := Compare(rets, "GSOX", []string{"SPX", "FLAT"}, CompareOptions{ReturnWindow: 2, RiskWindow: 2})
	require.NoError(t, err)

	require.Greater(t, cmp.Correlation.Rows(), 0)

	defined, ok := cmp.Correlation.Column("Corr(GSOX,SPX)")
	require.True(t, ok)
	undefined, ok := cmp.Correlation.Column("Corr(GSOX,FLAT)")
	require.True(t, ok)

	for i := range defined {
		assert.False(t, math.IsNaN(defined[i]), "row %d", i)
		assert.True(t, math.IsNaN(undefined[i]), "zero-variance benchmark stays missing, row %d", i)
	}

	beta, ok := cmp.Beta.Column("Beta(GSOX,FLAT)")
	require.True(t, ok)
	for i := range beta {
		assert.True(t, math.IsNaN(beta[i]))
	}
}

func TestCompareWarmUp(t *testing.T) {
	rets := comparisonFixture(t)
	opts := CompareOptions{ReturnWindow: 2, RiskWindow: 4}

	cmp, err := Compare(rets, "GSOX", []string{"SPX"}, opts)
	require.NoError(t, err)

	// Correlation table starts at the first complete risk window.
	require.Greater(t, cmp.Correlation.Rows(), 0)
	assert.Equal(t, rets.Dates[opts.RiskWindow-1], cmp.Correlation.Dates[0])

	// Excess table starts at the first complete return window.
	require.Greater(t, cmp.Excess.Rows(), 0)
	assert.Equal(t, rets.Dates[opts.ReturnWindow-1], cmp.Excess.Dates[0])
}

func TestCompareUnknownSymbols(t *testing.T) {
	rets := comparisonFixture(t)

	_, err := Compare(rets, "NOPE", []string{"SPX"}, DefaultCompareOptions())
	require.Error(t, err)

	_, err = Compare(rets, "GSOX", []string{"NOPE"}, DefaultCompareOptions())
	require.Error(t, err)

	_, err = Compare(rets, "GSOX", nil, DefaultCompareOptions())
	require.Error(t, err)
}

func TestCompareInvalidWindows(t *testing.T) {
	rets := comparisonFixture(t)

	_, err := Compare(rets, "GSOX", []string{"SPX"}, CompareOptions{ReturnWindow: 0, RiskWindow: 10})
	require.Error(t, err)

	_, err = Compare(rets, "GSOX", []string{"SPX"}, CompareOptions{ReturnWindow: 10, RiskWindow: -1})
	require.Error(t, err)
}

func TestDefaultCompareOptions(t *testing.T) {
	opts := DefaultCompareOptions()
	assert.Equal(t, 63, opts.ReturnWindow)
	assert.Equal(t, 126, opts.RiskWindow)
}
