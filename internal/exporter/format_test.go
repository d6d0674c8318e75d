package exporter

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "100", formatValue(100))
	assert.Equal(t, "101.5", formatValue(101.5))
	assert.Equal(t, "-0.25", formatValue(-0.25))
	assert.Equal(t, "", formatValue(math.NaN()))
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "13.40", formatFloat(13.4, 2))
	assert.Equal(t, "0.123457", formatFloat(0.123456789, 6))
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2024, 3, 9, 15, 30, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-09", formatDate(d))
}

func TestParseValue(t *testing.T) {
	v, err := parseValue("101.5")
	require.NoError(t, err)
	assert.Equal(t, 101.5, v)

	v, err = parseValue("")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(v), "empty cell parses as missing")

	_, err = parseValue("not-a-number")
	require.Error(t, err)
}
