package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandDuration(t *testing.T) {
	t.Parallel()

	for _, tst := range []struct {
		in  string
		res float64
	}{
		{"10", 10},
		{"500ms", 0.5},
		{"30s", 30},
		{"5m", 300},
		{"2h", 7200},
		{"1d", 86400},
	} {
		res, err := ExpandDuration(tst.in)
		require.NoErrorf(t, err, "ExpandDuration(%q)", tst.in)
		assert.InDeltaf(t, tst.res, res, 0.0001, "ExpandDuration(%q)", tst.in)
	}

	for _, bad := range []string{"", "5x", "abc", "s"} {
		_, err := ExpandDuration(bad)
		require.Errorf(t, err, "ExpandDuration(%q) fails", bad)
	}
}

func TestToPrecision(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 1.67, ToPrecision(1.666666, 2), 0.00001)
	assert.InDelta(t, 2.0, ToPrecision(1.9999, 1), 0.00001)
}

func TestPercentage(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 50.0, Percentage(5, 10), 0.00001)
	assert.True(t, math.IsNaN(Percentage(5, 0)))
}
