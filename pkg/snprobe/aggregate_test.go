package snprobe

import (
	"testing"

	"github.com/consol-monitoring/snprobe/pkg/threshold"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorstState(t *testing.T) {
	t.Parallel()

	assert.Equalf(t, CheckExitOK, WorstState(SeverityOrderDefault), "empty list is ok")
	assert.Equalf(t, CheckExitCritical,
		WorstState(SeverityOrderDefault, CheckExitOK, CheckExitCritical, CheckExitWarning), "critical wins")

	// unknown ranks below warning in the default order
	assert.Equalf(t, CheckExitWarning,
		WorstState(SeverityOrderDefault, CheckExitUnknown, CheckExitWarning), "warning outranks unknown")

	// and above warning in the unknown-first order
	assert.Equalf(t, CheckExitUnknown,
		WorstState(SeverityOrderUnknownFirst, CheckExitUnknown, CheckExitWarning), "unknown outranks warning")
}

func TestEvaluatePlain(t *testing.T) {
	t.Parallel()

	metric := &MetricValue{Value: 12.7, HasValue: true}
	assert.Equalf(t, CheckExitWarning, EvaluatePlain(metric, 12, 16), "between warn and crit")

	metric.Value = 16
	assert.Equalf(t, CheckExitCritical, EvaluatePlain(metric, 12, 16), "crit boundary is inclusive")

	metric.Value = 11.9
	assert.Equalf(t, CheckExitOK, EvaluatePlain(metric, 12, 16), "below warn")

	assert.Equalf(t, CheckExitUnknown, EvaluatePlain(&MetricValue{Raw: "noSuchObject"}, 12, 16), "no value is unknown")
	assert.Equalf(t, CheckExitUnknown, EvaluatePlain(nil, 12, 16), "nil metric is unknown")
}

func TestJudge(t *testing.T) {
	t.Parallel()

	warn, err := threshold.NewThreshold("60")
	require.NoErrorf(t, err, "warning threshold parses")
	crit, err := threshold.NewThreshold("70")
	require.NoErrorf(t, err, "critical threshold parses")

	assert.Equalf(t, CheckExitOK, Judge(&MetricValue{Value: 55, HasValue: true}, warn, crit), "inside both ranges")
	assert.Equalf(t, CheckExitWarning, Judge(&MetricValue{Value: 65, HasValue: true}, warn, crit), "outside warning only")
	assert.Equalf(t, CheckExitCritical, Judge(&MetricValue{Value: 75, HasValue: true}, warn, crit), "outside critical")
	assert.Equalf(t, CheckExitOK, Judge(&MetricValue{Value: 75, HasValue: true}, nil, nil), "nil thresholds never alert")
	assert.Equalf(t, CheckExitUnknown, Judge(&MetricValue{}, warn, crit), "no value is unknown")
}

func TestCountThreshold(t *testing.T) {
	t.Parallel()

	abs, err := NewCountThreshold("5")
	require.NoErrorf(t, err, "absolute threshold parses")
	assert.Truef(t, abs.Exceeded(5, 0), "count at the limit triggers")
	assert.Falsef(t, abs.Exceeded(4, 0), "count below the limit")
	assert.Equalf(t, "5", abs.String(), "original notation kept")

	pct, err := NewCountThreshold("25%")
	require.NoErrorf(t, err, "percent threshold parses")
	assert.Truef(t, pct.Exceeded(1, 4), "25 percent of 4 triggers")
	assert.Falsef(t, pct.Exceeded(1, 5), "20 percent does not trigger")
	assert.Falsef(t, pct.Exceeded(1, 0), "unusable capacity never triggers")
	assert.Equalf(t, "25%", pct.String(), "original notation kept")

	_, err = NewCountThreshold("")
	assert.Errorf(t, err, "empty threshold is an error")
	_, err = NewCountThreshold("many%")
	assert.Errorf(t, err, "non numeric threshold is an error")
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	metrics := []*MetricValue{
		{Value: 12, HasValue: true},
		{Value: 8, HasValue: true},
		{Value: 15, HasValue: true},
	}

	crit, err := NewCountThreshold("30")
	require.NoErrorf(t, err, "threshold parses")

	sum := Summarize(metrics, SummarizeOptions{Crit: crit})
	assert.Equalf(t, CheckExitCritical, sum.State, "sum of 35 exceeds 30")
	assert.InDeltaf(t, 35.0, sum.Value, 0.0001, "sum over all sensors")
	assert.Equalf(t, 3, sum.Count, "all sensors usable")

	avg := Summarize(metrics, SummarizeOptions{Average: true})
	assert.InDeltaf(t, 35.0/3.0, avg.Value, 0.0001, "average over all sensors")
	assert.Equalf(t, CheckExitOK, avg.State, "no thresholds, no alert")
}

func TestSummarizeUnknowns(t *testing.T) {
	t.Parallel()

	// all sources failed: the result is unknown, never a zero average
	dead := []*MetricValue{{}, {}, {}}
	sum := Summarize(dead, SummarizeOptions{Average: true})
	assert.Equalf(t, CheckExitUnknown, sum.State, "no usable metric is unknown")
	assert.Equalf(t, 0, sum.Count, "nothing usable")
	assert.Equalf(t, 3, sum.Unknown, "all counted as unknown")

	// partial failures fold the unknown bucket into the state
	mixed := []*MetricValue{
		{Value: 10, HasValue: true},
		{},
	}
	partial := Summarize(mixed, SummarizeOptions{})
	assert.Equalf(t, CheckExitUnknown, partial.State, "unreadable metric degrades ok to unknown")
	assert.Equalf(t, 1, partial.Count, "one usable metric")
	assert.InDeltaf(t, 10.0, partial.Value, 0.0001, "sum over the usable metric")

	// but never masks a critical result
	crit, err := NewCountThreshold("5")
	require.NoErrorf(t, err, "threshold parses")
	worst := Summarize(mixed, SummarizeOptions{Crit: crit})
	assert.Equalf(t, CheckExitCritical, worst.State, "critical outranks unknown")

	empty := Summarize(nil, SummarizeOptions{})
	assert.Equalf(t, CheckExitUnknown, empty.State, "no metric at all is unknown")
}
