package snprobe

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckPDULoad(t *testing.T) {
	t.Parallel()

	source := &fakeSource{
		values: map[string]*MetricValue{
			oidPDULoadStatusLoad: NewMetricValue("load", "127"),
		},
	}

	check := &CheckPDULoad{}
	check.Build()

	res, err := check.evaluate(context.Background(), source, "pdu1")
	require.NoErrorf(t, err, "evaluate succeeds")
	assert.Equalf(t, CheckExitWarning, res.State, "12.7A is over the 12A warning")
	assert.Equalf(t, "WARNING: output load is 12.7A |'load'=12.7;12;16;0",
		string(res.BuildPluginOutput()), "plugin output")
	assert.Equalf(t, 1, res.ExitCode(), "conventional exit code")
}

func TestCheckPDULoadLegacyExitCodes(t *testing.T) {
	t.Parallel()

	source := &fakeSource{
		values: map[string]*MetricValue{
			oidPDULoadStatusLoad: NewMetricValue("load", "170"),
		},
	}

	check := &CheckPDULoad{}
	check.Build()
	check.legacyExitCodes = true

	res, err := check.evaluate(context.Background(), source, "pdu1")
	require.NoErrorf(t, err, "evaluate succeeds")
	assert.Equalf(t, CheckExitCritical, res.State, "17A is over the 16A critical")
	assert.Equalf(t, 1, res.ExitCode(), "legacy mapping exits 1 on critical")

	check.legacyExitCodes = false
	res, err = check.evaluate(context.Background(), source, "pdu1")
	require.NoErrorf(t, err, "evaluate succeeds")
	assert.Equalf(t, CheckExitCritical, res.State, "re-evaluating the same source gives the same state")
	assert.Equalf(t, 2, res.ExitCode(), "conventional mapping exits 2 on critical")

	// the fetched value must not be scaled in place across runs
	assert.InDeltaf(t, 170.0, source.values[oidPDULoadStatusLoad].Value, 0.0001, "source value untouched")
}

func TestCheckPDULoadUnreadable(t *testing.T) {
	t.Parallel()

	source := &fakeSource{
		values: map[string]*MetricValue{
			oidPDULoadStatusLoad: NewMetricValue("load", "noSuchInstance"),
		},
	}

	check := &CheckPDULoad{}
	check.Build()

	res, err := check.evaluate(context.Background(), source, "pdu1")
	require.NoErrorf(t, err, "evaluate succeeds")
	assert.Equalf(t, CheckExitUnknown, res.State, "unreadable value is unknown")
	assert.Containsf(t, res.Output, "unreadable load value", "output names the problem")
	assert.Emptyf(t, res.Metrics, "no perfdata for unreadable values")
}

func TestCheckPDULoadTimeout(t *testing.T) {
	t.Parallel()

	source := &fakeSource{
		errs: map[string]error{
			oidPDULoadStatusLoad: &SourceError{Kind: SourceTimeout, Query: oidPDULoadStatusLoad},
		},
	}

	check := &CheckPDULoad{}
	check.Build()

	_, err := check.evaluate(context.Background(), source, "pdu1")
	require.Errorf(t, err, "timeout propagates")
	assert.Truef(t, SourceErrorIs(err, SourceTimeout), "error keeps its kind")
}
