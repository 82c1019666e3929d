package snprobe

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckPBXChannels(t *testing.T) {
	t.Parallel()

	source := &fakeSource{
		values: map[string]*MetricValue{
			oidPBXCallsActive: NewMetricValue("channels", "24"),
		},
	}

	check := &CheckPBXChannels{}
	check.Build()
	check.capacity = 30

	res, err := check.evaluate(context.Background(), source)
	require.NoErrorf(t, err, "evaluate succeeds")
	assert.Equalf(t, CheckExitWarning, res.State, "80 percent usage is over the 75 percent warning")
	assert.Equalf(t, "24 of 30 channels in use (80%)", res.Output, "summary output")
	require.Lenf(t, res.Metrics, 2, "channel and usage metrics")
	assert.Equalf(t, "'channels'=24;75%;90%;0;30", res.Metrics[0].String(), "channel perfdata")
	assert.Equalf(t, "'usage'=80%;;;0;100", res.Metrics[1].String(), "usage perfdata")
}

func TestCheckPBXChannelsIdle(t *testing.T) {
	t.Parallel()

	source := &fakeSource{
		values: map[string]*MetricValue{
			oidPBXCallsActive: NewMetricValue("channels", "2"),
		},
	}

	check := &CheckPBXChannels{}
	check.Build()
	check.capacity = 30

	res, err := check.evaluate(context.Background(), source)
	require.NoErrorf(t, err, "evaluate succeeds")
	assert.Equalf(t, CheckExitOK, res.State, "light usage is ok")
}

func TestCheckPBXChannelsAbsoluteThresholds(t *testing.T) {
	t.Parallel()

	source := &fakeSource{
		values: map[string]*MetricValue{
			oidPBXCallsActive: NewMetricValue("channels", "28"),
		},
	}

	check := &CheckPBXChannels{}
	check.Build()
	check.capacity = 30
	check.warning = "20"
	check.critical = "28"

	res, err := check.evaluate(context.Background(), source)
	require.NoErrorf(t, err, "evaluate succeeds")
	assert.Equalf(t, CheckExitCritical, res.State, "absolute count at the critical limit")
}

func TestCheckPBXChannelsUnreadable(t *testing.T) {
	t.Parallel()

	source := &fakeSource{
		values: map[string]*MetricValue{
			oidPBXCallsActive: NewMetricValue("channels", "noSuchObject"),
		},
	}

	check := &CheckPBXChannels{}
	check.Build()
	check.capacity = 30

	res, err := check.evaluate(context.Background(), source)
	require.NoErrorf(t, err, "evaluate succeeds")
	assert.Equalf(t, CheckExitUnknown, res.State, "unreadable channel count is unknown")
	assert.Containsf(t, res.Output, "unreadable channel count", "output names the problem")
}
