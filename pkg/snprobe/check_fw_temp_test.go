package snprobe

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckFWTempTemperature(t *testing.T) {
	t.Parallel()

	source := &fakeSource{
		walks: map[string][]*MetricValue{
			oidFWTemperatureValue: {
				NewMetricValue("1", "55"),
				NewMetricValue("2", "48"),
				NewMetricValue("3", "72"),
			},
			oidFWTemperatureDesc: {
				{Name: "1", Raw: "CPU"},
				{Name: "2", Raw: "Power Supply"},
				{Name: "3", Raw: "Fan Tray"},
			},
		},
	}

	check := &CheckFWTemp{}
	check.Build()

	res, err := check.checkTemperature(context.Background(), source)
	require.NoErrorf(t, err, "check succeeds")
	assert.Equalf(t, CheckExitCritical, res.State, "72 degrees is over the 70 critical")
	assert.Equalf(t, "Fan Tray: 72°C", res.Output, "output names the hot sensor")
	require.Lenf(t, res.Metrics, 3, "one metric per sensor")
	assert.Equalf(t, "'CPU'=55;60;70", res.Metrics[0].String(), "sensor perfdata")
}

func TestCheckFWTempTemperatureHealthy(t *testing.T) {
	t.Parallel()

	source := &fakeSource{
		walks: map[string][]*MetricValue{
			oidFWTemperatureValue: {
				NewMetricValue("1", "50"),
				NewMetricValue("2", "40"),
			},
			oidFWTemperatureDesc: {},
		},
	}

	check := &CheckFWTemp{}
	check.Build()

	res, err := check.checkTemperature(context.Background(), source)
	require.NoErrorf(t, err, "check succeeds")
	assert.Equalf(t, CheckExitOK, res.State, "all sensors inside the ranges")
	assert.Equalf(t, "2 temperature sensors healthy, average 45°C", res.Output, "summary output")
	// missing description column degrades to generic names
	assert.Equalf(t, "sensor1", res.Metrics[0].Name, "fallback sensor name")
}

func TestCheckFWTempTemperatureUnreadable(t *testing.T) {
	t.Parallel()

	// a sensor that answers with text instead of a number degrades the
	// result, it never silently drops out of the worst-of aggregation
	source := &fakeSource{
		walks: map[string][]*MetricValue{
			oidFWTemperatureValue: {
				NewMetricValue("1", "55"),
				NewMetricValue("2", "error"),
			},
			oidFWTemperatureDesc: {},
		},
	}

	check := &CheckFWTemp{}
	check.Build()

	res, err := check.checkTemperature(context.Background(), source)
	require.NoErrorf(t, err, "check succeeds")
	assert.Equalf(t, CheckExitUnknown, res.State, "unreadable sensor degrades to unknown")

	none := &fakeSource{
		walks: map[string][]*MetricValue{
			oidFWTemperatureValue: {},
			oidFWTemperatureDesc:  {},
		},
	}
	res, err = check.checkTemperature(context.Background(), none)
	require.NoErrorf(t, err, "check succeeds")
	assert.Equalf(t, CheckExitUnknown, res.State, "no sensors at all is unknown")
}

func TestCheckFWTempFans(t *testing.T) {
	t.Parallel()

	source := &fakeSource{
		walks: map[string][]*MetricValue{
			oidFWFanStatus: {
				NewMetricValue("1", "1"),
				NewMetricValue("2", "3"),
				NewMetricValue("3", "2"),
			},
			oidFWFanDesc: {
				{Name: "1", Raw: "Fan 1"},
				{Name: "2", Raw: "Fan 2"},
				{Name: "3", Raw: "Fan 3"},
			},
		},
	}

	check := &CheckFWTemp{}
	check.Build()
	check.mode = "fan"

	res, err := check.checkFans(context.Background(), source)
	require.NoErrorf(t, err, "check succeeds")
	assert.Equalf(t, CheckExitCritical, res.State, "an inactive fan is critical")
	assert.Equalf(t, "Fan 2: notInstelled, Fan 3: inactive", res.Output, "output names the bad fans")
}

func TestCheckFWTempFansHealthy(t *testing.T) {
	t.Parallel()

	source := &fakeSource{
		walks: map[string][]*MetricValue{
			oidFWFanStatus: {
				NewMetricValue("1", "1"),
				NewMetricValue("2", "1"),
			},
			oidFWFanDesc: {},
		},
	}

	check := &CheckFWTemp{}
	check.Build()

	res, err := check.checkFans(context.Background(), source)
	require.NoErrorf(t, err, "check succeeds")
	assert.Equalf(t, CheckExitOK, res.State, "all fans active")
	assert.Equalf(t, "all 2 fans active", res.Output, "summary output")
}

func TestCheckFWTempFansUnknownCode(t *testing.T) {
	t.Parallel()

	source := &fakeSource{
		walks: map[string][]*MetricValue{
			oidFWFanStatus: {NewMetricValue("1", "9")},
			oidFWFanDesc:   {},
		},
	}

	check := &CheckFWTemp{}
	check.Build()

	res, err := check.checkFans(context.Background(), source)
	require.NoErrorf(t, err, "check succeeds")
	assert.Equalf(t, CheckExitUnknown, res.State, "undocumented status code is unknown")
	assert.Containsf(t, res.Output, "status 9", "output shows the raw code")
}
