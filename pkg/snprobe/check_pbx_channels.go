package snprobe

import (
	"context"
	"fmt"

	"github.com/consol-monitoring/snprobe/pkg/utils"
)

func init() {
	AvailableChecks["check_pbx_channels"] = CheckEntry{"check_pbx_channels", NewCheckPBXChannels}
}

// active call legs on the pbx
const oidPBXCallsActive = ".1.3.6.1.4.1.22736.1.2.5.0"

type CheckPBXChannels struct {
	snmp     snmpArgs
	capacity int64
	warning  string
	critical string
}

func NewCheckPBXChannels() CheckHandler {
	return &CheckPBXChannels{}
}

func (l *CheckPBXChannels) Build() *CheckData {
	l.warning = "75%"
	l.critical = "90%"

	return &CheckData{
		name:        "check_pbx_channels",
		description: "Checks the channel usage of a pbx against its trunk capacity.",
		usage:       "check_pbx_channels -H <hostname> --capacity <channels> [-w <count|percent>] [-c <count|percent>]",
		args: mergeArgs(l.snmp.arguments(), map[string]CheckArgument{
			"--capacity":    {value: &l.capacity, description: "Number of channels the trunks can carry"},
			"-w|--warning":  {value: &l.warning, description: "Warning on this channel usage, absolute or percent of capacity (default: 75%)"},
			"-c|--critical": {value: &l.critical, description: "Critical on this channel usage, absolute or percent of capacity (default: 90%)"},
		}),
	}
}

func (l *CheckPBXChannels) Check(ctx context.Context, snc *Agent, _ *CheckData) (*CheckResult, error) {
	if l.capacity <= 0 {
		return nil, fmt.Errorf("no trunk capacity given, use --capacity <channels>")
	}

	secCtx, err := l.snmp.buildContext(snc)
	if err != nil {
		return nil, err
	}
	source := NewSNMPSource(secCtx)
	defer source.Close()

	return l.evaluate(ctx, source)
}

func (l *CheckPBXChannels) evaluate(ctx context.Context, source MetricSource) (*CheckResult, error) {
	warn, err := NewCountThreshold(l.warning)
	if err != nil {
		return nil, fmt.Errorf("warning: %s", err.Error())
	}
	crit, err := NewCountThreshold(l.critical)
	if err != nil {
		return nil, fmt.Errorf("critical: %s", err.Error())
	}

	channels, err := source.Fetch(ctx, Query{Metric: "channels", OID: oidPBXCallsActive})
	if err != nil {
		return nil, err
	}

	summary := Summarize([]*MetricValue{channels}, SummarizeOptions{
		Capacity: float64(l.capacity),
		Warn:     warn,
		Crit:     crit,
	})

	res := &CheckResult{State: summary.State}
	if summary.Count == 0 {
		res.Output = fmt.Sprintf("unreadable channel count %q", channels.Raw)

		return res, nil
	}

	usagePct := utils.ToPrecision(utils.Percentage(summary.Value, float64(l.capacity)), 1)
	res.Output = fmt.Sprintf("%d of %d channels in use (%g%%)", int64(summary.Value), l.capacity, usagePct)
	capacityMax := float64(l.capacity)
	res.Metrics = append(res.Metrics,
		&CheckMetric{
			Name:        "channels",
			Value:       int64(summary.Value),
			WarningStr:  warn.String(),
			CriticalStr: crit.String(),
			Min:         &Zero,
			Max:         &capacityMax,
		},
		&CheckMetric{Name: "usage", Unit: "%", Value: usagePct, Min: &Zero, Max: &Hundred},
	)

	return res, nil
}
