package snprobe

import (
	"context"
	"fmt"

	"github.com/consol-monitoring/snprobe/pkg/threshold"
)

func init() {
	AvailableChecks["check_wlc_clients"] = CheckEntry{"check_wlc_clients", NewCheckWLCClients}
}

// wireless controller tables: per-WLAN client counts and the access
// point name column
const (
	oidWLCClientCount = ".1.3.6.1.4.1.14179.2.1.1.1.38"
	oidWLCApName      = ".1.3.6.1.4.1.14179.2.2.1.1.3"
)

type CheckWLCClients struct {
	snmp       snmpArgs
	warning    string
	critical   string
	apWarning  string
	apCritical string
}

func NewCheckWLCClients() CheckHandler {
	return &CheckWLCClients{}
}

func (l *CheckWLCClients) Build() *CheckData {
	return &CheckData{
		name:        "check_wlc_clients",
		description: "Checks client and access point counts on a wireless lan controller.",
		usage:       "check_wlc_clients -H <hostname> [-w <range>] [-c <range>] [--ap-warning <range>] [--ap-critical <range>]",
		args: mergeArgs(l.snmp.arguments(), map[string]CheckArgument{
			"-w|--warning":  {value: &l.warning, description: "Warning range threshold on the total client count, ex.: 1500 or @0:3"},
			"-c|--critical": {value: &l.critical, description: "Critical range threshold on the total client count"},
			"--ap-warning":  {value: &l.apWarning, description: "Warning range threshold on the number of joined access points, ex.: 10:"},
			"--ap-critical": {value: &l.apCritical, description: "Critical range threshold on the number of joined access points"},
		}),
	}
}

func (l *CheckWLCClients) Check(ctx context.Context, snc *Agent, _ *CheckData) (*CheckResult, error) {
	secCtx, err := l.snmp.buildContext(snc)
	if err != nil {
		return nil, err
	}
	source := NewSNMPSource(secCtx)
	defer source.Close()

	return l.evaluate(ctx, source)
}

func (l *CheckWLCClients) evaluate(ctx context.Context, source MetricWalker) (*CheckResult, error) {
	warn, crit, err := l.parseThresholds(l.warning, l.critical)
	if err != nil {
		return nil, err
	}
	apWarn, apCrit, err := l.parseThresholds(l.apWarning, l.apCritical)
	if err != nil {
		return nil, err
	}

	perWlan, err := source.Walk(ctx, oidWLCClientCount)
	if err != nil {
		return nil, err
	}
	clientSummary := Summarize(perWlan, SummarizeOptions{})
	clients := NewMetricValue("clients", clientSummary.Value)
	if clientSummary.Count == 0 {
		clients.HasValue = false
	}

	aps, err := source.Walk(ctx, oidWLCApName)
	if err != nil {
		return nil, err
	}
	apCount := NewMetricValue("access_points", float64(len(aps)))

	// a wlan with an unparsable count degrades the verdict instead of
	// silently dropping out of the sum
	states := []int64{
		Judge(clients, warn, crit),
		Judge(apCount, apWarn, apCrit),
	}
	if clientSummary.Unknown > 0 {
		states = append(states, CheckExitUnknown)
	}

	res := &CheckResult{
		State: WorstState(SeverityOrderDefault, states...),
	}
	res.Output = fmt.Sprintf("%d clients on %d wlans, %d access points joined",
		int64(clients.Value), clientSummary.Count, len(aps))
	res.Metrics = append(res.Metrics,
		&CheckMetric{Name: "clients", Value: clients.Value, Warning: warn, Critical: crit, Min: &Zero},
		&CheckMetric{Name: "access_points", Value: apCount.Value, Warning: apWarn, Critical: apCrit, Min: &Zero},
	)

	return res, nil
}

func (l *CheckWLCClients) parseThresholds(warning, critical string) (warn, crit *threshold.Threshold, err error) {
	if warning != "" {
		warn, err = threshold.NewThreshold(warning)
		if err != nil {
			return nil, nil, fmt.Errorf("warning: %s", err.Error())
		}
	}
	if critical != "" {
		crit, err = threshold.NewThreshold(critical)
		if err != nil {
			return nil, nil, fmt.Errorf("critical: %s", err.Error())
		}
	}

	return warn, crit, nil
}
