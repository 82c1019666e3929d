package snprobe

import (
	"context"
	"fmt"
)

func init() {
	AvailableChecks["check_pdu_load"] = CheckEntry{"check_pdu_load", NewCheckPDULoad}
}

// rPDULoadStatusLoad, value in tenths of amperes
const oidPDULoadStatusLoad = ".1.3.6.1.4.1.318.1.1.12.2.3.1.1.2.1"

// legacyPDUExitMapping preserves the swapped WARNING/CRITICAL exit codes
// of the old check_pdu plugin generation. Some installations still key
// their notification rules on the swapped codes, so the mapping stays
// available behind --legacy-exit-codes instead of being silently fixed.
var legacyPDUExitMapping = map[int64]int64{
	CheckExitOK:       0,
	CheckExitWarning:  2,
	CheckExitCritical: 1,
	CheckExitUnknown:  3,
}

type CheckPDULoad struct {
	snmp            snmpArgs
	warning         float64
	critical        float64
	legacyExitCodes bool
}

func NewCheckPDULoad() CheckHandler {
	return &CheckPDULoad{}
}

func (l *CheckPDULoad) Build() *CheckData {
	l.warning = 12
	l.critical = 16

	return &CheckData{
		name:        "check_pdu_load",
		description: "Checks the output load of a rack power distribution unit.",
		usage:       "check_pdu_load -H <hostname> [-C <community>] [-w <amps>] [-c <amps>]",
		args: mergeArgs(l.snmp.arguments(), map[string]CheckArgument{
			"-w|--warning":  {value: &l.warning, description: "Warning when the load in amperes reaches this value (default: 12)"},
			"-c|--critical": {value: &l.critical, description: "Critical when the load in amperes reaches this value (default: 16)"},
			"--legacy-exit-codes": {value: &l.legacyExitCodes, description: "Use the exit code mapping of the legacy plugin (warning=2, critical=1)"},
		}),
	}
}

func (l *CheckPDULoad) Check(ctx context.Context, snc *Agent, _ *CheckData) (*CheckResult, error) {
	secCtx, err := l.snmp.buildContext(snc)
	if err != nil {
		return nil, err
	}
	source := NewSNMPSource(secCtx)
	defer source.Close()

	return l.evaluate(ctx, source, secCtx.Host)
}

func (l *CheckPDULoad) evaluate(ctx context.Context, source MetricSource, host string) (*CheckResult, error) {
	metric, err := source.Fetch(ctx, Query{Metric: "load", OID: oidPDULoadStatusLoad})
	if err != nil {
		return nil, err
	}

	// device reports tenths of amperes, the fetched value stays untouched
	amps := &MetricValue{
		Name:     metric.Name,
		Raw:      metric.Raw,
		Value:    metric.Value / 10,
		HasValue: metric.HasValue,
	}

	res := &CheckResult{
		State: EvaluatePlain(amps, l.warning, l.critical),
	}
	if l.legacyExitCodes {
		res.ExitMapping = legacyPDUExitMapping
	}

	if !amps.HasValue {
		res.Output = fmt.Sprintf("unreadable load value %q from %s", amps.Raw, host)

		return res, nil
	}

	res.Output = fmt.Sprintf("output load is %.1fA", amps.Value)
	res.Metrics = append(res.Metrics, &CheckMetric{
		Name:        "load",
		Value:       amps.Value,
		WarningStr:  fmt.Sprintf("%g", l.warning),
		CriticalStr: fmt.Sprintf("%g", l.critical),
		Min:         &Zero,
	})

	return res, nil
}
