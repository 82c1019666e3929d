package snprobe

import (
	"context"
	"fmt"
	"strings"

	"github.com/consol-monitoring/snprobe/pkg/threshold"
	"github.com/consol-monitoring/snprobe/pkg/utils"
)

func init() {
	AvailableChecks["check_fw_temp"] = CheckEntry{"check_fw_temp", NewCheckFWTemp}
}

// NetScreen hardware sensor tables
const (
	oidFWTemperatureValue = ".1.3.6.1.4.1.3224.21.4.1.3"
	oidFWTemperatureDesc  = ".1.3.6.1.4.1.3224.21.4.1.4"
	oidFWFanStatus        = ".1.3.6.1.4.1.3224.21.2.1.2"
	oidFWFanDesc          = ".1.3.6.1.4.1.3224.21.2.1.3"
)

// fan status decoding, taken verbatim from the device documentation.
// Code 3 is spelled like this on the wire, keep the table literal.
var (
	fwFanStatusNames = map[int64]string{
		1: "active",
		2: "inactive",
		3: "notInstelled",
	}
	fwFanStatusStates = map[int64]int64{
		1: CheckExitOK,
		2: CheckExitCritical,
		3: CheckExitWarning,
	}
)

type CheckFWTemp struct {
	snmp     snmpArgs
	mode     string
	warning  string
	critical string
}

func NewCheckFWTemp() CheckHandler {
	return &CheckFWTemp{}
}

func (l *CheckFWTemp) Build() *CheckData {
	l.mode = "temperature"
	l.warning = "60"
	l.critical = "70"

	return &CheckData{
		name:        "check_fw_temp",
		description: "Checks the hardware sensors of a firewall appliance.",
		usage:       "check_fw_temp -H <hostname> [--mode temperature|fan] [-w <range>] [-c <range>]",
		args: mergeArgs(l.snmp.arguments(), map[string]CheckArgument{
			"-m|--mode":     {value: &l.mode, description: "Sensor set to check: temperature or fan (default: temperature)"},
			"-w|--warning":  {value: &l.warning, description: "Warning range threshold per temperature sensor (default: 60)"},
			"-c|--critical": {value: &l.critical, description: "Critical range threshold per temperature sensor (default: 70)"},
		}),
	}
}

func (l *CheckFWTemp) Check(ctx context.Context, snc *Agent, _ *CheckData) (*CheckResult, error) {
	secCtx, err := l.snmp.buildContext(snc)
	if err != nil {
		return nil, err
	}
	source := NewSNMPSource(secCtx)
	defer source.Close()

	switch l.mode {
	case "temperature":
		return l.checkTemperature(ctx, source)
	case "fan":
		return l.checkFans(ctx, source)
	default:
		return nil, fmt.Errorf("unknown mode %q, use temperature or fan", l.mode)
	}
}

func (l *CheckFWTemp) checkTemperature(ctx context.Context, source MetricWalker) (*CheckResult, error) {
	warn, err := threshold.NewThreshold(l.warning)
	if err != nil {
		return nil, fmt.Errorf("warning: %s", err.Error())
	}
	crit, err := threshold.NewThreshold(l.critical)
	if err != nil {
		return nil, fmt.Errorf("critical: %s", err.Error())
	}

	sensors, err := source.Walk(ctx, oidFWTemperatureValue)
	if err != nil {
		return nil, err
	}
	if len(sensors) == 0 {
		return &CheckResult{
			State:  CheckExitUnknown,
			Output: "no temperature sensors found",
		}, nil
	}
	names := l.sensorNames(ctx, source, oidFWTemperatureDesc)

	res := &CheckResult{}
	states := make([]int64, 0, len(sensors))
	problems := []string{}
	sum := float64(0)
	count := 0
	for _, sensor := range sensors {
		state := Judge(sensor, warn, crit)
		states = append(states, state)
		name := names[sensor.Name]
		if name == "" {
			name = fmt.Sprintf("sensor%s", sensor.Name)
		}
		if state != CheckExitOK {
			problems = append(problems, fmt.Sprintf("%s: %s°C", name, sensor.Raw))
		}
		if sensor.HasValue {
			sum += sensor.Value
			count++
			res.Metrics = append(res.Metrics, &CheckMetric{
				Name:     name,
				Value:    sensor.Value,
				Warning:  warn,
				Critical: crit,
			})
		}
	}

	// sensors are ranked critical, warning, unknown, ok, in that fixed
	// order, not by exit code magnitude
	res.State = WorstState(SeverityOrderDefault, states...)

	switch {
	case count == 0:
		res.Output = fmt.Sprintf("none of the %d temperature sensors is readable", len(sensors))
	case len(problems) > 0:
		res.Output = strings.Join(problems, ", ")
	default:
		res.Output = fmt.Sprintf("%d temperature sensors healthy, average %g°C",
			count, utils.ToPrecision(sum/float64(count), 1))
	}

	return res, nil
}

func (l *CheckFWTemp) checkFans(ctx context.Context, source MetricWalker) (*CheckResult, error) {
	fans, err := source.Walk(ctx, oidFWFanStatus)
	if err != nil {
		return nil, err
	}
	if len(fans) == 0 {
		return &CheckResult{
			State:  CheckExitUnknown,
			Output: "no fans found",
		}, nil
	}
	names := l.sensorNames(ctx, source, oidFWFanDesc)

	states := make([]int64, 0, len(fans))
	problems := []string{}
	for _, fan := range fans {
		name := names[fan.Name]
		if name == "" {
			name = fmt.Sprintf("fan%s", fan.Name)
		}

		state := CheckExitUnknown
		statusText := fmt.Sprintf("status %s", fan.Raw)
		if fan.HasValue {
			if mapped, ok := fwFanStatusStates[int64(fan.Value)]; ok {
				state = mapped
				statusText = fwFanStatusNames[int64(fan.Value)]
			}
		}
		states = append(states, state)
		if state != CheckExitOK {
			problems = append(problems, fmt.Sprintf("%s: %s", name, statusText))
		}
	}

	res := &CheckResult{
		State: WorstState(SeverityOrderDefault, states...),
	}
	if len(problems) > 0 {
		res.Output = strings.Join(problems, ", ")
	} else {
		res.Output = fmt.Sprintf("all %d fans active", len(fans))
	}

	return res, nil
}

// sensorNames fetches the description column, a failure here only makes
// the output less pretty.
func (l *CheckFWTemp) sensorNames(ctx context.Context, source MetricWalker, oid string) map[string]string {
	names := make(map[string]string)
	descs, err := source.Walk(ctx, oid)
	if err != nil {
		log.Debugf("sensor description walk failed: %s", err.Error())

		return names
	}
	for _, desc := range descs {
		names[desc.Name] = desc.Raw
	}

	return names
}
