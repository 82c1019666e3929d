package snprobe

import (
	"context"
	"fmt"
	"strconv"

	"github.com/consol-monitoring/snprobe/pkg/utils"
)

func init() {
	AvailableChecks["check_radius"] = CheckEntry{"check_radius", NewCheckRadius}
}

type CheckRadius struct {
	hostname string
	port     int64
	secret   string
	username string
	password string
	helper   string
	timeout  string
	warning  float64
	critical float64
}

func NewCheckRadius() CheckHandler {
	return &CheckRadius{}
}

func (l *CheckRadius) Build() *CheckData {
	l.port = 1812
	l.helper = "radtest"
	l.warning = 2
	l.critical = 4

	return &CheckData{
		name:        "check_radius",
		description: "Checks a radius server by running a test authentication through the radtest helper.",
		usage:       "check_radius -H <hostname> -S <secret> -U <username> -P <password>",
		args: map[string]CheckArgument{
			"-H|--hostname": {value: &l.hostname, description: "Hostname or IP of the radius server"},
			"-p|--port":     {value: &l.port, description: "Radius authentication port (default: 1812)"},
			"-S|--secret":   {value: &l.secret, description: "Shared radius secret"},
			"-U|--username": {value: &l.username, description: "Test account name"},
			"-P|--password": {value: &l.password, description: "Test account password"},
			"--helper":      {value: &l.helper, description: "Path to the radtest binary (default: radtest)"},
			"-t|--timeout":  {value: &l.timeout, description: "Helper timeout, ex.: 10s"},
			"-w|--warning":  {value: &l.warning, description: "Warning when the response takes this many seconds (default: 2)"},
			"-c|--critical": {value: &l.critical, description: "Critical when the response takes this many seconds (default: 4)"},
		},
	}
}

func (l *CheckRadius) Check(ctx context.Context, _ *Agent, check *CheckData) (*CheckResult, error) {
	if l.hostname == "" || l.secret == "" || l.username == "" || l.password == "" {
		return nil, fmt.Errorf("hostname, secret, username and password are required, %s", check.usageHint())
	}
	if err := check.parseTimeoutArg(l.timeout); err != nil {
		return nil, err
	}

	source := NewExecSource()

	return l.evaluate(ctx, source)
}

func (l *CheckRadius) evaluate(ctx context.Context, source MetricSource) (*CheckResult, error) {
	query := Query{
		Metric: "response_time",
		Command: []string{
			l.helper,
			l.username,
			l.password,
			fmt.Sprintf("%s:%s", l.hostname, strconv.FormatInt(l.port, 10)),
			"0",
			l.secret,
		},
	}

	elapsed, err := source.Fetch(ctx, query)
	switch {
	case err == nil:
	case SourceErrorIs(err, SourceAuthFailure):
		// the server answered but rejected the test account
		return &CheckResult{
			State:  CheckExitCritical,
			Output: fmt.Sprintf("radius authentication rejected on %s", l.hostname),
		}, nil
	default:
		return nil, err
	}

	res := &CheckResult{
		State: EvaluatePlain(elapsed, l.warning, l.critical),
		Output: fmt.Sprintf("radius authentication on %s succeeded in %gs",
			l.hostname, utils.ToPrecision(elapsed.Value, 3)),
	}
	res.Metrics = append(res.Metrics, &CheckMetric{
		Name:        "response_time",
		Unit:        "s",
		Value:       utils.ToPrecision(elapsed.Value, 3),
		WarningStr:  fmt.Sprintf("%g", l.warning),
		CriticalStr: fmt.Sprintf("%g", l.critical),
		Min:         &Zero,
	})

	return res, nil
}
