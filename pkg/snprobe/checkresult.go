package snprobe

import (
	"fmt"
	"strings"

	"github.com/consol-monitoring/snprobe/pkg/convert"
)

const (
	// CheckExitOK is used for normal exits.
	CheckExitOK = int64(0)

	// CheckExitWarning is used for warnings.
	CheckExitWarning = int64(1)

	// CheckExitCritical is used for critical errors.
	CheckExitCritical = int64(2)

	// CheckExitUnknown is used when the check runs into a problem itself.
	CheckExitUnknown = int64(3)
)

// CheckResult is the result of a single probe run.
type CheckResult struct {
	State   int64
	Output  string
	Metrics []*CheckMetric

	// ExitMapping translates the semantic state into the process exit
	// code. Nil means the conventional 0/1/2/3 mapping. Legacy probe
	// variants with non-standard mappings install their own table here.
	ExitMapping map[int64]int64
}

func (cr *CheckResult) StateString() string {
	return convert.StateString(cr.State)
}

// EscalateStatus raises the state by numeric magnitude, never lowers it.
func (cr *CheckResult) EscalateStatus(state int64) {
	if state > cr.State {
		cr.State = state
	}
}

// ExitCode returns the process exit code for this result.
func (cr *CheckResult) ExitCode() int {
	if cr.ExitMapping != nil {
		if code, ok := cr.ExitMapping[cr.State]; ok {
			return int(code)
		}
	}
	if cr.State >= CheckExitOK && cr.State <= CheckExitUnknown {
		return int(cr.State)
	}

	return int(CheckExitUnknown)
}

// BuildPluginOutput renders the single status line, optionally followed
// by the perfdata suffix.
func (cr *CheckResult) BuildPluginOutput() []byte {
	output := []byte(fmt.Sprintf("%s: %s", cr.StateString(), cr.Output))
	if len(cr.Metrics) > 0 {
		perf := make([]string, 0, len(cr.Metrics))
		for _, metric := range cr.Metrics {
			perf = append(perf, metric.String())
		}
		output = append(output, ' ', '|')
		output = append(output, []byte(strings.Join(perf, " "))...)
	}

	return output
}
