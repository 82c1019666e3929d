package snprobe

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/consol-monitoring/snprobe/pkg/convert"
	"github.com/consol-monitoring/snprobe/pkg/threshold"
)

// CheckMetric contains a single performance value.
type CheckMetric struct {
	Name     string
	Unit     string
	Value    interface{}
	Warning  *threshold.Threshold
	Critical *threshold.Threshold
	// WarningStr/CriticalStr override the threshold fields for probes
	// whose thresholds are plain numbers instead of range expressions.
	WarningStr  string
	CriticalStr string
	Min         *float64
	Max         *float64
}

// String renders the metric in the 'name'=value[unit];warn;crit;min;max
// perfdata notation.
func (m *CheckMetric) String() string {
	var res bytes.Buffer

	// unknown value
	if fmt.Sprintf("%v", m.Value) == "U" {
		return fmt.Sprintf("'%s'=U", m.Name)
	}

	res.WriteString(fmt.Sprintf("'%s'=%s%s", m.Name, convert.Num2String(m.Value), m.Unit))

	res.WriteString(";")
	res.WriteString(m.warnString())

	res.WriteString(";")
	res.WriteString(m.critString())

	res.WriteString(";")
	if m.Min != nil {
		res.WriteString(strconv.FormatFloat(*m.Min, 'f', -1, 64))
	}

	res.WriteString(";")
	if m.Max != nil {
		res.WriteString(strconv.FormatFloat(*m.Max, 'f', -1, 64))
	}

	resStr := res.String()
	// strip trailing semicolons
	for resStr[len(resStr)-1] == ';' {
		resStr = resStr[:len(resStr)-1]
	}

	return resStr
}

func (m *CheckMetric) warnString() string {
	if m.WarningStr != "" {
		return m.WarningStr
	}
	if m.Warning != nil {
		return m.Warning.String()
	}

	return ""
}

func (m *CheckMetric) critString() string {
	if m.CriticalStr != "" {
		return m.CriticalStr
	}
	if m.Critical != nil {
		return m.Critical.String()
	}

	return ""
}
