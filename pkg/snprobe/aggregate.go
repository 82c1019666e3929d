package snprobe

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/consol-monitoring/snprobe/pkg/threshold"
	"github.com/consol-monitoring/snprobe/pkg/utils"
)

// Severity precedence orders for worst-of aggregation. These are
// explicit tables on purpose, the numeric exit codes do not express the
// intended ordering (UNKNOWN is 3 but usually ranks below WARNING).
var (
	// SeverityOrderDefault ranks CRITICAL, WARNING, UNKNOWN, OK.
	SeverityOrderDefault = []int64{CheckExitCritical, CheckExitWarning, CheckExitUnknown, CheckExitOK}

	// SeverityOrderUnknownFirst ranks UNKNOWN above WARNING, used by
	// probes where an unreadable element is worse than a degraded one.
	SeverityOrderUnknownFirst = []int64{CheckExitCritical, CheckExitUnknown, CheckExitWarning, CheckExitOK}
)

// WorstState picks the worst of the given states according to the
// precedence order. An empty state list yields OK.
func WorstState(order []int64, states ...int64) int64 {
	for _, severity := range order {
		for _, state := range states {
			if state == severity {
				return severity
			}
		}
	}

	return CheckExitOK
}

// EvaluatePlain implements the single-metric policy: plain numeric
// thresholds compared with >=, critical checked before warning. A metric
// without a numeric value yields UNKNOWN.
func EvaluatePlain(metric *MetricValue, warn, crit float64) int64 {
	if metric == nil || !metric.HasValue {
		return CheckExitUnknown
	}
	switch {
	case metric.Value >= crit:
		return CheckExitCritical
	case metric.Value >= warn:
		return CheckExitWarning
	default:
		return CheckExitOK
	}
}

// Judge applies range thresholds to one metric. Nil thresholds never
// alert.
func Judge(metric *MetricValue, warn, crit *threshold.Threshold) int64 {
	if metric == nil || !metric.HasValue {
		return CheckExitUnknown
	}
	if crit != nil && crit.AlertsFor(metric.Value) {
		return CheckExitCritical
	}
	if warn != nil && warn.AlertsFor(metric.Value) {
		return CheckExitWarning
	}

	return CheckExitOK
}

// CountThreshold is a threshold on a summed count, given either as an
// absolute number ("5") or as a percentage of a capacity figure ("10%").
type CountThreshold struct {
	input   string
	limit   float64
	percent bool
}

// NewCountThreshold parses a count threshold.
func NewCountThreshold(def string) (*CountThreshold, error) {
	def = strings.TrimSpace(def)
	raw := strings.TrimSuffix(def, "%")
	if raw == "" {
		return nil, fmt.Errorf("empty count threshold given")
	}
	limit, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("count threshold parse error: %s", err.Error())
	}

	return &CountThreshold{
		input:   def,
		limit:   limit,
		percent: raw != def,
	}, nil
}

// Exceeded tests the threshold against a value. Percentage thresholds
// relate the value to the capacity figure, an unusable capacity never
// triggers.
func (ct *CountThreshold) Exceeded(value, capacity float64) bool {
	if ct.percent {
		perc := utils.Percentage(value, capacity)
		if math.IsNaN(perc) {
			return false
		}

		return perc >= ct.limit
	}

	return value >= ct.limit
}

// String returns the original threshold notation.
func (ct *CountThreshold) String() string {
	return ct.input
}

// SummarizeOptions configures the sum/average aggregation policy.
type SummarizeOptions struct {
	// Average divides the sum by the number of usable metrics.
	Average bool

	// Capacity is the total figure percentage thresholds relate to.
	Capacity float64

	Warn *CountThreshold
	Crit *CountThreshold

	// Order is the severity precedence, SeverityOrderDefault when nil.
	Order []int64
}

// Summary is the outcome of a sum/average aggregation pass.
type Summary struct {
	State   int64
	Value   float64 // sum or average over the usable metrics
	Count   int     // number of usable metrics
	Unknown int     // metrics without a numeric value
}

// Summarize combines multiple metrics into one value and state. Metrics
// without a numeric value are counted into the unknown bucket instead of
// aborting the aggregation. Zero usable metrics yield UNKNOWN, never a
// division by zero.
func Summarize(metrics []*MetricValue, opts SummarizeOptions) Summary {
	res := Summary{}
	sum := float64(0)
	for _, metric := range metrics {
		if metric == nil || !metric.HasValue {
			res.Unknown++

			continue
		}
		sum += metric.Value
		res.Count++
	}

	if res.Count == 0 {
		res.State = CheckExitUnknown

		return res
	}

	res.Value = sum
	if opts.Average {
		res.Value = sum / float64(res.Count)
	}

	state := CheckExitOK
	switch {
	case opts.Crit != nil && opts.Crit.Exceeded(res.Value, opts.Capacity):
		state = CheckExitCritical
	case opts.Warn != nil && opts.Warn.Exceeded(res.Value, opts.Capacity):
		state = CheckExitWarning
	}

	order := opts.Order
	if order == nil {
		order = SeverityOrderDefault
	}
	if res.Unknown > 0 {
		state = WorstState(order, state, CheckExitUnknown)
	}
	res.State = state

	return res
}
