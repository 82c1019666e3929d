// Package threshold implements the compact range-threshold notation used
// by monitoring plugins: https://www.monitoring-plugins.org/doc/guidelines.html#THRESHOLDFORMAT
package threshold

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Threshold is a parsed range expression. A value alerts when it lies
// outside [lower, upper], or inside the closed range when inverted.
type Threshold struct {
	input    string
	lower    float64
	upper    float64
	inverted bool
}

var (
	regexNumber  = `(-?\d+(\.\d+)?)`
	regexEndOnly = regexp.MustCompile(fmt.Sprintf(`^%s$`, regexNumber))
	regexRange   = regexp.MustCompile(fmt.Sprintf(`^(~|%s):(%s)?$`, regexNumber, regexNumber))

	// ErrStartAfterEnd is returned when the range start exceeds the range end
	ErrStartAfterEnd = errors.New("range start is bigger than range end")
)

// NewThreshold parses a range expression. Supported forms are "N",
// "start:", "start:end" and "~:end", each with an optional leading "@"
// inverting the alert condition. Fractional numbers are accepted and
// truncated to their integer part.
func NewThreshold(def string) (*Threshold, error) {
	def = strings.TrimSpace(def)
	if def == "" {
		return nil, fmt.Errorf("empty threshold given")
	}

	expr := def
	inverted := false
	if strings.HasPrefix(expr, "@") {
		inverted = true
		expr = expr[1:]
	}

	// bare number is shorthand for "~:N"
	if endOnly := regexEndOnly.FindString(expr); endOnly != "" {
		upper, err := parseBound(endOnly)
		if err != nil {
			return nil, err
		}

		return &Threshold{input: def, lower: math.Inf(-1), upper: upper, inverted: inverted}, nil
	}

	match := regexRange.FindStringSubmatch(expr)
	if match == nil {
		return nil, fmt.Errorf("unsupported threshold syntax: %s", def)
	}

	lower := math.Inf(-1)
	if match[1] != "~" {
		num, err := parseBound(match[1])
		if err != nil {
			return nil, err
		}
		lower = num
	}

	upper := math.Inf(1)
	if match[4] != "" {
		num, err := parseBound(match[4])
		if err != nil {
			return nil, err
		}
		upper = num
	}

	if lower > upper {
		return nil, ErrStartAfterEnd
	}

	return &Threshold{input: def, lower: lower, upper: upper, inverted: inverted}, nil
}

// AlertsFor returns true when the given value triggers the alert
// condition of this threshold.
func (t *Threshold) AlertsFor(value float64) bool {
	if t.inverted {
		return value >= t.lower && value <= t.upper
	}

	return value > t.upper || value < t.lower
}

// String returns the original range expression.
func (t Threshold) String() string {
	return t.input
}

func parseBound(str string) (float64, error) {
	num, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return 0, fmt.Errorf("threshold parse error: %s", err.Error())
	}

	return math.Trunc(num), nil
}
