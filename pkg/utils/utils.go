// Package utils bundles small helpers shared by the probe framework.
package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// ExpandDuration expands a duration string like "30s", "5m" or "1h" into
// seconds. Plain numbers are taken as seconds already.
func ExpandDuration(val string) (res float64, err error) {
	var num float64

	factors := []struct {
		suffix string
		factor float64
	}{
		{"ms", 0.001},
		{"s", 1},
		{"m", 60},
		{"h", 3600},
		{"d", 86400},
	}

	for _, f := range factors {
		if strings.HasSuffix(val, f.suffix) {
			num, err = strconv.ParseFloat(strings.TrimSuffix(val, f.suffix), 64)
			if err != nil {
				return 0, fmt.Errorf("expandDuration: %s", err.Error())
			}

			return num * f.factor, nil
		}
	}

	if IsDigitsOnly(val) {
		num, err = strconv.ParseFloat(val, 64)
		if err != nil {
			return 0, fmt.Errorf("expandDuration: %s", err.Error())
		}

		return num, nil
	}

	return 0, fmt.Errorf("expandDuration: cannot parse duration from %q", val)
}

// IsDigitsOnly returns true if the string consists of digits (and an
// optional leading sign or decimal point) only.
func IsDigitsOnly(str string) bool {
	if str == "" {
		return false
	}
	for i, c := range str {
		if unicode.IsDigit(c) {
			continue
		}
		if c == '-' && i == 0 {
			continue
		}
		if c == '.' {
			continue
		}

		return false
	}

	return true
}

// ToPrecision rounds a float to the given number of decimals.
func ToPrecision(val float64, precision int) float64 {
	format := fmt.Sprintf("%%.%df", precision)
	valStr := fmt.Sprintf(format, val)
	short, _ := strconv.ParseFloat(valStr, 64)

	return short
}

// Percentage expresses part as a percentage of total, guarded against a
// zero total.
func Percentage(part, total float64) float64 {
	if total <= 0 {
		return math.NaN()
	}

	return part / total * 100
}
