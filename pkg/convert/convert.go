// Package convert normalizes the loosely typed values returned by SNMP
// varbinds, JSON documents and command output into the numeric types the
// probe framework works with.
package convert

import (
	"fmt"
	"strconv"
	"strings"
)

// Float64 converts anything into a float64, falling back to 0 on error.
func Float64(raw interface{}) float64 {
	val, _ := Float64E(raw)

	return val
}

// Float64E converts anything into a float64. SNMP varbinds deliver a mix
// of signed/unsigned integers and octet strings, JSON numbers arrive as
// float64 already.
func Float64E(raw interface{}) (float64, error) {
	switch val := raw.(type) {
	case float64:
		return val, nil
	case int:
		return float64(val), nil
	case int64:
		return float64(val), nil
	case uint:
		return float64(val), nil
	case uint32:
		return float64(val), nil
	case uint64:
		return float64(val), nil
	case []byte:
		return Float64E(string(val))
	case string:
		num, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, fmt.Errorf("cannot parse float64 value from %q", val)
		}

		return num, nil
	default:
		num, err := strconv.ParseFloat(fmt.Sprintf("%v", val), 64)
		if err != nil {
			return 0, fmt.Errorf("cannot parse float64 value from %v (%T)", raw, raw)
		}

		return num, nil
	}
}

// Int64 converts anything into an int64, falling back to 0 on error.
func Int64(raw interface{}) int64 {
	val, _ := Int64E(raw)

	return val
}

// Int64E converts anything into an int64.
func Int64E(raw interface{}) (int64, error) {
	switch val := raw.(type) {
	case int64:
		return val, nil
	case int:
		return int64(val), nil
	case uint:
		return int64(val), nil
	case uint32:
		return int64(val), nil
	case []byte:
		return Int64E(string(val))
	default:
		num, err := strconv.ParseInt(strings.TrimSpace(fmt.Sprintf("%v", val)), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("cannot parse int64 value from %v (%T)", raw, raw)
		}

		return num, nil
	}
}

// Bool converts anything into a bool, falling back to false on error.
func Bool(raw interface{}) bool {
	b, _ := BoolE(raw)

	return b
}

// BoolE converts anything into a bool.
func BoolE(raw interface{}) (bool, error) {
	if val, ok := raw.(bool); ok {
		return val, nil
	}
	switch strings.ToLower(fmt.Sprintf("%v", raw)) {
	case "1", "enable", "enabled", "true", "yes", "on":
		return true, nil
	case "0", "disable", "disabled", "false", "no", "off":
		return false, nil
	}

	return false, fmt.Errorf("cannot parse boolean value from %v (%T)", raw, raw)
}

// Num2String formats a number the way monitoring plugins expect it in
// perfdata: integral values without a decimal point, everything else in
// plain notation.
func Num2String(raw interface{}) string {
	s, _ := Num2StringE(raw)

	return s
}

// Num2StringE formats a number as perfdata string, errors are returned.
func Num2StringE(raw interface{}) (string, error) {
	switch num := raw.(type) {
	case float64:
		asFloat := strconv.FormatFloat(num, 'f', -1, 64)
		if asFloat != fmt.Sprintf("%d", int64(num)) {
			return asFloat, nil
		}

		return fmt.Sprintf("%d", int64(num)), nil
	case int64:
		return fmt.Sprintf("%d", num), nil
	default:
		fNum, err := Float64E(raw)
		if err != nil {
			return "", fmt.Errorf("cannot convert %v (%T) into string", raw, raw)
		}

		return Num2StringE(fNum)
	}
}

// StateString returns the text corresponding to a monitoring plugin exit code.
func StateString(state int64) string {
	switch state {
	case 0:
		return "OK"
	case 1:
		return "WARNING"
	case 2:
		return "CRITICAL"
	}

	return "UNKNOWN"
}
