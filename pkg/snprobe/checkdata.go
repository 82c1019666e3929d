package snprobe

import (
	"fmt"
	"sort"
	"strings"

	"github.com/consol-monitoring/snprobe/pkg/convert"
	"github.com/consol-monitoring/snprobe/pkg/utils"
)

// DefaultCheckTimeout is the per-run timeout in seconds unless a probe
// overrides it.
var DefaultCheckTimeout = float64(30)

// variables to use in metric min/max fields
var (
	Zero    = float64(0)
	Hundred = float64(100)
)

// CommaStringList is a flag value holding comma separated strings.
type CommaStringList []string

// CheckArgument describes one command line argument of a probe.
type CheckArgument struct {
	value       interface{} // pointer into the probe struct
	description string      // used in help
}

// CheckData contains the runtime data of a generic probe.
type CheckData struct {
	name            string
	description     string
	usage           string
	args            map[string]CheckArgument
	rawArgs         []string
	argsPassthrough bool // keep unknown arguments instead of complaining
	timeout         float64
}

// parseArgs fills the probe argument pointers from the given command
// line. Arguments are accepted as "--key value", "-k value" and
// "key=value", matching what monitoring servers put into command
// definitions.
func (cd *CheckData) parseArgs(args []string) error {
	lookup := make(map[string]CheckArgument)
	for keys, arg := range cd.args {
		for _, key := range strings.Split(keys, "|") {
			lookup[key] = arg
		}
	}

	for pos := 0; pos < len(args); pos++ {
		raw := args[pos]
		key, val, hasVal := strings.Cut(raw, "=")
		entry, ok := lookup[key]
		if !ok {
			if cd.argsPassthrough {
				cd.rawArgs = append(cd.rawArgs, raw)

				continue
			}

			return fmt.Errorf("unknown argument: %s, %s", key, cd.usageHint())
		}

		// boolean flags do not consume a value
		if boolVal, isBool := entry.value.(*bool); isBool {
			if !hasVal {
				*boolVal = true

				continue
			}
			parsed, err := convert.BoolE(val)
			if err != nil {
				return fmt.Errorf("argument %s: %s", key, err.Error())
			}
			*boolVal = parsed

			continue
		}

		if !hasVal {
			pos++
			if pos >= len(args) {
				return fmt.Errorf("argument %s requires a value, %s", key, cd.usageHint())
			}
			val = args[pos]
		}

		if err := cd.setArgValue(key, entry, val); err != nil {
			return err
		}
	}

	return nil
}

func (cd *CheckData) setArgValue(key string, entry CheckArgument, val string) error {
	switch ptr := entry.value.(type) {
	case *string:
		*ptr = val
	case *float64:
		num, err := convert.Float64E(val)
		if err != nil {
			return fmt.Errorf("argument %s: %s", key, err.Error())
		}
		*ptr = num
	case *int64:
		num, err := convert.Int64E(val)
		if err != nil {
			return fmt.Errorf("argument %s: %s", key, err.Error())
		}
		*ptr = num
	case *CommaStringList:
		*ptr = strings.Split(val, ",")
	default:
		return fmt.Errorf("unsupported argument type %T for %s", entry.value, key)
	}

	return nil
}

// parseTimeoutArg expands a duration argument like "30s" into seconds,
// keeping the default when empty.
func (cd *CheckData) parseTimeoutArg(val string) error {
	if val == "" {
		return nil
	}
	seconds, err := utils.ExpandDuration(val)
	if err != nil {
		return fmt.Errorf("timeout: %s", err.Error())
	}
	cd.timeout = seconds

	return nil
}

func (cd *CheckData) usageHint() string {
	if cd.usage != "" {
		return fmt.Sprintf("usage: %s", cd.usage)
	}

	return fmt.Sprintf("see '%s --help'", cd.name)
}

// Help returns the argument description block for this probe.
func (cd *CheckData) Help() string {
	res := strings.Builder{}
	res.WriteString(fmt.Sprintf("%s - %s\n", cd.name, cd.description))
	if cd.usage != "" {
		res.WriteString(fmt.Sprintf("usage: %s\n", cd.usage))
	}
	keys := make([]string, 0, len(cd.args))
	for key := range cd.args {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		res.WriteString(fmt.Sprintf("  %-28s %s\n", key, cd.args[key].description))
	}

	return res.String()
}
