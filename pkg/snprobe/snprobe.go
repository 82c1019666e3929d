// Package snprobe implements a family of monitoring probes for network
// devices and services. Each probe fetches health indicators over SNMP,
// HTTP or a wrapped command, compares them against configurable
// thresholds and produces a Nagios compatible result line plus exit code.
package snprobe

import (
	"context"
	"fmt"
	"os"
	"time"
)

const (
	// NAME contains the name of this program
	NAME = "snprobe"

	// VERSION contains the version string
	VERSION = "0.4.2"
)

// AgentFlags contains the command line flags shared by all subcommands.
type AgentFlags struct {
	ConfigFile string
	Verbose    int
	Quiet      bool
	Help       bool
	Version    bool
	LogLevel   string
	LogFormat  string
	LogFile    string
}

// Agent is the shared runtime for probe execution. A command line run
// uses a single throw-away agent, the server mode keeps one for all
// requests.
type Agent struct {
	flags   *AgentFlags
	config  *Config
	tickets *TicketCache
}

// NewAgent sets up logging, loads the optional device profile file and
// prepares the ticket cache.
func NewAgent(flags *AgentFlags) *Agent {
	snc := &Agent{
		flags:   flags,
		config:  NewConfig(),
		tickets: NewTicketCache("", DefaultTicketMaxAge),
	}
	snc.setupLogging()

	if flags.ConfigFile != "" {
		conf, err := ReadConfig(flags.ConfigFile)
		if err != nil {
			log.Errorf("reading config %s: %s", flags.ConfigFile, err.Error())
		} else {
			snc.config = conf
		}
	}

	return snc
}

func (snc *Agent) setupLogging() {
	level := snc.flags.LogLevel
	switch {
	case snc.flags.Quiet:
		level = "error"
	case snc.flags.Verbose == 1:
		level = "debug"
	case snc.flags.Verbose >= 2:
		level = "trace"
	case level == "":
		level = "info"
	}
	setLogLevel(level)
	if snc.flags.LogFormat != "" {
		log.SetFormatter(BuildFormatter(snc.flags.LogFormat))
	}
	setLogFile(snc.flags.LogFile)
}

// Config returns the loaded device profiles.
func (snc *Agent) Config() *Config {
	return snc.config
}

// Tickets returns the shared auth ticket cache.
func (snc *Agent) Tickets() *TicketCache {
	return snc.tickets
}

// RunCheck runs the named probe and always returns a result, mapping
// fatal errors to the UNKNOWN state.
func (snc *Agent) RunCheck(ctx context.Context, name string, args []string) *CheckResult {
	entry, ok := AvailableChecks[name]
	if !ok {
		return &CheckResult{
			State:  CheckExitUnknown,
			Output: fmt.Sprintf("no such check: %s", name),
		}
	}

	handler := entry.Handler()
	check := handler.Build()
	if check.timeout <= 0 {
		check.timeout = DefaultCheckTimeout
	}

	if err := check.parseArgs(args); err != nil {
		return &CheckResult{
			State:  CheckExitUnknown,
			Output: err.Error(),
		}
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(check.timeout*float64(time.Second)))
	defer cancel()

	startTime := time.Now()
	res, err := handler.Check(ctx, snc, check)
	log.Debugf("check %s finished in %s", name, time.Since(startTime))
	if err != nil {
		return &CheckResult{
			State:  CheckExitUnknown,
			Output: err.Error(),
		}
	}
	if res == nil {
		return &CheckResult{
			State:  CheckExitUnknown,
			Output: fmt.Sprintf("check %s did not return a result", name),
		}
	}

	return res
}

// PrintVersion prints the version.
func (snc *Agent) PrintVersion() {
	fmt.Fprintf(os.Stdout, "%s v%s\n", NAME, VERSION)
}
