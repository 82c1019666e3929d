package snprobe

import (
	"fmt"
	"os"
	"strings"

	"github.com/kdar/factorlog"
)

// log level verbosity values
const (
	LogVerbosityNone    = 0
	LogVerbosityDefault = 1
	LogVerbosityDebug   = 2
	LogVerbosityTrace   = 3

	// LogColors sets colors for some log levels
	LogColors = `%{Color "yellow+b" "WARN"}` +
		`%{Color "red+b" "ERROR"}` +
		`%{Color "red+b" "FATAL"}` +
		`%{Color "white+b" "INFO"}` +
		`%{Color "white" "DEBUG"}` +
		`%{Color "white" "TRACE"}`

	// LogColorReset resets colors from LogColors
	LogColorReset = `%{Color "reset"}`
)

var (
	DateTimeLogFormat = `[%{Date} %{Time "15:04:05.000"}]`
	LogFormat         = `[%{Severity}][%{ShortFile}:%{Line}] %{Message}`

	log = factorlog.New(os.Stderr, BuildFormatter(DateTimeLogFormat+LogFormat))
)

func setLogLevel(level string) {
	switch strings.ToLower(level) {
	case "off":
		log.SetMinMaxSeverity(factorlog.StringToSeverity("PANIC"), factorlog.StringToSeverity("PANIC"))
		log.SetVerbosity(LogVerbosityNone)
	case "error", "info":
		log.SetMinMaxSeverity(factorlog.StringToSeverity(strings.ToUpper(level)), factorlog.StringToSeverity("PANIC"))
		log.SetVerbosity(LogVerbosityDefault)
	case "debug":
		log.SetMinMaxSeverity(factorlog.StringToSeverity("DEBUG"), factorlog.StringToSeverity("PANIC"))
		log.SetVerbosity(LogVerbosityDebug)
	case "trace":
		log.SetMinMaxSeverity(factorlog.StringToSeverity("TRACE"), factorlog.StringToSeverity("PANIC"))
		log.SetVerbosity(LogVerbosityTrace)
	case "":
	default:
		log.Errorf("unknown log level: %s", level)
	}
}

func setLogFile(file string) {
	switch file {
	case "", "stderr":
		log.SetOutput(os.Stderr)
	case "stdout":
		log.SetOutput(os.Stdout)
	default:
		fh, err := os.OpenFile(file, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0o644)
		if err != nil {
			log.Errorf("failed to open logfile %s: %s", file, err.Error())

			return
		}
		log.SetOutput(fh)
	}
}

// BuildFormatter creates a formatter from the logformat string
func BuildFormatter(format string) *factorlog.StdFormatter {
	format = strings.ReplaceAll(format, "%{Pid}", fmt.Sprintf("%d", os.Getpid()))

	return factorlog.NewStdFormatter(format)
}
