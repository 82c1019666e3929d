package snprobe

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// ExecSource wraps an external helper tool as a metric source. The
// resulting value is the command runtime in seconds, the raw field holds
// the first line of output. A non-zero exit maps to an auth failure,
// which matches the behaviour of the wrapped credential test tools.
type ExecSource struct{}

// NewExecSource creates an exec backed source.
func NewExecSource() *ExecSource {
	return &ExecSource{}
}

// Fetch runs the command from the query and measures its runtime.
func (s *ExecSource) Fetch(ctx context.Context, query Query) (*MetricValue, error) {
	if len(query.Command) == 0 {
		return nil, &SourceError{Kind: SourceMalformed, Query: query.Metric, Err: errors.New("empty command")}
	}

	cmdName := query.Command[0]
	log.Debugf("exec %s", strings.Join(query.Command, " "))

	startTime := time.Now()
	cmd := exec.CommandContext(ctx, cmdName, query.Command[1:]...)
	output, err := cmd.CombinedOutput()
	elapsed := time.Since(startTime)

	firstLine, _, _ := strings.Cut(strings.TrimSpace(string(output)), "\n")

	switch {
	case ctx.Err() != nil:
		return nil, &SourceError{Kind: SourceTimeout, Query: cmdName, Err: ctx.Err()}
	case err != nil:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, &SourceError{
				Kind:  SourceAuthFailure,
				Query: cmdName,
				Err:   fmt.Errorf("exit code %d: %s", exitErr.ExitCode(), firstLine),
			}
		}

		return nil, &SourceError{Kind: SourceMalformed, Query: cmdName, Err: err}
	}

	metric := &MetricValue{
		Name:     query.Metric,
		Raw:      firstLine,
		Value:    elapsed.Seconds(),
		HasValue: true,
	}

	return metric, nil
}
