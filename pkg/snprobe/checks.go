package snprobe

import "context"

// AvailableChecks contains all registered probes.
var AvailableChecks = make(map[string]CheckEntry)

// CheckHandler is a single probe implementation.
type CheckHandler interface {
	// Build returns the argument table and defaults for this probe.
	Build() *CheckData

	// Check runs the probe. It may return an error for fatal problems,
	// which the agent maps to the UNKNOWN state.
	Check(ctx context.Context, snc *Agent, check *CheckData) (*CheckResult, error)
}

// CheckEntry is a registry entry. Handler constructs a fresh probe
// instance per run, probes carry per-run state in their struct fields.
type CheckEntry struct {
	Name    string
	Handler func() CheckHandler
}
