package snprobe

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAgent(t *testing.T) *Agent {
	t.Helper()

	snc := NewAgent(&AgentFlags{Quiet: true})
	snc.tickets = NewTicketCache(t.TempDir(), DefaultTicketMaxAge)

	return snc
}

func TestRunCheckUnknownName(t *testing.T) {
	snc := testAgent(t)

	res := snc.RunCheck(context.Background(), "check_nonexistent", nil)
	require.NotNilf(t, res, "always returns a result")
	assert.Equalf(t, CheckExitUnknown, res.State, "unknown check is unknown")
	assert.Equalf(t, "no such check: check_nonexistent", res.Output, "output names the check")
}

func TestRunCheckBadArguments(t *testing.T) {
	snc := testAgent(t)

	res := snc.RunCheck(context.Background(), "check_pdu_load", []string{"--bogus"})
	require.NotNilf(t, res, "always returns a result")
	assert.Equalf(t, CheckExitUnknown, res.State, "argument errors are unknown")
	assert.Containsf(t, res.Output, "unknown argument: --bogus", "output names the argument")
}

func TestRunCheckMissingHostname(t *testing.T) {
	snc := testAgent(t)

	res := snc.RunCheck(context.Background(), "check_pdu_load", nil)
	require.NotNilf(t, res, "always returns a result")
	assert.Equalf(t, CheckExitUnknown, res.State, "missing hostname is unknown")
	assert.Containsf(t, res.Output, "hostname", "output names the missing flag")
}

func TestAvailableChecksRegistered(t *testing.T) {
	for _, name := range []string{
		"check_pdu_load",
		"check_fw_temp",
		"check_array_health",
		"check_radius",
		"check_pbx_channels",
		"check_droplets",
		"check_wlc_clients",
	} {
		entry, ok := AvailableChecks[name]
		require.Truef(t, ok, "%s is registered", name)

		check := entry.Handler().Build()
		assert.Equalf(t, name, check.name, "probe name matches the registry key")
		assert.NotEmptyf(t, check.description, "%s has a description", name)
	}
}
