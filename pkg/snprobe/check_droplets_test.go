package snprobe

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dropletsDoc(t *testing.T, raw string) interface{} {
	t.Helper()

	var doc interface{}
	require.NoErrorf(t, json.Unmarshal([]byte(raw), &doc), "test document parses")

	return doc
}

func TestCheckDropletsEvaluate(t *testing.T) {
	t.Parallel()

	check := &CheckDroplets{}
	check.Build()

	doc := dropletsDoc(t, `{"droplets":[
		{"name":"web1","status":"active"},
		{"name":"web2","status":"active"},
		{"name":"db1","status":"active"},
		{"name":"batch","status":"off"}
	]}`)

	// one offline of four: over the absolute warning of 1, the default
	// critical of 25% matches exactly as well
	res, err := check.evaluate(doc)
	require.NoErrorf(t, err, "evaluate succeeds")
	assert.Equalf(t, CheckExitCritical, res.State, "25 percent offline hits the critical")
	assert.Equalf(t, "3 of 4 droplets running, 1 offline", res.Output, "summary output")
	require.Lenf(t, res.Metrics, 3, "total, active and offline metrics")
	assert.Equalf(t, "'offline'=1;1;25%;0", res.Metrics[2].String(), "offline perfdata")
}

func TestCheckDropletsEvaluateWarning(t *testing.T) {
	t.Parallel()

	check := &CheckDroplets{}
	check.Build()
	check.critical = "50%"

	doc := dropletsDoc(t, `{"droplets":[
		{"name":"web1","status":"active"},
		{"name":"web2","status":"active"},
		{"name":"db1","status":"active"},
		{"name":"batch","status":"off"}
	]}`)

	res, err := check.evaluate(doc)
	require.NoErrorf(t, err, "evaluate succeeds")
	assert.Equalf(t, CheckExitWarning, res.State, "one offline droplet warns")
}

func TestCheckDropletsEvaluateAllRunning(t *testing.T) {
	t.Parallel()

	check := &CheckDroplets{}
	check.Build()

	doc := dropletsDoc(t, `{"droplets":[
		{"name":"web1","status":"active"},
		{"name":"web2","status":"active"}
	]}`)

	res, err := check.evaluate(doc)
	require.NoErrorf(t, err, "evaluate succeeds")
	assert.Equalf(t, CheckExitOK, res.State, "all droplets running")
	assert.Equalf(t, "2 of 2 droplets running, 0 offline", res.Output, "summary output")
}

func TestCheckDropletsEvaluateMissingStatus(t *testing.T) {
	t.Parallel()

	check := &CheckDroplets{}
	check.Build()

	doc := dropletsDoc(t, `{"droplets":[
		{"name":"web1","status":"active"},
		{"name":"web2"}
	]}`)

	res, err := check.evaluate(doc)
	require.NoErrorf(t, err, "evaluate succeeds")
	assert.Equalf(t, CheckExitUnknown, res.State, "a droplet without status degrades to unknown")
}

func TestCheckDropletsEvaluateMalformed(t *testing.T) {
	t.Parallel()

	check := &CheckDroplets{}
	check.Build()

	_, err := check.evaluate(dropletsDoc(t, `{"meta":{}}`))
	require.Errorf(t, err, "document without droplet list")
	assert.Truef(t, SourceErrorIs(err, SourceMalformed), "malformed kind")

	res, err := check.evaluate(dropletsDoc(t, `{"droplets":[]}`))
	require.NoErrorf(t, err, "empty droplet list is not an error")
	assert.Equalf(t, CheckExitUnknown, res.State, "but it is unknown")
	assert.Equalf(t, "no droplet status retrievable", res.Output, "summary output")
}

func TestCheckDropletsBadThreshold(t *testing.T) {
	t.Parallel()

	check := &CheckDroplets{}
	check.Build()
	check.warning = "some"

	_, err := check.evaluate(dropletsDoc(t, `{"droplets":[]}`))
	require.Errorf(t, err, "unparsable threshold")
	assert.Containsf(t, err.Error(), "warning", "error names the argument")
}
