package snprobe

import (
	"context"
	"fmt"
	"time"
)

func init() {
	AvailableChecks["check_droplets"] = CheckEntry{"check_droplets", NewCheckDroplets}
}

type CheckDroplets struct {
	apiURL   string
	apiKey   string
	insecure bool
	timeout  string
	warning  string
	critical string
}

func NewCheckDroplets() CheckHandler {
	return &CheckDroplets{}
}

func (l *CheckDroplets) Build() *CheckData {
	l.warning = "1"
	l.critical = "25%"

	return &CheckData{
		name:        "check_droplets",
		description: "Checks how many droplets of a cloud project are not running.",
		usage:       "check_droplets --api-key <key> [-w <count|percent>] [-c <count|percent>]",
		args: map[string]CheckArgument{
			"--api-url":     {value: &l.apiURL, description: "Base url of the cloud api"},
			"--api-key":     {value: &l.apiKey, description: "Api key used to obtain a session token"},
			"-k|--insecure": {value: &l.insecure, description: "Skip tls certificate verification"},
			"-t|--timeout":  {value: &l.timeout, description: "Request timeout, ex.: 30s"},
			"-w|--warning":  {value: &l.warning, description: "Warning when this many droplets are offline, absolute or percent (default: 1)"},
			"-c|--critical": {value: &l.critical, description: "Critical when this many droplets are offline, absolute or percent (default: 25%)"},
		},
	}
}

func (l *CheckDroplets) Check(ctx context.Context, snc *Agent, check *CheckData) (*CheckResult, error) {
	if l.apiKey == "" {
		return nil, fmt.Errorf("no api key given, use --api-key <key>")
	}
	if l.apiURL == "" {
		return nil, fmt.Errorf("no api url given, use --api-url <url>")
	}
	if err := check.parseTimeoutArg(l.timeout); err != nil {
		return nil, err
	}

	source := NewHTTPSource(l.apiURL, time.Duration(check.timeout*float64(time.Second)), l.insecure)
	if err := l.authenticate(ctx, snc, source); err != nil {
		return nil, err
	}

	doc, err := source.FetchDocument(ctx, "/v2/droplets")
	if err != nil {
		return nil, err
	}

	return l.evaluate(doc)
}

// authenticate exchanges the api key for a session token, kept in the
// ticket cache for its one hour freshness window.
func (l *CheckDroplets) authenticate(ctx context.Context, snc *Agent, source *HTTPSource) error {
	key := TicketKey(l.apiURL, 0, l.apiKey)
	if token, ok := snc.Tickets().GetMaxAge(key, DefaultTicketMaxAge); ok {
		source.SetToken(token)

		return nil
	}

	token, err := source.Login(ctx, "/v2/auth/session",
		map[string]string{"api_key": l.apiKey},
		"session.token",
	)
	if err != nil {
		return err
	}
	source.SetToken(token)
	if err := snc.Tickets().Put(key, token); err != nil {
		log.Debugf("cannot cache session token: %s", err.Error())
	}

	return nil
}

func (l *CheckDroplets) evaluate(doc interface{}) (*CheckResult, error) {
	warn, err := NewCountThreshold(l.warning)
	if err != nil {
		return nil, fmt.Errorf("warning: %s", err.Error())
	}
	crit, err := NewCountThreshold(l.critical)
	if err != nil {
		return nil, fmt.Errorf("critical: %s", err.Error())
	}

	raw, err := jsonPath(doc, "droplets")
	if err != nil {
		return nil, &SourceError{Kind: SourceMalformed, Query: "droplets", Err: err}
	}
	list, ok := raw.([]interface{})
	if !ok {
		return nil, &SourceError{Kind: SourceMalformed, Query: "droplets", Err: fmt.Errorf("expected a list, got %T", raw)}
	}

	// one pseudo metric per droplet: 1 = offline, 0 = running
	perDroplet := make([]*MetricValue, 0, len(list))
	active := int64(0)
	for idx, entry := range list {
		status, pErr := jsonPath(entry, "status")
		if pErr != nil {
			perDroplet = append(perDroplet, &MetricValue{Name: fmt.Sprintf("droplet%d", idx)})

			continue
		}
		offline := float64(1)
		if fmt.Sprintf("%v", status) == "active" {
			offline = 0
			active++
		}
		perDroplet = append(perDroplet, &MetricValue{
			Name:     fmt.Sprintf("droplet%d", idx),
			Raw:      fmt.Sprintf("%v", status),
			Value:    offline,
			HasValue: true,
		})
	}

	summary := Summarize(perDroplet, SummarizeOptions{
		Capacity: float64(len(list)),
		Warn:     warn,
		Crit:     crit,
	})

	res := &CheckResult{State: summary.State}
	if summary.Count == 0 {
		res.Output = "no droplet status retrievable"

		return res, nil
	}

	res.Output = fmt.Sprintf("%d of %d droplets running, %d offline", active, len(list), int64(summary.Value))
	res.Metrics = append(res.Metrics,
		&CheckMetric{Name: "total", Value: int64(len(list)), Min: &Zero},
		&CheckMetric{Name: "active", Value: active, Min: &Zero},
		&CheckMetric{
			Name:        "offline",
			Value:       int64(summary.Value),
			WarningStr:  warn.String(),
			CriticalStr: crit.String(),
			Min:         &Zero,
		},
	)

	return res, nil
}
