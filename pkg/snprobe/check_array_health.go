package snprobe

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/consol-monitoring/snprobe/pkg/convert"
)

func init() {
	AvailableChecks["check_array_health"] = CheckEntry{"check_array_health", NewCheckArrayHealth}
}

// health codes as reported by the array controller firmware
var arrayHealthStates = map[int64]int64{
	0: CheckExitUnknown,  // unknown
	1: CheckExitOK,       // ok
	2: CheckExitWarning,  // degraded
	3: CheckExitCritical, // fault
	4: CheckExitUnknown,  // n/a
}

var arrayHealthNames = map[int64]string{
	0: "unknown",
	1: "ok",
	2: "degraded",
	3: "fault",
	4: "n/a",
}

type CheckArrayHealth struct {
	hostname string
	port     int64
	username string
	password string
	insecure bool
	timeout  string
}

func NewCheckArrayHealth() CheckHandler {
	return &CheckArrayHealth{}
}

func (l *CheckArrayHealth) Build() *CheckData {
	l.port = 443

	return &CheckData{
		name:        "check_array_health",
		description: "Checks the component health of a storage array via its REST management api.",
		usage:       "check_array_health -H <hostname> -U <username> -P <password>",
		args: map[string]CheckArgument{
			"-H|--hostname": {value: &l.hostname, description: "Hostname or IP of the array management controller"},
			"-p|--port":     {value: &l.port, description: "HTTPS port of the management api (default: 443)"},
			"-U|--username": {value: &l.username, description: "Management api user"},
			"-P|--password": {value: &l.password, description: "Management api password"},
			"-k|--insecure": {value: &l.insecure, description: "Skip tls certificate verification"},
			"-t|--timeout":  {value: &l.timeout, description: "Request timeout, ex.: 30s"},
		},
	}
}

func (l *CheckArrayHealth) Check(ctx context.Context, snc *Agent, check *CheckData) (*CheckResult, error) {
	if l.hostname == "" {
		return nil, fmt.Errorf("no hostname given, use -H <hostname>")
	}
	if l.username == "" || l.password == "" {
		return nil, fmt.Errorf("management api credentials required, use -U <username> -P <password>")
	}
	if err := check.parseTimeoutArg(l.timeout); err != nil {
		return nil, err
	}

	source := NewHTTPSource(
		fmt.Sprintf("https://%s:%d", l.hostname, l.port),
		time.Duration(check.timeout*float64(time.Second)),
		l.insecure,
	)

	doc, err := l.fetchComponents(ctx, snc, source)
	if err != nil {
		return nil, err
	}

	return l.evaluate(doc)
}

// fetchComponents logs into the array (reusing a cached session key when
// fresh) and retrieves the component list. A session key rejected by the
// array is dropped and renewed once.
func (l *CheckArrayHealth) fetchComponents(ctx context.Context, snc *Agent, source *HTTPSource) (interface{}, error) {
	key := TicketKey(l.hostname, uint16(l.port), l.username)
	cached := false
	if token, ok := snc.Tickets().GetMaxAge(key, ArrayTicketMaxAge); ok {
		source.SetToken(token)
		cached = true
	} else if err := l.login(ctx, snc, source, key); err != nil {
		return nil, err
	}

	doc, err := source.FetchDocument(ctx, "/api/show/components")
	if err != nil && cached && SourceErrorIs(err, SourceAuthFailure) {
		// stale session key, renew and fetch again
		snc.Tickets().Drop(key)
		if err := l.login(ctx, snc, source, key); err != nil {
			return nil, err
		}
		doc, err = source.FetchDocument(ctx, "/api/show/components")
	}

	return doc, err
}

func (l *CheckArrayHealth) login(ctx context.Context, snc *Agent, source *HTTPSource, key string) error {
	token, err := source.Login(ctx, "/api/login",
		map[string]string{"username": l.username, "password": l.password},
		"sessionKey",
	)
	if err != nil {
		return err
	}
	source.SetToken(token)
	if err := snc.Tickets().Put(key, token); err != nil {
		log.Debugf("cannot cache session key: %s", err.Error())
	}

	return nil
}

func (l *CheckArrayHealth) evaluate(doc interface{}) (*CheckResult, error) {
	components, err := jsonPath(doc, "components")
	if err != nil {
		return nil, &SourceError{Kind: SourceMalformed, Query: "components", Err: err}
	}
	list, ok := components.([]interface{})
	if !ok {
		return nil, &SourceError{Kind: SourceMalformed, Query: "components", Err: fmt.Errorf("expected a list, got %T", components)}
	}
	if len(list) == 0 {
		return &CheckResult{
			State:  CheckExitUnknown,
			Output: "array reported no components",
		}, nil
	}

	states := make([]int64, 0, len(list))
	counts := map[int64]int64{}
	problems := []string{}
	for idx, entry := range list {
		name := fmt.Sprintf("component%d", idx)
		if raw, pErr := jsonPath(entry, "name"); pErr == nil {
			name = fmt.Sprintf("%v", raw)
		}

		state := CheckExitUnknown
		stateName := "unreadable"
		if raw, pErr := jsonPath(entry, "health"); pErr == nil {
			if code, cErr := convert.Int64E(raw); cErr == nil {
				if mapped, known := arrayHealthStates[code]; known {
					state = mapped
					stateName = arrayHealthNames[code]
				}
			}
		}

		states = append(states, state)
		counts[state]++
		if state != CheckExitOK {
			problems = append(problems, fmt.Sprintf("%s: %s", name, stateName))
		}
	}

	res := &CheckResult{
		// a component we cannot read outranks a merely degraded one
		State: WorstState(SeverityOrderUnknownFirst, states...),
	}
	if len(problems) > 0 {
		res.Output = strings.Join(problems, ", ")
	} else {
		res.Output = fmt.Sprintf("all %d components healthy", len(list))
	}
	res.Metrics = append(res.Metrics,
		&CheckMetric{Name: "components", Value: int64(len(list)), Min: &Zero},
		&CheckMetric{Name: "degraded", Value: counts[CheckExitWarning], Min: &Zero},
		&CheckMetric{Name: "failed", Value: counts[CheckExitCritical], Min: &Zero},
	)

	return res, nil
}
