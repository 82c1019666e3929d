package snprobe

import (
	"context"
	"errors"
	"fmt"

	"github.com/consol-monitoring/snprobe/pkg/convert"
)

// MetricValue is a single retrieved sample. Sources deliver text, the
// numeric interpretation is attempted once at construction and probes
// check HasValue before using Value.
type MetricValue struct {
	Name     string
	Raw      string
	Value    float64
	HasValue bool
}

// NewMetricValue builds a MetricValue from a raw source value.
func NewMetricValue(name string, raw interface{}) *MetricValue {
	metric := &MetricValue{
		Name: name,
		Raw:  fmt.Sprintf("%v", raw),
	}
	if num, err := convert.Float64E(raw); err == nil {
		metric.Value = num
		metric.HasValue = true
	}

	return metric
}

// Query identifies one value to fetch. Each source only interprets the
// fields it understands.
type Query struct {
	Metric   string   // logical metric name
	OID      string   // SNMP object identifier
	Endpoint string   // HTTP path relative to the source base url
	Path     string   // dotted path into a JSON document
	Command  []string // command line for exec sources
}

// MetricSource abstracts "fetch one named value from a target". The
// probe drivers never talk to the network directly, they go through
// this capability so the evaluation logic stays testable offline.
type MetricSource interface {
	Fetch(ctx context.Context, query Query) (*MetricValue, error)
}

// MetricWalker is implemented by sources that can enumerate a value
// subtree, one MetricValue per discovered instance.
type MetricWalker interface {
	Walk(ctx context.Context, baseOID string) ([]*MetricValue, error)
}

// SourceErrorKind classifies fetch failures.
type SourceErrorKind uint8

const (
	// SourceTimeout means no response arrived within the configured policy.
	SourceTimeout SourceErrorKind = iota + 1

	// SourceAuthFailure means the target rejected the credentials.
	SourceAuthFailure

	// SourceNotFound means the queried value does not exist on the target.
	SourceNotFound

	// SourceMalformed means the target answered with something unparsable.
	SourceMalformed
)

func (k SourceErrorKind) String() string {
	switch k {
	case SourceTimeout:
		return "timeout"
	case SourceAuthFailure:
		return "authentication failure"
	case SourceNotFound:
		return "not found"
	case SourceMalformed:
		return "malformed response"
	}

	return "unknown"
}

// SourceError is a typed fetch failure.
type SourceError struct {
	Kind  SourceErrorKind
	Query string
	Err   error
}

func (e *SourceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Query, e.Err.Error())
	}

	return fmt.Sprintf("%s: %s", e.Kind, e.Query)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// SourceErrorIs tests whether err is a SourceError of the given kind.
func SourceErrorIs(err error, kind SourceErrorKind) bool {
	var srcErr *SourceError
	if errors.As(err, &srcErr) {
		return srcErr.Kind == kind
	}

	return false
}
