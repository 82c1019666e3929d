package snprobe

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/consol-monitoring/snprobe/pkg/snmpconn"
	"github.com/gosnmp/gosnmp"
)

// SNMPSource fetches metrics via SNMP GET and WALK requests. It connects
// lazily on the first fetch and reuses the session for the remainder of
// the probe run. Timeout and retry policy live in the security context,
// the source never retries on its own.
type SNMPSource struct {
	secCtx *snmpconn.SecurityContext
	conn   *gosnmp.GoSNMP
}

// NewSNMPSource creates a source for the given resolved security context.
func NewSNMPSource(secCtx *snmpconn.SecurityContext) *SNMPSource {
	return &SNMPSource{secCtx: secCtx}
}

func (s *SNMPSource) connect() error {
	if s.conn != nil {
		return nil
	}
	conn, err := s.secCtx.Session()
	if err != nil {
		return &SourceError{Kind: classifyErr(err), Query: s.secCtx.Host, Err: err}
	}
	s.conn = conn

	return nil
}

// Close shuts down the underlying session.
func (s *SNMPSource) Close() {
	if s.conn != nil {
		s.conn.Conn.Close()
		s.conn = nil
	}
}

// Fetch retrieves a single OID.
func (s *SNMPSource) Fetch(ctx context.Context, query Query) (*MetricValue, error) {
	if err := ctx.Err(); err != nil {
		return nil, &SourceError{Kind: SourceTimeout, Query: query.OID, Err: err}
	}
	if err := s.connect(); err != nil {
		return nil, err
	}

	log.Tracef("snmp get %s %s", s.secCtx.Host, query.OID)
	packet, err := s.conn.Get([]string{query.OID})
	if err != nil {
		return nil, &SourceError{Kind: classifyErr(err), Query: query.OID, Err: err}
	}
	if len(packet.Variables) == 0 {
		return nil, &SourceError{Kind: SourceMalformed, Query: query.OID, Err: errors.New("empty response")}
	}

	pdu := packet.Variables[0]
	if !pduExists(pdu) {
		return nil, &SourceError{Kind: SourceNotFound, Query: query.OID}
	}

	return NewMetricValue(query.Metric, pduValue(pdu)), nil
}

// Walk enumerates all instances below the given OID. The metric names
// are the index suffixes relative to the base OID.
func (s *SNMPSource) Walk(ctx context.Context, baseOID string) ([]*MetricValue, error) {
	if err := ctx.Err(); err != nil {
		return nil, &SourceError{Kind: SourceTimeout, Query: baseOID, Err: err}
	}
	if err := s.connect(); err != nil {
		return nil, err
	}

	log.Tracef("snmp walk %s %s", s.secCtx.Host, baseOID)
	var pdus []gosnmp.SnmpPDU
	var err error
	if s.secCtx.Version == "1" {
		pdus, err = s.conn.WalkAll(baseOID)
	} else {
		pdus, err = s.conn.BulkWalkAll(baseOID)
	}
	if err != nil {
		return nil, &SourceError{Kind: classifyErr(err), Query: baseOID, Err: err}
	}

	metrics := make([]*MetricValue, 0, len(pdus))
	for i := range pdus {
		pdu := pdus[i]
		if !pduExists(pdu) {
			continue
		}
		name := strings.TrimPrefix(strings.TrimPrefix(pdu.Name, baseOID), ".")
		metrics = append(metrics, NewMetricValue(name, pduValue(pdu)))
	}

	return metrics, nil
}

func pduExists(pdu gosnmp.SnmpPDU) bool {
	switch pdu.Type {
	case gosnmp.NoSuchObject, gosnmp.NoSuchInstance, gosnmp.EndOfMibView, gosnmp.Null:
		return false
	default:
		return true
	}
}

func pduValue(pdu gosnmp.SnmpPDU) interface{} {
	if raw, ok := pdu.Value.([]byte); ok {
		return string(raw)
	}

	return pdu.Value
}

func classifyErr(err error) SourceErrorKind {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return SourceTimeout
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timeout"):
		return SourceTimeout
	case strings.Contains(msg, "authentic"),
		strings.Contains(msg, "authentication"),
		strings.Contains(msg, "unknown user"),
		strings.Contains(msg, "usm"):
		return SourceAuthFailure
	case strings.Contains(msg, "no such"),
		strings.Contains(msg, "nosuch"):
		return SourceNotFound
	default:
		return SourceMalformed
	}
}
