package snprobe

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// HTTPSource fetches metrics from JSON REST endpoints. Probes using
// session based APIs obtain a token via Login (usually through the
// ticket cache) before fetching.
type HTTPSource struct {
	baseURL string
	client  *http.Client
	token   string
}

// NewHTTPSource creates a source for the given base url.
func NewHTTPSource(baseURL string, timeout time.Duration, insecure bool) *HTTPSource {
	if timeout <= 0 {
		timeout = time.Duration(DefaultCheckTimeout) * time.Second
	}

	return &HTTPSource{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: insecure}, //nolint:gosec // self-signed device certificates are the norm here
				Dial: (&net.Dialer{
					Timeout: timeout,
				}).Dial,
				ResponseHeaderTimeout: timeout,
				TLSHandshakeTimeout:   timeout,
			},
		},
	}
}

// SetToken installs a bearer token used for all subsequent requests.
func (s *HTTPSource) SetToken(token string) {
	s.token = token
}

// Fetch retrieves one value out of a JSON endpoint, addressed by a
// dotted path like "system.health.status".
func (s *HTTPSource) Fetch(ctx context.Context, query Query) (*MetricValue, error) {
	doc, err := s.FetchDocument(ctx, query.Endpoint)
	if err != nil {
		return nil, err
	}

	raw, err := jsonPath(doc, query.Path)
	if err != nil {
		return nil, &SourceError{Kind: SourceNotFound, Query: query.Endpoint + "#" + query.Path, Err: err}
	}

	return NewMetricValue(query.Metric, raw), nil
}

// FetchDocument retrieves and decodes a whole JSON endpoint. Probes that
// need several values or arrays from one response use this directly.
func (s *HTTPSource) FetchDocument(ctx context.Context, endpoint string) (interface{}, error) {
	body, err := s.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var doc interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, &SourceError{Kind: SourceMalformed, Query: endpoint, Err: err}
	}

	return doc, nil
}

// Login posts the given payload to an authentication endpoint and
// extracts the session token from the response.
func (s *HTTPSource) Login(ctx context.Context, endpoint string, payload map[string]string, tokenPath string) (string, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding login payload: %s", err.Error())
	}

	body, err := s.do(ctx, http.MethodPost, endpoint, encoded)
	if err != nil {
		return "", err
	}

	var doc interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return "", &SourceError{Kind: SourceMalformed, Query: endpoint, Err: err}
	}

	token, err := jsonPath(doc, tokenPath)
	if err != nil {
		return "", &SourceError{Kind: SourceAuthFailure, Query: endpoint, Err: err}
	}

	return fmt.Sprintf("%v", token), nil
}

func (s *HTTPSource) do(ctx context.Context, method, endpoint string, payload []byte) ([]byte, error) {
	url := s.baseURL + endpoint
	var reqBody io.Reader = http.NoBody
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, &SourceError{Kind: SourceMalformed, Query: url, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	log.Tracef("http %s %s", method, url)
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &SourceError{Kind: classifyHTTPErr(err), Query: url, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, &SourceError{Kind: SourceAuthFailure, Query: url, Err: fmt.Errorf("http %d", resp.StatusCode)}
	case resp.StatusCode == http.StatusNotFound:
		return nil, &SourceError{Kind: SourceNotFound, Query: url, Err: fmt.Errorf("http %d", resp.StatusCode)}
	case resp.StatusCode != http.StatusOK:
		return nil, &SourceError{Kind: SourceMalformed, Query: url, Err: fmt.Errorf("http %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &SourceError{Kind: SourceMalformed, Query: url, Err: err}
	}

	return body, nil
}

func classifyHTTPErr(err error) SourceErrorKind {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return SourceTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return SourceTimeout
	}

	return SourceMalformed
}

// jsonPath walks a decoded JSON document along a dotted path. Numeric
// segments index into arrays.
func jsonPath(doc interface{}, path string) (interface{}, error) {
	if path == "" {
		return doc, nil
	}
	current := doc
	for _, segment := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]interface{}:
			val, ok := node[segment]
			if !ok {
				return nil, fmt.Errorf("no such element: %s", segment)
			}
			current = val
		case []interface{}:
			idx, err := strconv.Atoi(segment)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, fmt.Errorf("no such index: %s", segment)
			}
			current = node[idx]
		default:
			return nil, fmt.Errorf("cannot descend into %T at %s", current, segment)
		}
	}

	return current, nil
}
