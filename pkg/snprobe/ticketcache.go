package snprobe

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sasha-s/go-deadlock"
)

// Freshness windows for cached auth tickets.
const (
	// DefaultTicketMaxAge applies to REST API bearer tokens.
	DefaultTicketMaxAge = 3600 * time.Second

	// ArrayTicketMaxAge applies to storage array session keys.
	ArrayTicketMaxAge = 1500 * time.Second
)

// TicketCache stores short-lived auth tickets on disk so consecutive
// probe runs against the same target skip the login roundtrip. Entries
// are keyed by a hash over host, port and credential. An expired or
// missing entry reads as absent, the caller re-authenticates.
type TicketCache struct {
	dir    string
	maxAge time.Duration
	mu     deadlock.Mutex
}

type ticketEntry struct {
	Token  string `json:"token"`
	Issued int64  `json:"issued"`
}

// NewTicketCache creates a cache below the given directory, falling back
// to the system temp directory.
func NewTicketCache(dir string, maxAge time.Duration) *TicketCache {
	if dir == "" {
		dir = os.TempDir()
	}

	return &TicketCache{dir: dir, maxAge: maxAge}
}

// TicketKey derives the cache key for a target and credential.
func TicketKey(host string, port uint16, credential string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%d:%s", host, port, credential)))

	return hex.EncodeToString(sum[:])
}

// Get returns a cached token if a fresh entry exists.
func (tc *TicketCache) Get(key string) (token string, ok bool) {
	return tc.GetMaxAge(key, tc.maxAge)
}

// GetMaxAge returns a cached token if an entry younger than maxAge
// exists.
func (tc *TicketCache) GetMaxAge(key string, maxAge time.Duration) (token string, ok bool) {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	raw, err := os.ReadFile(tc.path(key))
	if err != nil {
		return "", false
	}

	entry := ticketEntry{}
	if err := json.Unmarshal(raw, &entry); err != nil {
		log.Debugf("discarding unreadable ticket %s: %s", key, err.Error())

		return "", false
	}

	if time.Since(time.Unix(entry.Issued, 0)) > maxAge {
		return "", false
	}

	return entry.Token, true
}

// Put stores a token with the current timestamp.
func (tc *TicketCache) Put(key, token string) error {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	raw, err := json.Marshal(ticketEntry{Token: token, Issued: time.Now().Unix()})
	if err != nil {
		return fmt.Errorf("encoding ticket: %s", err.Error())
	}
	if err := os.WriteFile(tc.path(key), raw, 0o600); err != nil {
		return fmt.Errorf("writing ticket: %s", err.Error())
	}

	return nil
}

// Drop removes a cached entry, used after the target rejected a ticket.
func (tc *TicketCache) Drop(key string) {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	os.Remove(tc.path(key))
}

func (tc *TicketCache) path(key string) string {
	return filepath.Join(tc.dir, fmt.Sprintf("%s_%s.ticket", NAME, key))
}
