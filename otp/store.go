// Package otp keeps the one-time login codes in process memory. Codes are
// scoped to a normalized email, expire after a TTL and are consumed on first
// successful verification. The map is mutex-guarded because Fiber runs
// handlers concurrently; the store is still single-instance only.
package otp

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"
)

type entry struct {
	code      string
	expiresAt time.Time
}

type Store struct {
	mu    sync.Mutex
	ttl   time.Duration
	codes map[string]entry
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:   ttl,
		codes: make(map[string]entry),
	}
}

// NormalizeEmail is the canonical form used as the registry key and as the
// session identity returned to the client.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Issue generates a fresh 6-digit code for the email, overwriting any code
// already pending for it, and returns the code for delivery.
func (s *Store) Issue(email string) string {
	code := fmt.Sprintf("%06d", 100000+rand.Intn(900000))
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[NormalizeEmail(email)] = entry{
		code:      code,
		expiresAt: time.Now().Add(s.ttl),
	}
	return code
}

// Verify consumes the pending code for the email when it matches. A mismatch
// leaves the entry untouched so the legitimate user can retry; an expired
// entry is removed and rejected.
func (s *Store) Verify(email, code string) bool {
	key := NormalizeEmail(email)
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.codes[key]
	if !ok {
		return false
	}
	if time.Now().After(e.expiresAt) {
		delete(s.codes, key)
		return false
	}
	if e.code != strings.TrimSpace(code) {
		return false
	}
	delete(s.codes, key)
	return true
}

// Sweep removes expired entries and returns how many were dropped. Abandoned
// logins would otherwise sit in the map until process restart.
func (s *Store) Sweep() int {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, e := range s.codes {
		if now.After(e.expiresAt) {
			delete(s.codes, key)
			removed++
		}
	}
	return removed
}

// Pending returns the number of live entries.
func (s *Store) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.codes)
}
