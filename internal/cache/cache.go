// Package cache is a process-wide TTL memoization layer. Every read path
// against the spreadsheet backend goes through it; it is the only thing
// standing between request handlers and a rate-limited upstream.
package cache

import (
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
)

const maxRetries = 3

type entry struct {
	value     any
	fetchedAt time.Time
}

// Store holds cached values with per-key TTLs. The mutex guards the map
// only: concurrent callers missing on the same key will both invoke the
// fetch function and the last write wins. That race is accepted — reads
// against the upstream are idempotent and coalescing was never worth the
// complexity.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry

	// Now and RetryInterval are swappable for tests.
	Now           func() time.Time
	RetryInterval time.Duration
}

func New() *Store {
	return &Store{
		entries:       make(map[string]entry),
		Now:           time.Now,
		RetryInterval: 500 * time.Millisecond,
	}
}

// GetOrFetch returns the cached value for key if it is younger than ttl,
// otherwise invokes fetch and stores a non-nil result. Rate-limited
// fetches are retried with exponential backoff; any other error
// propagates immediately.
func (s *Store) GetOrFetch(key string, ttl time.Duration, fetch func() (any, error)) (any, error) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if ok && s.Now().Sub(e.fetchedAt) < ttl {
		return e.value, nil
	}

	v, err := s.fetchWithRetry(key, fetch)
	if err != nil {
		return nil, err
	}
	if v != nil {
		s.mu.Lock()
		s.entries[key] = entry{value: v, fetchedAt: s.Now()}
		s.mu.Unlock()
	}
	return v, nil
}

func (s *Store) fetchWithRetry(key string, fetch func() (any, error)) (any, error) {
	attempt := 0
	op := func() (any, error) {
		attempt++
		v, err := fetch()
		if err != nil {
			if IsRateLimited(err) {
				return nil, err
			}
			return nil, backoff.Permanent(err)
		}
		return v, nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = s.RetryInterval
	bo.Multiplier = 2
	bo.RandomizationFactor = 0

	notify := func(err error, wait time.Duration) {
		log.Warn().
			Err(err).
			Str("key", key).
			Int("attempt", attempt).
			Dur("backoff", wait).
			Msg("cache: upstream rate limited, retrying")
	}

	return backoff.RetryNotifyWithData(op, backoff.WithMaxRetries(bo, maxRetries), notify)
}

// Invalidate drops the given entries.
func (s *Store) Invalidate(keys ...string) {
	s.mu.Lock()
	for _, k := range keys {
		delete(s.entries, k)
	}
	s.mu.Unlock()
}

// InvalidateAll clears the store.
func (s *Store) InvalidateAll() {
	s.mu.Lock()
	s.entries = make(map[string]entry)
	s.mu.Unlock()
}

// Typed is a generic wrapper over GetOrFetch for callers that want their
// concrete type back without asserting at every call site.
func Typed[T any](s *Store, key string, ttl time.Duration, fetch func() (T, error)) (T, error) {
	v, err := s.GetOrFetch(key, ttl, func() (any, error) {
		return fetch()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		var zero T
		return zero, nil
	}
	return t, nil
}

var rateLimitMarkers = []string{
	"429",
	"resource_exhausted",
	"resource exhausted",
	"rate limit",
	"rate_limit",
	"quota exceeded",
}

// IsRateLimited reports whether an error's text carries one of the
// upstream rate-limit signatures. Signature matching on text is all we
// get: the storage boundary surfaces raw API error bodies.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, m := range rateLimitMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}
