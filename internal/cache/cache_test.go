package cache_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pephaul/orderdesk/internal/cache"
)

func TestStore_TTLRespected(t *testing.T) {
	s := cache.New()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.Now = func() time.Time { return now }

	calls := 0
	fetch := func() (any, error) {
		calls++
		return "value", nil
	}

	v, err := s.GetOrFetch("orders", 60*time.Second, fetch)
	require.NoError(t, err)
	assert.Equal(t, "value", v)
	assert.Equal(t, 1, calls)

	// t=59: still fresh
	now = now.Add(59 * time.Second)
	_, err = s.GetOrFetch("orders", 60*time.Second, fetch)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	// t=61: expired, refetched
	now = now.Add(2 * time.Second)
	_, err = s.GetOrFetch("orders", 60*time.Second, fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestStore_Invalidate(t *testing.T) {
	s := cache.New()
	calls := 0
	fetch := func() (any, error) {
		calls++
		return calls, nil
	}

	_, err := s.GetOrFetch("inventory", time.Hour, fetch)
	require.NoError(t, err)
	s.Invalidate("inventory")

	v, err := s.GetOrFetch("inventory", time.Hour, fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestStore_RateLimitRetried(t *testing.T) {
	s := cache.New()
	s.RetryInterval = time.Millisecond

	calls := 0
	fetch := func() (any, error) {
		calls++
		if calls < 3 {
			return nil, errors.New("googleapi: Error 429: Quota exceeded for quota metric")
		}
		return "ok", nil
	}

	v, err := s.GetOrFetch("orders", time.Minute, fetch)
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, 3, calls)
}

func TestStore_RateLimitGivesUpAfterCap(t *testing.T) {
	s := cache.New()
	s.RetryInterval = time.Millisecond

	calls := 0
	fetch := func() (any, error) {
		calls++
		return nil, errors.New("RESOURCE_EXHAUSTED: read requests per minute")
	}

	_, err := s.GetOrFetch("orders", time.Minute, fetch)
	require.Error(t, err)
	// initial attempt + 3 retries
	assert.Equal(t, 4, calls)
}

func TestStore_OtherErrorsNotRetried(t *testing.T) {
	s := cache.New()
	s.RetryInterval = time.Millisecond

	calls := 0
	fetch := func() (any, error) {
		calls++
		return nil, errors.New("connection refused")
	}

	_, err := s.GetOrFetch("orders", time.Minute, fetch)
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestStore_NilResultNotStored(t *testing.T) {
	s := cache.New()
	calls := 0
	fetch := func() (any, error) {
		calls++
		return nil, nil
	}

	_, err := s.GetOrFetch("settings", time.Hour, fetch)
	require.NoError(t, err)
	_, err = s.GetOrFetch("settings", time.Hour, fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "nil values must not be cached")
}

// Concurrent misses on the same key both invoke the fetch function. This
// pins down the accepted no-coalescing behavior: redundant upstream calls
// are fine, deduplication is not promised.
func TestStore_ConcurrentMissesBothFetch(t *testing.T) {
	s := cache.New()

	var mu sync.Mutex
	calls := 0
	started := make(chan struct{})
	release := make(chan struct{})

	fetch := func() (any, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		started <- struct{}{}
		<-release
		return "v", nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.GetOrFetch("orders", time.Minute, fetch)
		}()
	}

	<-started
	<-started
	close(release)
	wg.Wait()

	assert.Equal(t, 2, calls)
}

func TestTyped(t *testing.T) {
	s := cache.New()
	v, err := cache.Typed(s, "rows", time.Minute, func() ([]string, error) {
		return []string{"a", "b"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, v)
}

func TestIsRateLimited(t *testing.T) {
	assert.True(t, cache.IsRateLimited(errors.New("HTTP 429 Too Many Requests")))
	assert.True(t, cache.IsRateLimited(errors.New("rpc error: code = ResourceExhausted desc = RESOURCE_EXHAUSTED")))
	assert.True(t, cache.IsRateLimited(errors.New("Rate limit exceeded")))
	assert.False(t, cache.IsRateLimited(errors.New("connection reset by peer")))
	assert.False(t, cache.IsRateLimited(nil))
}
