package session

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skufu/harmonycare/internal/pages"
)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newStore(ttl time.Duration) (*Store, *clock) {
	c := &clock{t: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
	return NewStore(ttl, WithClock(c.Now)), c
}

func TestResolveCreatesUUIDSession(t *testing.T) {
	s, _ := newStore(time.Minute)

	sess, created := s.Resolve("")
	require.True(t, created)
	_, err := uuid.Parse(sess.ID())
	assert.NoError(t, err)

	again, created := s.Resolve(sess.ID())
	assert.False(t, created)
	assert.Same(t, sess, again)
}

func TestResolveUnknownIDStartsFresh(t *testing.T) {
	s, _ := newStore(time.Minute)
	sess, created := s.Resolve("forged")
	assert.True(t, created)
	assert.NotEqual(t, "forged", sess.ID())
}

func TestSessionExpiresAfterIdleTTL(t *testing.T) {
	s, c := newStore(10 * time.Minute)
	sess, _ := s.Resolve("")

	c.Advance(9 * time.Minute)
	_, created := s.Resolve(sess.ID())
	require.False(t, created)

	c.Advance(9 * time.Minute)
	_, created = s.Resolve(sess.ID())
	require.False(t, created, "use refreshes the TTL")

	c.Advance(10 * time.Minute)
	next, created := s.Resolve(sess.ID())
	assert.True(t, created)
	assert.NotEqual(t, sess.ID(), next.ID())
}

func TestSweepDropsIdleSessions(t *testing.T) {
	s, c := newStore(time.Minute)
	for i := 0; i < 5; i++ {
		s.Resolve("")
	}
	require.Equal(t, 5, s.Len())

	c.Advance(2 * time.Minute)
	s.Resolve("")
	assert.Equal(t, 1, s.Len())
}

func TestFullStoreEvictsLongestIdle(t *testing.T) {
	c := &clock{t: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
	s := NewStore(time.Hour, WithClock(c.Now), WithMaxSessions(3))

	first, _ := s.Resolve("")
	c.Advance(time.Second)
	second, _ := s.Resolve("")
	c.Advance(time.Second)
	s.Resolve("")
	c.Advance(time.Second)
	// Touching first makes second the longest idle.
	_, created := s.Resolve(first.ID())
	require.False(t, created)

	c.Advance(time.Second)
	s.Resolve("")
	assert.Equal(t, 3, s.Len())

	_, created = s.Resolve(second.ID())
	assert.True(t, created, "longest idle session should have been evicted")
	_, created = s.Resolve(first.ID())
	assert.False(t, created)
}

func TestStoreCapHoldsUnderCookielessTraffic(t *testing.T) {
	s, c := newStore(time.Hour)
	s.max = 50
	for i := 0; i < 500; i++ {
		c.Advance(time.Millisecond)
		s.Resolve("")
	}
	assert.Equal(t, 50, s.Len())
	assert.Equal(t, DefaultMaxSessions, NewStore(0).max)
}

func TestInstancesArePerKeyAndPerSession(t *testing.T) {
	s, _ := newStore(time.Minute)
	a, _ := s.Resolve("")
	b, _ := s.Resolve("")

	clinical := a.Instance("cancer-detection/clinical", pages.Detect)
	assert.Same(t, clinical, a.Instance("cancer-detection/clinical", pages.Detect))
	assert.NotSame(t, clinical, a.Instance("detect", pages.Detect))
	assert.NotSame(t, clinical, b.Instance("cancer-detection/clinical", pages.Detect))
}

func TestDefaultTTL(t *testing.T) {
	s := NewStore(0)
	assert.Equal(t, DefaultTTL, s.ttl)
}
