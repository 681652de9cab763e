package v1

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestRateLimiter(clock *time.Time) *ipRateLimiter {
	l := newIPRateLimiter(1, 1)
	l.now = func() time.Time { return *clock }
	l.lastSweep = *clock
	return l
}

func TestIPRateLimiter_EvictsIdleClients(t *testing.T) {
	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	l := newTestRateLimiter(&clock)

	for i := 0; i < 100; i++ {
		assert.True(t, l.allow(fmt.Sprintf("10.0.0.%d", i)))
	}
	assert.Len(t, l.visitors, 100)

	clock = clock.Add(limiterIdleTTL / 2)
	assert.True(t, l.allow("10.0.1.1"))

	clock = clock.Add(limiterIdleTTL / 2)
	assert.True(t, l.allow("10.0.1.2"))

	// Остались только адреса, обращавшиеся в пределах idleTTL
	assert.Len(t, l.visitors, 2)
	assert.Contains(t, l.visitors, "10.0.1.1")
	assert.Contains(t, l.visitors, "10.0.1.2")
}

func TestIPRateLimiter_KeepsActiveClientBucket(t *testing.T) {
	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	l := newTestRateLimiter(&clock)

	assert.True(t, l.allow("10.0.0.1"))
	assert.False(t, l.allow("10.0.0.1"))

	clock = clock.Add(limiterIdleTTL)
	assert.True(t, l.allow("10.0.0.1"))
	assert.Len(t, l.visitors, 1)
}
