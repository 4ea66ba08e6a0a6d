package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestWindowBoundary(t *testing.T) {
	clock := newFakeClock()
	limiter := New(60*time.Second, 3)
	limiter.SetClock(clock.Now)

	// 上限 3：第 3 次记录后即达限
	for i := 0; i < 3; i++ {
		assert.False(t, limiter.ShouldLimit("1.2.3.4"), "record %d", i)
		limiter.Record("1.2.3.4")
	}
	assert.True(t, limiter.ShouldLimit("1.2.3.4"))

	// 其他键不受影响
	assert.False(t, limiter.ShouldLimit("5.6.7.8"))

	// 窗口滑过后恢复
	clock.Advance(61 * time.Second)
	assert.False(t, limiter.ShouldLimit("1.2.3.4"))
}

func TestShouldLimitHasNoSideEffect(t *testing.T) {
	limiter := New(time.Minute, 2)
	for i := 0; i < 10; i++ {
		limiter.ShouldLimit("probe")
	}
	assert.False(t, limiter.ShouldLimit("probe"))
	assert.Equal(t, 0, limiter.GetStats().TrackedKeys)
}

func TestClear(t *testing.T) {
	limiter := New(time.Minute, 1)
	limiter.Record("a")
	limiter.Record("b")
	assert.True(t, limiter.ShouldLimit("a"))

	limiter.Clear()
	assert.False(t, limiter.ShouldLimit("a"))
	stats := limiter.GetStats()
	assert.Equal(t, int64(0), stats.TotalErrors)
	assert.Equal(t, 0, stats.TrackedKeys)
}

func TestSweepRemovesStaleKeys(t *testing.T) {
	clock := newFakeClock()
	limiter := New(60*time.Second, 100)
	limiter.SetClock(clock.Now)

	limiter.Record("stale")
	clock.Advance(2 * time.Minute)
	limiter.Record("fresh")

	removed := limiter.Sweep()
	assert.Equal(t, 1, removed)
	stats := limiter.GetStats()
	assert.Equal(t, 1, stats.TrackedKeys)
	assert.Contains(t, stats.ErrorsByKey, "fresh")
	assert.NotContains(t, stats.ErrorsByKey, "stale")
}

func TestGetStats(t *testing.T) {
	clock := newFakeClock()
	limiter := New(60*time.Second, 2)
	limiter.SetClock(clock.Now)

	limiter.Record("a")
	limiter.Record("a")
	limiter.Record("b")

	stats := limiter.GetStats()
	assert.Equal(t, int64(3), stats.TotalErrors)
	assert.Equal(t, 2, stats.ErrorsByKey["a"])
	assert.Equal(t, 1, stats.ErrorsByKey["b"])
	assert.Equal(t, []string{"a"}, stats.LimitedKeys)
}

func TestConcurrentSameKey(t *testing.T) {
	limiter := New(time.Minute, 1000)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				limiter.ShouldLimit("burst")
				limiter.Record("burst")
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1000, limiter.GetStats().ErrorsByKey["burst"])
	assert.True(t, limiter.ShouldLimit("burst"))
}
