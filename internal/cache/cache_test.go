// ABOUTME: Tests for the generic TTL cache.
// ABOUTME: Validates expiry, replacement, size limits, eviction order, cleanup and concurrency.

package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// testClock is a manually advanced clock.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestCache(ttl time.Duration, maxSize int) (*Cache[string], *testClock) {
	clock := &testClock{now: time.Unix(1_700_000_000, 0)}
	return newCache[string](ttl, maxSize, clock.Now), clock
}

func TestCache_Get_Missing(t *testing.T) {
	c := New[string](5*time.Minute, 100)
	defer c.Close()

	v, ok := c.Get("never-set")
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestCache_SetGet(t *testing.T) {
	c := New[[]int](5*time.Minute, 100)
	defer c.Close()

	c.Set("nums", []int{1, 2, 3})

	v, ok := c.Get("nums")
	assert.True(t, ok)
	assert.Equal(t, []int{1, 2, 3}, v)
}

func TestCache_Expiry(t *testing.T) {
	c, clock := newTestCache(time.Minute, 100)

	c.Set("k", "v")
	clock.Advance(59 * time.Second)
	_, ok := c.Get("k")
	assert.True(t, ok, "should be present before TTL")

	clock.Advance(time.Second)
	_, ok = c.Get("k")
	assert.False(t, ok, "should expire at TTL")
}

func TestCache_Set_ReplacesAndRefreshes(t *testing.T) {
	c, clock := newTestCache(time.Minute, 100)

	c.Set("k", "old")
	clock.Advance(45 * time.Second)
	c.Set("k", "new")
	clock.Advance(45 * time.Second)

	v, ok := c.Get("k")
	assert.True(t, ok, "refreshed entry should outlive the original TTL")
	assert.Equal(t, "new", v)
	assert.Equal(t, 1, c.Len())
}

func TestCache_Delete(t *testing.T) {
	c, _ := newTestCache(time.Minute, 100)

	c.Set("k", "v")
	c.Delete("k")
	c.Delete("absent")

	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestCache_EvictionOrder(t *testing.T) {
	c, _ := newTestCache(time.Minute, 3)

	c.Set("first", "1")
	c.Set("second", "2")
	c.Set("third", "3")

	// Touching "first" moves it to the back
	c.Set("first", "1b")
	c.Set("fourth", "4")

	_, ok := c.Get("second")
	assert.False(t, ok, "oldest untouched entry should be evicted")

	for _, key := range []string{"first", "third", "fourth"} {
		_, ok := c.Get(key)
		assert.True(t, ok, key)
	}
	assert.Equal(t, 3, c.Len())
}

func TestCache_NonPositiveSize(t *testing.T) {
	c, _ := newTestCache(time.Minute, 0)

	c.Set("a", "1")
	c.Set("b", "2")

	assert.Equal(t, 1, c.Len())
	_, ok := c.Get("b")
	assert.True(t, ok)
}

func TestCache_RunCleanup(t *testing.T) {
	c, clock := newTestCache(time.Minute, 100)

	c.Set("stale-1", "x")
	c.Set("stale-2", "x")
	clock.Advance(30 * time.Second)
	c.Set("fresh", "x")
	clock.Advance(45 * time.Second)

	c.runCleanup()

	assert.Equal(t, 1, c.Len(), "cleanup should remove expired entries")
	_, ok := c.Get("fresh")
	assert.True(t, ok)
	assert.Equal(t, 1, c.order.Len(), "order list should match the map")
}

func TestCache_Concurrent(t *testing.T) {
	c := New[int](5*time.Minute, 50)
	defer c.Close()

	const goroutines = 50
	const ops = 100

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < ops; j++ {
				key := fmt.Sprintf("key-%d-%d", id%10, j%10)
				c.Set(key, j)
				c.Get(key)
				if j%7 == 0 {
					c.Delete(key)
				}
			}
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Len(), 50)
	c.Set("final", 1)
	v, ok := c.Get("final")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestCache_Close(t *testing.T) {
	c := New[string](5*time.Minute, 100)

	c.Set("before-close", "v")
	_, ok := c.Get("before-close")
	assert.True(t, ok)

	c.Close()
	// Multiple closes should not panic
	c.Close()
}
