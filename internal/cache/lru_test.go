// Bullpen - Relief Pitcher Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bullpen

package cache

import (
	"strconv"
	"sync"
	"testing"
	"time"
)

// fakeClock lets tests move time without sleeping.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newTestLRU(capacity int, ttl time.Duration) (*LRU[float64], *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 4, 1, 19, 5, 0, 0, time.UTC)}
	c := NewLRU[float64](capacity, ttl)
	c.now = clock.Now
	return c, clock
}

func TestNewLRU_Defaults(t *testing.T) {
	t.Parallel()

	c := NewLRU[int](0, 0)
	if c.capacity != DefaultCapacity || c.ttl != DefaultTTL {
		t.Errorf("capacity=%d ttl=%v, want defaults", c.capacity, c.ttl)
	}
}

func TestLRU_GetAdd(t *testing.T) {
	t.Parallel()

	c, _ := newTestLRU(3, time.Minute)
	c.Add("a", 1.5)
	c.Add("b", 2.5)

	if v, ok := c.Get("a"); !ok || v != 1.5 {
		t.Errorf("Get(a) = %v, %v", v, ok)
	}
	if _, ok := c.Get("missing"); ok {
		t.Error("Get(missing) should miss")
	}

	c.Add("a", 3.0)
	if v, _ := c.Get("a"); v != 3.0 {
		t.Errorf("Get(a) after update = %v, want 3", v)
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}

	hits, misses, size := c.Stats()
	if hits != 2 || misses != 1 || size != 2 {
		t.Errorf("Stats() = %d, %d, %d", hits, misses, size)
	}
}

func TestLRU_Eviction(t *testing.T) {
	t.Parallel()

	c, _ := newTestLRU(3, time.Minute)
	c.Add("a", 1)
	c.Add("b", 2)
	c.Add("c", 3)
	c.Get("a") // b is now least recently used
	c.Add("d", 4)

	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	for _, k := range []string{"a", "c", "d"} {
		if _, ok := c.Get(k); !ok {
			t.Errorf("%s should be present", k)
		}
	}
}

func TestLRU_TTL(t *testing.T) {
	t.Parallel()

	c, clock := newTestLRU(10, time.Second)
	c.Add("a", 1)
	c.Add("b", 2)

	clock.Advance(500 * time.Millisecond)
	c.Add("b", 2) // refreshes b

	clock.Advance(600 * time.Millisecond)
	if _, ok := c.Get("a"); ok {
		t.Error("a should have expired")
	}
	if _, ok := c.Get("b"); !ok {
		t.Error("b was refreshed and should still be valid")
	}

	clock.Advance(2 * time.Second)
	c.Add("c", 3)
	clock.Advance(2 * time.Second)
	if removed := c.CleanupExpired(); removed != 2 {
		t.Errorf("CleanupExpired() = %d, want 2", removed)
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
}

func TestLRU_RemoveAndClear(t *testing.T) {
	t.Parallel()

	c, _ := newTestLRU(10, time.Minute)
	c.Add("a", 1)
	c.Add("b", 2)

	if !c.Remove("a") || c.Remove("a") {
		t.Error("Remove(a) should succeed once")
	}
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d", c.Len())
	}
	c.Add("c", 3)
	if _, ok := c.Get("c"); !ok {
		t.Error("cache unusable after Clear")
	}
}

func TestLRU_Concurrent(t *testing.T) {
	t.Parallel()

	c := NewLRU[int](64, time.Minute)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				key := strconv.Itoa((g*500 + i) % 100)
				c.Add(key, i)
				c.Get(key)
			}
		}(g)
	}
	wg.Wait()

	if c.Len() > 64 {
		t.Errorf("Len() = %d, exceeds capacity", c.Len())
	}
}
