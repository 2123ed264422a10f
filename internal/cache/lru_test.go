package cache

import (
	"testing"
	"time"
)

func TestLRUCacheSetGet(t *testing.T) {
	c := NewLRUCache[string](2, time.Minute)

	c.Set("a", "1")
	c.Set("b", "2")

	if v, ok := c.Get("a"); !ok || v != "1" {
		t.Errorf("Get(a) = %q/%v, want 1/true", v, ok)
	}

	// "a" was just used, so adding "c" evicts "b".
	c.Set("c", "3")
	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("a should still be cached")
	}
	if c.Size() != 2 {
		t.Errorf("Size = %d, want 2", c.Size())
	}
}

func TestLRUCacheExpiry(t *testing.T) {
	c := NewLRUCache[int](10, 10*time.Millisecond)

	c.Set("k", 42)
	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Error("expired entry should not be returned")
	}
	c.Set("k2", 1)
	if n := c.CleanExpired(); n != 0 {
		t.Errorf("CleanExpired = %d, want 0 fresh entries removed", n)
	}
}

func TestLRUCacheDeletePrefix(t *testing.T) {
	c := NewLRUCache[int](10, time.Minute)

	c.Set("user:1:summary", 1)
	c.Set("user:1:breakdown", 2)
	c.Set("user:2:summary", 3)

	if n := c.DeletePrefix("user:1:"); n != 2 {
		t.Errorf("DeletePrefix removed %d, want 2", n)
	}
	if _, ok := c.Get("user:1:summary"); ok {
		t.Error("user:1 entries should be gone")
	}
	if _, ok := c.Get("user:2:summary"); !ok {
		t.Error("user:2 entry should survive")
	}
}
