package cache

import (
	"testing"
	"time"
)

func TestGetMissingKey(t *testing.T) {
	c := New[int](time.Minute)
	if _, ok := c.Get("nope"); ok {
		t.Fatal("expected miss on empty cache")
	}
}

func TestSetAndGetInsideWindow(t *testing.T) {
	c := New[string](time.Minute)
	c.Set("k", "v")

	got, ok := c.Get("k")
	if !ok || got != "v" {
		t.Fatalf("Get = (%q, %v), want (v, true)", got, ok)
	}
}

func TestExpiryAfterWindow(t *testing.T) {
	c := New[string](time.Minute)
	c.Set("k", "v")

	// Shift the clock instead of sleeping.
	base := time.Now()
	c.now = func() time.Time { return base.Add(2 * time.Minute) }

	if _, ok := c.Get("k"); ok {
		t.Fatal("expected expiry after the window")
	}
	if _, ok := c.StoredAt("k"); !ok {
		t.Fatal("StoredAt should still report the expired entry")
	}
}

func TestSetResetsWindow(t *testing.T) {
	c := New[int](time.Minute)
	base := time.Now()
	c.now = func() time.Time { return base }
	c.Set("k", 1)

	c.now = func() time.Time { return base.Add(50 * time.Second) }
	c.Set("k", 2)

	c.now = func() time.Time { return base.Add(90 * time.Second) }
	got, ok := c.Get("k")
	if !ok || got != 2 {
		t.Fatalf("expected refreshed entry, got (%d, %v)", got, ok)
	}
}

func TestInvalidateAndClear(t *testing.T) {
	c := New[int](time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)

	c.Invalidate("a")
	if _, ok := c.Get("a"); ok {
		t.Fatal("expected a invalidated")
	}
	if _, ok := c.Get("b"); !ok {
		t.Fatal("expected b untouched")
	}

	c.Clear()
	if _, ok := c.Get("b"); ok {
		t.Fatal("expected cleared cache")
	}
}
