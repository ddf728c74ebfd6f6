package cache

import (
	"testing"
	"time"
)

func TestFragmentsGetSet(t *testing.T) {
	c := New[string](4, time.Minute)

	if _, ok := c.Get("kpis@1"); ok {
		t.Fatal("expected miss on empty cache")
	}

	c.Set("kpis@1", "rendered")
	got, ok := c.Get("kpis@1")
	if !ok || got != "rendered" {
		t.Fatalf("Get = %q, %v; want rendered, true", got, ok)
	}
}

func TestFragmentsEvictsOldest(t *testing.T) {
	c := New[int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	if _, ok := c.Get("a"); ok {
		t.Error("oldest entry should have been evicted")
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("newest entry should survive eviction")
	}
	if c.Size() != 2 {
		t.Errorf("Size = %d, want 2", c.Size())
	}
}

func TestFragmentsRecentUseSurvives(t *testing.T) {
	c := New[int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a") // refresh a
	c.Set("c", 3)

	if _, ok := c.Get("a"); !ok {
		t.Error("recently used entry should survive")
	}
	if _, ok := c.Get("b"); ok {
		t.Error("least recently used entry should be evicted")
	}
}

func TestFragmentsTTL(t *testing.T) {
	c := New[int](4, -time.Second) // already expired on insert
	c.Set("a", 1)
	if _, ok := c.Get("a"); ok {
		t.Error("expired entry should not be returned")
	}
}

func TestFragmentsPurge(t *testing.T) {
	c := New[int](4, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Purge()

	if c.Size() != 0 {
		t.Errorf("Size after purge = %d, want 0", c.Size())
	}
	if _, ok := c.Get("a"); ok {
		t.Error("purged entry should be gone")
	}
}

func TestKey(t *testing.T) {
	if got := Key("kpis", 7); got != "kpis@7" {
		t.Errorf("Key = %q, want kpis@7", got)
	}
}
