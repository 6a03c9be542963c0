package cache

import (
	"testing"
	"time"
)

func TestRedirects_RoundTrip(t *testing.T) {
	c := NewRedirects(10, time.Minute)
	if _, ok := c.Get("k"); ok {
		t.Fatal("unexpected hit on empty cache")
	}
	c.Set("k", "https://a/img.jpg")
	got, ok := c.Get("k")
	if !ok || got != "https://a/img.jpg" {
		t.Fatalf("Get = (%q, %v)", got, ok)
	}
}

func TestRedirects_TTLExpiry(t *testing.T) {
	c := NewRedirects(10, 20*time.Millisecond)
	c.Set("k", "v")
	time.Sleep(60 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Fatal("entry should have expired")
	}
}

func TestRedirects_CapacityEviction(t *testing.T) {
	c := NewRedirects(2, 0)
	c.Set("a", "1")
	c.Set("b", "2")
	c.Set("c", "3")
	if c.Len() != 2 {
		t.Fatalf("Len = %d, want 2", c.Len())
	}
	if _, ok := c.Get("a"); ok {
		t.Fatal("oldest entry should have been evicted")
	}
}

func TestRedirects_ZeroTTLNeverExpires(t *testing.T) {
	c := NewRedirects(10, 0)
	c.Set("k", "v")
	time.Sleep(30 * time.Millisecond)
	if _, ok := c.Get("k"); !ok {
		t.Fatal("zero-ttl entry must not expire")
	}
}
