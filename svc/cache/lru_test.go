package cache

import (
	"testing"
	"time"
)

func TestLRUSetGet(t *testing.T) {
	l, err := NewLRU[[]string](8, time.Minute)
	if err != nil {
		t.Fatalf("NewLRU failed: %v", err)
	}
	l.Set("domains:url", []string{"s.ee", "fast.io"})
	got, ok := l.Get("domains:url")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if len(got) != 2 || got[0] != "s.ee" {
		t.Errorf("unexpected value: %v", got)
	}
}

func TestLRUMiss(t *testing.T) {
	l, _ := NewLRU[string](8, time.Minute)
	if _, ok := l.Get("absent"); ok {
		t.Error("expected miss for absent key")
	}
}

func TestLRUExpiry(t *testing.T) {
	l, _ := NewLRU[string](8, 10*time.Millisecond)
	l.Set("k", "v")
	time.Sleep(25 * time.Millisecond)
	if _, ok := l.Get("k"); ok {
		t.Error("entry should have expired")
	}
}

func TestLRUDelete(t *testing.T) {
	l, _ := NewLRU[string](8, time.Minute)
	l.Set("k", "v")
	l.Delete("k")
	if _, ok := l.Get("k"); ok {
		t.Error("deleted entry still present")
	}
}

func TestLRUSizeValidation(t *testing.T) {
	if _, err := NewLRU[string](0, time.Minute); err == nil {
		t.Error("zero size should be rejected")
	}
	if _, err := NewLRU[string](200000, time.Minute); err == nil {
		t.Error("oversized cache should be rejected")
	}
}
