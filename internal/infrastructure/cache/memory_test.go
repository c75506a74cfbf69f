package cache

import (
	"testing"
	"time"
)

func TestSetAndGet(t *testing.T) {
	store := NewMemoryStore()
	store.Set("k", "value", time.Minute)

	got, ok := store.Get("k")
	if !ok || got != "value" {
		t.Fatalf("expected cached value, got %q ok=%v", got, ok)
	}
}

func TestGetMissing(t *testing.T) {
	store := NewMemoryStore()

	if _, ok := store.Get("missing"); ok {
		t.Fatalf("missing key must not hit")
	}
}

func TestGetExpired(t *testing.T) {
	store := NewMemoryStore()
	store.Set("k", "value", -time.Second)

	if _, ok := store.Get("k"); ok {
		t.Fatalf("expired entry must not hit")
	}
}

func TestDelete(t *testing.T) {
	store := NewMemoryStore()
	store.Set("k", "value", time.Minute)
	store.Delete("k")

	if _, ok := store.Get("k"); ok {
		t.Fatalf("deleted entry must not hit")
	}
	if store.Len() != 0 {
		t.Fatalf("expected empty store, got %d items", store.Len())
	}
}

func TestKeyStable(t *testing.T) {
	a := Key("model", "system", "user")
	b := Key("model", "system", "user")
	if a != b {
		t.Fatalf("same parts must produce the same key")
	}
	if len(a) != 64 {
		t.Fatalf("expected hex sha256 key, got %q", a)
	}
}

func TestKeySeparatesParts(t *testing.T) {
	// "ab" + "c" and "a" + "bc" must not collide.
	if Key("ab", "c") == Key("a", "bc") {
		t.Fatalf("part boundaries must be part of the key")
	}
}
