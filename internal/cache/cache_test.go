package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestMakeKeyOrderIndependent(t *testing.T) {
	t.Parallel()
	a := MakeKey("product_description", map[string]string{
		"product_name": "Kopi Susu",
		"language":     "English",
		"tone":         "Professional",
	})
	b := MakeKey("product_description", map[string]string{
		"tone":         "Professional",
		"language":     "English",
		"product_name": "Kopi Susu",
	})
	if a != b {
		t.Fatalf("equal parameter sets produced different keys:\n%s\n%s", a, b)
	}
	want := "product_description:language=English:product_name=Kopi Susu:tone=Professional"
	if a != want {
		t.Fatalf("key = %q, want %q", a, want)
	}
}

func TestMakeKeyDistinguishesParams(t *testing.T) {
	t.Parallel()
	a := MakeKey("ns", map[string]string{"product_name": "A"})
	b := MakeKey("ns", map[string]string{"product_name": "B"})
	c := MakeKey("other", map[string]string{"product_name": "A"})
	if a == b || a == c {
		t.Fatalf("distinct parameter sets collided: %q %q %q", a, b, c)
	}
}

func TestMemoryGetSet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewMemory(time.Minute)

	if _, ok := store.Get(ctx, "missing"); ok {
		t.Fatal("expected miss for unknown key")
	}
	store.Set(ctx, "k", "v1", 0)
	store.Set(ctx, "k", "v2", 0)
	got, ok := store.Get(ctx, "k")
	if !ok || got != "v2" {
		t.Fatalf("Get = %q, %v; want v2, true", got, ok)
	}
	if n := store.Len(ctx); n != 1 {
		t.Fatalf("Len = %d, want 1", n)
	}
	store.Delete(ctx, "k")
	if _, ok := store.Get(ctx, "k"); ok {
		t.Fatal("expected miss after delete")
	}
}

func TestMemoryExpiry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewMemory(time.Minute)
	current := time.Unix(1700000000, 0)
	store.now = func() time.Time { return current }

	store.Set(ctx, "k", "v", 10*time.Second)
	if _, ok := store.Get(ctx, "k"); !ok {
		t.Fatal("expected hit before expiry")
	}

	current = current.Add(10 * time.Second)
	for i := 0; i < 3; i++ {
		if _, ok := store.Get(ctx, "k"); ok {
			t.Fatalf("expected idempotent miss after expiry (attempt %d)", i+1)
		}
	}
	if n := store.Len(ctx); n != 0 {
		t.Fatalf("expired entry not removed on read, Len = %d", n)
	}
}

func TestMemorySweep(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewMemory(time.Minute)
	current := time.Unix(1700000000, 0)
	store.now = func() time.Time { return current }

	store.Set(ctx, "short", "v", time.Second)
	store.Set(ctx, "long", "v", time.Hour)
	current = current.Add(time.Minute)

	if removed := store.Sweep(ctx); removed != 1 {
		t.Fatalf("Sweep removed %d entries, want 1", removed)
	}
	if _, ok := store.Get(ctx, "long"); !ok {
		t.Fatal("sweep removed a live entry")
	}
	store.Clear(ctx)
	if n := store.Len(ctx); n != 0 {
		t.Fatalf("Len after Clear = %d, want 0", n)
	}
}

func TestMemoryConcurrentAccess(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewMemory(time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("job-%d", n)
			for j := 0; j < 100; j++ {
				store.Set(ctx, key, "value", 0)
				if v, ok := store.Get(ctx, key); !ok || v != "value" {
					t.Errorf("lost write for %s", key)
					return
				}
			}
		}(i)
	}
	wg.Wait()
}
