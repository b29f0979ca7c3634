package redis

import (
	"context"
	"os"
	"testing"
	"time"
)

// These tests need a running Redis; set REDIS_TEST_ADDR to run them.
func testStore(t *testing.T) *TokenStore {
	t.Helper()
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	client, err := Connect(context.Background(), Config{Addr: addr, DB: 15, Timeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	store := NewTokenStore(client, "booking-console:test:"+t.Name(), time.Minute)
	t.Cleanup(func() { _ = store.Clear(context.Background()) })
	return store
}

func TestTokenStore_RoundTrip(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	tok, err := store.Load(ctx)
	if err != nil || tok != "" {
		t.Fatalf("expected empty store, got %q (%v)", tok, err)
	}
	if err := store.Save(ctx, "tok-1"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if tok, _ := store.Load(ctx); tok != "tok-1" {
		t.Fatalf("expected tok-1, got %q", tok)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("second Clear should be a no-op: %v", err)
	}
	if tok, _ := store.Load(ctx); tok != "" {
		t.Fatalf("expected cleared token, got %q", tok)
	}
}

func TestTokenStore_RejectsEmptyToken(t *testing.T) {
	store := NewTokenStore(nil, "", 0)
	if err := store.Save(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty token")
	}
	if store.key != defaultTokenKey {
		t.Fatalf("expected default key, got %q", store.key)
	}
}
