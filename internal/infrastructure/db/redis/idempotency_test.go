package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) (*IdempotencyStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewIdempotencyStore(client, time.Hour), mr
}

func TestIdempotencyStore_Lifecycle(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	ok, err := store.Reserve(ctx, "emp1:key")
	if err != nil || !ok {
		t.Fatalf("first reserve: ok=%v err=%v", ok, err)
	}
	ok, err = store.Reserve(ctx, "emp1:key")
	if err != nil || ok {
		t.Fatalf("second reserve must fail: ok=%v err=%v", ok, err)
	}

	id, err := store.Resolve(ctx, "emp1:key")
	if err != nil || id != "" {
		t.Fatalf("pending key should resolve empty, got %q, %v", id, err)
	}

	if err := store.Complete(ctx, "emp1:key", "job-42"); err != nil {
		t.Fatalf("complete: %v", err)
	}
	id, err = store.Resolve(ctx, "emp1:key")
	if err != nil || id != "job-42" {
		t.Fatalf("expected job-42, got %q, %v", id, err)
	}

	if ttl := mr.TTL(idempotencyPrefix + "emp1:key"); ttl != time.Hour {
		t.Fatalf("expected 1h ttl, got %s", ttl)
	}
}

func TestIdempotencyStore_ReleaseAndExpiry(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Reserve(ctx, "k"); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if err := store.Release(ctx, "k"); err != nil {
		t.Fatalf("release: %v", err)
	}
	if ok, _ := store.Reserve(ctx, "k"); !ok {
		t.Fatalf("released key should be reservable again")
	}

	mr.FastForward(2 * time.Hour)
	if ok, _ := store.Reserve(ctx, "k"); !ok {
		t.Fatalf("expired key should be reservable again")
	}
}

func TestIdempotencyStore_Unavailable(t *testing.T) {
	store, mr := newTestStore(t)
	mr.Close()

	if _, err := store.Reserve(context.Background(), "k"); err == nil {
		t.Fatalf("expected error when redis is down")
	}
}

func TestPing(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	if err := Ping(client)(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}
