package intake

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestMemorySessionStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore()

	got, err := store.Get(ctx, "missing")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for unknown id, got %+v", got)
	}

	s := NewSession("s1")
	s.Stage = StageAwaitingCategory
	s.Role = RoleVictim
	if err := store.Put(ctx, s); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err = store.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Stage != StageAwaitingCategory || got.Role != RoleVictim {
		t.Errorf("loaded session = %+v", got)
	}

	// The store hands out clones: mutating a loaded session must not leak
	// back without a Put.
	got.Role = RolePlaintiff
	again, _ := store.Get(ctx, "s1")
	if again.Role != RoleVictim {
		t.Error("store state aliased a handed-out session")
	}

	if err := store.Delete(ctx, "s1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	got, _ = store.Get(ctx, "s1")
	if got != nil {
		t.Error("session survived delete")
	}
}

func TestMemorySessionStoreConcurrent(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := NewSession("shared")
			_ = store.Put(ctx, s)
			_, _ = store.Get(ctx, "shared")
		}()
	}
	wg.Wait()
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisSessionStore(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	store := NewRedisSessionStore(client, time.Hour)

	got, err := store.Get(ctx, "missing")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for unknown id, got %+v", got)
	}

	s := NewSession("s1")
	s.Stage = StageAwaitingSlotChoice
	s.Description = "contrato incumplido"
	slot := defaultCatalog[1]
	s.ProposedSlot = &slot
	if err := store.Put(ctx, s); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err = store.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Stage != StageAwaitingSlotChoice {
		t.Errorf("stage = %q", got.Stage)
	}
	if got.ProposedSlot == nil || got.ProposedSlot.ID != "wed-1530" {
		t.Errorf("proposed slot = %+v", got.ProposedSlot)
	}

	if ttl := mr.TTL(sessionKey("s1")); ttl != time.Hour {
		t.Errorf("ttl = %v, want 1h", ttl)
	}

	// Expiry reaps the session.
	mr.FastForward(2 * time.Hour)
	got, err = store.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("Get after expiry: %v", err)
	}
	if got != nil {
		t.Errorf("session survived TTL: %+v", got)
	}
}

func TestRedisSessionStoreDelete(t *testing.T) {
	ctx := context.Background()
	_, client := newTestRedis(t)
	store := NewRedisSessionStore(client, 0)

	s := NewSession("s1")
	if err := store.Put(ctx, s); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := store.Delete(ctx, "s1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	got, _ := store.Get(ctx, "s1")
	if got != nil {
		t.Error("session survived delete")
	}
}

func TestNewRedisSessionStoreNilClient(t *testing.T) {
	if store := NewRedisSessionStore(nil, time.Hour); store != nil {
		t.Error("expected nil store for nil client")
	}
}

func TestSessionLocksSerialize(t *testing.T) {
	locks := newSessionLocks()

	unlock := locks.lock("s1")
	acquired := make(chan struct{})
	go func() {
		u := locks.lock("s1")
		close(acquired)
		u()
	}()

	select {
	case <-acquired:
		t.Fatal("second lock acquired while first held")
	case <-time.After(20 * time.Millisecond):
	}

	unlock()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second lock never acquired after release")
	}

	// A different session id is independent.
	done := make(chan struct{})
	u1 := locks.lock("a")
	go func() {
		u2 := locks.lock("b")
		u2()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("distinct session ids blocked each other")
	}
	u1()
}
