package redis

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/lexcore/internal/core/domain"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return mr, client
}

func TestNewLock_InstanceName(t *testing.T) {
	_, client := setupTestRedis(t)

	if got := NewLock(client, "monitor-a").Instance(); got != "monitor-a" {
		t.Errorf("expected given instance name, got %q", got)
	}

	a, b := NewLock(client, ""), NewLock(client, "")
	if a.Instance() == "" || a.Instance() == b.Instance() {
		t.Errorf("generated names must be unique: %q %q", a.Instance(), b.Instance())
	}
}

func TestLock_Acquire(t *testing.T) {
	_, client := setupTestRedis(t)
	ctx := context.Background()
	a, b := NewLock(client, "a"), NewLock(client, "b")

	ok, err := a.Acquire(ctx, "change-monitor", time.Minute)
	if err != nil || !ok {
		t.Fatalf("first acquire: ok=%v err=%v", ok, err)
	}
	if ok, _ := b.Acquire(ctx, "change-monitor", time.Minute); ok {
		t.Error("second instance must not take a held lease")
	}
	if ok, _ := a.Acquire(ctx, "change-monitor", time.Minute); ok {
		t.Error("leases are not reentrant")
	}
	if ok, _ := b.Acquire(ctx, "reindex", time.Minute); !ok {
		t.Error("different names are independent")
	}

	holder, err := b.Holder(ctx, "change-monitor")
	if err != nil || holder != "a" {
		t.Errorf("expected holder a, got %q (%v)", holder, err)
	}
	if holder, _ := a.Holder(ctx, "free"); holder != "" {
		t.Errorf("free lease should have no holder, got %q", holder)
	}

	if _, err := a.Acquire(ctx, "x", 0); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for zero ttl, got %v", err)
	}
}

func TestLock_Release(t *testing.T) {
	_, client := setupTestRedis(t)
	ctx := context.Background()
	a, b := NewLock(client, "a"), NewLock(client, "b")

	if err := a.Release(ctx, "change-monitor"); err != nil {
		t.Errorf("releasing a free lease should succeed: %v", err)
	}

	_, _ = a.Acquire(ctx, "change-monitor", time.Minute)
	if err := b.Release(ctx, "change-monitor"); err != nil {
		t.Fatal(err)
	}
	if holder, _ := a.Holder(ctx, "change-monitor"); holder != "a" {
		t.Error("another instance must not drop the lease")
	}

	if err := a.Release(ctx, "change-monitor"); err != nil {
		t.Fatal(err)
	}
	if ok, _ := b.Acquire(ctx, "change-monitor", time.Minute); !ok {
		t.Error("lease should be free after release")
	}
}

func TestLock_Extend(t *testing.T) {
	mr, client := setupTestRedis(t)
	ctx := context.Background()
	a := NewLock(client, "a")

	_, _ = a.Acquire(ctx, "change-monitor", 10*time.Second)
	mr.FastForward(8 * time.Second)
	if err := a.Extend(ctx, "change-monitor", 10*time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mr.FastForward(8 * time.Second)
	if holder, _ := a.Holder(ctx, "change-monitor"); holder != "a" {
		t.Error("renewed lease expired early")
	}
	if ttl := mr.TTL(leasePrefix + "change-monitor"); ttl <= 0 || ttl > 10*time.Second {
		t.Errorf("unexpected ttl %s", ttl)
	}

	if err := a.Extend(ctx, "change-monitor", 0); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
	if err := a.Extend(ctx, "never-taken", time.Minute); !errors.Is(err, domain.ErrLockNotAcquired) {
		t.Errorf("expected ErrLockNotAcquired, got %v", err)
	}
}

// A pass that outlives its lease loses it to the next instance and must
// neither renew nor drop the new holder's lease.
func TestLock_ExpiredLeaseTakenOver(t *testing.T) {
	mr, client := setupTestRedis(t)
	ctx := context.Background()
	slow, next := NewLock(client, "slow"), NewLock(client, "next")

	_, _ = slow.Acquire(ctx, "change-monitor", 5*time.Second)
	mr.FastForward(6 * time.Second)

	if ok, _ := next.Acquire(ctx, "change-monitor", 5*time.Second); !ok {
		t.Fatal("expired lease should be free")
	}

	err := slow.Extend(ctx, "change-monitor", 5*time.Second)
	if !errors.Is(err, domain.ErrLockNotAcquired) {
		t.Errorf("expected ErrLockNotAcquired, got %v", err)
	}
	if err := slow.Release(ctx, "change-monitor"); err != nil {
		t.Fatal(err)
	}
	if holder, _ := next.Holder(ctx, "change-monitor"); holder != "next" {
		t.Errorf("lease of the new holder was touched, holder %q", holder)
	}
}

func TestLock_Ping(t *testing.T) {
	mr, client := setupTestRedis(t)
	lock := NewLock(client, "a")

	if err := lock.Ping(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	mr.SetError("ERR server unavailable")
	if err := lock.Ping(context.Background()); err == nil {
		t.Error("expected error from a failing server")
	}
}

func TestInstanceName(t *testing.T) {
	name := InstanceName()
	if strings.Count(name, "-") < 2 {
		t.Errorf("expected host-pid-suffix, got %q", name)
	}
}
