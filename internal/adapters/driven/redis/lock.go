package redis

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/lexcore/internal/core/domain"
	"github.com/custodia-labs/lexcore/internal/core/ports/driven"
)

var _ driven.DistributedLock = (*Lock)(nil)

const leasePrefix = "lexcore:lease:"

// Lock hands out leases on named keys. A lease is a key holding the
// holder's instance name with a TTL; the change monitor renews it between
// documents and stops its pass once renewal fails. Only the holder can
// renew or drop its lease, so a pass that outlived its TTL never deletes
// the lease another instance took over.
type Lock struct {
	client   *redis.Client
	instance string
}

// NewLock creates a lease lock for one process. An empty instance name
// is replaced by host, pid and a random suffix.
func NewLock(client *redis.Client, instance string) *Lock {
	if instance == "" {
		instance = InstanceName()
	}
	return &Lock{client: client, instance: instance}
}

// InstanceName identifies this process in leases and queue consumer names.
func InstanceName() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "lexcore"
	}
	return fmt.Sprintf("%s-%d-%s", host, os.Getpid(), uuid.NewString()[:8])
}

// Instance returns the name this lock writes into its leases.
func (l *Lock) Instance() string {
	return l.instance
}

// Acquire takes the lease when nobody holds it. Leases are not reentrant:
// a second Acquire by the same holder also reports false.
func (l *Lock) Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		return false, fmt.Errorf("%w: lease ttl must be positive", domain.ErrInvalidInput)
	}
	ok, err := l.client.SetNX(ctx, leasePrefix+name, l.instance, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire lease %s: %w", name, err)
	}
	return ok, nil
}

// holderScript renews (ARGV[2] > 0 ms) or drops (ARGV[2] == 0) the lease in
// KEYS[1] when ARGV[1] still holds it, and returns 0 otherwise.
var holderScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) ~= ARGV[1] then
	return 0
end
if tonumber(ARGV[2]) == 0 then
	return redis.call("DEL", KEYS[1])
end
return redis.call("PEXPIRE", KEYS[1], ARGV[2])
`)

func (l *Lock) asHolder(ctx context.Context, name string, ttlMillis int64) (bool, error) {
	n, err := holderScript.Run(ctx, l.client, []string{leasePrefix + name}, l.instance, ttlMillis).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return false, err
	}
	return n == 1, nil
}

// Release drops the lease if this instance still holds it. A lease that
// expired or passed to another instance is left alone.
func (l *Lock) Release(ctx context.Context, name string) error {
	if _, err := l.asHolder(ctx, name, 0); err != nil {
		return fmt.Errorf("release lease %s: %w", name, err)
	}
	return nil
}

// Extend renews the lease for ttl from now. It fails with
// ErrLockNotAcquired once the lease expired or belongs to someone else.
func (l *Lock) Extend(ctx context.Context, name string, ttl time.Duration) error {
	ms := ttl.Milliseconds()
	if ms <= 0 {
		return fmt.Errorf("%w: lease ttl must be positive", domain.ErrInvalidInput)
	}
	held, err := l.asHolder(ctx, name, ms)
	if err != nil {
		return fmt.Errorf("extend lease %s: %w", name, err)
	}
	if !held {
		return fmt.Errorf("extend lease %s: %w", name, domain.ErrLockNotAcquired)
	}
	return nil
}

// Holder returns the instance holding the lease, or "" when it is free.
func (l *Lock) Holder(ctx context.Context, name string) (string, error) {
	holder, err := l.client.Get(ctx, leasePrefix+name).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read lease %s: %w", name, err)
	}
	return holder, nil
}

func (l *Lock) Ping(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}
