package ratelimit

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
)

// The stored value is "<token>|<holder>" so a conflicting caller can be told
// which workbook is being ingested.
const leaseSeparator = "|"

const releaseLeaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`

var (
	errLockNotConfigured = errors.New("lock client not configured")
	errLockKeyEmpty      = errors.New("lock key is empty")
	errLockTTL           = errors.New("lock ttl must be positive")
)

// Lease is a held ingestion lock.
type Lease struct {
	Key    string
	Token  string
	Holder string
}

func (l Lease) value() string {
	return l.Token + leaseSeparator + l.Holder
}

func parseLease(key, value string) Lease {
	token, holder, _ := strings.Cut(value, leaseSeparator)
	return Lease{Key: key, Token: token, Holder: holder}
}

// Locker hands out redis leases shared by every server instance.
type Locker struct {
	client  *redis.Client
	release *redis.Script
}

func NewLocker(client *redis.Client) *Locker {
	if client == nil {
		return nil
	}
	return &Locker{
		client:  client,
		release: redis.NewScript(releaseLeaseScript),
	}
}

// Acquire takes the lease on key for holder. When another caller holds it,
// ok is false and the returned lease describes the current holder.
func (l *Locker) Acquire(ctx context.Context, key, holder string, ttl time.Duration) (lease Lease, ok bool, err error) {
	if l == nil || l.client == nil {
		return Lease{}, false, errLockNotConfigured
	}
	if key == "" {
		return Lease{}, false, errLockKeyEmpty
	}
	if ttl <= 0 {
		return Lease{}, false, errLockTTL
	}

	lease = Lease{Key: key, Token: uuid.NewString(), Holder: sanitizeHolder(holder)}
	ok, err = l.client.SetNX(ctx, key, lease.value(), ttl).Result()
	if err != nil {
		return Lease{}, false, err
	}
	if ok {
		return lease, true, nil
	}

	current, err := l.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		// released between SETNX and GET
		return Lease{Key: key}, false, nil
	}
	if err != nil {
		return Lease{}, false, err
	}
	return parseLease(key, current), false, nil
}

// Release drops the lease if it is still the one stored under its key.
func (l *Locker) Release(ctx context.Context, lease Lease) error {
	if l == nil || l.client == nil {
		return nil
	}
	if lease.Key == "" || lease.Token == "" {
		return nil
	}
	return l.release.Run(ctx, l.client, []string{lease.Key}, lease.value()).Err()
}

func sanitizeHolder(holder string) string {
	holder = strings.TrimSpace(strings.ReplaceAll(holder, leaseSeparator, "_"))
	if holder == "" {
		return "unknown"
	}
	return holder
}
