package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/workforcekpi/internal/config"
)

const (
	keyReportActor = "report:generate:%s"
	keyUploadLock  = "upload:ingest:lock"

	localLockToken = "local"
)

var ErrUploadInProgress = errors.New("upload_in_progress")

// UploadInProgressError names the workbook holding the ingestion lock.
type UploadInProgressError struct {
	Holder string
}

func (e *UploadInProgressError) Error() string {
	if e.Holder == "" {
		return ErrUploadInProgress.Error()
	}
	return fmt.Sprintf("%s: %s is being ingested", ErrUploadInProgress, e.Holder)
}

func (e *UploadInProgressError) Unwrap() error { return ErrUploadInProgress }

// Limiter guards the expensive endpoints: report generation is rate limited
// per caller and workbook ingestion is serialised across instances. Without
// redis, reports are not limited and the upload lock is process local.
type Limiter struct {
	bucket *TokenBucket
	locker *Locker

	reportRate  float64
	reportBurst int
	lockTTL     time.Duration

	local       sync.Mutex
	holderMu    sync.Mutex
	localHolder string
}

func NewLimiter(cfg config.Config, client *redis.Client) *Limiter {
	lockTTL := time.Duration(cfg.Redis.UploadLockTTLSeconds) * time.Second
	if lockTTL <= 0 {
		lockTTL = 5 * time.Minute
	}
	return &Limiter{
		bucket:      NewTokenBucket(client),
		locker:      NewLocker(client),
		reportRate:  cfg.Redis.ReportRate,
		reportBurst: cfg.Redis.ReportBurst,
		lockTTL:     lockTTL,
	}
}

// Distributed reports whether a redis backend is in use.
func (l *Limiter) Distributed() bool {
	return l != nil && l.bucket != nil
}

// AllowReport takes one token from the caller's report bucket.
func (l *Limiter) AllowReport(ctx context.Context, actor string) (*RateLimitResult, error) {
	if !l.Distributed() || l.reportRate <= 0 || l.reportBurst <= 0 {
		return &RateLimitResult{Allowed: true}, nil
	}
	return l.bucket.Allow(ctx, fmt.Sprintf(keyReportActor, strings.TrimSpace(actor)), l.reportRate, l.reportBurst)
}

// TryLockUpload acquires the single ingestion lock for holder, usually the
// uploaded file name. The lease must be passed to ReleaseUpload.
func (l *Limiter) TryLockUpload(ctx context.Context, holder string) (Lease, error) {
	if l.locker == nil {
		if !l.local.TryLock() {
			return Lease{}, &UploadInProgressError{Holder: l.setLocalHolder("", false)}
		}
		return Lease{Key: keyUploadLock, Token: localLockToken, Holder: l.setLocalHolder(sanitizeHolder(holder), true)}, nil
	}

	lease, ok, err := l.locker.Acquire(ctx, keyUploadLock, holder, l.lockTTL)
	if err != nil {
		return Lease{}, err
	}
	if !ok {
		return Lease{}, &UploadInProgressError{Holder: lease.Holder}
	}
	return lease, nil
}

func (l *Limiter) ReleaseUpload(ctx context.Context, lease Lease) error {
	if l.locker == nil {
		if lease.Token == localLockToken {
			l.setLocalHolder("", true)
			l.local.Unlock()
		}
		return nil
	}
	return l.locker.Release(ctx, lease)
}

// setLocalHolder returns the current holder, replacing it first when set is true.
func (l *Limiter) setLocalHolder(holder string, set bool) string {
	l.holderMu.Lock()
	defer l.holderMu.Unlock()
	if set {
		l.localHolder = holder
	}
	return l.localHolder
}
