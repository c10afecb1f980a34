package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/smallbiznis/workforcekpi/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiter_LocalUploadLock(t *testing.T) {
	l := NewLimiter(config.Config{}, nil)
	ctx := context.Background()

	lease, err := l.TryLockUpload(ctx, "s1_2024.xlsx")
	require.NoError(t, err)
	assert.Equal(t, "s1_2024.xlsx", lease.Holder)

	_, err = l.TryLockUpload(ctx, "s1_2025.xlsx")
	assert.ErrorIs(t, err, ErrUploadInProgress)
	var inProgress *UploadInProgressError
	require.ErrorAs(t, err, &inProgress)
	assert.Equal(t, "s1_2024.xlsx", inProgress.Holder)
	assert.Contains(t, err.Error(), "s1_2024.xlsx is being ingested")

	require.NoError(t, l.ReleaseUpload(ctx, lease))

	lease, err = l.TryLockUpload(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "unknown", lease.Holder)
	require.NoError(t, l.ReleaseUpload(ctx, lease))
}

func TestParseLease(t *testing.T) {
	lease := Lease{Key: keyUploadLock, Token: "tok", Holder: sanitizeHolder(" a|b.xlsx ")}
	assert.Equal(t, "a_b.xlsx", lease.Holder)
	assert.Equal(t, lease, parseLease(keyUploadLock, lease.value()))
	assert.Equal(t, Lease{Key: "k", Token: "tok"}, parseLease("k", "tok"))
}

func TestNilLocker(t *testing.T) {
	var l *Locker
	_, ok, err := l.Acquire(context.Background(), "k", "h", time.Second)
	assert.False(t, ok)
	assert.Error(t, err)
	assert.NoError(t, l.Release(context.Background(), Lease{Key: "k", Token: "t"}))
}

func TestLimiter_ReportsUnlimitedWithoutRedis(t *testing.T) {
	l := NewLimiter(config.Config{Redis: config.RedisConfig{ReportRate: 1, ReportBurst: 1}}, nil)

	for i := 0; i < 5; i++ {
		res, err := l.AllowReport(context.Background(), "key_abc")
		require.NoError(t, err)
		assert.True(t, res.Allowed)
	}
	assert.False(t, l.Distributed())
}

func TestBucketResult(t *testing.T) {
	res := bucketResult(false, 0.5, 1000, 0.25, 3)
	assert.False(t, res.Allowed)
	assert.Equal(t, 2*time.Second, res.RetryAfter)
	assert.Equal(t, 3, res.Limit)
	assert.Equal(t, 0, res.Remaining)

	allowed := bucketResult(true, 2.4, 1000, 1, 3)
	assert.Zero(t, allowed.RetryAfter)
	assert.Equal(t, 2, allowed.Remaining)
}

func TestCastToFloat(t *testing.T) {
	assert.Equal(t, 2.5, castToFloat("2.5"))
	assert.Equal(t, 3.0, castToFloat(int64(3)))
	assert.Zero(t, castToFloat("x"))
}

func TestNilTokenBucket(t *testing.T) {
	var bucket *TokenBucket
	res, err := bucket.Allow(context.Background(), "k", 1, 1)
	assert.Error(t, err)
	assert.False(t, res.Allowed)
	assert.Nil(t, NewTokenBucket(nil))
	assert.Nil(t, NewLocker(nil))
}
