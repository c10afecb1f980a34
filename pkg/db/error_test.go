package db

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsDuplicateKeyErr(t *testing.T) {
	assert.False(t, IsDuplicateKeyErr(nil))
	assert.True(t, IsDuplicateKeyErr(gorm.ErrDuplicatedKey))
	assert.True(t, IsDuplicateKeyErr(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.True(t, IsDuplicateKeyErr(errors.New("UNIQUE constraint failed: api_keys.key_hash")))
	assert.False(t, IsDuplicateKeyErr(errors.New("syntax error")))
}

func TestIsRetryableErr(t *testing.T) {
	assert.True(t, IsRetryableErr(&pgconn.PgError{Code: "40001"}))
	assert.True(t, IsRetryableErr(errors.New("database is locked")))
	assert.False(t, IsRetryableErr(&pgconn.PgError{Code: "23505"}))
}

func TestIsUnavailableErr(t *testing.T) {
	assert.True(t, IsUnavailableErr(context.DeadlineExceeded))
	assert.False(t, IsUnavailableErr(errors.New("no such table")))
}

func TestSqliteFile(t *testing.T) {
	assert.Equal(t, "workforcekpi.db", sqliteFile(""))
	assert.Equal(t, "kpi.db", sqliteFile("kpi"))
	assert.Equal(t, "file::memory:?cache=shared", sqliteFile("file::memory:?cache=shared"))
}
