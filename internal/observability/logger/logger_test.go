package logger

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	obscontext "github.com/smallbiznis/workforcekpi/internal/observability/context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func TestOperationFromSQL(t *testing.T) {
	tests := []struct {
		sql  string
		want string
	}{
		{"  select * from organizational_units", "SELECT"},
		{"WITH x AS (SELECT 1) INSERT INTO t VALUES (1)", "INSERT"},
		{"WITH recent AS (SELECT id FROM ingestion_runs) DELETE FROM employee_turnover_facts WHERE run_id IN (SELECT id FROM recent)", "DELETE"},
		{"UPDATE api_keys SET revoked_at = 'select now'", "UPDATE"},
		{"(SELECT 1) UNION (SELECT 2)", "SELECT"},
		{"", "UNKNOWN"},
		{"PRAGMA foreign_keys = ON", "UNKNOWN"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, operationFromSQL(tt.sql), tt.sql)
	}
}

func TestTableFromSQL(t *testing.T) {
	assert.Equal(t, "employee_headcount_facts", tableFromSQL(`INSERT INTO "employee_headcount_facts" ("id") VALUES (1)`))
	assert.Equal(t, "api_keys", tableFromSQL("UPDATE `api_keys` SET name = 'x'"))
	assert.Equal(t, "audit_logs", tableFromSQL("SELECT * FROM audit_logs WHERE id IN (SELECT id FROM other)"))
	assert.Empty(t, tableFromSQL("SELECT 1"))
}

func TestGormLoggerTrace(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	defer restore()

	l := NewGormLogger(DefaultGormLoggerConfig())
	sql := func() (string, int64) { return "SELECT * FROM api_keys WHERE key_hash = ?", 0 }

	l.Trace(context.Background(), time.Now(), sql, gormlogger.ErrRecordNotFound)
	assert.Zero(t, logs.Len())

	l.Trace(context.Background(), time.Now(), sql, errors.New("boom"))
	l.Trace(context.Background(), time.Now().Add(-time.Second), sql, nil)

	entries := logs.All()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, zap.ErrorLevel, entries[0].Level)
		assert.Equal(t, zap.WarnLevel, entries[1].Level)
		fields := entries[0].ContextMap()
		assert.Equal(t, "SELECT", fields["operation"])
		assert.Equal(t, "api_keys", fields["table"])
	}

	l.LogMode(gormlogger.Silent).Trace(context.Background(), time.Now(), sql, errors.New("boom"))
	assert.Equal(t, 2, logs.Len())
}

func TestWithContextAddsCorrelationFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	ctx := obscontext.WithRequestID(context.Background(), "req-1")
	ctx = obscontext.WithActor(ctx, "api_key", "42")

	WithContext(ctx, zap.New(core)).Info("hello")

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "req-1", fields["request_id"])
		assert.Equal(t, "api_key", fields["actor_type"])
		assert.Equal(t, "42", fields["actor_id"])
	}
}

func TestWithContextOmitsUnsetFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	WithContext(context.Background(), zap.New(core)).Info("bare")
	WithCompany(context.Background(), zap.New(core), 7).Info("company")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Empty(t, entries[0].ContextMap())
	assert.Equal(t, map[string]any{"company_id": int64(7)}, entries[1].ContextMap())
}

func TestGinMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.DebugLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	defer restore()

	r := gin.New()
	r.Use(GinMiddleware(MiddlewareConfig{
		ErrorClassifier: func(error) (string, string) { return "validation_error", "invalid_file" },
	}))
	r.GET("/api/kpis/:name", func(c *gin.Context) {
		assert.Equal(t, int64(7), obscontext.CompanyIDFromContext(c.Request.Context()))
		c.Status(http.StatusOK)
	})
	r.POST("/api/uploads", func(c *gin.Context) {
		c.Set(ContextKeyUploadFile, "s1.xlsx")
		_ = c.Error(errors.New("bad workbook"))
		c.Status(http.StatusBadRequest)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/kpis/turnover_rate?company_id=7", nil)
	req.Header.Set("X-Request-Id", "req-42")
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-42", w.Header().Get("X-Request-Id"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/uploads?company_id=abc", nil))
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	entries := logs.FilterMessage("http_request").All()
	require.Len(t, entries, 2)

	kpi := entries[0].ContextMap()
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "req-42", kpi["request_id"])
	assert.Equal(t, int64(7), kpi["company_id"])
	assert.Equal(t, "turnover_rate", kpi["kpi"])

	upload := entries[1].ContextMap()
	assert.Equal(t, zapcore.DebugLevel, entries[1].Level)
	assert.Equal(t, "s1.xlsx", upload["upload_file"])
	assert.Equal(t, "invalid_file", upload["error_code"])
	assert.NotContains(t, upload, "company_id")
}

func TestRequestLevel(t *testing.T) {
	assert.Equal(t, zapcore.ErrorLevel, requestLevel("/api/reports", 503, ""))
	assert.Equal(t, zapcore.DebugLevel, requestLevel("/health", 200, ""))
	assert.Equal(t, zapcore.WarnLevel, requestLevel("/api/kpis", 401, "unauthorized"))
	assert.Equal(t, zapcore.WarnLevel, requestLevel("/api/reports", 429, "rate_limited"))
	assert.Equal(t, zapcore.InfoLevel, requestLevel("/api/kpis", 400, "validation_error"))
	assert.Equal(t, zapcore.DebugLevel, requestLevel("/api/uploads", 400, "validation_error"))
}
