package logger

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	obscontext "github.com/smallbiznis/workforcekpi/internal/observability/context"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Keys handlers set on the gin context to enrich the request log line.
const (
	ContextKeyUploadFile = "upload_file"
	ContextKeyReportType = "report_type"

	headerRequestID = "X-Request-Id"
	uploadRoute     = "/api/uploads"
)

// MiddlewareConfig controls request logging behavior.
type MiddlewareConfig struct {
	Debug           bool
	ErrorClassifier func(err error) (string, string)
}

// GinMiddleware assigns a request id, records the company named in the
// query string and writes one log line per request.
func GinMiddleware(cfg MiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		ctx := obscontext.WithRequestID(c.Request.Context(), ensureRequestID(c))
		if companyID, ok := queryCompanyID(c); ok {
			ctx = obscontext.WithCompanyID(ctx, companyID)
		}
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		route := strings.TrimSpace(c.FullPath())
		if route == "" {
			route = "unknown"
		}
		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
			zap.Int64("bytes_in", max(c.Request.ContentLength, 0)),
			zap.Int("bytes_out", max(c.Writer.Size(), 0)),
		}
		if name := strings.TrimSpace(c.Param("name")); name != "" {
			fields = append(fields, zap.String("kpi", name))
		}
		for _, key := range []string{ContextKeyUploadFile, ContextKeyReportType} {
			if v := strings.TrimSpace(c.GetString(key)); v != "" {
				fields = append(fields, zap.String(key, v))
			}
		}

		var errorType string
		if lastErr := c.Errors.Last(); lastErr != nil {
			var errorCode string
			if cfg.ErrorClassifier != nil {
				errorType, errorCode = cfg.ErrorClassifier(lastErr.Err)
			}
			fields = append(fields,
				zap.String("error_type", errorType),
				zap.String("error_code", errorCode),
			)
			if cfg.Debug {
				fields = append(fields, zap.Stack("stack"))
			}
		}

		if ce := FromContext(c.Request.Context()).Check(requestLevel(route, status, errorType), "http_request"); ce != nil {
			ce.Write(fields...)
		}
	}
}

func ensureRequestID(c *gin.Context) string {
	requestID := strings.TrimSpace(c.GetHeader(headerRequestID))
	if requestID == "" {
		requestID = strings.TrimSpace(c.GetString("request_id"))
	}
	if requestID == "" {
		requestID = uuid.NewString()
	}

	c.Set("request_id", requestID)
	c.Header(headerRequestID, requestID)
	return requestID
}

// queryCompanyID reads company_id from KPI and org unit queries. Malformed
// values are left for the handler to reject.
func queryCompanyID(c *gin.Context) (int64, bool) {
	raw := strings.TrimSpace(c.Query("company_id"))
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// requestLevel keeps probes and rejected workbooks out of the info stream
// and surfaces denied credentials as warnings.
func requestLevel(route string, status int, errorType string) zapcore.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return zapcore.ErrorLevel
	case route == "/metrics" || route == "/health":
		return zapcore.DebugLevel
	case status == http.StatusUnauthorized, status == http.StatusForbidden, status == http.StatusTooManyRequests:
		return zapcore.WarnLevel
	case route == uploadRoute && errorType == "validation_error":
		return zapcore.DebugLevel
	default:
		return zapcore.InfoLevel
	}
}
