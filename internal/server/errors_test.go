package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/smallbiznis/workforcekpi/internal/authorization"
	kpidomain "github.com/smallbiznis/workforcekpi/internal/kpi/domain"
	"github.com/smallbiznis/workforcekpi/internal/ratelimit"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		err    error
		status int
		kind   string
	}{
		{nil, http.StatusInternalServerError, "internal_error"},
		{errors.New("boom"), http.StatusInternalServerError, "internal_error"},
		{authorization.ErrForbidden, http.StatusForbidden, "forbidden"},
		{ratelimit.ErrUploadInProgress, http.StatusConflict, "conflict"},
		{ErrRateLimited, http.StatusTooManyRequests, "rate_limited"},
		{gorm.ErrRecordNotFound, http.StatusNotFound, "not_found"},
		{fmt.Errorf("compute: %w", kpidomain.ErrDataUnavailable), http.StatusServiceUnavailable, "service_unavailable"},
	}
	for _, tc := range cases {
		status, payload := mapError(tc.err)
		assert.Equal(t, tc.status, status, "%v", tc.err)
		assert.Equal(t, tc.kind, payload.Type, "%v", tc.err)
	}
}

func TestMapError_KeepsValidationDetail(t *testing.T) {
	_, payload := mapError(fmt.Errorf("%w: year 24 is not a 4-digit year", kpidomain.ErrInvalidFilter))

	assert.Equal(t, "validation_error", payload.Type)
	assert.Equal(t, []ValidationError{{
		Field:   "filter",
		Code:    "invalid_filter",
		Message: "year 24 is not a 4-digit year",
	}}, payload.Errors)
}

func TestClassifyErrorForLog(t *testing.T) {
	kind, code := classifyErrorForLog(newValidationError("years", "invalid_year", "bad"))
	assert.Equal(t, "validation_error", kind)
	assert.Equal(t, "invalid_year", code)

	kind, code = classifyErrorForLog(ErrUnauthorized)
	assert.Equal(t, "unauthorized", kind)
	assert.Equal(t, "unauthorized", code)
}

func TestBearerToken(t *testing.T) {
	token, ok := bearerToken("Bearer wk_live_abc")
	assert.True(t, ok)
	assert.Equal(t, "wk_live_abc", token)

	for _, header := range []string{"", "Bearer", "Basic abc", "Bearer a b"} {
		_, ok := bearerToken(header)
		assert.False(t, ok, header)
	}
}

func TestRetryAfterSeconds(t *testing.T) {
	assert.Equal(t, "1", retryAfterSeconds(0))
	assert.Equal(t, "1", retryAfterSeconds(200*time.Millisecond))
	assert.Equal(t, "3", retryAfterSeconds(2500*time.Millisecond))
}
