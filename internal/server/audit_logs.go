package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/smallbiznis/workforcekpi/internal/audit/domain"
	"github.com/smallbiznis/workforcekpi/internal/observability/logger"
	"go.uber.org/zap"
)

func (s *Server) ListAuditLogs(c *gin.Context) {
	if s.auditSvc == nil {
		AbortWithError(c, ErrNotFound)
		return
	}

	pageSize, err := parseOptionalInt64(c.Query("page_size"))
	if err != nil || (pageSize != nil && (*pageSize < 1 || *pageSize > maxListPageSize)) {
		AbortWithError(c, newValidationError("page_size", "invalid_page_size", "page_size must be between 1 and 250"))
		return
	}
	startAt, err := parseOptionalTime(c.Query("start_at"), false)
	if err != nil {
		AbortWithError(c, newValidationError("start_at", "invalid_start_at", "start_at must be RFC3339 or YYYY-MM-DD"))
		return
	}
	endAt, err := parseOptionalTime(c.Query("end_at"), true)
	if err != nil {
		AbortWithError(c, newValidationError("end_at", "invalid_end_at", "end_at must be RFC3339 or YYYY-MM-DD"))
		return
	}

	req := auditdomain.ListRequest{
		Action:     strings.TrimSpace(c.Query("action")),
		TargetType: strings.TrimSpace(c.Query("target_type")),
		TargetID:   strings.TrimSpace(c.Query("target_id")),
		ActorType:  strings.TrimSpace(c.Query("actor_type")),
		StartAt:    startAt,
		EndAt:      endAt,
	}
	req.PageToken = strings.TrimSpace(c.Query("page_token"))
	if pageSize != nil {
		req.PageSize = int(*pageSize)
	}

	resp, err := s.auditSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// recordAudit never fails the request; a lost audit entry is logged.
func (s *Server) recordAudit(c *gin.Context, entry auditdomain.Entry) {
	if s.auditSvc == nil {
		return
	}
	ctx := c.Request.Context()
	if err := s.auditSvc.Record(ctx, entry); err != nil {
		logger.FromContext(ctx).Warn("audit record failed", zap.String("action", entry.Action), zap.Error(err))
	}
}
