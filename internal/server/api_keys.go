package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	apikeydomain "github.com/smallbiznis/workforcekpi/internal/apikey/domain"
	auditdomain "github.com/smallbiznis/workforcekpi/internal/audit/domain"
	"github.com/smallbiznis/workforcekpi/internal/observability/logger"
	"go.uber.org/zap"
)

func (s *Server) ListAPIKeys(c *gin.Context) {
	keys, err := s.apiKeySvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, keys)
}

func (s *Server) CreateAPIKey(c *gin.Context) {
	var req apikeydomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.apiKeySvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	logger.FromContext(c.Request.Context()).Info("api key created",
		zap.String("key_id", resp.KeyID),
		zap.String("role", string(resp.Role)),
	)
	s.recordAudit(c, auditdomain.Entry{
		Action:     auditdomain.ActionAPIKeyCreated,
		TargetType: "api_key",
		TargetID:   resp.KeyID,
		Metadata:   map[string]any{"name": strings.TrimSpace(req.Name), "role": string(resp.Role)},
	})
	c.JSON(http.StatusCreated, resp)
}

func (s *Server) RotateAPIKey(c *gin.Context) {
	keyID := strings.TrimSpace(c.Param("key_id"))
	resp, err := s.apiKeySvc.Rotate(c.Request.Context(), keyID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	logger.FromContext(c.Request.Context()).Info("api key rotated",
		zap.String("key_id", resp.KeyID),
		zap.String("rotated_from_key_id", keyID),
	)
	s.recordAudit(c, auditdomain.Entry{
		Action:     auditdomain.ActionAPIKeyRotated,
		TargetType: "api_key",
		TargetID:   resp.KeyID,
		Metadata:   map[string]any{"rotated_from_key_id": keyID},
	})
	c.JSON(http.StatusOK, resp)
}

func (s *Server) RevokeAPIKey(c *gin.Context) {
	keyID := strings.TrimSpace(c.Param("key_id"))
	if err := s.apiKeySvc.Revoke(c.Request.Context(), keyID); err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, auditdomain.Entry{
		Action:     auditdomain.ActionAPIKeyRevoked,
		TargetType: "api_key",
		TargetID:   keyID,
	})
	c.Status(http.StatusNoContent)
}
