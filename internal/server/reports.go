package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/smallbiznis/workforcekpi/internal/audit/domain"
	obscontext "github.com/smallbiznis/workforcekpi/internal/observability/context"
	obsmiddleware "github.com/smallbiznis/workforcekpi/internal/observability/logger"
	reportdomain "github.com/smallbiznis/workforcekpi/internal/report/domain"
)

func (s *Server) GenerateReport(c *gin.Context) {
	var req reportdomain.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	c.Set(obsmiddleware.ContextKeyReportType, string(req.Type))
	if req.CompanyID > 0 {
		c.Request = c.Request.WithContext(obscontext.WithCompanyID(c.Request.Context(), req.CompanyID))
	}

	resp, err := s.reportSvc.Generate(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, auditdomain.Entry{
		Action:     auditdomain.ActionReportGenerated,
		TargetType: "report",
		TargetID:   resp.File.Name,
		Metadata: map[string]any{
			"company_id": req.CompanyID,
			"year":       req.Year,
			"type":       req.Type,
		},
	})
	c.JSON(http.StatusOK, resp)
}
