package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	workforcedomain "github.com/smallbiznis/workforcekpi/internal/workforce/domain"
)

type orgUnitListResponse struct {
	CompanyID int64                                `json:"company_id"`
	Units     []workforcedomain.OrganizationalUnit `json:"organizational_units"`
}

func (s *Server) ListOrgUnits(c *gin.Context) {
	companyID, err := parseCompanyID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	units, err := s.workforceSvc.ListUnits(c.Request.Context(), companyID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if units == nil {
		units = []workforcedomain.OrganizationalUnit{}
	}

	c.JSON(http.StatusOK, orgUnitListResponse{CompanyID: companyID, Units: units})
}
