package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	kpidomain "github.com/smallbiznis/workforcekpi/internal/kpi/domain"
)

// ListKPIs returns the full result set keyed by the seven KPI names.
func (s *Server) ListKPIs(c *gin.Context) {
	filter, err := parseKPIFilter(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	data, err := s.kpiSvc.Compute(c.Request.Context(), filter)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, data.Normalized())
}

func (s *Server) GetKPI(c *gin.Context) {
	slug := strings.ToLower(strings.TrimSpace(c.Param("name")))
	if _, _, ok := (kpidomain.Data{}).Lookup(slug); !ok {
		AbortWithError(c, kpidomain.ErrUnknownKPI)
		return
	}

	filter, err := parseKPIFilter(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	data, err := s.kpiSvc.Compute(c.Request.Context(), filter)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	key, value, _ := data.Normalized().Lookup(slug)
	c.JSON(http.StatusOK, gin.H{key: value})
}
