package server

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/smallbiznis/workforcekpi/internal/audit/domain"
	ingestdomain "github.com/smallbiznis/workforcekpi/internal/ingest/domain"
	obsmiddleware "github.com/smallbiznis/workforcekpi/internal/observability/logger"
	"github.com/smallbiznis/workforcekpi/pkg/db/pagination"
)

const (
	maxUploadBytes  = 32 << 20
	maxListPageSize = 250
)

func (s *Server) UploadWorkbook(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		AbortWithError(c, newValidationError("file", "required", "file is required"))
		return
	}
	c.Set(obsmiddleware.ContextKeyUploadFile, header.Filename)

	if header.Size > maxUploadBytes {
		AbortWithError(c, newValidationError("file", "too_large", "file exceeds the upload size limit"))
		return
	}

	f, err := header.Open()
	if err != nil {
		AbortWithError(c, ingestdomain.ErrInvalidFile)
		return
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil {
		AbortWithError(c, ingestdomain.ErrInvalidFile)
		return
	}
	if len(content) > maxUploadBytes {
		AbortWithError(c, newValidationError("file", "too_large", "file exceeds the upload size limit"))
		return
	}

	result, err := s.ingestSvc.Ingest(c.Request.Context(), ingestdomain.IngestRequest{
		FileName: header.Filename,
		Content:  content,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, auditdomain.Entry{
		Action:     auditdomain.ActionUploadIngested,
		TargetType: "ingestion_run",
		TargetID:   result.RunID,
		Metadata: map[string]any{
			"file_name":        header.Filename,
			"processed_sheets": result.ProcessedSheets,
			"skipped_sheets":   result.SkippedSheets,
		},
	})
	c.JSON(http.StatusOK, result)
}

func (s *Server) ListUploads(c *gin.Context) {
	var page pagination.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if page.PageSize < 1 || page.PageSize > maxListPageSize {
		AbortWithError(c, newValidationError("page_size", "invalid_page_size", "page_size must be between 1 and 250"))
		return
	}
	if token := strings.TrimSpace(page.PageToken); token != "" {
		if _, err := pagination.DecodeCursor(token); err != nil {
			AbortWithError(c, newValidationError("page_token", "invalid_page_token", "page_token is malformed"))
			return
		}
	}

	resp, err := s.ingestSvc.ListRuns(c.Request.Context(), ingestdomain.ListRunsRequest{Pagination: page})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetUpload(c *gin.Context) {
	run, err := s.ingestSvc.GetRun(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, run)
}
