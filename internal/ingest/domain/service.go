package domain

import (
	"context"
	"errors"

	kpidomain "github.com/smallbiznis/workforcekpi/internal/kpi/domain"
	"github.com/smallbiznis/workforcekpi/pkg/db/pagination"
)

type Service interface {
	// Ingest replaces the fact tables with the workbook's contents.
	Ingest(ctx context.Context, req IngestRequest) (*IngestResult, error)
	ListRuns(ctx context.Context, req ListRunsRequest) (ListRunsResponse, error)
	GetRun(ctx context.Context, id string) (*Run, error)
}

type IngestRequest struct {
	FileName string
	Content  []byte
}

const SuccessMessage = "Excel processed successfully"

type IngestResult struct {
	Message         string          `json:"message"`
	RunID           string          `json:"run_id"`
	ProcessedSheets []string        `json:"processed_sheets"`
	SkippedSheets   []string        `json:"skipped_sheets"`
	RowCounts       map[string]int  `json:"row_counts"`
	KPIResult       *kpidomain.Data `json:"kpi_result,omitempty"`
}

type ListRunsRequest struct {
	pagination.Pagination
}

type ListRunsResponse struct {
	pagination.PageInfo
	Runs []Run `json:"runs"`
}

var (
	ErrInvalidFile      = errors.New("invalid_file")
	ErrNoMatchingSheets = errors.New("no_matching_sheets")
	ErrInvalidRow       = errors.New("invalid_row")
	ErrRunNotFound      = errors.New("run_not_found")
	ErrUploadInProgress = errors.New("upload_in_progress")
)
