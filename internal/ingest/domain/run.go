package domain

import (
	"time"

	workforcedomain "github.com/smallbiznis/workforcekpi/internal/workforce/domain"
	"gorm.io/datatypes"
)

const (
	RunStatusSucceeded = workforcedomain.RunStatusSucceeded
	RunStatusFailed    = "failed"
)

// Run records one workbook ingestion. Successful run ids double as the
// dataset version that keys cached KPI results.
type Run struct {
	ID              string         `gorm:"primaryKey;type:varchar(26)" json:"id"`
	FileName        string         `gorm:"type:text;not null;default:''" json:"file_name"`
	Status          string         `gorm:"type:text;not null" json:"status"`
	ProcessedSheets datatypes.JSON `gorm:"not null" json:"processed_sheets"`
	SkippedSheets   datatypes.JSON `gorm:"not null" json:"skipped_sheets"`
	RowCounts       datatypes.JSON `gorm:"not null" json:"row_counts"`
	CompanyID       int64          `gorm:"not null;default:0" json:"company_id"`
	Error           string         `gorm:"type:text;not null;default:''" json:"error,omitempty"`
	CreatedAt       time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	FinishedAt      *time.Time     `json:"finished_at,omitempty"`
}

func (Run) TableName() string { return "ingestion_runs" }
