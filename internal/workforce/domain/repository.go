package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	// LoadDataset reads the units and facts of one company.
	LoadDataset(ctx context.Context, db *gorm.DB, companyID int64) (*Dataset, error)
	ListUnits(ctx context.Context, db *gorm.DB, companyID int64) ([]OrganizationalUnit, error)
	// ReplaceFacts deletes every fact row and inserts the dataset's facts.
	ReplaceFacts(ctx context.Context, db *gorm.DB, dataset *Dataset) error
	UpsertUnits(ctx context.Context, db *gorm.DB, units []OrganizationalUnit) error
	// LatestVersion returns the id of the most recent successful ingestion run.
	LatestVersion(ctx context.Context, db *gorm.DB) (string, error)
}
