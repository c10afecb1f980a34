package domain

import (
	"context"

	"github.com/smallbiznis/workforcekpi/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, run *Run) error
	FindByID(ctx context.Context, db *gorm.DB, id string) (*Run, error)
	// List returns runs newest first, one row past the page size.
	List(ctx context.Context, db *gorm.DB, page pagination.Pagination) ([]*Run, error)
}
