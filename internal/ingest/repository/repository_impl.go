package repository

import (
	"context"
	"fmt"

	"github.com/smallbiznis/workforcekpi/internal/ingest/domain"
	"github.com/smallbiznis/workforcekpi/pkg/db/option"
	"github.com/smallbiznis/workforcekpi/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, run *domain.Run) error {
	if err := db.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("insert ingestion run: %w", err)
	}
	return nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id string) (*domain.Run, error) {
	var runs []domain.Run
	err := db.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&runs).Error
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, page pagination.Pagination) ([]*domain.Run, error) {
	var runs []*domain.Run
	stmt := db.WithContext(ctx).Model(&domain.Run{})
	stmt = option.ApplyPagination(page).Apply(stmt)
	if err := stmt.Order("created_at DESC").Order("id DESC").Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}
