package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/smallbiznis/workforcekpi/internal/workforce/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const insertBatchSize = 500

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) LoadDataset(ctx context.Context, db *gorm.DB, companyID int64) (*domain.Dataset, error) {
	var dataset domain.Dataset
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("company_id = ?", companyID).Order("id").Find(&dataset.OrgUnits).Error; err != nil {
			return fmt.Errorf("load organizational units: %w", err)
		}
		if err := tx.Where("company_id = ?", companyID).Order("id").Find(&dataset.CompositionFacts).Error; err != nil {
			return fmt.Errorf("load workforce composition: %w", err)
		}
		if err := tx.Where("company_id = ?", companyID).Order("id").Find(&dataset.DiversityFacts).Error; err != nil {
			return fmt.Errorf("load workforce diversity: %w", err)
		}
		if err := tx.Where("company_id = ?", companyID).Order("id").Find(&dataset.TurnoverFacts).Error; err != nil {
			return fmt.Errorf("load employee turnover: %w", err)
		}
		if err := tx.Where("company_id = ?", companyID).Order("id").Find(&dataset.TrainingFacts).Error; err != nil {
			return fmt.Errorf("load employee training: %w", err)
		}
		if err := tx.Where("company_id = ?", companyID).Order("id").Find(&dataset.InjuryFacts).Error; err != nil {
			return fmt.Errorf("load workplace injuries: %w", err)
		}
		return nil
	}, readTxOptions(db))
	if err != nil {
		return nil, err
	}
	return &dataset, nil
}

func (r *repo) ListUnits(ctx context.Context, db *gorm.DB, companyID int64) ([]domain.OrganizationalUnit, error) {
	var units []domain.OrganizationalUnit
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, company_id, is_deleted, created_at, updated_at
		 FROM organizational_units
		 WHERE company_id = ? AND is_deleted = ?
		 ORDER BY id`,
		companyID,
		false,
	).Scan(&units).Error
	if err != nil {
		return nil, err
	}
	return units, nil
}

func (r *repo) ReplaceFacts(ctx context.Context, db *gorm.DB, dataset *domain.Dataset) error {
	db = db.WithContext(ctx)
	for _, model := range domain.Models()[1:] {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return fmt.Errorf("clear %T: %w", model, err)
		}
	}
	if dataset == nil {
		return nil
	}

	if err := insertAll(db, dataset.CompositionFacts); err != nil {
		return err
	}
	if err := insertAll(db, dataset.DiversityFacts); err != nil {
		return err
	}
	if err := insertAll(db, dataset.TurnoverFacts); err != nil {
		return err
	}
	if err := insertAll(db, dataset.TrainingFacts); err != nil {
		return err
	}
	if err := insertAll(db, dataset.InjuryFacts); err != nil {
		return err
	}
	return insertAll(db, dataset.HeadcountFacts)
}

func (r *repo) UpsertUnits(ctx context.Context, db *gorm.DB, units []domain.OrganizationalUnit) error {
	if len(units) == 0 {
		return nil
	}
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "company_id", "is_deleted", "updated_at"}),
	}).CreateInBatches(&units, insertBatchSize).Error
}

func insertAll[T any](db *gorm.DB, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	if err := db.CreateInBatches(&rows, insertBatchSize).Error; err != nil {
		var zero T
		return fmt.Errorf("insert %T: %w", zero, err)
	}
	return nil
}

// readTxOptions pins a repeatable snapshot where the driver supports it.
func readTxOptions(db *gorm.DB) *sql.TxOptions {
	switch db.Dialector.Name() {
	case "postgres", "mysql":
		return &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
	default:
		return nil
	}
}

func (r *repo) LatestVersion(ctx context.Context, db *gorm.DB) (string, error) {
	var ids []string
	err := db.WithContext(ctx).Raw(
		`SELECT id FROM ingestion_runs
		 WHERE status = ?
		 ORDER BY finished_at DESC, id DESC
		 LIMIT 1`,
		domain.RunStatusSucceeded,
	).Scan(&ids).Error
	if err != nil {
		return "", fmt.Errorf("load dataset version: %w", err)
	}
	if len(ids) == 0 {
		return "", nil
	}
	return ids[0], nil
}
