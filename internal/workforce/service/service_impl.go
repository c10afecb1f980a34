package service

import (
	"context"

	"github.com/smallbiznis/workforcekpi/internal/workforce/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo domain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("workforce.service"),
		repo: p.Repo,
	}
}

func (s *Service) Snapshot(ctx context.Context, companyID int64) (*domain.Dataset, error) {
	if companyID <= 0 {
		return nil, domain.ErrInvalidCompany
	}
	dataset, err := s.repo.LoadDataset(ctx, s.db, companyID)
	if err != nil {
		return nil, err
	}
	s.log.Debug("dataset loaded",
		zap.Int64("company_id", companyID),
		zap.Int("units", len(dataset.OrgUnits)),
		zap.Int("composition_rows", len(dataset.CompositionFacts)),
	)
	return dataset, nil
}

func (s *Service) ListUnits(ctx context.Context, companyID int64) ([]domain.OrganizationalUnit, error) {
	if companyID <= 0 {
		return nil, domain.ErrInvalidCompany
	}
	units, err := s.repo.ListUnits(ctx, s.db, companyID)
	if err != nil {
		return nil, err
	}
	if units == nil {
		units = []domain.OrganizationalUnit{}
	}
	return units, nil
}

func (s *Service) Version(ctx context.Context) (string, error) {
	version, err := s.repo.LatestVersion(ctx, s.db)
	if err != nil {
		return "", err
	}
	if version == "" {
		return domain.InitialVersion, nil
	}
	return version, nil
}
