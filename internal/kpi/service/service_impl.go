package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/smallbiznis/workforcekpi/internal/cache"
	"github.com/smallbiznis/workforcekpi/internal/kpi/domain"
	"github.com/smallbiznis/workforcekpi/internal/kpi/engine"
	"github.com/smallbiznis/workforcekpi/internal/observability/logger"
	"github.com/smallbiznis/workforcekpi/internal/observability/metrics"
	workforcedomain "github.com/smallbiznis/workforcekpi/internal/workforce/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log       *zap.Logger
	Workforce workforcedomain.Service
	Cache     cache.KPICache   `optional:"true"`
	Metrics   *metrics.Metrics `optional:"true"`
}

type Service struct {
	log       *zap.Logger
	workforce workforcedomain.Service
	cache     cache.KPICache
	metrics   *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		log:       p.Log.Named("kpi.service"),
		workforce: p.Workforce,
		cache:     p.Cache,
		metrics:   p.Metrics,
	}
}

func (s *Service) Compute(ctx context.Context, filter domain.Filter) (domain.Data, error) {
	filter, err := filter.Normalize()
	if err != nil {
		return domain.Data{}, err
	}

	ctx, span := otel.Tracer("workforcekpi/kpi").Start(ctx, "kpi.compute")
	defer span.End()
	span.SetAttributes(attribute.Int64("company_id", filter.CompanyID))

	data, err := s.compute(ctx, filter)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "kpi computation failed")
		s.metrics.RecordKPIComputation(ctx, "error")
		return domain.Data{}, err
	}
	s.metrics.RecordKPIComputation(ctx, "success")
	return data, nil
}

func (s *Service) compute(ctx context.Context, filter domain.Filter) (domain.Data, error) {
	log := logger.WithCompany(ctx, s.log, filter.CompanyID)

	version, err := s.workforce.Version(ctx)
	if err != nil {
		return domain.Data{}, unavailable(err)
	}

	if s.cache != nil {
		if data, ok := s.cache.Get(ctx, version, filter); ok {
			s.metrics.RecordKPICacheHit(ctx)
			return data, nil
		}
	}

	snapshot, err := s.workforce.Snapshot(ctx, filter.CompanyID)
	if err != nil {
		if errors.Is(err, workforcedomain.ErrInvalidCompany) {
			return domain.Data{}, fmt.Errorf("%w: %v", domain.ErrInvalidFilter, err)
		}
		log.Error("load dataset failed", zap.Error(err))
		return domain.Data{}, unavailable(err)
	}

	data := engine.BuildAll(snapshot, filter)
	if s.cache != nil {
		s.cache.Set(ctx, version, filter, data)
	}

	log.Debug("kpis computed",
		zap.String("version", version),
		zap.Ints("years", filter.Years),
		zap.Int64("total_employees", data.TurnoverRate.TotalEmployees),
	)
	return data, nil
}

func (s *Service) Compare(ctx context.Context, filter domain.Filter, year int) (domain.Comparison, error) {
	current, err := s.Compute(ctx, filter.ForYear(year))
	if err != nil {
		return domain.Comparison{}, err
	}

	prior, err := s.Compute(ctx, filter.ForYear(year-1))
	if err != nil {
		// An out of range prior year leaves the comparison without history.
		if errors.Is(err, domain.ErrInvalidFilter) {
			return domain.Comparison{Current: current}, nil
		}
		return domain.Comparison{}, err
	}

	out := domain.Comparison{Current: current}
	if prior.TurnoverRate.TotalEmployees > 0 {
		out.Historical = &prior
	}
	return out, nil
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrDataUnavailable, err)
}
