package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/smallbiznis/workforcekpi/internal/config"
	kpidomain "github.com/smallbiznis/workforcekpi/internal/kpi/domain"
	"github.com/smallbiznis/workforcekpi/internal/narrative"
	"github.com/smallbiznis/workforcekpi/internal/observability/metrics"
	"github.com/smallbiznis/workforcekpi/internal/report/chart"
	"github.com/smallbiznis/workforcekpi/internal/report/domain"
	"github.com/smallbiznis/workforcekpi/internal/report/render"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("workforcekpi/report")

type Params struct {
	fx.In

	Log       *zap.Logger
	KPI       kpidomain.Service
	Narrative *narrative.Generator
	Layout    *config.LayoutHolder
	Metrics   *metrics.Metrics `optional:"true"`
}

type Service struct {
	log       *zap.Logger
	kpi       kpidomain.Service
	narrative *narrative.Generator
	layout    *config.LayoutHolder
	metrics   *metrics.Metrics
	renderers map[domain.Type]render.Renderer
	now       func() time.Time
}

func New(p Params) domain.Service {
	return &Service{
		log:       p.Log.Named("report.service"),
		kpi:       p.KPI,
		narrative: p.Narrative,
		layout:    p.Layout,
		metrics:   p.Metrics,
		renderers: map[domain.Type]render.Renderer{
			domain.TypePDF:  render.PDF{},
			domain.TypeDOCX: render.DOCX{},
			domain.TypeXLSX: render.XLSX{},
		},
		now: time.Now,
	}
}

func (s *Service) Generate(ctx context.Context, req domain.Request) (*domain.Response, error) {
	fileType, err := domain.ParseType(req.Type)
	if err != nil {
		return nil, err
	}
	if req.CompanyID <= 0 {
		return nil, fmt.Errorf("%w: company_id must be positive", domain.ErrInvalidRequest)
	}
	if req.Year < 1000 || req.Year > 9999 {
		return nil, fmt.Errorf("%w: year must have four digits", domain.ErrInvalidRequest)
	}

	ctx, span := tracer.Start(ctx, "report.generate")
	defer span.End()
	span.SetAttributes(attribute.String("report.type", string(fileType)), attribute.Int("report.year", req.Year))

	current, historical, err := s.kpiData(ctx, req)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	sections := s.narrative.Generate(ctx, current, historical)

	charts, err := chart.FromKPIs(current, historical)
	if err != nil {
		return nil, fmt.Errorf("render charts: %w", err)
	}

	layout := s.layout.Get()
	var logo []byte
	if layout.Cover.ShowLogo {
		if logo, err = chart.Placeholder(); err != nil {
			return nil, fmt.Errorf("render logo: %w", err)
		}
	}

	doc := render.Document{
		Layout:       layout,
		CompanyLabel: companyLabel(req.CompanyID, req.CompanyName),
		Year:         req.Year,
		Date:         s.now(),
		KPIs:         current,
		Sections:     sections,
		Charts:       charts,
		Logo:         logo,
	}
	file, err := s.renderers[fileType].Render(doc)
	if err != nil {
		s.log.Error("render report", zap.String("type", string(fileType)), zap.Error(err))
		return nil, fmt.Errorf("render %s: %w", fileType, err)
	}

	s.metrics.RecordReport(ctx, string(fileType))

	resp := &domain.Response{
		Sections: make(map[string]string, len(sections)),
		Charts:   make(map[string]*string, len(chart.Keys())),
		File: domain.File{
			Name:   fileName(req.CompanyID, req.CompanyName, req.Year, fileType),
			Base64: base64.StdEncoding.EncodeToString(file),
		},
	}
	for key, text := range sections {
		resp.Sections[key] = text
	}
	for _, key := range chart.Keys() {
		resp.Charts[key] = nil
		if png, ok := charts[key]; ok {
			encoded := chart.Encode(png)
			resp.Charts[key] = &encoded
		}
	}

	s.log.Info("report generated",
		zap.Int64("company_id", req.CompanyID),
		zap.Int("year", req.Year),
		zap.String("type", string(fileType)),
		zap.Int("bytes", len(file)),
	)
	return resp, nil
}

// kpiData resolves the current and prior year KPIs, computing whatever the
// request did not carry. A prior year without employees has no history.
func (s *Service) kpiData(ctx context.Context, req domain.Request) (kpidomain.Data, *kpidomain.Data, error) {
	if req.KPIData != nil && req.HistoricalKPIData != nil {
		hist := req.HistoricalKPIData.Normalized()
		return req.KPIData.Normalized(), &hist, nil
	}

	cmp, err := s.kpi.Compare(ctx, kpidomain.Filter{CompanyID: req.CompanyID}, req.Year)
	if err != nil {
		if req.KPIData == nil || !errors.Is(err, kpidomain.ErrDataUnavailable) {
			return kpidomain.Data{}, nil, err
		}
		s.log.Warn("prior year kpis unavailable", zap.Int64("company_id", req.CompanyID), zap.Error(err))
	}

	current := cmp.Current
	if req.KPIData != nil {
		current = req.KPIData.Normalized()
	}
	historical := cmp.Historical
	if req.HistoricalKPIData != nil {
		hist := req.HistoricalKPIData.Normalized()
		historical = &hist
	}
	return current, historical, nil
}
