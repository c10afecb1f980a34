package service

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/oklog/ulid/v2"
	"github.com/smallbiznis/workforcekpi/internal/ingest/domain"
	"github.com/smallbiznis/workforcekpi/internal/ingest/workbook"
	kpidomain "github.com/smallbiznis/workforcekpi/internal/kpi/domain"
	"github.com/smallbiznis/workforcekpi/internal/kpiexport"
	"github.com/smallbiznis/workforcekpi/internal/observability/logger"
	"github.com/smallbiznis/workforcekpi/internal/observability/metrics"
	"github.com/smallbiznis/workforcekpi/internal/ratelimit"
	workforcedomain "github.com/smallbiznis/workforcekpi/internal/workforce/domain"
	"github.com/smallbiznis/workforcekpi/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	defaultRunPageSize = 10
	maxRunPageSize     = 250
)

type Params struct {
	fx.In

	DB            *gorm.DB
	Log           *zap.Logger
	GenID         *snowflake.Node
	Repo          domain.Repository
	WorkforceRepo workforcedomain.Repository
	KPI           kpidomain.Service
	Limiter       *ratelimit.Limiter   `optional:"true"`
	Publisher     *kpiexport.Publisher `optional:"true"`
	Metrics       *metrics.Metrics     `optional:"true"`
}

type Service struct {
	db            *gorm.DB
	log           *zap.Logger
	repo          domain.Repository
	workforceRepo workforcedomain.Repository
	kpi           kpidomain.Service
	limiter       *ratelimit.Limiter
	publisher     *kpiexport.Publisher
	metrics       *metrics.Metrics
	parser        *workbook.Parser
	now           func() time.Time
}

func New(p Params) domain.Service {
	return &Service{
		db:            p.DB,
		log:           p.Log.Named("ingest.service"),
		repo:          p.Repo,
		workforceRepo: p.WorkforceRepo,
		kpi:           p.KPI,
		limiter:       p.Limiter,
		publisher:     p.Publisher,
		metrics:       p.Metrics,
		parser:        workbook.NewParser(p.GenID, time.Now),
		now:           time.Now,
	}
}

func (s *Service) Ingest(ctx context.Context, req domain.IngestRequest) (*domain.IngestResult, error) {
	log := logger.WithContext(ctx, s.log).With(zap.String("file_name", req.FileName))

	if !strings.EqualFold(filepath.Ext(strings.TrimSpace(req.FileName)), ".xlsx") {
		return nil, fmt.Errorf("%w: file must be an Excel .xlsx file", domain.ErrInvalidFile)
	}
	if len(req.Content) == 0 {
		return nil, fmt.Errorf("%w: file is empty", domain.ErrInvalidFile)
	}

	lease, err := s.lock(ctx, req.FileName, log)
	if err != nil {
		return nil, err
	}
	defer s.unlock(ctx, lease, log)

	wb, err := s.parser.Parse(req.Content)
	if err != nil {
		s.fail(ctx, req.FileName, err, log)
		return nil, err
	}
	if len(wb.Processed) == 0 {
		err := fmt.Errorf("%w: no valid sheets matched any known model", domain.ErrNoMatchingSheets)
		s.fail(ctx, req.FileName, err, log)
		return nil, err
	}

	run, err := s.newRun(req.FileName, domain.RunStatusSucceeded, wb)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.workforceRepo.UpsertUnits(ctx, tx, wb.Dataset.OrgUnits); err != nil {
			return err
		}
		if err := s.workforceRepo.ReplaceFacts(ctx, tx, &wb.Dataset); err != nil {
			return err
		}
		return s.repo.Insert(ctx, tx, run)
	})
	if err != nil {
		log.Error("ingestion failed", zap.Error(err))
		s.fail(ctx, req.FileName, err, log)
		return nil, err
	}

	counts := wb.Dataset.RowCounts()
	for table, rows := range counts {
		s.metrics.RecordIngestedRows(ctx, table, rows)
	}
	s.metrics.RecordIngestionRun(ctx, "success")
	log.Info("workbook ingested",
		zap.String("run_id", run.ID),
		zap.Strings("processed_sheets", wb.Processed),
		zap.Strings("skipped_sheets", wb.Skipped),
	)

	result := &domain.IngestResult{
		Message:         domain.SuccessMessage,
		RunID:           run.ID,
		ProcessedSheets: wb.Processed,
		SkippedSheets:   wb.Skipped,
		RowCounts:       counts,
	}

	if wb.CompanyID > 0 {
		data, err := s.kpi.Compute(ctx, kpidomain.Filter{CompanyID: wb.CompanyID})
		if err != nil {
			log.Warn("kpi computation after ingestion failed", zap.Error(err))
		} else {
			result.KPIResult = &data
			if err := s.publisher.Publish(ctx, wb.CompanyID, data); err != nil {
				log.Warn("kpi export after ingestion failed", zap.Error(err))
			}
		}
	}
	return result, nil
}

func (s *Service) lock(ctx context.Context, fileName string, log *zap.Logger) (ratelimit.Lease, error) {
	if s.limiter == nil {
		return ratelimit.Lease{}, nil
	}
	lease, err := s.limiter.TryLockUpload(ctx, fileName)
	var inProgress *ratelimit.UploadInProgressError
	if errors.As(err, &inProgress) {
		log.Warn("upload rejected, ingestion in progress", zap.String("holder", inProgress.Holder))
		return ratelimit.Lease{}, domain.ErrUploadInProgress
	}
	return lease, err
}

func (s *Service) unlock(ctx context.Context, lease ratelimit.Lease, log *zap.Logger) {
	if s.limiter == nil {
		return
	}
	if err := s.limiter.ReleaseUpload(context.WithoutCancel(ctx), lease); err != nil {
		log.Warn("release upload lock failed", zap.Error(err))
	}
}

// fail records a failed run; the facts are left untouched.
func (s *Service) fail(ctx context.Context, fileName string, cause error, log *zap.Logger) {
	s.metrics.RecordIngestionRun(ctx, "failed")

	run, err := s.newRun(fileName, domain.RunStatusFailed, nil)
	if err != nil {
		return
	}
	run.Error = cause.Error()
	if err := s.repo.Insert(context.WithoutCancel(ctx), s.db, run); err != nil {
		log.Warn("record failed ingestion run", zap.Error(err))
	}
}

func (s *Service) newRun(fileName, status string, wb *workbook.Workbook) (*domain.Run, error) {
	now := s.now().UTC()
	id, err := ulid.New(ulid.Timestamp(now), ulid.Monotonic(rand.Reader, 0))
	if err != nil {
		return nil, err
	}

	processed, skipped, counts := []string{}, []string{}, map[string]int{}
	var companyID int64
	if wb != nil {
		processed, skipped, counts = wb.Processed, wb.Skipped, wb.Dataset.RowCounts()
		companyID = wb.CompanyID
	}

	run := &domain.Run{
		ID:         id.String(),
		FileName:   fileName,
		Status:     status,
		CompanyID:  companyID,
		CreatedAt:  now,
		FinishedAt: &now,
	}
	if run.ProcessedSheets, err = toJSON(processed); err != nil {
		return nil, err
	}
	if run.SkippedSheets, err = toJSON(skipped); err != nil {
		return nil, err
	}
	if run.RowCounts, err = toJSON(counts); err != nil {
		return nil, err
	}
	return run, nil
}

func toJSON(v any) (datatypes.JSON, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

func (s *Service) ListRuns(ctx context.Context, req domain.ListRunsRequest) (domain.ListRunsResponse, error) {
	page := req.Pagination
	page.PageSize = page.Size(defaultRunPageSize, maxRunPageSize)

	runs, err := s.repo.List(ctx, s.db, page)
	if err != nil {
		return domain.ListRunsResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(runs, int32(page.PageSize), func(r *domain.Run) pagination.Cursor {
		return pagination.NewCursor(r.ID, r.CreatedAt)
	})
	if len(runs) > page.PageSize {
		runs = runs[:page.PageSize]
	}

	out := make([]domain.Run, 0, len(runs))
	for _, r := range runs {
		out = append(out, *r)
	}
	resp := domain.ListRunsResponse{Runs: out}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	if !resp.HasMore {
		resp.NextPageToken = ""
	}
	return resp, nil
}

func (s *Service) GetRun(ctx context.Context, id string) (*domain.Run, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ErrRunNotFound
	}
	run, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, domain.ErrRunNotFound
	}
	return run, nil
}
