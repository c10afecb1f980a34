package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/workforcekpi/internal/config"
	"github.com/smallbiznis/workforcekpi/internal/ingest/domain"
	ingestrepo "github.com/smallbiznis/workforcekpi/internal/ingest/repository"
	kpiservice "github.com/smallbiznis/workforcekpi/internal/kpi/service"
	"github.com/smallbiznis/workforcekpi/internal/ratelimit"
	workforcedomain "github.com/smallbiznis/workforcekpi/internal/workforce/domain"
	workforcerepo "github.com/smallbiznis/workforcekpi/internal/workforce/repository"
	workforceservice "github.com/smallbiznis/workforcekpi/internal/workforce/service"
	"github.com/smallbiznis/workforcekpi/pkg/db/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db      *gorm.DB
	svc     domain.Service
	limiter *ratelimit.Limiter
}

func setup(t *testing.T) fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	models := append(workforcedomain.Models(), &domain.Run{})
	require.NoError(t, db.AutoMigrate(models...))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	log := zap.NewNop()
	wfRepo := workforcerepo.Provide()
	wfSvc := workforceservice.New(workforceservice.Params{DB: db, Log: log, Repo: wfRepo})
	kpiSvc := kpiservice.New(kpiservice.Params{Log: log, Workforce: wfSvc})
	limiter := ratelimit.NewLimiter(config.Config{}, nil)

	svc := New(Params{
		DB:            db,
		Log:           log,
		GenID:         node,
		Repo:          ingestrepo.Provide(),
		WorkforceRepo: wfRepo,
		KPI:           kpiSvc,
		Limiter:       limiter,
	})
	return fixture{db: db, svc: svc, limiter: limiter}
}

func workbookBytes(t *testing.T, composition [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", "Composition"))
	rows := append([][]any{{"WorkforceCompositionID", "DateKey", "GenderID", "ContractTypeID", "CountryID", "EmployeeCount", "CompanyID", "OrganizationalUnitID", "CreatedAt", "UpdatedAt"}}, composition...)
	for i, row := range rows {
		r := row
		require.NoError(t, f.SetSheetRow("Composition", fmt.Sprintf("A%d", i+1), &r))
	}

	_, err := f.NewSheet("Units")
	require.NoError(t, err)
	units := [][]any{{"OrganizationalUnitID", "OrganizationalUnitName", "CompanyID"}, {10, "Operations", 1}}
	for i, row := range units {
		r := row
		require.NoError(t, f.SetSheetRow("Units", fmt.Sprintf("A%d", i+1), &r))
	}

	_, err = f.NewSheet("Readme")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Readme", "A1", "notes"))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestIngest_ReplacesFactsAndReturnsKPIs(t *testing.T) {
	fx := setup(t)
	ctx := context.Background()

	first := workbookBytes(t, [][]any{
		{1, 20240615, 1, 1, 1, 430, 1, 10, "", ""},
		{2, 20240615, 2, 1, 1, 379, 1, 10, "", ""},
	})
	res, err := fx.svc.Ingest(ctx, domain.IngestRequest{FileName: "s1.xlsx", Content: first})
	require.NoError(t, err)

	assert.Equal(t, domain.SuccessMessage, res.Message)
	assert.Equal(t, []string{"Composition", "Units"}, res.ProcessedSheets)
	assert.Equal(t, []string{"Readme"}, res.SkippedSheets)
	assert.NotEmpty(t, res.RunID)
	require.NotNil(t, res.KPIResult)
	assert.Equal(t, int64(809), res.KPIResult.TurnoverRate.TotalEmployees)
	assert.Equal(t, 2, res.RowCounts["workforce_composition_facts"])

	second := workbookBytes(t, [][]any{
		{1, 20250101, 1, 1, 1, 12, 1, 10, "", ""},
	})
	res2, err := fx.svc.Ingest(ctx, domain.IngestRequest{FileName: "s1.xlsx", Content: second})
	require.NoError(t, err)
	assert.Equal(t, int64(12), res2.KPIResult.TurnoverRate.TotalEmployees)
	assert.NotEqual(t, res.RunID, res2.RunID)

	var count int64
	require.NoError(t, fx.db.Model(&workforcedomain.WorkforceCompositionFact{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	run, err := fx.svc.GetRun(ctx, res2.RunID)
	require.NoError(t, err)
	assert.Equal(t, domain.RunStatusSucceeded, run.Status)
	assert.JSONEq(t, `["Composition","Units"]`, string(run.ProcessedSheets))
}

func TestIngest_RejectsBadInput(t *testing.T) {
	fx := setup(t)
	ctx := context.Background()

	_, err := fx.svc.Ingest(ctx, domain.IngestRequest{FileName: "s1.csv", Content: []byte("a,b")})
	assert.ErrorIs(t, err, domain.ErrInvalidFile)

	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "nothing"))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	_, err = fx.svc.Ingest(ctx, domain.IngestRequest{FileName: "empty.xlsx", Content: buf.Bytes()})
	assert.ErrorIs(t, err, domain.ErrNoMatchingSheets)

	resp, err := fx.svc.ListRuns(ctx, domain.ListRunsRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Runs, 1)
	assert.Equal(t, domain.RunStatusFailed, resp.Runs[0].Status)
	assert.Contains(t, resp.Runs[0].Error, "no valid sheets")
}

func TestIngest_InvalidRowKeepsExistingFacts(t *testing.T) {
	fx := setup(t)
	ctx := context.Background()

	_, err := fx.svc.Ingest(ctx, domain.IngestRequest{FileName: "ok.xlsx", Content: workbookBytes(t, [][]any{
		{1, 20240615, 1, 1, 1, 5, 1, 10, "", ""},
	})})
	require.NoError(t, err)

	_, err = fx.svc.Ingest(ctx, domain.IngestRequest{FileName: "bad.xlsx", Content: workbookBytes(t, [][]any{
		{1, 20240615, 1, 1, 1, -5, 1, 10, "", ""},
	})})
	assert.ErrorIs(t, err, domain.ErrInvalidRow)

	var count int64
	require.NoError(t, fx.db.Model(&workforcedomain.WorkforceCompositionFact{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestIngest_UploadInProgress(t *testing.T) {
	fx := setup(t)
	ctx := context.Background()

	lease, err := fx.limiter.TryLockUpload(ctx, "other.xlsx")
	require.NoError(t, err)
	defer fx.limiter.ReleaseUpload(ctx, lease)

	_, err = fx.svc.Ingest(ctx, domain.IngestRequest{FileName: "s1.xlsx", Content: workbookBytes(t, nil)})
	assert.ErrorIs(t, err, domain.ErrUploadInProgress)
}

func TestListRuns_Paginates(t *testing.T) {
	fx := setup(t)
	ctx := context.Background()
	repo := ingestrepo.Provide()

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		created := base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, repo.Insert(ctx, fx.db, &domain.Run{
			ID:              fmt.Sprintf("run-%d", i),
			Status:          domain.RunStatusSucceeded,
			ProcessedSheets: []byte(`[]`),
			SkippedSheets:   []byte(`[]`),
			RowCounts:       []byte(`{}`),
			CreatedAt:       created,
			FinishedAt:      &created,
		}))
	}

	page1, err := fx.svc.ListRuns(ctx, domain.ListRunsRequest{Pagination: pagination.Pagination{PageSize: 2}})
	require.NoError(t, err)
	require.Len(t, page1.Runs, 2)
	assert.Equal(t, "run-2", page1.Runs[0].ID)
	assert.True(t, page1.HasMore)

	page2, err := fx.svc.ListRuns(ctx, domain.ListRunsRequest{Pagination: pagination.Pagination{PageSize: 2, PageToken: page1.NextPageToken}})
	require.NoError(t, err)
	require.Len(t, page2.Runs, 1)
	assert.Equal(t, "run-0", page2.Runs[0].ID)
	assert.False(t, page2.HasMore)

	_, err = fx.svc.GetRun(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrRunNotFound)
}
