package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	apikeydomain "github.com/smallbiznis/workforcekpi/internal/apikey/domain"
	apikeyrepository "github.com/smallbiznis/workforcekpi/internal/apikey/repository"
	apikeyservice "github.com/smallbiznis/workforcekpi/internal/apikey/service"
	auditdomain "github.com/smallbiznis/workforcekpi/internal/audit/domain"
	auditrepository "github.com/smallbiznis/workforcekpi/internal/audit/repository"
	auditservice "github.com/smallbiznis/workforcekpi/internal/audit/service"
	"github.com/smallbiznis/workforcekpi/internal/authorization"
	"github.com/smallbiznis/workforcekpi/internal/config"
	ingestdomain "github.com/smallbiznis/workforcekpi/internal/ingest/domain"
	kpidomain "github.com/smallbiznis/workforcekpi/internal/kpi/domain"
	"github.com/smallbiznis/workforcekpi/internal/observability"
	reportdomain "github.com/smallbiznis/workforcekpi/internal/report/domain"
	workforcedomain "github.com/smallbiznis/workforcekpi/internal/workforce/domain"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeKPI struct {
	mu      sync.Mutex
	filters []kpidomain.Filter
	data    kpidomain.Data
	err     error
}

func (f *fakeKPI) Compute(_ context.Context, filter kpidomain.Filter) (kpidomain.Data, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filters = append(f.filters, filter)
	return f.data, f.err
}

func (f *fakeKPI) Compare(ctx context.Context, filter kpidomain.Filter, year int) (kpidomain.Comparison, error) {
	data, err := f.Compute(ctx, filter.ForYear(year))
	return kpidomain.Comparison{Current: data}, err
}

func (f *fakeKPI) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.filters)
}

type fakeIngest struct {
	files  []string
	result *ingestdomain.IngestResult
	err    error
}

func (f *fakeIngest) Ingest(_ context.Context, req ingestdomain.IngestRequest) (*ingestdomain.IngestResult, error) {
	f.files = append(f.files, req.FileName)
	return f.result, f.err
}

func (f *fakeIngest) ListRuns(_ context.Context, req ingestdomain.ListRunsRequest) (ingestdomain.ListRunsResponse, error) {
	return ingestdomain.ListRunsResponse{Runs: []ingestdomain.Run{{ID: "01JTESTRUN", Status: ingestdomain.RunStatusSucceeded}}}, nil
}

func (f *fakeIngest) GetRun(_ context.Context, id string) (*ingestdomain.Run, error) {
	if id != "01JTESTRUN" {
		return nil, ingestdomain.ErrRunNotFound
	}
	return &ingestdomain.Run{ID: id, Status: ingestdomain.RunStatusSucceeded}, nil
}

type fakeWorkforce struct {
	units []workforcedomain.OrganizationalUnit
}

func (f *fakeWorkforce) Snapshot(context.Context, int64) (*workforcedomain.Dataset, error) {
	return &workforcedomain.Dataset{}, nil
}

func (f *fakeWorkforce) ListUnits(_ context.Context, companyID int64) ([]workforcedomain.OrganizationalUnit, error) {
	var out []workforcedomain.OrganizationalUnit
	for _, u := range f.units {
		if u.CompanyID == companyID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeWorkforce) Version(context.Context) (string, error) {
	return workforcedomain.InitialVersion, nil
}

type fakeReport struct {
	requests []reportdomain.Request
	err      error
}

func (f *fakeReport) Generate(_ context.Context, req reportdomain.Request) (*reportdomain.Response, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &reportdomain.Response{
		Sections: map[string]string{"closing": "Thank you."},
		File:     reportdomain.File{Name: fmt.Sprintf("S1_Report_%d_%d.pdf", req.CompanyID, req.Year), Base64: "JVBERg=="},
	}, nil
}

type testEnv struct {
	server    *Server
	kpi       *fakeKPI
	ingest    *fakeIngest
	workforce *fakeWorkforce
	report    *fakeReport
	keys      map[apikeydomain.Role]string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&apikeydomain.APIKey{}, &auditdomain.AuditLog{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	apiKeys := apikeyservice.New(apikeyservice.Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  apikeyrepository.Provide(),
	})

	audits := auditservice.NewService(auditservice.Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  auditrepository.Provide(),
	})

	enforcer, err := authorization.NewEnforcer(db)
	require.NoError(t, err)
	authz := authorization.NewService(authorization.Params{Log: zap.NewNop(), Enforcer: enforcer})

	env := &testEnv{
		kpi:       &fakeKPI{data: kpidomain.Data{TurnoverRate: kpidomain.TurnoverRate{OverallTurnoverRate: 13.16, TotalEmployees: 76, TotalEmployeesDeparted: 10}}},
		ingest:    &fakeIngest{result: &ingestdomain.IngestResult{Message: ingestdomain.SuccessMessage, RunID: "01JTESTRUN"}},
		workforce: &fakeWorkforce{},
		report:    &fakeReport{},
		keys:      map[apikeydomain.Role]string{},
	}

	env.server = NewServer(ServerParams{
		Engine:       NewEngine(observability.Config{}, nil),
		Config:       config.Config{},
		Log:          zap.NewNop(),
		APIKeySvc:    apiKeys,
		AuthzSvc:     authz,
		KPISvc:       env.kpi,
		IngestSvc:    env.ingest,
		WorkforceSvc: env.workforce,
		ReportSvc:    env.report,
		AuditSvc:     audits,
	})
	registerRoutes(env.server)

	for _, role := range []apikeydomain.Role{apikeydomain.RoleAdmin, apikeydomain.RoleAnalyst, apikeydomain.RoleViewer} {
		secret, err := apiKeys.Create(context.Background(), apikeydomain.CreateRequest{Name: string(role), Role: string(role)})
		require.NoError(t, err)
		env.keys[role] = secret.APIKey
	}
	return env
}

func (e *testEnv) do(t *testing.T, method, target, apiKey string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	e.server.engine.ServeHTTP(w, req)
	return w
}

func (e *testEnv) doJSON(t *testing.T, method, target string, role apikeydomain.Role, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	return e.do(t, method, target, e.keys[role], body, "application/json")
}

func multipartFile(t *testing.T, field, name string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorPayload {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp.Error
}

