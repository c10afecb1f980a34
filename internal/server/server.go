package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	apikeydomain "github.com/smallbiznis/workforcekpi/internal/apikey/domain"
	auditdomain "github.com/smallbiznis/workforcekpi/internal/audit/domain"
	"github.com/smallbiznis/workforcekpi/internal/authorization"
	"github.com/smallbiznis/workforcekpi/internal/config"
	ingestdomain "github.com/smallbiznis/workforcekpi/internal/ingest/domain"
	kpidomain "github.com/smallbiznis/workforcekpi/internal/kpi/domain"
	"github.com/smallbiznis/workforcekpi/internal/observability"
	obsmiddleware "github.com/smallbiznis/workforcekpi/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/workforcekpi/internal/observability/metrics"
	obstracing "github.com/smallbiznis/workforcekpi/internal/observability/tracing"
	"github.com/smallbiznis/workforcekpi/internal/ratelimit"
	reportdomain "github.com/smallbiznis/workforcekpi/internal/report/domain"
	workforcedomain "github.com/smallbiznis/workforcekpi/internal/workforce/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const defaultHTTPAddr = ":8080"

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(registerRoutes),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	addr := strings.TrimSpace(cfg.HTTPAddr)
	if addr == "" {
		addr = defaultHTTPAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", addr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine *gin.Engine
	cfg    config.Config
	log    *zap.Logger

	apiKeySvc    apikeydomain.Service
	authzSvc     authorization.Service
	kpiSvc       kpidomain.Service
	ingestSvc    ingestdomain.Service
	workforceSvc workforcedomain.Service
	reportSvc    reportdomain.Service
	auditSvc     auditdomain.Service

	limiter    *ratelimit.Limiter
	obsMetrics *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Engine       *gin.Engine
	Config       config.Config
	Log          *zap.Logger
	APIKeySvc    apikeydomain.Service
	AuthzSvc     authorization.Service
	KPISvc       kpidomain.Service
	IngestSvc    ingestdomain.Service
	WorkforceSvc workforcedomain.Service
	ReportSvc    reportdomain.Service
	AuditSvc     auditdomain.Service `optional:"true"`
	Limiter      *ratelimit.Limiter  `optional:"true"`
	ObsMetrics   *obsmetrics.Metrics `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	return &Server{
		engine:       p.Engine,
		cfg:          p.Config,
		log:          p.Log.Named("http.server"),
		apiKeySvc:    p.APIKeySvc,
		authzSvc:     p.AuthzSvc,
		kpiSvc:       p.KPISvc,
		ingestSvc:    p.IngestSvc,
		workforceSvc: p.WorkforceSvc,
		reportSvc:    p.ReportSvc,
		auditSvc:     p.AuditSvc,
		limiter:      p.Limiter,
		obsMetrics:   p.ObsMetrics,
	}
}

func registerRoutes(s *Server) {
	s.RegisterAPIRoutes()
	s.RegisterAdminRoutes()
	s.RegisterFallback()
}

func (s *Server) RegisterAPIRoutes() {
	api := s.engine.Group("/api")
	api.Use(s.APIKeyRequired())

	api.POST("/uploads", s.authorize(authorization.ObjectUpload, authorization.ActionUploadCreate), s.UploadWorkbook)
	api.GET("/uploads", s.authorize(authorization.ObjectUpload, authorization.ActionUploadView), s.ListUploads)
	api.GET("/uploads/:id", s.authorize(authorization.ObjectUpload, authorization.ActionUploadView), s.GetUpload)

	api.GET("/kpis", s.authorize(authorization.ObjectKPI, authorization.ActionKPIView), s.ListKPIs)
	api.GET("/kpis/:name", s.authorize(authorization.ObjectKPI, authorization.ActionKPIView), s.GetKPI)

	api.GET("/org-units", s.authorize(authorization.ObjectOrgUnit, authorization.ActionOrgUnitView), s.ListOrgUnits)

	api.POST("/reports",
		s.authorize(authorization.ObjectReport, authorization.ActionReportGenerate),
		s.ReportRateLimit(),
		s.GenerateReport,
	)
}

func (s *Server) RegisterAdminRoutes() {
	admin := s.engine.Group("/admin")
	admin.Use(s.APIKeyRequired())

	admin.GET("/api-keys", s.authorize(authorization.ObjectAPIKey, authorization.ActionAPIKeyView), s.ListAPIKeys)
	admin.POST("/api-keys", s.authorize(authorization.ObjectAPIKey, authorization.ActionAPIKeyCreate), s.CreateAPIKey)
	admin.POST("/api-keys/:key_id/rotate", s.authorize(authorization.ObjectAPIKey, authorization.ActionAPIKeyRotate), s.RotateAPIKey)
	admin.DELETE("/api-keys/:key_id", s.authorize(authorization.ObjectAPIKey, authorization.ActionAPIKeyRevoke), s.RevokeAPIKey)

	admin.GET("/audit-logs", s.authorize(authorization.ObjectAudit, authorization.ActionAuditView), s.ListAuditLogs)
}

func (s *Server) RegisterFallback() {
	s.engine.NoRoute(func(c *gin.Context) {
		AbortWithError(c, ErrNotFound)
	})
}
