package main

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/workforcekpi/internal/apikey"
	"github.com/smallbiznis/workforcekpi/internal/audit"
	"github.com/smallbiznis/workforcekpi/internal/authorization"
	"github.com/smallbiznis/workforcekpi/internal/cache"
	"github.com/smallbiznis/workforcekpi/internal/config"
	"github.com/smallbiznis/workforcekpi/internal/ingest"
	"github.com/smallbiznis/workforcekpi/internal/kpi"
	"github.com/smallbiznis/workforcekpi/internal/kpiexport"
	"github.com/smallbiznis/workforcekpi/internal/migration"
	"github.com/smallbiznis/workforcekpi/internal/narrative"
	"github.com/smallbiznis/workforcekpi/internal/observability"
	"github.com/smallbiznis/workforcekpi/internal/ratelimit"
	"github.com/smallbiznis/workforcekpi/internal/report"
	"github.com/smallbiznis/workforcekpi/internal/workforce"
	"github.com/smallbiznis/workforcekpi/pkg/db"
	"go.uber.org/fx"
)

const stopTimeout = 15 * time.Second

// coreModules is the infrastructure every command needs. Opening the
// database also brings the schema up to date.
func coreModules() fx.Option {
	return fx.Options(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
	)
}

func domainModules() fx.Option {
	return fx.Options(
		ratelimit.Module,
		cache.Module,
		kpiexport.Module,
		workforce.Module,
		kpi.Module,
		ingest.Module,
		narrative.Module,
		report.Module,
		apikey.Module,
		authorization.Module,
		audit.Module,
	)
}

func RegisterSnowflake() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}

// runOnce starts the container, hands the populated targets to fn and stops
// the container again.
func runOnce(ctx context.Context, fn func(ctx context.Context) error, targets ...any) error {
	app := fx.New(
		coreModules(),
		domainModules(),
		fx.Populate(targets...),
		fx.NopLogger,
	)
	if err := app.Err(); err != nil {
		return err
	}
	if err := app.Start(ctx); err != nil {
		return err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
		defer cancel()
		_ = app.Stop(stopCtx)
	}()
	return fn(ctx)
}
