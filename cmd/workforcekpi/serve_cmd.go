package main

import (
	"context"

	"github.com/smallbiznis/workforcekpi/internal/apikey/domain"
	"github.com/smallbiznis/workforcekpi/internal/config"
	"github.com/smallbiznis/workforcekpi/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := fx.New(
				coreModules(),
				domainModules(),
				server.Module,
				fx.Invoke(registerBootstrapKey),
			)
			if err := app.Err(); err != nil {
				return err
			}
			app.Run()
			return nil
		},
	}
}

func registerBootstrapKey(lc fx.Lifecycle, cfg config.Config, svc domain.Service) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return svc.EnsureBootstrap(ctx, cfg.BootstrapAPIKey)
		},
	})
}
