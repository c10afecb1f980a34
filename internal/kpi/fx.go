package kpi

import (
	"github.com/smallbiznis/workforcekpi/internal/kpi/service"
	"go.uber.org/fx"
)

var Module = fx.Module("kpi.service",
	fx.Provide(service.New),
)
