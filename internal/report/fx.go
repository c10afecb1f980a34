package report

import (
	"github.com/smallbiznis/workforcekpi/internal/report/service"
	"go.uber.org/fx"
)

var Module = fx.Module("report.service",
	fx.Provide(service.New),
)
