package kpiexport

import "go.uber.org/fx"

var Module = fx.Module("kpi.export",
	fx.Provide(NewPusher),
	fx.Provide(NewPublisher),
)
