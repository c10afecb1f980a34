package narrative

import "go.uber.org/fx"

var Module = fx.Module("narrative",
	fx.Provide(New),
)
