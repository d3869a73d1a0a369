package workflow

import "go.uber.org/fx"

var Module = fx.Module("workflow",
	fx.Provide(New),
)
