package audit

import (
	"github.com/smallbiznis/donara/internal/audit/repository"
	"github.com/smallbiznis/donara/internal/audit/service"
	"github.com/smallbiznis/donara/internal/events"
	"go.uber.org/fx"
)

var Module = fx.Module("audit.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewReader),
	fx.Provide(
		fx.Annotate(
			service.NewRecorder,
			fx.As(new(events.Subscriber)),
			fx.ResultTags(`group:"purchase_subscribers"`),
		),
	),
)
