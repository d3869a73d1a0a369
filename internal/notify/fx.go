package notify

import (
	"github.com/smallbiznis/donara/internal/events"
	"go.uber.org/fx"
)

var Module = fx.Module("notify",
	fx.Provide(
		fx.Annotate(
			NewReceiptSubscriber,
			fx.As(new(events.Subscriber)),
			fx.ResultTags(`group:"purchase_subscribers"`),
		),
	),
)
