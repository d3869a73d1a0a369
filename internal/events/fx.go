package events

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log         *zap.Logger
	Subscribers []Subscriber `group:"purchase_subscribers"`
}

func New(p Params) Publisher {
	return NewBus(p.Log, p.Subscribers...)
}

var Module = fx.Module("events",
	fx.Provide(New),
)
