package payment

import (
	"github.com/smallbiznis/donara/internal/clock"
	"github.com/smallbiznis/donara/internal/config"
	donationdomain "github.com/smallbiznis/donara/internal/donation/domain"
	"github.com/smallbiznis/donara/internal/events"
	"github.com/smallbiznis/donara/internal/payment/backends"
	backendauthorizenet "github.com/smallbiznis/donara/internal/payment/backends/authorizenet"
	"github.com/smallbiznis/donara/internal/payment/domain"
	gatewayauthorizenet "github.com/smallbiznis/donara/internal/payment/gateway/authorizenet"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func NewGatewayClient(cfg config.Config) (domain.GatewayClient, error) {
	return gatewayauthorizenet.NewClient(cfg.Gateway)
}

func NewRegistry() *backends.Registry {
	return backends.NewRegistry(
		backendauthorizenet.NewFactory(),
	)
}

type BackendParams struct {
	fx.In

	Cfg       config.Config
	Registry  *backends.Registry
	Gateway   domain.GatewayClient
	Donations donationdomain.Service
	Events    events.Publisher
	Clock     clock.Clock
	Log       *zap.Logger
}

// NewBackend resolves the configured backend. A misconfigured backend name
// fails startup; it is not a user-facing error path.
func NewBackend(p BackendParams) (domain.Backend, error) {
	return p.Registry.NewBackend(p.Cfg.PaymentBackend, backends.Deps{
		Gateway:   p.Gateway,
		Donations: p.Donations,
		Events:    p.Events,
		Clock:     p.Clock,
		Log:       p.Log,
	})
}

var Module = fx.Module("payment",
	fx.Provide(NewGatewayClient),
	fx.Provide(NewRegistry),
	fx.Provide(NewBackend),
)
