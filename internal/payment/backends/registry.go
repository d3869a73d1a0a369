package backends

import (
	"strings"

	"github.com/smallbiznis/donara/internal/clock"
	donationdomain "github.com/smallbiznis/donara/internal/donation/domain"
	"github.com/smallbiznis/donara/internal/events"
	"github.com/smallbiznis/donara/internal/payment/domain"
	"go.uber.org/zap"
)

// Deps is everything a backend needs from the application. Factories receive
// the full set so new gateways only implement response mapping, not wiring.
type Deps struct {
	Gateway   domain.GatewayClient
	Donations donationdomain.Service
	Events    events.Publisher
	Clock     clock.Clock
	Log       *zap.Logger
}

type Factory interface {
	Name() string
	NewBackend(deps Deps) (domain.Backend, error)
}

// Registry maps a configuration key to a backend factory. Selection is
// explicit and compile-time checked; there is no reflective class loading.
type Registry struct {
	factories map[string]Factory
}

func NewRegistry(factories ...Factory) *Registry {
	registry := &Registry{factories: map[string]Factory{}}
	for _, factory := range factories {
		if factory == nil {
			continue
		}
		name := strings.ToLower(strings.TrimSpace(factory.Name()))
		if name == "" {
			continue
		}
		registry.factories[name] = factory
	}
	return registry
}

func (r *Registry) Exists(name string) bool {
	if r == nil {
		return false
	}
	_, ok := r.factories[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

func (r *Registry) NewBackend(name string, deps Deps) (domain.Backend, error) {
	if r == nil {
		return nil, domain.ErrBackendNotFound
	}
	factory, ok := r.factories[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, domain.ErrBackendNotFound
	}
	return factory.NewBackend(deps)
}
