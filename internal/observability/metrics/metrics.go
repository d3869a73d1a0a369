package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/fx"
)

// Metrics exposes application-level instruments.
type Metrics struct {
	DonationsCreated   prometheus.Counter
	PurchasesSucceeded prometheus.Counter
	PurchasesFailed    prometheus.Counter
	ValidationFailures prometheus.Counter
	SubscriptionsSetup *prometheus.CounterVec
}

func New(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		DonationsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "donara_donations_created_total",
			Help: "Donation rows persisted.",
		}),
		PurchasesSucceeded: factory.NewCounter(prometheus.CounterOpts{
			Name: "donara_purchases_succeeded_total",
			Help: "One-time charges approved by the gateway.",
		}),
		PurchasesFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "donara_purchases_failed_total",
			Help: "One-time charges declined or errored.",
		}),
		ValidationFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "donara_validation_failures_total",
			Help: "Submissions rejected before any gateway call.",
		}),
		SubscriptionsSetup: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "donara_subscriptions_setup_total",
			Help: "Recurring schedule setups by outcome.",
		}, []string{"outcome"}),
	}
}

func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return reg
}

var Module = fx.Module("observability.metrics",
	fx.Provide(NewRegistry),
	fx.Provide(New),
)
