// Package events fans successful-purchase events out to registered
// subscribers. Subscription is explicit and injected; there is no
// process-wide dispatch table.
package events

import (
	"context"

	donationdomain "github.com/smallbiznis/donara/internal/donation/domain"
	paymentdomain "github.com/smallbiznis/donara/internal/payment/domain"
	"go.uber.org/zap"
)

// PurchaseEvent is emitted after a successful one-time charge, so receipt
// email, analytics and the like can react without the backend knowing them.
type PurchaseEvent struct {
	Donation *donationdomain.Donation
	Card     paymentdomain.CardDetails
	Result   paymentdomain.PurchaseResult
}

type Subscriber interface {
	Name() string
	OnPurchase(ctx context.Context, event PurchaseEvent)
}

type Publisher interface {
	// Publish is fire-and-forget; subscriber outcomes are never consulted.
	Publish(ctx context.Context, event PurchaseEvent)
}

type Bus struct {
	log         *zap.Logger
	subscribers []Subscriber
}

func NewBus(log *zap.Logger, subscribers ...Subscriber) *Bus {
	bus := &Bus{log: log.Named("events.bus")}
	for _, subscriber := range subscribers {
		if subscriber == nil {
			continue
		}
		bus.subscribers = append(bus.subscribers, subscriber)
	}
	return bus
}

func (b *Bus) Publish(ctx context.Context, event PurchaseEvent) {
	for _, subscriber := range b.subscribers {
		subscriber.OnPurchase(ctx, event)
		b.log.Debug("purchase event delivered",
			zap.String("subscriber", subscriber.Name()),
			zap.String("donation_id", event.Donation.ID.String()),
		)
	}
}

var _ Publisher = (*Bus)(nil)
