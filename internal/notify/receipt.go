// Package notify holds purchase-event subscribers: the side effects of a
// successful donation that the payment backend should not know about.
package notify

import (
	"context"
	"fmt"

	"github.com/smallbiznis/donara/internal/events"
	"github.com/smallbiznis/donara/internal/providers/email"
	"go.uber.org/zap"
)

// ReceiptSubscriber emails the donor a receipt after a successful purchase.
type ReceiptSubscriber struct {
	provider email.Provider
	log      *zap.Logger
}

func NewReceiptSubscriber(provider email.Provider, log *zap.Logger) *ReceiptSubscriber {
	return &ReceiptSubscriber{
		provider: provider,
		log:      log.Named("notify.receipt"),
	}
}

func (s *ReceiptSubscriber) Name() string {
	return "receipt_email"
}

func (s *ReceiptSubscriber) OnPurchase(ctx context.Context, event events.PurchaseEvent) {
	donor := event.Donation.Donor
	if donor == nil || donor.Email == "" {
		return
	}

	subject := "Thank you for your donation"
	body := fmt.Sprintf(
		"<p>Dear %s,</p><p>Your donation of $%s has been received.</p>",
		donor.FullName(),
		event.Donation.Amount.StringFixed(2),
	)
	if event.Donation.IsRepeating() {
		body += "<p>Your recurring donation schedule has been set up as well.</p>"
	}

	if err := s.provider.Send(ctx, []string{donor.Email}, subject, body); err != nil {
		// Fire-and-forget: a failed receipt never affects the purchase.
		s.log.Warn("receipt email failed",
			zap.String("donation_id", event.Donation.ID.String()),
			zap.Error(err),
		)
	}
}

var _ events.Subscriber = (*ReceiptSubscriber)(nil)
