// Package authorizenet is the default payment backend: one-time AIM capture
// first, then ARB subscription setup for repeating donations.
package authorizenet

import (
	"context"
	"fmt"

	"github.com/smallbiznis/donara/internal/clock"
	donationdomain "github.com/smallbiznis/donara/internal/donation/domain"
	"github.com/smallbiznis/donara/internal/events"
	"github.com/smallbiznis/donara/internal/payment/backends"
	"github.com/smallbiznis/donara/internal/payment/domain"
	"go.uber.org/zap"
)

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Name() string {
	return "authorizenet"
}

func (f *Factory) NewBackend(deps backends.Deps) (domain.Backend, error) {
	if deps.Gateway == nil || deps.Donations == nil || deps.Events == nil || deps.Clock == nil {
		return nil, domain.ErrInvalidConfig
	}
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Backend{
		gateway:   deps.Gateway,
		donations: deps.Donations,
		events:    deps.Events,
		clock:     deps.Clock,
		log:       log.Named("backend.authorizenet"),
	}, nil
}

type Backend struct {
	gateway   domain.GatewayClient
	donations donationdomain.Service
	events    events.Publisher
	clock     clock.Clock
	log       *zap.Logger
}

func (b *Backend) Name() string {
	return "authorizenet"
}

func (b *Backend) FormContract() domain.FormContract {
	return domain.FormContract{
		Fields: []domain.FormField{
			{Name: domain.FieldCardNumber, Required: true},
			{Name: domain.FieldCVV, Required: true},
			{Name: domain.FieldExpirationMonth, Required: true},
			{Name: domain.FieldExpirationYear, Required: true},
		},
		SensitiveFields: []string{domain.FieldCardNumber, domain.FieldCVV},
	}
}

// Purchase runs the one-time charge and, only after it approves, the
// subscription setup for repeating donations. It always returns a result;
// gateway failures are data, not errors. A nil donation or donor is a
// programmer error and panics.
func (b *Backend) Purchase(ctx context.Context, donation *donationdomain.Donation, card domain.CardDetails) domain.PurchaseResult {
	if donation == nil || donation.ID == 0 || donation.Donor == nil {
		panic(domain.ErrMissingDonation)
	}

	resp, err := b.gateway.ChargeOnce(ctx, b.chargeRequest(donation, card))
	if err != nil {
		b.log.Warn("one-time charge failed",
			zap.String("donation_id", donation.ID.String()),
			zap.Error(err),
		)
		return domain.PurchaseResult{Status: false, Reason: err.Error()}
	}
	if !resp.Approved {
		b.log.Info("one-time charge declined",
			zap.String("donation_id", donation.ID.String()),
			zap.String("reason_code", resp.ReasonCode),
		)
		return domain.PurchaseResult{Status: false, Reason: resp.ReasonText, Response: resp.Raw}
	}

	result := domain.PurchaseResult{Status: true, Reason: resp.ReasonText, Response: resp.Raw}

	if donation.IsRepeating() {
		result.RecurringResponse = b.createSubscription(ctx, donation, card)
	}

	// A captured charge is never rolled back here, so a failed flag write is
	// logged and the result stays successful.
	if err := b.donations.MarkProcessed(ctx, donation); err != nil {
		b.log.Error("failed to mark donation processed",
			zap.String("donation_id", donation.ID.String()),
			zap.Error(err),
		)
	}

	b.events.Publish(ctx, events.PurchaseEvent{
		Donation: donation,
		Card:     card,
		Result:   result,
	})

	return result
}

func (b *Backend) chargeRequest(donation *donationdomain.Donation, card domain.CardDetails) domain.ChargeRequest {
	donor := donation.Donor
	req := domain.ChargeRequest{
		Amount:         donation.Amount,
		CardNumber:     card.Number,
		CardCode:       card.CVV,
		ExpirationDate: card.OneTimeExpiration(),
		FirstName:      donor.FirstName,
		LastName:       donor.LastName,
		Description:    fmt.Sprintf("Donation %s", donation.ID),
	}
	if donor.BillingAddress != nil {
		req.Street = donor.BillingAddress.Street
		req.City = donor.BillingAddress.City
		req.State = donor.BillingAddress.State
		req.Zip = donor.BillingAddress.Zip
	}
	return req
}

// createSubscription sets up the repeat schedule. The first recurring
// installment starts one billing cycle after today; the outcome is reported
// separately and never reverses the captured one-time charge.
func (b *Backend) createSubscription(ctx context.Context, donation *donationdomain.Donation, card domain.CardDetails) *domain.GatewayResponse {
	option := donation.DonationTypeOption
	donor := donation.Donor

	resp, err := b.gateway.CreateSubscription(ctx, domain.SubscriptionRequest{
		Amount:           donation.Amount,
		CardNumber:       card.Number,
		CardCode:         card.CVV,
		ExpirationDate:   card.RecurringExpiration(),
		IntervalMonths:   option.LengthMonths,
		TotalOccurrences: option.RepeatCount,
		StartDate:        b.clock.Now().AddDate(0, option.LengthMonths, 0),
		FirstName:        donor.FirstName,
		LastName:         donor.LastName,
		Name:             fmt.Sprintf("Donation %s", donation.ID),
	})
	if err != nil {
		b.log.Warn("subscription setup failed",
			zap.String("donation_id", donation.ID.String()),
			zap.Error(err),
		)
		return &domain.GatewayResponse{Approved: false, ReasonText: err.Error()}
	}
	if !resp.Approved {
		b.log.Info("subscription setup declined",
			zap.String("donation_id", donation.ID.String()),
			zap.String("reason_code", resp.ReasonCode),
		)
	}
	return &resp
}

var _ domain.Backend = (*Backend)(nil)
