// Package workflow orchestrates a donation submission: composite
// validation, the optional confirmation step, persistence and the backend
// purchase call.
package workflow

import (
	"context"
	"errors"

	"github.com/smallbiznis/donara/internal/clock"
	"github.com/smallbiznis/donara/internal/config"
	donationdomain "github.com/smallbiznis/donara/internal/donation/domain"
	donordomain "github.com/smallbiznis/donara/internal/donor/domain"
	"github.com/smallbiznis/donara/internal/observability/metrics"
	paymentdomain "github.com/smallbiznis/donara/internal/payment/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type State string

const (
	StateInitial              State = "initial"
	StateAwaitingConfirmation State = "awaiting_confirmation"
	StateProcessing           State = "processing"
	StateSucceeded            State = "succeeded"
	StateFailedValidation     State = "failed_validation"
	StateFailedPurchase       State = "failed_purchase"
)

// Outcome is the context bag handed to the presentation layer after a
// submission is processed.
type Outcome struct {
	State       State                         `json:"state"`
	Amount      string                        `json:"amount,omitempty"`
	IsRepeating bool                          `json:"is_repeating,omitempty"`
	RedirectURL string                        `json:"redirect_url,omitempty"`
	ErrorMsg    string                        `json:"error_msg,omitempty"`
	Reason      string                        `json:"reason,omitempty"`
	Response    string                        `json:"response,omitempty"`
	FieldErrors []FieldError                  `json:"field_errors,omitempty"`
	Donation    *donationdomain.Donation      `json:"donation,omitempty"`
	Result      *paymentdomain.PurchaseResult `json:"result,omitempty"`
	// Submission echoes the (scrubbed) input for redisplay on failure.
	Submission *Submission `json:"submission,omitempty"`
}

// FormContext describes the donation form to the page layer before any
// submission: where to post and which payment fields the backend needs.
type FormContext struct {
	FormActionURL       string                    `json:"form_action_url"`
	RequireConfirmation bool                      `json:"confirmation_required"`
	PaymentFields       []paymentdomain.FormField `json:"payment_fields"`
}

type Params struct {
	fx.In

	Cfg         config.Config
	Log         *zap.Logger
	Clock       clock.Clock
	Metrics     *metrics.Metrics
	DonorSvc    donordomain.Service
	DonationSvc donationdomain.Service
	Backend     paymentdomain.Backend
}

type Controller struct {
	cfg         config.Config
	log         *zap.Logger
	clock       clock.Clock
	metrics     *metrics.Metrics
	donorSvc    donordomain.Service
	donationSvc donationdomain.Service
	backend     paymentdomain.Backend
}

func New(p Params) *Controller {
	return &Controller{
		cfg:         p.Cfg,
		log:         p.Log.Named("workflow.controller"),
		clock:       p.Clock,
		metrics:     p.Metrics,
		donorSvc:    p.DonorSvc,
		donationSvc: p.DonationSvc,
		backend:     p.Backend,
	}
}

func (c *Controller) FormContext(formActionURL string) FormContext {
	contract := c.backend.FormContract()
	return FormContext{
		FormActionURL:       formActionURL,
		RequireConfirmation: c.cfg.RequireConfirmation,
		PaymentFields:       contract.Fields,
	}
}

// Process walks one submission through the state machine. Validation
// failures and purchase failures both come back as Outcomes; only internal
// misconfiguration surfaces as an error.
func (c *Controller) Process(ctx context.Context, sub *Submission) Outcome {
	if errs := sub.Validate(c.clock.Now()); len(errs) > 0 {
		return c.failValidation(sub, errs)
	}

	// Price before touching the store: pricing errors are validation
	// failures at the donation-fields level, and the confirmation preview
	// needs the resolved amount without side effects.
	quote, err := c.donationSvc.Quote(ctx, donationdomain.QuoteRequest{
		Amount:               sub.Donation.Amount,
		DonationTypeOptionID: sub.Donation.DonationTypeOptionID,
		PromoCode:            sub.Donation.PromoCode,
	})
	if err != nil {
		return c.failValidation(sub, pricingFieldErrors(err))
	}

	if c.cfg.RequireConfirmation && !sub.Confirmed {
		// Read-only preview: repeatable, nothing persisted, nothing charged.
		return Outcome{
			State:       StateAwaitingConfirmation,
			Amount:      quote.Amount.StringFixed(2),
			IsRepeating: quote.IsRepeating,
			Submission:  c.scrubbed(sub),
		}
	}

	donor, err := c.donorSvc.Create(ctx, donordomain.CreateDonorRequest{
		FirstName:            sub.Donor.FirstName,
		LastName:             sub.Donor.LastName,
		Email:                sub.Donor.Email,
		Phone:                sub.Donor.Phone,
		AccountID:            sub.Donor.AccountID,
		Billing:              addressInput(sub.BillingAddress),
		Mailing:              addressInput(sub.MailingAddress),
		MailingSameAsBilling: sub.MailingSameAsBilling,
	})
	if err != nil {
		return c.failValidation(sub, donorFieldErrors(err))
	}

	donation, err := c.donationSvc.Create(ctx, donationdomain.CreateDonationRequest{
		DonorID:              donor.ID.String(),
		Amount:               sub.Donation.Amount,
		DonationTypeOptionID: sub.Donation.DonationTypeOptionID,
		PromoCode:            sub.Donation.PromoCode,
		Attribution:          sub.Donation.Attribution,
		Anonymous:            sub.Donation.Anonymous,
	})
	if err != nil {
		return c.failValidation(sub, pricingFieldErrors(err))
	}
	c.metrics.DonationsCreated.Inc()

	result := c.backend.Purchase(ctx, &donation, paymentdomain.CardDetails{
		Number:          sub.Card.Number,
		CVV:             sub.Card.CVV,
		ExpirationMonth: sub.Card.ExpirationMonth,
		ExpirationYear:  sub.Card.ExpirationYear,
	})

	if !result.Status {
		// The donation row stays, processed=false, for audit and retry.
		c.metrics.PurchasesFailed.Inc()
		return Outcome{
			State:      StateFailedPurchase,
			ErrorMsg:   "Unable to process payment",
			Reason:     result.Reason,
			Response:   result.Response,
			Donation:   &donation,
			Result:     &result,
			Submission: c.scrubbed(sub),
		}
	}

	c.metrics.PurchasesSucceeded.Inc()
	if result.RecurringResponse != nil {
		outcome := "succeeded"
		if !result.RecurringResponse.Approved {
			outcome = "failed"
		}
		c.metrics.SubscriptionsSetup.WithLabelValues(outcome).Inc()
	}

	return Outcome{
		State:       StateSucceeded,
		Amount:      donation.Amount.StringFixed(2),
		RedirectURL: c.cfg.DonationSuccessURL,
		Donation:    &donation,
		Result:      &result,
	}
}

func (c *Controller) failValidation(sub *Submission, errs []FieldError) Outcome {
	c.metrics.ValidationFailures.Inc()
	return Outcome{
		State:       StateFailedValidation,
		FieldErrors: errs,
		Submission:  c.scrubbed(sub),
	}
}

// scrubbed returns a copy of the submission with the backend's sensitive
// fields blanked, safe to echo back to the client.
func (c *Controller) scrubbed(sub *Submission) *Submission {
	if sub == nil {
		return nil
	}
	clone := *sub
	clone.Scrub(c.backend.FormContract().SensitiveFields)
	return &clone
}

func addressInput(address *AddressSubmission) *donordomain.AddressInput {
	if address.empty() {
		return nil
	}
	return &donordomain.AddressInput{
		Street: address.Street,
		City:   address.City,
		State:  address.State,
		Zip:    address.Zip,
	}
}

func pricingFieldErrors(err error) []FieldError {
	switch {
	case errors.Is(err, donationdomain.ErrMissingAmount):
		return []FieldError{{Field: "amount", Code: "required", Message: "an amount or donation type is required"}}
	case errors.Is(err, donationdomain.ErrInvalidAmount):
		return []FieldError{{Field: "amount", Code: "invalid_amount", Message: "amount must be a positive number"}}
	case errors.Is(err, donationdomain.ErrUnknownOption):
		return []FieldError{{Field: "donation_type_option_id", Code: "unknown_donation_type", Message: "donation type not found"}}
	case errors.Is(err, donationdomain.ErrUnknownPromoCode):
		return []FieldError{{Field: "promo_code", Code: "unknown_promo_code", Message: "promo code not found"}}
	default:
		return []FieldError{{Field: "donation", Code: "invalid", Message: err.Error()}}
	}
}

func donorFieldErrors(err error) []FieldError {
	switch {
	case errors.Is(err, donordomain.ErrInvalidAccount):
		return []FieldError{{Field: "account_id", Code: "invalid_account", Message: "account not found"}}
	case errors.Is(err, donordomain.ErrInvalidName):
		return []FieldError{{Field: "first_name", Code: "required", Message: "donor name is required"}}
	default:
		return []FieldError{{Field: "donor", Code: "invalid", Message: err.Error()}}
	}
}
