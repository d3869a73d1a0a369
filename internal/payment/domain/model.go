package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	donationdomain "github.com/smallbiznis/donara/internal/donation/domain"
)

// CardDetails is the submitted payment data a backend's form contract asked
// the workflow to collect. Never persisted, never logged.
type CardDetails struct {
	Number          string
	CVV             string
	ExpirationMonth int
	ExpirationYear  int
}

// OneTimeExpiration formats the expiration for immediate captures (MM-YYYY).
func (c CardDetails) OneTimeExpiration() string {
	return fmt.Sprintf("%02d-%04d", c.ExpirationMonth, c.ExpirationYear)
}

// RecurringExpiration formats the expiration for subscription setup (YYYY-MM).
func (c CardDetails) RecurringExpiration() string {
	return fmt.Sprintf("%04d-%02d", c.ExpirationYear, c.ExpirationMonth)
}

// ChargeRequest is an immediate, one-time capture.
type ChargeRequest struct {
	Amount         decimal.Decimal
	CardNumber     string
	CardCode       string
	ExpirationDate string
	FirstName      string
	LastName       string
	Street         string
	City           string
	State          string
	Zip            string
	Description    string
}

// SubscriptionRequest establishes a recurring billing schedule. The first
// installment starts one billing cycle after the already-captured one-time
// charge.
type SubscriptionRequest struct {
	Amount           decimal.Decimal
	CardNumber       string
	CardCode         string
	ExpirationDate   string
	IntervalMonths   int
	TotalOccurrences int
	StartDate        time.Time
	FirstName        string
	LastName         string
	Name             string
}

// GatewayResponse is the gateway's verdict on a single call. Approved is the
// backend-specific interpretation of ReasonCode; Raw keeps the undecoded
// response for the presentation layer and audits.
type GatewayResponse struct {
	Approved   bool   `json:"approved"`
	ReasonCode string `json:"reason_code"`
	ReasonText string `json:"reason_text"`
	Raw        string `json:"raw"`
}

// GatewayClient is the external collaborator performing the actual network
// calls. Implementations own their timeout policy and must resolve a timeout
// as an error, never hang.
type GatewayClient interface {
	ChargeOnce(ctx context.Context, req ChargeRequest) (GatewayResponse, error)
	CreateSubscription(ctx context.Context, req SubscriptionRequest) (GatewayResponse, error)
}

// PurchaseResult is what Purchase always returns; gateway and network
// failures land here as Status=false, never as an error.
type PurchaseResult struct {
	Status   bool   `json:"status"`
	Reason   string `json:"reason,omitempty"`
	Response string `json:"response,omitempty"`
	// RecurringResponse records the subscription-setup outcome. A failed
	// subscription never reverses a successful one-time charge, so this is
	// reported separately from Status.
	RecurringResponse *GatewayResponse `json:"recurring_response,omitempty"`
}

// FormField names a payment-detail field the workflow must collect.
type FormField struct {
	Name     string `json:"name"`
	Required bool   `json:"required"`
}

// FormContract is the backend's capability negotiation: which payment fields
// to collect and which to scrub from any redisplayed submission.
type FormContract struct {
	Fields          []FormField `json:"fields"`
	SensitiveFields []string    `json:"sensitive_fields"`
}

const (
	FieldCardNumber      = "card_number"
	FieldCVV             = "cvv"
	FieldExpirationMonth = "expiration_month"
	FieldExpirationYear  = "expiration_year"
)

// Backend turns a persisted donation plus submitted payment details into an
// actual charge and, for repeating donations, a subscription.
type Backend interface {
	Name() string
	FormContract() FormContract
	Purchase(ctx context.Context, donation *donationdomain.Donation, card CardDetails) PurchaseResult
}

var (
	ErrBackendNotFound = errors.New("backend_not_found")
	ErrInvalidConfig   = errors.New("invalid_config")
	// ErrMissingDonation marks a programmer error: Purchase called without a
	// persisted donation. This one does surface as a hard failure.
	ErrMissingDonation = errors.New("missing_donation")
)
