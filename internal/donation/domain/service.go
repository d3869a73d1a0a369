package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/donara/pkg/db/pagination"
)

// CreateDonationRequest carries already-validated submission fields. Amount
// is the explicit free-form amount; empty means "use the selected option's
// catalog amount".
type CreateDonationRequest struct {
	DonorID              string
	Amount               string
	DonationTypeOptionID string
	PromoCode            string
	Attribution          string
	Anonymous            bool
}

// QuoteRequest resolves a charge amount without persisting anything. Used by
// the confirmation preview.
type QuoteRequest struct {
	Amount               string
	DonationTypeOptionID string
	PromoCode            string
}

type Quote struct {
	Amount      decimal.Decimal `json:"amount"`
	IsRepeating bool            `json:"is_repeating"`
}

type ListDonationRequest struct {
	PageToken string
	PageSize  int32
	Processed *bool
}

type ListDonationResponse struct {
	pagination.PageInfo
	Donations []Donation `json:"donations"`
}

type GetDonationRequest struct {
	ID string
}

type Service interface {
	Create(context.Context, CreateDonationRequest) (Donation, error)
	Quote(context.Context, QuoteRequest) (Quote, error)
	MarkProcessed(context.Context, *Donation) error
	List(context.Context, ListDonationRequest) (ListDonationResponse, error)
	GetByID(context.Context, GetDonationRequest) (Donation, error)
}

var (
	ErrInvalidDonor     = errors.New("invalid_donor")
	ErrInvalidAmount    = errors.New("invalid_amount")
	ErrMissingAmount    = errors.New("missing_amount")
	ErrUnknownOption    = errors.New("unknown_donation_type")
	ErrUnknownPromoCode = errors.New("unknown_promo_code")
	ErrInvalidID        = errors.New("invalid_id")
	ErrNotFound         = errors.New("not_found")
	ErrAlreadyProcessed = errors.New("already_processed")
)
