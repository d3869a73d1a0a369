package domain

import (
	"context"
	"errors"
)

// AddressInput is an already-validated address block from the form layer.
type AddressInput struct {
	Street string
	City   string
	State  string
	Zip    string
}

type CreateDonorRequest struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	AccountID string

	Billing              *AddressInput
	Mailing              *AddressInput
	MailingSameAsBilling bool
}

type GetDonorRequest struct {
	ID string
}

type Service interface {
	// Create persists addresses first, then the donor, applying the
	// name-from-account default-fill rule.
	Create(context.Context, CreateDonorRequest) (Donor, error)
	GetByID(context.Context, GetDonorRequest) (Donor, error)
}

var (
	ErrInvalidName    = errors.New("invalid_name")
	ErrInvalidAccount = errors.New("invalid_account")
	ErrInvalidID      = errors.New("invalid_id")
	ErrNotFound       = errors.New("not_found")
)
