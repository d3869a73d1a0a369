package domain

import (
	"context"
	"errors"
)

type CreatePromoCodeRequest struct {
	Code            string
	DiscountPercent string
}

type GetPromoCodeRequest struct {
	Code string
}

type Service interface {
	Create(context.Context, CreatePromoCodeRequest) (PromoCode, error)
	GetByCode(context.Context, GetPromoCodeRequest) (PromoCode, error)
}

var (
	ErrInvalidCode     = errors.New("invalid_code")
	ErrInvalidDiscount = errors.New("invalid_discount")
	ErrDuplicateCode   = errors.New("duplicate_code")
	ErrNotFound        = errors.New("not_found")
)
