package domain

import (
	"context"
	"errors"
)

type CreateOptionInput struct {
	Amount       string
	LengthMonths int
	RepeatCount  int
}

type CreateTypeRequest struct {
	Name    string
	Options []CreateOptionInput
}

type GetOptionRequest struct {
	ID string
}

type Service interface {
	CreateType(context.Context, CreateTypeRequest) (DonationType, error)
	ListTypes(context.Context) ([]DonationType, error)
	GetOption(context.Context, GetOptionRequest) (DonationTypeOption, error)
}

var (
	ErrInvalidName   = errors.New("invalid_name")
	ErrInvalidAmount = errors.New("invalid_amount")
	ErrInvalidRepeat = errors.New("invalid_repeat")
	ErrInvalidID     = errors.New("invalid_id")
	ErrNotFound      = errors.New("not_found")
)
