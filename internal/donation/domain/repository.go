package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/donara/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListDonationFilter struct {
	Processed *bool
	DonorID   snowflake.ID
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, donation *Donation) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Donation, error)
	List(ctx context.Context, db *gorm.DB, filter ListDonationFilter, page pagination.Pagination) ([]*Donation, error)
	// SetProcessed is the only update path a donation row has.
	SetProcessed(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}
