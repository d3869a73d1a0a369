package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, record *PurchaseRecord) error
	ListByDonation(ctx context.Context, db *gorm.DB, donationID snowflake.ID) ([]PurchaseRecord, error)
}
