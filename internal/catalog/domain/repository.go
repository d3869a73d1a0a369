package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	InsertType(ctx context.Context, db *gorm.DB, donationType *DonationType) error
	InsertOption(ctx context.Context, db *gorm.DB, option *DonationTypeOption) error
	ListTypes(ctx context.Context, db *gorm.DB) ([]*DonationType, error)
	FindOptionByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*DonationTypeOption, error)
}
