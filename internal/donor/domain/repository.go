package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	InsertAddress(ctx context.Context, db *gorm.DB, address *DonorAddress) error
	Insert(ctx context.Context, db *gorm.DB, donor *Donor) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Donor, error)
	FindAccountByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Account, error)
}
