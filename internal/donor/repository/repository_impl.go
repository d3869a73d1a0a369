package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/donara/internal/donor/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertAddress(ctx context.Context, db *gorm.DB, address *domain.DonorAddress) error {
	return db.WithContext(ctx).Create(address).Error
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, donor *domain.Donor) error {
	return db.WithContext(ctx).Omit("BillingAddress", "MailingAddress").Create(donor).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Donor, error) {
	var donor domain.Donor
	err := db.WithContext(ctx).
		Preload("BillingAddress").
		Preload("MailingAddress").
		First(&donor, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &donor, nil
}

func (r *repo) FindAccountByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Account, error) {
	var account domain.Account
	err := db.WithContext(ctx).First(&account, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}
