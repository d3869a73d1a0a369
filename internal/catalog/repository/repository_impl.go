package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/donara/internal/catalog/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertType(ctx context.Context, db *gorm.DB, donationType *domain.DonationType) error {
	return db.WithContext(ctx).Omit("Options").Create(donationType).Error
}

func (r *repo) InsertOption(ctx context.Context, db *gorm.DB, option *domain.DonationTypeOption) error {
	return db.WithContext(ctx).Omit("DonationType").Create(option).Error
}

func (r *repo) ListTypes(ctx context.Context, db *gorm.DB) ([]*domain.DonationType, error) {
	var types []*domain.DonationType
	err := db.WithContext(ctx).
		Preload("Options").
		Order("created_at asc, id asc").
		Find(&types).Error
	if err != nil {
		return nil, err
	}
	return types, nil
}

func (r *repo) FindOptionByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.DonationTypeOption, error) {
	var option domain.DonationTypeOption
	err := db.WithContext(ctx).
		Preload("DonationType").
		First(&option, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &option, nil
}
