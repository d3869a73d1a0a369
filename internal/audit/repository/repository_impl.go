package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/donara/internal/audit/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, record *domain.PurchaseRecord) error {
	return db.WithContext(ctx).Create(record).Error
}

func (r *repo) ListByDonation(ctx context.Context, db *gorm.DB, donationID snowflake.ID) ([]domain.PurchaseRecord, error) {
	var records []domain.PurchaseRecord
	err := db.WithContext(ctx).
		Where("donation_id = ?", donationID).
		Order("created_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
