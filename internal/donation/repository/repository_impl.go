package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/donara/internal/donation/domain"
	"github.com/smallbiznis/donara/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, donation *domain.Donation) error {
	return db.WithContext(ctx).
		Omit("Donor", "DonationTypeOption", "PromoCode").
		Create(donation).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Donation, error) {
	var donation domain.Donation
	err := db.WithContext(ctx).
		Preload("Donor").
		Preload("Donor.BillingAddress").
		Preload("Donor.MailingAddress").
		Preload("DonationTypeOption").
		Preload("PromoCode").
		First(&donation, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &donation, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListDonationFilter, page pagination.Pagination) ([]*domain.Donation, error) {
	stmt := db.WithContext(ctx).Model(&domain.Donation{})
	if filter.Processed != nil {
		stmt = stmt.Where("processed = ?", *filter.Processed)
	}
	if filter.DonorID != 0 {
		stmt = stmt.Where("donor_id = ?", filter.DonorID)
	}

	if page.PageToken != "" {
		cursor, err := pagination.DecodeCursor(page.PageToken)
		if err != nil {
			return nil, err
		}
		createdAt, err := time.Parse(time.RFC3339, cursor.CreatedAt)
		if err != nil {
			return nil, err
		}
		stmt = stmt.Where("(created_at, id) < (?, ?)", createdAt, cursor.ID)
	}
	if page.PageSize > 0 {
		stmt = stmt.Limit(page.PageSize + 1)
	}

	var donations []*domain.Donation
	err := stmt.
		Preload("Donor").
		Preload("DonationTypeOption").
		Order("created_at desc, id desc").
		Find(&donations).Error
	if err != nil {
		return nil, err
	}
	return donations, nil
}

func (r *repo) SetProcessed(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).
		Model(&domain.Donation{}).
		Where("id = ? AND processed = ?", id, false).
		Update("processed", true).Error
}
