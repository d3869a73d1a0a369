package seed

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	catalogdomain "github.com/smallbiznis/donara/internal/catalog/domain"
	promodomain "github.com/smallbiznis/donara/internal/promocode/domain"
	"gorm.io/gorm"
)

const (
	defaultTypeName  = "Sustainer"
	defaultPromoCode = "WELCOME10"
)

// EnsureDefaults seeds a starter donation-type catalog and a sample promo
// code so a fresh install can take a donation immediately. Idempotent.
func EnsureDefaults(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureDefaultCatalogTx(ctx, tx, node); err != nil {
			return err
		}
		return ensureDefaultPromoTx(ctx, tx, node)
	})
}

func ensureDefaultCatalogTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node) error {
	var existing catalogdomain.DonationType
	err := tx.WithContext(ctx).Where("name = ?", defaultTypeName).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	donationType := catalogdomain.DonationType{
		ID:   node.Generate(),
		Name: defaultTypeName,
	}
	if err := tx.WithContext(ctx).Create(&donationType).Error; err != nil {
		return err
	}

	options := []catalogdomain.DonationTypeOption{
		{
			ID:             node.Generate(),
			DonationTypeID: donationType.ID,
			Amount:         decimal.NewFromInt(25),
			LengthMonths:   1,
		},
		{
			ID:             node.Generate(),
			DonationTypeID: donationType.ID,
			Amount:         decimal.NewFromInt(10),
			LengthMonths:   1,
			RepeatCount:    12,
		},
	}
	return tx.WithContext(ctx).Create(&options).Error
}

func ensureDefaultPromoTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node) error {
	var existing promodomain.PromoCode
	err := tx.WithContext(ctx).Where("code = ?", defaultPromoCode).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	promo := promodomain.PromoCode{
		ID:              node.Generate(),
		Code:            defaultPromoCode,
		DiscountPercent: decimal.NewFromInt(10),
	}
	return tx.WithContext(ctx).Create(&promo).Error
}
