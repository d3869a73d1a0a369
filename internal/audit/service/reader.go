package service

import (
	"context"
	"strconv"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/donara/internal/audit/domain"
	donationdomain "github.com/smallbiznis/donara/internal/donation/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ReaderParams struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo domain.Repository
}

// Reader serves the purchase audit trail for a donation.
type Reader struct {
	db   *gorm.DB
	log  *zap.Logger
	repo domain.Repository
}

func NewReader(p ReaderParams) *Reader {
	return &Reader{
		db:   p.DB,
		log:  p.Log.Named("audit.reader"),
		repo: p.Repo,
	}
}

func (r *Reader) ListByDonation(ctx context.Context, donationID string) ([]domain.PurchaseRecord, error) {
	id, err := strconv.ParseInt(donationID, 10, 64)
	if err != nil {
		return nil, donationdomain.ErrInvalidID
	}
	return r.repo.ListByDonation(ctx, r.db, snowflake.ID(id))
}
