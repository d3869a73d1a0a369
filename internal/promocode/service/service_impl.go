package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/donara/internal/promocode/domain"
	"github.com/smallbiznis/donara/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("promocode.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

var oneHundred = decimal.NewFromInt(100)

func (s *Service) Create(ctx context.Context, req domain.CreatePromoCodeRequest) (domain.PromoCode, error) {
	code := strings.TrimSpace(req.Code)
	if code == "" {
		return domain.PromoCode{}, domain.ErrInvalidCode
	}

	percent, err := decimal.NewFromString(strings.TrimSpace(req.DiscountPercent))
	if err != nil || percent.IsNegative() || percent.GreaterThan(oneHundred) {
		return domain.PromoCode{}, domain.ErrInvalidDiscount
	}

	promo := domain.PromoCode{
		ID:              s.genID.Generate(),
		Code:            code,
		DiscountPercent: percent,
		CreatedAt:       time.Now().UTC(),
	}

	if err := s.repo.Insert(ctx, s.db, &promo); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.PromoCode{}, domain.ErrDuplicateCode
		}
		return domain.PromoCode{}, err
	}

	return promo, nil
}

func (s *Service) GetByCode(ctx context.Context, req domain.GetPromoCodeRequest) (domain.PromoCode, error) {
	code := strings.TrimSpace(req.Code)
	if code == "" {
		return domain.PromoCode{}, domain.ErrInvalidCode
	}

	promo, err := s.repo.FindByCode(ctx, s.db, code)
	if err != nil {
		return domain.PromoCode{}, err
	}
	if promo == nil {
		return domain.PromoCode{}, domain.ErrNotFound
	}
	return *promo, nil
}
