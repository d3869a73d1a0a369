package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/donara/internal/catalog/domain"
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
		log:   p.Log.Named("catalog.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) CreateType(ctx context.Context, req domain.CreateTypeRequest) (domain.DonationType, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.DonationType{}, domain.ErrInvalidName
	}

	now := time.Now().UTC()
	donationType := domain.DonationType{
		ID:        s.genID.Generate(),
		Name:      name,
		CreatedAt: now,
	}

	options := make([]domain.DonationTypeOption, 0, len(req.Options))
	for _, in := range req.Options {
		amount, err := decimal.NewFromString(strings.TrimSpace(in.Amount))
		if err != nil || !amount.IsPositive() {
			return domain.DonationType{}, domain.ErrInvalidAmount
		}
		lengthMonths := in.LengthMonths
		if lengthMonths <= 0 {
			lengthMonths = 1
		}
		if in.RepeatCount < 0 {
			return domain.DonationType{}, domain.ErrInvalidRepeat
		}
		options = append(options, domain.DonationTypeOption{
			ID:             s.genID.Generate(),
			DonationTypeID: donationType.ID,
			Amount:         amount.Round(2),
			LengthMonths:   lengthMonths,
			RepeatCount:    in.RepeatCount,
			CreatedAt:      now,
		})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.InsertType(ctx, tx, &donationType); err != nil {
			return err
		}
		for i := range options {
			if err := s.repo.InsertOption(ctx, tx, &options[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domain.DonationType{}, err
	}

	donationType.Options = options
	return donationType, nil
}

func (s *Service) ListTypes(ctx context.Context) ([]domain.DonationType, error) {
	items, err := s.repo.ListTypes(ctx, s.db)
	if err != nil {
		return nil, err
	}

	types := make([]domain.DonationType, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		types = append(types, *item)
	}
	return types, nil
}

func (s *Service) GetOption(ctx context.Context, req domain.GetOptionRequest) (domain.DonationTypeOption, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil || id == 0 {
		return domain.DonationTypeOption{}, domain.ErrInvalidID
	}

	option, err := s.repo.FindOptionByID(ctx, s.db, id)
	if err != nil {
		return domain.DonationTypeOption{}, err
	}
	if option == nil {
		return domain.DonationTypeOption{}, domain.ErrNotFound
	}
	return *option, nil
}
