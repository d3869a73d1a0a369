package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	catalogdomain "github.com/smallbiznis/donara/internal/catalog/domain"
	"github.com/smallbiznis/donara/internal/donation/domain"
	donordomain "github.com/smallbiznis/donara/internal/donor/domain"
	"github.com/smallbiznis/donara/internal/pricing"
	promodomain "github.com/smallbiznis/donara/internal/promocode/domain"
	"github.com/smallbiznis/donara/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Repo       domain.Repository
	DonorSvc   donordomain.Service
	CatalogSvc catalogdomain.Service
	PromoSvc   promodomain.Service
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	repo       domain.Repository
	donorSvc   donordomain.Service
	catalogSvc catalogdomain.Service
	promoSvc   promodomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("donation.service"),
		genID:      p.GenID,
		repo:       p.Repo,
		donorSvc:   p.DonorSvc,
		catalogSvc: p.CatalogSvc,
		promoSvc:   p.PromoSvc,
	}
}

type resolution struct {
	amount decimal.Decimal
	option *catalogdomain.DonationTypeOption
	promo  *promodomain.PromoCode
}

// resolve computes the charge amount: explicit amount or catalog fallback
// first, promo discount applied to the resolved base second. That order is
// load-bearing; the discount never feeds back into resolution.
func (s *Service) resolve(ctx context.Context, amountRaw, optionRaw, codeRaw string) (resolution, error) {
	var out resolution

	var explicit *decimal.Decimal
	if raw := strings.TrimSpace(amountRaw); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil || parsed.IsNegative() {
			return out, domain.ErrInvalidAmount
		}
		explicit = &parsed
	}

	var catalogAmount *decimal.Decimal
	if raw := strings.TrimSpace(optionRaw); raw != "" {
		option, err := s.catalogSvc.GetOption(ctx, catalogdomain.GetOptionRequest{ID: raw})
		if err != nil {
			return out, domain.ErrUnknownOption
		}
		out.option = &option
		catalogAmount = &option.Amount
	}

	base, err := pricing.ResolveBaseAmount(explicit, catalogAmount)
	if err != nil {
		return out, domain.ErrMissingAmount
	}
	out.amount = base

	if raw := strings.TrimSpace(codeRaw); raw != "" {
		promo, err := s.promoSvc.GetByCode(ctx, promodomain.GetPromoCodeRequest{Code: raw})
		if err != nil {
			return out, domain.ErrUnknownPromoCode
		}
		out.promo = &promo
		discounted, err := promo.Apply(base)
		if err != nil {
			return out, domain.ErrInvalidAmount
		}
		out.amount = discounted
	}

	return out, nil
}

func (s *Service) Create(ctx context.Context, req domain.CreateDonationRequest) (domain.Donation, error) {
	donor, err := s.donorSvc.GetByID(ctx, donordomain.GetDonorRequest{ID: req.DonorID})
	if err != nil {
		return domain.Donation{}, domain.ErrInvalidDonor
	}

	resolved, err := s.resolve(ctx, req.Amount, req.DonationTypeOptionID, req.PromoCode)
	if err != nil {
		return domain.Donation{}, err
	}

	donation := domain.Donation{
		ID:          s.genID.Generate(),
		DonorID:     donor.ID,
		Amount:      resolved.amount,
		Attribution: strings.TrimSpace(req.Attribution),
		Anonymous:   req.Anonymous,
		CreatedAt:   time.Now().UTC(),

		Donor: &donor,
	}
	if resolved.option != nil {
		donation.DonationTypeOptionID = &resolved.option.ID
		donation.DonationTypeOption = resolved.option
	}
	if resolved.promo != nil {
		donation.PromoCodeID = &resolved.promo.ID
		donation.PromoCode = resolved.promo
	}

	if err := s.repo.Insert(ctx, s.db, &donation); err != nil {
		return domain.Donation{}, err
	}

	s.log.Info("donation created",
		zap.String("donation_id", donation.ID.String()),
		zap.String("amount", donation.Amount.StringFixed(2)),
		zap.Bool("repeating", donation.IsRepeating()),
	)
	return donation, nil
}

func (s *Service) Quote(ctx context.Context, req domain.QuoteRequest) (domain.Quote, error) {
	resolved, err := s.resolve(ctx, req.Amount, req.DonationTypeOptionID, req.PromoCode)
	if err != nil {
		return domain.Quote{}, err
	}

	quote := domain.Quote{Amount: resolved.amount}
	if resolved.option != nil {
		quote.IsRepeating = resolved.option.IsRepeating()
	}
	return quote, nil
}

func (s *Service) MarkProcessed(ctx context.Context, donation *domain.Donation) error {
	if donation == nil || donation.ID == 0 {
		return domain.ErrInvalidID
	}
	if donation.Processed {
		return domain.ErrAlreadyProcessed
	}

	if err := s.repo.SetProcessed(ctx, s.db, donation.ID); err != nil {
		return err
	}
	donation.Processed = true

	s.log.Info("donation processed", zap.String("donation_id", donation.ID.String()))
	return nil
}

func (s *Service) List(ctx context.Context, req domain.ListDonationRequest) (domain.ListDonationResponse, error) {
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.List(ctx, s.db, domain.ListDonationFilter{Processed: req.Processed}, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  int(pageSize),
	})
	if err != nil {
		return domain.ListDonationResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(donation *domain.Donation) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        donation.ID.String(),
			CreatedAt: donation.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	donations := make([]domain.Donation, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		donations = append(donations, *item)
	}

	resp := domain.ListDonationResponse{Donations: donations}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetDonationRequest) (domain.Donation, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil || id == 0 {
		return domain.Donation{}, domain.ErrInvalidID
	}

	donation, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Donation{}, err
	}
	if donation == nil {
		return domain.Donation{}, domain.ErrNotFound
	}
	return *donation, nil
}
