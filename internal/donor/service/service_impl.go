package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/donara/internal/donor/domain"
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
		log:   p.Log.Named("donor.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateDonorRequest) (domain.Donor, error) {
	now := time.Now().UTC()

	donor := domain.Donor{
		ID:        s.genID.Generate(),
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     strings.TrimSpace(req.Email),
		Phone:     strings.TrimSpace(req.Phone),
		CreatedAt: now,
	}

	var account *domain.Account
	if accountRaw := strings.TrimSpace(req.AccountID); accountRaw != "" {
		accountID, err := snowflake.ParseString(accountRaw)
		if err != nil || accountID == 0 {
			return domain.Donor{}, domain.ErrInvalidAccount
		}
		account, err = s.repo.FindAccountByID(ctx, s.db, accountID)
		if err != nil {
			return domain.Donor{}, err
		}
		if account == nil {
			return domain.Donor{}, domain.ErrInvalidAccount
		}
		donor.AccountID = &account.ID
	}

	// Default-fill from the linked account. One way only: an explicitly
	// supplied name is never overwritten.
	if account != nil {
		if donor.FirstName == "" {
			donor.FirstName = account.FirstName
		}
		if donor.LastName == "" {
			donor.LastName = account.LastName
		}
		if donor.Email == "" {
			donor.Email = account.Email
		}
	}

	if donor.FirstName == "" || donor.LastName == "" {
		return domain.Donor{}, domain.ErrInvalidName
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Addresses go in first so the donor row holds valid references.
		if req.Billing != nil {
			billing := s.newAddress(*req.Billing, now)
			if err := s.repo.InsertAddress(ctx, tx, billing); err != nil {
				return err
			}
			donor.BillingAddressID = &billing.ID
			donor.BillingAddress = billing

			if req.MailingSameAsBilling {
				donor.MailingAddressID = &billing.ID
				donor.MailingAddress = billing
			}
		}
		if req.Mailing != nil && !req.MailingSameAsBilling {
			mailing := s.newAddress(*req.Mailing, now)
			if err := s.repo.InsertAddress(ctx, tx, mailing); err != nil {
				return err
			}
			donor.MailingAddressID = &mailing.ID
			donor.MailingAddress = mailing
		}
		return s.repo.Insert(ctx, tx, &donor)
	})
	if err != nil {
		return domain.Donor{}, err
	}

	s.log.Info("donor created",
		zap.String("donor_id", donor.ID.String()),
		zap.Bool("has_account", donor.AccountID != nil),
	)
	return donor, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetDonorRequest) (domain.Donor, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil || id == 0 {
		return domain.Donor{}, domain.ErrInvalidID
	}

	donor, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Donor{}, err
	}
	if donor == nil {
		return domain.Donor{}, domain.ErrNotFound
	}
	return *donor, nil
}

func (s *Service) newAddress(in domain.AddressInput, now time.Time) *domain.DonorAddress {
	return &domain.DonorAddress{
		ID:        s.genID.Generate(),
		Street:    strings.TrimSpace(in.Street),
		City:      strings.TrimSpace(in.City),
		State:     strings.ToUpper(strings.TrimSpace(in.State)),
		Zip:       strings.TrimSpace(in.Zip),
		CreatedAt: now,
	}
}
