package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/donara/internal/audit/domain"
	"github.com/smallbiznis/donara/internal/config"
	"github.com/smallbiznis/donara/internal/events"
	paymentdomain "github.com/smallbiznis/donara/internal/payment/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	Cfg   config.Config
	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

// Recorder subscribes to purchase events and writes one audit row per
// purchase, payload straight from the gateway responses.
type Recorder struct {
	backend string
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	repo    domain.Repository
}

func NewRecorder(p Params) *Recorder {
	return &Recorder{
		backend: p.Cfg.PaymentBackend,
		db:      p.DB,
		log:     p.Log.Named("audit.recorder"),
		genID:   p.GenID,
		repo:    p.Repo,
	}
}

func (r *Recorder) Name() string {
	return "purchase_audit"
}

func (r *Recorder) OnPurchase(ctx context.Context, event events.PurchaseEvent) {
	record := &domain.PurchaseRecord{
		ID:         r.genID.Generate(),
		DonationID: event.Donation.ID,
		Backend:    r.backend,
		Recurring:  event.Result.RecurringResponse != nil,
		Payload:    buildPayload(event.Result),
	}

	if err := r.repo.Insert(ctx, r.db, record); err != nil {
		// Audit writes never affect the purchase itself.
		r.log.Warn("purchase audit write failed",
			zap.String("donation_id", event.Donation.ID.String()),
			zap.Error(err),
		)
	}
}

func buildPayload(result paymentdomain.PurchaseResult) datatypes.JSONMap {
	payload := datatypes.JSONMap{
		"status":   result.Status,
		"response": result.Response,
	}
	if result.Reason != "" {
		payload["reason"] = result.Reason
	}
	if result.RecurringResponse != nil {
		payload["recurring"] = map[string]any{
			"approved":    result.RecurringResponse.Approved,
			"reason_code": result.RecurringResponse.ReasonCode,
			"reason_text": result.RecurringResponse.ReasonText,
			"raw":         result.RecurringResponse.Raw,
		}
	}
	return payload
}

var _ events.Subscriber = (*Recorder)(nil)
