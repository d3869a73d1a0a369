package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/donara/internal/audit/domain"
	"github.com/smallbiznis/donara/internal/audit/repository"
	"github.com/smallbiznis/donara/internal/config"
	donationdomain "github.com/smallbiznis/donara/internal/donation/domain"
	"github.com/smallbiznis/donara/internal/events"
	paymentdomain "github.com/smallbiznis/donara/internal/payment/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupAudit(t *testing.T) (*Recorder, *Reader, *snowflake.Node) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.PurchaseRecord{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	repo := repository.Provide()
	log := zap.NewNop()

	recorder := NewRecorder(Params{
		Cfg:   config.Config{PaymentBackend: "authorizenet"},
		DB:    db,
		Log:   log,
		GenID: node,
		Repo:  repo,
	})
	reader := NewReader(ReaderParams{DB: db, Log: log, Repo: repo})
	return recorder, reader, node
}

func purchaseEvent(node *snowflake.Node, result paymentdomain.PurchaseResult) events.PurchaseEvent {
	return events.PurchaseEvent{
		Donation: &donationdomain.Donation{
			ID:     node.Generate(),
			Amount: decimal.RequireFromString("25.00"),
		},
		Result: result,
	}
}

func TestRecorderWritesOneTimePurchase(t *testing.T) {
	recorder, reader, node := setupAudit(t)
	ctx := context.Background()

	event := purchaseEvent(node, paymentdomain.PurchaseResult{
		Status:   true,
		Response: "1|1|1|This transaction has been approved.",
	})
	recorder.OnPurchase(ctx, event)

	records, err := reader.ListByDonation(ctx, event.Donation.ID.String())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "authorizenet", records[0].Backend)
	assert.False(t, records[0].Recurring)
	assert.Equal(t, true, records[0].Payload["status"])
	assert.NotContains(t, records[0].Payload, "recurring")
}

func TestRecorderWritesRecurringOutcome(t *testing.T) {
	recorder, reader, node := setupAudit(t)
	ctx := context.Background()

	event := purchaseEvent(node, paymentdomain.PurchaseResult{
		Status:   true,
		Response: "1|1|1|This transaction has been approved.",
		RecurringResponse: &paymentdomain.GatewayResponse{
			Approved:   true,
			ReasonCode: "Ok",
			Raw:        "Ok",
		},
	})
	recorder.OnPurchase(ctx, event)

	records, err := reader.ListByDonation(ctx, event.Donation.ID.String())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, records[0].Recurring)

	recurring, ok := records[0].Payload["recurring"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, recurring["approved"])
}

func TestReaderRejectsMalformedID(t *testing.T) {
	_, reader, _ := setupAudit(t)

	_, err := reader.ListByDonation(context.Background(), "not-a-number")
	assert.ErrorIs(t, err, donationdomain.ErrInvalidID)
}

func TestReaderEmptyForUnknownDonation(t *testing.T) {
	_, reader, node := setupAudit(t)

	records, err := reader.ListByDonation(context.Background(), node.Generate().String())
	require.NoError(t, err)
	assert.Empty(t, records)
}
