package workflow

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/prometheus/client_golang/prometheus"
	catalogdomain "github.com/smallbiznis/donara/internal/catalog/domain"
	catalogrepo "github.com/smallbiznis/donara/internal/catalog/repository"
	catalogservice "github.com/smallbiznis/donara/internal/catalog/service"
	"github.com/smallbiznis/donara/internal/clock"
	"github.com/smallbiznis/donara/internal/config"
	donationdomain "github.com/smallbiznis/donara/internal/donation/domain"
	donationrepo "github.com/smallbiznis/donara/internal/donation/repository"
	donationservice "github.com/smallbiznis/donara/internal/donation/service"
	donordomain "github.com/smallbiznis/donara/internal/donor/domain"
	donorrepo "github.com/smallbiznis/donara/internal/donor/repository"
	donorservice "github.com/smallbiznis/donara/internal/donor/service"
	"github.com/smallbiznis/donara/internal/observability/metrics"
	paymentdomain "github.com/smallbiznis/donara/internal/payment/domain"
	promodomain "github.com/smallbiznis/donara/internal/promocode/domain"
	promorepo "github.com/smallbiznis/donara/internal/promocode/repository"
	promoservice "github.com/smallbiznis/donara/internal/promocode/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type backendStub struct {
	result    paymentdomain.PurchaseResult
	purchases []paymentdomain.CardDetails
	donations []*donationdomain.Donation
	markOnOK  donationdomain.Service
}

func (b *backendStub) Name() string { return "stub" }

func (b *backendStub) FormContract() paymentdomain.FormContract {
	return paymentdomain.FormContract{
		Fields: []paymentdomain.FormField{
			{Name: paymentdomain.FieldCardNumber, Required: true},
			{Name: paymentdomain.FieldCVV, Required: true},
			{Name: paymentdomain.FieldExpirationMonth, Required: true},
			{Name: paymentdomain.FieldExpirationYear, Required: true},
		},
		SensitiveFields: []string{paymentdomain.FieldCardNumber, paymentdomain.FieldCVV},
	}
}

func (b *backendStub) Purchase(ctx context.Context, donation *donationdomain.Donation, card paymentdomain.CardDetails) paymentdomain.PurchaseResult {
	b.purchases = append(b.purchases, card)
	b.donations = append(b.donations, donation)
	if b.result.Status && b.markOnOK != nil {
		_ = b.markOnOK.MarkProcessed(ctx, donation)
	}
	return b.result
}

type controllerFixture struct {
	db         *gorm.DB
	node       *snowflake.Node
	cfg        config.Config
	backend    *backendStub
	catalog    catalogdomain.Service
	promos     promodomain.Service
	controller *Controller
}

func setupController(t *testing.T, cfg config.Config) *controllerFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&donordomain.Account{},
		&donordomain.DonorAddress{},
		&donordomain.Donor{},
		&catalogdomain.DonationType{},
		&catalogdomain.DonationTypeOption{},
		&promodomain.PromoCode{},
		&donationdomain.Donation{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	log := zap.NewNop()

	donors := donorservice.New(donorservice.Params{
		DB: db, Log: log, GenID: node, Repo: donorrepo.Provide(),
	})
	catalog := catalogservice.New(catalogservice.Params{
		DB: db, Log: log, GenID: node, Repo: catalogrepo.Provide(),
	})
	promos := promoservice.New(promoservice.Params{
		DB: db, Log: log, GenID: node, Repo: promorepo.Provide(),
	})
	donations := donationservice.New(donationservice.Params{
		DB: db, Log: log, GenID: node, Repo: donationrepo.Provide(),
		DonorSvc: donors, CatalogSvc: catalog, PromoSvc: promos,
	})

	backend := &backendStub{
		result:   paymentdomain.PurchaseResult{Status: true, Response: "1|1|1|approved"},
		markOnOK: donations,
	}

	controller := New(Params{
		Cfg:         cfg,
		Log:         log,
		Clock:       clock.NewFakeClock(time.Date(2024, time.April, 1, 12, 0, 0, 0, time.UTC)),
		Metrics:     metrics.New(prometheus.NewRegistry()),
		DonorSvc:    donors,
		DonationSvc: donations,
		Backend:     backend,
	})

	return &controllerFixture{
		db: db, node: node, cfg: cfg,
		backend: backend, catalog: catalog, promos: promos,
		controller: controller,
	}
}

func validSubmission() *Submission {
	return &Submission{
		Donor: DonorSubmission{
			FirstName: "Kim",
			LastName:  "King",
			Email:     "kim@example.com",
		},
		BillingAddress: &AddressSubmission{
			Street: "12 Cedar Ln",
			City:   "Reno",
			State:  "NV",
			Zip:    "89501",
		},
		MailingSameAsBilling: true,
		Donation: DonationSubmission{
			Amount: "30",
		},
		Card: CardSubmission{
			Number:          "4111111111111111",
			CVV:             "123",
			ExpirationMonth: 6,
			ExpirationYear:  2027,
		},
	}
}

func TestProcess_Success(t *testing.T) {
	f := setupController(t, config.Config{DonationSuccessURL: "/donate/thanks"})

	outcome := f.controller.Process(context.Background(), validSubmission())

	assert.Equal(t, StateSucceeded, outcome.State)
	assert.Equal(t, "30.00", outcome.Amount)
	assert.Equal(t, "/donate/thanks", outcome.RedirectURL)
	require.NotNil(t, outcome.Donation)
	assert.True(t, outcome.Donation.Processed)
	require.Len(t, f.backend.purchases, 1)
	assert.Equal(t, "4111111111111111", f.backend.purchases[0].Number)
}

func TestProcess_ValidationFailureScrubsCard(t *testing.T) {
	f := setupController(t, config.Config{})

	sub := validSubmission()
	sub.Donor.FirstName = ""
	sub.Donor.LastName = ""

	outcome := f.controller.Process(context.Background(), sub)

	assert.Equal(t, StateFailedValidation, outcome.State)
	assert.NotEmpty(t, outcome.FieldErrors)
	require.NotNil(t, outcome.Submission)
	assert.Empty(t, outcome.Submission.Card.Number)
	assert.Empty(t, outcome.Submission.Card.CVV)
	// Non-sensitive fields are echoed for redisplay.
	assert.Equal(t, "30", outcome.Submission.Donation.Amount)
	assert.Empty(t, f.backend.purchases)

	// Nothing persisted on a validation failure.
	var count int64
	require.NoError(t, f.db.Model(&donordomain.Donor{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestProcess_AllErrorsReportedAtOnce(t *testing.T) {
	f := setupController(t, config.Config{})

	sub := validSubmission()
	sub.Donor.FirstName = ""
	sub.Card.Number = "bad"
	sub.Card.ExpirationMonth = 13

	outcome := f.controller.Process(context.Background(), sub)

	assert.Equal(t, StateFailedValidation, outcome.State)
	assert.GreaterOrEqual(t, len(outcome.FieldErrors), 3)
}

func TestProcess_UnknownPromoMapsToField(t *testing.T) {
	f := setupController(t, config.Config{})

	sub := validSubmission()
	sub.Donation.PromoCode = "NOSUCH"

	outcome := f.controller.Process(context.Background(), sub)

	assert.Equal(t, StateFailedValidation, outcome.State)
	require.Len(t, outcome.FieldErrors, 1)
	assert.Equal(t, "promo_code", outcome.FieldErrors[0].Field)
}

func TestProcess_ConfirmationPreview(t *testing.T) {
	f := setupController(t, config.Config{RequireConfirmation: true})

	sub := validSubmission()
	outcome := f.controller.Process(context.Background(), sub)

	assert.Equal(t, StateAwaitingConfirmation, outcome.State)
	assert.Equal(t, "30.00", outcome.Amount)
	assert.Empty(t, f.backend.purchases)

	// Read-only: repeatable with identical output, nothing persisted.
	again := f.controller.Process(context.Background(), validSubmission())
	assert.Equal(t, outcome.State, again.State)
	assert.Equal(t, outcome.Amount, again.Amount)

	var count int64
	require.NoError(t, f.db.Model(&donationdomain.Donation{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestProcess_ConfirmedSubmissionCharges(t *testing.T) {
	f := setupController(t, config.Config{RequireConfirmation: true})

	sub := validSubmission()
	sub.Confirmed = true

	outcome := f.controller.Process(context.Background(), sub)

	assert.Equal(t, StateSucceeded, outcome.State)
	require.Len(t, f.backend.purchases, 1)
}

func TestProcess_FailedPurchaseKeepsDonation(t *testing.T) {
	f := setupController(t, config.Config{})
	f.backend.result = paymentdomain.PurchaseResult{
		Status:   false,
		Reason:   "This transaction has been declined.",
		Response: "2|1|2|This transaction has been declined.",
	}

	outcome := f.controller.Process(context.Background(), validSubmission())

	assert.Equal(t, StateFailedPurchase, outcome.State)
	assert.Equal(t, "Unable to process payment", outcome.ErrorMsg)
	assert.Equal(t, "This transaction has been declined.", outcome.Reason)
	require.NotNil(t, outcome.Donation)
	require.NotNil(t, outcome.Submission)
	assert.Empty(t, outcome.Submission.Card.Number)

	// The donation row stays, unprocessed.
	var stored donationdomain.Donation
	require.NoError(t, f.db.First(&stored, "id = ?", outcome.Donation.ID).Error)
	assert.False(t, stored.Processed)
}

func TestFormContext(t *testing.T) {
	f := setupController(t, config.Config{RequireConfirmation: true})

	form := f.controller.FormContext("/api/v1/donate")

	assert.Equal(t, "/api/v1/donate", form.FormActionURL)
	assert.True(t, form.RequireConfirmation)
	assert.Len(t, form.PaymentFields, 4)
}
