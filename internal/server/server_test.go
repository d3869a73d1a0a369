package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
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
	"github.com/smallbiznis/donara/internal/events"
	"github.com/smallbiznis/donara/internal/observability/metrics"
	"github.com/smallbiznis/donara/internal/payment/backends"
	backendimpl "github.com/smallbiznis/donara/internal/payment/backends/authorizenet"
	paymentdomain "github.com/smallbiznis/donara/internal/payment/domain"
	promodomain "github.com/smallbiznis/donara/internal/promocode/domain"
	promorepo "github.com/smallbiznis/donara/internal/promocode/repository"
	promoservice "github.com/smallbiznis/donara/internal/promocode/service"
	"github.com/smallbiznis/donara/internal/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type approvingGateway struct{}

func (approvingGateway) ChargeOnce(_ context.Context, _ paymentdomain.ChargeRequest) (paymentdomain.GatewayResponse, error) {
	return paymentdomain.GatewayResponse{
		Approved:   true,
		ReasonCode: "1",
		ReasonText: "This transaction has been approved.",
		Raw:        "1|1|1|This transaction has been approved.",
	}, nil
}

func (approvingGateway) CreateSubscription(_ context.Context, _ paymentdomain.SubscriptionRequest) (paymentdomain.GatewayResponse, error) {
	return paymentdomain.GatewayResponse{Approved: true, Raw: "Ok"}, nil
}

func setupServer(t *testing.T) (*Server, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

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

	backend, err := backendimpl.NewFactory().NewBackend(backends.Deps{
		Gateway:   approvingGateway{},
		Donations: donations,
		Events:    events.NewBus(log),
		Clock:     clock.NewFakeClock(time.Date(2024, time.April, 1, 12, 0, 0, 0, time.UTC)),
		Log:       log,
	})
	require.NoError(t, err)

	cfg := config.Config{DonationSuccessURL: "/donate/thanks"}
	controller := workflow.New(workflow.Params{
		Cfg:         cfg,
		Log:         log,
		Clock:       clock.NewFakeClock(time.Date(2024, time.April, 1, 12, 0, 0, 0, time.UTC)),
		Metrics:     metrics.New(prometheus.NewRegistry()),
		DonorSvc:    donors,
		DonationSvc: donations,
		Backend:     backend,
	})

	engine := NewEngine(log, node, metrics.NewRegistry())
	srv := NewServer(ServerParams{
		Gin:         engine,
		Cfg:         cfg,
		Workflow:    controller,
		DonorSvc:    donors,
		CatalogSvc:  catalog,
		PromoSvc:    promos,
		DonationSvc: donations,
	})
	return srv, db
}

func doJSON(t *testing.T, srv *Server, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)
	return rec
}

func TestGetDonationForm(t *testing.T) {
	srv, _ := setupServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/donate", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data workflow.FormContext `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "/api/v1/donate", resp.Data.FormActionURL)
	assert.Len(t, resp.Data.PaymentFields, 4)
}

func TestSubmitDonation_Success(t *testing.T) {
	srv, db := setupServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/donate", map[string]any{
		"donor": map[string]any{
			"first_name": "Lena",
			"last_name":  "Lowe",
			"email":      "lena@example.com",
		},
		"billing_address": map[string]any{
			"street": "3 Birch Way",
			"city":   "Austin",
			"state":  "TX",
			"zip":    "73301",
		},
		"mailing_same_as_billing": true,
		"donation":                map[string]any{"amount": "30"},
		"card": map[string]any{
			"card_number":      "4111111111111111",
			"cvv":              "123",
			"expiration_month": 6,
			"expiration_year":  2027,
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Data workflow.Outcome `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, workflow.StateSucceeded, resp.Data.State)
	assert.Equal(t, "/donate/thanks", resp.Data.RedirectURL)

	var count int64
	require.NoError(t, db.Model(&donationdomain.Donation{}).Where("processed = ?", true).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestSubmitDonation_ValidationFailure(t *testing.T) {
	srv, _ := setupServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/donate", map[string]any{
		"donation": map[string]any{"amount": "30"},
		"card": map[string]any{
			"card_number": "4111111111111111",
			"cvv":         "123",
		},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// The card number must never come back.
	assert.NotContains(t, rec.Body.String(), "4111111111111111")
}

func TestPromoCodeEndpoints(t *testing.T) {
	srv, _ := setupServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/promo-codes", map[string]any{
		"code":             "HOLIDAY",
		"discount_percent": "25",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, srv, http.MethodGet, "/api/v1/promo-codes/HOLIDAY", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/api/v1/promo-codes/MISSING", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Duplicate codes conflict.
	rec = doJSON(t, srv, http.MethodPost, "/api/v1/promo-codes", map[string]any{
		"code":             "HOLIDAY",
		"discount_percent": "25",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestDonationTypeEndpoints(t *testing.T) {
	srv, _ := setupServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/donation-types", map[string]any{
		"name": "Patron",
		"options": []map[string]any{
			{"amount": "100.00"},
			{"amount": "20.00", "length_months": 1, "repeat_count": 12},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, srv, http.MethodGet, "/api/v1/donation-types", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Patron")
}

func TestListDonations_InvalidProcessedFilter(t *testing.T) {
	srv, _ := setupServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/donations?processed=maybe", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealth(t *testing.T) {
	srv, _ := setupServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
