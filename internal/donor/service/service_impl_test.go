package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/donara/internal/donor/domain"
	"github.com/smallbiznis/donara/internal/donor/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupDonorService(t *testing.T) (domain.Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&domain.Account{},
		&domain.DonorAddress{},
		&domain.Donor{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})
	return svc, db, node
}

func TestCreateDonor_WithAddresses(t *testing.T) {
	svc, db, _ := setupDonorService(t)
	ctx := context.Background()

	donor, err := svc.Create(ctx, domain.CreateDonorRequest{
		FirstName: "Alice",
		LastName:  "Adams",
		Email:     "alice@example.com",
		Billing: &domain.AddressInput{
			Street: "100 Main St",
			City:   "Springfield",
			State:  "IL",
			Zip:    "62704",
		},
		Mailing: &domain.AddressInput{
			Street: "PO Box 9",
			City:   "Springfield",
			State:  "IL",
			Zip:    "62705",
		},
	})
	require.NoError(t, err)
	require.NotZero(t, donor.ID)
	require.NotNil(t, donor.BillingAddressID)
	require.NotNil(t, donor.MailingAddressID)
	assert.NotEqual(t, *donor.BillingAddressID, *donor.MailingAddressID)

	var count int64
	require.NoError(t, db.Model(&domain.DonorAddress{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestCreateDonor_MailingSameAsBilling(t *testing.T) {
	svc, db, _ := setupDonorService(t)
	ctx := context.Background()

	donor, err := svc.Create(ctx, domain.CreateDonorRequest{
		FirstName: "Bob",
		LastName:  "Brown",
		Billing: &domain.AddressInput{
			Street: "42 Oak Ave",
			City:   "Lincoln",
			State:  "NE",
			Zip:    "68508",
		},
		MailingSameAsBilling: true,
	})
	require.NoError(t, err)
	require.NotNil(t, donor.BillingAddressID)
	require.NotNil(t, donor.MailingAddressID)
	assert.Equal(t, *donor.BillingAddressID, *donor.MailingAddressID)

	// One shared row, not a copy.
	var count int64
	require.NoError(t, db.Model(&domain.DonorAddress{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCreateDonor_DefaultFillFromAccount(t *testing.T) {
	svc, db, node := setupDonorService(t)
	ctx := context.Background()

	account := domain.Account{
		ID:        node.Generate(),
		Email:     "carol@example.com",
		FirstName: "Carol",
		LastName:  "Clark",
	}
	require.NoError(t, db.Create(&account).Error)

	donor, err := svc.Create(ctx, domain.CreateDonorRequest{
		AccountID: account.ID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, "Carol", donor.FirstName)
	assert.Equal(t, "Clark", donor.LastName)
	assert.Equal(t, "carol@example.com", donor.Email)
}

func TestCreateDonor_ExplicitNameWinsOverAccount(t *testing.T) {
	svc, db, node := setupDonorService(t)
	ctx := context.Background()

	account := domain.Account{
		ID:        node.Generate(),
		Email:     "dan@example.com",
		FirstName: "Daniel",
		LastName:  "Drake",
	}
	require.NoError(t, db.Create(&account).Error)

	donor, err := svc.Create(ctx, domain.CreateDonorRequest{
		FirstName: "Dan",
		LastName:  "Drake",
		AccountID: account.ID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, "Dan", donor.FirstName)
	assert.Equal(t, "dan@example.com", donor.Email)
}

func TestCreateDonor_MissingName(t *testing.T) {
	svc, _, _ := setupDonorService(t)

	_, err := svc.Create(context.Background(), domain.CreateDonorRequest{
		FirstName: "OnlyFirst",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidName)
}

func TestCreateDonor_UnknownAccount(t *testing.T) {
	svc, _, node := setupDonorService(t)

	_, err := svc.Create(context.Background(), domain.CreateDonorRequest{
		AccountID: node.Generate().String(),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAccount)
}

func TestGetDonorByID_PreloadsAddresses(t *testing.T) {
	svc, _, _ := setupDonorService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateDonorRequest{
		FirstName: "Eve",
		LastName:  "Evans",
		Billing: &domain.AddressInput{
			Street: "7 Elm St",
			City:   "Salem",
			State:  "OR",
			Zip:    "97301",
		},
		MailingSameAsBilling: true,
	})
	require.NoError(t, err)

	found, err := svc.GetByID(ctx, domain.GetDonorRequest{ID: created.ID.String()})
	require.NoError(t, err)
	require.NotNil(t, found.BillingAddress)
	assert.Equal(t, "7 Elm St", found.BillingAddress.Street)
	require.NotNil(t, found.MailingAddress)
	assert.Equal(t, found.BillingAddress.ID, found.MailingAddress.ID)
}
