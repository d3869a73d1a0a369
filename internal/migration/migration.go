package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	auditdomain "github.com/smallbiznis/donara/internal/audit/domain"
	catalogdomain "github.com/smallbiznis/donara/internal/catalog/domain"
	donationdomain "github.com/smallbiznis/donara/internal/donation/domain"
	donordomain "github.com/smallbiznis/donara/internal/donor/domain"
	promodomain "github.com/smallbiznis/donara/internal/promocode/domain"
	"gorm.io/gorm"
)

// RunMigrations applies the embedded SQL migrations so a postgres deployment
// is fully usable out of the box.
func RunMigrations(db *sql.DB) error {
	if db == nil {
		return errors.New("migration database handle is required")
	}

	sub, err := fs.Sub(embeddedMigrations, migrationsDir)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	source, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	upErr := migrator.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", upErr)
	}
	// Do not call migrator.Close here because it would close the shared *sql.DB.

	return nil
}

// AutoMigrate covers the non-postgres dialects (sqlite for local runs, mysql)
// where the versioned SQL does not apply.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&donordomain.Account{},
		&donordomain.DonorAddress{},
		&donordomain.Donor{},
		&catalogdomain.DonationType{},
		&catalogdomain.DonationTypeOption{},
		&promodomain.PromoCode{},
		&donationdomain.Donation{},
		&auditdomain.PurchaseRecord{},
	)
}
