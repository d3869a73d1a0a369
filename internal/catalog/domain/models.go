package domain

import (
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// DonationType is a catalog tier donors can pick instead of a free-form
// amount ("Sustainer", "Patron", ...).
type DonationType struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"not null" json:"name"`
	CreatedAt time.Time    `gorm:"not null" json:"created_at"`

	Options []DonationTypeOption `gorm:"foreignKey:DonationTypeID" json:"options,omitempty"`
}

func (DonationType) TableName() string { return "donation_types" }

// DonationTypeOption is a purchasable instance of a tier: a fixed amount and
// an optional repeat schedule. RepeatCount zero means one-time.
type DonationTypeOption struct {
	ID             snowflake.ID    `gorm:"primaryKey" json:"id"`
	DonationTypeID snowflake.ID    `gorm:"not null;index" json:"donation_type_id"`
	Amount         decimal.Decimal `gorm:"type:numeric(9,2);not null" json:"amount"`
	// LengthMonths is the number of months per installment (1 is monthly,
	// 12 is yearly).
	LengthMonths int       `gorm:"not null;default:1" json:"length_months"`
	RepeatCount  int       `gorm:"not null;default:0" json:"repeat_count"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`

	DonationType *DonationType `gorm:"foreignKey:DonationTypeID" json:"-"`
}

func (DonationTypeOption) TableName() string { return "donation_type_options" }

func (o DonationTypeOption) IsRepeating() bool {
	return o.RepeatCount > 0
}

func (o DonationTypeOption) String() string {
	name := ""
	if o.DonationType != nil {
		name = o.DonationType.Name
	}
	return fmt.Sprintf("%s (%s)", name, o.Amount.StringFixed(2))
}
