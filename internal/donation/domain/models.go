package domain

import (
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	catalogdomain "github.com/smallbiznis/donara/internal/catalog/domain"
	donordomain "github.com/smallbiznis/donara/internal/donor/domain"
	promodomain "github.com/smallbiznis/donara/internal/promocode/domain"
)

// Donation is one gift record. Amount is resolved once at creation (catalog
// fallback, then promo discount) and never updated afterwards; Processed
// flips false→true exactly once, on a successful one-time charge.
type Donation struct {
	ID                   snowflake.ID    `gorm:"primaryKey" json:"id"`
	DonorID              snowflake.ID    `gorm:"not null;index" json:"donor_id"`
	DonationTypeOptionID *snowflake.ID   `gorm:"index" json:"donation_type_option_id,omitempty"`
	PromoCodeID          *snowflake.ID   `json:"promo_code_id,omitempty"`
	Amount               decimal.Decimal `gorm:"type:numeric(9,2);not null" json:"amount"`
	Processed            bool            `gorm:"not null;default:false" json:"processed"`
	Attribution          string          `json:"attribution,omitempty"`
	Anonymous            bool            `gorm:"not null;default:false" json:"anonymous"`
	CreatedAt            time.Time       `gorm:"not null" json:"created_at"`

	Donor              *donordomain.Donor                `gorm:"foreignKey:DonorID" json:"donor,omitempty"`
	DonationTypeOption *catalogdomain.DonationTypeOption `gorm:"foreignKey:DonationTypeOptionID" json:"donation_type_option,omitempty"`
	PromoCode          *promodomain.PromoCode            `gorm:"foreignKey:PromoCodeID" json:"promo_code,omitempty"`
}

func (Donation) TableName() string { return "donations" }

func (d Donation) IsRepeating() bool {
	return d.DonationTypeOption != nil && d.DonationTypeOption.IsRepeating()
}

func (d Donation) String() string {
	name := ""
	if d.Donor != nil {
		name = d.Donor.FullName()
	}
	return fmt.Sprintf("%s donated %s", name, d.Amount.StringFixed(2))
}
