package domain

import (
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/donara/internal/pricing"
)

// PromoCode is a percentage discount: 0 is no discount, 100 is free.
type PromoCode struct {
	ID              snowflake.ID    `gorm:"primaryKey" json:"id"`
	Code            string          `gorm:"uniqueIndex;not null" json:"code"`
	DiscountPercent decimal.Decimal `gorm:"type:numeric(5,2);not null" json:"discount_percent"`
	CreatedAt       time.Time       `gorm:"not null" json:"created_at"`
}

func (PromoCode) TableName() string { return "promo_codes" }

// Apply discounts base by the code's percentage, rounded to cents.
func (p PromoCode) Apply(base decimal.Decimal) (decimal.Decimal, error) {
	return pricing.ApplyPromo(base, p.DiscountPercent)
}

func (p PromoCode) String() string {
	return fmt.Sprintf("%s (%s%%)", p.Code, p.DiscountPercent)
}
