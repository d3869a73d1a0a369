package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// PurchaseRecord is the audit trail row written after a successful purchase.
// Payload holds the raw gateway responses with sensitive fields already
// excluded; card data never reaches this table.
type PurchaseRecord struct {
	ID         snowflake.ID      `gorm:"primaryKey" json:"id"`
	DonationID snowflake.ID      `gorm:"not null;index" json:"donation_id"`
	Backend    string            `gorm:"not null" json:"backend"`
	Recurring  bool              `gorm:"not null;default:false" json:"recurring"`
	Payload    datatypes.JSONMap `gorm:"type:jsonb" json:"payload"`
	CreatedAt  time.Time         `gorm:"not null" json:"created_at"`
}

func (PurchaseRecord) TableName() string { return "purchase_records" }
