package domain

import (
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
)

// DonorAddress is a US postal address owned by a Donor. Addresses are
// optional as a whole, but once supplied every field is required.
type DonorAddress struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Street    string       `gorm:"not null" json:"street"`
	City      string       `gorm:"not null" json:"city"`
	State     string       `gorm:"type:char(2);not null" json:"state"`
	Zip       string       `gorm:"not null" json:"zip"`
	CreatedAt time.Time    `gorm:"not null" json:"created_at"`
}

func (DonorAddress) TableName() string { return "donor_addresses" }

func (a DonorAddress) String() string {
	return fmt.Sprintf("%s, %s, %s, %s", a.Street, a.City, a.State, a.Zip)
}

// Account is the external user account a donor may be linked to. Only the
// fields the default-fill rule reads are mapped here.
type Account struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Email     string       `gorm:"not null" json:"email"`
	FirstName string       `json:"first_name"`
	LastName  string       `json:"last_name"`
	CreatedAt time.Time    `gorm:"not null" json:"created_at"`
}

func (Account) TableName() string { return "accounts" }

type Donor struct {
	ID               snowflake.ID  `gorm:"primaryKey" json:"id"`
	AccountID        *snowflake.ID `gorm:"index" json:"account_id,omitempty"`
	FirstName        string        `gorm:"not null" json:"first_name"`
	LastName         string        `gorm:"not null" json:"last_name"`
	Email            string        `json:"email,omitempty"`
	Phone            string        `json:"phone,omitempty"`
	BillingAddressID *snowflake.ID `json:"billing_address_id,omitempty"`
	MailingAddressID *snowflake.ID `json:"mailing_address_id,omitempty"`
	CreatedAt        time.Time     `gorm:"not null" json:"created_at"`

	BillingAddress *DonorAddress `gorm:"foreignKey:BillingAddressID" json:"billing_address,omitempty"`
	MailingAddress *DonorAddress `gorm:"foreignKey:MailingAddressID" json:"mailing_address,omitempty"`
}

func (Donor) TableName() string { return "donors" }

func (d Donor) FullName() string {
	return fmt.Sprintf("%s %s", d.FirstName, d.LastName)
}
