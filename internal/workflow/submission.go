package workflow

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FieldError annotates one invalid field of a submission.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type DonorSubmission struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	AccountID string `json:"account_id"`
}

type AddressSubmission struct {
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip"`
}

func (a *AddressSubmission) empty() bool {
	if a == nil {
		return true
	}
	return strings.TrimSpace(a.Street) == "" &&
		strings.TrimSpace(a.City) == "" &&
		strings.TrimSpace(a.State) == "" &&
		strings.TrimSpace(a.Zip) == ""
}

type DonationSubmission struct {
	Amount               string `json:"amount"`
	DonationTypeOptionID string `json:"donation_type_option_id"`
	PromoCode            string `json:"promo_code"`
	Attribution          string `json:"attribution"`
	Anonymous            bool   `json:"anonymous"`
}

type CardSubmission struct {
	Number          string `json:"card_number"`
	CVV             string `json:"cvv"`
	ExpirationMonth int    `json:"expiration_month"`
	ExpirationYear  int    `json:"expiration_year"`
}

// Submission is the composite donation form: donor, addresses, donation and
// payment sub-structs validated as one unit.
type Submission struct {
	Donor                DonorSubmission    `json:"donor"`
	BillingAddress       *AddressSubmission `json:"billing_address,omitempty"`
	MailingAddress       *AddressSubmission `json:"mailing_address,omitempty"`
	MailingSameAsBilling bool               `json:"mailing_same_as_billing"`
	Donation             DonationSubmission `json:"donation"`
	Card                 CardSubmission     `json:"card"`
	Confirmed            bool               `json:"confirmed"`
}

var (
	stateRe      = regexp.MustCompile(`^[A-Za-z]{2}$`)
	zipRe        = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
	cardNumberRe = regexp.MustCompile(`^\d{12,19}$`)
	cvvRe        = regexp.MustCompile(`^\d{3,4}$`)
)

// Validate checks every sub-struct and returns all annotations at once. It
// performs no lookups; catalog and promo existence are checked at pricing
// time and mapped back onto fields by the controller.
func (s *Submission) Validate(now time.Time) []FieldError {
	var errs []FieldError

	hasAccount := strings.TrimSpace(s.Donor.AccountID) != ""
	if strings.TrimSpace(s.Donor.FirstName) == "" && !hasAccount {
		errs = append(errs, FieldError{Field: "first_name", Code: "required", Message: "first name is required"})
	}
	if strings.TrimSpace(s.Donor.LastName) == "" && !hasAccount {
		errs = append(errs, FieldError{Field: "last_name", Code: "required", Message: "last name is required"})
	}

	errs = append(errs, validateAddress("billing_address", s.BillingAddress)...)
	if s.MailingSameAsBilling {
		if s.BillingAddress.empty() {
			errs = append(errs, FieldError{Field: "billing_address", Code: "required", Message: "billing address is required when mailing is the same"})
		}
	} else {
		errs = append(errs, validateAddress("mailing_address", s.MailingAddress)...)
	}

	if amount := strings.TrimSpace(s.Donation.Amount); amount != "" {
		parsed, err := decimal.NewFromString(amount)
		if err != nil || !parsed.IsPositive() {
			errs = append(errs, FieldError{Field: "amount", Code: "invalid_amount", Message: "amount must be a positive number"})
		}
	} else if strings.TrimSpace(s.Donation.DonationTypeOptionID) == "" {
		errs = append(errs, FieldError{Field: "amount", Code: "required", Message: "an amount or donation type is required"})
	}

	if !cardNumberRe.MatchString(strings.TrimSpace(s.Card.Number)) {
		errs = append(errs, FieldError{Field: "card_number", Code: "invalid_card_number", Message: "card number is invalid"})
	}
	if !cvvRe.MatchString(strings.TrimSpace(s.Card.CVV)) {
		errs = append(errs, FieldError{Field: "cvv", Code: "invalid_cvv", Message: "security code is invalid"})
	}
	if s.Card.ExpirationMonth < 1 || s.Card.ExpirationMonth > 12 {
		errs = append(errs, FieldError{Field: "expiration_month", Code: "invalid_expiration", Message: "expiration month is invalid"})
	}
	if s.Card.ExpirationYear < now.Year() || s.Card.ExpirationYear > now.Year()+10 {
		errs = append(errs, FieldError{Field: "expiration_year", Code: "invalid_expiration", Message: "expiration year is invalid"})
	} else if s.Card.ExpirationYear == now.Year() && s.Card.ExpirationMonth >= 1 && s.Card.ExpirationMonth < int(now.Month()) {
		errs = append(errs, FieldError{Field: "expiration_month", Code: "card_expired", Message: "card is expired"})
	}

	return errs
}

// validateAddress enforces "optional as a whole, complete once started".
func validateAddress(prefix string, address *AddressSubmission) []FieldError {
	if address.empty() {
		return nil
	}

	var errs []FieldError
	if strings.TrimSpace(address.Street) == "" {
		errs = append(errs, FieldError{Field: prefix + ".street", Code: "required", Message: "street is required"})
	}
	if strings.TrimSpace(address.City) == "" {
		errs = append(errs, FieldError{Field: prefix + ".city", Code: "required", Message: "city is required"})
	}
	if !stateRe.MatchString(strings.TrimSpace(address.State)) {
		errs = append(errs, FieldError{Field: prefix + ".state", Code: "invalid_state", Message: "state must be a two-letter code"})
	}
	if !zipRe.MatchString(strings.TrimSpace(address.Zip)) {
		errs = append(errs, FieldError{Field: prefix + ".zip", Code: "invalid_zip", Message: "zip code is invalid"})
	}
	return errs
}

// Scrub blanks payment credentials so they are never echoed back to the
// client after a failure.
func (s *Submission) Scrub(sensitiveFields []string) {
	for _, field := range sensitiveFields {
		switch field {
		case "card_number":
			s.Card.Number = ""
		case "cvv":
			s.Card.CVV = ""
		}
	}
}
