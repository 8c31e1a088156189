package models

import (
	"strings"

	dErrors "treasury/pkg/domain-errors"
)

// Destination is an opaque payout routing handle (a provider account
// reference, an IBAN alias, a wallet address). The engine only forwards it to
// the transfer gateway.
type Destination string

func (d Destination) String() string { return string(d) }

// Beneficiary names one of the three fixed payout slots.
type Beneficiary string

const (
	BeneficiaryFounder Beneficiary = "founder"
	BeneficiaryDao     Beneficiary = "dao"
	BeneficiaryCharity Beneficiary = "charity"
)

// Destinations holds the three payout addresses. Mutable only while the
// phase is not Permanent; never empty.
type Destinations struct {
	Founder Destination `json:"founder"`
	Dao     Destination `json:"dao"`
	Charity Destination `json:"charity"`
}

// NewDestinations builds a validated destination triple.
func NewDestinations(founder, dao, charity string) (Destinations, error) {
	d := Destinations{
		Founder: Destination(strings.TrimSpace(founder)),
		Dao:     Destination(strings.TrimSpace(dao)),
		Charity: Destination(strings.TrimSpace(charity)),
	}
	if err := d.Validate(); err != nil {
		return Destinations{}, err
	}
	return d, nil
}

// Validate rejects empty addresses.
func (d Destinations) Validate() error {
	if d.Founder == "" {
		return dErrors.New(dErrors.CodeValidation, "founder destination is required")
	}
	if d.Dao == "" {
		return dErrors.New(dErrors.CodeValidation, "dao destination is required")
	}
	if d.Charity == "" {
		return dErrors.New(dErrors.CodeValidation, "charity destination is required")
	}
	return nil
}

// Payout is one leg of a distribution batch handed to the transfer gateway.
type Payout struct {
	Destination Destination
	Amount      int64
}

// For returns the destination for a beneficiary slot.
func (d Destinations) For(b Beneficiary) Destination {
	switch b {
	case BeneficiaryFounder:
		return d.Founder
	case BeneficiaryDao:
		return d.Dao
	case BeneficiaryCharity:
		return d.Charity
	}
	return ""
}
