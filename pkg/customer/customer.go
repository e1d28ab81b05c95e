// Package customer defines the customer value orders are placed for.
package customer

import (
	"errors"
	"fmt"
	"strings"

	"orderkit/pkg/record"
)

// Tier is a customer's subscription level.
type Tier string

const (
	TierStandard Tier = "standard"
	TierPremium  Tier = "premium"
)

var (
	// ErrInvalidArgument indicates a required customer field is missing.
	ErrInvalidArgument = errors.New("invalid customer argument")
	// ErrUnknownTier indicates a subscription value outside the known tiers.
	ErrUnknownTier = errors.New("unknown subscription tier")
)

// ParseTier accepts "standard" or "premium" in any case.
func ParseTier(s string) (Tier, error) {
	switch t := Tier(strings.ToLower(strings.TrimSpace(s))); t {
	case TierStandard, TierPremium:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTier, s)
	}
}

// Customer is immutable once constructed.
type Customer struct {
	id      string
	address string
	tier    Tier
}

// New validates the fields and returns a Customer.
func New(id, address string, tier Tier) (Customer, error) {
	if id == "" {
		return Customer{}, fmt.Errorf("%w: empty id", ErrInvalidArgument)
	}
	if _, err := ParseTier(string(tier)); err != nil {
		return Customer{}, err
	}
	return Customer{id: id, address: address, tier: tier}, nil
}

// Identifier returns the customer id.
func (c Customer) Identifier() string { return c.id }

// Address returns the delivery address.
func (c Customer) Address() string { return c.address }

// Tier returns the subscription tier.
func (c Customer) Tier() Tier { return c.tier }

// HasPremiumSubscription reports whether the customer is on the premium tier.
func (c Customer) HasPremiumSubscription() bool { return c.tier == TierPremium }

// Column names read by FromRecord.
const (
	ColumnID           = "id"
	ColumnAddress      = "address"
	ColumnSubscription = "subscription"
)

// FromRecord builds a Customer from a row of a customer CSV file. An absent
// subscription column means the standard tier.
func FromRecord(r record.Record) (Customer, error) {
	id, ok := r.Get(ColumnID).Get()
	if !ok || id == "" {
		return Customer{}, fmt.Errorf("%w: record has no %s", ErrInvalidArgument, ColumnID)
	}
	tier := TierStandard
	if s, ok := r.Get(ColumnSubscription).Get(); ok && s != "" {
		t, err := ParseTier(s)
		if err != nil {
			return Customer{}, fmt.Errorf("customer %s: %w", id, err)
		}
		tier = t
	}
	return New(id, r.Get(ColumnAddress).String(), tier)
}
