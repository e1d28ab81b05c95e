package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"orderkit/pkg/customer"
)

// Customer is what an order needs to know about who placed it.
type Customer interface {
	Identifier() string
	Address() string
	HasPremiumSubscription() bool
}

// RawData is the input to Create. An empty ID means the order has none yet.
type RawData struct {
	ID         string
	Customer   Customer
	ProductIDs []string
}

// deliveryDays maps a subscription tier to its delivery time.
var deliveryDays = map[customer.Tier]int{
	customer.TierStandard: 3,
	customer.TierPremium:  1,
}

// Order represents a customer purchase order. It is immutable: the customer
// id, address and tier are captured when it is created.
type Order struct {
	id              string
	customerID      string
	customerAddress string
	tier            customer.Tier
	productIDs      []string
}

// Create builds an order whose delivery time follows the customer's tier.
func Create(raw RawData) (Order, error) {
	if isNil(raw.Customer) {
		return Order{}, fmt.Errorf("%w: customer is required", ErrInvalidArgument)
	}
	tier := customer.TierStandard
	if raw.Customer.HasPremiumSubscription() {
		tier = customer.TierPremium
	}
	return Order{
		id:              raw.ID,
		customerID:      raw.Customer.Identifier(),
		customerAddress: raw.Customer.Address(),
		tier:            tier,
		productIDs:      cloneIDs(raw.ProductIDs),
	}, nil
}

// ID returns the order id and whether one was assigned.
func (o Order) ID() (string, bool) { return o.id, o.id != "" }

// ProductIDs returns a copy of the ordered product ids.
func (o Order) ProductIDs() []string { return cloneIDs(o.productIDs) }

// CustomerID returns the id of the customer who placed the order.
func (o Order) CustomerID() string { return o.customerID }

// CustomerAddress returns the customer's address at creation time.
func (o Order) CustomerAddress() string { return o.customerAddress }

// Tier returns the subscription tier the order was created under. The zero
// Order reports the standard tier.
func (o Order) Tier() customer.Tier {
	if _, ok := deliveryDays[o.tier]; !ok {
		return customer.TierStandard
	}
	return o.tier
}

// DeliveryDays returns the number of days until delivery.
func (o Order) DeliveryDays() int { return deliveryDays[o.Tier()] }

// Variant names the kind of order: PremiumOrder or StandardOrder.
func (o Order) Variant() string {
	if o.Tier() == customer.TierPremium {
		return "PremiumOrder"
	}
	return "StandardOrder"
}

// WithID returns a copy of o carrying id. It is used when storage assigns ids
// to orders created without one.
func (o Order) WithID(id string) Order {
	o.id = id
	o.productIDs = cloneIDs(o.productIDs)
	return o
}

// Snapshot is the exported form of an order used for storage and JSON.
type Snapshot struct {
	ID              string        `json:"id,omitempty"`
	CustomerID      string        `json:"customerId"`
	CustomerAddress string        `json:"customerAddress"`
	Tier            customer.Tier `json:"tier"`
	ProductIDs      []string      `json:"productIds"`
	DeliveryDays    int           `json:"deliveryDays"`
	Variant         string        `json:"variant"`
}

// Snapshot returns the order's exported form.
func (o Order) Snapshot() Snapshot {
	return Snapshot{
		ID:              o.id,
		CustomerID:      o.customerID,
		CustomerAddress: o.customerAddress,
		Tier:            o.Tier(),
		ProductIDs:      o.ProductIDs(),
		DeliveryDays:    o.DeliveryDays(),
		Variant:         o.Variant(),
	}
}

// FromSnapshot restores a stored order. Delivery days and variant are
// derived from the tier, not read from s.
func FromSnapshot(s Snapshot) (Order, error) {
	tier, err := customer.ParseTier(string(s.Tier))
	if err != nil {
		return Order{}, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	if s.CustomerID == "" {
		return Order{}, fmt.Errorf("%w: empty customer id", ErrInvalidArgument)
	}
	return Order{
		id:              s.ID,
		customerID:      s.CustomerID,
		customerAddress: s.CustomerAddress,
		tier:            tier,
		productIDs:      cloneIDs(s.ProductIDs),
	}, nil
}

// MarshalJSON encodes the order as its Snapshot.
func (o Order) MarshalJSON() ([]byte, error) { return json.Marshal(o.Snapshot()) }

// UnmarshalJSON restores an order from its Snapshot form.
func (o *Order) UnmarshalJSON(data []byte) error {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	restored, err := FromSnapshot(s)
	if err != nil {
		return err
	}
	*o = restored
	return nil
}

// isNil also catches a nil pointer stored in the interface.
func isNil(c Customer) bool {
	if c == nil {
		return true
	}
	v := reflect.ValueOf(c)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

func cloneIDs(ids []string) []string {
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

// Repository defines behavior for persisting orders. Orders are never
// updated or removed once stored, and List returns them in creation order.
type Repository interface {
	Create(ctx context.Context, o Order) error
	Get(ctx context.Context, id string) (Order, error)
	List(ctx context.Context) ([]Order, error)
}

var (
	// ErrNotFound indicates the requested order does not exist.
	ErrNotFound = errors.New("order not found")
	// ErrInvalidArgument indicates a missing required input.
	ErrInvalidArgument = errors.New("invalid order argument")
	// ErrMissingID indicates an order without an id was given to a repository.
	ErrMissingID = errors.New("order has no id")
	// ErrDuplicate indicates an order with the same id is already stored.
	ErrDuplicate = errors.New("order already exists")
)
