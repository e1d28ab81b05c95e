package order

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderkit/pkg/customer"
)

// stubCustomer lets tests pass a Customer that is not customer.Customer.
type stubCustomer struct {
	id, address string
	premium     bool
}

func (s stubCustomer) Identifier() string           { return s.id }
func (s stubCustomer) Address() string              { return s.address }
func (s stubCustomer) HasPremiumSubscription() bool { return s.premium }

func TestCreateDeliveryDays(t *testing.T) {
	standard, err := customer.New("1", "address", customer.TierStandard)
	require.NoError(t, err)
	premium, err := customer.New("1", "address", customer.TierPremium)
	require.NoError(t, err)

	tests := []struct {
		name    string
		cust    Customer
		days    int
		variant string
	}{
		{"standard", standard, 3, "StandardOrder"},
		{"premium", premium, 1, "PremiumOrder"},
		{"stub premium", stubCustomer{id: "x", premium: true}, 1, "PremiumOrder"},
		{"stub standard", stubCustomer{id: "y"}, 3, "StandardOrder"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := Create(RawData{Customer: tt.cust, ProductIDs: []string{}})
			require.NoError(t, err)
			assert.Equal(t, tt.days, o.DeliveryDays())
			assert.Equal(t, tt.variant, o.Variant())
			assert.Equal(t, tt.cust.Identifier(), o.CustomerID())
			assert.Empty(t, o.ProductIDs())
			_, ok := o.ID()
			assert.False(t, ok)
		})
	}
}

func TestCreateNilCustomer(t *testing.T) {
	_, err := Create(RawData{ID: "1"})
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	var typedNil *customer.Customer
	require.NotPanics(t, func() {
		_, err = Create(RawData{ID: "2", Customer: typedNil})
	})
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	var stubNil *stubCustomer
	_, err = Create(RawData{ID: "3", Customer: stubNil})
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestZeroOrderIsStandard(t *testing.T) {
	var o Order
	assert.Equal(t, customer.TierStandard, o.Tier())
	assert.Equal(t, 3, o.DeliveryDays())
	assert.Equal(t, "StandardOrder", o.Variant())
	assert.Equal(t, customer.TierStandard, o.Snapshot().Tier)
}

func TestProductIDsAreCopied(t *testing.T) {
	in := []string{"p1", "p2", "p3"}
	o, err := Create(RawData{ID: "o1", Customer: stubCustomer{id: "c1", address: "Main St"}, ProductIDs: in})
	require.NoError(t, err)

	in[0] = "changed"
	assert.Equal(t, []string{"p1", "p2", "p3"}, o.ProductIDs())

	out := o.ProductIDs()
	out[1] = "changed"
	assert.Equal(t, []string{"p1", "p2", "p3"}, o.ProductIDs())

	id, ok := o.ID()
	assert.True(t, ok)
	assert.Equal(t, "o1", id)
	assert.Equal(t, "Main St", o.CustomerAddress())
}

func TestTierCapturedAtCreation(t *testing.T) {
	c := &stubCustomer{id: "c1", premium: true}
	o, err := Create(RawData{Customer: c})
	require.NoError(t, err)
	c.premium = false
	c.address = "moved"
	assert.Equal(t, 1, o.DeliveryDays())
	assert.Equal(t, "", o.CustomerAddress())
}

func TestWithID(t *testing.T) {
	o, err := Create(RawData{Customer: stubCustomer{id: "c1"}, ProductIDs: []string{"p1"}})
	require.NoError(t, err)
	named := o.WithID("o9")
	id, _ := named.ID()
	assert.Equal(t, "o9", id)
	_, ok := o.ID()
	assert.False(t, ok)
}

func TestSnapshotJSON(t *testing.T) {
	o, err := Create(RawData{ID: "o1", Customer: stubCustomer{id: "c1", address: "Main St", premium: true}, ProductIDs: []string{"p1"}})
	require.NoError(t, err)

	b, err := json.Marshal(o)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"o1","customerId":"c1","customerAddress":"Main St","tier":"premium",
		"productIds":["p1"],"deliveryDays":1,"variant":"PremiumOrder"}`, string(b))

	var back Order
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, o.Snapshot(), back.Snapshot())

	// Derived fields are recomputed from the tier.
	require.NoError(t, json.Unmarshal([]byte(`{"id":"o2","customerId":"c2","tier":"standard","deliveryDays":1}`), &back))
	assert.Equal(t, 3, back.DeliveryDays())

	err = json.Unmarshal([]byte(`{"id":"o3","customerId":"c3","tier":"gold"}`), &back)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = FromSnapshot(Snapshot{ID: "o4", Tier: customer.TierStandard})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
