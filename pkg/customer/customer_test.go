package customer

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderkit/pkg/record"
)

func TestParseTier(t *testing.T) {
	tests := []struct {
		in      string
		want    Tier
		wantErr bool
	}{
		{"standard", TierStandard, false},
		{" Premium ", TierPremium, false},
		{"gold", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseTier(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrUnknownTier, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestNew(t *testing.T) {
	c, err := New("1", "address", TierPremium)
	require.NoError(t, err)
	assert.Equal(t, "1", c.Identifier())
	assert.Equal(t, "address", c.Address())
	assert.True(t, c.HasPremiumSubscription())

	c, err = New("2", "", TierStandard)
	require.NoError(t, err)
	assert.False(t, c.HasPremiumSubscription())

	_, err = New("", "address", TierStandard)
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	_, err = New("3", "address", Tier("gold"))
	assert.True(t, errors.Is(err, ErrUnknownTier))
}

func TestFromRecord(t *testing.T) {
	recs, err := record.Read(strings.NewReader(
		"id,address,subscription\n1,Main St,premium\n2,Elm St\n,Nowhere,standard\n4,Oak,gold\n"))
	require.NoError(t, err)
	require.Len(t, recs, 4)

	c, err := FromRecord(recs[0])
	require.NoError(t, err)
	assert.Equal(t, TierPremium, c.Tier())
	assert.Equal(t, "Main St", c.Address())

	c, err = FromRecord(recs[1])
	require.NoError(t, err)
	assert.Equal(t, TierStandard, c.Tier())

	_, err = FromRecord(recs[2])
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = FromRecord(recs[3])
	assert.ErrorIs(t, err, ErrUnknownTier)
}
