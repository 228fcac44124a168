package quantum

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eidos-exchange/eidos/eidos-stark/pkg/errors"
)

func TestToQuantums(t *testing.T) {
	tests := []struct {
		name       string
		amount     string
		resolution int64
		mode       Rounding
		want       int64
		wantErr    *errors.Error
	}{
		{name: "exact", amount: "0.001", resolution: 1_000_000, mode: RoundExact, want: 1000},
		{name: "exact negative", amount: "-1.5", resolution: 10, mode: RoundExact, want: -15},
		{name: "exact rejects extra precision", amount: "0.0000001", resolution: 1_000_000, mode: RoundExact, wantErr: errors.ErrValueOutOfRange},
		{name: "down", amount: "1.239", resolution: 100, mode: RoundDown, want: 123},
		{name: "down negative toward zero", amount: "-1.239", resolution: 100, mode: RoundDown, want: -123},
		{name: "up", amount: "1.231", resolution: 100, mode: RoundUp, want: 124},
		{name: "up negative away from zero", amount: "-1.231", resolution: 100, mode: RoundUp, want: -124},
		{name: "half even down", amount: "0.125", resolution: 100, mode: RoundHalfEven, want: 12},
		{name: "half even up", amount: "0.135", resolution: 100, mode: RoundHalfEven, want: 14},
		{name: "overflow", amount: "92233720368547758.08", resolution: 100, mode: RoundExact, wantErr: errors.ErrValueOutOfRange},
		{name: "zero resolution", amount: "1", resolution: 0, mode: RoundExact, wantErr: errors.ErrValueOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToQuantums("base_amount", decimal.RequireFromString(tt.amount), tt.resolution, tt.mode)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToQuantums_MaxInt64(t *testing.T) {
	got, err := ToQuantums("amount", decimal.RequireFromString("92233720368547758.07"), 100, RoundExact)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), got)
}

func TestToUnsignedQuantums(t *testing.T) {
	got, err := ToUnsignedQuantums("fee_amount", decimal.RequireFromString("0.0005"), 1_000_000, RoundUp)
	require.NoError(t, err)
	assert.Equal(t, uint64(500), got)

	_, err = ToUnsignedQuantums("fee_amount", decimal.RequireFromString("-1"), 10, RoundUp)
	assert.ErrorIs(t, err, errors.ErrValueOutOfRange)
	assert.Equal(t, "fee_amount", errors.FieldOf(err))
}

func TestToUnsignedQuantums_AboveInt64(t *testing.T) {
	got, err := ToUnsignedQuantums("amount", decimal.RequireFromString("92233720368547758.08"), 100, RoundExact)
	require.NoError(t, err)
	assert.Equal(t, uint64(1)<<63, got)

	got, err = ToUnsignedQuantums("amount", decimal.RequireFromString("18446744073709551615"), 1, RoundExact)
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), got)

	_, err = ToUnsignedQuantums("amount", decimal.RequireFromString("18446744073709551616"), 1, RoundExact)
	assert.ErrorIs(t, err, errors.ErrValueOutOfRange)
	assert.Equal(t, "amount", errors.FieldOf(err))
}

func TestFromQuantums(t *testing.T) {
	assert.Equal(t, "0.001", FromQuantums(1000, 1_000_000).String())
	assert.Equal(t, "-1.5", FromQuantums(-15, 10).String())
}

func TestParseAmount(t *testing.T) {
	d, err := ParseAmount("qty", "0.25")
	require.NoError(t, err)
	assert.Equal(t, "0.25", d.String())

	d, err = ParseAmount("qty", "-3")
	require.NoError(t, err)
	assert.True(t, d.IsNegative())

	for _, bad := range []string{"", "1e3", "+1", " 1", "abc", "1.2.3"} {
		_, err := ParseAmount("qty", bad)
		assert.ErrorIs(t, err, errors.ErrInvalidDecimalEncoding, bad)
	}
}

func TestParseRounding(t *testing.T) {
	for in, want := range map[string]Rounding{
		"":          RoundExact,
		"exact":     RoundExact,
		"DOWN":      RoundDown,
		"up":        RoundUp,
		"half_even": RoundHalfEven,
	} {
		got, err := ParseRounding(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		if in != "" && in != "DOWN" {
			assert.Equal(t, in, got.String())
		}
	}

	_, err := ParseRounding("ceil")
	assert.ErrorIs(t, err, errors.ErrInvalidRequest)
}
