package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amt(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestResolveBaseAmount_ExplicitWins(t *testing.T) {
	explicit := amt("50")
	catalog := amt("25")

	resolved, err := ResolveBaseAmount(&explicit, &catalog)
	require.NoError(t, err)
	assert.True(t, resolved.Equal(amt("50.00")), "got %s", resolved)
}

func TestResolveBaseAmount_CatalogFallback(t *testing.T) {
	catalog := amt("25")

	resolved, err := ResolveBaseAmount(nil, &catalog)
	require.NoError(t, err)
	assert.True(t, resolved.Equal(amt("25.00")), "got %s", resolved)
}

func TestResolveBaseAmount_NeitherPresent(t *testing.T) {
	_, err := ResolveBaseAmount(nil, nil)
	assert.ErrorIs(t, err, ErrMissingAmount)
}

func TestResolveBaseAmount_ZeroExplicitFallsThrough(t *testing.T) {
	explicit := amt("0")
	catalog := amt("10")

	resolved, err := ResolveBaseAmount(&explicit, &catalog)
	require.NoError(t, err)
	assert.True(t, resolved.Equal(amt("10.00")))
}

func TestApplyPromo_ZeroPercentIsNoOp(t *testing.T) {
	out, err := ApplyPromo(amt("42.17"), decimal.Zero)
	require.NoError(t, err)
	assert.True(t, out.Equal(amt("42.17")), "got %s", out)
}

func TestApplyPromo_HundredPercentIsFree(t *testing.T) {
	out, err := ApplyPromo(amt("42.17"), amt("100"))
	require.NoError(t, err)
	assert.True(t, out.Equal(decimal.Zero), "got %s", out)
}

func TestApplyPromo_SubDollarAmountKeepsCents(t *testing.T) {
	out, err := ApplyPromo(amt("1"), amt("10"))
	require.NoError(t, err)
	assert.Equal(t, "0.90", out.StringFixed(2))
}

// Regression guard against float rounding: 13% off 100 is exactly 87.00.
func TestApplyPromo_ThirteenPercentExact(t *testing.T) {
	out, err := ApplyPromo(amt("100"), amt("13"))
	require.NoError(t, err)
	assert.Equal(t, "87.00", out.StringFixed(2))
}

func TestApplyPromo_TwentyFivePercent(t *testing.T) {
	out, err := ApplyPromo(amt("100"), amt("25"))
	require.NoError(t, err)
	assert.Equal(t, "75.00", out.StringFixed(2))
}

func TestApplyPromo_OutOfRangePercent(t *testing.T) {
	_, err := ApplyPromo(amt("10"), amt("101"))
	assert.ErrorIs(t, err, ErrInvalidDiscount)

	_, err = ApplyPromo(amt("10"), amt("-1"))
	assert.ErrorIs(t, err, ErrInvalidDiscount)
}

func TestApplyPromo_BoundsHold(t *testing.T) {
	amounts := []string{"0.01", "1", "19.99", "100", "12345.67"}
	percents := []string{"0", "1", "13", "33", "50", "99", "100"}

	for _, a := range amounts {
		for _, p := range percents {
			out, err := ApplyPromo(amt(a), amt(p))
			require.NoError(t, err)
			assert.False(t, out.IsNegative(), "amount=%s percent=%s", a, p)
			assert.True(t, out.LessThanOrEqual(amt(a)), "amount=%s percent=%s got %s", a, p, out)
			assert.True(t, out.Equal(out.Round(2)), "not cent-rounded: %s", out)
		}
	}
}

func TestApplyPromo_Deterministic(t *testing.T) {
	first, err := ApplyPromo(amt("73.31"), amt("17"))
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		again, err := ApplyPromo(amt("73.31"), amt("17"))
		require.NoError(t, err)
		assert.True(t, first.Equal(again))
	}
}
