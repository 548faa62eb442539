package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fiscalia/nfe-auditor/internal/money"
)

func TestFromString(t *testing.T) {
	d, err := money.FromString(" 350.00 ")
	require.NoError(t, err)
	assert.True(t, d.Equal(decimal.NewFromInt(350)))

	_, err = money.FromString("not-a-number")
	assert.Error(t, err)

	_, err = money.FromString("")
	assert.Error(t, err)
}

func TestFromStringOrZero(t *testing.T) {
	d, ok := money.FromStringOrZero("12.34")
	assert.True(t, ok)
	assert.Equal(t, "12.34", d.String())

	d, ok = money.FromStringOrZero("oops")
	assert.False(t, ok)
	assert.True(t, d.IsZero())
}

func TestMulRoundsToCents(t *testing.T) {
	got := money.Mul(decimal.RequireFromString("3"), decimal.RequireFromString("0.333"))
	assert.Equal(t, "1", got.String())

	got = money.Mul(decimal.RequireFromString("2.5"), decimal.RequireFromString("1.111"))
	assert.Equal(t, "2.78", got.String())
}

func TestSum(t *testing.T) {
	got := money.Sum([]decimal.Decimal{
		decimal.RequireFromString("200.00"),
		decimal.RequireFromString("150.00"),
	})
	assert.True(t, got.Equal(decimal.NewFromInt(350)))

	assert.True(t, money.Sum(nil).IsZero())
}

func TestWithinTolerance(t *testing.T) {
	a := decimal.RequireFromString("350.00")

	assert.True(t, money.WithinTolerance(a, decimal.RequireFromString("350.01"), money.DefaultTolerance))
	assert.True(t, money.WithinTolerance(a, decimal.RequireFromString("349.99"), money.DefaultTolerance))
	assert.False(t, money.WithinTolerance(a, decimal.RequireFromString("350.02"), money.DefaultTolerance))
}
