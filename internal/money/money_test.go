package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFromCentsAndToCentsRoundTrip(t *testing.T) {
	d := FromCents(12345)
	assert.True(t, d.Equal(decimal.NewFromFloat(123.45)))
	assert.Equal(t, int64(12345), ToCents(d))
}

func TestPersistRoundsToTwoDecimals(t *testing.T) {
	d := decimal.NewFromFloat(10.1234)
	assert.True(t, Persist(d).Equal(decimal.NewFromFloat(10.12)))
}

func TestInternalRoundsToFourDecimals(t *testing.T) {
	d := decimal.NewFromFloat(1.0 / 3.0)
	got := Internal(d)
	assert.True(t, got.Exponent() >= -4)
}

func TestPercentOf(t *testing.T) {
	got := PercentOf(decimal.NewFromInt(1000), decimal.NewFromInt(10))
	assert.True(t, got.Equal(decimal.NewFromInt(100)))
}

func TestSumEmptyIsZero(t *testing.T) {
	assert.True(t, Sum().Equal(Zero))
}

func TestSumAddsAll(t *testing.T) {
	got := Sum(decimal.NewFromInt(1), decimal.NewFromInt(2), decimal.NewFromInt(3))
	assert.True(t, got.Equal(decimal.NewFromInt(6)))
}
