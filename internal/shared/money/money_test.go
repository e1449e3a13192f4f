package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundHalfUp(t *testing.T) {
	cases := []struct {
		in   float64
		want int64
	}{
		{0, 0},
		{0.4, 0},
		{0.5, 1},
		{1.5, 2},
		{2.5, 3},
		{99.999, 100},
		{-0.4, 0},
		// Negative ties go up toward zero, not away from it.
		{-0.5, 0},
		{-0.6, -1},
		{-1.5, -1},
		{-2.5, -2},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, RoundHalfUp(c.in), "RoundHalfUp(%v)", c.in)
	}
}

func TestSplit(t *testing.T) {
	// 150.00 selling, 60.00 base, 70% commission:
	// profit 90.00, creator 63.00, platform 27.00.
	s := Split(15000, 6000, 70)
	assert.Equal(t, int64(9000), s.ProfitCents)
	assert.Equal(t, int64(6300), s.CreatorCents)
	assert.Equal(t, int64(2700), s.PlatformCents)
	assert.False(t, s.NegativeProfit)
}

func TestSplitConservation(t *testing.T) {
	// Creator + platform must always rebuild the profit exactly,
	// including odd cents and awkward rates.
	cases := []struct {
		selling, base int64
		rate          float64
	}{
		{15000, 6000, 70},
		{1999, 750, 33.33},
		{101, 100, 50},
		{1, 0, 70},
		{12345, 6789, 12.5},
	}
	for _, c := range cases {
		s := Split(c.selling, c.base, c.rate)
		assert.Equal(t, s.ProfitCents, s.CreatorCents+s.PlatformCents,
			"split(%d, %d, %v)", c.selling, c.base, c.rate)
	}
}

func TestSplitNegativeProfit(t *testing.T) {
	s := Split(500, 900, 70)
	assert.Equal(t, int64(-400), s.ProfitCents)
	assert.True(t, s.NegativeProfit)
	assert.Equal(t, s.ProfitCents, s.CreatorCents+s.PlatformCents)
}

func TestFromMajor(t *testing.T) {
	assert.Equal(t, int64(15000), FromMajor(150.00))
	assert.Equal(t, int64(1999), FromMajor(19.99))
	assert.Equal(t, int64(10), FromMajor(0.095))
	assert.Equal(t, int64(0), FromMajor(0))
}

func TestToMajor(t *testing.T) {
	assert.Equal(t, 150.0, ToMajor(15000))
	assert.Equal(t, 0.99, ToMajor(99))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "€12.50", Format("EUR", 1250))
	assert.Equal(t, "R$0.99", Format("BRL", 99))
	assert.Equal(t, "$150.00", Format("USD", 15000))
	assert.Equal(t, "5.00 GBP", Format("GBP", 500))
}
