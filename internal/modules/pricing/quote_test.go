package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildQuotesConversion(t *testing.T) {
	quotes := BuildQuotes(QuoteInput{
		FxRate:        5.0,
		MarginPercent: 50,
		Currency:      "BRL",
		Options: []ProviderOption{
			{Method: "standard", ProductCost: 10.00, ShipCost: 4.00, MinDays: 7, MaxDays: 14},
		},
	})

	require.Len(t, quotes, 1)
	q := quotes[0]
	assert.Equal(t, int64(5000), q.ProductCostCents)
	assert.Equal(t, int64(2000), q.ShippingCostCents)
	assert.Equal(t, int64(7000), q.TotalCostCents)
	assert.Equal(t, int64(10500), q.SuggestedPriceCents)
	assert.Equal(t, int64(3500), q.ProfitCents)
	assert.InDelta(t, 33.33, q.ProfitMarginPercent, 0.01)
	assert.Equal(t, "BRL", q.Currency)
	assert.Equal(t, 7, q.MinDays)
	assert.Equal(t, 14, q.MaxDays)
}

func TestBuildQuotesSortedByTotalCost(t *testing.T) {
	quotes := BuildQuotes(QuoteInput{
		FxRate:        1.0,
		MarginPercent: 30,
		Currency:      "USD",
		Options: []ProviderOption{
			{Method: "express", ProductCost: 10.00, ShipCost: 12.00},
			{Method: "standard", ProductCost: 10.00, ShipCost: 3.00},
			{Method: "economy", ProductCost: 10.00, ShipCost: 1.50},
		},
	})

	require.Len(t, quotes, 3)
	assert.Equal(t, "economy", quotes[0].Method)
	assert.Equal(t, "standard", quotes[1].Method)
	assert.Equal(t, "express", quotes[2].Method)
	assert.LessOrEqual(t, quotes[0].TotalCostCents, quotes[1].TotalCostCents)
	assert.LessOrEqual(t, quotes[1].TotalCostCents, quotes[2].TotalCostCents)
}

func TestBuildQuotesRounding(t *testing.T) {
	quotes := BuildQuotes(QuoteInput{
		FxRate:        1.17,
		MarginPercent: 0,
		Currency:      "EUR",
		Options: []ProviderOption{
			{Method: "standard", ProductCost: 9.99, ShipCost: 0},
		},
	})

	require.Len(t, quotes, 1)
	// 9.99 * 1.17 = 11.6883 -> 1169 cents.
	assert.Equal(t, int64(1169), quotes[0].ProductCostCents)
	assert.Equal(t, quotes[0].TotalCostCents, quotes[0].SuggestedPriceCents)
	assert.Equal(t, int64(0), quotes[0].ProfitCents)
	assert.Equal(t, 0.0, quotes[0].ProfitMarginPercent)
}

func TestBuildQuotesEmpty(t *testing.T) {
	assert.Empty(t, BuildQuotes(QuoteInput{FxRate: 1, Currency: "USD"}))
}
