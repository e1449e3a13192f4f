package pricing

import (
	"sort"

	"printora.com/app/internal/shared/money"
)

// ProviderOption is one shipping method quote as the provider returns
// it: costs in decimal major units of the provider's currency.
type ProviderOption struct {
	Method      string
	ProductCost float64
	ShipCost    float64
	MinDays     int
	MaxDays     int
}

type QuoteInput struct {
	// Foreign-to-local conversion rate, sourced upstream.
	FxRate float64
	// Desired margin over local cost, percent.
	MarginPercent float64
	Currency      string
	Options       []ProviderOption
}

type Quote struct {
	Method              string
	ProductCostCents    int64
	ShippingCostCents   int64
	TotalCostCents      int64
	SuggestedPriceCents int64
	ProfitCents         int64
	ProfitMarginPercent float64
	MinDays             int
	MaxDays             int
	Currency            string
}

// BuildQuotes converts each provider option to local cents, prices it
// with the requested margin and returns the list sorted ascending by
// total local cost. The caller picks cheapest/fastest by label; the
// order here is the contract.
func BuildQuotes(in QuoteInput) []Quote {
	out := make([]Quote, 0, len(in.Options))
	for _, opt := range in.Options {
		product := money.RoundHalfUp(opt.ProductCost * in.FxRate * 100.0)
		shipping := money.RoundHalfUp(opt.ShipCost * in.FxRate * 100.0)
		total := product + shipping

		suggested := money.RoundHalfUp(float64(total) * (1.0 + in.MarginPercent/100.0))
		profit := suggested - total

		marginPct := 0.0
		if suggested != 0 {
			marginPct = float64(profit) / float64(suggested) * 100.0
		}

		out = append(out, Quote{
			Method:              opt.Method,
			ProductCostCents:    product,
			ShippingCostCents:   shipping,
			TotalCostCents:      total,
			SuggestedPriceCents: suggested,
			ProfitCents:         profit,
			ProfitMarginPercent: marginPct,
			MinDays:             opt.MinDays,
			MaxDays:             opt.MaxDays,
			Currency:            in.Currency,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalCostCents < out[j].TotalCostCents
	})
	return out
}
