package money

import (
	"fmt"
	"math"
)

// All amounts are integer minor units (cents). Fractional results only
// appear transiently inside a computation and are rounded half-up once.

// RoundHalfUp rounds a fractional cent amount to whole cents. Ties go
// up, toward positive infinity, for negative amounts too: -0.5 rounds
// to 0, not -1.
func RoundHalfUp(v float64) int64 {
	return int64(math.Floor(v + 0.5))
}

type CommissionSplit struct {
	ProfitCents    int64
	CreatorCents   int64
	PlatformCents  int64
	RatePercent    float64
	NegativeProfit bool
}

// Split divides a line's profit between creator and platform.
// The platform share is computed by subtraction so the two parts always
// sum to the profit exactly, whatever the rounding did.
func Split(sellingCents, baseCents int64, ratePercent float64) CommissionSplit {
	profit := sellingCents - baseCents
	creator := RoundHalfUp(float64(profit) * ratePercent / 100.0)
	return CommissionSplit{
		ProfitCents:    profit,
		CreatorCents:   creator,
		PlatformCents:  profit - creator,
		RatePercent:    ratePercent,
		NegativeProfit: profit < 0,
	}
}

// FromMajor converts a decimal major-unit amount (e.g. 150.00) to cents.
func FromMajor(v float64) int64 {
	return RoundHalfUp(v * 100.0)
}

// ToMajor converts cents to a major-unit float for display payloads.
func ToMajor(cents int64) float64 {
	return float64(cents) / 100.0
}

// Format renders a cent amount with its currency symbol.
func Format(currency string, cents int64) string {
	major := float64(cents) / 100.0
	switch currency {
	case "EUR":
		return fmt.Sprintf("€%.2f", major)
	case "BRL":
		return fmt.Sprintf("R$%.2f", major)
	case "USD":
		return fmt.Sprintf("$%.2f", major)
	default:
		return fmt.Sprintf("%.2f %s", major, currency)
	}
}
