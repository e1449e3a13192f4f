package earnings

import (
	"time"

	"gorm.io/datatypes"
)

// CreatorEarnings is one ledger row per creator. Lifetime counters only
// ever move by atomic SQL increments; nothing reads, computes and writes
// a whole row back.
type CreatorEarnings struct {
	CreatorID string `gorm:"type:char(36);primaryKey"`

	TotalEarningsCents   int64 `gorm:"not null"`
	PendingEarningsCents int64 `gorm:"not null"`
	PaidEarningsCents    int64 `gorm:"not null"`
	TotalSalesCents      int64 `gorm:"not null"`
	TotalOrders          int64 `gorm:"not null"`

	PayoutMethod  string         `gorm:"type:varchar(32)"` // bank_transfer|pix|paypal
	PayoutDetails datatypes.JSON `gorm:"type:json"`
	LastPayoutAt  *time.Time     `gorm:"type:datetime(3)"`

	CreatedAt time.Time `gorm:"type:datetime(3);not null"`
	UpdatedAt time.Time `gorm:"type:datetime(3);not null"`
}

func (CreatorEarnings) TableName() string { return "creator_earnings" }

// AvailableCents is what the creator may still withdraw.
func (e CreatorEarnings) AvailableCents() int64 {
	return e.TotalEarningsCents - e.PaidEarningsCents
}

func (e CreatorEarnings) CanRequestPayout(minPayoutCents int64) bool {
	return e.PayoutMethod != "" && e.AvailableCents() >= minPayoutCents
}

// PayoutDetailsFields is the method-specific detail blob stored on the
// ledger row. Only the fields for the chosen method are required.
type PayoutDetailsFields struct {
	BankName      string `json:"bank_name,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
	RoutingNumber string `json:"routing_number,omitempty"`
	PixKey        string `json:"pix_key,omitempty"`
	PaypalEmail   string `json:"paypal_email,omitempty"`
}
