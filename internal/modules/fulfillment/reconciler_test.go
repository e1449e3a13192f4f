package fulfillment

import (
	"errors"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"printora.com/app/internal/modules/orders"
)

func strPtr(s string) *string { return &s }

func shippedOrder() *orders.Order {
	return &orders.Order{
		ID:            "ord-1",
		CreatorID:     "cr-1",
		Status:        orders.StatusShipped,
		PaymentStatus: orders.PaymentPaid,
		SubtotalCents: 1999,
		ShippingCents: 499,
		TotalCents:    2498,
	}
}

func TestApplyPatchDeliveredCreditsOnce(t *testing.T) {
	now := time.Now()
	o := shippedOrder()
	items := []orders.OrderItem{
		{ID: "it-1", Status: orders.StatusShipped, CreatorCommissionCents: 6300},
	}

	p := Translate(Event{Type: "order.status.stage.changed#Complete"})
	out := applyPatch(o, items, nil, p, now)

	assert.True(t, out.statusChanged)
	assert.True(t, out.enteredDelivered)
	assert.Equal(t, orders.StatusDelivered, o.Status)
	assert.Equal(t, orders.StatusDelivered, out.items[0].Status)

	// Replay of the same callback: no transition, no second credit.
	out = applyPatch(o, out.items, nil, p, now)
	assert.False(t, out.statusChanged)
	assert.False(t, out.enteredDelivered)
}

func TestApplyPatchRejectedTransitionKeepsState(t *testing.T) {
	now := time.Now()
	o := shippedOrder()

	// Late, out-of-order InProgress after shipped never regresses the
	// order, but shipment data in the same callback still lands.
	p := Translate(Event{
		Type: "order.status.stage.changed#InProgress",
		Data: Payload{Shipments: []ShipmentInfo{{ID: "shp-1", Status: "in_transit"}}},
	})
	out := applyPatch(o, nil, nil, p, now)

	require.NotNil(t, out.rejected)
	assert.Equal(t, orders.StatusShipped, out.rejected.From)
	assert.Equal(t, orders.StatusProcessing, out.rejected.To)
	assert.Equal(t, orders.StatusShipped, o.Status)
	assert.False(t, out.statusChanged)
	require.Len(t, out.shipments, 1)
	assert.Equal(t, orders.ShipmentInTransit, out.shipments[0].Status)
}

func TestApplyPatchUnknownStageStoredVerbatim(t *testing.T) {
	now := time.Now()
	o := shippedOrder()

	p := Translate(Event{Type: "order.status.stage.changed#QualityCheck"})
	out := applyPatch(o, nil, nil, p, now)

	assert.Nil(t, out.rejected)
	assert.False(t, out.statusChanged)
	assert.Equal(t, orders.StatusShipped, o.Status)
	assert.Equal(t, "QualityCheck", o.ProviderStatus)
}

func TestApplyPatchExplicitItemStatuses(t *testing.T) {
	now := time.Now()
	o := shippedOrder()
	o.Status = orders.StatusInProduction
	items := []orders.OrderItem{
		{ID: "it-1", ProviderItemID: strPtr("pp-it-1"), Status: orders.StatusInProduction},
		{ID: "it-2", ProviderItemID: strPtr("pp-it-2"), Status: orders.StatusInProduction},
	}

	p := Translate(Event{
		Type: "order.items.changed",
		Data: Payload{Items: []ItemStatus{
			{ProviderItemID: "pp-it-1", Status: "Complete"},
			{ProviderItemID: "pp-it-2", Status: "QualityCheck"}, // unknown, skipped
			{ProviderItemID: "pp-it-9", Status: "Complete"},     // no such line
		}},
	})
	out := applyPatch(o, items, nil, p, now)

	assert.Equal(t, orders.StatusDelivered, out.items[0].Status)
	assert.Equal(t, orders.StatusInProduction, out.items[1].Status)
	// Item-only callbacks never move the order itself.
	assert.Equal(t, orders.StatusInProduction, o.Status)
	assert.False(t, out.enteredDelivered)
}

func TestApplyPatchChargesReplaceTotals(t *testing.T) {
	now := time.Now()
	o := shippedOrder()
	o.TaxCents = 100
	o.DiscountCents = 50

	p := Translate(Event{
		Type: "order.charges.changed",
		Data: Payload{Charges: []Charge{
			{Type: "Item", Amount: 30.00},
			{Type: "Shipping", Amount: 6.00},
		}},
	})
	_ = applyPatch(o, nil, nil, p, now)

	assert.Equal(t, int64(3000), o.SubtotalCents)
	assert.Equal(t, int64(600), o.ShippingCents)
	assert.Equal(t, int64(3000+600+100-50), o.TotalCents)
}

func TestApplyPatchMirrorSkipsLinesAlreadyAhead(t *testing.T) {
	now := time.Now()
	o := shippedOrder()
	o.Status = orders.StatusInProduction
	items := []orders.OrderItem{
		{ID: "it-1", Status: orders.StatusInProduction},
		{ID: "it-2", Status: orders.StatusDelivered}, // already terminal
	}

	p := Translate(Event{Type: "order.status.stage.changed#InProgress",
		Data: Payload{Order: &OrderSnapshot{InProduction: false}}})
	// InProgress maps to processing, behind in_production: rejected.
	out := applyPatch(o, items, nil, p, now)
	require.NotNil(t, out.rejected)
	assert.Equal(t, orders.StatusDelivered, out.items[1].Status)
}

func TestLockConflictRetryClassification(t *testing.T) {
	assert.True(t, isLockConflict(&mysql.MySQLError{Number: 1213}))
	assert.True(t, isLockConflict(&mysql.MySQLError{Number: 1205}))
	// Duplicate key is a dedupe outcome, never a retry.
	assert.False(t, isLockConflict(&mysql.MySQLError{Number: 1062}))
	assert.False(t, isLockConflict(errors.New("plain")))
	assert.False(t, isLockConflict(nil))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 10))
	assert.Equal(t, "ab", truncate("abcd", 2))
	assert.Equal(t, "abcd", truncate("abcd", 0))
}
