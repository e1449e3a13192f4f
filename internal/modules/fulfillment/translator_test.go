package fulfillment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"printora.com/app/internal/modules/orders"
)

func TestTranslateStageChange(t *testing.T) {
	p := Translate(Event{
		ID:      "evt_1",
		Type:    "order.status.stage.changed#InProgress",
		Subject: "pp-1",
	})
	assert.True(t, p.Handled)
	require.NotNil(t, p.TargetStatus)
	assert.Equal(t, orders.StatusProcessing, *p.TargetStatus)
	assert.Empty(t, p.ProviderStatus)
}

func TestTranslateInProductionFlag(t *testing.T) {
	p := Translate(Event{
		Type: "order.status.stage.changed#InProgress",
		Data: Payload{Order: &OrderSnapshot{Stage: "InProgress", InProduction: true}},
	})
	require.NotNil(t, p.TargetStatus)
	assert.Equal(t, orders.StatusInProduction, *p.TargetStatus)
}

func TestTranslateUnknownStage(t *testing.T) {
	// Vocabulary we do not know is kept verbatim without forcing a
	// transition.
	p := Translate(Event{Type: "order.status.stage.changed#QualityCheck"})
	assert.True(t, p.Handled)
	assert.Nil(t, p.TargetStatus)
	assert.Equal(t, "QualityCheck", p.ProviderStatus)
}

func TestTranslateNonOrderEntity(t *testing.T) {
	p := Translate(Event{Type: "invoice.created#Paid"})
	assert.False(t, p.Handled)
	assert.Equal(t, "invoice", p.Entity)
	assert.Nil(t, p.TargetStatus)
}

func TestTranslateCharges(t *testing.T) {
	p := Translate(Event{
		Type: "order.charges.changed",
		Data: Payload{Charges: []Charge{
			{Type: "Item", Amount: 12.50},
			{Type: "Item", Amount: 7.49},
			{Type: "Shipping", Amount: 4.99},
			{Type: "Tax", Amount: 1.00}, // ignored type
		}},
	})
	require.NotNil(t, p.Charges)
	assert.Equal(t, int64(1999), p.Charges.SubtotalCents)
	assert.Equal(t, int64(499), p.Charges.ShippingCents)
}

func TestTranslateNoCharges(t *testing.T) {
	p := Translate(Event{Type: "order.status.stage.changed#Complete"})
	assert.Nil(t, p.Charges)
}

func TestMergeShipmentsInsert(t *testing.T) {
	now := time.Now()
	out := MergeShipments(nil, []ShipmentInfo{
		{ID: "shp-1", Carrier: "DHL", TrackingNumber: "TRK1", Status: "shipped", ItemIDs: []string{"it-1"}},
	}, "ord-1", now)

	require.Len(t, out, 1)
	assert.Equal(t, "ord-1", out[0].OrderID)
	assert.Equal(t, "shp-1", out[0].ProviderShipmentID)
	assert.Equal(t, orders.ShipmentShipped, out[0].Status)
	assert.NotEmpty(t, out[0].ID)
}

func TestMergeShipmentsUpsert(t *testing.T) {
	now := time.Now()
	dispatched := now.Add(-time.Hour)

	existing := []orders.Shipment{{
		ID:                 "local-1",
		OrderID:            "ord-1",
		ProviderShipmentID: "shp-1",
		Carrier:            "DHL",
		Status:             orders.ShipmentShipped,
		DispatchedAt:       &dispatched,
	}}

	later := now.Add(time.Hour)
	out := MergeShipments(existing, []ShipmentInfo{
		{ID: "shp-1", Carrier: "DHL", TrackingNumber: "TRK1", Status: "delivered", DispatchedAt: &later, DeliveredAt: &later},
	}, "ord-1", now)

	// Duplicate notification updates in place, never adds a row.
	require.Len(t, out, 1)
	assert.Equal(t, "local-1", out[0].ID)
	assert.Equal(t, orders.ShipmentDelivered, out[0].Status)
	assert.Equal(t, "TRK1", out[0].TrackingNumber)
	// First dispatch time wins; delivered fills in because it was unset.
	assert.Equal(t, dispatched, *out[0].DispatchedAt)
	require.NotNil(t, out[0].DeliveredAt)
	assert.Equal(t, later, *out[0].DeliveredAt)
}

func TestMergeShipmentsSkipsEmptyID(t *testing.T) {
	out := MergeShipments(nil, []ShipmentInfo{{ID: "", Carrier: "DHL"}}, "ord-1", time.Now())
	assert.Empty(t, out)
}

func TestMergeShipmentsMultiplePackages(t *testing.T) {
	now := time.Now()
	out := MergeShipments(nil, []ShipmentInfo{
		{ID: "shp-1", Status: "shipped"},
		{ID: "shp-2", Status: "in_transit"},
	}, "ord-1", now)
	require.Len(t, out, 2)
	assert.NotEqual(t, out[0].ID, out[1].ID)
}
