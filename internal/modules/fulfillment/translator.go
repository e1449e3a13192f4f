package fulfillment

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"printora.com/app/internal/modules/orders"
	"printora.com/app/internal/shared/money"
)

// Patch is the normalized result of translating one provider callback:
// what changed (entity, field path, new value) plus the concrete edits
// to apply to the matching order. Handled is false for entities we
// acknowledge but do not process.
type Patch struct {
	Entity    string
	FieldPath string
	NewValue  string
	Handled   bool

	TargetStatus   *orders.Status
	ProviderStatus string // unmapped stage value, stored verbatim

	Shipments []ShipmentInfo
	Charges   *ChargeTotals
	Items     []ItemStatus
}

// ChargeTotals replaces the stored order totals: the provider resends
// its full corrected breakdown, so sums replace rather than increment.
type ChargeTotals struct {
	SubtotalCents int64
	ShippingCents int64
}

// Translate normalizes a callback into a Patch. Pure; persistence and
// locking live in the reconciler.
func Translate(ev Event) Patch {
	entity, fieldPath, newValue := ParseEventType(ev.Type)

	p := Patch{
		Entity:    entity,
		FieldPath: fieldPath,
		NewValue:  newValue,
	}
	if entity != "order" {
		return p
	}
	p.Handled = true

	if newValue != "" {
		if st, ok := MapStage(newValue); ok {
			target := st
			if st == orders.StatusProcessing && ev.Data.Order != nil && ev.Data.Order.InProduction {
				target = orders.StatusInProduction
			}
			p.TargetStatus = &target
		} else {
			p.ProviderStatus = newValue
		}
	}

	p.Shipments = ev.Data.Shipments
	p.Items = ev.Data.Items

	if len(ev.Data.Charges) > 0 {
		totals := ChargeTotals{}
		for _, c := range ev.Data.Charges {
			cents := money.FromMajor(c.Amount)
			switch c.Type {
			case "Item":
				totals.SubtotalCents += cents
			case "Shipping":
				totals.ShippingCents += cents
			}
		}
		p.Charges = &totals
	}

	return p
}

// MergeShipments upserts incoming provider shipments into the existing
// list by provider shipment id. A duplicate notification updates the
// stored record in place; it never creates a second row.
func MergeShipments(existing []orders.Shipment, incoming []ShipmentInfo, orderID string, now time.Time) []orders.Shipment {
	byProviderID := make(map[string]int, len(existing))
	for i, s := range existing {
		byProviderID[s.ProviderShipmentID] = i
	}

	out := existing
	for _, in := range incoming {
		if in.ID == "" {
			continue
		}

		itemIDs, _ := json.Marshal(in.ItemIDs)

		if i, ok := byProviderID[in.ID]; ok {
			s := &out[i]
			s.Carrier = in.Carrier
			s.TrackingNumber = in.TrackingNumber
			s.TrackingURL = in.TrackingURL
			s.Status = mapShipmentStatus(in.Status)
			if len(in.ItemIDs) > 0 {
				s.ItemIDs = datatypes.JSON(itemIDs)
			}
			if s.DispatchedAt == nil {
				s.DispatchedAt = in.DispatchedAt
			}
			if s.DeliveredAt == nil {
				s.DeliveredAt = in.DeliveredAt
			}
			s.UpdatedAt = now
			continue
		}

		out = append(out, orders.Shipment{
			ID:                 uuid.NewString(),
			OrderID:            orderID,
			ProviderShipmentID: in.ID,
			Carrier:            in.Carrier,
			TrackingNumber:     in.TrackingNumber,
			TrackingURL:        in.TrackingURL,
			Status:             mapShipmentStatus(in.Status),
			ItemIDs:            datatypes.JSON(itemIDs),
			DispatchedAt:       in.DispatchedAt,
			DeliveredAt:        in.DeliveredAt,
			CreatedAt:          now,
			UpdatedAt:          now,
		})
		byProviderID[in.ID] = len(out) - 1
	}
	return out
}
