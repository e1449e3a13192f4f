package fulfillment

import (
	"strings"
	"time"

	"printora.com/app/internal/modules/orders"
)

// Provider lifecycle callback, one event per delivery. Type strings are
// dotted paths with a value suffix after the last '#', e.g.
// "order.status.stage.changed#InProgress". Subject is the provider-side
// order id.
type Event struct {
	ID      string    `json:"id"`
	Type    string    `json:"type"`
	Subject string    `json:"subject"`
	Time    time.Time `json:"time"`
	Data    Payload   `json:"data"`
}

// Payload carries whatever structured data the provider attached. Every
// section is optional; absent sections mean "no change" for that part.
type Payload struct {
	Order     *OrderSnapshot `json:"order,omitempty"`
	Shipments []ShipmentInfo `json:"shipments,omitempty"`
	Charges   []Charge       `json:"charges,omitempty"`
	Items     []ItemStatus   `json:"items,omitempty"`
}

type OrderSnapshot struct {
	Stage        string `json:"stage"`
	InProduction bool   `json:"in_production"`
}

type ShipmentInfo struct {
	ID             string   `json:"id"`
	Carrier        string   `json:"carrier"`
	TrackingNumber string   `json:"tracking_number"`
	TrackingURL    string   `json:"tracking_url"`
	Status         string   `json:"status"`
	ItemIDs        []string `json:"item_ids"`

	DispatchedAt *time.Time `json:"dispatched_at,omitempty"`
	DeliveredAt  *time.Time `json:"delivered_at,omitempty"`
}

// Charge is one line of the provider's authoritative cost breakdown.
// Amounts arrive as decimal major units.
type Charge struct {
	Type   string  `json:"type"` // Item | Shipping | ...
	Amount float64 `json:"amount"`
}

type ItemStatus struct {
	ProviderItemID string `json:"id"`
	Status         string `json:"status"`
}

// ParseEventType splits an event type string into entity, field path and
// new value. The value suffix follows the last '#'; the first dotted
// segment is the entity.
func ParseEventType(t string) (entity, fieldPath, newValue string) {
	if i := strings.LastIndex(t, "#"); i >= 0 {
		newValue = t[i+1:]
		t = t[:i]
	}
	parts := strings.SplitN(t, ".", 2)
	entity = parts[0]
	if len(parts) > 1 {
		fieldPath = parts[1]
	}
	return entity, fieldPath, newValue
}

// Provider stage vocabulary we understand. Anything else is kept as an
// opaque provider status on the order without forcing a transition.
func MapStage(stage string) (orders.Status, bool) {
	switch stage {
	case "InProgress":
		return orders.StatusProcessing, true
	case "Complete":
		return orders.StatusDelivered, true
	case "Cancelled":
		return orders.StatusCancelled, true
	}
	return "", false
}

func mapShipmentStatus(s string) orders.ShipmentStatus {
	switch strings.ToLower(s) {
	case "shipped":
		return orders.ShipmentShipped
	case "in_transit":
		return orders.ShipmentInTransit
	case "delivered":
		return orders.ShipmentDelivered
	case "exception":
		return orders.ShipmentException
	default:
		return orders.ShipmentPending
	}
}
