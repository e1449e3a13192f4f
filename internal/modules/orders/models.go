package orders

import (
	"time"

	"gorm.io/datatypes"
)

type Status string

const (
	StatusPending      Status = "pending"
	StatusConfirmed    Status = "confirmed"
	StatusProcessing   Status = "processing"
	StatusInProduction Status = "in_production"
	StatusShipped      Status = "shipped"
	StatusDelivered    Status = "delivered"
	StatusCancelled    Status = "cancelled"
	StatusRefunded     Status = "refunded"
	StatusFailed       Status = "failed"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// Order is one checkout's fulfillment unit. Money columns are integer
// cents. CommissionRate is captured at creation time so a later rate
// change never rewrites history.
type Order struct {
	ID     string `gorm:"type:char(36);primaryKey"`
	Number string `gorm:"type:varchar(32);not null;uniqueIndex:ux_orders_number"`

	// Set exactly once, when the provider accepts the order.
	ProviderOrderID *string `gorm:"type:varchar(64);uniqueIndex:ux_orders_provider_order_id"`
	// Raw stage value from the provider when we could not map it.
	ProviderStatus string `gorm:"type:varchar(64)"`

	CreatorID       string         `gorm:"type:char(36);not null;index:ix_orders_creator_id"`
	CustomerName    string         `gorm:"type:varchar(255);not null"`
	CustomerEmail   string         `gorm:"type:varchar(255);not null"`
	ShippingAddress datatypes.JSON `gorm:"type:json"`

	SubtotalCents  int64   `gorm:"not null"`
	ShippingCents  int64   `gorm:"not null"`
	TaxCents       int64   `gorm:"not null"`
	DiscountCents  int64   `gorm:"not null"`
	TotalCents     int64   `gorm:"not null"`
	Currency       string  `gorm:"type:char(3);not null"`
	CommissionRate float64 `gorm:"not null"`

	Status        Status        `gorm:"type:varchar(32);not null;index:ix_orders_status"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(32);not null"`

	PaidAt             *time.Time `gorm:"type:datetime(3)"`
	SentToProductionAt *time.Time `gorm:"type:datetime(3)"`
	ShippedAt          *time.Time `gorm:"type:datetime(3)"`
	DeliveredAt        *time.Time `gorm:"type:datetime(3)"`
	CancelledAt        *time.Time `gorm:"type:datetime(3)"`
	RefundedAt         *time.Time `gorm:"type:datetime(3)"`

	CreatedAt time.Time `gorm:"type:datetime(3);not null"`
	UpdatedAt time.Time `gorm:"type:datetime(3);not null"`
}

func (Order) TableName() string { return "orders" }

type OrderItem struct {
	ID      string `gorm:"type:char(36);primaryKey"`
	OrderID string `gorm:"type:char(36);not null;index:ix_order_items_order_id"`

	ProductID         string  `gorm:"type:char(36);not null"`
	VariantID         string  `gorm:"type:char(36);not null"`
	ProviderProductID string  `gorm:"type:varchar(64);not null"`
	ProviderVariantID string  `gorm:"type:varchar(64);not null"`
	ProviderItemID    *string `gorm:"type:varchar(64)"`

	Name     string `gorm:"type:varchar(255);not null"`
	SKU      string `gorm:"type:varchar(64);not null"`
	Quantity int    `gorm:"not null"`

	BaseCostCents          int64 `gorm:"not null"`
	SellingPriceCents      int64 `gorm:"not null"`
	ProfitCents            int64 `gorm:"not null"`
	CreatorCommissionCents int64 `gorm:"not null"`
	PlatformFeeCents       int64 `gorm:"not null"`
	ShippingCostCents      int64 `gorm:"not null"`

	Status Status `gorm:"type:varchar(32);not null"`

	CreatedAt time.Time `gorm:"type:datetime(3);not null"`
	UpdatedAt time.Time `gorm:"type:datetime(3);not null"`
}

func (OrderItem) TableName() string { return "order_items" }

type ShipmentStatus string

const (
	ShipmentPending   ShipmentStatus = "pending"
	ShipmentShipped   ShipmentStatus = "shipped"
	ShipmentInTransit ShipmentStatus = "in_transit"
	ShipmentDelivered ShipmentStatus = "delivered"
	ShipmentException ShipmentStatus = "exception"
)

// Shipment rows are upserted by (order_id, provider_shipment_id) as the
// provider reports packages; duplicate notifications update in place.
type Shipment struct {
	ID                 string `gorm:"type:char(36);primaryKey"`
	OrderID            string `gorm:"type:char(36);not null;uniqueIndex:ux_shipments_order_provider,priority:1"`
	ProviderShipmentID string `gorm:"type:varchar(64);not null;uniqueIndex:ux_shipments_order_provider,priority:2"`

	Carrier        string         `gorm:"type:varchar(64)"`
	TrackingNumber string         `gorm:"type:varchar(128)"`
	TrackingURL    string         `gorm:"type:varchar(512)"`
	Status         ShipmentStatus `gorm:"type:varchar(32);not null"`
	ItemIDs        datatypes.JSON `gorm:"type:json"` // provider item ids in this package

	DispatchedAt *time.Time `gorm:"type:datetime(3)"`
	DeliveredAt  *time.Time `gorm:"type:datetime(3)"`

	CreatedAt time.Time `gorm:"type:datetime(3);not null"`
	UpdatedAt time.Time `gorm:"type:datetime(3);not null"`
}

func (Shipment) TableName() string { return "shipments" }

type CommissionPaymentStatus string

const (
	CommissionPending    CommissionPaymentStatus = "pending"
	CommissionProcessing CommissionPaymentStatus = "processing"
	CommissionPaid       CommissionPaymentStatus = "paid"
	CommissionFailed     CommissionPaymentStatus = "failed"
)

// CommissionPayment is one ledger-affecting payout unit per order.
type CommissionPayment struct {
	ID        string `gorm:"type:char(36);primaryKey"`
	OrderID   string `gorm:"type:char(36);not null;index:ix_commission_payments_order_id"`
	CreatorID string `gorm:"type:char(36);not null;index:ix_commission_payments_creator_id"`

	AmountCents  int64                   `gorm:"not null"`
	Currency     string                  `gorm:"type:char(3);not null"`
	Status       CommissionPaymentStatus `gorm:"type:varchar(32);not null;index:ix_commission_payments_status"`
	PayoutMethod string                  `gorm:"type:varchar(32)"`
	ExternalTxID *string                 `gorm:"type:varchar(128)"`

	CreatedAt time.Time `gorm:"type:datetime(3);not null"`
	UpdatedAt time.Time `gorm:"type:datetime(3);not null"`
}

func (CommissionPayment) TableName() string { return "commission_payments" }

// OrderEvent is the audit trail: one row per applied transition.
type OrderEvent struct {
	ID         string  `gorm:"type:char(36);primaryKey"`
	OrderID    string  `gorm:"type:char(36);not null;index:ix_order_events_order_id"`
	Source     string  `gorm:"type:varchar(32);not null"` // checkout|provider|system
	Action     string  `gorm:"type:varchar(64);not null"`
	FromStatus string  `gorm:"type:varchar(32);not null"`
	ToStatus   string  `gorm:"type:varchar(32);not null"`
	Note       *string `gorm:"type:varchar(255)"`

	CreatedAt time.Time `gorm:"type:datetime(3);not null"`
}

func (OrderEvent) TableName() string { return "order_events" }
