package orders

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"printora.com/app/internal/shared/money"
)

type Service struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db, logger: slog.Default()}
}

func (s *Service) SetLogger(logger *slog.Logger) { s.logger = logger }

type CreateItemInput struct {
	ProductID         string
	VariantID         string
	ProviderProductID string
	ProviderVariantID string
	Name              string
	SKU               string
	Quantity          int

	// Line totals in cents, already resolved by checkout.
	BaseCostCents     int64
	SellingPriceCents int64
	ShippingCostCents int64
}

type CreateOrderInput struct {
	CreatorID       string
	CustomerName    string
	CustomerEmail   string
	ShippingAddress json.RawMessage
	Currency        string
	CommissionRate  float64
	TaxCents        int64
	DiscountCents   int64
	Paid            bool // upstream payment capture already confirmed
	Items           []CreateItemInput
}

// Create persists a new order in pending status with the commission
// split computed per line. Checkout owns pricing; this only splits and
// snapshots.
func (s *Service) Create(ctx context.Context, in CreateOrderInput) (Order, []OrderItem, error) {
	if len(in.Items) == 0 {
		return Order{}, nil, ErrEmptyOrder
	}

	now := time.Now()
	orderID := uuid.NewString()

	var subtotal, shipping int64
	items := make([]OrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		qty := it.Quantity
		if qty < 1 {
			qty = 1
		}

		split := money.Split(it.SellingPriceCents, it.BaseCostCents, in.CommissionRate)
		if split.NegativeProfit {
			s.logger.WarnContext(ctx, "order line sells below base cost",
				"order_id", orderID, "sku", it.SKU,
				"selling_cents", it.SellingPriceCents, "base_cents", it.BaseCostCents)
		}

		items = append(items, OrderItem{
			ID:                     uuid.NewString(),
			OrderID:                orderID,
			ProductID:              it.ProductID,
			VariantID:              it.VariantID,
			ProviderProductID:      it.ProviderProductID,
			ProviderVariantID:      it.ProviderVariantID,
			Name:                   it.Name,
			SKU:                    it.SKU,
			Quantity:               qty,
			BaseCostCents:          it.BaseCostCents,
			SellingPriceCents:      it.SellingPriceCents,
			ProfitCents:            split.ProfitCents,
			CreatorCommissionCents: split.CreatorCents,
			PlatformFeeCents:       split.PlatformCents,
			ShippingCostCents:      it.ShippingCostCents,
			Status:                 StatusPending,
			CreatedAt:              now,
			UpdatedAt:              now,
		})

		subtotal += it.SellingPriceCents
		shipping += it.ShippingCostCents
	}

	o := Order{
		ID:              orderID,
		Number:          NewNumber(now),
		CreatorID:       in.CreatorID,
		CustomerName:    strings.TrimSpace(in.CustomerName),
		CustomerEmail:   strings.TrimSpace(in.CustomerEmail),
		ShippingAddress: datatypes.JSON(in.ShippingAddress),
		SubtotalCents:   subtotal,
		ShippingCents:   shipping,
		TaxCents:        in.TaxCents,
		DiscountCents:   in.DiscountCents,
		TotalCents:      subtotal + shipping + in.TaxCents - in.DiscountCents,
		Currency:        strings.ToUpper(strings.TrimSpace(in.Currency)),
		CommissionRate:  in.CommissionRate,
		Status:          StatusPending,
		PaymentStatus:   PaymentPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if in.Paid {
		MarkPaid(&o, now)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&o).Error; err != nil {
			return err
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}
		ev := OrderEvent{
			ID:         uuid.NewString(),
			OrderID:    o.ID,
			Source:     "checkout",
			Action:     "create",
			FromStatus: "",
			ToStatus:   string(StatusPending),
			CreatedAt:  now,
		}
		return tx.Create(&ev).Error
	})
	if err != nil {
		return Order{}, nil, err
	}

	s.logger.InfoContext(ctx, "order created",
		"order_id", o.ID, "number", o.Number, "creator_id", o.CreatorID,
		"total_cents", o.TotalCents, "items", len(items))
	return o, items, nil
}

// AttachProviderOrder records the provider-side order id after the
// provider accepts the order, and moves the order to confirmed. The id
// is set exactly once; a second attach is rejected, and an order that
// already left pending (cancelled, failed) stays where it is.
func (s *Service) AttachProviderOrder(ctx context.Context, orderID, providerOrderID string) error {
	providerOrderID = strings.TrimSpace(providerOrderID)
	if providerOrderID == "" {
		return ErrProviderIDTaken
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var o Order
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&o, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if o.ProviderOrderID != nil {
			return ErrProviderIDTaken
		}

		now := time.Now()
		prev := o.Status
		if err := Apply(&o, StatusConfirmed, now); err != nil {
			return err
		}
		o.ProviderOrderID = &providerOrderID
		o.UpdatedAt = now
		if err := tx.Save(&o).Error; err != nil {
			return err
		}

		ev := OrderEvent{
			ID:         uuid.NewString(),
			OrderID:    o.ID,
			Source:     "system",
			Action:     "provider.attach",
			FromStatus: string(prev),
			ToStatus:   string(o.Status),
			CreatedAt:  now,
		}
		return tx.Create(&ev).Error
	})
}

// NewNumber builds a human-referenceable order number, e.g.
// PR-20260901-4F2A1C.
func NewNumber(now time.Time) string {
	b := make([]byte, 3)
	_, _ = rand.Read(b)
	return "PR-" + now.Format("20060102") + "-" + strings.ToUpper(hex.EncodeToString(b))
}
