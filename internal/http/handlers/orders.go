package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"printora.com/app/internal/http/middleware"
	"printora.com/app/internal/http/validation"
	"printora.com/app/internal/modules/orders"
	"printora.com/app/internal/shared/apperr"
)

type OrderHandler struct {
	Logger  *slog.Logger
	Service *orders.Service
	Repo    *orders.Repo
}

func NewOrderHandler(logger *slog.Logger, svc *orders.Service, repo *orders.Repo) *OrderHandler {
	return &OrderHandler{Logger: logger, Service: svc, Repo: repo}
}

type createOrderItemRequest struct {
	ProductID         string `json:"product_id" binding:"required"`
	VariantID         string `json:"variant_id" binding:"required"`
	ProviderProductID string `json:"provider_product_id" binding:"required"`
	ProviderVariantID string `json:"provider_variant_id" binding:"required"`
	Name              string `json:"name" binding:"required"`
	SKU               string `json:"sku"`
	Quantity          int    `json:"quantity" binding:"omitempty,min=1"`
	BaseCostCents     int64  `json:"base_cost_cents" binding:"min=0"`
	SellingPriceCents int64  `json:"selling_price_cents" binding:"min=0"`
	ShippingCostCents int64  `json:"shipping_cost_cents" binding:"min=0"`
}

type createOrderRequest struct {
	CreatorID       string                   `json:"creator_id" binding:"required"`
	CustomerName    string                   `json:"customer_name" binding:"required"`
	CustomerEmail   string                   `json:"customer_email" binding:"required,email"`
	ShippingAddress json.RawMessage          `json:"shipping_address"`
	Currency        string                   `json:"currency" binding:"required,len=3"`
	CommissionRate  float64                  `json:"commission_rate" binding:"gte=0,lte=100"`
	TaxCents        int64                    `json:"tax_cents" binding:"min=0"`
	DiscountCents   int64                    `json:"discount_cents" binding:"min=0"`
	Paid            bool                     `json:"paid"`
	Items           []createOrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// POST /api/orders
// Checkout hands over a fully priced order; this only splits commission
// and snapshots it in pending status.
func (h *OrderHandler) Create(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fields := validation.FromBindError(err, &req)
		middleware.Fail(c, apperr.InvalidErr("Order payload is invalid.", fields))
		return
	}

	in := orders.CreateOrderInput{
		CreatorID:       req.CreatorID,
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		ShippingAddress: req.ShippingAddress,
		Currency:        req.Currency,
		CommissionRate:  req.CommissionRate,
		TaxCents:        req.TaxCents,
		DiscountCents:   req.DiscountCents,
		Paid:            req.Paid,
	}
	for _, it := range req.Items {
		in.Items = append(in.Items, orders.CreateItemInput{
			ProductID:         it.ProductID,
			VariantID:         it.VariantID,
			ProviderProductID: it.ProviderProductID,
			ProviderVariantID: it.ProviderVariantID,
			Name:              it.Name,
			SKU:               it.SKU,
			Quantity:          it.Quantity,
			BaseCostCents:     it.BaseCostCents,
			SellingPriceCents: it.SellingPriceCents,
			ShippingCostCents: it.ShippingCostCents,
		})
	}

	o, items, err := h.Service.Create(c.Request.Context(), in)
	if err != nil {
		if errors.Is(err, orders.ErrEmptyOrder) {
			middleware.Fail(c, apperr.InvalidErr("Order has no items.", nil))
			return
		}
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	c.JSON(http.StatusCreated, orderResponse(o, items, nil, nil))
}

// GET /api/orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	d, err := h.Repo.GetDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, orders.ErrNotFound) {
			middleware.Fail(c, apperr.NotFoundErr("Order not found."))
			return
		}
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	c.JSON(http.StatusOK, orderResponse(d.Order, d.Items, d.Shipments, d.CommissionPayments))
}

// GET /api/creators/:creatorID/orders
func (h *OrderHandler) ListByCreator(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("page_size"))

	res, err := h.Repo.ListByCreator(c.Request.Context(), orders.ListByCreatorParams{
		CreatorID: c.Param("creatorID"),
		Page:      page,
		PageSize:  size,
		Status:    c.Query("status"),
	})
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	items := make([]gin.H, 0, len(res.Items))
	for _, o := range res.Items {
		items = append(items, gin.H{
			"id":              o.ID,
			"number":          o.Number,
			"status":          o.Status,
			"payment_status":  o.PaymentStatus,
			"total_cents":     o.TotalCents,
			"currency":        o.Currency,
			"provider_status": o.ProviderStatus,
			"created_at":      o.CreatedAt,
			"delivered_at":    tsOrNil(o.DeliveredAt),
		})
	}
	c.JSON(http.StatusOK, gin.H{"orders": items, "total": res.Total})
}

// GET /api/orders/:id/events
// Audit trail of applied transitions, newest first.
func (h *OrderHandler) Events(c *gin.Context) {
	events, err := h.Repo.GetEvents(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	out := make([]gin.H, 0, len(events))
	for _, ev := range events {
		out = append(out, gin.H{
			"id":          ev.ID,
			"source":      ev.Source,
			"action":      ev.Action,
			"from_status": ev.FromStatus,
			"to_status":   ev.ToStatus,
			"note":        ev.Note,
			"created_at":  ev.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"events": out})
}

type attachProviderRequest struct {
	ProviderOrderID string `json:"provider_order_id" binding:"required"`
}

// POST /api/orders/:id/provider
// Records the provider-side id once the provider accepts the order.
func (h *OrderHandler) AttachProvider(c *gin.Context) {
	var req attachProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fields := validation.FromBindError(err, &req)
		middleware.Fail(c, apperr.InvalidErr("Payload is invalid.", fields))
		return
	}

	err := h.Service.AttachProviderOrder(c.Request.Context(), c.Param("id"), req.ProviderOrderID)
	if err != nil {
		var te *orders.TransitionError
		switch {
		case errors.Is(err, orders.ErrNotFound):
			middleware.Fail(c, apperr.NotFoundErr("Order not found."))
		case errors.Is(err, orders.ErrProviderIDTaken):
			middleware.Fail(c, apperr.ConflictErr("Provider order id already set."))
		case errors.As(err, &te):
			middleware.Fail(c, apperr.ConflictErr("Order can no longer accept a provider id."))
		default:
			middleware.Fail(c, apperr.Wrap(err))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func orderResponse(o orders.Order, items []orders.OrderItem, shipments []orders.Shipment, payments []orders.CommissionPayment) gin.H {
	respItems := make([]gin.H, 0, len(items))
	for _, it := range items {
		respItems = append(respItems, gin.H{
			"id":                       it.ID,
			"product_id":               it.ProductID,
			"variant_id":               it.VariantID,
			"provider_item_id":         it.ProviderItemID,
			"name":                     it.Name,
			"sku":                      it.SKU,
			"quantity":                 it.Quantity,
			"base_cost_cents":          it.BaseCostCents,
			"selling_price_cents":      it.SellingPriceCents,
			"profit_cents":             it.ProfitCents,
			"creator_commission_cents": it.CreatorCommissionCents,
			"platform_fee_cents":       it.PlatformFeeCents,
			"shipping_cost_cents":      it.ShippingCostCents,
			"status":                   it.Status,
		})
	}

	respShipments := make([]gin.H, 0, len(shipments))
	for _, sh := range shipments {
		respShipments = append(respShipments, gin.H{
			"id":                   sh.ID,
			"provider_shipment_id": sh.ProviderShipmentID,
			"carrier":              sh.Carrier,
			"tracking_number":      sh.TrackingNumber,
			"tracking_url":         sh.TrackingURL,
			"status":               sh.Status,
			"dispatched_at":        sh.DispatchedAt,
			"delivered_at":         sh.DeliveredAt,
		})
	}

	respPayments := make([]gin.H, 0, len(payments))
	for _, cp := range payments {
		respPayments = append(respPayments, gin.H{
			"id":           cp.ID,
			"amount_cents": cp.AmountCents,
			"currency":     cp.Currency,
			"status":       cp.Status,
		})
	}

	return gin.H{
		"id":                  o.ID,
		"number":              o.Number,
		"provider_order_id":   o.ProviderOrderID,
		"provider_status":     o.ProviderStatus,
		"creator_id":          o.CreatorID,
		"status":              o.Status,
		"payment_status":      o.PaymentStatus,
		"subtotal_cents":      o.SubtotalCents,
		"shipping_cents":      o.ShippingCents,
		"tax_cents":           o.TaxCents,
		"discount_cents":      o.DiscountCents,
		"total_cents":         o.TotalCents,
		"currency":            o.Currency,
		"commission_rate":     o.CommissionRate,
		"paid_at":             tsOrNil(o.PaidAt),
		"sent_to_production":  tsOrNil(o.SentToProductionAt),
		"shipped_at":          tsOrNil(o.ShippedAt),
		"delivered_at":        tsOrNil(o.DeliveredAt),
		"cancelled_at":        tsOrNil(o.CancelledAt),
		"refunded_at":         tsOrNil(o.RefundedAt),
		"created_at":          o.CreatedAt,
		"items":               respItems,
		"shipments":           respShipments,
		"commission_payments": respPayments,
	}
}

func tsOrNil(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
