package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"printora.com/app/internal/http/middleware"
	"printora.com/app/internal/http/validation"
	"printora.com/app/internal/modules/earnings"
	"printora.com/app/internal/shared/apperr"
	"printora.com/app/internal/shared/money"
)

type EarningsHandler struct {
	Logger  *slog.Logger
	Service *earnings.Service
}

func NewEarningsHandler(logger *slog.Logger, svc *earnings.Service) *EarningsHandler {
	return &EarningsHandler{Logger: logger, Service: svc}
}

// GET /api/creators/:creatorID/earnings
// Read path only; never mutates the ledger.
func (h *EarningsHandler) Summary(c *gin.Context) {
	sum, err := h.Service.Summary(c.Request.Context(), c.Param("creatorID"))
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	rollups := make([]gin.H, 0, len(sum.MonthlyRollups))
	for _, r := range sum.MonthlyRollups {
		rollups = append(rollups, gin.H{
			"month":            r.Month,
			"orders":           r.Orders,
			"sales_cents":      r.SalesCents,
			"commission_cents": r.CommissionCents,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"creator_id":             sum.Row.CreatorID,
		"total_earnings_cents":   sum.Row.TotalEarningsCents,
		"pending_earnings_cents": sum.Row.PendingEarningsCents,
		"paid_earnings_cents":    sum.Row.PaidEarningsCents,
		"total_sales_cents":      sum.Row.TotalSalesCents,
		"total_orders":           sum.Row.TotalOrders,
		"available_cents":        sum.AvailableCents,
		"min_payout_cents":       sum.MinPayoutCents,
		"can_request_payout":     sum.CanRequest,
		"payout_method":          sum.Row.PayoutMethod,
		"last_payout_at":         sum.Row.LastPayoutAt,
		"monthly":                rollups,
	})
}

type requestPayoutRequest struct {
	NotifyEmail string `json:"notify_email" binding:"omitempty,email"`
}

// POST /api/creators/:creatorID/payouts
func (h *EarningsHandler) RequestPayout(c *gin.Context) {
	var req requestPayoutRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			fields := validation.FromBindError(err, &req)
			middleware.Fail(c, apperr.InvalidErr("Payload is invalid.", fields))
			return
		}
	}

	res, err := h.Service.RequestPayout(c.Request.Context(), c.Param("creatorID"), req.NotifyEmail)
	if err != nil {
		switch {
		case errors.Is(err, earnings.ErrInsufficientBalance):
			middleware.Fail(c, apperr.UnprocessableErr("insufficient_balance",
				"Available balance is below the payout minimum of "+
					money.Format("USD", h.Service.MinPayoutCents())+"."))
		case errors.Is(err, earnings.ErrPayoutMethodMissing):
			middleware.Fail(c, apperr.UnprocessableErr("payout_method_missing",
				"Configure a payout method before requesting a payout."))
		default:
			middleware.Fail(c, apperr.Wrap(err))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"settled_cents": res.SettledCents,
		"method":        res.Method,
		"requested_at":  res.RequestedAt,
	})
}

type payoutDetailsRequest struct {
	Method        string `json:"method" binding:"required,oneof=bank_transfer pix paypal"`
	BankName      string `json:"bank_name"`
	AccountNumber string `json:"account_number"`
	RoutingNumber string `json:"routing_number"`
	PixKey        string `json:"pix_key"`
	PaypalEmail   string `json:"paypal_email"`
}

// PUT /api/creators/:creatorID/payout-details
func (h *EarningsHandler) UpdatePayoutDetails(c *gin.Context) {
	var req payoutDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fields := validation.FromBindError(err, &req)
		middleware.Fail(c, apperr.InvalidErr("Payload is invalid.", fields))
		return
	}

	err := h.Service.UpdatePayoutDetails(c.Request.Context(), c.Param("creatorID"), req.Method,
		earnings.PayoutDetailsFields{
			BankName:      req.BankName,
			AccountNumber: req.AccountNumber,
			RoutingNumber: req.RoutingNumber,
			PixKey:        req.PixKey,
			PaypalEmail:   req.PaypalEmail,
		})
	if err != nil {
		switch {
		case errors.Is(err, earnings.ErrInvalidPayoutDetails):
			middleware.Fail(c, apperr.UnprocessableErr("invalid_payout_details",
				"Required fields for the chosen payout method are missing."))
		case errors.Is(err, earnings.ErrUnknownPayoutMethod):
			middleware.Fail(c, apperr.InvalidErr("Unknown payout method.", nil))
		default:
			middleware.Fail(c, apperr.Wrap(err))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
