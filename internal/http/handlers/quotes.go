package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"printora.com/app/internal/http/middleware"
	"printora.com/app/internal/http/validation"
	"printora.com/app/internal/modules/pricing"
	"printora.com/app/internal/shared/apperr"
	"printora.com/app/internal/shared/money"
)

type QuoteHandler struct {
	Logger *slog.Logger
}

func NewQuoteHandler(logger *slog.Logger) *QuoteHandler {
	return &QuoteHandler{Logger: logger}
}

type quoteOptionRequest struct {
	Method      string  `json:"method" binding:"required"`
	ProductCost float64 `json:"product_cost" binding:"gte=0"`
	ShipCost    float64 `json:"ship_cost" binding:"gte=0"`
	MinDays     int     `json:"min_days" binding:"min=0"`
	MaxDays     int     `json:"max_days" binding:"min=0"`
}

type quoteRequest struct {
	FxRate        float64              `json:"fx_rate" binding:"required,gt=0"`
	MarginPercent float64              `json:"margin_percent" binding:"gte=0"`
	Currency      string               `json:"currency" binding:"required,len=3"`
	Options       []quoteOptionRequest `json:"options" binding:"required,min=1,dive"`
}

// POST /api/quotes
// Stateless: converts provider cost quotes and suggests retail pricing.
func (h *QuoteHandler) Create(c *gin.Context) {
	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fields := validation.FromBindError(err, &req)
		middleware.Fail(c, apperr.InvalidErr("Quote payload is invalid.", fields))
		return
	}

	in := pricing.QuoteInput{
		FxRate:        req.FxRate,
		MarginPercent: req.MarginPercent,
		Currency:      req.Currency,
	}
	for _, opt := range req.Options {
		in.Options = append(in.Options, pricing.ProviderOption{
			Method:      opt.Method,
			ProductCost: opt.ProductCost,
			ShipCost:    opt.ShipCost,
			MinDays:     opt.MinDays,
			MaxDays:     opt.MaxDays,
		})
	}

	quotes := pricing.BuildQuotes(in)
	out := make([]gin.H, 0, len(quotes))
	for _, q := range quotes {
		out = append(out, gin.H{
			"method":                q.Method,
			"product_cost_cents":    q.ProductCostCents,
			"shipping_cost_cents":   q.ShippingCostCents,
			"total_cost_cents":      q.TotalCostCents,
			"suggested_price_cents": q.SuggestedPriceCents,
			"suggested_price":       money.ToMajor(q.SuggestedPriceCents),
			"profit_cents":          q.ProfitCents,
			"profit_margin_pct":     q.ProfitMarginPercent,
			"min_days":              q.MinDays,
			"max_days":              q.MaxDays,
			"currency":              q.Currency,
		})
	}

	c.JSON(http.StatusOK, gin.H{"quotes": out})
}
