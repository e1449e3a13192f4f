package handlers

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"printora.com/app/internal/modules/fulfillment"
)

type WebhookHandler struct {
	Logger     *slog.Logger
	Secret     string // empty disables signature verification
	Reconciler *fulfillment.Reconciler
}

func NewWebhookHandler(logger *slog.Logger, secret string, rec *fulfillment.Reconciler) *WebhookHandler {
	return &WebhookHandler{Logger: logger, Secret: secret, Reconciler: rec}
}

// POST /webhooks/fulfillment
// Body is one raw provider lifecycle event. The contract is "receipt on
// anything short of a malformed request": duplicates, unknown orders and
// even internal apply errors get a 200, because a non-success response
// only makes the provider redeliver.
func (h *WebhookHandler) Handle(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"received": false, "error": "invalid body"})
		return
	}

	if h.Secret != "" {
		sig := c.GetHeader(fulfillment.SignatureHeader)
		if err := fulfillment.VerifySignature(h.Secret, sig, body, time.Now()); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"received": false, "error": "invalid signature"})
			return
		}
	}

	ev, err := fulfillment.DecodeEvent(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"received": false, "error": "invalid payload"})
		return
	}

	res, err := h.Reconciler.Reconcile(c.Request.Context(), ev, body)
	if err != nil {
		// Logged for operator follow-up; the provider still gets a
		// receipt so it stops retrying.
		h.Logger.Error("callback reconcile failed",
			"event_id", ev.ID, "type", ev.Type, "subject", ev.Subject, "err", err)
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"received":        true,
		"order_found":     res.OrderFound,
		"deduplicated":    res.Deduplicated,
		"previous_status": res.PreviousStatus,
		"new_status":      res.NewStatus,
		"credited":        res.Credited,
	})
}
