package fulfillment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"printora.com/app/internal/archive"
	"printora.com/app/internal/modules/earnings"
	"printora.com/app/internal/modules/orders"
)

const providerName = "printprov"

type Reconciler struct {
	db      *gorm.DB
	logger  *slog.Logger
	archive archive.Store // optional raw-payload audit copy
}

func NewReconciler(db *gorm.DB) *Reconciler {
	return &Reconciler{db: db, logger: slog.Default()}
}

func (r *Reconciler) SetLogger(logger *slog.Logger) { r.logger = logger }
func (r *Reconciler) SetArchive(st archive.Store)   { r.archive = st }

type Result struct {
	Received       bool
	OrderFound     bool
	Deduplicated   bool
	PreviousStatus orders.Status
	NewStatus      orders.Status
	Credited       bool
}

// Retry ceiling for lock conflicts between the order and ledger rows.
const maxReconcileAttempts = 3

// Reconcile applies one provider callback to the matching order under a
// per-order row lock. Duplicates, unknown orders and unknown stage
// vocabulary are all soft outcomes; the provider always gets a receipt.
// Commission is credited exactly once, on the transition into delivered.
// A deadlock or lock wait timeout rolls the whole attempt back (event
// row included) and is retried a bounded number of times.
func (r *Reconciler) Reconcile(ctx context.Context, ev Event, rawBody []byte) (Result, error) {
	var res Result
	var err error
	for attempt := 1; ; attempt++ {
		res, err = r.reconcileOnce(ctx, ev, rawBody)
		if err == nil || !isLockConflict(err) || attempt >= maxReconcileAttempts {
			break
		}
		r.logger.WarnContext(ctx, "callback apply hit a lock conflict, retrying",
			"event_id", ev.ID, "attempt", attempt)
	}
	if err != nil {
		return res, err
	}

	r.archiveRaw(ctx, ev, rawBody)
	return res, nil
}

func (r *Reconciler) reconcileOnce(ctx context.Context, ev Event, rawBody []byte) (Result, error) {
	var res Result
	res.Received = true

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		pe := ProviderEvent{
			ID:          uuid.NewString(),
			Provider:    providerName,
			EventID:     ev.ID,
			EventType:   ev.Type,
			Subject:     ev.Subject,
			PayloadJSON: datatypes.JSON(rawBody),
			ReceivedAt:  now,
		}

		// dedupe: unique(provider,event_id)
		if err := tx.Create(&pe).Error; err != nil {
			if isDup(err) {
				res.Deduplicated = true
				r.logger.InfoContext(ctx, "callback deduplicated",
					"event_id", ev.ID, "type", ev.Type, "subject", ev.Subject)
				return nil
			}
			return err
		}

		// Per-order lock. A missing local order (test traffic, creation
		// race) is acknowledged without touching anything; a non-success
		// response would only buy us a retry storm.
		var o orders.Order
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&o, "provider_order_id = ?", ev.Subject).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				r.logger.WarnContext(ctx, "callback for unknown order",
					"event_id", ev.ID, "subject", ev.Subject)
				return markProcessed(tx, pe.ID, now, "order not found")
			}
			return err
		}
		res.OrderFound = true
		res.PreviousStatus = o.Status
		res.NewStatus = o.Status

		patch := Translate(ev)
		if !patch.Handled {
			r.logger.InfoContext(ctx, "callback entity not handled",
				"event_id", ev.ID, "entity", patch.Entity)
			return markProcessed(tx, pe.ID, now, "")
		}

		var items []orders.OrderItem
		if err := tx.Order("created_at ASC").
			Find(&items, "order_id = ?", o.ID).Error; err != nil {
			return err
		}
		var shipments []orders.Shipment
		if err := tx.Order("created_at ASC").
			Find(&shipments, "order_id = ?", o.ID).Error; err != nil {
			return err
		}

		out := applyPatch(&o, items, shipments, patch, now)
		res.NewStatus = o.Status
		res.Credited = out.enteredDelivered

		if out.rejected != nil {
			// Out-of-order or backward callback: state is never
			// regressed, but shipment/charge data stays applied.
			r.logger.WarnContext(ctx, "callback transition rejected",
				"event_id", ev.ID, "order_id", o.ID,
				"from", out.rejected.From, "to", out.rejected.To)
		}

		o.UpdatedAt = now
		if err := tx.Save(&o).Error; err != nil {
			return err
		}
		for i := range out.items {
			if err := tx.Save(&out.items[i]).Error; err != nil {
				return err
			}
		}
		for i := range out.shipments {
			if err := tx.Save(&out.shipments[i]).Error; err != nil {
				return err
			}
		}

		if out.statusChanged {
			evRow := orders.OrderEvent{
				ID:         uuid.NewString(),
				OrderID:    o.ID,
				Source:     "provider",
				Action:     ev.Type,
				FromStatus: string(res.PreviousStatus),
				ToStatus:   string(o.Status),
				CreatedAt:  now,
			}
			if err := tx.Create(&evRow).Error; err != nil {
				return err
			}
		}

		if out.enteredDelivered {
			if err := r.creditCommission(ctx, tx, o, out.items, now); err != nil {
				return err
			}
		}

		procErr := ""
		if out.rejected != nil {
			procErr = truncate(out.rejected.Error(), 250)
		}
		return markProcessed(tx, pe.ID, now, procErr)
	})
	return res, err
}

type applyResult struct {
	items            []orders.OrderItem
	shipments        []orders.Shipment
	statusChanged    bool
	enteredDelivered bool
	rejected         *orders.TransitionError
}

// applyPatch edits the order, its items and shipments in memory. Pure
// with respect to storage, so the idempotence rules are testable without
// a database.
func applyPatch(o *orders.Order, items []orders.OrderItem, shipments []orders.Shipment, p Patch, now time.Time) applyResult {
	out := applyResult{items: items}
	prev := o.Status

	if p.TargetStatus != nil {
		if err := orders.Apply(o, *p.TargetStatus, now); err != nil {
			var te *orders.TransitionError
			if errors.As(err, &te) {
				out.rejected = te
			}
		} else if o.Status != prev {
			out.statusChanged = true
			// Mirror the order-level move onto items; lines already
			// further along (or terminal) keep their own status.
			for i := range out.items {
				_ = orders.ApplyItem(&out.items[i], o.Status, o.PaymentStatus)
				out.items[i].UpdatedAt = now
			}
		}
	}

	if p.ProviderStatus != "" {
		o.ProviderStatus = p.ProviderStatus
	}

	// Explicit per-item statuses from the payload win over the mirror.
	if len(p.Items) > 0 {
		byProviderID := make(map[string]int, len(out.items))
		for i, it := range out.items {
			if it.ProviderItemID != nil {
				byProviderID[*it.ProviderItemID] = i
			}
		}
		for _, is := range p.Items {
			st, ok := MapStage(is.Status)
			if !ok {
				continue
			}
			if i, found := byProviderID[is.ProviderItemID]; found {
				_ = orders.ApplyItem(&out.items[i], st, o.PaymentStatus)
				out.items[i].UpdatedAt = now
			}
		}
	}

	if p.Charges != nil {
		o.SubtotalCents = p.Charges.SubtotalCents
		o.ShippingCents = p.Charges.ShippingCents
		o.TotalCents = o.SubtotalCents + o.ShippingCents + o.TaxCents - o.DiscountCents
	}

	out.shipments = MergeShipments(shipments, p.Shipments, o.ID, now)

	out.enteredDelivered = prev != orders.StatusDelivered && o.Status == orders.StatusDelivered
	return out
}

// creditCommission books the creator's share for a delivered order:
// one atomic ledger increment plus a pending commission payment row.
// Runs inside the order's transaction, so the delivered transition and
// the credit land together or not at all.
func (r *Reconciler) creditCommission(ctx context.Context, tx *gorm.DB, o orders.Order, items []orders.OrderItem, now time.Time) error {
	var commission int64
	for _, it := range items {
		commission += it.CreatorCommissionCents
	}

	if err := earnings.CreditInTx(ctx, tx, earnings.CreditInput{
		CreatorID:       o.CreatorID,
		CommissionCents: commission,
		SaleCents:       o.TotalCents,
	}); err != nil {
		return err
	}

	cp := orders.CommissionPayment{
		ID:          uuid.NewString(),
		OrderID:     o.ID,
		CreatorID:   o.CreatorID,
		AmountCents: commission,
		Currency:    o.Currency,
		Status:      orders.CommissionPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := tx.Create(&cp).Error; err != nil {
		return err
	}

	r.logger.InfoContext(ctx, "commission credited",
		"order_id", o.ID, "creator_id", o.CreatorID, "amount_cents", commission)
	return nil
}

func (r *Reconciler) archiveRaw(ctx context.Context, ev Event, rawBody []byte) {
	if r.archive == nil {
		return
	}
	_, err := r.archive.Put(ctx, bytes.NewReader(rawBody), archive.PutInput{
		Filename:    fmt.Sprintf("%s_%s.json", providerName, ev.ID),
		ContentType: "application/json",
		Size:        int64(len(rawBody)),
	})
	if err != nil {
		r.logger.WarnContext(ctx, "callback archive failed", "event_id", ev.ID, "err", err)
	}
}

func markProcessed(tx *gorm.DB, eventRowID string, now time.Time, procErr string) error {
	updates := map[string]any{"processed_at": &now, "process_error": nil}
	if procErr != "" {
		updates["process_error"] = procErr
	}
	return tx.Model(&ProviderEvent{}).
		Where("id = ?", eventRowID).
		Updates(updates).Error
}

func isDup(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}

// 1213 deadlock, 1205 lock wait timeout. Both roll the transaction back
// cleanly and are safe to re-run.
func isLockConflict(err error) bool {
	var me *mysql.MySQLError
	if !errors.As(err, &me) {
		return false
	}
	return me.Number == 1213 || me.Number == 1205
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n]
}

// DecodeEvent parses a raw callback body.
func DecodeEvent(body []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(body, &ev); err != nil {
		return Event{}, err
	}
	if ev.ID == "" || ev.Type == "" {
		return Event{}, errors.New("callback missing id or type")
	}
	return ev, nil
}
