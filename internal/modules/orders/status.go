package orders

import (
	"fmt"
	"time"
)

// Forward chain of the fulfillment lifecycle. A target further along
// the chain is always reachable (the provider may skip stages we never
// observe). Side branches: cancelled from any non-terminal state,
// refunded once payment is captured, failed only before production.
var forwardRank = map[Status]int{
	StatusPending:      0,
	StatusConfirmed:    1,
	StatusProcessing:   2,
	StatusInProduction: 3,
	StatusShipped:      4,
	StatusDelivered:    5,
}

func IsTerminal(s Status) bool {
	switch s {
	case StatusDelivered, StatusCancelled, StatusRefunded, StatusFailed:
		return true
	}
	return false
}

type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid order status transition: %s -> %s", e.From, e.To)
}

// CanTransition reports whether target is reachable from current.
// Re-applying the current status is not a transition; callers treat it
// as an idempotent no-op before asking.
func CanTransition(current, target Status, payment PaymentStatus) bool {
	if IsTerminal(current) {
		return false
	}
	curRank, curOK := forwardRank[current]

	switch target {
	case StatusCancelled:
		return true
	case StatusRefunded:
		return payment == PaymentPaid
	case StatusFailed:
		return curOK && curRank < forwardRank[StatusInProduction]
	}

	tgtRank, tgtOK := forwardRank[target]
	if !curOK || !tgtOK {
		return false
	}
	return tgtRank > curRank
}

// Apply moves the order to target, stamping the matching timestamp only
// if it is still unset. Re-applying the current status is a no-op so a
// duplicate callback never errors and never clobbers an earlier, more
// precise timestamp.
func Apply(o *Order, target Status, now time.Time) error {
	if o.Status == target {
		return nil
	}
	if !CanTransition(o.Status, target, o.PaymentStatus) {
		return &TransitionError{From: o.Status, To: target}
	}

	o.Status = target
	stampFor(o, target, now)
	return nil
}

func stampFor(o *Order, s Status, now time.Time) {
	set := func(t **time.Time) {
		if *t == nil {
			v := now
			*t = &v
		}
	}
	switch s {
	case StatusProcessing, StatusInProduction:
		set(&o.SentToProductionAt)
	case StatusShipped:
		set(&o.ShippedAt)
	case StatusDelivered:
		set(&o.DeliveredAt)
	case StatusCancelled:
		set(&o.CancelledAt)
	case StatusRefunded:
		set(&o.RefundedAt)
	}
}

// MarkPaid records payment capture independently of fulfillment status.
func MarkPaid(o *Order, now time.Time) {
	o.PaymentStatus = PaymentPaid
	if o.PaidAt == nil {
		v := now
		o.PaidAt = &v
	}
}

// ApplyItem mirrors a status change at line-item granularity. Items have
// no payment dimension, so refunds follow the parent order.
func ApplyItem(it *OrderItem, target Status, parentPayment PaymentStatus) error {
	if it.Status == target {
		return nil
	}
	if !CanTransition(it.Status, target, parentPayment) {
		return &TransitionError{From: it.Status, To: target}
	}
	it.Status = target
	return nil
}
