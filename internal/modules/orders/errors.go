package orders

import "errors"

var (
	ErrNotFound        = errors.New("order not found")
	ErrEmptyOrder      = errors.New("order has no items")
	ErrProviderIDTaken = errors.New("provider order id already set")
)
