package earnings

import "errors"

var (
	ErrInsufficientBalance  = errors.New("available balance below payout minimum")
	ErrPayoutMethodMissing  = errors.New("no payout method configured")
	ErrInvalidPayoutDetails = errors.New("payout details incomplete for method")
	ErrUnknownPayoutMethod  = errors.New("unknown payout method")
)
