package earnings

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"printora.com/app/internal/mailer"
)

func TestAvailableCents(t *testing.T) {
	row := CreatorEarnings{TotalEarningsCents: 8000, PaidEarningsCents: 4000}
	assert.Equal(t, int64(4000), row.AvailableCents())

	assert.Equal(t, int64(0), CreatorEarnings{}.AvailableCents())
}

func TestCanRequestPayoutThreshold(t *testing.T) {
	const min = 5000

	row := CreatorEarnings{
		TotalEarningsCents: 8000,
		PaidEarningsCents:  4000,
		PayoutMethod:       "pix",
	}
	// 4000 available against a 5000 minimum.
	assert.False(t, row.CanRequestPayout(min))

	// One more delivered order credits 2000.
	row.TotalEarningsCents += 2000
	assert.Equal(t, int64(6000), row.AvailableCents())
	assert.True(t, row.CanRequestPayout(min))

	// Settling sweeps the full available balance.
	row.PaidEarningsCents += row.AvailableCents()
	assert.Equal(t, int64(10000), row.PaidEarningsCents)
	assert.Equal(t, int64(0), row.AvailableCents())
	assert.False(t, row.CanRequestPayout(min))
}

func TestCanRequestPayoutNeedsMethod(t *testing.T) {
	row := CreatorEarnings{TotalEarningsCents: 9000}
	assert.False(t, row.CanRequestPayout(5000))

	row.PayoutMethod = "paypal"
	assert.True(t, row.CanRequestPayout(5000))
}

func TestValidatePayoutDetailsBankTransfer(t *testing.T) {
	ok := PayoutDetailsFields{BankName: "Acme Bank", AccountNumber: "12345678", RoutingNumber: "021000021"}
	assert.NoError(t, ValidatePayoutDetails("bank_transfer", ok))

	missing := ok
	missing.RoutingNumber = "  "
	assert.ErrorIs(t, ValidatePayoutDetails("bank_transfer", missing), ErrInvalidPayoutDetails)

	assert.ErrorIs(t, ValidatePayoutDetails("bank_transfer", PayoutDetailsFields{}), ErrInvalidPayoutDetails)
}

func TestValidatePayoutDetailsPix(t *testing.T) {
	assert.NoError(t, ValidatePayoutDetails("pix", PayoutDetailsFields{PixKey: "creator@example.com"}))
	assert.ErrorIs(t, ValidatePayoutDetails("pix", PayoutDetailsFields{}), ErrInvalidPayoutDetails)
}

func TestValidatePayoutDetailsPaypal(t *testing.T) {
	assert.NoError(t, ValidatePayoutDetails("paypal", PayoutDetailsFields{PaypalEmail: "creator@example.com"}))
	assert.ErrorIs(t, ValidatePayoutDetails("paypal", PayoutDetailsFields{PaypalEmail: "not-an-email"}), ErrInvalidPayoutDetails)
	assert.ErrorIs(t, ValidatePayoutDetails("paypal", PayoutDetailsFields{}), ErrInvalidPayoutDetails)
}

func TestValidatePayoutDetailsUnknownMethod(t *testing.T) {
	assert.ErrorIs(t, ValidatePayoutDetails("wire", PayoutDetailsFields{}), ErrUnknownPayoutMethod)
	assert.ErrorIs(t, ValidatePayoutDetails("", PayoutDetailsFields{}), ErrUnknownPayoutMethod)
}

func TestNotifyPayoutSendsSettlementEmail(t *testing.T) {
	mock := &mailer.Mock{}
	svc := NewService(nil, 5000)
	svc.SetMailer(mock, "no-reply@printora.local")

	svc.notifyPayout(context.Background(), "creator@example.com", "EUR",
		PayoutResult{SettledCents: 6300, Method: "pix"})

	require.Len(t, mock.Sent, 1)
	e := mock.Sent[0]
	assert.Equal(t, []string{"creator@example.com"}, e.To)
	assert.Equal(t, "no-reply@printora.local", e.From)
	assert.Contains(t, e.TextBody, "€63.00")
	assert.Contains(t, e.TextBody, "pix")
}

func TestNotifyPayoutDefaultsCurrency(t *testing.T) {
	mock := &mailer.Mock{}
	svc := NewService(nil, 5000)
	svc.SetMailer(mock, "no-reply@printora.local")

	svc.notifyPayout(context.Background(), "creator@example.com", "",
		PayoutResult{SettledCents: 5000, Method: "paypal"})

	require.Len(t, mock.Sent, 1)
	assert.Contains(t, mock.Sent[0].TextBody, "$50.00")
}

func TestNotifyPayoutFailureIsSwallowed(t *testing.T) {
	// A broken mail transport must never surface from the payout path.
	mock := &mailer.Mock{Err: errors.New("smtp down")}
	svc := NewService(nil, 5000)
	svc.SetMailer(mock, "no-reply@printora.local")

	svc.notifyPayout(context.Background(), "creator@example.com", "USD",
		PayoutResult{SettledCents: 5000, Method: "pix"})
	assert.Equal(t, 0, mock.SentCount())
}

func TestNotifyPayoutSkipsWithoutRecipientOrMailer(t *testing.T) {
	mock := &mailer.Mock{}
	svc := NewService(nil, 5000)
	svc.SetMailer(mock, "no-reply@printora.local")

	svc.notifyPayout(context.Background(), "", "USD", PayoutResult{SettledCents: 5000})
	assert.Equal(t, 0, mock.SentCount())

	bare := NewService(nil, 5000)
	bare.notifyPayout(context.Background(), "creator@example.com", "USD", PayoutResult{SettledCents: 5000})
}
