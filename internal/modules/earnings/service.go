package earnings

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"printora.com/app/internal/mailer"
	"printora.com/app/internal/modules/orders"
	"printora.com/app/internal/shared/money"
)

type Service struct {
	db             *gorm.DB
	minPayoutCents int64
	logger         *slog.Logger

	mail     mailer.Service // optional payout notifications
	mailFrom string
}

func NewService(db *gorm.DB, minPayoutCents int64) *Service {
	return &Service{db: db, minPayoutCents: minPayoutCents, logger: slog.Default()}
}

func (s *Service) SetLogger(logger *slog.Logger) { s.logger = logger }

func (s *Service) SetMailer(m mailer.Service, from string) {
	s.mail = m
	s.mailFrom = from
}

func (s *Service) MinPayoutCents() int64 { return s.minPayoutCents }

type CreditInput struct {
	CreatorID       string
	CommissionCents int64
	SaleCents       int64
}

// CreditInTx books one delivered order's commission onto the creator's
// ledger row inside the caller's transaction. The write is a single
// upsert with SQL-side increments, so concurrent credits from different
// orders never lose an update.
func CreditInTx(ctx context.Context, tx *gorm.DB, in CreditInput) error {
	now := time.Now()
	row := CreatorEarnings{
		CreatorID:            in.CreatorID,
		TotalEarningsCents:   in.CommissionCents,
		PendingEarningsCents: in.CommissionCents,
		TotalSalesCents:      in.SaleCents,
		TotalOrders:          1,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	return tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "creator_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"total_earnings_cents":   gorm.Expr("total_earnings_cents + ?", in.CommissionCents),
			"pending_earnings_cents": gorm.Expr("pending_earnings_cents + ?", in.CommissionCents),
			"total_sales_cents":      gorm.Expr("total_sales_cents + ?", in.SaleCents),
			"total_orders":           gorm.Expr("total_orders + 1"),
			"updated_at":             now,
		}),
	}).Create(&row).Error
}

type Summary struct {
	Row            CreatorEarnings
	AvailableCents int64
	MinPayoutCents int64
	CanRequest     bool
	MonthlyRollups []orders.MonthlyRollup
}

// Summary is the creator-facing read path. It never mutates the ledger.
func (s *Service) Summary(ctx context.Context, creatorID string) (Summary, error) {
	var row CreatorEarnings
	err := s.db.WithContext(ctx).First(&row, "creator_id = ?", creatorID).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return Summary{}, err
		}
		// No credits yet: an empty ledger, not an error.
		row = CreatorEarnings{CreatorID: creatorID}
	}

	rollups, err := orders.NewRepo(s.db).MonthlyRollups(ctx, creatorID, 12)
	if err != nil {
		return Summary{}, err
	}

	return Summary{
		Row:            row,
		AvailableCents: row.AvailableCents(),
		MinPayoutCents: s.minPayoutCents,
		CanRequest:     row.CanRequestPayout(s.minPayoutCents),
		MonthlyRollups: rollups,
	}, nil
}

type PayoutResult struct {
	SettledCents int64
	Method       string
	RequestedAt  time.Time
}

// RequestPayout settles the full available balance. The ledger row is
// read under FOR UPDATE and settled in the same transaction, so a credit
// racing this call either lands before the lock (and is swept into this
// payout) or waits and stays pending for the next one. Two concurrent
// payout requests serialize on the same lock; the loser sees a zero
// balance and fails the minimum check.
func (s *Service) RequestPayout(ctx context.Context, creatorID, notifyEmail string) (PayoutResult, error) {
	var out PayoutResult
	var currency string

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row CreatorEarnings
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&row, "creator_id = ?", creatorID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInsufficientBalance
			}
			return err
		}

		if row.PayoutMethod == "" {
			return ErrPayoutMethodMissing
		}
		available := row.AvailableCents()
		if available < s.minPayoutCents {
			return ErrInsufficientBalance
		}

		now := time.Now()
		if err := tx.Model(&CreatorEarnings{}).
			Where("creator_id = ?", creatorID).
			Updates(map[string]any{
				"paid_earnings_cents":    gorm.Expr("paid_earnings_cents + ?", available),
				"pending_earnings_cents": gorm.Expr("GREATEST(pending_earnings_cents - ?, 0)", available),
				"last_payout_at":         now,
				"updated_at":             now,
			}).Error; err != nil {
			return err
		}

		var cp orders.CommissionPayment
		if err := tx.Where("creator_id = ? AND status = ?", creatorID, orders.CommissionPending).
			First(&cp).Error; err == nil {
			currency = cp.Currency
		}

		// Outstanding per-order commission records join this batch.
		if err := tx.Model(&orders.CommissionPayment{}).
			Where("creator_id = ? AND status = ?", creatorID, orders.CommissionPending).
			Updates(map[string]any{
				"status":        orders.CommissionProcessing,
				"payout_method": row.PayoutMethod,
				"updated_at":    now,
			}).Error; err != nil {
			return err
		}

		out = PayoutResult{SettledCents: available, Method: row.PayoutMethod, RequestedAt: now}
		return nil
	})
	if err != nil {
		return PayoutResult{}, err
	}

	s.logger.InfoContext(ctx, "payout requested",
		"creator_id", creatorID, "settled_cents", out.SettledCents, "method", out.Method)

	s.notifyPayout(ctx, notifyEmail, currency, out)
	return out, nil
}

// notifyPayout is best-effort: a failed email never fails the payout.
func (s *Service) notifyPayout(ctx context.Context, to, currency string, res PayoutResult) {
	if s.mail == nil || to == "" {
		return
	}
	if currency == "" {
		currency = "USD"
	}
	amount := money.Format(currency, res.SettledCents)
	err := s.mail.Send(ctx, mailer.Email{
		FromName: "Printora",
		From:     s.mailFrom,
		To:       []string{to},
		Subject:  "Your payout is on its way",
		TextBody: "We received your payout request for " + amount +
			" via " + res.Method + ". Funds usually arrive within 3-5 business days.",
	})
	if err != nil {
		s.logger.WarnContext(ctx, "payout notification failed", "to", to, "err", err)
	}
}

// UpdatePayoutDetails validates and stores the creator's payout method.
func (s *Service) UpdatePayoutDetails(ctx context.Context, creatorID, method string, details PayoutDetailsFields) error {
	method = strings.TrimSpace(method)
	if err := ValidatePayoutDetails(method, details); err != nil {
		return err
	}

	blob, err := json.Marshal(details)
	if err != nil {
		return err
	}

	now := time.Now()
	row := CreatorEarnings{
		CreatorID:     creatorID,
		PayoutMethod:  method,
		PayoutDetails: datatypes.JSON(blob),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "creator_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"payout_method":  method,
			"payout_details": datatypes.JSON(blob),
			"updated_at":     now,
		}),
	}).Create(&row).Error
}

// ValidatePayoutDetails checks that the fields the chosen method needs
// are present. Pure, so the rules are testable in isolation.
func ValidatePayoutDetails(method string, d PayoutDetailsFields) error {
	switch method {
	case "bank_transfer":
		if strings.TrimSpace(d.BankName) == "" ||
			strings.TrimSpace(d.AccountNumber) == "" ||
			strings.TrimSpace(d.RoutingNumber) == "" {
			return ErrInvalidPayoutDetails
		}
	case "pix":
		if strings.TrimSpace(d.PixKey) == "" {
			return ErrInvalidPayoutDetails
		}
	case "paypal":
		if strings.TrimSpace(d.PaypalEmail) == "" || !strings.Contains(d.PaypalEmail, "@") {
			return ErrInvalidPayoutDetails
		}
	default:
		return ErrUnknownPayoutMethod
	}
	return nil
}
