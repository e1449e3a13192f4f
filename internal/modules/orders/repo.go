package orders

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

type Detail struct {
	Order              Order
	Items              []OrderItem
	Shipments          []Shipment
	CommissionPayments []CommissionPayment
}

func (r *Repo) GetDetail(ctx context.Context, id string) (Detail, error) {
	var d Detail
	if err := r.db.WithContext(ctx).First(&d.Order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Detail{}, ErrNotFound
		}
		return Detail{}, err
	}
	if err := r.db.WithContext(ctx).Order("created_at ASC").
		Find(&d.Items, "order_id = ?", id).Error; err != nil {
		return Detail{}, err
	}
	if err := r.db.WithContext(ctx).Order("created_at ASC").
		Find(&d.Shipments, "order_id = ?", id).Error; err != nil {
		return Detail{}, err
	}
	if err := r.db.WithContext(ctx).Order("created_at ASC").
		Find(&d.CommissionPayments, "order_id = ?", id).Error; err != nil {
		return Detail{}, err
	}
	return d, nil
}

func (r *Repo) GetEvents(ctx context.Context, orderID string) ([]OrderEvent, error) {
	var ev []OrderEvent
	err := r.db.WithContext(ctx).Order("created_at DESC").
		Find(&ev, "order_id = ?", orderID).Error
	return ev, err
}

type ListByCreatorParams struct {
	CreatorID string
	Page      int
	PageSize  int
	Status    string // optional filter
}

type ListByCreatorResult struct {
	Items []Order
	Total int64
}

func (r *Repo) ListByCreator(ctx context.Context, in ListByCreatorParams) (ListByCreatorResult, error) {
	page := in.Page
	if page < 1 {
		page = 1
	}
	size := in.PageSize
	if size < 1 || size > 100 {
		size = 20
	}
	status := strings.TrimSpace(in.Status)

	q := r.db.WithContext(ctx).Model(&Order{}).Where("creator_id = ?", in.CreatorID)
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return ListByCreatorResult{}, err
	}

	var items []Order
	if err := q.
		Order("created_at DESC").
		Limit(size).
		Offset((page - 1) * size).
		Find(&items).Error; err != nil {
		return ListByCreatorResult{}, err
	}

	return ListByCreatorResult{Items: items, Total: total}, nil
}

type MonthlyRollup struct {
	Month           string `gorm:"column:month"`
	Orders          int64  `gorm:"column:orders"`
	SalesCents      int64  `gorm:"column:sales_cents"`
	CommissionCents int64  `gorm:"column:commission_cents"`
}

// MonthlyRollups aggregates delivered orders per calendar month. Read
// path only; the ledger row is never touched here.
func (r *Repo) MonthlyRollups(ctx context.Context, creatorID string, months int) ([]MonthlyRollup, error) {
	if months < 1 || months > 24 {
		months = 12
	}

	var out []MonthlyRollup
	err := r.db.WithContext(ctx).Raw(`
		SELECT DATE_FORMAT(o.delivered_at, '%Y-%m') AS month,
		       COUNT(DISTINCT o.id)                 AS orders,
		       COALESCE(SUM(i.selling_price_cents), 0)       AS sales_cents,
		       COALESCE(SUM(i.creator_commission_cents), 0)  AS commission_cents
		FROM orders o
		JOIN order_items i ON i.order_id = o.id
		WHERE o.creator_id = ? AND o.status = ? AND o.delivered_at IS NOT NULL
		GROUP BY DATE_FORMAT(o.delivered_at, '%Y-%m')
		ORDER BY month DESC
		LIMIT ?`, creatorID, StatusDelivered, months).Scan(&out).Error
	return out, err
}
