package dao

import (
	"context"
	"time"

	"github.com/munyanyaguo/Hisi-Studio/internal/model"

	"gorm.io/gorm"
)

type PaymentDao struct {
	db *gorm.DB
}

func NewPaymentDao(db *gorm.DB) *PaymentDao {
	return &PaymentDao{db: db}
}

// WithTx rebinds the DAO to a transaction handle.
func (d *PaymentDao) WithTx(tx *gorm.DB) *PaymentDao {
	return &PaymentDao{db: tx}
}

func (d *PaymentDao) CreatePayment(ctx context.Context, payment *model.Payment) error {
	return d.db.WithContext(ctx).Create(payment).Error
}

func (d *PaymentDao) GetPaymentByID(ctx context.Context, id string) (*model.Payment, error) {
	var payment model.Payment
	err := d.db.WithContext(ctx).Where("id = ?", id).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (d *PaymentDao) GetPaymentByOrderID(ctx context.Context, orderID string) (*model.Payment, error) {
	var payment model.Payment
	err := d.db.WithContext(ctx).Where("order_id = ?", orderID).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (d *PaymentDao) GetPaymentByTransactionID(ctx context.Context, transactionID string) (*model.Payment, error) {
	var payment model.Payment
	err := d.db.WithContext(ctx).Where("transaction_id = ?", transactionID).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (d *PaymentDao) UpdatePayment(ctx context.Context, id string, updates map[string]interface{}) error {
	return d.db.WithContext(ctx).Model(&model.Payment{}).Where("id = ?", id).Updates(updates).Error
}

// ListPayments is the admin listing with an optional status filter.
func (d *PaymentDao) ListPayments(ctx context.Context, status model.TxStatus, page, pageSize int) ([]*model.Payment, int64, error) {
	q := d.db.WithContext(ctx).Model(&model.Payment{})
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var payments []*model.Payment
	err := q.Order("created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&payments).Error

	return payments, total, err
}

// PaymentStats aggregates totals per payment status for the admin stats
// endpoint.
type PaymentStats struct {
	TotalCount      int64   `json:"total_count"`
	SuccessfulCount int64   `json:"successful_count"`
	FailedCount     int64   `json:"failed_count"`
	RefundedCount   int64   `json:"refunded_count"`
	TotalCollected  float64 `json:"total_collected"`
	TotalRefunded   float64 `json:"total_refunded"`
}

func (d *PaymentDao) Stats(ctx context.Context, since *time.Time) (*PaymentStats, error) {
	q := d.db.WithContext(ctx).Model(&model.Payment{})
	if since != nil {
		q = q.Where("created_at >= ?", *since)
	}

	var stats PaymentStats
	err := q.Select(
		"COUNT(*) as total_count, "+
			"SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) as successful_count, "+
			"SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) as failed_count, "+
			"SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) as refunded_count, "+
			"COALESCE(SUM(CASE WHEN status = ? THEN amount ELSE 0 END), 0) as total_collected, "+
			"COALESCE(SUM(CASE WHEN status = ? THEN amount ELSE 0 END), 0) as total_refunded",
		model.TxStatusSuccessful, model.TxStatusFailed, model.TxStatusRefunded,
		model.TxStatusSuccessful, model.TxStatusRefunded,
	).Scan(&stats).Error

	return &stats, err
}
