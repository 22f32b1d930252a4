package dao

import (
	"context"
	"errors"
	"time"

	"github.com/munyanyaguo/Hisi-Studio/internal/model"

	"gorm.io/gorm"
)

var ErrOrderStatusChanged = errors.New("order status already changed")

type OrderDao struct {
	db *gorm.DB
}

func NewOrderDao(db *gorm.DB) *OrderDao {
	return &OrderDao{db: db}
}

// WithTx rebinds the DAO to a transaction handle.
func (d *OrderDao) WithTx(tx *gorm.DB) *OrderDao {
	return &OrderDao{db: tx}
}

func (d *OrderDao) CreateOrder(ctx context.Context, order *model.Order) error {
	return d.db.WithContext(ctx).Create(order).Error
}

func (d *OrderDao) CreateOrderItem(ctx context.Context, item *model.OrderItem) error {
	return d.db.WithContext(ctx).Create(item).Error
}

func (d *OrderDao) GetOrderByID(ctx context.Context, orderID string) (*model.Order, error) {
	var order model.Order
	err := d.db.WithContext(ctx).Preload("Items").Where("id = ?", orderID).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (d *OrderDao) GetOrderByNumber(ctx context.Context, orderNumber string) (*model.Order, error) {
	var order model.Order
	err := d.db.WithContext(ctx).Preload("Items").Where("order_number = ?", orderNumber).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// OrderNumberExists backs the uniqueness retry loop in order-number
// generation.
func (d *OrderDao) OrderNumberExists(ctx context.Context, orderNumber string) (bool, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(&model.Order{}).Where("order_number = ?", orderNumber).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetUserOrders returns a page of the user's orders, newest first.
func (d *OrderDao) GetUserOrders(ctx context.Context, userID string, status model.OrderStatus, page, pageSize int) ([]*model.Order, int64, error) {
	q := d.db.WithContext(ctx).Model(&model.Order{}).Where("user_id = ?", userID)
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []*model.Order
	err := q.Preload("Items").
		Order("created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&orders).Error

	return orders, total, err
}

// ListOrders is the admin-side listing with status/payment filters.
func (d *OrderDao) ListOrders(ctx context.Context, status model.OrderStatus, paymentStatus model.PaymentStatus, search string, page, pageSize int) ([]*model.Order, int64, error) {
	q := d.db.WithContext(ctx).Model(&model.Order{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if paymentStatus != "" {
		q = q.Where("payment_status = ?", paymentStatus)
	}
	if search != "" {
		q = q.Where("order_number LIKE ?", "%"+search+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []*model.Order
	err := q.Preload("Items").
		Order("created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&orders).Error

	return orders, total, err
}

// UpdateOrder applies a partial update to one order row.
func (d *OrderDao) UpdateOrder(ctx context.Context, orderID string, updates map[string]interface{}) error {
	return d.db.WithContext(ctx).Model(&model.Order{}).Where("id = ?", orderID).Updates(updates).Error
}

// TransitionStatus updates status only when the row is still in
// fromStatus, so two concurrent transitions cannot both win.
func (d *OrderDao) TransitionStatus(ctx context.Context, orderID string, fromStatus, toStatus model.OrderStatus, extra map[string]interface{}) error {
	updates := map[string]interface{}{"status": toStatus}
	for k, v := range extra {
		updates[k] = v
	}

	result := d.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND status = ?", orderID, fromStatus).
		Updates(updates)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOrderStatusChanged
	}
	return nil
}

// CountOrders and revenue aggregates for the admin dashboard.

func (d *OrderDao) CountOrders(ctx context.Context, since *time.Time) (int64, error) {
	q := d.db.WithContext(ctx).Model(&model.Order{})
	if since != nil {
		q = q.Where("created_at >= ?", *since)
	}
	var count int64
	err := q.Count(&count).Error
	return count, err
}

// TotalRevenue sums totals of orders whose payment completed.
func (d *OrderDao) TotalRevenue(ctx context.Context, since *time.Time) (float64, error) {
	q := d.db.WithContext(ctx).Model(&model.Order{}).Where("payment_status = ?", model.PaymentStatusCompleted)
	if since != nil {
		q = q.Where("created_at >= ?", *since)
	}
	var revenue float64
	err := q.Select("COALESCE(SUM(total), 0)").Scan(&revenue).Error
	return revenue, err
}

// StatusBreakdown counts orders per status.
func (d *OrderDao) StatusBreakdown(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	err := d.db.WithContext(ctx).Model(&model.Order{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	breakdown := make(map[string]int64, len(rows))
	for _, r := range rows {
		breakdown[r.Status] = r.Count
	}
	return breakdown, nil
}

// DailyStat is one day of the analytics window.
type DailyStat struct {
	Day     string  `json:"day"`
	Orders  int64   `json:"orders"`
	Revenue float64 `json:"revenue"`
}

// DailyStats groups paid-order counts and revenue by calendar day.
func (d *OrderDao) DailyStats(ctx context.Context, since time.Time) ([]DailyStat, error) {
	var stats []DailyStat
	err := d.db.WithContext(ctx).Model(&model.Order{}).
		Select("DATE(created_at) as day, COUNT(*) as orders, COALESCE(SUM(CASE WHEN payment_status = ? THEN total ELSE 0 END), 0) as revenue", model.PaymentStatusCompleted).
		Where("created_at >= ?", since).
		Group("DATE(created_at)").
		Order("day ASC").
		Scan(&stats).Error
	return stats, err
}

// TopProduct is an analytics row for best sellers.
type TopProduct struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int64   `json:"quantity"`
	Revenue     float64 `json:"revenue"`
}

// TopProducts ranks products by quantity sold over the window.
func (d *OrderDao) TopProducts(ctx context.Context, since time.Time, limit int) ([]TopProduct, error) {
	var rows []TopProduct
	err := d.db.WithContext(ctx).Model(&model.OrderItem{}).
		Select("order_items.product_id, order_items.product_name, SUM(order_items.quantity) as quantity, SUM(order_items.subtotal) as revenue").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.created_at >= ?", since).
		Group("order_items.product_id, order_items.product_name").
		Order("quantity DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// RecentOrders returns the newest orders for the dashboard overview.
func (d *OrderDao) RecentOrders(ctx context.Context, limit int) ([]*model.Order, error) {
	var orders []*model.Order
	err := d.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&orders).Error
	return orders, err
}
