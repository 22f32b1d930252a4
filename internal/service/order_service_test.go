package service

import (
	"context"
	"strings"
	"testing"

	"github.com/munyanyaguo/Hisi-Studio/config"
	"github.com/munyanyaguo/Hisi-Studio/internal/dao"
	"github.com/munyanyaguo/Hisi-Studio/internal/mailer"
	"github.com/munyanyaguo/Hisi-Studio/internal/model"
	"github.com/munyanyaguo/Hisi-Studio/pkg/e"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testShipping = config.ShippingConfig{
	LocalRate:         1500,
	InternationalRate: 5000,
	LocalCountries:    []string{"kenya", "nigeria"},
}

func newOrderService(t *testing.T) (*OrderService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	svc := NewOrderService(
		db,
		dao.NewOrderDao(db),
		dao.NewCartDao(db),
		dao.NewProductDao(db),
		dao.NewUserDao(db),
		dao.NewAddressDao(db),
		newTestNotifier(db),
		mailer.NewMailer(config.SMTPConfig{}),
		testShipping,
	)
	return svc, db
}

func fillCart(t *testing.T, db *gorm.DB, userID string, product *model.Product, qty int) {
	t.Helper()
	cartSvc := NewCartService(db, dao.NewCartDao(db), dao.NewProductDao(db))
	_, err := cartSvc.AddItem(context.Background(), CartOwner{UserID: userID}, &AddItemRequest{ProductID: product.ID, Quantity: qty})
	require.NoError(t, err)
}

var kenyaAddress = &AddressInput{
	FullName:     "Wanjiku Kamau",
	Phone:        "+254700000000",
	AddressLine1: "Moi Avenue 12",
	City:         "Nairobi",
	Country:      "Kenya",
}

func TestComputeTotals(t *testing.T) {
	totals := computeTotals(1000, 1500)
	assert.Equal(t, 1000.0, totals.Subtotal)
	assert.Equal(t, 1500.0, totals.Shipping)
	assert.Zero(t, totals.Tax)
	assert.Zero(t, totals.Discount)
	assert.Equal(t, 2500.0, totals.Total)
}

func TestShippingFor(t *testing.T) {
	svc, _ := newOrderService(t)

	cost, method := svc.shippingFor("Kenya")
	assert.Equal(t, 1500.0, cost)
	assert.Equal(t, "local", method)

	cost, method = svc.shippingFor("  NIGERIA ")
	assert.Equal(t, 1500.0, cost)
	assert.Equal(t, "local", method)

	cost, method = svc.shippingFor("Germany")
	assert.Equal(t, 5000.0, cost)
	assert.Equal(t, "international", method)
}

func TestCreateOrderFromCart(t *testing.T) {
	svc, db := newOrderService(t)
	ctx := context.Background()

	user := createTestUser(t, db, model.RoleCustomer)
	product := createTestProduct(t, db, 100, 5)
	fillCart(t, db, user.ID, product, 2)

	order, err := svc.CreateOrderFromCart(ctx, user.ID, &CreateOrderRequest{ShippingAddress: kenyaAddress})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(order.OrderNumber, "HS-"))
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Equal(t, model.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, 200.0, order.Subtotal)
	assert.Equal(t, 1500.0, order.ShippingCost)
	assert.Equal(t, 1700.0, order.Total)
	assert.Equal(t, "local", order.ShippingMethod)
	require.Len(t, order.Items, 1)
	assert.Equal(t, product.Name, order.Items[0].ProductName)
	assert.Equal(t, 100.0, order.Items[0].UnitPrice)

	// Stock was decremented and the cart emptied.
	var fresh model.Product
	require.NoError(t, db.First(&fresh, "id = ?", product.ID).Error)
	assert.Equal(t, 3, fresh.StockQuantity)

	var itemCount int64
	require.NoError(t, db.Model(&model.CartItem{}).Count(&itemCount).Error)
	assert.Zero(t, itemCount)
}

func TestCreateOrderInsufficientStockRollsBack(t *testing.T) {
	svc, db := newOrderService(t)
	ctx := context.Background()

	user := createTestUser(t, db, model.RoleCustomer)
	cheap := createTestProduct(t, db, 50, 10)
	scarce := createTestProduct(t, db, 100, 3)
	fillCart(t, db, user.ID, cheap, 2)
	fillCart(t, db, user.ID, scarce, 3)

	// Someone else takes the scarce stock between cart and checkout.
	require.NoError(t, db.Model(scarce).Update("stock_quantity", 1).Error)

	_, err := svc.CreateOrderFromCart(ctx, user.ID, &CreateOrderRequest{ShippingAddress: kenyaAddress})
	assert.True(t, e.IsKind(err, e.KindConflict))

	// The whole transaction rolled back: no order, cart intact, the other
	// line's stock untouched.
	var orderCount int64
	require.NoError(t, db.Model(&model.Order{}).Count(&orderCount).Error)
	assert.Zero(t, orderCount)

	var freshCheap model.Product
	require.NoError(t, db.First(&freshCheap, "id = ?", cheap.ID).Error)
	assert.Equal(t, 10, freshCheap.StockQuantity)

	var itemCount int64
	require.NoError(t, db.Model(&model.CartItem{}).Count(&itemCount).Error)
	assert.Equal(t, int64(2), itemCount)
}

func TestCreateOrderEmptyCart(t *testing.T) {
	svc, db := newOrderService(t)
	user := createTestUser(t, db, model.RoleCustomer)

	_, err := svc.CreateOrderFromCart(context.Background(), user.ID, &CreateOrderRequest{ShippingAddress: kenyaAddress})
	assert.True(t, e.IsKind(err, e.KindValidation))
}

func TestCancelOrderRestoresStock(t *testing.T) {
	svc, db := newOrderService(t)
	ctx := context.Background()

	user := createTestUser(t, db, model.RoleCustomer)
	product := createTestProduct(t, db, 100, 5)
	fillCart(t, db, user.ID, product, 2)

	order, err := svc.CreateOrderFromCart(ctx, user.ID, &CreateOrderRequest{ShippingAddress: kenyaAddress})
	require.NoError(t, err)

	cancelled, err := svc.CancelOrder(ctx, order.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCancelled, cancelled.Status)
	assert.Equal(t, model.PaymentStatusCancelled, cancelled.PaymentStatus)
	assert.NotNil(t, cancelled.CancelledAt)

	var fresh model.Product
	require.NoError(t, db.First(&fresh, "id = ?", product.ID).Error)
	assert.Equal(t, 5, fresh.StockQuantity)

	// A second cancel attempt conflicts.
	_, err = svc.CancelOrder(ctx, order.ID, user.ID)
	assert.True(t, e.IsKind(err, e.KindConflict))
}

func TestGetOrderScopedToOwner(t *testing.T) {
	svc, db := newOrderService(t)
	ctx := context.Background()

	owner := createTestUser(t, db, model.RoleCustomer)
	other := createTestUser(t, db, model.RoleCustomer)
	product := createTestProduct(t, db, 100, 5)
	fillCart(t, db, owner.ID, product, 1)

	order, err := svc.CreateOrderFromCart(ctx, owner.ID, &CreateOrderRequest{ShippingAddress: kenyaAddress})
	require.NoError(t, err)

	_, err = svc.GetOrder(ctx, order.ID, other.ID)
	assert.True(t, e.IsKind(err, e.KindForbidden))

	// A cancel attempt by a non-owner is rejected the same way.
	_, err = svc.CancelOrder(ctx, order.ID, other.ID)
	assert.True(t, e.IsKind(err, e.KindForbidden))
}

func TestUpdateStatusStateMachine(t *testing.T) {
	svc, db := newOrderService(t)
	ctx := context.Background()

	user := createTestUser(t, db, model.RoleCustomer)
	product := createTestProduct(t, db, 100, 5)
	fillCart(t, db, user.ID, product, 1)

	order, err := svc.CreateOrderFromCart(ctx, user.ID, &CreateOrderRequest{ShippingAddress: kenyaAddress})
	require.NoError(t, err)

	// Skipping a state is rejected.
	_, err = svc.UpdateStatus(ctx, order.ID, &UpdateStatusRequest{Status: model.OrderStatusShipped})
	assert.True(t, e.IsKind(err, e.KindConflict))

	updated, err := svc.UpdateStatus(ctx, order.ID, &UpdateStatusRequest{Status: model.OrderStatusConfirmed})
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusConfirmed, updated.Status)
	assert.NotNil(t, updated.ConfirmedAt)
	confirmedAt := *updated.ConfirmedAt

	// Re-setting the current status succeeds without moving the timestamp.
	updated, err = svc.UpdateStatus(ctx, order.ID, &UpdateStatusRequest{Status: model.OrderStatusConfirmed})
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusConfirmed, updated.Status)
	require.NotNil(t, updated.ConfirmedAt)
	assert.True(t, updated.ConfirmedAt.Equal(confirmedAt))

	updated, err = svc.UpdateStatus(ctx, order.ID, &UpdateStatusRequest{Status: model.OrderStatusProcessing})
	require.NoError(t, err)

	updated, err = svc.UpdateStatus(ctx, order.ID, &UpdateStatusRequest{Status: model.OrderStatusShipped, TrackingNumber: "TRK-42"})
	require.NoError(t, err)
	assert.Equal(t, "TRK-42", updated.TrackingNumber)
	assert.NotNil(t, updated.ShippedAt)

	// Shipped orders can no longer be cancelled.
	_, err = svc.UpdateStatus(ctx, order.ID, &UpdateStatusRequest{Status: model.OrderStatusCancelled})
	assert.True(t, e.IsKind(err, e.KindConflict))

	updated, err = svc.UpdateStatus(ctx, order.ID, &UpdateStatusRequest{Status: model.OrderStatusDelivered})
	require.NoError(t, err)
	assert.NotNil(t, updated.DeliveredAt)
}

func TestUpdateStatusUnknownStatus(t *testing.T) {
	svc, _ := newOrderService(t)
	_, err := svc.UpdateStatus(context.Background(), "any", &UpdateStatusRequest{Status: "teleported"})
	assert.True(t, e.IsKind(err, e.KindValidation))
}
