package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/munyanyaguo/Hisi-Studio/config"
	"github.com/munyanyaguo/Hisi-Studio/internal/dao"
	"github.com/munyanyaguo/Hisi-Studio/internal/mailer"
	"github.com/munyanyaguo/Hisi-Studio/internal/model"
	"github.com/munyanyaguo/Hisi-Studio/pkg/e"
	"github.com/munyanyaguo/Hisi-Studio/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const orderNumberAttempts = 5

// allowedTransitions is the fulfilment state machine. Cancellation is
// handled separately because it restores stock.
var allowedTransitions = map[model.OrderStatus][]model.OrderStatus{
	model.OrderStatusPending:    {model.OrderStatusConfirmed},
	model.OrderStatusConfirmed:  {model.OrderStatusProcessing},
	model.OrderStatusProcessing: {model.OrderStatusShipped},
	model.OrderStatusShipped:    {model.OrderStatusDelivered},
}

type OrderService struct {
	db         *gorm.DB
	orderDao   *dao.OrderDao
	cartDao    *dao.CartDao
	productDao *dao.ProductDao
	userDao    *dao.UserDao
	addressDao *dao.AddressDao
	notifier   *Notifier
	mail       *mailer.Mailer
	shipping   config.ShippingConfig
}

func NewOrderService(
	db *gorm.DB,
	orderDao *dao.OrderDao,
	cartDao *dao.CartDao,
	productDao *dao.ProductDao,
	userDao *dao.UserDao,
	addressDao *dao.AddressDao,
	notifier *Notifier,
	mail *mailer.Mailer,
	shipping config.ShippingConfig,
) *OrderService {
	return &OrderService{
		db:         db,
		orderDao:   orderDao,
		cartDao:    cartDao,
		productDao: productDao,
		userDao:    userDao,
		addressDao: addressDao,
		notifier:   notifier,
		mail:       mail,
		shipping:   shipping,
	}
}

// AddressInput is an inline checkout address for users without a saved one.
type AddressInput struct {
	FullName      string `json:"full_name" binding:"required"`
	Phone         string `json:"phone" binding:"required"`
	AddressLine1  string `json:"address_line1" binding:"required"`
	AddressLine2  string `json:"address_line2"`
	City          string `json:"city" binding:"required"`
	StateProvince string `json:"state_province"`
	PostalCode    string `json:"postal_code"`
	Country       string `json:"country" binding:"required"`
}

func (a *AddressInput) snapshot() model.AddressSnapshot {
	return model.AddressSnapshot{
		FullName:      a.FullName,
		Phone:         a.Phone,
		AddressLine1:  a.AddressLine1,
		AddressLine2:  a.AddressLine2,
		City:          a.City,
		StateProvince: a.StateProvince,
		PostalCode:    a.PostalCode,
		Country:       a.Country,
	}
}

type CreateOrderRequest struct {
	ShippingAddressID     string        `json:"shipping_address_id"`
	ShippingAddress       *AddressInput `json:"shipping_address"`
	BillingAddressID      string        `json:"billing_address_id"`
	BillingAddress        *AddressInput `json:"billing_address"`
	BillingSameAsShipping bool          `json:"billing_same_as_shipping"`
	CustomerNotes         string        `json:"customer_notes"`
}

// CreateOrderFromCart converts the user's cart into an order inside one
// transaction. Stock is decremented with a conditional UPDATE per line;
// any line losing the race rolls the whole order back.
func (s *OrderService) CreateOrderFromCart(ctx context.Context, userID string, req *CreateOrderRequest) (*model.Order, error) {
	cart, err := s.cartDao.GetCartByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, e.Validation("cart is empty")
		}
		return nil, e.Internal(err)
	}
	if len(cart.Items) == 0 {
		return nil, e.Validation("cart is empty")
	}

	shipping, err := s.resolveAddress(ctx, userID, req.ShippingAddressID, req.ShippingAddress)
	if err != nil {
		return nil, err
	}
	var billing model.AddressSnapshot
	if req.BillingSameAsShipping || (req.BillingAddressID == "" && req.BillingAddress == nil) {
		billing = shipping
	} else {
		billing, err = s.resolveAddress(ctx, userID, req.BillingAddressID, req.BillingAddress)
		if err != nil {
			return nil, err
		}
	}

	orderNumber, err := s.generateOrderNumber(ctx)
	if err != nil {
		return nil, err
	}

	var order *model.Order
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txProductDao := s.productDao.WithTx(tx)
		txOrderDao := s.orderDao.WithTx(tx)
		txCartDao := s.cartDao.WithTx(tx)

		var subtotal float64
		items := make([]model.OrderItem, 0, len(cart.Items))
		for i := range cart.Items {
			line := &cart.Items[i]
			if line.Product == nil || !line.Product.IsActive {
				return e.Validation("a product in your cart is no longer available")
			}
			if err := txProductDao.DecrementStock(ctx, line.ProductID, line.Quantity); err != nil {
				if errors.Is(err, dao.ErrInsufficientStock) {
					return e.Conflict(fmt.Sprintf("insufficient stock for %s", line.Product.Name))
				}
				return err
			}
			lineSubtotal := line.Subtotal()
			subtotal += lineSubtotal
			items = append(items, model.OrderItem{
				ProductID:    line.ProductID,
				ProductName:  line.Product.Name,
				ProductSKU:   line.Product.SKU,
				ProductImage: line.Product.MainImage,
				UnitPrice:    line.PriceAtAddition,
				Quantity:     line.Quantity,
				Subtotal:     lineSubtotal,
			})
		}

		shippingCost, shippingMethod := s.shippingFor(shipping.Country)
		totals := computeTotals(subtotal, shippingCost)

		order = &model.Order{
			OrderNumber:     orderNumber,
			UserID:          userID,
			Status:          model.OrderStatusPending,
			PaymentStatus:   model.PaymentStatusPending,
			Subtotal:        totals.Subtotal,
			ShippingCost:    totals.Shipping,
			Tax:             totals.Tax,
			Discount:        totals.Discount,
			Total:           totals.Total,
			Currency:        "KES",
			ShippingAddress: datatypes.NewJSONType(shipping),
			BillingAddress:  datatypes.NewJSONType(billing),
			ShippingMethod:  shippingMethod,
			CustomerNotes:   req.CustomerNotes,
		}
		if err := txOrderDao.CreateOrder(ctx, order); err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID
			if err := txOrderDao.CreateOrderItem(ctx, &items[i]); err != nil {
				return err
			}
		}
		order.Items = items

		return txCartDao.ClearItems(ctx, cart.ID)
	})
	if txErr != nil {
		return nil, e.Wrap(txErr)
	}

	logger.Info("order created", "order_id", order.ID, "order_number", order.OrderNumber, "total", order.Total)
	s.notifier.NewOrder(ctx, order)
	return order, nil
}

// Totals is the checkout money breakdown. Tax and discount are carried as
// explicit zero lines until rates are introduced, so the total formula
// never changes shape.
type Totals struct {
	Subtotal float64
	Shipping float64
	Tax      float64
	Discount float64
	Total    float64
}

func computeTotals(subtotal, shippingCost float64) Totals {
	t := Totals{
		Subtotal: subtotal,
		Shipping: shippingCost,
		Tax:      0,
		Discount: 0,
	}
	t.Total = t.Subtotal + t.Shipping + t.Tax - t.Discount
	return t
}

// shippingFor picks the flat-rate tier by destination country.
func (s *OrderService) shippingFor(country string) (cost float64, method string) {
	c := strings.ToLower(strings.TrimSpace(country))
	for _, local := range s.shipping.LocalCountries {
		if c == strings.ToLower(local) {
			return s.shipping.LocalRate, "local"
		}
	}
	return s.shipping.InternationalRate, "international"
}

func (s *OrderService) resolveAddress(ctx context.Context, userID, addressID string, inline *AddressInput) (model.AddressSnapshot, error) {
	if addressID != "" {
		addr, err := s.addressDao.GetAddressOwned(ctx, addressID, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return model.AddressSnapshot{}, e.NotFound("address")
			}
			return model.AddressSnapshot{}, e.Internal(err)
		}
		return addr.Snapshot(), nil
	}
	if inline == nil {
		return model.AddressSnapshot{}, e.Validation("a shipping address is required")
	}
	return inline.snapshot(), nil
}

// generateOrderNumber produces HS-YYYYMMDD-XXXXXXXX and retries on the
// rare suffix collision.
func (s *OrderService) generateOrderNumber(ctx context.Context) (string, error) {
	for i := 0; i < orderNumberAttempts; i++ {
		suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
		candidate := fmt.Sprintf("HS-%s-%s", time.Now().Format("20060102"), suffix)
		exists, err := s.orderDao.OrderNumberExists(ctx, candidate)
		if err != nil {
			return "", e.Internal(err)
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", e.Internal(errors.New("could not generate a unique order number"))
}

// GetOrder loads one order scoped to its owner.
func (s *OrderService) GetOrder(ctx context.Context, orderID, userID string) (*model.Order, error) {
	order, err := s.orderDao.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, e.NotFound("order")
		}
		return nil, e.Internal(err)
	}
	if order.UserID != userID {
		return nil, e.Forbidden("this order belongs to another account")
	}
	return order, nil
}

// GetOrderAdmin loads one order without ownership scoping.
func (s *OrderService) GetOrderAdmin(ctx context.Context, orderID string) (*model.Order, error) {
	order, err := s.orderDao.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, e.NotFound("order")
		}
		return nil, e.Internal(err)
	}
	return order, nil
}

func (s *OrderService) ListUserOrders(ctx context.Context, userID string, status model.OrderStatus, page, pageSize int) ([]*model.Order, int64, error) {
	if status != "" && !status.Valid() {
		return nil, 0, e.Validation("unknown order status %q", status)
	}
	orders, total, err := s.orderDao.GetUserOrders(ctx, userID, status, page, pageSize)
	if err != nil {
		return nil, 0, e.Internal(err)
	}
	return orders, total, nil
}

func (s *OrderService) ListOrdersAdmin(ctx context.Context, status model.OrderStatus, paymentStatus model.PaymentStatus, search string, page, pageSize int) ([]*model.Order, int64, error) {
	orders, total, err := s.orderDao.ListOrders(ctx, status, paymentStatus, search, page, pageSize)
	if err != nil {
		return nil, 0, e.Internal(err)
	}
	return orders, total, nil
}

// CancelOrder is the customer-side cancellation. Allowed only while the
// order is pre-shipped; line stock is restored.
func (s *OrderService) CancelOrder(ctx context.Context, orderID, userID string) (*model.Order, error) {
	order, err := s.GetOrder(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}
	if err := s.cancel(ctx, order); err != nil {
		return nil, err
	}
	return s.orderDao.GetOrderByID(ctx, orderID)
}

// CancelOrderAdmin cancels on behalf of staff.
func (s *OrderService) CancelOrderAdmin(ctx context.Context, orderID string) (*model.Order, error) {
	order, err := s.GetOrderAdmin(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.cancel(ctx, order); err != nil {
		return nil, err
	}
	return s.orderDao.GetOrderByID(ctx, orderID)
}

func (s *OrderService) cancel(ctx context.Context, order *model.Order) error {
	if !order.Status.Cancellable() {
		return e.Conflict(fmt.Sprintf("order in status %q cannot be cancelled", order.Status))
	}

	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txOrderDao := s.orderDao.WithTx(tx)
		txProductDao := s.productDao.WithTx(tx)

		now := time.Now()
		extra := map[string]interface{}{"cancelled_at": now}
		if order.PaymentStatus == model.PaymentStatusPending {
			extra["payment_status"] = model.PaymentStatusCancelled
		}
		if err := txOrderDao.TransitionStatus(ctx, order.ID, order.Status, model.OrderStatusCancelled, extra); err != nil {
			return err
		}
		for i := range order.Items {
			item := &order.Items[i]
			if err := txProductDao.RestoreStock(ctx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		if errors.Is(txErr, dao.ErrOrderStatusChanged) {
			return e.Conflict("order status changed, refresh and try again")
		}
		return e.Wrap(txErr)
	}

	logger.Info("order cancelled", "order_id", order.ID, "order_number", order.OrderNumber)
	return nil
}

type UpdateStatusRequest struct {
	Status         model.OrderStatus `json:"status" binding:"required"`
	TrackingNumber string            `json:"tracking_number"`
	AdminNotes     string            `json:"admin_notes"`
}

// UpdateStatus advances the fulfilment state machine one step. The
// conditional UPDATE keeps two concurrent admins from double-advancing.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID string, req *UpdateStatusRequest) (*model.Order, error) {
	if !req.Status.Valid() {
		return nil, e.Validation("unknown order status %q", req.Status)
	}
	if req.Status == model.OrderStatusCancelled {
		return s.CancelOrderAdmin(ctx, orderID)
	}

	order, err := s.GetOrderAdmin(ctx, orderID)
	if err != nil {
		return nil, err
	}

	// Re-setting the current status is a no-op for the state machine:
	// notes and tracking may still be updated, timestamps never move.
	if req.Status == order.Status {
		updates := map[string]interface{}{}
		if req.AdminNotes != "" {
			updates["admin_notes"] = req.AdminNotes
		}
		if req.TrackingNumber != "" {
			updates["tracking_number"] = req.TrackingNumber
		}
		if len(updates) > 0 {
			if err := s.orderDao.UpdateOrder(ctx, orderID, updates); err != nil {
				return nil, e.Internal(err)
			}
		}
		return s.orderDao.GetOrderByID(ctx, orderID)
	}

	if !transitionAllowed(order.Status, req.Status) {
		return nil, e.Conflict(fmt.Sprintf("cannot move order from %q to %q", order.Status, req.Status))
	}

	now := time.Now()
	extra := map[string]interface{}{}
	if req.AdminNotes != "" {
		extra["admin_notes"] = req.AdminNotes
	}
	// Milestone timestamps are written once, on first entry to the state.
	switch req.Status {
	case model.OrderStatusConfirmed:
		if order.ConfirmedAt == nil {
			extra["confirmed_at"] = now
		}
	case model.OrderStatusShipped:
		if order.ShippedAt == nil {
			extra["shipped_at"] = now
		}
		if req.TrackingNumber != "" {
			extra["tracking_number"] = req.TrackingNumber
		}
	case model.OrderStatusDelivered:
		if order.DeliveredAt == nil {
			extra["delivered_at"] = now
		}
	}

	if err := s.orderDao.TransitionStatus(ctx, orderID, order.Status, req.Status, extra); err != nil {
		if errors.Is(err, dao.ErrOrderStatusChanged) {
			return nil, e.Conflict("order status changed, refresh and try again")
		}
		return nil, e.Internal(err)
	}

	s.notifyCustomer(ctx, order, req.Status, req.TrackingNumber)
	return s.orderDao.GetOrderByID(ctx, orderID)
}

func transitionAllowed(from, to model.OrderStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s *OrderService) notifyCustomer(ctx context.Context, order *model.Order, status model.OrderStatus, trackingNumber string) {
	user, err := s.userDao.GetUserByID(ctx, order.UserID)
	if err != nil {
		logger.Warn("cannot notify customer", "order_id", order.ID, "error", err)
		return
	}
	switch status {
	case model.OrderStatusConfirmed:
		subject, body := mailer.OrderConfirmation(order.OrderNumber, order.Total, order.Currency)
		s.mail.Send(user.Email, subject, body)
	case model.OrderStatusShipped:
		subject, body := mailer.ShippingNotice(order.OrderNumber, trackingNumber)
		s.mail.Send(user.Email, subject, body)
	}
}
