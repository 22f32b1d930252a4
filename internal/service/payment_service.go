package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/munyanyaguo/Hisi-Studio/internal/dao"
	"github.com/munyanyaguo/Hisi-Studio/internal/gateway"
	"github.com/munyanyaguo/Hisi-Studio/internal/model"
	"github.com/munyanyaguo/Hisi-Studio/pkg/e"
	"github.com/munyanyaguo/Hisi-Studio/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentService struct {
	db          *gorm.DB
	paymentDao  *dao.PaymentDao
	orderDao    *dao.OrderDao
	userDao     *dao.UserDao
	gateway     *gateway.FlutterwaveClient
	replayGuard ReplayGuard
	redirectURL string
}

func NewPaymentService(
	db *gorm.DB,
	paymentDao *dao.PaymentDao,
	orderDao *dao.OrderDao,
	userDao *dao.UserDao,
	fw *gateway.FlutterwaveClient,
	replayGuard ReplayGuard,
	redirectURL string,
) *PaymentService {
	return &PaymentService{
		db:          db,
		paymentDao:  paymentDao,
		orderDao:    orderDao,
		userDao:     userDao,
		gateway:     fw,
		replayGuard: replayGuard,
		redirectURL: redirectURL,
	}
}

type InitiatePaymentResponse struct {
	PaymentLink   string `json:"payment_link"`
	TransactionID string `json:"transaction_id"`
}

// InitiatePayment starts (or restarts) checkout for an order. Re-calling
// for an order with an open payment reuses its tx_ref, so the gateway
// sees one logical transaction per order.
func (s *PaymentService) InitiatePayment(ctx context.Context, orderID, userID string) (*InitiatePaymentResponse, error) {
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
	if order.PaymentStatus == model.PaymentStatusCompleted {
		return nil, e.Conflict("order is already paid")
	}
	if order.Status == model.OrderStatusCancelled {
		return nil, e.Conflict("order has been cancelled")
	}

	user, err := s.userDao.GetUserByID(ctx, userID)
	if err != nil {
		return nil, e.Internal(err)
	}

	payment, err := s.paymentDao.GetPaymentByOrderID(ctx, orderID)
	switch {
	case err == nil:
		if payment.Status == model.TxStatusSuccessful {
			return nil, e.Conflict("order is already paid")
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		payment = &model.Payment{
			OrderID:       orderID,
			TransactionID: fmt.Sprintf("HSPAY-%s", strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:16])),
			Amount:        order.Total,
			Currency:      order.Currency,
			Status:        model.TxStatusPending,
			CustomerEmail: user.Email,
			CustomerPhone: user.Phone,
			CustomerName:  user.FullName(),
		}
		if err := s.paymentDao.CreatePayment(ctx, payment); err != nil {
			return nil, e.Internal(err)
		}
	default:
		return nil, e.Internal(err)
	}

	resp, err := s.gateway.InitializePayment(ctx, &gateway.InitializeRequest{
		TxRef:       payment.TransactionID,
		Amount:      strconv.FormatFloat(payment.Amount, 'f', 2, 64),
		Currency:    payment.Currency,
		RedirectURL: s.redirectURL,
		Customer: gateway.Customer{
			Email:       payment.CustomerEmail,
			PhoneNumber: payment.CustomerPhone,
			Name:        payment.CustomerName,
		},
		Meta: map[string]string{"order_number": order.OrderNumber},
	})
	if err != nil {
		return nil, e.Wrap(err)
	}

	if payment.Status == model.TxStatusPending {
		if err := s.paymentDao.UpdatePayment(ctx, payment.ID, map[string]interface{}{
			"status": model.TxStatusProcessing,
		}); err != nil {
			logger.Warn("failed to mark payment processing", "payment_id", payment.ID, "error", err)
		}
	}

	return &InitiatePaymentResponse{
		PaymentLink:   resp.PaymentLink,
		TransactionID: payment.TransactionID,
	}, nil
}

// VerifyPayment re-asks the gateway for the authoritative transaction
// state and settles the local payment. Redirect query parameters are
// never trusted; this call is the only path that marks a payment paid.
func (s *PaymentService) VerifyPayment(ctx context.Context, txRef string) (*model.Payment, error) {
	payment, err := s.paymentDao.GetPaymentByTransactionID(ctx, txRef)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, e.NotFound("payment")
		}
		return nil, e.Internal(err)
	}
	if payment.Status == model.TxStatusSuccessful {
		return payment, nil
	}

	tx, err := s.gateway.VerifyByReference(ctx, txRef)
	if err != nil {
		return nil, e.Wrap(err)
	}

	if err := s.settle(ctx, payment, tx); err != nil {
		return nil, err
	}
	return s.paymentDao.GetPaymentByID(ctx, payment.ID)
}

// settle applies a verified gateway transaction to the local rows.
// Success requires matching tx_ref and currency and a charged amount of
// at least the expected amount.
func (s *PaymentService) settle(ctx context.Context, payment *model.Payment, tx *gateway.Transaction) error {
	if tx.TxRef != payment.TransactionID {
		return e.Validation("transaction reference mismatch")
	}

	success := tx.Status == gateway.GatewayStatusSuccessful &&
		strings.EqualFold(tx.Currency, payment.Currency) &&
		tx.Amount >= payment.Amount

	if !success {
		reason := "payment was not successful"
		if tx.Status == gateway.GatewayStatusSuccessful {
			reason = fmt.Sprintf("amount/currency mismatch: got %s %.2f, expected %s %.2f",
				tx.Currency, tx.Amount, payment.Currency, payment.Amount)
		}
		if tx.Status == gateway.GatewayStatusPending {
			// Still in flight at the gateway; keep ours open too.
			return nil
		}
		if err := s.paymentDao.UpdatePayment(ctx, payment.ID, map[string]interface{}{
			"status":                 model.TxStatusFailed,
			"gateway_transaction_id": strconv.FormatInt(tx.ID, 10),
			"failure_reason":         reason,
		}); err != nil {
			return e.Internal(err)
		}
		if err := s.orderDao.UpdateOrder(ctx, payment.OrderID, map[string]interface{}{
			"payment_status": model.PaymentStatusFailed,
		}); err != nil {
			return e.Internal(err)
		}
		logger.Warn("payment failed", "tx_ref", payment.TransactionID, "reason", reason)
		return nil
	}

	now := time.Now()
	txErr := s.db.WithContext(ctx).Transaction(func(dbTx *gorm.DB) error {
		txPaymentDao := s.paymentDao.WithTx(dbTx)
		txOrderDao := s.orderDao.WithTx(dbTx)

		if err := txPaymentDao.UpdatePayment(ctx, payment.ID, map[string]interface{}{
			"status":                 model.TxStatusSuccessful,
			"gateway_transaction_id": strconv.FormatInt(tx.ID, 10),
			"payment_method":         tx.PaymentType,
			"completed_at":           now,
		}); err != nil {
			return err
		}
		if err := txOrderDao.UpdateOrder(ctx, payment.OrderID, map[string]interface{}{
			"payment_status":    model.PaymentStatusCompleted,
			"payment_method":    tx.PaymentType,
			"payment_reference": payment.TransactionID,
		}); err != nil {
			return err
		}
		// Confirm the order on first successful payment. A replayed
		// settlement finds the order past pending and skips.
		err := txOrderDao.TransitionStatus(ctx, payment.OrderID, model.OrderStatusPending, model.OrderStatusConfirmed, map[string]interface{}{
			"confirmed_at": now,
		})
		if err != nil && !errors.Is(err, dao.ErrOrderStatusChanged) {
			return err
		}
		return nil
	})
	if txErr != nil {
		return e.Internal(txErr)
	}

	logger.Info("payment settled", "tx_ref", payment.TransactionID, "amount", payment.Amount)
	return nil
}

// WebhookEvent is the subset of the Flutterwave charge webhook we use.
type WebhookEvent struct {
	Event string `json:"event"`
	Data  struct {
		ID     int64   `json:"id"`
		TxRef  string  `json:"tx_ref"`
		Status string  `json:"status"`
		Amount float64 `json:"amount"`
	} `json:"data"`
}

var ErrWebhookUnauthorized = errors.New("webhook signature mismatch")

// HandleWebhook processes a signed gateway callback. After the signature
// check passes, every outcome acknowledges: the gateway retries on
// non-2xx and the settlement is idempotent anyway.
func (s *PaymentService) HandleWebhook(ctx context.Context, signature string, event *WebhookEvent) error {
	if !s.gateway.VerifyWebhookSignature(signature) {
		return ErrWebhookUnauthorized
	}
	if event.Data.TxRef == "" {
		logger.Warn("webhook without tx_ref ignored", "event", event.Event)
		return nil
	}

	eventID := fmt.Sprintf("%s:%s", event.Data.TxRef, event.Data.Status)
	first, err := s.replayGuard.First(ctx, eventID)
	if err != nil {
		logger.Warn("replay guard unavailable, processing anyway", "error", err)
	} else if !first {
		logger.Info("duplicate webhook suppressed", "tx_ref", event.Data.TxRef)
		return nil
	}

	payment, err := s.paymentDao.GetPaymentByTransactionID(ctx, event.Data.TxRef)
	if err != nil {
		logger.Warn("webhook for unknown payment", "tx_ref", event.Data.TxRef)
		return nil
	}
	if payment.Status == model.TxStatusSuccessful {
		return nil
	}

	// The webhook body is a hint; the verify API is the source of truth.
	tx, err := s.gateway.VerifyByReference(ctx, event.Data.TxRef)
	if err != nil {
		logger.Error("webhook verification failed", "tx_ref", event.Data.TxRef, "error", err)
		return nil
	}
	if err := s.settle(ctx, payment, tx); err != nil {
		logger.Error("webhook settlement failed", "tx_ref", event.Data.TxRef, "error", err)
	}
	return nil
}

// GetPaymentForOrder returns the payment scoped to the order's owner.
func (s *PaymentService) GetPaymentForOrder(ctx context.Context, orderID, userID string) (*model.Payment, error) {
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
	payment, err := s.paymentDao.GetPaymentByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, e.NotFound("payment")
		}
		return nil, e.Internal(err)
	}
	return payment, nil
}

// GetPayment is the staff lookup; no ownership scoping.
func (s *PaymentService) GetPayment(ctx context.Context, id string) (*model.Payment, error) {
	payment, err := s.paymentDao.GetPaymentByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, e.NotFound("payment")
		}
		return nil, e.Internal(err)
	}
	return payment, nil
}

// CancelPayment lets the order's owner abandon a payment that has not
// settled. The order itself stays open for a fresh attempt.
func (s *PaymentService) CancelPayment(ctx context.Context, paymentID, userID string) (*model.Payment, error) {
	payment, err := s.paymentDao.GetPaymentByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, e.NotFound("payment")
		}
		return nil, e.Internal(err)
	}
	order, err := s.orderDao.GetOrderByID(ctx, payment.OrderID)
	if err != nil {
		return nil, e.Internal(err)
	}
	if order.UserID != userID {
		return nil, e.Forbidden("this payment belongs to another account")
	}
	if payment.Status != model.TxStatusPending && payment.Status != model.TxStatusProcessing {
		return nil, e.Conflict("payment can no longer be cancelled")
	}

	if err := s.paymentDao.UpdatePayment(ctx, payment.ID, map[string]interface{}{
		"status": model.TxStatusCancelled,
	}); err != nil {
		return nil, e.Internal(err)
	}
	logger.Info("payment cancelled", "payment_id", payment.ID, "order_id", payment.OrderID)
	return s.paymentDao.GetPaymentByID(ctx, payment.ID)
}

// Refund reverses a successful payment at the gateway and marks the
// order refunded.
func (s *PaymentService) Refund(ctx context.Context, paymentID string, amount float64) (*model.Payment, error) {
	payment, err := s.paymentDao.GetPaymentByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, e.NotFound("payment")
		}
		return nil, e.Internal(err)
	}
	if payment.Status != model.TxStatusSuccessful {
		return nil, e.Conflict("only successful payments can be refunded")
	}
	if amount < 0 || amount > payment.Amount {
		return nil, e.Validation("refund amount must be between 0 and %.2f", payment.Amount)
	}

	gatewayTxID, err := strconv.ParseInt(payment.GatewayTransactionID, 10, 64)
	if err != nil {
		return nil, e.Internal(fmt.Errorf("payment %s has no gateway transaction id", payment.ID))
	}
	if err := s.gateway.Refund(ctx, gatewayTxID, amount); err != nil {
		return nil, e.Wrap(err)
	}

	txErr := s.db.WithContext(ctx).Transaction(func(dbTx *gorm.DB) error {
		txPaymentDao := s.paymentDao.WithTx(dbTx)
		txOrderDao := s.orderDao.WithTx(dbTx)

		if err := txPaymentDao.UpdatePayment(ctx, payment.ID, map[string]interface{}{
			"status": model.TxStatusRefunded,
		}); err != nil {
			return err
		}
		return txOrderDao.UpdateOrder(ctx, payment.OrderID, map[string]interface{}{
			"payment_status": model.PaymentStatusRefunded,
			"status":         model.OrderStatusRefunded,
		})
	})
	if txErr != nil {
		return nil, e.Internal(txErr)
	}

	logger.Info("payment refunded", "payment_id", payment.ID, "amount", amount)
	return s.paymentDao.GetPaymentByID(ctx, payment.ID)
}

func (s *PaymentService) ListPayments(ctx context.Context, status model.TxStatus, page, pageSize int) ([]*model.Payment, int64, error) {
	payments, total, err := s.paymentDao.ListPayments(ctx, status, page, pageSize)
	if err != nil {
		return nil, 0, e.Internal(err)
	}
	return payments, total, nil
}

func (s *PaymentService) Stats(ctx context.Context, since *time.Time) (*dao.PaymentStats, error) {
	stats, err := s.paymentDao.Stats(ctx, since)
	if err != nil {
		return nil, e.Internal(err)
	}
	return stats, nil
}
