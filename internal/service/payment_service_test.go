package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/munyanyaguo/Hisi-Studio/config"
	"github.com/munyanyaguo/Hisi-Studio/internal/dao"
	"github.com/munyanyaguo/Hisi-Studio/internal/gateway"
	"github.com/munyanyaguo/Hisi-Studio/internal/model"
	"github.com/munyanyaguo/Hisi-Studio/pkg/e"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeGateway scripts Flutterwave responses for one test.
type fakeGateway struct {
	verifyTx    map[string]interface{}
	initCalls   int
	verifyCalls int
	refundCalls int
}

func (f *fakeGateway) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/payments", func(w http.ResponseWriter, r *http.Request) {
		f.initCalls++
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "success",
			"data":   map[string]string{"link": "https://checkout.example/pay"},
		})
	})
	mux.HandleFunc("/transactions/verify_by_reference", func(w http.ResponseWriter, r *http.Request) {
		f.verifyCalls++
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "success",
			"data":   f.verifyTx,
		})
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/refund") {
			f.refundCalls++
			json.NewEncoder(w).Encode(map[string]interface{}{"status": "success"})
			return
		}
		http.NotFound(w, r)
	})
	return mux
}

func newPaymentService(t *testing.T, fake *fakeGateway) (*PaymentService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	server := httptest.NewServer(fake.handler())
	t.Cleanup(server.Close)

	fw := gateway.NewFlutterwaveClient(config.FlutterwaveConfig{
		BaseURL:        server.URL,
		SecretKey:      "sk_test",
		SecretHash:     "hash-secret",
		TimeoutSeconds: 5,
	})
	svc := NewPaymentService(db, dao.NewPaymentDao(db), dao.NewOrderDao(db), dao.NewUserDao(db), fw, NewNoopReplayGuard(), "http://localhost/callback")
	return svc, db
}

func createTestOrder(t *testing.T, db *gorm.DB, userID string, total float64) *model.Order {
	t.Helper()
	seq++
	order := &model.Order{
		OrderNumber:   fmt.Sprintf("HS-20260101-TEST%04d", seq),
		UserID:        userID,
		Status:        model.OrderStatusPending,
		PaymentStatus: model.PaymentStatusPending,
		Subtotal:      total,
		Total:         total,
		Currency:      "KES",
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

func TestInitiatePaymentIdempotentTxRef(t *testing.T) {
	fake := &fakeGateway{}
	svc, db := newPaymentService(t, fake)
	ctx := context.Background()

	user := createTestUser(t, db, model.RoleCustomer)
	order := createTestOrder(t, db, user.ID, 1700)

	first, err := svc.InitiatePayment(ctx, order.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.example/pay", first.PaymentLink)
	assert.True(t, strings.HasPrefix(first.TransactionID, "HSPAY-"))

	// Re-initiating reuses the same tx_ref instead of minting a second
	// gateway transaction for the order.
	second, err := svc.InitiatePayment(ctx, order.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, first.TransactionID, second.TransactionID)
	assert.Equal(t, 2, fake.initCalls)

	var count int64
	require.NoError(t, db.Model(&model.Payment{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestInitiatePaymentRejectsForeignOrder(t *testing.T) {
	fake := &fakeGateway{}
	svc, db := newPaymentService(t, fake)

	owner := createTestUser(t, db, model.RoleCustomer)
	intruder := createTestUser(t, db, model.RoleCustomer)
	order := createTestOrder(t, db, owner.ID, 1000)

	_, err := svc.InitiatePayment(context.Background(), order.ID, intruder.ID)
	assert.True(t, e.IsKind(err, e.KindForbidden))

	_, err = svc.GetPaymentForOrder(context.Background(), order.ID, intruder.ID)
	assert.True(t, e.IsKind(err, e.KindForbidden))
}

func TestVerifyPaymentSuccessConfirmsOrder(t *testing.T) {
	fake := &fakeGateway{}
	svc, db := newPaymentService(t, fake)
	ctx := context.Background()

	user := createTestUser(t, db, model.RoleCustomer)
	order := createTestOrder(t, db, user.ID, 1700)

	initiated, err := svc.InitiatePayment(ctx, order.ID, user.ID)
	require.NoError(t, err)

	fake.verifyTx = map[string]interface{}{
		"id":           int64(991),
		"tx_ref":       initiated.TransactionID,
		"amount":       1700.0,
		"currency":     "KES",
		"status":       "successful",
		"payment_type": "card",
	}

	payment, err := svc.VerifyPayment(ctx, initiated.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, model.TxStatusSuccessful, payment.Status)
	assert.Equal(t, "991", payment.GatewayTransactionID)
	assert.NotNil(t, payment.CompletedAt)

	var freshOrder model.Order
	require.NoError(t, db.First(&freshOrder, "id = ?", order.ID).Error)
	assert.Equal(t, model.PaymentStatusCompleted, freshOrder.PaymentStatus)
	assert.Equal(t, model.OrderStatusConfirmed, freshOrder.Status)
	assert.Equal(t, initiated.TransactionID, freshOrder.PaymentReference)

	// A repeat verify short-circuits without another gateway call.
	calls := fake.verifyCalls
	_, err = svc.VerifyPayment(ctx, initiated.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, calls, fake.verifyCalls)
}

func TestVerifyPaymentUnderpaymentFails(t *testing.T) {
	fake := &fakeGateway{}
	svc, db := newPaymentService(t, fake)
	ctx := context.Background()

	user := createTestUser(t, db, model.RoleCustomer)
	order := createTestOrder(t, db, user.ID, 1700)

	initiated, err := svc.InitiatePayment(ctx, order.ID, user.ID)
	require.NoError(t, err)

	// Gateway reports success but for less than the order total.
	fake.verifyTx = map[string]interface{}{
		"id":       int64(992),
		"tx_ref":   initiated.TransactionID,
		"amount":   500.0,
		"currency": "KES",
		"status":   "successful",
	}

	payment, err := svc.VerifyPayment(ctx, initiated.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, model.TxStatusFailed, payment.Status)
	assert.Contains(t, payment.FailureReason, "mismatch")

	var freshOrder model.Order
	require.NoError(t, db.First(&freshOrder, "id = ?", order.ID).Error)
	assert.Equal(t, model.PaymentStatusFailed, freshOrder.PaymentStatus)
	assert.Equal(t, model.OrderStatusPending, freshOrder.Status)
}

func TestVerifyPaymentGatewayPendingKeepsOpen(t *testing.T) {
	fake := &fakeGateway{}
	svc, db := newPaymentService(t, fake)
	ctx := context.Background()

	user := createTestUser(t, db, model.RoleCustomer)
	order := createTestOrder(t, db, user.ID, 1700)

	initiated, err := svc.InitiatePayment(ctx, order.ID, user.ID)
	require.NoError(t, err)

	fake.verifyTx = map[string]interface{}{
		"id":       int64(993),
		"tx_ref":   initiated.TransactionID,
		"amount":   1700.0,
		"currency": "KES",
		"status":   "pending",
	}

	payment, err := svc.VerifyPayment(ctx, initiated.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, model.TxStatusProcessing, payment.Status)
}

func TestHandleWebhookSignature(t *testing.T) {
	fake := &fakeGateway{}
	svc, _ := newPaymentService(t, fake)
	ctx := context.Background()

	event := &WebhookEvent{}
	event.Data.TxRef = "HSPAY-UNKNOWN"

	err := svc.HandleWebhook(ctx, "wrong-hash", event)
	assert.ErrorIs(t, err, ErrWebhookUnauthorized)

	err = svc.HandleWebhook(ctx, "", event)
	assert.ErrorIs(t, err, ErrWebhookUnauthorized)

	// Valid signature with an unknown tx_ref acknowledges quietly.
	assert.NoError(t, svc.HandleWebhook(ctx, "hash-secret", event))
}

func TestHandleWebhookSettles(t *testing.T) {
	fake := &fakeGateway{}
	svc, db := newPaymentService(t, fake)
	ctx := context.Background()

	user := createTestUser(t, db, model.RoleCustomer)
	order := createTestOrder(t, db, user.ID, 1700)

	initiated, err := svc.InitiatePayment(ctx, order.ID, user.ID)
	require.NoError(t, err)

	fake.verifyTx = map[string]interface{}{
		"id":           int64(994),
		"tx_ref":       initiated.TransactionID,
		"amount":       1700.0,
		"currency":     "KES",
		"status":       "successful",
		"payment_type": "mpesa",
	}

	event := &WebhookEvent{Event: "charge.completed"}
	event.Data.TxRef = initiated.TransactionID
	event.Data.Status = "successful"

	require.NoError(t, svc.HandleWebhook(ctx, "hash-secret", event))

	payment, err := svc.GetPaymentForOrder(ctx, order.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TxStatusSuccessful, payment.Status)
	assert.Equal(t, "mpesa", payment.PaymentMethod)

	// Replaying the same webhook is harmless.
	require.NoError(t, svc.HandleWebhook(ctx, "hash-secret", event))
}

func TestRefund(t *testing.T) {
	fake := &fakeGateway{}
	svc, db := newPaymentService(t, fake)
	ctx := context.Background()

	user := createTestUser(t, db, model.RoleCustomer)
	order := createTestOrder(t, db, user.ID, 1700)

	initiated, err := svc.InitiatePayment(ctx, order.ID, user.ID)
	require.NoError(t, err)

	fake.verifyTx = map[string]interface{}{
		"id":       int64(995),
		"tx_ref":   initiated.TransactionID,
		"amount":   1700.0,
		"currency": "KES",
		"status":   "successful",
	}
	settled, err := svc.VerifyPayment(ctx, initiated.TransactionID)
	require.NoError(t, err)

	refunded, err := svc.Refund(ctx, settled.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, model.TxStatusRefunded, refunded.Status)
	assert.Equal(t, 1, fake.refundCalls)

	var freshOrder model.Order
	require.NoError(t, db.First(&freshOrder, "id = ?", order.ID).Error)
	assert.Equal(t, model.PaymentStatusRefunded, freshOrder.PaymentStatus)
	assert.Equal(t, model.OrderStatusRefunded, freshOrder.Status)

	// Refunding twice conflicts.
	_, err = svc.Refund(ctx, settled.ID, 0)
	assert.True(t, e.IsKind(err, e.KindConflict))
}

func TestRefundRejectsExcessAmount(t *testing.T) {
	fake := &fakeGateway{}
	svc, db := newPaymentService(t, fake)
	ctx := context.Background()

	user := createTestUser(t, db, model.RoleCustomer)
	order := createTestOrder(t, db, user.ID, 1000)

	initiated, err := svc.InitiatePayment(ctx, order.ID, user.ID)
	require.NoError(t, err)
	fake.verifyTx = map[string]interface{}{
		"id":       int64(996),
		"tx_ref":   initiated.TransactionID,
		"amount":   1000.0,
		"currency": "KES",
		"status":   "successful",
	}
	settled, err := svc.VerifyPayment(ctx, initiated.TransactionID)
	require.NoError(t, err)

	_, err = svc.Refund(ctx, settled.ID, 5000)
	assert.True(t, e.IsKind(err, e.KindValidation))
}

func TestCancelPayment(t *testing.T) {
	fake := &fakeGateway{}
	svc, db := newPaymentService(t, fake)
	ctx := context.Background()

	user := createTestUser(t, db, model.RoleCustomer)
	intruder := createTestUser(t, db, model.RoleCustomer)
	order := createTestOrder(t, db, user.ID, 1700)

	_, err := svc.InitiatePayment(ctx, order.ID, user.ID)
	require.NoError(t, err)
	pending, err := svc.GetPaymentForOrder(ctx, order.ID, user.ID)
	require.NoError(t, err)

	_, err = svc.CancelPayment(ctx, pending.ID, intruder.ID)
	assert.True(t, e.IsKind(err, e.KindForbidden))

	cancelled, err := svc.CancelPayment(ctx, pending.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TxStatusCancelled, cancelled.Status)

	// A settled payment cannot be cancelled.
	order2 := createTestOrder(t, db, user.ID, 1000)
	initiated2, err := svc.InitiatePayment(ctx, order2.ID, user.ID)
	require.NoError(t, err)
	fake.verifyTx = map[string]interface{}{
		"id":       int64(997),
		"tx_ref":   initiated2.TransactionID,
		"amount":   1000.0,
		"currency": "KES",
		"status":   "successful",
	}
	settled, err := svc.VerifyPayment(ctx, initiated2.TransactionID)
	require.NoError(t, err)
	_, err = svc.CancelPayment(ctx, settled.ID, user.ID)
	assert.True(t, e.IsKind(err, e.KindConflict))
}
