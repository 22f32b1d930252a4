package v1

import (
	"net/http"
	"strconv"
	"time"

	"github.com/munyanyaguo/Hisi-Studio/api/middleware"
	"github.com/munyanyaguo/Hisi-Studio/internal/model"
	"github.com/munyanyaguo/Hisi-Studio/internal/service"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	paymentService *service.PaymentService
}

func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

type initiateRequest struct {
	OrderID string `json:"order_id" binding:"required"`
}

func (h *PaymentHandler) InitiatePayment(c *gin.Context) {
	var req initiateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "order_id is required")
		return
	}
	resp, err := h.paymentService.InitiatePayment(c.Request.Context(), req.OrderID, c.GetString(middleware.CtxUserID))
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, "payment initiated", resp)
}

// VerifyPayment is called by the frontend after the gateway redirect.
// Only the tx_ref is taken from the redirect; everything else comes from
// the gateway's verify API.
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	txRef := c.Query("tx_ref")
	if txRef == "" {
		BadRequest(c, "tx_ref is required")
		return
	}
	payment, err := h.paymentService.VerifyPayment(c.Request.Context(), txRef)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, "payment verified", payment)
}

func (h *PaymentHandler) GetOrderPayment(c *gin.Context) {
	payment, err := h.paymentService.GetPaymentForOrder(c.Request.Context(), c.Param("order_id"), c.GetString(middleware.CtxUserID))
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, "payment", payment)
}

// Webhook receives Flutterwave callbacks. Only a signature failure
// returns non-2xx; all other outcomes acknowledge so the gateway stops
// retrying.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	var event service.WebhookEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		OK(c, "ignored", nil)
		return
	}

	err := h.paymentService.HandleWebhook(c.Request.Context(), c.GetHeader("verif-hash"), &event)
	if err == service.ErrWebhookUnauthorized {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
		return
	}
	OK(c, "received", nil)
}

func (h *PaymentHandler) CancelPayment(c *gin.Context) {
	payment, err := h.paymentService.CancelPayment(c.Request.Context(), c.Param("id"), c.GetString(middleware.CtxUserID))
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, "payment cancelled", payment)
}

// ---- admin ----

func (h *PaymentHandler) AdminGetPayment(c *gin.Context) {
	payment, err := h.paymentService.GetPayment(c.Request.Context(), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, "payment", payment)
}

func (h *PaymentHandler) AdminListPayments(c *gin.Context) {
	page, perPage := PageParams(c)
	payments, total, err := h.paymentService.ListPayments(c.Request.Context(), model.TxStatus(c.Query("status")), page, perPage)
	if err != nil {
		Fail(c, err)
		return
	}
	List(c, "payments", payments, NewPagination(page, perPage, total))
}

func (h *PaymentHandler) AdminPaymentStats(c *gin.Context) {
	var since *time.Time
	if days, err := strconv.Atoi(c.Query("days")); err == nil && days > 0 {
		t := time.Now().AddDate(0, 0, -days)
		since = &t
	}
	stats, err := h.paymentService.Stats(c.Request.Context(), since)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, "payment stats", stats)
}

type refundRequest struct {
	Amount float64 `json:"amount"`
}

func (h *PaymentHandler) Refund(c *gin.Context) {
	var req refundRequest
	_ = c.ShouldBindJSON(&req)
	payment, err := h.paymentService.Refund(c.Request.Context(), c.Param("id"), req.Amount)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, "payment refunded", payment)
}

func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup, authMW, checkoutLimitMW gin.HandlerFunc) {
	payments := rg.Group("/payments")
	{
		payments.POST("/initiate", authMW, checkoutLimitMW, h.InitiatePayment)
		payments.GET("/verify", h.VerifyPayment)
		payments.GET("/order/:order_id", authMW, h.GetOrderPayment)
		payments.POST("/:id/cancel", authMW, h.CancelPayment)
		payments.POST("/webhook", h.Webhook)
	}
}

func (h *PaymentHandler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	payments := rg.Group("/payments")
	{
		payments.GET("", h.AdminListPayments)
		payments.GET("/stats", h.AdminPaymentStats)
		payments.GET("/:id", h.AdminGetPayment)
		payments.POST("/:id/refund", h.Refund)
	}
}
