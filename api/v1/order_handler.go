package v1

import (
	"github.com/munyanyaguo/Hisi-Studio/api/middleware"
	"github.com/munyanyaguo/Hisi-Studio/internal/model"
	"github.com/munyanyaguo/Hisi-Studio/internal/service"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orderService *service.OrderService
}

func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// CreateOrder converts the caller's cart into an order.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req service.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "a shipping address is required")
		return
	}
	order, err := h.orderService.CreateOrderFromCart(c.Request.Context(), c.GetString(middleware.CtxUserID), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, "order placed", order)
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	page, perPage := PageParams(c)
	status := model.OrderStatus(c.Query("status"))
	orders, total, err := h.orderService.ListUserOrders(c.Request.Context(), c.GetString(middleware.CtxUserID), status, page, perPage)
	if err != nil {
		Fail(c, err)
		return
	}
	List(c, "orders", orders, NewPagination(page, perPage, total))
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.orderService.GetOrder(c.Request.Context(), c.Param("id"), c.GetString(middleware.CtxUserID))
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, "order", order)
}

func (h *OrderHandler) CancelOrder(c *gin.Context) {
	order, err := h.orderService.CancelOrder(c.Request.Context(), c.Param("id"), c.GetString(middleware.CtxUserID))
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, "order cancelled", order)
}

// ---- admin ----

func (h *OrderHandler) AdminListOrders(c *gin.Context) {
	page, perPage := PageParams(c)
	orders, total, err := h.orderService.ListOrdersAdmin(
		c.Request.Context(),
		model.OrderStatus(c.Query("status")),
		model.PaymentStatus(c.Query("payment_status")),
		c.Query("search"),
		page, perPage,
	)
	if err != nil {
		Fail(c, err)
		return
	}
	List(c, "orders", orders, NewPagination(page, perPage, total))
}

func (h *OrderHandler) AdminGetOrder(c *gin.Context) {
	order, err := h.orderService.GetOrderAdmin(c.Request.Context(), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, "order", order)
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req service.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "status is required")
		return
	}
	order, err := h.orderService.UpdateStatus(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, "order status updated", order)
}

func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup, authMW, checkoutLimitMW gin.HandlerFunc) {
	orders := rg.Group("/orders", authMW)
	{
		orders.POST("", checkoutLimitMW, h.CreateOrder)
		orders.GET("", h.ListOrders)
		orders.GET("/:id", h.GetOrder)
		orders.POST("/:id/cancel", h.CancelOrder)
	}
}

func (h *OrderHandler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	{
		orders.GET("", h.AdminListOrders)
		orders.GET("/:id", h.AdminGetOrder)
		orders.PUT("/:id/status", h.UpdateStatus)
	}
}
