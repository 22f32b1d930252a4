package v1

import (
	"github.com/munyanyaguo/Hisi-Studio/api/middleware"
	"github.com/munyanyaguo/Hisi-Studio/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CartHandler serves both authenticated and guest carts. Guests identify
// themselves with the X-Session-ID header; an authenticated token wins
// when both are present.
type CartHandler struct {
	cartService *service.CartService
}

func NewCartHandler(cartService *service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

func cartOwner(c *gin.Context) (service.CartOwner, bool) {
	if userID := c.GetString(middleware.CtxUserID); userID != "" {
		return service.CartOwner{UserID: userID}, true
	}
	if sessionID := c.GetHeader(SessionHeader); sessionID != "" {
		return service.CartOwner{SessionID: sessionID}, true
	}
	return service.CartOwner{}, false
}

// requireOwner resolves the cart owner, minting a guest session id when
// the caller has neither a token nor a session header. The session id is
// echoed back so the client can persist it.
func (h *CartHandler) requireOwner(c *gin.Context) service.CartOwner {
	owner, ok := cartOwner(c)
	if !ok {
		owner = service.CartOwner{SessionID: uuid.NewString()}
	}
	if owner.SessionID != "" {
		c.Header(SessionHeader, owner.SessionID)
	}
	return owner
}

func (h *CartHandler) GetCart(c *gin.Context) {
	owner := h.requireOwner(c)
	cart, err := h.cartService.GetCart(c.Request.Context(), owner)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, "cart", cart)
}

func (h *CartHandler) AddItem(c *gin.Context) {
	owner := h.requireOwner(c)
	var req service.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "product_id is required")
		return
	}
	cart, err := h.cartService.AddItem(c.Request.Context(), owner, &req)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, "item added", cart)
}

func (h *CartHandler) UpdateItem(c *gin.Context) {
	owner := h.requireOwner(c)
	var req service.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "quantity is required")
		return
	}
	cart, err := h.cartService.UpdateItem(c.Request.Context(), owner, c.Param("item_id"), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, "cart updated", cart)
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	owner := h.requireOwner(c)
	cart, err := h.cartService.RemoveItem(c.Request.Context(), owner, c.Param("item_id"))
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, "item removed", cart)
}

func (h *CartHandler) ClearCart(c *gin.Context) {
	owner := h.requireOwner(c)
	cart, err := h.cartService.ClearCart(c.Request.Context(), owner)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, "cart cleared", cart)
}

func (h *CartHandler) ValidateCart(c *gin.Context) {
	owner := h.requireOwner(c)
	violations, err := h.cartService.ValidateStock(c.Request.Context(), owner)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, "cart validated", gin.H{
		"valid":      len(violations) == 0,
		"violations": violations,
	})
}

// RegisterRoutes mounts the cart under optional auth so guests pass.
func (h *CartHandler) RegisterRoutes(rg *gin.RouterGroup, optionalAuthMW gin.HandlerFunc) {
	cart := rg.Group("/cart", optionalAuthMW)
	{
		cart.GET("", h.GetCart)
		cart.GET("/validate", h.ValidateCart)
		cart.POST("/items", h.AddItem)
		cart.PUT("/items/:item_id", h.UpdateItem)
		cart.DELETE("/items/:item_id", h.RemoveItem)
		cart.DELETE("", h.ClearCart)
	}
}
