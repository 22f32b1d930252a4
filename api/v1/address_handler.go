package v1

import (
	"github.com/munyanyaguo/Hisi-Studio/api/middleware"
	"github.com/munyanyaguo/Hisi-Studio/internal/service"

	"github.com/gin-gonic/gin"
)

type AddressHandler struct {
	addressService *service.AddressService
}

func NewAddressHandler(addressService *service.AddressService) *AddressHandler {
	return &AddressHandler{addressService: addressService}
}

func (h *AddressHandler) ListAddresses(c *gin.Context) {
	addrs, err := h.addressService.ListAddresses(c.Request.Context(), c.GetString(middleware.CtxUserID))
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, "addresses", addrs)
}

func (h *AddressHandler) CreateAddress(c *gin.Context) {
	var req service.AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "full_name, phone, address_line1 and city are required")
		return
	}
	addr, err := h.addressService.CreateAddress(c.Request.Context(), c.GetString(middleware.CtxUserID), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, "address saved", addr)
}

func (h *AddressHandler) UpdateAddress(c *gin.Context) {
	var req service.AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "full_name, phone, address_line1 and city are required")
		return
	}
	addr, err := h.addressService.UpdateAddress(c.Request.Context(), c.Param("id"), c.GetString(middleware.CtxUserID), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, "address updated", addr)
}

func (h *AddressHandler) DeleteAddress(c *gin.Context) {
	if err := h.addressService.DeleteAddress(c.Request.Context(), c.Param("id"), c.GetString(middleware.CtxUserID)); err != nil {
		Fail(c, err)
		return
	}
	OK(c, "address deleted", nil)
}

func (h *AddressHandler) SetDefault(c *gin.Context) {
	addr, err := h.addressService.SetDefault(c.Request.Context(), c.Param("id"), c.GetString(middleware.CtxUserID))
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, "default address set", addr)
}

func (h *AddressHandler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	addresses := rg.Group("/addresses", authMW)
	{
		addresses.GET("", h.ListAddresses)
		addresses.POST("", h.CreateAddress)
		addresses.PUT("/:id", h.UpdateAddress)
		addresses.DELETE("/:id", h.DeleteAddress)
		addresses.PUT("/:id/default", h.SetDefault)
	}
}
