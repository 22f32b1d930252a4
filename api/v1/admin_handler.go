package v1

import (
	"strconv"

	"github.com/munyanyaguo/Hisi-Studio/api/middleware"
	"github.com/munyanyaguo/Hisi-Studio/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminHandler covers the console surface that has no public twin:
// dashboard, analytics, notifications, the media library, product
// collections and customer lookups.
type AdminHandler struct {
	adminService *service.AdminService
}

func NewAdminHandler(adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// Verify echoes the authenticated admin identity; the console calls it
// on load to decide which areas to render.
func (h *AdminHandler) Verify(c *gin.Context) {
	OK(c, "verified", gin.H{
		"user_id": c.GetString(middleware.CtxUserID),
		"role":    c.GetString(middleware.CtxRole),
	})
}

func (h *AdminHandler) Dashboard(c *gin.Context) {
	dash, err := h.adminService.GetDashboard(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, "dashboard", dash)
}

func (h *AdminHandler) Analytics(c *gin.Context) {
	days, _ := strconv.Atoi(c.Query("days"))
	analytics, err := h.adminService.GetAnalytics(c.Request.Context(), days)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, "analytics", analytics)
}

// ---- notifications ----

func (h *AdminHandler) ListNotifications(c *gin.Context) {
	page, perPage := PageParams(c)
	userID := c.GetString(middleware.CtxUserID)
	items, total, err := h.adminService.ListNotifications(c.Request.Context(), userID, c.Query("unread") == "true", page, perPage)
	if err != nil {
		Fail(c, err)
		return
	}
	List(c, "notifications", items, NewPagination(page, perPage, total))
}

func (h *AdminHandler) UnreadNotificationCount(c *gin.Context) {
	count, err := h.adminService.UnreadNotificationCount(c.Request.Context(), c.GetString(middleware.CtxUserID))
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, "unread count", gin.H{"count": count})
}

func (h *AdminHandler) MarkNotificationRead(c *gin.Context) {
	err := h.adminService.MarkNotificationRead(c.Request.Context(), c.Param("id"), c.GetString(middleware.CtxUserID))
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, "notification read", nil)
}

func (h *AdminHandler) MarkAllNotificationsRead(c *gin.Context) {
	count, err := h.adminService.MarkAllNotificationsRead(c.Request.Context(), c.GetString(middleware.CtxUserID))
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, "notifications read", gin.H{"count": count})
}

// ---- media library ----

func (h *AdminHandler) CreateMediaFile(c *gin.Context) {
	var req service.MediaFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "filename and url are required")
		return
	}
	file, err := h.adminService.CreateMediaFile(c.Request.Context(), c.GetString(middleware.CtxUserID), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, "media file registered", file)
}

func (h *AdminHandler) ListMediaFiles(c *gin.Context) {
	page, perPage := PageParams(c)
	files, total, err := h.adminService.ListMediaFiles(c.Request.Context(), c.Query("type"), c.Query("search"), page, perPage)
	if err != nil {
		Fail(c, err)
		return
	}
	List(c, "media files", files, NewPagination(page, perPage, total))
}

type mediaUpdateRequest struct {
	AltText string   `json:"alt_text"`
	Caption string   `json:"caption"`
	Tags    []string `json:"tags"`
}

func (h *AdminHandler) UpdateMediaFile(c *gin.Context) {
	var req mediaUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}
	file, err := h.adminService.UpdateMediaFile(c.Request.Context(), c.Param("id"), req.AltText, req.Caption, req.Tags)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, "media file updated", file)
}

func (h *AdminHandler) DeleteMediaFile(c *gin.Context) {
	if err := h.adminService.DeleteMediaFile(c.Request.Context(), c.Param("id")); err != nil {
		Fail(c, err)
		return
	}
	OK(c, "media file deleted", nil)
}

// ---- collections ----

func (h *AdminHandler) ListCollections(c *gin.Context) {
	items, err := h.adminService.ListCollections(c.Request.Context(), false)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, "collections", items)
}

func (h *AdminHandler) CreateCollection(c *gin.Context) {
	var req service.CollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "name is required")
		return
	}
	collection, err := h.adminService.CreateCollection(c.Request.Context(), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, "collection created", collection)
}

func (h *AdminHandler) UpdateCollection(c *gin.Context) {
	var req service.CollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "name is required")
		return
	}
	if err := h.adminService.UpdateCollection(c.Request.Context(), c.Param("id"), &req); err != nil {
		Fail(c, err)
		return
	}
	OK(c, "collection updated", nil)
}

func (h *AdminHandler) DeleteCollection(c *gin.Context) {
	if err := h.adminService.DeleteCollection(c.Request.Context(), c.Param("id")); err != nil {
		Fail(c, err)
		return
	}
	OK(c, "collection deleted", nil)
}

// PublicGetCollection serves a published collection on the storefront.
func (h *AdminHandler) PublicGetCollection(c *gin.Context) {
	collection, err := h.adminService.GetCollection(c.Request.Context(), c.Param("slug"), true)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, "collection", collection)
}

func (h *AdminHandler) PublicListCollections(c *gin.Context) {
	items, err := h.adminService.ListCollections(c.Request.Context(), true)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, "collections", items)
}

// ---- customers ----

func (h *AdminHandler) ListCustomers(c *gin.Context) {
	page, perPage := PageParams(c)
	customers, total, err := h.adminService.ListCustomers(c.Request.Context(), c.Query("search"), page, perPage)
	if err != nil {
		Fail(c, err)
		return
	}
	List(c, "customers", customers, NewPagination(page, perPage, total))
}

func (h *AdminHandler) GetCustomer(c *gin.Context) {
	detail, err := h.adminService.GetCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, "customer", detail)
}

// RegisterRoutes mounts the public collection reads.
func (h *AdminHandler) RegisterRoutes(rg *gin.RouterGroup) {
	collections := rg.Group("/collections")
	{
		collections.GET("", h.PublicListCollections)
		collections.GET("/:slug", h.PublicGetCollection)
	}
}

// RegisterAdminRoutes mounts the console. Dashboard, analytics and
// notifications are open to any admin; the media library and customer
// lookups carry their own permission gates.
func (h *AdminHandler) RegisterAdminRoutes(rg *gin.RouterGroup, mediaMW, customersMW gin.HandlerFunc) {
	rg.GET("/verify", h.Verify)
	rg.GET("/dashboard", h.Dashboard)
	rg.GET("/analytics", h.Analytics)

	notifications := rg.Group("/notifications")
	{
		notifications.GET("", h.ListNotifications)
		notifications.GET("/unread-count", h.UnreadNotificationCount)
		notifications.PUT("/read-all", h.MarkAllNotificationsRead)
		notifications.PUT("/:id/read", h.MarkNotificationRead)
	}
	media := rg.Group("/media", mediaMW)
	{
		media.GET("", h.ListMediaFiles)
		media.POST("", h.CreateMediaFile)
		media.PUT("/:id", h.UpdateMediaFile)
		media.DELETE("/:id", h.DeleteMediaFile)
	}
	collections := rg.Group("/collections")
	{
		collections.GET("", h.ListCollections)
		collections.POST("", h.CreateCollection)
		collections.PUT("/:id", h.UpdateCollection)
		collections.DELETE("/:id", h.DeleteCollection)
	}
	customers := rg.Group("/customers", customersMW)
	{
		customers.GET("", h.ListCustomers)
		customers.GET("/:id", h.GetCustomer)
	}
}
