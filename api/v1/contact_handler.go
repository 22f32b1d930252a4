package v1

import (
	"github.com/munyanyaguo/Hisi-Studio/internal/service"

	"github.com/gin-gonic/gin"
)

// ContactHandler takes public contact messages, consultation bookings
// and newsletter signups; management of the inbox sits under admin.
type ContactHandler struct {
	contactService *service.ContactService
}

func NewContactHandler(contactService *service.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// ---- public ----

func (h *ContactHandler) SubmitMessage(c *gin.Context) {
	var req service.ContactMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "name, email and message are required")
		return
	}
	msg, err := h.contactService.SubmitMessage(c.Request.Context(), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, "message received", msg)
}

func (h *ContactHandler) BookConsultation(c *gin.Context) {
	var req service.ConsultationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "name, email, consultation_type and preferred_date are required")
		return
	}
	booking, err := h.contactService.BookConsultation(c.Request.Context(), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, "consultation requested", booking)
}

type newsletterRequest struct {
	Email string `json:"email" binding:"required"`
}

func (h *ContactHandler) Subscribe(c *gin.Context) {
	var req newsletterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "email is required")
		return
	}
	if err := h.contactService.Subscribe(c.Request.Context(), req.Email); err != nil {
		Fail(c, err)
		return
	}
	OK(c, "subscribed", nil)
}

func (h *ContactHandler) Unsubscribe(c *gin.Context) {
	var req newsletterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "email is required")
		return
	}
	if err := h.contactService.Unsubscribe(c.Request.Context(), req.Email); err != nil {
		Fail(c, err)
		return
	}
	OK(c, "unsubscribed", nil)
}

// ---- admin ----

func (h *ContactHandler) AdminListMessages(c *gin.Context) {
	page, perPage := PageParams(c)
	msgs, total, err := h.contactService.ListMessages(
		c.Request.Context(),
		c.Query("category"),
		c.Query("status"),
		c.Query("unread") == "true",
		page, perPage,
	)
	if err != nil {
		Fail(c, err)
		return
	}
	List(c, "messages", msgs, NewPagination(page, perPage, total))
}

func (h *ContactHandler) AdminGetMessage(c *gin.Context) {
	msg, err := h.contactService.GetMessage(c.Request.Context(), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, "message", msg)
}

func (h *ContactHandler) AdminUpdateMessage(c *gin.Context) {
	var req service.UpdateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}
	msg, err := h.contactService.UpdateMessage(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, "message updated", msg)
}

type respondRequest struct {
	Response string `json:"response" binding:"required"`
}

func (h *ContactHandler) AdminRespondMessage(c *gin.Context) {
	var req respondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "response is required")
		return
	}
	msg, err := h.contactService.RespondToMessage(c.Request.Context(), c.Param("id"), req.Response)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, "response sent", msg)
}

func (h *ContactHandler) AdminDeleteMessage(c *gin.Context) {
	if err := h.contactService.DeleteMessage(c.Request.Context(), c.Param("id")); err != nil {
		Fail(c, err)
		return
	}
	OK(c, "message deleted", nil)
}

func (h *ContactHandler) AdminListConsultations(c *gin.Context) {
	page, perPage := PageParams(c)
	items, total, err := h.contactService.ListConsultations(c.Request.Context(), c.Query("status"), page, perPage)
	if err != nil {
		Fail(c, err)
		return
	}
	List(c, "consultations", items, NewPagination(page, perPage, total))
}

func (h *ContactHandler) AdminUpdateConsultation(c *gin.Context) {
	var req service.UpdateConsultationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}
	booking, err := h.contactService.UpdateConsultation(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, "consultation updated", booking)
}

func (h *ContactHandler) AdminDeleteConsultation(c *gin.Context) {
	if err := h.contactService.DeleteConsultation(c.Request.Context(), c.Param("id")); err != nil {
		Fail(c, err)
		return
	}
	OK(c, "consultation deleted", nil)
}

func (h *ContactHandler) AdminListSubscribers(c *gin.Context) {
	page, perPage := PageParams(c)
	subs, total, err := h.contactService.ListSubscribers(c.Request.Context(), c.Query("subscribed") == "true", page, perPage)
	if err != nil {
		Fail(c, err)
		return
	}
	List(c, "subscribers", subs, NewPagination(page, perPage, total))
}

func (h *ContactHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/contact", h.SubmitMessage)
	rg.POST("/consultations", h.BookConsultation)
	newsletter := rg.Group("/newsletter")
	{
		newsletter.POST("/subscribe", h.Subscribe)
		newsletter.POST("/unsubscribe", h.Unsubscribe)
	}
}

func (h *ContactHandler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	messages := rg.Group("/messages")
	{
		messages.GET("", h.AdminListMessages)
		messages.GET("/:id", h.AdminGetMessage)
		messages.PUT("/:id", h.AdminUpdateMessage)
		messages.POST("/:id/respond", h.AdminRespondMessage)
		messages.DELETE("/:id", h.AdminDeleteMessage)
	}
	consultations := rg.Group("/consultations")
	{
		consultations.GET("", h.AdminListConsultations)
		consultations.PUT("/:id", h.AdminUpdateConsultation)
		consultations.DELETE("/:id", h.AdminDeleteConsultation)
	}
	rg.GET("/newsletter/subscribers", h.AdminListSubscribers)
}
