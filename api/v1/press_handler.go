package v1

import (
	"github.com/munyanyaguo/Hisi-Studio/internal/service"

	"github.com/gin-gonic/gin"
)

// PressHandler serves the press page as one aggregate for the public
// site; each content family gets its own admin CRUD.
type PressHandler struct {
	pressService *service.PressService
}

func NewPressHandler(pressService *service.PressService) *PressHandler {
	return &PressHandler{pressService: pressService}
}

func (h *PressHandler) GetPressPage(c *gin.Context) {
	page, err := h.pressService.GetPressPage(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, "press page", page)
}

func (h *PressHandler) PublicListMediaCoverage(c *gin.Context) {
	items, err := h.pressService.ListMediaCoverage(c.Request.Context(), true)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, "media coverage", items)
}

func (h *PressHandler) PublicListPressReleases(c *gin.Context) {
	items, err := h.pressService.ListPressReleases(c.Request.Context(), true)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, "press releases", items)
}

func (h *PressHandler) PublicListExhibitions(c *gin.Context) {
	items, err := h.pressService.ListExhibitions(c.Request.Context(), true)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, "exhibitions", items)
}

// ---- admin: hero ----

func (h *PressHandler) GetHero(c *gin.Context) {
	hero, err := h.pressService.GetHero(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, "press hero", hero)
}

func (h *PressHandler) UpdateHero(c *gin.Context) {
	var req service.PressHeroRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "title is required")
		return
	}
	hero, err := h.pressService.UpdateHero(c.Request.Context(), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, "press hero saved", hero)
}

// ---- admin: media coverage ----

func (h *PressHandler) ListMediaCoverage(c *gin.Context) {
	items, err := h.pressService.ListMediaCoverage(c.Request.Context(), false)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, "media coverage", items)
}

func (h *PressHandler) CreateMediaCoverage(c *gin.Context) {
	var req service.MediaCoverageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "outlet and title are required")
		return
	}
	item, err := h.pressService.CreateMediaCoverage(c.Request.Context(), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, "media coverage created", item)
}

func (h *PressHandler) UpdateMediaCoverage(c *gin.Context) {
	var req service.MediaCoverageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "outlet and title are required")
		return
	}
	if err := h.pressService.UpdateMediaCoverage(c.Request.Context(), c.Param("id"), &req); err != nil {
		Fail(c, err)
		return
	}
	OK(c, "media coverage updated", nil)
}

func (h *PressHandler) DeleteMediaCoverage(c *gin.Context) {
	if err := h.pressService.DeleteMediaCoverage(c.Request.Context(), c.Param("id")); err != nil {
		Fail(c, err)
		return
	}
	OK(c, "media coverage deleted", nil)
}

// ---- admin: press releases ----

func (h *PressHandler) ListPressReleases(c *gin.Context) {
	items, err := h.pressService.ListPressReleases(c.Request.Context(), false)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, "press releases", items)
}

func (h *PressHandler) CreatePressRelease(c *gin.Context) {
	var req service.PressReleaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "title is required")
		return
	}
	item, err := h.pressService.CreatePressRelease(c.Request.Context(), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, "press release created", item)
}

func (h *PressHandler) UpdatePressRelease(c *gin.Context) {
	var req service.PressReleaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "title is required")
		return
	}
	if err := h.pressService.UpdatePressRelease(c.Request.Context(), c.Param("id"), &req); err != nil {
		Fail(c, err)
		return
	}
	OK(c, "press release updated", nil)
}

func (h *PressHandler) DeletePressRelease(c *gin.Context) {
	if err := h.pressService.DeletePressRelease(c.Request.Context(), c.Param("id")); err != nil {
		Fail(c, err)
		return
	}
	OK(c, "press release deleted", nil)
}

// ---- admin: exhibitions ----

func (h *PressHandler) ListExhibitions(c *gin.Context) {
	items, err := h.pressService.ListExhibitions(c.Request.Context(), false)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, "exhibitions", items)
}

func (h *PressHandler) CreateExhibition(c *gin.Context) {
	var req service.ExhibitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "title is required")
		return
	}
	item, err := h.pressService.CreateExhibition(c.Request.Context(), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, "exhibition created", item)
}

func (h *PressHandler) UpdateExhibition(c *gin.Context) {
	var req service.ExhibitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "title is required")
		return
	}
	if err := h.pressService.UpdateExhibition(c.Request.Context(), c.Param("id"), &req); err != nil {
		Fail(c, err)
		return
	}
	OK(c, "exhibition updated", nil)
}

func (h *PressHandler) DeleteExhibition(c *gin.Context) {
	if err := h.pressService.DeleteExhibition(c.Request.Context(), c.Param("id")); err != nil {
		Fail(c, err)
		return
	}
	OK(c, "exhibition deleted", nil)
}

// ---- admin: speaking engagements ----

func (h *PressHandler) ListSpeakingEngagements(c *gin.Context) {
	items, err := h.pressService.ListSpeakingEngagements(c.Request.Context(), false)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, "speaking engagements", items)
}

func (h *PressHandler) CreateSpeakingEngagement(c *gin.Context) {
	var req service.SpeakingEngagementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "title and event are required")
		return
	}
	item, err := h.pressService.CreateSpeakingEngagement(c.Request.Context(), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, "speaking engagement created", item)
}

func (h *PressHandler) UpdateSpeakingEngagement(c *gin.Context) {
	var req service.SpeakingEngagementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "title and event are required")
		return
	}
	if err := h.pressService.UpdateSpeakingEngagement(c.Request.Context(), c.Param("id"), &req); err != nil {
		Fail(c, err)
		return
	}
	OK(c, "speaking engagement updated", nil)
}

func (h *PressHandler) DeleteSpeakingEngagement(c *gin.Context) {
	if err := h.pressService.DeleteSpeakingEngagement(c.Request.Context(), c.Param("id")); err != nil {
		Fail(c, err)
		return
	}
	OK(c, "speaking engagement deleted", nil)
}

// ---- admin: collaborations ----

func (h *PressHandler) ListCollaborations(c *gin.Context) {
	items, err := h.pressService.ListCollaborations(c.Request.Context(), false)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, "collaborations", items)
}

func (h *PressHandler) CreateCollaboration(c *gin.Context) {
	var req service.CollaborationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "partner and title are required")
		return
	}
	item, err := h.pressService.CreateCollaboration(c.Request.Context(), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, "collaboration created", item)
}

func (h *PressHandler) UpdateCollaboration(c *gin.Context) {
	var req service.CollaborationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "partner and title are required")
		return
	}
	if err := h.pressService.UpdateCollaboration(c.Request.Context(), c.Param("id"), &req); err != nil {
		Fail(c, err)
		return
	}
	OK(c, "collaboration updated", nil)
}

func (h *PressHandler) DeleteCollaboration(c *gin.Context) {
	if err := h.pressService.DeleteCollaboration(c.Request.Context(), c.Param("id")); err != nil {
		Fail(c, err)
		return
	}
	OK(c, "collaboration deleted", nil)
}

func (h *PressHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/press", h.GetPressPage)
	rg.GET("/press/media-coverage", h.PublicListMediaCoverage)
	rg.GET("/press/releases", h.PublicListPressReleases)
	rg.GET("/press/exhibitions", h.PublicListExhibitions)
}

func (h *PressHandler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	press := rg.Group("/press")
	{
		press.GET("/hero", h.GetHero)
		press.PUT("/hero", h.UpdateHero)

		coverage := press.Group("/media-coverage")
		{
			coverage.GET("", h.ListMediaCoverage)
			coverage.POST("", h.CreateMediaCoverage)
			coverage.PUT("/:id", h.UpdateMediaCoverage)
			coverage.DELETE("/:id", h.DeleteMediaCoverage)
		}
		releases := press.Group("/releases")
		{
			releases.GET("", h.ListPressReleases)
			releases.POST("", h.CreatePressRelease)
			releases.PUT("/:id", h.UpdatePressRelease)
			releases.DELETE("/:id", h.DeletePressRelease)
		}
		exhibitions := press.Group("/exhibitions")
		{
			exhibitions.GET("", h.ListExhibitions)
			exhibitions.POST("", h.CreateExhibition)
			exhibitions.PUT("/:id", h.UpdateExhibition)
			exhibitions.DELETE("/:id", h.DeleteExhibition)
		}
		speaking := press.Group("/speaking")
		{
			speaking.GET("", h.ListSpeakingEngagements)
			speaking.POST("", h.CreateSpeakingEngagement)
			speaking.PUT("/:id", h.UpdateSpeakingEngagement)
			speaking.DELETE("/:id", h.DeleteSpeakingEngagement)
		}
		collaborations := press.Group("/collaborations")
		{
			collaborations.GET("", h.ListCollaborations)
			collaborations.POST("", h.CreateCollaboration)
			collaborations.PUT("/:id", h.UpdateCollaboration)
			collaborations.DELETE("/:id", h.DeleteCollaboration)
		}
	}
}
