package v1

import (
	"strconv"

	"github.com/munyanyaguo/Hisi-Studio/api/middleware"
	"github.com/munyanyaguo/Hisi-Studio/internal/service"

	"github.com/gin-gonic/gin"
)

// ContentHandler exposes the CMS: public read endpoints for pages, blog
// posts, FAQs, testimonials and section content, with management under
// the admin group.
type ContentHandler struct {
	contentService *service.ContentService
}

func NewContentHandler(contentService *service.ContentService) *ContentHandler {
	return &ContentHandler{contentService: contentService}
}

// ---- public ----

func (h *ContentHandler) ListPublishedPages(c *gin.Context) {
	pages, err := h.contentService.ListPages(c.Request.Context(), true)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, "pages", pages)
}

func (h *ContentHandler) PublicListSettings(c *gin.Context) {
	settings, err := h.contentService.ListSettings(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, "settings", settings)
}

func (h *ContentHandler) GetPage(c *gin.Context) {
	page, err := h.contentService.GetPage(c.Request.Context(), c.Param("slug"), true)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, "page", page)
}

func (h *ContentHandler) ListBlogPosts(c *gin.Context) {
	page, perPage := PageParams(c)
	posts, total, err := h.contentService.ListBlogPosts(c.Request.Context(), true, page, perPage)
	if err != nil {
		Fail(c, err)
		return
	}
	List(c, "blog posts", posts, NewPagination(page, perPage, total))
}

func (h *ContentHandler) GetBlogPost(c *gin.Context) {
	post, err := h.contentService.GetBlogPost(c.Request.Context(), c.Param("slug"), true)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, "blog post", post)
}

func (h *ContentHandler) ListFAQs(c *gin.Context) {
	faqs, err := h.contentService.ListFAQs(c.Request.Context(), c.Query("category"), true)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, "faqs", faqs)
}

func (h *ContentHandler) ListTestimonials(c *gin.Context) {
	items, err := h.contentService.ListTestimonials(c.Request.Context(), true)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, "testimonials", items)
}

// GetSectionContent returns the active sections for one frontend page,
// narrowed to one section when the path or query names it.
func (h *ContentHandler) GetSectionContent(c *gin.Context) {
	section := c.Param("section_name")
	if section == "" {
		section = c.Query("section")
	}
	items, err := h.contentService.ListSectionContent(c.Request.Context(), c.Param("page_name"), section, true)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, "section content", items)
}

// ---- admin: pages ----

func (h *ContentHandler) AdminListPages(c *gin.Context) {
	pages, err := h.contentService.ListPages(c.Request.Context(), false)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, "pages", pages)
}

func (h *ContentHandler) CreatePage(c *gin.Context) {
	var req service.PageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "title is required")
		return
	}
	page, err := h.contentService.CreatePage(c.Request.Context(), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, "page created", page)
}

func (h *ContentHandler) UpdatePage(c *gin.Context) {
	var req service.PageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "title is required")
		return
	}
	page, err := h.contentService.UpdatePage(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, "page updated", page)
}

func (h *ContentHandler) DeletePage(c *gin.Context) {
	if err := h.contentService.DeletePage(c.Request.Context(), c.Param("id")); err != nil {
		Fail(c, err)
		return
	}
	OK(c, "page deleted", nil)
}

// ---- admin: blog ----

func (h *ContentHandler) AdminListBlogPosts(c *gin.Context) {
	page, perPage := PageParams(c)
	posts, total, err := h.contentService.ListBlogPosts(c.Request.Context(), false, page, perPage)
	if err != nil {
		Fail(c, err)
		return
	}
	List(c, "blog posts", posts, NewPagination(page, perPage, total))
}

func (h *ContentHandler) CreateBlogPost(c *gin.Context) {
	var req service.BlogPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "title is required")
		return
	}
	post, err := h.contentService.CreateBlogPost(c.Request.Context(), c.GetString(middleware.CtxUserID), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, "blog post created", post)
}

func (h *ContentHandler) UpdateBlogPost(c *gin.Context) {
	var req service.BlogPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "title is required")
		return
	}
	post, err := h.contentService.UpdateBlogPost(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, "blog post updated", post)
}

func (h *ContentHandler) DeleteBlogPost(c *gin.Context) {
	if err := h.contentService.DeleteBlogPost(c.Request.Context(), c.Param("id")); err != nil {
		Fail(c, err)
		return
	}
	OK(c, "blog post deleted", nil)
}

// ---- admin: settings ----

func (h *ContentHandler) ListSettings(c *gin.Context) {
	settings, err := h.contentService.ListSettings(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, "settings", settings)
}

func (h *ContentHandler) UpsertSetting(c *gin.Context) {
	var req service.SettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "key is required")
		return
	}
	setting, err := h.contentService.UpsertSetting(c.Request.Context(), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, "setting saved", setting)
}

// ---- admin: FAQs ----

func (h *ContentHandler) AdminListFAQs(c *gin.Context) {
	faqs, err := h.contentService.ListFAQs(c.Request.Context(), c.Query("category"), false)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, "faqs", faqs)
}

func (h *ContentHandler) CreateFAQ(c *gin.Context) {
	var req service.FAQRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "category, question and answer are required")
		return
	}
	faq, err := h.contentService.CreateFAQ(c.Request.Context(), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, "faq created", faq)
}

func (h *ContentHandler) UpdateFAQ(c *gin.Context) {
	var req service.FAQRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "category, question and answer are required")
		return
	}
	if err := h.contentService.UpdateFAQ(c.Request.Context(), c.Param("id"), &req); err != nil {
		Fail(c, err)
		return
	}
	OK(c, "faq updated", nil)
}

func (h *ContentHandler) DeleteFAQ(c *gin.Context) {
	if err := h.contentService.DeleteFAQ(c.Request.Context(), c.Param("id")); err != nil {
		Fail(c, err)
		return
	}
	OK(c, "faq deleted", nil)
}

// ---- admin: testimonials ----

func (h *ContentHandler) AdminListTestimonials(c *gin.Context) {
	items, err := h.contentService.ListTestimonials(c.Request.Context(), false)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, "testimonials", items)
}

func (h *ContentHandler) CreateTestimonial(c *gin.Context) {
	var req service.TestimonialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "name and story are required")
		return
	}
	t, err := h.contentService.CreateTestimonial(c.Request.Context(), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, "testimonial created", t)
}

func (h *ContentHandler) UpdateTestimonial(c *gin.Context) {
	var req service.TestimonialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "name and story are required")
		return
	}
	if err := h.contentService.UpdateTestimonial(c.Request.Context(), c.Param("id"), &req); err != nil {
		Fail(c, err)
		return
	}
	OK(c, "testimonial updated", nil)
}

func (h *ContentHandler) DeleteTestimonial(c *gin.Context) {
	if err := h.contentService.DeleteTestimonial(c.Request.Context(), c.Param("id")); err != nil {
		Fail(c, err)
		return
	}
	OK(c, "testimonial deleted", nil)
}

// ---- admin: section content ----

func (h *ContentHandler) AdminListSections(c *gin.Context) {
	items, err := h.contentService.ListSectionContent(c.Request.Context(), c.Query("page"), c.Query("section"), false)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, "section content", items)
}

func (h *ContentHandler) ListSectionPages(c *gin.Context) {
	pages, err := h.contentService.ListSectionPages(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, "pages", pages)
}

func (h *ContentHandler) CreateSection(c *gin.Context) {
	var req service.SectionContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "page_name and section_name are required")
		return
	}
	sc, err := h.contentService.CreateSectionContent(c.Request.Context(), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, "section created", sc)
}

func (h *ContentHandler) UpdateSection(c *gin.Context) {
	var req service.SectionContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "page_name and section_name are required")
		return
	}
	sc, err := h.contentService.UpdateSectionContent(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, "section updated", sc)
}

func (h *ContentHandler) DeleteSection(c *gin.Context) {
	if err := h.contentService.DeleteSectionContent(c.Request.Context(), c.Param("id")); err != nil {
		Fail(c, err)
		return
	}
	OK(c, "section deleted", nil)
}

type bulkSectionUpdate struct {
	Content      *string `json:"content"`
	DisplayOrder *int    `json:"display_order"`
	IsActive     *bool   `json:"is_active"`
}

// BulkUpdateSections applies partial updates to many sections atomically.
func (h *ContentHandler) BulkUpdateSections(c *gin.Context) {
	var body map[string]bulkSectionUpdate
	if err := c.ShouldBindJSON(&body); err != nil {
		BadRequest(c, "invalid request body")
		return
	}

	updates := make(map[string]map[string]interface{}, len(body))
	for id, u := range body {
		fields := map[string]interface{}{}
		if u.Content != nil {
			fields["content"] = *u.Content
		}
		if u.DisplayOrder != nil {
			fields["display_order"] = *u.DisplayOrder
		}
		if u.IsActive != nil {
			fields["is_active"] = *u.IsActive
		}
		if len(fields) > 0 {
			updates[id] = fields
		}
	}
	if err := h.contentService.BulkUpdateSections(c.Request.Context(), updates); err != nil {
		Fail(c, err)
		return
	}
	OK(c, "sections updated ("+strconv.Itoa(len(updates))+")", nil)
}

// RegisterRoutes wires the public CMS reads.
func (h *ContentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/pages", h.ListPublishedPages)
	rg.GET("/pages/:slug", h.GetPage)
	rg.GET("/settings", h.PublicListSettings)
	blog := rg.Group("/blog")
	{
		blog.GET("", h.ListBlogPosts)
		blog.GET("/:slug", h.GetBlogPost)
	}
	rg.GET("/faqs", h.ListFAQs)
	rg.GET("/testimonials", h.ListTestimonials)
	rg.GET("/content/:page_name", h.GetSectionContent)
	rg.GET("/content/:page_name/:section_name", h.GetSectionContent)
}

// RegisterAdminRoutes wires CMS management under the admin group.
func (h *ContentHandler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	pages := rg.Group("/pages")
	{
		pages.GET("", h.AdminListPages)
		pages.POST("", h.CreatePage)
		pages.PUT("/:id", h.UpdatePage)
		pages.DELETE("/:id", h.DeletePage)
	}
	blog := rg.Group("/blog")
	{
		blog.GET("", h.AdminListBlogPosts)
		blog.POST("", h.CreateBlogPost)
		blog.PUT("/:id", h.UpdateBlogPost)
		blog.DELETE("/:id", h.DeleteBlogPost)
	}
	settings := rg.Group("/settings")
	{
		settings.GET("", h.ListSettings)
		settings.PUT("", h.UpsertSetting)
	}
	faqs := rg.Group("/faqs")
	{
		faqs.GET("", h.AdminListFAQs)
		faqs.POST("", h.CreateFAQ)
		faqs.PUT("/:id", h.UpdateFAQ)
		faqs.DELETE("/:id", h.DeleteFAQ)
	}
	testimonials := rg.Group("/testimonials")
	{
		testimonials.GET("", h.AdminListTestimonials)
		testimonials.POST("", h.CreateTestimonial)
		testimonials.PUT("/:id", h.UpdateTestimonial)
		testimonials.DELETE("/:id", h.DeleteTestimonial)
	}
	sections := rg.Group("/content")
	{
		sections.GET("", h.AdminListSections)
		sections.GET("/pages", h.ListSectionPages)
		sections.POST("", h.CreateSection)
		sections.PUT("/bulk", h.BulkUpdateSections)
		sections.PUT("/:id", h.UpdateSection)
		sections.DELETE("/:id", h.DeleteSection)
	}
}
