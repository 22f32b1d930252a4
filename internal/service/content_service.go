package service

import (
	"context"
	"errors"
	"time"

	"github.com/munyanyaguo/Hisi-Studio/internal/dao"
	"github.com/munyanyaguo/Hisi-Studio/internal/model"
	"github.com/munyanyaguo/Hisi-Studio/pkg/e"

	"gorm.io/gorm"
)

// ContentService manages the CMS surface: pages, blog posts, site
// settings, FAQs, testimonials and per-page section content.
type ContentService struct {
	contentDao *dao.ContentDao
}

func NewContentService(contentDao *dao.ContentDao) *ContentService {
	return &ContentService{contentDao: contentDao}
}

// ---- pages ----

type PageRequest struct {
	Title           string `json:"title" binding:"required"`
	Slug            string `json:"slug"`
	Content         string `json:"content"`
	MetaTitle       string `json:"meta_title"`
	MetaDescription string `json:"meta_description"`
	IsPublished     *bool  `json:"is_published"`
}

func (s *ContentService) GetPage(ctx context.Context, slug string, publishedOnly bool) (*model.Page, error) {
	page, err := s.contentDao.GetPageBySlug(ctx, slug, publishedOnly)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, e.NotFound("page")
		}
		return nil, e.Internal(err)
	}
	return page, nil
}

func (s *ContentService) ListPages(ctx context.Context, publishedOnly bool) ([]*model.Page, error) {
	pages, err := s.contentDao.ListPages(ctx, publishedOnly)
	if err != nil {
		return nil, e.Internal(err)
	}
	return pages, nil
}

func (s *ContentService) CreatePage(ctx context.Context, req *PageRequest) (*model.Page, error) {
	slug := req.Slug
	if slug == "" {
		slug = Slugify(req.Title)
	}
	taken, err := s.contentDao.PageSlugExists(ctx, slug, "")
	if err != nil {
		return nil, e.Internal(err)
	}
	if taken {
		return nil, e.Conflict("a page with this slug already exists")
	}

	page := &model.Page{
		Title:           req.Title,
		Slug:            slug,
		Content:         req.Content,
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
		IsPublished:     req.IsPublished != nil && *req.IsPublished,
	}
	page.PublishedAt = dao.TouchPublishedAt(nil, page.IsPublished)
	if err := s.contentDao.CreatePage(ctx, page); err != nil {
		return nil, e.Internal(err)
	}
	return page, nil
}

func (s *ContentService) UpdatePage(ctx context.Context, id string, req *PageRequest) (*model.Page, error) {
	existing, err := s.contentDao.GetPageByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, e.NotFound("page")
		}
		return nil, e.Internal(err)
	}

	slug := req.Slug
	if slug == "" {
		slug = existing.Slug
	}
	taken, err := s.contentDao.PageSlugExists(ctx, slug, id)
	if err != nil {
		return nil, e.Internal(err)
	}
	if taken {
		return nil, e.Conflict("a page with this slug already exists")
	}

	updates := map[string]interface{}{
		"title":            req.Title,
		"slug":             slug,
		"content":          req.Content,
		"meta_title":       req.MetaTitle,
		"meta_description": req.MetaDescription,
	}
	if req.IsPublished != nil {
		updates["is_published"] = *req.IsPublished
		if published := dao.TouchPublishedAt(existing.PublishedAt, *req.IsPublished); published != existing.PublishedAt {
			updates["published_at"] = published
		}
	}
	if err := s.contentDao.UpdatePage(ctx, id, updates); err != nil {
		return nil, e.Internal(err)
	}
	return s.contentDao.GetPageByID(ctx, id)
}

func (s *ContentService) DeletePage(ctx context.Context, id string) error {
	rows, err := s.contentDao.DeletePage(ctx, id)
	if err != nil {
		return e.Internal(err)
	}
	if rows == 0 {
		return e.NotFound("page")
	}
	return nil
}

// ---- blog ----

type BlogPostRequest struct {
	Title           string `json:"title" binding:"required"`
	Slug            string `json:"slug"`
	Excerpt         string `json:"excerpt"`
	Content         string `json:"content"`
	FeaturedImage   string `json:"featured_image"`
	MetaTitle       string `json:"meta_title"`
	MetaDescription string `json:"meta_description"`
	IsPublished     *bool  `json:"is_published"`
}

func (s *ContentService) GetBlogPost(ctx context.Context, slug string, publishedOnly bool) (*model.BlogPost, error) {
	post, err := s.contentDao.GetBlogPostBySlug(ctx, slug, publishedOnly)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, e.NotFound("blog post")
		}
		return nil, e.Internal(err)
	}
	return post, nil
}

func (s *ContentService) ListBlogPosts(ctx context.Context, publishedOnly bool, page, pageSize int) ([]*model.BlogPost, int64, error) {
	posts, total, err := s.contentDao.ListBlogPosts(ctx, publishedOnly, page, pageSize)
	if err != nil {
		return nil, 0, e.Internal(err)
	}
	return posts, total, nil
}

func (s *ContentService) CreateBlogPost(ctx context.Context, authorID string, req *BlogPostRequest) (*model.BlogPost, error) {
	slug := req.Slug
	if slug == "" {
		slug = Slugify(req.Title)
	}
	taken, err := s.contentDao.BlogSlugExists(ctx, slug, "")
	if err != nil {
		return nil, e.Internal(err)
	}
	if taken {
		return nil, e.Conflict("a blog post with this slug already exists")
	}

	post := &model.BlogPost{
		Title:           req.Title,
		Slug:            slug,
		Excerpt:         req.Excerpt,
		Content:         req.Content,
		AuthorID:        authorID,
		FeaturedImage:   req.FeaturedImage,
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
		IsPublished:     req.IsPublished != nil && *req.IsPublished,
	}
	post.PublishedAt = dao.TouchPublishedAt(nil, post.IsPublished)
	if err := s.contentDao.CreateBlogPost(ctx, post); err != nil {
		return nil, e.Internal(err)
	}
	return post, nil
}

func (s *ContentService) UpdateBlogPost(ctx context.Context, id string, req *BlogPostRequest) (*model.BlogPost, error) {
	existing, err := s.contentDao.GetBlogPostByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, e.NotFound("blog post")
		}
		return nil, e.Internal(err)
	}

	slug := req.Slug
	if slug == "" {
		slug = existing.Slug
	}
	taken, err := s.contentDao.BlogSlugExists(ctx, slug, id)
	if err != nil {
		return nil, e.Internal(err)
	}
	if taken {
		return nil, e.Conflict("a blog post with this slug already exists")
	}

	updates := map[string]interface{}{
		"title":            req.Title,
		"slug":             slug,
		"excerpt":          req.Excerpt,
		"content":          req.Content,
		"featured_image":   req.FeaturedImage,
		"meta_title":       req.MetaTitle,
		"meta_description": req.MetaDescription,
	}
	if req.IsPublished != nil {
		updates["is_published"] = *req.IsPublished
		if published := dao.TouchPublishedAt(existing.PublishedAt, *req.IsPublished); published != existing.PublishedAt {
			updates["published_at"] = published
		}
	}
	if err := s.contentDao.UpdateBlogPost(ctx, id, updates); err != nil {
		return nil, e.Internal(err)
	}
	return s.contentDao.GetBlogPostByID(ctx, id)
}

func (s *ContentService) DeleteBlogPost(ctx context.Context, id string) error {
	rows, err := s.contentDao.DeleteBlogPost(ctx, id)
	if err != nil {
		return e.Internal(err)
	}
	if rows == 0 {
		return e.NotFound("blog post")
	}
	return nil
}

// ---- site settings ----

func (s *ContentService) ListSettings(ctx context.Context) ([]*model.SiteSetting, error) {
	settings, err := s.contentDao.ListSettings(ctx)
	if err != nil {
		return nil, e.Internal(err)
	}
	return settings, nil
}

type SettingRequest struct {
	Key         string `json:"key" binding:"required"`
	Value       string `json:"value"`
	SettingType string `json:"setting_type"`
	Description string `json:"description"`
}

func (s *ContentService) UpsertSetting(ctx context.Context, req *SettingRequest) (*model.SiteSetting, error) {
	settingType := req.SettingType
	if settingType == "" {
		settingType = "text"
	}
	setting := &model.SiteSetting{
		Key:         req.Key,
		Value:       req.Value,
		SettingType: settingType,
		Description: req.Description,
		UpdatedAt:   time.Now(),
	}
	if err := s.contentDao.UpsertSetting(ctx, setting); err != nil {
		return nil, e.Internal(err)
	}
	return setting, nil
}

// ---- FAQs ----

type FAQRequest struct {
	Category     string `json:"category" binding:"required"`
	Question     string `json:"question" binding:"required"`
	Answer       string `json:"answer" binding:"required"`
	DisplayOrder int    `json:"display_order"`
	IsPublished  *bool  `json:"is_published"`
}

func (s *ContentService) ListFAQs(ctx context.Context, category string, publishedOnly bool) ([]*model.FAQ, error) {
	faqs, err := s.contentDao.ListFAQs(ctx, category, publishedOnly)
	if err != nil {
		return nil, e.Internal(err)
	}
	return faqs, nil
}

func (s *ContentService) CreateFAQ(ctx context.Context, req *FAQRequest) (*model.FAQ, error) {
	faq := &model.FAQ{
		Category:     req.Category,
		Question:     req.Question,
		Answer:       req.Answer,
		DisplayOrder: req.DisplayOrder,
		IsPublished:  req.IsPublished == nil || *req.IsPublished,
	}
	if err := s.contentDao.CreateFAQ(ctx, faq); err != nil {
		return nil, e.Internal(err)
	}
	return faq, nil
}

func (s *ContentService) UpdateFAQ(ctx context.Context, id string, req *FAQRequest) error {
	updates := map[string]interface{}{
		"category":      req.Category,
		"question":      req.Question,
		"answer":        req.Answer,
		"display_order": req.DisplayOrder,
	}
	if req.IsPublished != nil {
		updates["is_published"] = *req.IsPublished
	}
	rows, err := s.contentDao.UpdateFAQ(ctx, id, updates)
	if err != nil {
		return e.Internal(err)
	}
	if rows == 0 {
		return e.NotFound("FAQ")
	}
	return nil
}

func (s *ContentService) DeleteFAQ(ctx context.Context, id string) error {
	rows, err := s.contentDao.DeleteFAQ(ctx, id)
	if err != nil {
		return e.Internal(err)
	}
	if rows == 0 {
		return e.NotFound("FAQ")
	}
	return nil
}

// ---- testimonials ----

type TestimonialRequest struct {
	Name         string `json:"name" binding:"required"`
	Role         string `json:"role"`
	ImageURL     string `json:"image_url"`
	Story        string `json:"story" binding:"required"`
	Result       string `json:"result"`
	Rating       int    `json:"rating"`
	IsFeatured   *bool  `json:"is_featured"`
	DisplayOrder int    `json:"display_order"`
	IsPublished  *bool  `json:"is_published"`
}

func (s *ContentService) ListTestimonials(ctx context.Context, publishedOnly bool) ([]*model.Testimonial, error) {
	items, err := s.contentDao.ListTestimonials(ctx, publishedOnly)
	if err != nil {
		return nil, e.Internal(err)
	}
	return items, nil
}

func (s *ContentService) CreateTestimonial(ctx context.Context, req *TestimonialRequest) (*model.Testimonial, error) {
	rating := req.Rating
	if rating == 0 {
		rating = 5
	}
	if rating < 1 || rating > 5 {
		return nil, e.Validation("rating must be between 1 and 5")
	}
	t := &model.Testimonial{
		Name:         req.Name,
		Role:         req.Role,
		ImageURL:     req.ImageURL,
		Story:        req.Story,
		Result:       req.Result,
		Rating:       rating,
		IsFeatured:   req.IsFeatured != nil && *req.IsFeatured,
		DisplayOrder: req.DisplayOrder,
		IsPublished:  req.IsPublished == nil || *req.IsPublished,
	}
	if err := s.contentDao.CreateTestimonial(ctx, t); err != nil {
		return nil, e.Internal(err)
	}
	return t, nil
}

func (s *ContentService) UpdateTestimonial(ctx context.Context, id string, req *TestimonialRequest) error {
	updates := map[string]interface{}{
		"name":          req.Name,
		"role":          req.Role,
		"image_url":     req.ImageURL,
		"story":         req.Story,
		"result":        req.Result,
		"display_order": req.DisplayOrder,
	}
	if req.Rating != 0 {
		if req.Rating < 1 || req.Rating > 5 {
			return e.Validation("rating must be between 1 and 5")
		}
		updates["rating"] = req.Rating
	}
	if req.IsFeatured != nil {
		updates["is_featured"] = *req.IsFeatured
	}
	if req.IsPublished != nil {
		updates["is_published"] = *req.IsPublished
	}
	rows, err := s.contentDao.UpdateTestimonial(ctx, id, updates)
	if err != nil {
		return e.Internal(err)
	}
	if rows == 0 {
		return e.NotFound("testimonial")
	}
	return nil
}

func (s *ContentService) DeleteTestimonial(ctx context.Context, id string) error {
	rows, err := s.contentDao.DeleteTestimonial(ctx, id)
	if err != nil {
		return e.Internal(err)
	}
	if rows == 0 {
		return e.NotFound("testimonial")
	}
	return nil
}

// ---- section content ----

type SectionContentRequest struct {
	PageName     string `json:"page_name" binding:"required"`
	SectionName  string `json:"section_name" binding:"required"`
	ContentType  string `json:"content_type"`
	Content      string `json:"content"`
	DisplayOrder int    `json:"display_order"`
	IsActive     *bool  `json:"is_active"`
}

func (s *ContentService) ListSectionContent(ctx context.Context, pageName, sectionName string, activeOnly bool) ([]*model.SectionContent, error) {
	items, err := s.contentDao.ListSectionContent(ctx, pageName, sectionName, activeOnly)
	if err != nil {
		return nil, e.Internal(err)
	}
	return items, nil
}

func (s *ContentService) ListSectionPages(ctx context.Context) ([]string, error) {
	pages, err := s.contentDao.ListSectionPages(ctx)
	if err != nil {
		return nil, e.Internal(err)
	}
	return pages, nil
}

func (s *ContentService) CreateSectionContent(ctx context.Context, req *SectionContentRequest) (*model.SectionContent, error) {
	taken, err := s.contentDao.SectionExists(ctx, req.PageName, req.SectionName, "")
	if err != nil {
		return nil, e.Internal(err)
	}
	if taken {
		return nil, e.Conflict("this page/section pair already exists")
	}

	contentType := req.ContentType
	if contentType == "" {
		contentType = "text"
	}
	sc := &model.SectionContent{
		PageName:     req.PageName,
		SectionName:  req.SectionName,
		ContentType:  contentType,
		Content:      req.Content,
		DisplayOrder: req.DisplayOrder,
		IsActive:     req.IsActive == nil || *req.IsActive,
	}
	if err := s.contentDao.CreateSectionContent(ctx, sc); err != nil {
		return nil, e.Internal(err)
	}
	return sc, nil
}

func (s *ContentService) UpdateSectionContent(ctx context.Context, id string, req *SectionContentRequest) (*model.SectionContent, error) {
	taken, err := s.contentDao.SectionExists(ctx, req.PageName, req.SectionName, id)
	if err != nil {
		return nil, e.Internal(err)
	}
	if taken {
		return nil, e.Conflict("this page/section pair already exists")
	}

	updates := map[string]interface{}{
		"page_name":     req.PageName,
		"section_name":  req.SectionName,
		"content":       req.Content,
		"display_order": req.DisplayOrder,
	}
	if req.ContentType != "" {
		updates["content_type"] = req.ContentType
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	rows, err := s.contentDao.UpdateSectionContent(ctx, id, updates)
	if err != nil {
		return nil, e.Internal(err)
	}
	if rows == 0 {
		return nil, e.NotFound("section content")
	}
	return s.contentDao.GetSectionContentByID(ctx, id)
}

func (s *ContentService) DeleteSectionContent(ctx context.Context, id string) error {
	rows, err := s.contentDao.DeleteSectionContent(ctx, id)
	if err != nil {
		return e.Internal(err)
	}
	if rows == 0 {
		return e.NotFound("section content")
	}
	return nil
}

// BulkUpdateSections applies content/active updates to several sections
// atomically.
func (s *ContentService) BulkUpdateSections(ctx context.Context, updates map[string]map[string]interface{}) error {
	if len(updates) == 0 {
		return e.Validation("no updates supplied")
	}
	if err := s.contentDao.BulkUpdateSectionContent(ctx, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return e.NotFound("section content")
		}
		return e.Internal(err)
	}
	return nil
}
