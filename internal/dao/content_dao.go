package dao

import (
	"context"
	"time"

	"github.com/munyanyaguo/Hisi-Studio/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ContentDao covers the CMS record families: pages, blog posts, site
// settings, FAQs, testimonials and section content. They share the same
// keyed-CRUD lifecycle, so one DAO holds them.
type ContentDao struct {
	db *gorm.DB
}

func NewContentDao(db *gorm.DB) *ContentDao {
	return &ContentDao{db: db}
}

// ---- pages ----

func (d *ContentDao) CreatePage(ctx context.Context, p *model.Page) error {
	return d.db.WithContext(ctx).Create(p).Error
}

func (d *ContentDao) GetPageByID(ctx context.Context, id string) (*model.Page, error) {
	var p model.Page
	if err := d.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (d *ContentDao) GetPageBySlug(ctx context.Context, slug string, publishedOnly bool) (*model.Page, error) {
	q := d.db.WithContext(ctx).Where("slug = ?", slug)
	if publishedOnly {
		q = q.Where("is_published = ?", true)
	}
	var p model.Page
	if err := q.First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (d *ContentDao) ListPages(ctx context.Context, publishedOnly bool) ([]*model.Page, error) {
	q := d.db.WithContext(ctx).Model(&model.Page{})
	if publishedOnly {
		q = q.Where("is_published = ?", true)
	}
	var pages []*model.Page
	err := q.Order("created_at DESC").Find(&pages).Error
	return pages, err
}

func (d *ContentDao) PageSlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	q := d.db.WithContext(ctx).Model(&model.Page{}).Where("slug = ?", slug)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (d *ContentDao) UpdatePage(ctx context.Context, id string, updates map[string]interface{}) error {
	return d.db.WithContext(ctx).Model(&model.Page{}).Where("id = ?", id).Updates(updates).Error
}

func (d *ContentDao) DeletePage(ctx context.Context, id string) (int64, error) {
	result := d.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Page{})
	return result.RowsAffected, result.Error
}

// ---- blog posts ----

func (d *ContentDao) CreateBlogPost(ctx context.Context, p *model.BlogPost) error {
	return d.db.WithContext(ctx).Create(p).Error
}

func (d *ContentDao) GetBlogPostByID(ctx context.Context, id string) (*model.BlogPost, error) {
	var p model.BlogPost
	if err := d.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (d *ContentDao) GetBlogPostBySlug(ctx context.Context, slug string, publishedOnly bool) (*model.BlogPost, error) {
	q := d.db.WithContext(ctx).Where("slug = ?", slug)
	if publishedOnly {
		q = q.Where("is_published = ?", true)
	}
	var p model.BlogPost
	if err := q.First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (d *ContentDao) ListBlogPosts(ctx context.Context, publishedOnly bool, page, pageSize int) ([]*model.BlogPost, int64, error) {
	q := d.db.WithContext(ctx).Model(&model.BlogPost{})
	if publishedOnly {
		q = q.Where("is_published = ?", true)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []*model.BlogPost
	err := q.Order("created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&posts).Error
	return posts, total, err
}

func (d *ContentDao) BlogSlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	q := d.db.WithContext(ctx).Model(&model.BlogPost{}).Where("slug = ?", slug)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (d *ContentDao) UpdateBlogPost(ctx context.Context, id string, updates map[string]interface{}) error {
	return d.db.WithContext(ctx).Model(&model.BlogPost{}).Where("id = ?", id).Updates(updates).Error
}

func (d *ContentDao) DeleteBlogPost(ctx context.Context, id string) (int64, error) {
	result := d.db.WithContext(ctx).Where("id = ?", id).Delete(&model.BlogPost{})
	return result.RowsAffected, result.Error
}

// ---- site settings ----

func (d *ContentDao) ListSettings(ctx context.Context) ([]*model.SiteSetting, error) {
	var settings []*model.SiteSetting
	err := d.db.WithContext(ctx).Order("`key` ASC").Find(&settings).Error
	return settings, err
}

// UpsertSetting writes a setting by key, inserting or updating the value.
func (d *ContentDao) UpsertSetting(ctx context.Context, s *model.SiteSetting) error {
	return d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "setting_type", "description", "updated_at"}),
	}).Create(s).Error
}

// ---- FAQs ----

func (d *ContentDao) CreateFAQ(ctx context.Context, f *model.FAQ) error {
	return d.db.WithContext(ctx).Create(f).Error
}

func (d *ContentDao) ListFAQs(ctx context.Context, category string, publishedOnly bool) ([]*model.FAQ, error) {
	q := d.db.WithContext(ctx).Model(&model.FAQ{})
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if publishedOnly {
		q = q.Where("is_published = ?", true)
	}
	var faqs []*model.FAQ
	err := q.Order("display_order ASC, created_at ASC").Find(&faqs).Error
	return faqs, err
}

func (d *ContentDao) UpdateFAQ(ctx context.Context, id string, updates map[string]interface{}) (int64, error) {
	result := d.db.WithContext(ctx).Model(&model.FAQ{}).Where("id = ?", id).Updates(updates)
	return result.RowsAffected, result.Error
}

func (d *ContentDao) DeleteFAQ(ctx context.Context, id string) (int64, error) {
	result := d.db.WithContext(ctx).Where("id = ?", id).Delete(&model.FAQ{})
	return result.RowsAffected, result.Error
}

// ---- testimonials ----

func (d *ContentDao) CreateTestimonial(ctx context.Context, t *model.Testimonial) error {
	return d.db.WithContext(ctx).Create(t).Error
}

func (d *ContentDao) ListTestimonials(ctx context.Context, publishedOnly bool) ([]*model.Testimonial, error) {
	q := d.db.WithContext(ctx).Model(&model.Testimonial{})
	if publishedOnly {
		q = q.Where("is_published = ?", true)
	}
	var items []*model.Testimonial
	err := q.Order("display_order ASC, created_at DESC").Find(&items).Error
	return items, err
}

func (d *ContentDao) UpdateTestimonial(ctx context.Context, id string, updates map[string]interface{}) (int64, error) {
	result := d.db.WithContext(ctx).Model(&model.Testimonial{}).Where("id = ?", id).Updates(updates)
	return result.RowsAffected, result.Error
}

func (d *ContentDao) DeleteTestimonial(ctx context.Context, id string) (int64, error) {
	result := d.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Testimonial{})
	return result.RowsAffected, result.Error
}

// ---- section content ----

func (d *ContentDao) CreateSectionContent(ctx context.Context, s *model.SectionContent) error {
	return d.db.WithContext(ctx).Create(s).Error
}

func (d *ContentDao) GetSectionContentByID(ctx context.Context, id string) (*model.SectionContent, error) {
	var s model.SectionContent
	if err := d.db.WithContext(ctx).Where("id = ?", id).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (d *ContentDao) ListSectionContent(ctx context.Context, pageName, sectionName string, activeOnly bool) ([]*model.SectionContent, error) {
	q := d.db.WithContext(ctx).Model(&model.SectionContent{})
	if pageName != "" {
		q = q.Where("page_name = ?", pageName)
	}
	if sectionName != "" {
		q = q.Where("section_name = ?", sectionName)
	}
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var items []*model.SectionContent
	err := q.Order("page_name ASC, display_order ASC").Find(&items).Error
	return items, err
}

// ListSectionPages returns the distinct page names that have content.
func (d *ContentDao) ListSectionPages(ctx context.Context) ([]string, error) {
	var pages []string
	err := d.db.WithContext(ctx).Model(&model.SectionContent{}).
		Distinct("page_name").
		Order("page_name ASC").
		Pluck("page_name", &pages).Error
	return pages, err
}

func (d *ContentDao) SectionExists(ctx context.Context, pageName, sectionName, excludeID string) (bool, error) {
	q := d.db.WithContext(ctx).Model(&model.SectionContent{}).
		Where("page_name = ? AND section_name = ?", pageName, sectionName)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (d *ContentDao) UpdateSectionContent(ctx context.Context, id string, updates map[string]interface{}) (int64, error) {
	result := d.db.WithContext(ctx).Model(&model.SectionContent{}).Where("id = ?", id).Updates(updates)
	return result.RowsAffected, result.Error
}

func (d *ContentDao) DeleteSectionContent(ctx context.Context, id string) (int64, error) {
	result := d.db.WithContext(ctx).Where("id = ?", id).Delete(&model.SectionContent{})
	return result.RowsAffected, result.Error
}

// BulkUpdateSectionContent applies several section updates in one
// transaction; any miss rolls the batch back.
func (d *ContentDao) BulkUpdateSectionContent(ctx context.Context, updates map[string]map[string]interface{}) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for id, fields := range updates {
			result := tx.Model(&model.SectionContent{}).Where("id = ?", id).Updates(fields)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return nil
	})
}

// touchPublishedAt is shared by page/blog publish transitions: the stamp
// is written once, when is_published first flips on.
func TouchPublishedAt(current *time.Time, publishing bool) *time.Time {
	if publishing && current == nil {
		now := time.Now()
		return &now
	}
	return current
}
