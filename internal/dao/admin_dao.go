package dao

import (
	"context"
	"time"

	"github.com/munyanyaguo/Hisi-Studio/internal/model"

	"gorm.io/gorm"
)

// AdminDao holds admin-side records that have no storefront surface:
// notifications, the media library and curated product collections.
type AdminDao struct {
	db *gorm.DB
}

func NewAdminDao(db *gorm.DB) *AdminDao {
	return &AdminDao{db: db}
}

// ---- notifications ----

func (d *AdminDao) CreateNotification(ctx context.Context, n *model.Notification) error {
	return d.db.WithContext(ctx).Create(n).Error
}

// CreateNotifications inserts a batch, used when fanning an event out to
// every admin.
func (d *AdminDao) CreateNotifications(ctx context.Context, ns []*model.Notification) error {
	if len(ns) == 0 {
		return nil
	}
	return d.db.WithContext(ctx).Create(ns).Error
}

func (d *AdminDao) ListNotifications(ctx context.Context, userID string, unreadOnly bool, page, pageSize int) ([]*model.Notification, int64, error) {
	q := d.db.WithContext(ctx).Model(&model.Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []*model.Notification
	err := q.Order("created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&items).Error
	return items, total, err
}

func (d *AdminDao) CountUnreadNotifications(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// MarkNotificationRead scopes by user_id so one admin cannot read
// another's inbox.
func (d *AdminDao) MarkNotificationRead(ctx context.Context, notificationID, userID string) (int64, error) {
	now := time.Now()
	result := d.db.WithContext(ctx).Model(&model.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Updates(map[string]interface{}{"is_read": true, "read_at": now})
	return result.RowsAffected, result.Error
}

func (d *AdminDao) MarkAllNotificationsRead(ctx context.Context, userID string) (int64, error) {
	now := time.Now()
	result := d.db.WithContext(ctx).Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": now})
	return result.RowsAffected, result.Error
}

// ---- media files ----

func (d *AdminDao) CreateMediaFile(ctx context.Context, m *model.MediaFile) error {
	return d.db.WithContext(ctx).Create(m).Error
}

func (d *AdminDao) GetMediaFileByID(ctx context.Context, id string) (*model.MediaFile, error) {
	var m model.MediaFile
	if err := d.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (d *AdminDao) ListMediaFiles(ctx context.Context, fileType, search string, page, pageSize int) ([]*model.MediaFile, int64, error) {
	q := d.db.WithContext(ctx).Model(&model.MediaFile{})
	if fileType != "" {
		q = q.Where("file_type = ?", fileType)
	}
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("filename LIKE ? OR original_filename LIKE ? OR alt_text LIKE ?", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var files []*model.MediaFile
	err := q.Order("created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&files).Error
	return files, total, err
}

func (d *AdminDao) UpdateMediaFile(ctx context.Context, id string, updates map[string]interface{}) (int64, error) {
	result := d.db.WithContext(ctx).Model(&model.MediaFile{}).Where("id = ?", id).Updates(updates)
	return result.RowsAffected, result.Error
}

func (d *AdminDao) DeleteMediaFile(ctx context.Context, id string) (int64, error) {
	result := d.db.WithContext(ctx).Where("id = ?", id).Delete(&model.MediaFile{})
	return result.RowsAffected, result.Error
}

// ---- product collections ----

func (d *AdminDao) CreateCollection(ctx context.Context, c *model.ProductCollection) error {
	return d.db.WithContext(ctx).Create(c).Error
}

func (d *AdminDao) GetCollectionBySlug(ctx context.Context, slug string, publishedOnly bool) (*model.ProductCollection, error) {
	q := d.db.WithContext(ctx).Where("slug = ?", slug)
	if publishedOnly {
		q = q.Where("is_published = ?", true)
	}
	var c model.ProductCollection
	if err := q.First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (d *AdminDao) ListCollections(ctx context.Context, publishedOnly bool) ([]*model.ProductCollection, error) {
	q := d.db.WithContext(ctx).Model(&model.ProductCollection{})
	if publishedOnly {
		q = q.Where("is_published = ?", true)
	}
	var items []*model.ProductCollection
	err := q.Order("display_order ASC, created_at DESC").Find(&items).Error
	return items, err
}

func (d *AdminDao) UpdateCollection(ctx context.Context, id string, updates map[string]interface{}) (int64, error) {
	result := d.db.WithContext(ctx).Model(&model.ProductCollection{}).Where("id = ?", id).Updates(updates)
	return result.RowsAffected, result.Error
}

func (d *AdminDao) DeleteCollection(ctx context.Context, id string) (int64, error) {
	result := d.db.WithContext(ctx).Where("id = ?", id).Delete(&model.ProductCollection{})
	return result.RowsAffected, result.Error
}

func (d *AdminDao) CollectionSlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	q := d.db.WithContext(ctx).Model(&model.ProductCollection{}).Where("slug = ?", slug)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
