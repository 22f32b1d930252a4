package dao

import (
	"context"

	"github.com/munyanyaguo/Hisi-Studio/internal/model"

	"gorm.io/gorm"
)

// ContactDao handles inbound contact messages, consultation bookings and
// newsletter subscriptions.
type ContactDao struct {
	db *gorm.DB
}

func NewContactDao(db *gorm.DB) *ContactDao {
	return &ContactDao{db: db}
}

// ---- contact messages ----

func (d *ContactDao) CreateMessage(ctx context.Context, m *model.ContactMessage) error {
	return d.db.WithContext(ctx).Create(m).Error
}

func (d *ContactDao) GetMessageByID(ctx context.Context, id string) (*model.ContactMessage, error) {
	var m model.ContactMessage
	if err := d.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (d *ContactDao) ListMessages(ctx context.Context, category, status string, unreadOnly bool, page, pageSize int) ([]*model.ContactMessage, int64, error) {
	q := d.db.WithContext(ctx).Model(&model.ContactMessage{})
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var messages []*model.ContactMessage
	err := q.Order("created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&messages).Error
	return messages, total, err
}

func (d *ContactDao) CountUnreadMessages(ctx context.Context) (int64, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(&model.ContactMessage{}).
		Where("is_read = ?", false).
		Count(&count).Error
	return count, err
}

func (d *ContactDao) UpdateMessage(ctx context.Context, id string, updates map[string]interface{}) (int64, error) {
	result := d.db.WithContext(ctx).Model(&model.ContactMessage{}).Where("id = ?", id).Updates(updates)
	return result.RowsAffected, result.Error
}

func (d *ContactDao) DeleteMessage(ctx context.Context, id string) (int64, error) {
	result := d.db.WithContext(ctx).Where("id = ?", id).Delete(&model.ContactMessage{})
	return result.RowsAffected, result.Error
}

// ---- consultations ----

func (d *ContactDao) CreateConsultation(ctx context.Context, c *model.Consultation) error {
	return d.db.WithContext(ctx).Create(c).Error
}

func (d *ContactDao) GetConsultationByID(ctx context.Context, id string) (*model.Consultation, error) {
	var c model.Consultation
	if err := d.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (d *ContactDao) ListConsultations(ctx context.Context, status string, page, pageSize int) ([]*model.Consultation, int64, error) {
	q := d.db.WithContext(ctx).Model(&model.Consultation{})
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []*model.Consultation
	err := q.Order("preferred_date ASC, preferred_time ASC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&items).Error
	return items, total, err
}

func (d *ContactDao) UpdateConsultation(ctx context.Context, id string, updates map[string]interface{}) (int64, error) {
	result := d.db.WithContext(ctx).Model(&model.Consultation{}).Where("id = ?", id).Updates(updates)
	return result.RowsAffected, result.Error
}

func (d *ContactDao) DeleteConsultation(ctx context.Context, id string) (int64, error) {
	result := d.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Consultation{})
	return result.RowsAffected, result.Error
}

// ---- newsletter ----

func (d *ContactDao) GetSubscriberByEmail(ctx context.Context, email string) (*model.NewsletterSubscriber, error) {
	var sub model.NewsletterSubscriber
	if err := d.db.WithContext(ctx).Where("email = ?", email).First(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

func (d *ContactDao) CreateSubscriber(ctx context.Context, sub *model.NewsletterSubscriber) error {
	return d.db.WithContext(ctx).Create(sub).Error
}

func (d *ContactDao) UpdateSubscriber(ctx context.Context, id string, updates map[string]interface{}) error {
	return d.db.WithContext(ctx).Model(&model.NewsletterSubscriber{}).Where("id = ?", id).Updates(updates).Error
}

func (d *ContactDao) ListSubscribers(ctx context.Context, subscribedOnly bool, page, pageSize int) ([]*model.NewsletterSubscriber, int64, error) {
	q := d.db.WithContext(ctx).Model(&model.NewsletterSubscriber{})
	if subscribedOnly {
		q = q.Where("is_subscribed = ?", true)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var subs []*model.NewsletterSubscriber
	err := q.Order("subscribed_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&subs).Error
	return subs, total, err
}
