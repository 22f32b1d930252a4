package dao

import (
	"context"

	"github.com/munyanyaguo/Hisi-Studio/internal/model"

	"gorm.io/gorm"
)

// PressDao stores the press-page records: the hero block plus the five
// listed families (media coverage, releases, exhibitions, speaking
// engagements, collaborations).
type PressDao struct {
	db *gorm.DB
}

func NewPressDao(db *gorm.DB) *PressDao {
	return &PressDao{db: db}
}

// GetHero returns the hero row, or gorm.ErrRecordNotFound when none has
// been written yet.
func (d *PressDao) GetHero(ctx context.Context) (*model.PressHero, error) {
	var hero model.PressHero
	if err := d.db.WithContext(ctx).First(&hero).Error; err != nil {
		return nil, err
	}
	return &hero, nil
}

// UpsertHero keeps the hero a singleton: update the existing row when one
// exists, insert otherwise.
func (d *PressDao) UpsertHero(ctx context.Context, hero *model.PressHero) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.PressHero
		err := tx.First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			return tx.Create(hero).Error
		}
		if err != nil {
			return err
		}
		hero.ID = existing.ID
		return tx.Model(&existing).Updates(map[string]interface{}{
			"title":       hero.Title,
			"subtitle":    hero.Subtitle,
			"description": hero.Description,
			"image":       hero.Image,
		}).Error
	})
}

// ---- media coverage ----

func (d *PressDao) CreateMediaCoverage(ctx context.Context, m *model.MediaCoverage) error {
	return d.db.WithContext(ctx).Create(m).Error
}

func (d *PressDao) ListMediaCoverage(ctx context.Context, publishedOnly bool) ([]*model.MediaCoverage, error) {
	q := d.db.WithContext(ctx).Model(&model.MediaCoverage{})
	if publishedOnly {
		q = q.Where("is_published = ?", true)
	}
	var items []*model.MediaCoverage
	err := q.Order("display_order ASC, date DESC").Find(&items).Error
	return items, err
}

func (d *PressDao) UpdateMediaCoverage(ctx context.Context, id string, updates map[string]interface{}) (int64, error) {
	result := d.db.WithContext(ctx).Model(&model.MediaCoverage{}).Where("id = ?", id).Updates(updates)
	return result.RowsAffected, result.Error
}

func (d *PressDao) DeleteMediaCoverage(ctx context.Context, id string) (int64, error) {
	result := d.db.WithContext(ctx).Where("id = ?", id).Delete(&model.MediaCoverage{})
	return result.RowsAffected, result.Error
}

// ---- press releases ----

func (d *PressDao) CreatePressRelease(ctx context.Context, r *model.PressRelease) error {
	return d.db.WithContext(ctx).Create(r).Error
}

func (d *PressDao) ListPressReleases(ctx context.Context, publishedOnly bool) ([]*model.PressRelease, error) {
	q := d.db.WithContext(ctx).Model(&model.PressRelease{})
	if publishedOnly {
		q = q.Where("is_published = ?", true)
	}
	var items []*model.PressRelease
	err := q.Order("display_order ASC, date DESC").Find(&items).Error
	return items, err
}

func (d *PressDao) UpdatePressRelease(ctx context.Context, id string, updates map[string]interface{}) (int64, error) {
	result := d.db.WithContext(ctx).Model(&model.PressRelease{}).Where("id = ?", id).Updates(updates)
	return result.RowsAffected, result.Error
}

func (d *PressDao) DeletePressRelease(ctx context.Context, id string) (int64, error) {
	result := d.db.WithContext(ctx).Where("id = ?", id).Delete(&model.PressRelease{})
	return result.RowsAffected, result.Error
}

// ---- exhibitions ----

func (d *PressDao) CreateExhibition(ctx context.Context, x *model.Exhibition) error {
	return d.db.WithContext(ctx).Create(x).Error
}

func (d *PressDao) ListExhibitions(ctx context.Context, publishedOnly bool) ([]*model.Exhibition, error) {
	q := d.db.WithContext(ctx).Model(&model.Exhibition{})
	if publishedOnly {
		q = q.Where("is_published = ?", true)
	}
	var items []*model.Exhibition
	err := q.Order("display_order ASC, start_date DESC").Find(&items).Error
	return items, err
}

func (d *PressDao) UpdateExhibition(ctx context.Context, id string, updates map[string]interface{}) (int64, error) {
	result := d.db.WithContext(ctx).Model(&model.Exhibition{}).Where("id = ?", id).Updates(updates)
	return result.RowsAffected, result.Error
}

func (d *PressDao) DeleteExhibition(ctx context.Context, id string) (int64, error) {
	result := d.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Exhibition{})
	return result.RowsAffected, result.Error
}

// ---- speaking engagements ----

func (d *PressDao) CreateSpeakingEngagement(ctx context.Context, s *model.SpeakingEngagement) error {
	return d.db.WithContext(ctx).Create(s).Error
}

func (d *PressDao) ListSpeakingEngagements(ctx context.Context, publishedOnly bool) ([]*model.SpeakingEngagement, error) {
	q := d.db.WithContext(ctx).Model(&model.SpeakingEngagement{})
	if publishedOnly {
		q = q.Where("is_published = ?", true)
	}
	var items []*model.SpeakingEngagement
	err := q.Order("display_order ASC, date DESC").Find(&items).Error
	return items, err
}

func (d *PressDao) UpdateSpeakingEngagement(ctx context.Context, id string, updates map[string]interface{}) (int64, error) {
	result := d.db.WithContext(ctx).Model(&model.SpeakingEngagement{}).Where("id = ?", id).Updates(updates)
	return result.RowsAffected, result.Error
}

func (d *PressDao) DeleteSpeakingEngagement(ctx context.Context, id string) (int64, error) {
	result := d.db.WithContext(ctx).Where("id = ?", id).Delete(&model.SpeakingEngagement{})
	return result.RowsAffected, result.Error
}

// ---- collaborations ----

func (d *PressDao) CreateCollaboration(ctx context.Context, c *model.Collaboration) error {
	return d.db.WithContext(ctx).Create(c).Error
}

func (d *PressDao) ListCollaborations(ctx context.Context, publishedOnly bool) ([]*model.Collaboration, error) {
	q := d.db.WithContext(ctx).Model(&model.Collaboration{})
	if publishedOnly {
		q = q.Where("is_published = ?", true)
	}
	var items []*model.Collaboration
	err := q.Order("display_order ASC, year DESC").Find(&items).Error
	return items, err
}

func (d *PressDao) UpdateCollaboration(ctx context.Context, id string, updates map[string]interface{}) (int64, error) {
	result := d.db.WithContext(ctx).Model(&model.Collaboration{}).Where("id = ?", id).Updates(updates)
	return result.RowsAffected, result.Error
}

func (d *PressDao) DeleteCollaboration(ctx context.Context, id string) (int64, error) {
	result := d.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Collaboration{})
	return result.RowsAffected, result.Error
}
