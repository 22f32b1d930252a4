package dao

import (
	"context"

	"github.com/munyanyaguo/Hisi-Studio/internal/model"

	"gorm.io/gorm"
)

type AddressDao struct {
	db *gorm.DB
}

func NewAddressDao(db *gorm.DB) *AddressDao {
	return &AddressDao{db: db}
}

func (d *AddressDao) CreateAddress(ctx context.Context, addr *model.UserAddress) error {
	return d.db.WithContext(ctx).Create(addr).Error
}

// GetAddressOwned loads an address only when it belongs to the user; the
// combined WHERE is the ownership check.
func (d *AddressDao) GetAddressOwned(ctx context.Context, addressID, userID string) (*model.UserAddress, error) {
	var addr model.UserAddress
	err := d.db.WithContext(ctx).Where("id = ? AND user_id = ?", addressID, userID).First(&addr).Error
	if err != nil {
		return nil, err
	}
	return &addr, nil
}

func (d *AddressDao) ListAddresses(ctx context.Context, userID string) ([]*model.UserAddress, error) {
	var addrs []*model.UserAddress
	err := d.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC, created_at DESC").
		Find(&addrs).Error
	return addrs, err
}

func (d *AddressDao) CountAddresses(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(&model.UserAddress{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (d *AddressDao) UpdateAddress(ctx context.Context, addressID, userID string, updates map[string]interface{}) error {
	return d.db.WithContext(ctx).Model(&model.UserAddress{}).
		Where("id = ? AND user_id = ?", addressID, userID).
		Updates(updates).Error
}

func (d *AddressDao) DeleteAddress(ctx context.Context, addressID, userID string) (int64, error) {
	result := d.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", addressID, userID).
		Delete(&model.UserAddress{})
	return result.RowsAffected, result.Error
}

// SetDefault flips the default flag in a single statement so two
// concurrent calls cannot leave two defaults:
// UPDATE user_addresses SET is_default = (id = ?) WHERE user_id = ?.
func (d *AddressDao) SetDefault(ctx context.Context, addressID, userID string) error {
	return d.db.WithContext(ctx).Model(&model.UserAddress{}).
		Where("user_id = ?", userID).
		Update("is_default", gorm.Expr("id = ?", addressID)).Error
}
