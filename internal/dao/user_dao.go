package dao

import (
	"context"
	"time"

	"github.com/munyanyaguo/Hisi-Studio/internal/model"

	"gorm.io/gorm"
)

type UserDao struct {
	db *gorm.DB
}

func NewUserDao(db *gorm.DB) *UserDao {
	return &UserDao{db: db}
}

func (dao *UserDao) CreateUser(ctx context.Context, user *model.User) error {
	return dao.db.WithContext(ctx).Create(user).Error
}

func (dao *UserDao) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := dao.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (dao *UserDao) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := dao.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// EmailExists checks whether a registration email is already taken.
func (dao *UserDao) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := dao.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateUser applies a partial update. Password changes go through
// UpdateUserPassword instead.
func (dao *UserDao) UpdateUser(ctx context.Context, userID string, updates map[string]interface{}) error {
	return dao.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).Updates(updates).Error
}

func (dao *UserDao) UpdateUserPassword(ctx context.Context, userID, newPasswordHash string) error {
	return dao.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"password_hash": newPasswordHash,
		"updated_at":    time.Now(),
	}).Error
}

func (dao *UserDao) TouchLastLogin(ctx context.Context, userID string) error {
	return dao.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).
		Update("last_login", time.Now()).Error
}

// ListCustomers returns paginated customer-tier accounts for the admin
// console.
func (dao *UserDao) ListCustomers(ctx context.Context, search string, page, pageSize int) ([]*model.User, int64, error) {
	q := dao.db.WithContext(ctx).Model(&model.User{}).Where("role = ?", model.RoleCustomer)
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("email LIKE ? OR first_name LIKE ? OR last_name LIKE ?", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []*model.User
	err := q.Order("created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&users).Error

	return users, total, err
}

// ListAdmins returns every admin-tier account, used for notification
// fan-out.
func (dao *UserDao) ListAdmins(ctx context.Context) ([]*model.User, error) {
	var users []*model.User
	err := dao.db.WithContext(ctx).
		Where("role IN ?", []model.Role{model.RoleContentManager, model.RoleSuperAdmin}).
		Find(&users).Error
	return users, err
}
