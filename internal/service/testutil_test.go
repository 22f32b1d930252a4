package service

import (
	"fmt"
	"testing"

	"github.com/munyanyaguo/Hisi-Studio/config"
	"github.com/munyanyaguo/Hisi-Studio/internal/dao"
	"github.com/munyanyaguo/Hisi-Studio/internal/mailer"
	"github.com/munyanyaguo/Hisi-Studio/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.UserAddress{},
		&model.Category{},
		&model.Product{},
		&model.Cart{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.Payment{},
		&model.Review{},
		&model.Notification{},
	))
	return db
}

// newTestNotifier builds a notifier against the test database with mail
// disabled, so fan-out writes notification rows without touching SMTP.
func newTestNotifier(db *gorm.DB) *Notifier {
	return NewNotifier(dao.NewUserDao(db), dao.NewAdminDao(db), mailer.NewMailer(config.SMTPConfig{}))
}

var seq int

func createTestUser(t *testing.T, db *gorm.DB, role model.Role) *model.User {
	t.Helper()
	seq++
	user := &model.User{
		Email:        fmt.Sprintf("user%d@example.com", seq),
		PasswordHash: "x",
		FirstName:    "Test",
		LastName:     "User",
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestProduct(t *testing.T, db *gorm.DB, price float64, stock int) *model.Product {
	t.Helper()
	seq++
	product := &model.Product{
		Name:          fmt.Sprintf("Product %d", seq),
		Slug:          fmt.Sprintf("product-%d", seq),
		SKU:           fmt.Sprintf("SKU-%d", seq),
		Price:         price,
		Currency:      "KES",
		StockQuantity: stock,
		IsActive:      true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}
