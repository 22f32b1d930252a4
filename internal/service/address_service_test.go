package service

import (
	"context"
	"testing"

	"github.com/munyanyaguo/Hisi-Studio/internal/dao"
	"github.com/munyanyaguo/Hisi-Studio/internal/model"
	"github.com/munyanyaguo/Hisi-Studio/pkg/e"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAddressService(t *testing.T) (*AddressService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewAddressService(dao.NewAddressDao(db)), db
}

func sampleAddress() *AddressRequest {
	return &AddressRequest{
		FullName:     "Wanjiku Kamau",
		Phone:        "+254700000000",
		AddressLine1: "Moi Avenue 12",
		City:         "Nairobi",
	}
}

func TestCreateAddressFirstBecomesDefault(t *testing.T) {
	svc, db := newAddressService(t)
	ctx := context.Background()
	user := createTestUser(t, db, model.RoleCustomer)

	first, err := svc.CreateAddress(ctx, user.ID, sampleAddress())
	require.NoError(t, err)
	assert.True(t, first.IsDefault)
	assert.Equal(t, "Kenya", first.Country)
	assert.Equal(t, "both", first.AddressType)

	second, err := svc.CreateAddress(ctx, user.ID, sampleAddress())
	require.NoError(t, err)
	assert.False(t, second.IsDefault)
}

func TestCreateAddressExplicitDefaultFlipsPrevious(t *testing.T) {
	svc, db := newAddressService(t)
	ctx := context.Background()
	user := createTestUser(t, db, model.RoleCustomer)

	first, err := svc.CreateAddress(ctx, user.ID, sampleAddress())
	require.NoError(t, err)

	req := sampleAddress()
	req.IsDefault = true
	second, err := svc.CreateAddress(ctx, user.ID, req)
	require.NoError(t, err)
	assert.True(t, second.IsDefault)

	var fresh model.UserAddress
	require.NoError(t, db.First(&fresh, "id = ?", first.ID).Error)
	assert.False(t, fresh.IsDefault)

	var defaults int64
	require.NoError(t, db.Model(&model.UserAddress{}).
		Where("user_id = ? AND is_default = ?", user.ID, true).
		Count(&defaults).Error)
	assert.Equal(t, int64(1), defaults)
}

func TestUpdateAddressOwnership(t *testing.T) {
	svc, db := newAddressService(t)
	ctx := context.Background()

	owner := createTestUser(t, db, model.RoleCustomer)
	other := createTestUser(t, db, model.RoleCustomer)

	addr, err := svc.CreateAddress(ctx, owner.ID, sampleAddress())
	require.NoError(t, err)

	req := sampleAddress()
	req.City = "Mombasa"
	_, err = svc.UpdateAddress(ctx, addr.ID, other.ID, req)
	assert.True(t, e.IsKind(err, e.KindNotFound))

	updated, err := svc.UpdateAddress(ctx, addr.ID, owner.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "Mombasa", updated.City)
	assert.Equal(t, "Kenya", updated.Country)
}

func TestDeleteAddress(t *testing.T) {
	svc, db := newAddressService(t)
	ctx := context.Background()
	user := createTestUser(t, db, model.RoleCustomer)

	addr, err := svc.CreateAddress(ctx, user.ID, sampleAddress())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAddress(ctx, addr.ID, user.ID))

	err = svc.DeleteAddress(ctx, addr.ID, user.ID)
	assert.True(t, e.IsKind(err, e.KindNotFound))
}

func TestSetDefaultSingleSurvivor(t *testing.T) {
	svc, db := newAddressService(t)
	ctx := context.Background()
	user := createTestUser(t, db, model.RoleCustomer)

	first, err := svc.CreateAddress(ctx, user.ID, sampleAddress())
	require.NoError(t, err)
	second, err := svc.CreateAddress(ctx, user.ID, sampleAddress())
	require.NoError(t, err)

	promoted, err := svc.SetDefault(ctx, second.ID, user.ID)
	require.NoError(t, err)
	assert.True(t, promoted.IsDefault)

	var fresh model.UserAddress
	require.NoError(t, db.First(&fresh, "id = ?", first.ID).Error)
	assert.False(t, fresh.IsDefault)

	_, err = svc.SetDefault(ctx, "missing-id", user.ID)
	assert.True(t, e.IsKind(err, e.KindNotFound))
}
