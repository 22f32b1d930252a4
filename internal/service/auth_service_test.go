package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/munyanyaguo/Hisi-Studio/internal/dao"
	"github.com/munyanyaguo/Hisi-Studio/internal/model"
	"github.com/munyanyaguo/Hisi-Studio/pkg/e"
	"github.com/munyanyaguo/Hisi-Studio/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// memTokenStore is an in-memory TokenStore standing in for redis.
type memTokenStore struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func newMemTokenStore() *memTokenStore {
	return &memTokenStore{revoked: map[string]bool{}}
}

func (m *memTokenStore) Revoke(_ context.Context, tokenID string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[tokenID] = true
	return nil
}

func (m *memTokenStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.revoked[tokenID], nil
}

func newAuthService(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	jwtUtil := utils.NewJWTUtil("test-secret", 15, 168)
	return NewAuthService(dao.NewUserDao(db), jwtUtil, newMemTokenStore()), db
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	result, err := svc.Register(ctx, &RegisterRequest{
		Email:     "Amina@Example.com ",
		Password:  "hunter2hunter2",
		FirstName: "Amina",
	})
	require.NoError(t, err)
	assert.Equal(t, "amina@example.com", result.User.Email)
	assert.Equal(t, model.RoleCustomer, result.User.Role)
	assert.NotEmpty(t, result.Tokens.AccessToken)

	login, err := svc.Login(ctx, &LoginRequest{Email: "amina@example.com", Password: "hunter2hunter2"})
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, login.User.ID)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterRequest{Email: "not-an-email", Password: "hunter2hunter2"})
	assert.True(t, e.IsKind(err, e.KindValidation))

	_, err = svc.Register(ctx, &RegisterRequest{Email: "a@b.com", Password: "short"})
	assert.True(t, e.IsKind(err, e.KindValidation))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterRequest{Email: "a@b.com", Password: "hunter2hunter2"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, &RegisterRequest{Email: "A@B.com", Password: "hunter2hunter2"})
	assert.True(t, e.IsKind(err, e.KindConflict))
}

func TestRegisterIgnoresRoleEscalation(t *testing.T) {
	svc, db := newAuthService(t)

	result, err := svc.Register(context.Background(), &RegisterRequest{Email: "c@d.com", Password: "hunter2hunter2"})
	require.NoError(t, err)

	var user model.User
	require.NoError(t, db.First(&user, "id = ?", result.User.ID).Error)
	assert.Equal(t, model.RoleCustomer, user.Role)
}

func TestLoginWrongCredentialsSameMessage(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterRequest{Email: "a@b.com", Password: "hunter2hunter2"})
	require.NoError(t, err)

	_, errMissing := svc.Login(ctx, &LoginRequest{Email: "ghost@b.com", Password: "whatever123"})
	_, errWrongPw := svc.Login(ctx, &LoginRequest{Email: "a@b.com", Password: "wrongwrong1"})

	require.Error(t, errMissing)
	require.Error(t, errWrongPw)
	// No account-existence oracle.
	assert.Equal(t, errMissing.Error(), errWrongPw.Error())
	assert.True(t, e.IsKind(errMissing, e.KindUnauthorized))
}

func TestLoginDeactivatedAccount(t *testing.T) {
	svc, db := newAuthService(t)
	ctx := context.Background()

	result, err := svc.Register(ctx, &RegisterRequest{Email: "a@b.com", Password: "hunter2hunter2"})
	require.NoError(t, err)
	require.NoError(t, db.Model(&model.User{}).Where("id = ?", result.User.ID).Update("is_active", false).Error)

	_, err = svc.Login(ctx, &LoginRequest{Email: "a@b.com", Password: "hunter2hunter2"})
	assert.True(t, e.IsKind(err, e.KindForbidden))
}

func TestRefreshAndLogoutRevocation(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	result, err := svc.Register(ctx, &RegisterRequest{Email: "a@b.com", Password: "hunter2hunter2"})
	require.NoError(t, err)
	refresh := result.Tokens.RefreshToken

	pair, err := svc.Refresh(ctx, refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.Equal(t, refresh, pair.RefreshToken)

	svc.Logout(ctx, refresh)

	_, err = svc.Refresh(ctx, refresh)
	assert.True(t, e.IsKind(err, e.KindUnauthorized))
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	result, err := svc.Register(ctx, &RegisterRequest{Email: "a@b.com", Password: "hunter2hunter2"})
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, result.Tokens.AccessToken)
	assert.True(t, e.IsKind(err, e.KindUnauthorized))
}

func TestChangePassword(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	result, err := svc.Register(ctx, &RegisterRequest{Email: "a@b.com", Password: "hunter2hunter2"})
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, result.User.ID, &ChangePasswordRequest{CurrentPassword: "wrong", NewPassword: "newpassword1"})
	assert.True(t, e.IsKind(err, e.KindUnauthorized))

	err = svc.ChangePassword(ctx, result.User.ID, &ChangePasswordRequest{CurrentPassword: "hunter2hunter2", NewPassword: "newpassword1"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &LoginRequest{Email: "a@b.com", Password: "newpassword1"})
	assert.NoError(t, err)
}
