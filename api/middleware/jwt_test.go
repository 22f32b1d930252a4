package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/munyanyaguo/Hisi-Studio/internal/dao"
	"github.com/munyanyaguo/Hisi-Studio/internal/model"
	"github.com/munyanyaguo/Hisi-Studio/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestJWT() *utils.JWTUtil {
	return utils.NewJWTUtil("test-secret", 15, 168)
}

// okHandler echoes the identity the middleware injected.
func okHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"user_id": c.GetString(CtxUserID),
		"role":    c.GetString(CtxRole),
	})
}

func doRequest(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequired(t *testing.T) {
	jwtUtil := newTestJWT()
	r := gin.New()
	r.GET("/protected", AuthRequired(jwtUtil), okHandler)

	pair, err := jwtUtil.GenerateTokenPair("user-1", string(model.RoleCustomer))
	require.NoError(t, err)

	t.Run("missing token", func(t *testing.T) {
		w := doRequest(r, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		w := doRequest(r, "Token "+pair.AccessToken)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid bearer token", func(t *testing.T) {
		w := doRequest(r, "Bearer "+pair.AccessToken)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "user-1")
	})

	t.Run("refresh token rejected on access routes", func(t *testing.T) {
		w := doRequest(r, "Bearer "+pair.RefreshToken)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		expired := utils.NewJWTUtil("test-secret", 0, 0)
		stale, err := expired.GenerateTokenPair("user-1", string(model.RoleCustomer))
		require.NoError(t, err)
		w := doRequest(r, "Bearer "+stale.AccessToken)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "token expired")
	})

	t.Run("cookie fallback", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: pair.AccessToken})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestAuthOptional(t *testing.T) {
	jwtUtil := newTestJWT()
	r := gin.New()
	r.GET("/protected", AuthOptional(jwtUtil), okHandler)

	t.Run("anonymous passes", func(t *testing.T) {
		w := doRequest(r, "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("bad token passes as anonymous", func(t *testing.T) {
		w := doRequest(r, "Bearer garbage")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), "user-1")
	})

	t.Run("valid token identifies the user", func(t *testing.T) {
		pair, err := jwtUtil.GenerateTokenPair("user-1", string(model.RoleCustomer))
		require.NoError(t, err)
		w := doRequest(r, "Bearer "+pair.AccessToken)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "user-1")
	})
}

func TestAdminRequired(t *testing.T) {
	jwtUtil := newTestJWT()
	r := gin.New()
	r.GET("/protected", AuthRequired(jwtUtil), AdminRequired(), okHandler)

	cases := map[model.Role]int{
		model.RoleCustomer:       http.StatusForbidden,
		model.RoleContentManager: http.StatusOK,
		model.RoleSuperAdmin:     http.StatusOK,
	}
	for role, want := range cases {
		pair, err := jwtUtil.GenerateTokenPair("user-1", string(role))
		require.NoError(t, err)
		w := doRequest(r, "Bearer "+pair.AccessToken)
		assert.Equal(t, want, w.Code, "role %s", role)
	}
}

func TestSuperAdminRequired(t *testing.T) {
	jwtUtil := newTestJWT()
	r := gin.New()
	r.GET("/protected", AuthRequired(jwtUtil), SuperAdminRequired(), okHandler)

	pair, err := jwtUtil.GenerateTokenPair("user-1", string(model.RoleContentManager))
	require.NoError(t, err)
	w := doRequest(r, "Bearer "+pair.AccessToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	pair, err = jwtUtil.GenerateTokenPair("user-1", string(model.RoleSuperAdmin))
	require.NoError(t, err)
	w = doRequest(r, "Bearer "+pair.AccessToken)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPermissionRequired(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}))
	userDao := dao.NewUserDao(db)

	granted := &model.User{
		Email:        "editor@example.com",
		PasswordHash: "x",
		Role:         model.RoleContentManager,
		Permissions:  datatypes.JSONSlice[string]{model.PermManageContent},
		IsActive:     true,
	}
	require.NoError(t, db.Create(granted).Error)

	denied := &model.User{
		Email:        "viewer@example.com",
		PasswordHash: "x",
		Role:         model.RoleContentManager,
		IsActive:     true,
	}
	require.NoError(t, db.Create(denied).Error)

	super := &model.User{
		Email:        "root@example.com",
		PasswordHash: "x",
		Role:         model.RoleSuperAdmin,
		IsActive:     true,
	}
	require.NoError(t, db.Create(super).Error)

	jwtUtil := newTestJWT()
	r := gin.New()
	r.GET("/protected", AuthRequired(jwtUtil), PermissionRequired(userDao, model.PermManageContent), okHandler)

	request := func(userID string, role model.Role) int {
		pair, err := jwtUtil.GenerateTokenPair(userID, string(role))
		require.NoError(t, err)
		return doRequest(r, "Bearer "+pair.AccessToken).Code
	}

	assert.Equal(t, http.StatusOK, request(granted.ID, granted.Role))
	assert.Equal(t, http.StatusForbidden, request(denied.ID, denied.Role))
	// super_admin bypasses the database check entirely.
	assert.Equal(t, http.StatusOK, request(super.ID, super.Role))
	// Customer tokens never reach the permission lookup.
	assert.Equal(t, http.StatusForbidden, request(granted.ID, model.RoleCustomer))
	// A deleted admin account is rejected even with a live token.
	assert.Equal(t, http.StatusUnauthorized, request("ghost-id", model.RoleContentManager))
}
