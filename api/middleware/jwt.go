package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/munyanyaguo/Hisi-Studio/internal/dao"
	"github.com/munyanyaguo/Hisi-Studio/internal/model"
	"github.com/munyanyaguo/Hisi-Studio/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Context keys set by the auth middleware.
const (
	CtxUserID = "user_id"
	CtxRole   = "role"
)

// AccessTokenCookie lets browser clients authenticate without headers.
const AccessTokenCookie = "access_token"

// extractToken pulls the access token from the Authorization header,
// falling back to the cookie.
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil {
		return cookie
	}
	return ""
}

func unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"message": message,
	})
	c.Abort()
}

func forbidden(c *gin.Context, message string) {
	c.JSON(http.StatusForbidden, gin.H{
		"success": false,
		"message": message,
	})
	c.Abort()
}

// AuthRequired rejects requests without a valid access token and injects
// the user id and role into the context.
func AuthRequired(jwtUtil *utils.JWTUtil) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			unauthorized(c, "authentication required")
			return
		}

		claims, err := jwtUtil.ParseToken(token, utils.TokenTypeAccess)
		if err != nil {
			if errors.Is(err, utils.ErrTokenExpired) {
				unauthorized(c, "token expired")
			} else {
				unauthorized(c, "invalid token")
			}
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxRole, claims.Role)
		c.Next()
	}
}

// AuthOptional parses a token when present but never rejects; guest cart
// routes use it so the same handlers serve both audiences.
func AuthOptional(jwtUtil *utils.JWTUtil) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token != "" {
			if claims, err := jwtUtil.ParseToken(token, utils.TokenTypeAccess); err == nil {
				c.Set(CtxUserID, claims.UserID)
				c.Set(CtxRole, claims.Role)
			}
		}
		c.Next()
	}
}

// AdminRequired allows any admin tier. Must run after AuthRequired.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := model.Role(c.GetString(CtxRole))
		if !role.IsAdmin() {
			forbidden(c, "admin access required")
			return
		}
		c.Next()
	}
}

// SuperAdminRequired restricts a route to super_admin.
func SuperAdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := model.Role(c.GetString(CtxRole))
		if !role.IsSuperAdmin() {
			forbidden(c, "super admin access required")
			return
		}
		c.Next()
	}
}

// PermissionRequired enforces a fine-grained permission. super_admin
// passes implicitly; content_manager permissions are read from the
// database so grants take effect without re-login.
func PermissionRequired(userDao *dao.UserDao, permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := model.Role(c.GetString(CtxRole))
		if role.IsSuperAdmin() {
			c.Next()
			return
		}
		if !role.IsAdmin() {
			forbidden(c, "admin access required")
			return
		}

		user, err := userDao.GetUserByID(c.Request.Context(), c.GetString(CtxUserID))
		if err != nil {
			unauthorized(c, "account no longer exists")
			return
		}
		if !user.HasPermission(permission) {
			forbidden(c, "missing permission: "+permission)
			return
		}
		c.Next()
	}
}
