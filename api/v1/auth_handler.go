package v1

import (
	"github.com/munyanyaguo/Hisi-Studio/api/middleware"
	"github.com/munyanyaguo/Hisi-Studio/internal/service"
	"github.com/munyanyaguo/Hisi-Studio/pkg/logger"
	"github.com/munyanyaguo/Hisi-Studio/pkg/utils"

	"github.com/gin-gonic/gin"
)

// SessionHeader carries the guest cart session id; login and register
// read it to merge the guest cart into the account.
const SessionHeader = "X-Session-ID"

type AuthHandler struct {
	authService *service.AuthService
	cartService *service.CartService
	jwtUtil     *utils.JWTUtil
}

func NewAuthHandler(authService *service.AuthService, cartService *service.CartService, jwtUtil *utils.JWTUtil) *AuthHandler {
	return &AuthHandler{authService: authService, cartService: cartService, jwtUtil: jwtUtil}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "email and password are required")
		return
	}

	result, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		Fail(c, err)
		return
	}

	h.mergeGuestCart(c, result.User.ID)
	Created(c, "account created", result)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "email and password are required")
		return
	}

	result, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		Fail(c, err)
		return
	}

	h.mergeGuestCart(c, result.User.ID)
	OK(c, "logged in", result)
}

// mergeGuestCart folds the guest session cart into the account cart.
// Merge failure never fails the login itself.
func (h *AuthHandler) mergeGuestCart(c *gin.Context, userID string) {
	sessionID := c.GetHeader(SessionHeader)
	if sessionID == "" {
		return
	}
	if err := h.cartService.MergeGuestCart(c.Request.Context(), userID, sessionID); err != nil {
		logger.Warn("guest cart merge failed", "user_id", userID, "error", err)
	}
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "refresh_token is required")
		return
	}

	tokens, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, "token refreshed", tokens)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	var req refreshRequest
	// Logout with no body still succeeds; there is just nothing to revoke.
	_ = c.ShouldBindJSON(&req)
	h.authService.Logout(c.Request.Context(), req.RefreshToken)
	OK(c, "logged out", nil)
}

func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authService.Me(c.Request.Context(), c.GetString(middleware.CtxUserID))
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, "profile", user)
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req service.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}

	user, err := h.authService.UpdateProfile(c.Request.Context(), c.GetString(middleware.CtxUserID), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, "profile updated", user)
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req service.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "current and new passwords are required")
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), c.GetString(middleware.CtxUserID), &req); err != nil {
		Fail(c, err)
		return
	}
	OK(c, "password changed", nil)
}

func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.Refresh)
		auth.POST("/logout", h.Logout)
		auth.GET("/me", authMW, h.Me)
		auth.PUT("/me", authMW, h.UpdateProfile)
		auth.PUT("/password", authMW, h.ChangePassword)
	}
}
