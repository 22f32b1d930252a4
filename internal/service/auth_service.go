package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/munyanyaguo/Hisi-Studio/internal/dao"
	"github.com/munyanyaguo/Hisi-Studio/internal/model"
	"github.com/munyanyaguo/Hisi-Studio/pkg/e"
	"github.com/munyanyaguo/Hisi-Studio/pkg/logger"
	"github.com/munyanyaguo/Hisi-Studio/pkg/utils"

	"gorm.io/gorm"
)

type AuthService struct {
	userDao    *dao.UserDao
	jwtUtil    *utils.JWTUtil
	tokenStore TokenStore
}

func NewAuthService(userDao *dao.UserDao, jwtUtil *utils.JWTUtil, tokenStore TokenStore) *AuthService {
	return &AuthService{userDao: userDao, jwtUtil: jwtUtil, tokenStore: tokenStore}
}

type RegisterRequest struct {
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResult bundles the user with a fresh token pair.
type AuthResult struct {
	User   *model.User      `json:"user"`
	Tokens *utils.TokenPair `json:"tokens"`
}

// Register creates a customer account. Every public registration gets the
// customer role; admin accounts are provisioned through the CLI tool.
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, e.Validation("invalid email address")
	}
	if len(req.Password) < 8 {
		return nil, e.Validation("password must be at least 8 characters")
	}

	exists, err := s.userDao.EmailExists(ctx, email)
	if err != nil {
		return nil, e.Internal(err)
	}
	if exists {
		return nil, e.Conflict("an account with this email already exists")
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, e.Internal(err)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Phone:        strings.TrimSpace(req.Phone),
		Role:         model.RoleCustomer,
		IsActive:     true,
	}
	if err := s.userDao.CreateUser(ctx, user); err != nil {
		return nil, e.Internal(err)
	}

	tokens, err := s.jwtUtil.GenerateTokenPair(user.ID, string(user.Role))
	if err != nil {
		return nil, e.Internal(err)
	}

	logger.Info("user registered", "user_id", user.ID, "email", user.Email)
	return &AuthResult{User: user, Tokens: tokens}, nil
}

// Login verifies credentials and mints a token pair. The same message is
// returned for a missing account and a wrong password.
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userDao.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, e.Unauthorized("invalid email or password")
		}
		return nil, e.Internal(err)
	}
	if !utils.CheckPassword(req.Password, user.PasswordHash) {
		return nil, e.Unauthorized("invalid email or password")
	}
	if !user.IsActive {
		return nil, e.Forbidden("account is deactivated")
	}

	tokens, err := s.jwtUtil.GenerateTokenPair(user.ID, string(user.Role))
	if err != nil {
		return nil, e.Internal(err)
	}

	if err := s.userDao.TouchLastLogin(ctx, user.ID); err != nil {
		logger.Warn("failed to record last login", "user_id", user.ID, "error", err)
	}

	return &AuthResult{User: user, Tokens: tokens}, nil
}

// Refresh trades a valid, unrevoked refresh token for a new access token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*utils.TokenPair, error) {
	claims, err := s.jwtUtil.ParseToken(refreshToken, utils.TokenTypeRefresh)
	if err != nil {
		return nil, e.Unauthorized("invalid refresh token")
	}

	revoked, err := s.tokenStore.IsRevoked(ctx, tokenKey(refreshToken))
	if err != nil {
		logger.Warn("revocation check failed, accepting token", "error", err)
	} else if revoked {
		return nil, e.Unauthorized("refresh token has been revoked")
	}

	user, err := s.userDao.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, e.Unauthorized("account no longer exists")
	}
	if !user.IsActive {
		return nil, e.Forbidden("account is deactivated")
	}

	access, err := s.jwtUtil.GenerateAccessToken(user.ID, string(user.Role))
	if err != nil {
		return nil, e.Internal(err)
	}
	return &utils.TokenPair{
		AccessToken:  access,
		RefreshToken: refreshToken,
		ExpiresIn:    claimsExpiresIn(claims),
	}, nil
}

// Logout revokes the refresh token so it cannot mint further access
// tokens. A malformed token is not an error; logout always succeeds.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) {
	if refreshToken == "" {
		return
	}
	if _, err := s.jwtUtil.ParseToken(refreshToken, utils.TokenTypeRefresh); err != nil {
		return
	}
	if err := s.tokenStore.Revoke(ctx, tokenKey(refreshToken), s.jwtUtil.RefreshExpire()); err != nil {
		logger.Warn("failed to revoke refresh token", "error", err)
	}
}

// Me loads the authenticated user's profile.
func (s *AuthService) Me(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userDao.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, e.NotFound("user")
		}
		return nil, e.Internal(err)
	}
	return user, nil
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

func (s *AuthService) ChangePassword(ctx context.Context, userID string, req *ChangePasswordRequest) error {
	if len(req.NewPassword) < 8 {
		return e.Validation("password must be at least 8 characters")
	}

	user, err := s.userDao.GetUserByID(ctx, userID)
	if err != nil {
		return e.Wrap(err)
	}
	if !utils.CheckPassword(req.CurrentPassword, user.PasswordHash) {
		return e.Unauthorized("current password is incorrect")
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return e.Internal(err)
	}
	if err := s.userDao.UpdateUserPassword(ctx, userID, hash); err != nil {
		return e.Internal(err)
	}
	return nil
}

type UpdateProfileRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID string, req *UpdateProfileRequest) (*model.User, error) {
	updates := map[string]interface{}{}
	if req.FirstName != nil {
		updates["first_name"] = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		updates["last_name"] = strings.TrimSpace(*req.LastName)
	}
	if req.Phone != nil {
		updates["phone"] = strings.TrimSpace(*req.Phone)
	}
	if len(updates) > 0 {
		if err := s.userDao.UpdateUser(ctx, userID, updates); err != nil {
			return nil, e.Internal(err)
		}
	}
	return s.Me(ctx, userID)
}

// tokenKey hashes the raw token so the revocation list never stores
// usable credentials.
func tokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func claimsExpiresIn(claims *utils.Claims) int64 {
	if claims.ExpiresAt == nil {
		return 0
	}
	return int64(time.Until(claims.ExpiresAt.Time).Seconds())
}
