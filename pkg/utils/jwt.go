package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var (
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenInvalid   = errors.New("token invalid")
	ErrWrongTokenType = errors.New("wrong token type")
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// JWTUtil issues and parses the access/refresh token pair.
type JWTUtil struct {
	secret        string
	accessExpire  time.Duration
	refreshExpire time.Duration
}

func NewJWTUtil(secret string, accessExpireMins, refreshExpireHours int) *JWTUtil {
	return &JWTUtil{
		secret:        secret,
		accessExpire:  time.Duration(accessExpireMins) * time.Minute,
		refreshExpire: time.Duration(refreshExpireHours) * time.Hour,
	}
}

type Claims struct {
	UserID    string `json:"user_id"`
	Role      string `json:"role"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenPair is what login and refresh hand back to the client.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// GenerateTokenPair mints a short-lived access token and a long-lived
// refresh token for the user.
func (j *JWTUtil) GenerateTokenPair(userID, role string) (*TokenPair, error) {
	access, err := j.generate(userID, role, TokenTypeAccess, j.accessExpire)
	if err != nil {
		return nil, err
	}
	refresh, err := j.generate(userID, role, TokenTypeRefresh, j.refreshExpire)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(j.accessExpire.Seconds()),
	}, nil
}

// GenerateAccessToken mints only a new access token, used by the refresh flow.
func (j *JWTUtil) GenerateAccessToken(userID, role string) (string, error) {
	return j.generate(userID, role, TokenTypeAccess, j.accessExpire)
}

func (j *JWTUtil) generate(userID, role, tokenType string, expire time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:    userID,
		Role:      role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(expire)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secret))
}

// ParseToken parses and validates a token of the expected type.
func (j *JWTUtil) ParseToken(tokenString, expectedType string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(j.secret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.TokenType != expectedType {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}

// RefreshExpire exposes the refresh-token lifetime for revocation-list TTLs.
func (j *JWTUtil) RefreshExpire() time.Duration {
	return j.refreshExpire
}
