package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenStore tracks revoked refresh tokens. Logout writes the token id
// here; refresh checks membership before minting a new access token.
type TokenStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

const revokedTokenPrefix = "auth:revoked:"

type redisTokenStore struct {
	client redis.UniversalClient
}

// NewRedisTokenStore backs revocation with redis, TTL-bounded so entries
// expire with the tokens they shadow.
func NewRedisTokenStore(client redis.UniversalClient) TokenStore {
	return &redisTokenStore{client: client}
}

func (s *redisTokenStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	return s.client.Set(ctx, revokedTokenPrefix+tokenID, 1, ttl).Err()
}

func (s *redisTokenStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, revokedTokenPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// noopTokenStore is used when redis is disabled: logout becomes
// client-side only and refresh tokens stay valid until expiry.
type noopTokenStore struct{}

func NewNoopTokenStore() TokenStore {
	return noopTokenStore{}
}

func (noopTokenStore) Revoke(context.Context, string, time.Duration) error { return nil }

func (noopTokenStore) IsRevoked(context.Context, string) (bool, error) { return false, nil }
