package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// ReplayGuard suppresses duplicate webhook deliveries. First claims the
// event id and reports true exactly once per window.
type ReplayGuard interface {
	First(ctx context.Context, eventID string) (bool, error)
}

const (
	webhookSeenPrefix = "webhook:seen:"
	webhookSeenTTL    = 24 * time.Hour
)

type redisReplayGuard struct {
	client redis.UniversalClient
}

func NewRedisReplayGuard(client redis.UniversalClient) ReplayGuard {
	return &redisReplayGuard{client: client}
}

func (g *redisReplayGuard) First(ctx context.Context, eventID string) (bool, error) {
	return g.client.SetNX(ctx, webhookSeenPrefix+eventID, 1, webhookSeenTTL).Result()
}

// noopReplayGuard lets every delivery through when redis is disabled; the
// status flip itself stays idempotent, so replays are harmless.
type noopReplayGuard struct{}

func NewNoopReplayGuard() ReplayGuard {
	return noopReplayGuard{}
}

func (noopReplayGuard) First(context.Context, string) (bool, error) { return true, nil }
