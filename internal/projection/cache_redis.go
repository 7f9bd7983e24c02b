package projection

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"verifi/pkg/domain"
)

// RedisCache keeps one hash per document: field = requester, value = the
// grant timestamp in RFC 3339.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func grantKey(id domain.DocumentID) string {
	return "grants:" + id.String()
}

func (c *RedisCache) SetGrant(ctx context.Context, id domain.DocumentID, requester domain.Principal, grantedAt time.Time) error {
	err := c.client.HSet(ctx, grantKey(id), requester.String(), grantedAt.Format(time.RFC3339Nano)).Err()
	if err != nil {
		return fmt.Errorf("set grant: %w", err)
	}
	return nil
}

func (c *RedisCache) DeleteGrant(ctx context.Context, id domain.DocumentID, requester domain.Principal) error {
	if err := c.client.HDel(ctx, grantKey(id), requester.String()).Err(); err != nil {
		return fmt.Errorf("delete grant: %w", err)
	}
	return nil
}

func (c *RedisCache) DropDocument(ctx context.Context, id domain.DocumentID) error {
	if err := c.client.Del(ctx, grantKey(id)).Err(); err != nil {
		return fmt.Errorf("drop document grants: %w", err)
	}
	return nil
}

func (c *RedisCache) HasGrant(ctx context.Context, id domain.DocumentID, requester domain.Principal) (bool, error) {
	ok, err := c.client.HExists(ctx, grantKey(id), requester.String()).Result()
	if err != nil {
		return false, fmt.Errorf("check grant: %w", err)
	}
	return ok, nil
}
