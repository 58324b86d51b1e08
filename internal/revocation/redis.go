package revocation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyTemplate = "_freelancepay_revoked_%s"

// Redis is a Store shared by every server instance. Entries expire with the
// token, so Redis does the cleanup.
type Redis struct {
	cli *redis.Client
}

var _ Store = (*Redis)(nil)

func NewRedis(cli *redis.Client) *Redis {
	return &Redis{cli: cli}
}

func (r *Redis) Revoke(ctx context.Context, id string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := r.cli.Set(ctx, fmt.Sprintf(keyTemplate, id), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (r *Redis) IsRevoked(ctx context.Context, id string) (bool, error) {
	err := r.cli.Get(ctx, fmt.Sprintf(keyTemplate, id)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check revocation: %w", err)
	}
	return true, nil
}
