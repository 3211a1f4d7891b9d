package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Key helpers
func resultKey(prefix, kind, input string) string {
	sum := sha256.Sum256([]byte(input))
	return fmt.Sprintf("%sresult:%s:%s", prefix, kind, hex.EncodeToString(sum[:]))
}

// GetResult loads a cached result for (kind, input) into dest.
// found is false when nothing is cached.
func (c *Client) GetResult(ctx context.Context, kind, input string, dest any) (found bool, err error) {
	data, err := c.rdb.Get(ctx, resultKey(c.prefix, kind, input)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get failed: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cached result: %w", err)
	}
	return true, nil
}

// SetResult caches value for (kind, input) with the configured TTL.
func (c *Client) SetResult(ctx context.Context, kind, input string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	if err := c.rdb.Set(ctx, resultKey(c.prefix, kind, input), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("set failed: %w", err)
	}
	return nil
}
