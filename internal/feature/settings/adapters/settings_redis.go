package adapters

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"

	"dashboard_backend/internal/feature/settings/usecase"
	"dashboard_backend/internal/shared/quote"
)

// Redis keys for the device-local cache slots. These mirror the three
// preference slots the dashboard keeps on the device.
const (
	keyStocks   = "user_stocks"
	keyCoins    = "user_coins"
	keyLocation = "user_location"
)

// settingsRedis implements usecase.LocalCache on Redis. Values are
// stored as JSON under fixed keys with no TTL, since they are the
// durable local copy of the user's preferences, not a cache of remote
// state.
type settingsRedis struct {
	rdb *redis.Client
}

var _ usecase.LocalCache = (*settingsRedis)(nil)

// NewSettingsRedis creates the Redis-backed local preference cache.
func NewSettingsRedis(rdb *redis.Client) *settingsRedis {
	return &settingsRedis{rdb: rdb}
}

func keyFor(domain usecase.ListDomain) string {
	if domain == usecase.DomainCoins {
		return keyCoins
	}
	return keyStocks
}

// GetList reads a watch-list slot. A missing key reports
// usecase.ErrCacheMiss so callers can distinguish "never written" from
// an explicitly stored empty list.
func (c *settingsRedis) GetList(ctx context.Context, domain usecase.ListDomain) ([]string, error) {
	b, err := c.rdb.Get(ctx, keyFor(domain)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, usecase.ErrCacheMiss
		}
		return nil, err
	}
	var out []string
	if err := json.Unmarshal(b, &out); err != nil {
		// Corrupted slot: drop it and treat as absent.
		_ = c.rdb.Del(ctx, keyFor(domain)).Err()
		return nil, usecase.ErrCacheMiss
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

// SetList overwrites a watch-list slot.
func (c *settingsRedis) SetList(ctx context.Context, domain usecase.ListDomain, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, keyFor(domain), b, 0).Err()
}

// GetLocation reads the stored weather location, or
// usecase.ErrCacheMiss when none was ever saved.
func (c *settingsRedis) GetLocation(ctx context.Context) (*quote.Location, error) {
	b, err := c.rdb.Get(ctx, keyLocation).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, usecase.ErrCacheMiss
		}
		return nil, err
	}
	var loc quote.Location
	if err := json.Unmarshal(b, &loc); err != nil {
		_ = c.rdb.Del(ctx, keyLocation).Err()
		return nil, usecase.ErrCacheMiss
	}
	return &loc, nil
}

// SetLocation overwrites the stored weather location.
func (c *settingsRedis) SetLocation(ctx context.Context, loc quote.Location) error {
	b, err := json.Marshal(loc)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, keyLocation, b, 0).Err()
}
