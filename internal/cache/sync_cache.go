package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/resell_api/internal/models"
)

// lastResultTTL keeps the last sync result around for a week.
const lastResultTTL = 7 * 24 * time.Hour

// KV is the subset of RedisClient the sync cache uses.
type KV interface {
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	SetNX(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, keys ...string) error
}

// SyncCache holds per-platform sync locks and the last sync result.
type SyncCache struct {
	kv      KV
	lockTTL time.Duration
}

// NewSyncCache creates a SyncCache. lockTTL bounds how long a crashed sync
// can block the next one.
func NewSyncCache(kv KV, lockTTL time.Duration) *SyncCache {
	if lockTTL <= 0 {
		lockTTL = 10 * time.Minute
	}
	return &SyncCache{kv: kv, lockTTL: lockTTL}
}

func lockKey(platform models.PlatformType) string {
	return fmt.Sprintf("sync:lock:%s", platform)
}

func lastKey(platform models.PlatformType) string {
	return fmt.Sprintf("sync:last:%s", platform)
}

// Acquire takes the sync lock for platform. ok is false when another sync
// holds it. release only deletes the lock if it still carries our token.
func (c *SyncCache) Acquire(ctx context.Context, platform models.PlatformType) (release func(), ok bool, err error) {
	token := uuid.NewString()
	key := lockKey(platform)

	ok, err = c.kv.SetNX(ctx, key, token, c.lockTTL)
	if err != nil || !ok {
		return func() {}, ok, err
	}

	return func() {
		// Released on a fresh context so a cancelled request still frees the lock.
		bg, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		current, err := c.kv.Get(bg, key)
		if err != nil || current != token {
			return
		}
		if err := c.kv.Delete(bg, key); err != nil {
			log.Warn().Err(err).Str("platform", string(platform)).Msg("Failed to release sync lock")
		}
	}, true, nil
}

// SaveResult stores result as the latest for its platform.
func (c *SyncCache) SaveResult(ctx context.Context, result *models.SyncResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return c.kv.Set(ctx, lastKey(result.Platform), string(data), lastResultTTL)
}

// LastResult returns the latest stored result, or nil when none is cached.
func (c *SyncCache) LastResult(ctx context.Context, platform models.PlatformType) (*models.SyncResult, error) {
	raw, err := c.kv.Get(ctx, lastKey(platform))
	if errors.Is(err, ErrCacheMiss) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var result models.SyncResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, err
	}
	return &result, nil
}
