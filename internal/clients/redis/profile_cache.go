package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/neurobridge-tutor/internal/config"
	"github.com/yungbote/neurobridge-tutor/internal/persona"
	"github.com/yungbote/neurobridge-tutor/internal/platform/logger"
)

// ProfileCache keeps the selection view of student profiles so repeat selects skip the
// database. A miss is (zero, false, nil).
type ProfileCache interface {
	Get(ctx context.Context, userID uuid.UUID) (persona.StudentProfile, bool, error)
	Set(ctx context.Context, userID uuid.UUID, profile persona.StudentProfile) error
	Invalidate(ctx context.Context, userID uuid.UUID) error
	Ping(ctx context.Context) error
	Close() error
}

type profileCache struct {
	log    *logger.Logger
	rdb    *goredis.Client
	prefix string
	ttl    time.Duration
}

// NewProfileCache dials cfg.Addr and pings it; a cache that cannot be reached is an error.
func NewProfileCache(cfg config.RedisConfig, log *logger.Logger) (ProfileCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return newProfileCache(rdb, cfg, log), nil
}

func newProfileCache(rdb *goredis.Client, cfg config.RedisConfig, log *logger.Logger) *profileCache {
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "tutor:profile:"
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &profileCache{
		log:    log.With("service", "RedisProfileCache"),
		rdb:    rdb,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (c *profileCache) key(userID uuid.UUID) string {
	return c.prefix + userID.String()
}

func (c *profileCache) Get(ctx context.Context, userID uuid.UUID) (persona.StudentProfile, bool, error) {
	raw, err := c.rdb.Get(ctx, c.key(userID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return persona.StudentProfile{}, false, nil
	}
	if err != nil {
		return persona.StudentProfile{}, false, fmt.Errorf("redis get: %w", err)
	}
	var p persona.StudentProfile
	if err := json.Unmarshal(raw, &p); err != nil {
		// A corrupt entry is treated as a miss and dropped.
		c.log.Warn("dropping undecodable cached profile", "user_id", userID.String(), "error", err)
		_ = c.rdb.Del(ctx, c.key(userID)).Err()
		return persona.StudentProfile{}, false, nil
	}
	return p, true, nil
}

func (c *profileCache) Set(ctx context.Context, userID uuid.UUID, profile persona.StudentProfile) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	if err := c.rdb.Set(ctx, c.key(userID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *profileCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	if err := c.rdb.Del(ctx, c.key(userID)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (c *profileCache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *profileCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
