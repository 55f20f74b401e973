package app

import (
	"fmt"

	"github.com/yungbote/neurobridge-tutor/internal/clients/redis"
	"github.com/yungbote/neurobridge-tutor/internal/config"
	"github.com/yungbote/neurobridge-tutor/internal/data/db"
	"github.com/yungbote/neurobridge-tutor/internal/platform/logger"
)

type Clients struct {
	DB           *db.Service
	ProfileCache redis.ProfileCache
}

// wireClients opens the profile store and its cache. Both are optional: with driver
// "none" the tutor only serves inline profiles, and the cache needs a store to front.
func wireClients(log *logger.Logger, cfg *config.Config) (Clients, error) {
	log.Info("Wiring clients...")

	store, err := db.Open(cfg.DB, log)
	if err != nil {
		return Clients{}, fmt.Errorf("init profile store: %w", err)
	}
	if store == nil {
		return Clients{}, nil
	}
	if err := db.AutoMigrateAll(store.DB()); err != nil {
		_ = store.Close()
		return Clients{}, fmt.Errorf("profile store automigrate: %w", err)
	}

	out := Clients{DB: store}
	if cfg.Redis.Addr != "" {
		cache, err := redis.NewProfileCache(cfg.Redis, log)
		if err != nil {
			_ = store.Close()
			return Clients{}, fmt.Errorf("init redis profile cache: %w", err)
		}
		out.ProfileCache = cache
	}
	return out, nil
}

func (c Clients) Close() error {
	var firstErr error
	if c.ProfileCache != nil {
		if err := c.ProfileCache.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
