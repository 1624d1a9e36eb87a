package commands

import (
	"fmt"

	"github.com/wonny/quantcore/internal/marketdata"
	"github.com/wonny/quantcore/pkg/config"
	"github.com/wonny/quantcore/pkg/database"
	"github.com/wonny/quantcore/pkg/logger"
	"github.com/wonny/quantcore/pkg/redis"
)

// services bundles the shared dependencies every command wires up.
// Postgres and Redis are optional: without them history falls back to
// the deterministic synthetic generator.
type services struct {
	cfg     *config.Config
	log     *logger.Logger
	db      *database.DB
	redis   *redis.Client
	cache   *redis.Cache
	history *marketdata.Service
}

// initServices loads config and connects whatever backends are reachable
func initServices() (*services, error) {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	s := &services{cfg: cfg, log: log}

	// 3. Connect to database (optional)
	var store marketdata.Store
	if db, err := database.New(cfg); err != nil {
		log.WithError(err).Warn("Database unavailable, using synthetic history")
	} else {
		s.db = db
		store = marketdata.NewPriceStore(db.Pool)
	}

	// 4. Connect to Redis (optional)
	if rc, err := redis.New(cfg); err != nil {
		log.WithError(err).Warn("Redis unavailable, cache disabled")
	} else {
		s.redis = rc
		s.cache = redis.NewCache(rc, "quantcore")
	}

	// 5. Create history service
	s.history = marketdata.NewService(store, s.cache, log)

	return s, nil
}

// Close releases backend connections
func (s *services) Close() {
	if s.db != nil {
		s.db.Close()
	}
	if s.redis != nil {
		_ = s.redis.Close()
	}
}
