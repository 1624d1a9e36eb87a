package cache

import (
	"sync"
	"time"

	"github.com/wonny/quantcore/internal/realtime"
	"github.com/wonny/quantcore/pkg/logger"
)

// PriceCache is an in-memory cache for real-time prices
// ⭐ SSOT: 실시간 가격 캐싱은 이 구조체에서만
type PriceCache struct {
	mu     sync.RWMutex
	prices map[string]*realtime.PriceTick
	ttl    time.Duration
	logger *logger.Logger
}

// NewPriceCache creates a new price cache
func NewPriceCache(ttl time.Duration, log *logger.Logger) *PriceCache {
	if log == nil {
		log = logger.Nop()
	}
	return &PriceCache{
		prices: make(map[string]*realtime.PriceTick),
		ttl:    ttl,
		logger: log,
	}
}

// Update updates price in cache.
// Only accepts newer data, or same-timestamp data from a higher
// priority source.
func (c *PriceCache) Update(tick *realtime.PriceTick) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	existing, exists := c.prices[tick.Symbol]
	if exists {
		if tick.Timestamp.Before(existing.Timestamp) {
			c.logger.WithFields(map[string]interface{}{
				"symbol":     tick.Symbol,
				"new_time":   tick.Timestamp,
				"old_time":   existing.Timestamp,
				"new_source": tick.Source,
			}).Debug("Rejected older price data")
			return false
		}

		if tick.Timestamp.Equal(existing.Timestamp) {
			newSource := realtime.PriceSource(tick.Source)
			oldSource := realtime.PriceSource(existing.Source)
			if newSource.Priority() <= oldSource.Priority() {
				return false
			}
		}
	}

	tick.IsStale = time.Since(tick.Timestamp) > c.ttl
	c.prices[tick.Symbol] = tick

	return true
}

// Get retrieves price from cache
func (c *PriceCache) Get(symbol string) (*realtime.PriceTick, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	tick, exists := c.prices[symbol]
	if !exists {
		return nil, false
	}

	if time.Since(tick.Timestamp) > c.ttl {
		tick.IsStale = true
	}
	return tick, true
}

// GetAll retrieves all prices from cache
func (c *PriceCache) GetAll() map[string]*realtime.PriceTick {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make(map[string]*realtime.PriceTick, len(c.prices))
	for symbol, tick := range c.prices {
		if time.Since(tick.Timestamp) > c.ttl {
			tick.IsStale = true
		}
		result[symbol] = tick
	}
	return result
}

// Len returns the number of cached symbols
func (c *PriceCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.prices)
}
