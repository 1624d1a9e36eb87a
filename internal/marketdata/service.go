package marketdata

import (
	"context"
	"time"

	"github.com/wonny/quantcore/internal/series"
	"github.com/wonny/quantcore/pkg/logger"
	"github.com/wonny/quantcore/pkg/redis"
)

// Store is the persistence surface the service reads from
type Store interface {
	History(ctx context.Context, symbol string, days int) (series.Series, error)
	Bars(ctx context.Context, symbol string, from, to time.Time) ([]series.OHLCBar, error)
}

// Service fronts the price store with a Redis cache and a synthetic
// fallback: a symbol with no stored history gets a deterministic
// generated series instead of an error, so every analytics surface
// stays usable without a populated database.
type Service struct {
	store Store
	cache *redis.Cache
	log   *logger.Logger
}

// NewService wires the history service. store and cache may be nil;
// a nil store serves synthetic data only.
func NewService(store Store, cache *redis.Cache, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{store: store, cache: cache, log: log}
}

// History returns `days` of daily closes for a symbol, oldest first.
// Lookup order: cache → store → synthetic.
func (s *Service) History(ctx context.Context, symbol string, days int) (series.Series, error) {
	key := redis.HistoryKey(symbol, days)

	if s.cache != nil {
		var cached series.Series
		if found, err := s.cache.Get(ctx, key, &cached); err == nil && found {
			return cached, nil
		}
	}

	hist, err := s.fetch(ctx, symbol, days)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && len(hist) > 0 {
		if err := s.cache.Set(ctx, key, hist, redis.TTLDaily); err != nil {
			s.log.WithError(err).WithField("symbol", symbol).Warn("history cache write failed")
		}
	}
	return hist, nil
}

func (s *Service) fetch(ctx context.Context, symbol string, days int) (series.Series, error) {
	if s.store != nil {
		hist, err := s.store.History(ctx, symbol, days)
		if err != nil {
			return nil, err
		}
		if len(hist) > 0 {
			return hist, nil
		}
	}

	// 저장 이력 없음 → 결정적 합성 시계열로 대체
	s.log.WithField("symbol", symbol).Debug("no stored history, serving synthetic series")
	return series.Synthetic(symbol, days, series.Day(time.Now())), nil
}

// HistorySet fetches aligned-input histories for several symbols
func (s *Service) HistorySet(ctx context.Context, symbols []string, days int) (series.Set, error) {
	set := make(series.Set, len(symbols))
	for _, sym := range symbols {
		hist, err := s.History(ctx, sym, days)
		if err != nil {
			return nil, err
		}
		set[sym] = hist
	}
	return set, nil
}

// Bars returns OHLC bars for the breakout simulator. Symbols without
// stored bars get synthetic ones derived from the close walk.
func (s *Service) Bars(ctx context.Context, symbol string, days int) ([]series.OHLCBar, error) {
	end := series.Day(time.Now())
	if s.store != nil {
		from := end.AddDate(0, 0, -days)
		bars, err := s.store.Bars(ctx, symbol, from, end)
		if err != nil {
			return nil, err
		}
		if len(bars) > 0 {
			return bars, nil
		}
	}
	return series.SyntheticBars(symbol, days, end), nil
}
