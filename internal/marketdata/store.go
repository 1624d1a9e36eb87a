// Package marketdata owns price history access: the Postgres store,
// the Redis cache in front of it, and the synthetic fallback used when
// no stored history exists for a symbol.
package marketdata

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/quantcore/internal/series"
)

// PriceStore implements Store on Postgres
// ⭐ SSOT: 가격 데이터 저장소는 여기서만
type PriceStore struct {
	pool *pgxpool.Pool
}

// NewPriceStore creates a Postgres-backed price store
func NewPriceStore(pool *pgxpool.Pool) *PriceStore {
	return &PriceStore{pool: pool}
}

// History returns up to `days` most recent daily closes for a symbol,
// oldest first
func (s *PriceStore) History(ctx context.Context, symbol string, days int) (series.Series, error) {
	query := `
		SELECT trade_date, close_price
		FROM market.daily_prices
		WHERE symbol = $1
		ORDER BY trade_date DESC
		LIMIT $2
	`

	rows, err := s.pool.Query(ctx, query, symbol, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out series.Series
	for rows.Next() {
		var p series.PricePoint
		if err := rows.Scan(&p.Date, &p.Price); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// DESC fetch for the LIMIT, ASC order for consumers
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

// Bars returns full OHLC bars for a symbol within a date range,
// oldest first
func (s *PriceStore) Bars(ctx context.Context, symbol string, from, to time.Time) ([]series.OHLCBar, error) {
	query := `
		SELECT trade_date, open_price, high_price, low_price, close_price
		FROM market.daily_prices
		WHERE symbol = $1 AND trade_date BETWEEN $2 AND $3
		ORDER BY trade_date ASC
	`

	rows, err := s.pool.Query(ctx, query, symbol, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bars []series.OHLCBar
	for rows.Next() {
		var b series.OHLCBar
		if err := rows.Scan(&b.Date, &b.Open, &b.High, &b.Low, &b.Close); err != nil {
			return nil, err
		}
		bars = append(bars, b)
	}
	return bars, rows.Err()
}

// SaveCloses upserts close-only history (REST sources deliver no
// intraday range): open/high/low collapse to the close
func (s *PriceStore) SaveCloses(ctx context.Context, symbol string, hist series.Series) error {
	if len(hist) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, p := range hist {
		batch.Queue(upsertBarSQL, symbol, series.Day(p.Date), p.Price, p.Price, p.Price, p.Price, 0.0)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range hist {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

const upsertBarSQL = `
	INSERT INTO market.daily_prices (symbol, trade_date, open_price, high_price, low_price, close_price, volume)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (symbol, trade_date) DO UPDATE SET
		open_price = EXCLUDED.open_price,
		high_price = EXCLUDED.high_price,
		low_price = EXCLUDED.low_price,
		close_price = EXCLUDED.close_price,
		volume = EXCLUDED.volume
`
