package marketdata

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/quantcore/internal/frontier"
)

// StatRepository persists per-asset annualized stats and pairwise
// correlations — the frontier sampler's inputs
type StatRepository struct {
	pool *pgxpool.Pool
}

// NewStatRepository creates a Postgres-backed stat repository
func NewStatRepository(pool *pgxpool.Pool) *StatRepository {
	return &StatRepository{pool: pool}
}

// AssetStats loads the stats rows for the given symbols, in the same
// order. Missing symbols are skipped, not errors — the sampler
// validates its own inputs.
func (r *StatRepository) AssetStats(ctx context.Context, symbols []string) ([]frontier.AssetStat, error) {
	query := `
		SELECT symbol, expected_return, volatility
		FROM market.asset_stats
		WHERE symbol = ANY($1)
	`

	rows, err := r.pool.Query(ctx, query, symbols)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bySymbol := make(map[string]frontier.AssetStat)
	for rows.Next() {
		var s frontier.AssetStat
		if err := rows.Scan(&s.Symbol, &s.ExpectedReturn, &s.Volatility); err != nil {
			return nil, err
		}
		bySymbol[s.Symbol] = s
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]frontier.AssetStat, 0, len(symbols))
	for _, sym := range symbols {
		if s, ok := bySymbol[sym]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

// SaveAssetStat upserts one asset's annualized stats
func (r *StatRepository) SaveAssetStat(ctx context.Context, stat frontier.AssetStat) error {
	query := `
		INSERT INTO market.asset_stats (symbol, expected_return, volatility, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (symbol) DO UPDATE SET
			expected_return = EXCLUDED.expected_return,
			volatility = EXCLUDED.volatility,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.pool.Exec(ctx, query, stat.Symbol, stat.ExpectedReturn, stat.Volatility, time.Now())
	return err
}

// Correlations loads the pairwise correlation table for the given
// symbols. Pairs absent from the table fall back at lookup time.
func (r *StatRepository) Correlations(ctx context.Context, symbols []string) (frontier.CorrelationTable, error) {
	query := `
		SELECT symbol_a, symbol_b, correlation
		FROM market.correlations
		WHERE symbol_a = ANY($1) AND symbol_b = ANY($1)
	`

	rows, err := r.pool.Query(ctx, query, symbols)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	table := make(frontier.CorrelationTable)
	for rows.Next() {
		var a, b string
		var corr float64
		if err := rows.Scan(&a, &b, &corr); err != nil {
			return nil, err
		}
		table.Set(a, b, corr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return table, table.Validate()
}

// SaveCorrelation upserts one symmetric pair entry.
// 저장 방향은 정규화: symbol_a < symbol_b
func (r *StatRepository) SaveCorrelation(ctx context.Context, a, b string, corr float64) error {
	if a > b {
		a, b = b, a
	}

	query := `
		INSERT INTO market.correlations (symbol_a, symbol_b, correlation, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (symbol_a, symbol_b) DO UPDATE SET
			correlation = EXCLUDED.correlation,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.pool.Exec(ctx, query, a, b, corr, time.Now())
	return err
}
