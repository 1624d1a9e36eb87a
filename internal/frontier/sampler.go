// Package frontier approximates the efficient frontier by Monte Carlo
// sampling of long-only weight vectors. The max-Sharpe and min-variance
// portfolios it reports are sample extrema, not closed-form optima —
// larger sample counts tighten the approximation but never guarantee
// the analytic optimum.
package frontier

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// FallbackCorrelation is used for asset pairs missing from the table.
// 보수적 기본값 — 에러 대신 항상 완주
const FallbackCorrelation = 0.2

// AssetStat holds per-asset inputs, both in annualized percent
type AssetStat struct {
	Symbol         string  `json:"symbol"`
	ExpectedReturn float64 `json:"expected_return"`
	Volatility     float64 `json:"volatility"`
}

// CorrelationTable maps symbol pairs to correlation in [-1, 1].
// Lookup order is normalized, so storing one direction suffices.
type CorrelationTable map[[2]string]float64

// Set stores a symmetric correlation entry
func (t CorrelationTable) Set(a, b string, corr float64) {
	t[pairKey(a, b)] = corr
}

// Get returns the correlation for a pair: 1 on the diagonal, the stored
// value when present (either direction), the fallback otherwise
func (t CorrelationTable) Get(a, b string) float64 {
	if a == b {
		return 1
	}
	if c, ok := t[pairKey(a, b)]; ok {
		return c
	}
	return FallbackCorrelation
}

func pairKey(a, b string) [2]string {
	if a > b {
		a, b = b, a
	}
	return [2]string{a, b}
}

// Validate checks table entries are bounded to [-1, 1]
func (t CorrelationTable) Validate() error {
	for pair, c := range t {
		if c < -1 || c > 1 {
			return fmt.Errorf("correlation %s/%s = %f out of [-1, 1]", pair[0], pair[1], c)
		}
	}
	return nil
}

// Portfolio is one Monte Carlo draw
type Portfolio struct {
	Weights []float64 `json:"weights"` // sums to 1, same order as the asset list
	Return  float64   `json:"return"`  // percent
	Risk    float64   `json:"risk"`    // percent
	Sharpe  float64   `json:"sharpe"`
}

// Config parameterizes a sampling run
type Config struct {
	Samples      int     `json:"samples"`
	RiskFreeRate float64 `json:"risk_free_rate"` // percent
	// Seed for reproducible runs; 0 seeds from the clock
	Seed int64 `json:"seed,omitempty"`
	// KeepSamples retains the full sample cloud in the result
	// (memory scales with Samples when enabled)
	KeepSamples bool `json:"keep_samples,omitempty"`
}

// Result holds the aggregate extraction of one run
type Result struct {
	RunID     string    `json:"run_id"`
	RunDate   time.Time `json:"run_date"`
	Samples   int       `json:"samples"`
	Symbols   []string  `json:"symbols"`
	MaxSharpe Portfolio `json:"max_sharpe"`
	MinRisk   Portfolio `json:"min_risk"`
	Cloud     []Portfolio `json:"cloud,omitempty"`
}

// Sampler draws random portfolios from a seeded source
type Sampler struct {
	rng *rand.Rand
}

// NewSampler creates a sampler; seed 0 uses the current time
func NewSampler(seed int64) *Sampler {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Sampler{rng: rand.New(rand.NewSource(seed))}
}

// Sample draws cfg.Samples uniform long-only weight vectors, scores each
// portfolio, and extracts the max-Sharpe and min-variance samples.
// Missing correlation pairs use the fallback constant, so the sampler
// always completes.
func (s *Sampler) Sample(assets []AssetStat, corr CorrelationTable, cfg Config) (*Result, error) {
	if len(assets) == 0 {
		return nil, fmt.Errorf("no assets to sample")
	}
	if cfg.Samples <= 0 {
		return nil, fmt.Errorf("sample count must be positive, got %d", cfg.Samples)
	}
	if err := corr.Validate(); err != nil {
		return nil, err
	}

	symbols := make([]string, len(assets))
	for i, a := range assets {
		symbols[i] = a.Symbol
	}

	result := &Result{
		RunID:   uuid.New().String(),
		RunDate: time.Now(),
		Samples: cfg.Samples,
		Symbols: symbols,
	}
	if cfg.KeepSamples {
		result.Cloud = make([]Portfolio, 0, cfg.Samples)
	}

	best := Portfolio{Sharpe: math.Inf(-1)}
	safest := Portfolio{Risk: math.Inf(1)}

	weights := make([]float64, len(assets))
	for n := 0; n < cfg.Samples; n++ {
		// Uniform draws normalized to sum 1 (long-only, no shorting)
		sum := 0.0
		for i := range weights {
			weights[i] = s.rng.Float64()
			sum += weights[i]
		}
		for i := range weights {
			weights[i] /= sum
		}

		p := score(assets, corr, weights, cfg.RiskFreeRate)

		if p.Sharpe > best.Sharpe {
			best = p
		}
		if p.Risk < safest.Risk {
			safest = p
		}
		if cfg.KeepSamples {
			result.Cloud = append(result.Cloud, p)
		}
	}

	result.MaxSharpe = best
	result.MinRisk = safest
	return result, nil
}

// score computes return, risk and Sharpe for one weight vector.
// Variance: ΣΣ wᵢwⱼσᵢσⱼcorr(i,j), volatilities in percent so the
// product is rescaled by 10⁴; risk converts back to percent.
func score(assets []AssetStat, corr CorrelationTable, weights []float64, riskFree float64) Portfolio {
	ret := 0.0
	for i, a := range assets {
		ret += a.ExpectedReturn * weights[i]
	}

	variance := 0.0
	for i := range assets {
		for j := range assets {
			c := corr.Get(assets[i].Symbol, assets[j].Symbol)
			variance += weights[i] * weights[j] * assets[i].Volatility * assets[j].Volatility * c / 10000
		}
	}

	risk := math.Sqrt(variance) * 100
	sharpe := 0.0
	if risk > 0 {
		sharpe = (ret - riskFree) / risk
	}

	return Portfolio{
		Weights: append([]float64(nil), weights...),
		Return:  ret,
		Risk:    risk,
		Sharpe:  sharpe,
	}
}
