package frontier

import (
	"math"

	"github.com/wonny/quantcore/internal/series"
)

// daysPerYear for annualization; crypto markets trade every day
const daysPerYear = 365

// StatsFromHistory derives annualized per-asset stats and pairwise
// correlations from daily price history. Returns are log-based,
// volatility is population stdev, both ×√365 and in percent —
// the sampler's expected units.
func StatsFromHistory(set series.Set, symbols []string) ([]AssetStat, CorrelationTable) {
	assets := make([]AssetStat, 0, len(symbols))
	returns := make(map[string][]float64, len(symbols))

	for _, sym := range symbols {
		rets := series.LogReturns(set[sym].Prices())
		returns[sym] = rets

		assets = append(assets, AssetStat{
			Symbol:         sym,
			ExpectedReturn: series.Mean(rets) * daysPerYear * 100,
			Volatility:     series.StdDev(rets) * math.Sqrt(daysPerYear) * 100,
		})
	}

	corr := make(CorrelationTable)
	for i := 0; i < len(symbols); i++ {
		for j := i + 1; j < len(symbols); j++ {
			a, b := symbols[i], symbols[j]
			ra, rb := returns[a], returns[b]

			// 길이가 다르면 뒤쪽(최근) 구간으로 정렬
			n := len(ra)
			if len(rb) < n {
				n = len(rb)
			}
			if n < 2 {
				continue
			}
			corr.Set(a, b, series.Correlation(ra[len(ra)-n:], rb[len(rb)-n:]))
		}
	}

	return assets, corr
}
