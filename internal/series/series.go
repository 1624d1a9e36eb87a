package series

import (
	"sort"
	"time"
)

// PricePoint is a single dated close price
type PricePoint struct {
	Date  time.Time `json:"date"`
	Price float64   `json:"price"`
}

// Series is an ordered-by-date price history for one asset.
// 날짜는 연속적일 필요 없음 (거래소별 캘린더 상이)
type Series []PricePoint

// OHLCBar is a single daily bar, used by the breakout simulator
type OHLCBar struct {
	Date  time.Time `json:"date"`
	Open  float64   `json:"open"`
	High  float64   `json:"high"`
	Low   float64   `json:"low"`
	Close float64   `json:"close"`
}

// Set maps asset symbol to its price series
type Set map[string]Series

// Day normalizes a timestamp to its calendar day (UTC midnight).
// ⭐ SSOT: 날짜 비교는 반드시 이 함수를 거친 값으로만
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Lookup is a date-indexed view over one Series
type Lookup map[time.Time]float64

// Lookup builds a day-keyed price index for O(1) access
func (s Series) Lookup() Lookup {
	idx := make(Lookup, len(s))
	for _, p := range s {
		idx[Day(p.Date)] = p.Price
	}
	return idx
}

// Prices returns the raw price vector in series order
func (s Series) Prices() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Price
	}
	return out
}

// Intersect returns the sorted dates present in every listed symbol's series.
// Returns an empty slice if any requested symbol has zero data points;
// callers must treat empty as "cannot simulate", not a zero-length success.
func Intersect(set Set, symbols []string) []time.Time {
	if len(symbols) == 0 {
		return nil
	}

	// Count date occurrences across the requested symbols
	counts := make(map[time.Time]int)
	for _, sym := range symbols {
		s, ok := set[sym]
		if !ok || len(s) == 0 {
			return nil
		}

		seen := make(map[time.Time]bool, len(s))
		for _, p := range s {
			d := Day(p.Date)
			if !seen[d] {
				seen[d] = true
				counts[d]++
			}
		}
	}

	dates := make([]time.Time, 0, len(counts))
	for d, n := range counts {
		if n == len(symbols) {
			dates = append(dates, d)
		}
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// Union returns the sorted dates appearing in any series of the set
func Union(set Set) []time.Time {
	seen := make(map[time.Time]bool)
	for _, s := range set {
		for _, p := range s {
			seen[Day(p.Date)] = true
		}
	}

	dates := make([]time.Time, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}
