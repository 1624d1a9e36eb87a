package series

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func makeSeries(start time.Time, prices ...float64) Series {
	s := make(Series, 0, len(prices))
	for i, p := range prices {
		s = append(s, PricePoint{Date: start.AddDate(0, 0, i), Price: p})
	}
	return s
}

func TestIntersect(t *testing.T) {
	set := Set{
		// BTC: 1/1 ~ 1/5
		"BTC": makeSeries(day(2024, 1, 1), 100, 101, 102, 103, 104),
		// ETH: 1/3 ~ 1/7
		"ETH": makeSeries(day(2024, 1, 3), 200, 201, 202, 203, 204),
	}

	dates := Intersect(set, []string{"BTC", "ETH"})
	require.Len(t, dates, 3)
	assert.Equal(t, day(2024, 1, 3), dates[0])
	assert.Equal(t, day(2024, 1, 5), dates[2])

	// Every intersected date must exist in both series
	btcIdx := set["BTC"].Lookup()
	ethIdx := set["ETH"].Lookup()
	for _, d := range dates {
		_, inBTC := btcIdx[d]
		_, inETH := ethIdx[d]
		assert.True(t, inBTC, "date %v missing from BTC", d)
		assert.True(t, inETH, "date %v missing from ETH", d)
	}
}

func TestIntersect_EmptyAsset(t *testing.T) {
	set := Set{
		"BTC": makeSeries(day(2024, 1, 1), 100, 101),
		"ETH": {},
	}

	// A requested asset with zero data points means "cannot simulate"
	dates := Intersect(set, []string{"BTC", "ETH"})
	assert.Empty(t, dates)
}

func TestIntersect_UnknownAsset(t *testing.T) {
	set := Set{
		"BTC": makeSeries(day(2024, 1, 1), 100, 101),
	}

	dates := Intersect(set, []string{"BTC", "DOGE"})
	assert.Empty(t, dates)
}

func TestIntersect_SubsetOnly(t *testing.T) {
	set := Set{
		"BTC": makeSeries(day(2024, 1, 1), 100, 101, 102),
		"ETH": makeSeries(day(2024, 1, 2), 200, 201),
		"SOL": {}, // not requested, must not affect the result
	}

	dates := Intersect(set, []string{"BTC", "ETH"})
	require.Len(t, dates, 2)
	assert.Equal(t, day(2024, 1, 2), dates[0])
	assert.Equal(t, day(2024, 1, 3), dates[1])
}

func TestUnion(t *testing.T) {
	set := Set{
		"BTC": makeSeries(day(2024, 1, 1), 100, 101),
		"ETH": makeSeries(day(2024, 1, 4), 200),
	}

	dates := Union(set)
	require.Len(t, dates, 3)
	assert.Equal(t, day(2024, 1, 1), dates[0])
	assert.Equal(t, day(2024, 1, 2), dates[1])
	assert.Equal(t, day(2024, 1, 4), dates[2])
}

func TestDay_NormalizesTimezoneAndClock(t *testing.T) {
	loc := time.FixedZone("KST", 9*3600)
	ts := time.Date(2024, 3, 15, 23, 30, 0, 0, loc) // 14:30 UTC

	got := Day(ts)
	assert.Equal(t, day(2024, 3, 15), got)
}

func TestLookup(t *testing.T) {
	s := makeSeries(day(2024, 1, 1), 100, 101, 102)
	idx := s.Lookup()

	price, ok := idx[day(2024, 1, 2)]
	require.True(t, ok)
	assert.Equal(t, 101.0, price)

	_, ok = idx[day(2024, 1, 9)]
	assert.False(t, ok)
}

func TestSynthetic_Deterministic(t *testing.T) {
	end := day(2024, 6, 1)

	a := Synthetic("BTC", 100, end)
	b := Synthetic("BTC", 100, end)
	require.Len(t, a, 100)
	assert.Equal(t, a, b)

	// Different symbols diverge
	c := Synthetic("ETH", 100, end)
	assert.NotEqual(t, a[50].Price, c[50].Price)

	// Prices stay positive, dates end at endDate
	for _, p := range a {
		assert.Greater(t, p.Price, 0.0)
	}
	assert.Equal(t, end, Day(a[len(a)-1].Date))
}
