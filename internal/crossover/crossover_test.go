package crossover

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/quantcore/internal/series"
)

func daily(prices ...float64) series.Series {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := make(series.Series, len(prices))
	for i, p := range prices {
		s[i] = series.PricePoint{Date: start.AddDate(0, 0, i), Price: p}
	}
	return s
}

func TestDetect_GoldenAndDeath(t *testing.T) {
	// V-then-decline shape with SMA(2) against SMA(4):
	//   SMA2: _, 9.5, 8.5, 7.5, 7.5, 8.5, 9.5, 9.5, 8.5, 7.5
	//   SMA4: _, _,   _,   8.5, 8.0, 8.0, 8.5, 9.0, 9.0, 8.5
	// fast crosses above at i=5 and back below at i=8
	s := daily(10, 9, 8, 7, 8, 9, 10, 9, 8, 7)

	events := Detect(s, 2, 4)
	require.Len(t, events, 2)

	assert.Equal(t, Golden, events[0].Type)
	assert.Equal(t, 5, events[0].Index)
	assert.Equal(t, s[5].Date, events[0].Date)
	assert.Equal(t, 9.0, events[0].Price)

	assert.Equal(t, Death, events[1].Type)
	assert.Equal(t, 8, events[1].Index)
}

func TestDetect_NoEventsWhileWarmingUp(t *testing.T) {
	// Any cross hidden inside the slow SMA's NaN padding must not fire
	s := daily(1, 100, 2, 99)
	events := Detect(s, 2, 200)
	assert.Empty(t, events)
}

func TestDetect_MonotonicSeriesHasNoCrosses(t *testing.T) {
	prices := make([]float64, 50)
	for i := range prices {
		prices[i] = 100 + float64(i)
	}
	events := Detect(daily(prices...), 5, 20)
	assert.Empty(t, events)
}

func TestForwardReturns_SingleEvent(t *testing.T) {
	values := []float64{100, 110, 121, 133.1}
	events := []Event{{Index: 0, Type: Golden}}

	stats := ForwardReturns(events, values, []int{1, 2, 3})
	require.Len(t, stats, 3)

	assert.InDelta(t, 10.0, stats[0].Mean, 1e-9)
	assert.InDelta(t, 21.0, stats[1].Mean, 1e-9)
	assert.InDelta(t, 33.1, stats[2].Mean, 1e-9)
	for _, st := range stats {
		assert.Equal(t, 1, st.Count)
		assert.Equal(t, 100.0, st.HitRate)
	}
}

func TestForwardReturns_SkipsOutOfRangeHorizons(t *testing.T) {
	values := []float64{100, 105, 110}
	events := []Event{{Index: 1}}

	stats := ForwardReturns(events, values, []int{1, 7})
	require.Len(t, stats, 2)

	assert.Equal(t, 1, stats[0].Count)
	// horizon 7 runs past the end: skipped, not truncated to the last bar
	assert.Equal(t, 0, stats[1].Count)
	assert.Equal(t, 0.0, stats[1].Mean)
	assert.Equal(t, 0.0, stats[1].HitRate)
}

func TestForwardReturns_Aggregates(t *testing.T) {
	// Three events, horizon 1: returns +10%, -5%, +20%
	values := []float64{100, 110, 100, 95, 100, 120}
	events := []Event{{Index: 0}, {Index: 2}, {Index: 4}}

	stats := ForwardReturns(events, values, []int{1})
	require.Len(t, stats, 1)
	st := stats[0]

	require.Equal(t, 3, st.Count)
	assert.InDelta(t, (10.0-5.0+20.0)/3, st.Mean, 1e-9)
	// sorted: [-5, 10, 20] → midpoint convention picks sorted[1]
	assert.InDelta(t, 10.0, st.Median, 1e-9)
	assert.InDelta(t, 200.0/3, st.HitRate, 1e-9)
}

func TestForwardReturns_MedianUpperMidpoint(t *testing.T) {
	values := []float64{100, 95, 100, 110}
	events := []Event{{Index: 0}, {Index: 2}}

	stats := ForwardReturns(events, values, []int{1})
	// sorted: [-5, 10] → even count picks sorted[1], not the average
	assert.InDelta(t, 10.0, stats[0].Median, 1e-9)
}

func TestForwardReturns_DefaultHorizons(t *testing.T) {
	stats := ForwardReturns(nil, nil, nil)
	require.Len(t, stats, len(DefaultHorizons))
	for i, st := range stats {
		assert.Equal(t, DefaultHorizons[i], st.Horizon)
		assert.Equal(t, 0, st.Count)
	}
}

func TestFilter(t *testing.T) {
	events := []Event{
		{Index: 1, Type: Golden},
		{Index: 2, Type: Death},
		{Index: 3, Type: Golden},
	}
	assert.Len(t, Filter(events, Golden), 2)
	assert.Len(t, Filter(events, Death), 1)
}
