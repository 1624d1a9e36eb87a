// Package crossover detects moving-average cross events on a daily
// price series and measures what happened to a comparison series in
// the days after each event.
package crossover

import (
	"math"
	"time"

	"github.com/wonny/quantcore/internal/indicator"
	"github.com/wonny/quantcore/internal/series"
)

// Type classifies a cross event
type Type string

const (
	// Golden is the fast SMA moving above the slow SMA
	Golden Type = "golden"
	// Death is the fast SMA moving below the slow SMA
	Death Type = "death"
)

// Default SMA periods for cross detection
const (
	DefaultFastPeriod = 50
	DefaultSlowPeriod = 200
)

// Event is one detected cross
type Event struct {
	Index int       `json:"index"`
	Date  time.Time `json:"date"`
	Type  Type      `json:"type"`
	Fast  float64   `json:"fast"`
	Slow  float64   `json:"slow"`
	Price float64   `json:"price"`
}

// Detect finds golden and death crosses of the fast SMA against the
// slow SMA. A golden cross fires at index i when fast[i-1] ≤ slow[i-1]
// and fast[i] > slow[i]; a death cross is the mirror image. Indices
// where either SMA has no value yet produce no events.
func Detect(s series.Series, fastPeriod, slowPeriod int) []Event {
	prices := s.Prices()
	fast := indicator.SMA(prices, fastPeriod)
	slow := indicator.SMA(prices, slowPeriod)

	var events []Event
	for i := 1; i < len(prices); i++ {
		if hasNaN(fast[i-1], slow[i-1], fast[i], slow[i]) {
			continue
		}

		wasAbove := fast[i-1] > slow[i-1]
		isAbove := fast[i] > slow[i]
		if wasAbove == isAbove {
			continue
		}

		ev := Event{
			Index: i,
			Date:  s[i].Date,
			Fast:  fast[i],
			Slow:  slow[i],
			Price: prices[i],
		}
		if isAbove {
			ev.Type = Golden
		} else {
			ev.Type = Death
		}
		events = append(events, ev)
	}
	return events
}

func hasNaN(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}
