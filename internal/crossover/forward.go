package crossover

import "sort"

// DefaultHorizons are the forward-return windows, in days
var DefaultHorizons = []int{1, 7, 30, 90, 180, 365}

// HorizonStat aggregates forward returns over one horizon
type HorizonStat struct {
	Horizon int       `json:"horizon"`
	Count   int       `json:"count"`
	Mean    float64   `json:"mean"`
	Median  float64   `json:"median"`
	HitRate float64   `json:"hit_rate"` // % of returns > 0
	Returns []float64 `json:"returns,omitempty"`
}

// ForwardReturns measures, for every event and horizon h, the percent
// change of the comparison vector h steps after the event index:
// (values[i+h]/values[i] − 1) × 100. Events whose horizon runs past
// the end of the data are skipped for that horizon, not truncated —
// partial windows would bias the aggregates.
func ForwardReturns(events []Event, values []float64, horizons []int) []HorizonStat {
	if len(horizons) == 0 {
		horizons = DefaultHorizons
	}

	stats := make([]HorizonStat, 0, len(horizons))
	for _, h := range horizons {
		var rets []float64
		for _, ev := range events {
			j := ev.Index + h
			if j >= len(values) || values[ev.Index] == 0 {
				continue
			}
			rets = append(rets, (values[j]/values[ev.Index]-1)*100)
		}

		stats = append(stats, HorizonStat{
			Horizon: h,
			Count:   len(rets),
			Mean:    mean(rets),
			Median:  median(rets),
			HitRate: hitRate(rets),
			Returns: rets,
		})
	}
	return stats
}

// Filter returns only the events of one type
func Filter(events []Event, typ Type) []Event {
	var out []Event
	for _, ev := range events {
		if ev.Type == typ {
			out = append(out, ev)
		}
	}
	return out
}

func mean(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}

// median is the upper-midpoint convention: sorted[n/2]
func median(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	sorted := append([]float64(nil), vs...)
	sort.Float64s(sorted)
	return sorted[len(sorted)/2]
}

func hitRate(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	pos := 0
	for _, v := range vs {
		if v > 0 {
			pos++
		}
	}
	return float64(pos) / float64(len(vs)) * 100
}
