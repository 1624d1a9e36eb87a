// Package riskscore normalizes heterogeneous market indicators onto a
// common 0–100 scale and blends them into one weighted composite.
// The composite is recomputed from the current snapshot on every read,
// never cached; the caller owns persistence of weights and overrides.
package riskscore

import (
	"fmt"
)

// Source marks where a metric's current reading came from
type Source string

const (
	// SourceLive means the raw value was fetched externally
	SourceLive Source = "live"
	// SourceManual means the user supplied the raw value
	SourceManual Source = "manual"
	// SourceDefault means the seeded starting value is still in place
	SourceDefault Source = "default"
)

// Metric is one indicator reading inside a snapshot
type Metric struct {
	Name        string  `json:"name"`
	RawValue    float64 `json:"raw_value"`
	Weight      float64 `json:"weight"` // user-assigned, conventionally 0–100
	Score       float64 `json:"score"`  // 0–100, derived from the band table
	Signal      string  `json:"signal"`
	Source      Source  `json:"source"`
	Description string  `json:"description,omitempty"`
}

// Snapshot is the caller-owned current state of all metrics
type Snapshot struct {
	Metrics []Metric `json:"metrics"`
}

// DefaultSnapshot seeds the standard on-chain indicator set with
// representative mid-cycle readings. Scores come from the band tables,
// never hardcoded.
func DefaultSnapshot() *Snapshot {
	seed := []struct {
		name   string
		raw    float64
		weight float64
		desc   string
	}{
		{MetricMVRVZ, 2.14, 15, "시장가치/실현가치 비율"},
		{MetricReserveRisk, 0.003, 15, "장기보유자 확신도"},
		{MetricPuell, 1.24, 10, "채굴수익 연평균 대비"},
		{MetricPiCycle, 20, 10, "111DMA/350DMA 크로스 근접도"},
		{Metric200WMA, 2.58, 10, "200주 이동평균 배수"},
		{MetricRHODL, 4821, 10, "Realized HODL 비율"},
		{MetricNUPL, 0.58, 10, "순 미실현 이익/손실"},
		{MetricSOPR, 1.04, 10, "지출 산출물 수익 비율"},
		{MetricExchangeReserves, -2.4, 10, "거래소 잔고 30일 변화율"},
	}

	snap := &Snapshot{Metrics: make([]Metric, 0, len(seed))}
	for _, s := range seed {
		score, signal := mustEvaluate(s.name, s.raw)
		snap.Metrics = append(snap.Metrics, Metric{
			Name:        s.name,
			RawValue:    s.raw,
			Weight:      s.weight,
			Score:       score,
			Signal:      signal,
			Source:      SourceDefault,
			Description: s.desc,
		})
	}
	return snap
}

func mustEvaluate(name string, raw float64) (float64, string) {
	table, ok := TableFor(name)
	if !ok {
		return 50, "Unknown"
	}
	return table.Evaluate(raw)
}

// Composite returns Σ(score×weight)/Σ(weight), recomputed on every
// call. A zero total weight yields 0, not NaN.
func (s *Snapshot) Composite() float64 {
	totalWeight := 0.0
	for _, m := range s.Metrics {
		totalWeight += m.Weight
	}
	if totalWeight == 0 {
		return 0
	}

	sum := 0.0
	for _, m := range s.Metrics {
		sum += m.Score * m.Weight
	}
	return sum / totalWeight
}

// RiskLevel labels a composite score
func RiskLevel(composite float64) string {
	switch {
	case composite > 75:
		return "High Risk"
	case composite > 50:
		return "Elevated"
	case composite > 25:
		return "Moderate"
	default:
		return "Low Risk"
	}
}

// SetWeight updates one metric's user-assigned weight
func (s *Snapshot) SetWeight(name string, weight float64) error {
	if weight < 0 {
		return fmt.Errorf("weight must be non-negative, got %f", weight)
	}
	m := s.find(name)
	if m == nil {
		return fmt.Errorf("unknown metric %q", name)
	}
	m.Weight = weight
	return nil
}

// SetManual overrides a metric's raw value; the band mapping is
// recomputed immediately
func (s *Snapshot) SetManual(name string, raw float64) error {
	m := s.find(name)
	if m == nil {
		return fmt.Errorf("unknown metric %q", name)
	}
	m.RawValue = raw
	m.Score, m.Signal = mustEvaluate(name, raw)
	m.Source = SourceManual
	return nil
}

// ApplyLive records an externally fetched reading for a metric
func (s *Snapshot) ApplyLive(name string, raw float64) error {
	m := s.find(name)
	if m == nil {
		return fmt.Errorf("unknown metric %q", name)
	}
	m.RawValue = raw
	m.Score, m.Signal = mustEvaluate(name, raw)
	m.Source = SourceLive
	return nil
}

func (s *Snapshot) find(name string) *Metric {
	for i := range s.Metrics {
		if s.Metrics[i].Name == name {
			return &s.Metrics[i]
		}
	}
	return nil
}
