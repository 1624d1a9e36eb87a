// Package strategyconfig loads and validates YAML strategy preset
// files: named target-weight portfolios plus breakout parameter
// defaults. A preset file is the reproducibility unit — its canonical
// hash is recorded alongside every simulation run.
package strategyconfig

import (
	"time"

	"github.com/wonny/quantcore/internal/simulate"
)

// File은 전략 프리셋 파일 전체 구조
type File struct {
	Meta     Meta             `yaml:"meta" json:"meta"`
	Presets  []Preset         `yaml:"presets" json:"presets"`
	Breakout BreakoutDefaults `yaml:"breakout" json:"breakout"`
}

// Meta 메타 정보
type Meta struct {
	Name    string `yaml:"name" json:"name"`
	Version string `yaml:"version" json:"version"`
}

// Preset is one named target-weight portfolio definition.
// Weights are percentages keyed by asset symbol.
type Preset struct {
	Name        string             `yaml:"name" json:"name"`
	Description string             `yaml:"description,omitempty" json:"description,omitempty"`
	Weights     map[string]float64 `yaml:"weights" json:"weights"`
	Rebalance   string             `yaml:"rebalance" json:"rebalance"`
}

// Strategy converts the preset into a simulator strategy
func (p Preset) Strategy() simulate.Strategy {
	return simulate.Strategy{
		Name:    p.Name,
		Weights: p.Weights,
		Cadence: simulate.Cadence(p.Rebalance),
	}
}

// BreakoutDefaults are the file-level breakout simulator parameters
type BreakoutDefaults struct {
	K              float64 `yaml:"k" json:"k"`
	InvestRatio    float64 `yaml:"invest_ratio" json:"invest_ratio"`
	InitialCapital float64 `yaml:"initial_capital" json:"initial_capital"`
}

// Config converts the defaults into a simulator config
func (b BreakoutDefaults) Config() simulate.BreakoutConfig {
	return simulate.BreakoutConfig{
		K:              b.K,
		InvestRatio:    b.InvestRatio,
		InitialCapital: b.InitialCapital,
	}
}

// Find returns the preset with the given name, or nil
func (f *File) Find(name string) *Preset {
	for i := range f.Presets {
		if f.Presets[i].Name == name {
			return &f.Presets[i]
		}
	}
	return nil
}

// Strategies converts every preset into a simulator strategy
func (f *File) Strategies() []simulate.Strategy {
	out := make([]simulate.Strategy, len(f.Presets))
	for i, p := range f.Presets {
		out[i] = p.Strategy()
	}
	return out
}

// Default returns the built-in preset set used when no file is given
func Default() *File {
	return &File{
		Meta: Meta{Name: "builtin", Version: "1"},
		Presets: []Preset{
			{
				Name:        "60/40 BTC/ETH",
				Description: "BTC 60%, ETH 40%",
				Weights:     map[string]float64{"BTC": 60, "ETH": 40},
				Rebalance:   string(simulate.CadenceMonthly),
			},
			{
				Name:        "Crypto + TradFi 균형",
				Description: "BTC 25%, ETH 15%, SPX 35%, Gold 15%, Bonds 10%",
				Weights:     map[string]float64{"BTC": 25, "ETH": 15, "SPX": 35, "XAU": 15, "AGG": 10},
				Rebalance:   string(simulate.CadenceQuarterly),
			},
			{
				Name:        "올웨더 크립토",
				Description: "BTC 40%, ETH 20%, SOL 10%, 스테이블 30%",
				Weights:     map[string]float64{"BTC": 40, "ETH": 20, "SOL": 10, "STBL": 30},
				Rebalance:   string(simulate.CadenceMonthly),
			},
			{
				Name:        "100% 비트코인",
				Description: "BTC 100%",
				Weights:     map[string]float64{"BTC": 100},
				Rebalance:   string(simulate.CadenceNone),
			},
		},
		Breakout: BreakoutDefaults{K: 0.5, InvestRatio: 1.0, InitialCapital: 10000},
	}
}

// RunSnapshot records exactly which preset file produced a simulation
// run (재현성용)
type RunSnapshot struct {
	ConfigHash string    `json:"config_hash"`
	ConfigYAML string    `json:"config_yaml"`
	FileName   string    `json:"file_name"`
	CreatedAt  time.Time `json:"created_at"`
}
