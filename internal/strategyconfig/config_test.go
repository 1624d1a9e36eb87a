package strategyconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/wonny/quantcore/internal/simulate"
)

const validYAML = `meta:
  name: test_presets
  version: "1"
presets:
  - name: "60/40 BTC/ETH"
    description: "BTC 60%, ETH 40%"
    weights:
      BTC: 60
      ETH: 40
    rebalance: monthly
  - name: "100% 비트코인"
    weights:
      BTC: 100
    rebalance: none
breakout:
  k: 0.5
  invest_ratio: 1.0
  initial_capital: 10000
`

func writeTempYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "presets.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeTempYAML(t, validYAML)

	f, yamlData, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if f.Meta.Name != "test_presets" {
		t.Errorf("expected meta.name=test_presets, got %s", f.Meta.Name)
	}
	if len(f.Presets) != 2 {
		t.Fatalf("expected 2 presets, got %d", len(f.Presets))
	}
	if f.Presets[0].Weights["BTC"] != 60 {
		t.Errorf("expected BTC=60, got %.1f", f.Presets[0].Weights["BTC"])
	}
	if len(yamlData) == 0 {
		t.Error("raw yaml bytes missing")
	}

	// 해시 생성
	hash, err := Hash(f)
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if len(hash) != 64 {
		t.Errorf("expected 64 char hash, got %d", len(hash))
	}

	// 동일 설정 → 동일 해시
	hash2, _ := Hash(f)
	if hash != hash2 {
		t.Error("hash not deterministic")
	}
}

func TestLoad_UnknownFieldFails(t *testing.T) {
	// KnownFields(true): 오타 필드는 조용히 무시되지 않고 즉시 실패
	path := writeTempYAML(t, `meta:
  name: typo_test
  version: "1"
presets:
  - name: a
    weihgts:
      BTC: 100
    rebalance: none
breakout:
  k: 0.5
  invest_ratio: 1.0
  initial_capital: 10000
`)

	if _, _, err := Load(path); err == nil {
		t.Error("expected error on unknown field, got nil")
	}
}

func TestPresetStrategy(t *testing.T) {
	p := Preset{
		Name:      "test",
		Weights:   map[string]float64{"BTC": 50, "ETH": 50},
		Rebalance: "quarterly",
	}

	s := p.Strategy()
	if s.Cadence != simulate.CadenceQuarterly {
		t.Errorf("expected quarterly cadence, got %s", s.Cadence)
	}
	if s.Weights["ETH"] != 50 {
		t.Errorf("expected ETH=50, got %.1f", s.Weights["ETH"])
	}
}

func TestDefault(t *testing.T) {
	f := Default()

	if err := Validate(f); err != nil {
		t.Fatalf("builtin presets must validate: %v", err)
	}
	if len(f.Presets) != 4 {
		t.Errorf("expected 4 builtin presets, got %d", len(f.Presets))
	}
	if f.Find("100% 비트코인") == nil {
		t.Error("expected BTC-only preset")
	}
	if f.Find("no such preset") != nil {
		t.Error("Find must return nil for unknown names")
	}
	if len(f.Strategies()) != len(f.Presets) {
		t.Error("Strategies must convert every preset")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *File {
		return &File{
			Meta: Meta{Name: "t", Version: "1"},
			Presets: []Preset{
				{Name: "a", Weights: map[string]float64{"BTC": 100}, Rebalance: "none"},
			},
			Breakout: BreakoutDefaults{K: 0.5, InvestRatio: 1.0, InitialCapital: 10000},
		}
	}

	tests := []struct {
		name   string
		mutate func(*File)
	}{
		{"missing meta name", func(f *File) { f.Meta.Name = "" }},
		{"no presets", func(f *File) { f.Presets = nil }},
		{"empty preset name", func(f *File) { f.Presets[0].Name = "" }},
		{"duplicate preset names", func(f *File) {
			f.Presets = append(f.Presets, f.Presets[0])
		}},
		{"bad cadence", func(f *File) { f.Presets[0].Rebalance = "weekly" }},
		{"no weights", func(f *File) { f.Presets[0].Weights = nil }},
		{"negative weight", func(f *File) { f.Presets[0].Weights["BTC"] = -10 }},
		{"leveraged weights", func(f *File) { f.Presets[0].Weights["ETH"] = 50 }},
		{"zero k", func(f *File) { f.Breakout.K = 0 }},
		{"invest ratio over 1", func(f *File) { f.Breakout.InvestRatio = 1.5 }},
		{"zero capital", func(f *File) { f.Breakout.InitialCapital = 0 }},
	}

	if err := Validate(valid()); err != nil {
		t.Fatalf("baseline must validate: %v", err)
	}

	for _, tc := range tests {
		f := valid()
		tc.mutate(f)
		if err := Validate(f); err == nil {
			t.Errorf("%s: expected error, got nil", tc.name)
		}
	}
}

func TestWarn(t *testing.T) {
	f := &File{
		Meta: Meta{Name: "t", Version: "1"},
		Presets: []Preset{
			// 합 70% → 현금 방치 경고
			{Name: "partial", Weights: map[string]float64{"BTC": 40, "ETH": 30}, Rebalance: "none"},
			// 90% 단일 자산 → 집중 경고
			{Name: "heavy", Weights: map[string]float64{"BTC": 90, "ETH": 10}, Rebalance: "monthly"},
		},
		Breakout: BreakoutDefaults{K: 1.5, InvestRatio: 1.0, InitialCapital: 10000},
	}

	warnings := Warn(f)
	if len(warnings) < 3 {
		t.Errorf("expected at least 3 warnings, got %d", len(warnings))
	}

	codes := make(map[string]bool)
	for _, w := range warnings {
		codes[w.Code] = true
	}
	for _, want := range []string{"UNINVESTED_CASH", "CONCENTRATION", "HIGH_BREAKOUT_K"} {
		if !codes[want] {
			t.Errorf("expected warning code %s", want)
		}
	}
}

func TestRunSnapshot(t *testing.T) {
	f := Default()
	yamlData := []byte("test yaml content")

	snap, err := NewRunSnapshot(f, yamlData, "presets.yaml")
	if err != nil {
		t.Fatalf("NewRunSnapshot failed: %v", err)
	}

	if snap.FileName != "presets.yaml" {
		t.Errorf("expected file_name=presets.yaml, got %s", snap.FileName)
	}
	if len(snap.ConfigHash) != 64 {
		t.Errorf("expected 64 char hash, got %d", len(snap.ConfigHash))
	}
	if snap.ConfigYAML != "test yaml content" {
		t.Error("raw yaml not preserved")
	}
}
