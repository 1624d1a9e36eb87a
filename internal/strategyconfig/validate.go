package strategyconfig

import (
	"fmt"
	"math"

	"github.com/wonny/quantcore/internal/simulate"
)

// ValidationError 검증 실패 (프로그램 중단)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Warning 권장 위반 (경고만)
type Warning struct {
	Code    string
	Message string
}

var validCadences = map[string]bool{
	string(simulate.CadenceNone):      true,
	string(simulate.CadenceMonthly):   true,
	string(simulate.CadenceQuarterly): true,
	string(simulate.CadenceAnnually):  true,
}

// Validate checks all required constraints.
// 실패 시 error 반환 (프로그램 중단)
func Validate(f *File) error {
	if f.Meta.Name == "" {
		return ValidationError{"meta.name", "required"}
	}

	if len(f.Presets) == 0 {
		return ValidationError{"presets", "at least one preset required"}
	}

	seen := make(map[string]bool, len(f.Presets))
	for i, p := range f.Presets {
		field := fmt.Sprintf("presets[%d]", i)

		if p.Name == "" {
			return ValidationError{field + ".name", "required"}
		}
		if seen[p.Name] {
			return ValidationError{field + ".name", fmt.Sprintf("duplicate preset name %q", p.Name)}
		}
		seen[p.Name] = true

		if !validCadences[p.Rebalance] {
			return ValidationError{field + ".rebalance", fmt.Sprintf("must be one of none|monthly|quarterly|annually, got %q", p.Rebalance)}
		}

		if len(p.Weights) == 0 {
			return ValidationError{field + ".weights", "at least one asset required"}
		}

		sum := 0.0
		for sym, w := range p.Weights {
			if sym == "" {
				return ValidationError{field + ".weights", "empty symbol key"}
			}
			if w <= 0 {
				return ValidationError{field + ".weights", fmt.Sprintf("%s: weight must be > 0, got %.2f", sym, w)}
			}
			sum += w
		}
		// 합이 100을 넘으면 레버리지 — 허용하지 않음
		if sum > 100+1e-9 {
			return ValidationError{field + ".weights", fmt.Sprintf("must sum to at most 100, got %.2f", sum)}
		}
	}

	b := f.Breakout
	if b.K <= 0 {
		return ValidationError{"breakout.k", fmt.Sprintf("must be > 0, got %.2f", b.K)}
	}
	if b.InvestRatio <= 0 || b.InvestRatio > 1 {
		return ValidationError{"breakout.invest_ratio", fmt.Sprintf("must be in (0, 1], got %.2f", b.InvestRatio)}
	}
	if b.InitialCapital <= 0 {
		return ValidationError{"breakout.initial_capital", fmt.Sprintf("must be > 0, got %.2f", b.InitialCapital)}
	}

	return nil
}

// Warn checks recommended constraints (non-fatal)
func Warn(f *File) []Warning {
	var warnings []Warning

	for _, p := range f.Presets {
		sum := 0.0
		maxWeight := 0.0
		for _, w := range p.Weights {
			sum += w
			if w > maxWeight {
				maxWeight = w
			}
		}

		// 합 < 100이면 잔여분은 미투자 현금으로 방치됨
		if math.Abs(sum-100) > 0.5 {
			warnings = append(warnings, Warning{
				Code:    "UNINVESTED_CASH",
				Message: fmt.Sprintf("%s: weights sum to %.1f%%, remainder stays uninvested", p.Name, sum),
			})
		}

		// 단일 자산 집중 경고 (100% 프리셋은 의도된 것이므로 제외)
		if maxWeight >= 80 && maxWeight < 100 {
			warnings = append(warnings, Warning{
				Code:    "CONCENTRATION",
				Message: fmt.Sprintf("%s: single asset at %.0f%%", p.Name, maxWeight),
			})
		}
	}

	// K > 1은 전일 변동폭 전체보다 먼 돌파 목표 — 체결 빈도 급감
	if f.Breakout.K > 1 {
		warnings = append(warnings, Warning{
			Code:    "HIGH_BREAKOUT_K",
			Message: fmt.Sprintf("breakout k=%.2f rarely triggers entries", f.Breakout.K),
		})
	}

	return warnings
}
