package simulate

import (
	"github.com/wonny/quantcore/pkg/logger"
)

// Engine runs strategy simulations
// ⭐ SSOT: 전략 시뮬레이션 실행은 여기서만
//
// The engine holds no state between runs; every Run* call is
// re-entrant and pure with respect to its inputs.
type Engine struct {
	logger *logger.Logger
}

// NewEngine creates a new simulation engine
func NewEngine(log *logger.Logger) *Engine {
	return &Engine{logger: log}
}
