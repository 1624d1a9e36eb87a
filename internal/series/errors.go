package series

import "errors"

// Structural data-availability failures.
// 수치적 퇴화(분모 0 등)는 에러가 아니라 문서화된 폴백으로 처리
var (
	// ErrInsufficientData means a required asset has too little history to
	// run any simulation (zero points, or fewer than ~2 weeks aligned)
	ErrInsufficientData = errors.New("insufficient price data")

	// ErrMissingPrice means a specific date lacks a price for a required
	// asset mid-simulation; runs abort rather than substitute stale prices
	ErrMissingPrice = errors.New("missing price for required asset")
)
