package realtime

import "time"

// PriceTick represents a real-time price update
// ⭐ SSOT: 실시간 가격 데이터 구조
type PriceTick struct {
	Symbol     string    `json:"symbol"`
	Price      float64   `json:"price"`       // 현재가 (USD)
	Open24h    float64   `json:"open_24h"`    // 24시간 전 시가
	High24h    float64   `json:"high_24h"`    // 24시간 고가
	Low24h     float64   `json:"low_24h"`     // 24시간 저가
	ChangeRate float64   `json:"change_rate"` // 24시간 등락율 (%)
	Volume     float64   `json:"volume"`      // 24시간 거래량 (base asset)
	Timestamp  time.Time `json:"timestamp"`
	Source     string    `json:"source"`
	IsStale    bool      `json:"is_stale"`
}

// PriceSource represents the source of price data
type PriceSource string

const (
	SourceBinanceWS     PriceSource = "BINANCE_WS"
	SourceCoinGeckoREST PriceSource = "COINGECKO_REST"
	SourceSynthetic     PriceSource = "SYNTHETIC"
)

// Priority returns the trust order of a source (higher = better).
// 같은 타임스탬프면 우선순위 높은 소스만 캐시를 덮어쓴다
func (s PriceSource) Priority() int {
	switch s {
	case SourceBinanceWS:
		return 3
	case SourceCoinGeckoREST:
		return 2
	case SourceSynthetic:
		return 1
	default:
		return 0
	}
}
