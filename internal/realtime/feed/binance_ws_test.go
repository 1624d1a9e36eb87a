package feed

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/quantcore/internal/realtime"
)

func TestStreamName(t *testing.T) {
	assert.Equal(t, "btcusdt@miniTicker", StreamName("BTC"))
	assert.Equal(t, "solusdt@miniTicker", StreamName("SOL"))
}

func TestMiniTickerToPriceTick(t *testing.T) {
	raw := `{
		"stream": "btcusdt@miniTicker",
		"data": {
			"e": "24hrMiniTicker",
			"E": 1709290000000,
			"s": "BTCUSDT",
			"c": "51000.50",
			"o": "50000.00",
			"h": "51500.00",
			"l": "49800.00",
			"v": "12345.6"
		}
	}`

	var env streamEnvelope
	require.NoError(t, json.Unmarshal([]byte(raw), &env))

	tick, err := env.Data.toPriceTick()
	require.NoError(t, err)

	assert.Equal(t, "BTC", tick.Symbol)
	assert.Equal(t, 51000.50, tick.Price)
	assert.Equal(t, 50000.00, tick.Open24h)
	assert.InDelta(t, 2.001, tick.ChangeRate, 1e-3)
	assert.Equal(t, time.UnixMilli(1709290000000), tick.Timestamp)
	assert.Equal(t, string(realtime.SourceBinanceWS), tick.Source)
}

func TestMiniTickerToPriceTick_BadClose(t *testing.T) {
	m := miniTicker{EventType: "24hrMiniTicker", Symbol: "BTCUSDT", Close: "not-a-number", Open: "1"}

	_, err := m.toPriceTick()
	assert.Error(t, err)
}

func TestMiniTickerToPriceTick_ZeroOpen(t *testing.T) {
	m := miniTicker{EventType: "24hrMiniTicker", Symbol: "BTCUSDT", Close: "100", Open: "0"}

	tick, err := m.toPriceTick()
	require.NoError(t, err)
	assert.Equal(t, 0.0, tick.ChangeRate)
}
