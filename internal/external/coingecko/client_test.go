package coingecko

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/quantcore/pkg/config"
	"github.com/wonny/quantcore/pkg/logger"
)

func testClient(baseURL string) *Client {
	cfg := &config.Config{
		CoinGecko: config.CoinGeckoConfig{
			BaseURL:         baseURL,
			RateLimitPerMin: 600, // 테스트에서 대기 없음
		},
	}
	return NewClient(cfg, logger.Nop())
}

func TestCoinID(t *testing.T) {
	assert.Equal(t, "bitcoin", CoinID("BTC"))
	assert.Equal(t, "ethereum", CoinID("ETH"))
	// 미등록 심볼은 소문자 변환으로 통과
	assert.Equal(t, "pepe", CoinID("PEPE"))
}

func TestMarketChart(t *testing.T) {
	day := 24 * time.Hour
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/coins/bitcoin/market_chart", r.URL.Path)
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currency"))
		assert.Equal(t, "daily", r.URL.Query().Get("interval"))

		fmt.Fprintf(w, `{"prices":[[%d,50000],[%d,51000],[%d,52000]]}`,
			base.UnixMilli(), base.Add(day).UnixMilli(), base.Add(2*day).UnixMilli())
	}))
	defer srv.Close()

	hist, err := testClient(srv.URL).MarketChart(context.Background(), "BTC", 3)
	require.NoError(t, err)
	require.Len(t, hist, 3)

	assert.Equal(t, base, hist[0].Date)
	assert.Equal(t, 50000.0, hist[0].Price)
	assert.Equal(t, 52000.0, hist[2].Price)
}

func TestMarketChart_DeduplicatesSameDay(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 마지막 포인트는 당일 현재가 — 같은 날짜가 두 번 온다
		fmt.Fprintf(w, `{"prices":[[%d,50000],[%d,50500]]}`,
			base.UnixMilli(), base.Add(6*time.Hour).UnixMilli())
	}))
	defer srv.Close()

	hist, err := testClient(srv.URL).MarketChart(context.Background(), "BTC", 2)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, 50500.0, hist[0].Price)
}

func TestMarketChart_CapsDays(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "365", r.URL.Query().Get("days"))
		fmt.Fprint(w, `{"prices":[]}`)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).MarketChart(context.Background(), "BTC", 1000)
	require.NoError(t, err)
}

func TestMarketChart_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"coin not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).MarketChart(context.Background(), "NOPE", 30)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
