// Package coingecko fetches daily price history from the CoinGecko
// market_chart endpoint.
// ⭐ SSOT: CoinGecko API 호출은 이 클라이언트에서만
package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/wonny/quantcore/internal/series"
	"github.com/wonny/quantcore/pkg/config"
	"github.com/wonny/quantcore/pkg/httputil"
	"github.com/wonny/quantcore/pkg/logger"
)

// MaxDays: 무료 API는 최대 365일까지만 제공
const MaxDays = 365

// coinIDs maps internal symbols to CoinGecko asset ids
var coinIDs = map[string]string{
	"BTC":  "bitcoin",
	"ETH":  "ethereum",
	"BNB":  "binancecoin",
	"SOL":  "solana",
	"XRP":  "ripple",
	"ADA":  "cardano",
	"DOGE": "dogecoin",
}

// CoinID resolves a symbol to its CoinGecko id; unknown symbols map
// to their lowercase form so less common assets still work
func CoinID(symbol string) string {
	if id, ok := coinIDs[symbol]; ok {
		return id
	}
	return strings.ToLower(symbol)
}

// Client wraps the CoinGecko REST API with a local courtesy rate limit
type Client struct {
	http    *httputil.Client
	limiter *rate.Limiter
	baseURL string
	apiKey  string
	logger  *logger.Logger
}

// NewClient creates a CoinGecko client from config
func NewClient(cfg *config.Config, log *logger.Logger) *Client {
	perMin := cfg.CoinGecko.RateLimitPerMin
	if perMin <= 0 {
		perMin = 30
	}

	return &Client{
		http:    httputil.NewWithTimeout(cfg, log, 20*time.Second),
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMin)), 1),
		baseURL: cfg.CoinGecko.BaseURL,
		apiKey:  cfg.CoinGecko.APIKey,
		logger:  log,
	}
}

// marketChartResponse is the raw market_chart payload:
// prices is [[timestamp_ms, price], ...]
type marketChartResponse struct {
	Prices [][2]float64 `json:"prices"`
}

// MarketChart fetches up to `days` of daily closes for a symbol,
// oldest first, one point per calendar day
func (c *Client) MarketChart(ctx context.Context, symbol string, days int) (series.Series, error) {
	if days > MaxDays {
		days = MaxDays
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("coingecko rate limit wait: %w", err)
	}

	url := fmt.Sprintf("%s/api/v3/coins/%s/market_chart?vs_currency=usd&days=%d&interval=daily",
		c.baseURL, CoinID(symbol), days)
	if c.apiKey != "" {
		url += "&x_cg_demo_api_key=" + c.apiKey
	}

	resp, err := c.http.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("coingecko request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("coingecko status %d: %s", resp.StatusCode, body)
	}

	var chart marketChartResponse
	if err := json.NewDecoder(resp.Body).Decode(&chart); err != nil {
		return nil, fmt.Errorf("coingecko decode failed: %w", err)
	}

	return toSeries(chart.Prices), nil
}

// toSeries converts [[ms, price]] pairs to a day-deduplicated series.
// 같은 날짜가 여러 번 오면 마지막 값이 그 날의 종가
func toSeries(pairs [][2]float64) series.Series {
	var out series.Series
	for _, pair := range pairs {
		d := series.Day(time.UnixMilli(int64(pair[0])).UTC())
		p := series.PricePoint{Date: d, Price: pair[1]}

		if n := len(out); n > 0 && out[n-1].Date.Equal(d) {
			out[n-1] = p
			continue
		}
		out = append(out, p)
	}
	return out
}
