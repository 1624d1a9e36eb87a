// Package feed streams real-time prices into the in-memory cache.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wonny/quantcore/internal/realtime"
	"github.com/wonny/quantcore/internal/realtime/cache"
	"github.com/wonny/quantcore/pkg/config"
	"github.com/wonny/quantcore/pkg/logger"
)

const (
	// Reconnect settings
	reconnectDelay    = 5 * time.Second
	maxReconnectDelay = 5 * time.Minute

	// Ping/Pong settings
	pingInterval = 30 * time.Second
	pongWait     = 60 * time.Second
	writeWait    = 10 * time.Second
)

// BinanceWSClient streams miniTicker updates for a fixed symbol set
// ⭐ SSOT: Binance WebSocket 연결 관리는 이 클라이언트에서만
type BinanceWSClient struct {
	config  *config.Config
	logger  *logger.Logger
	cache   *cache.PriceCache
	symbols []string

	conn   *websocket.Conn
	connMu sync.RWMutex

	stopCh       chan struct{}
	doneCh       chan struct{}
	reconnecting bool
	reconnectMu  sync.Mutex
}

// NewBinanceWSClient creates a Binance miniTicker stream client
func NewBinanceWSClient(cfg *config.Config, log *logger.Logger, priceCache *cache.PriceCache, symbols []string) *BinanceWSClient {
	return &BinanceWSClient{
		config:  cfg,
		logger:  log,
		cache:   priceCache,
		symbols: symbols,
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
}

// Start connects and begins streaming
func (c *BinanceWSClient) Start(ctx context.Context) error {
	c.logger.Info("Starting Binance WebSocket client")

	if err := c.connect(ctx); err != nil {
		return fmt.Errorf("initial connection failed: %w", err)
	}

	go c.readLoop(ctx)
	go c.pingLoop(ctx)

	return nil
}

// Stop closes the connection and waits for the read loop to exit
func (c *BinanceWSClient) Stop() {
	c.logger.Info("Stopping Binance WebSocket client")

	close(c.stopCh)

	c.connMu.Lock()
	if c.conn != nil {
		c.conn.Close()
	}
	c.connMu.Unlock()

	<-c.doneCh
}

// connect establishes the combined-stream WebSocket connection.
// 구독 심볼은 URL에 고정 — 재연결 시 자동 재구독
func (c *BinanceWSClient) connect(ctx context.Context) error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	wsURL := c.buildStreamURL()
	c.logger.WithField("url", wsURL).Debug("Connecting to Binance WebSocket")

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("dial failed: %w", err)
	}

	c.conn = conn

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	c.logger.WithField("symbols", len(c.symbols)).Info("Connected to Binance WebSocket")
	return nil
}

// buildStreamURL builds the combined miniTicker stream URL
func (c *BinanceWSClient) buildStreamURL() string {
	streams := make([]string, len(c.symbols))
	for i, sym := range c.symbols {
		streams[i] = StreamName(sym)
	}
	return fmt.Sprintf("%s/stream?streams=%s", c.config.Binance.WSBaseURL, strings.Join(streams, "/"))
}

// StreamName maps a symbol to its miniTicker stream name
func StreamName(symbol string) string {
	return strings.ToLower(symbol) + "usdt@miniTicker"
}

// readLoop reads messages from the WebSocket
func (c *BinanceWSClient) readLoop(ctx context.Context) {
	defer close(c.doneCh)

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.stopCh:
			return
		default:
		}

		c.connMu.RLock()
		conn := c.conn
		c.connMu.RUnlock()

		if conn == nil {
			time.Sleep(1 * time.Second)
			continue
		}

		_, message, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-c.stopCh:
				return
			default:
			}
			c.logger.WithError(err).Error("Failed to read message")
			c.handleDisconnect(ctx)
			continue
		}

		if err := c.handleMessage(message); err != nil {
			c.logger.WithError(err).Error("Failed to handle message")
		}
	}
}

// handleMessage parses a combined-stream envelope and updates the cache
func (c *BinanceWSClient) handleMessage(message []byte) error {
	var env streamEnvelope
	if err := json.Unmarshal(message, &env); err != nil {
		return fmt.Errorf("unmarshal message: %w", err)
	}
	if env.Data.EventType != "24hrMiniTicker" {
		return nil
	}

	tick, err := env.Data.toPriceTick()
	if err != nil {
		return fmt.Errorf("convert to price tick: %w", err)
	}

	if c.cache.Update(tick) {
		c.logger.WithFields(map[string]interface{}{
			"symbol": tick.Symbol,
			"price":  tick.Price,
		}).Debug("Updated price from WebSocket")
	}
	return nil
}

// handleDisconnect reconnects with exponential backoff
func (c *BinanceWSClient) handleDisconnect(ctx context.Context) {
	c.reconnectMu.Lock()
	if c.reconnecting {
		c.reconnectMu.Unlock()
		return
	}
	c.reconnecting = true
	c.reconnectMu.Unlock()

	defer func() {
		c.reconnectMu.Lock()
		c.reconnecting = false
		c.reconnectMu.Unlock()
	}()

	c.logger.Warn("WebSocket disconnected, attempting to reconnect")

	delay := reconnectDelay
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.stopCh:
			return
		case <-time.After(delay):
		}

		if err := c.connect(ctx); err != nil {
			c.logger.WithError(err).WithField("delay", delay).Error("Reconnect failed, retrying")

			delay *= 2
			if delay > maxReconnectDelay {
				delay = maxReconnectDelay
			}
			continue
		}

		c.logger.Info("Reconnected to Binance WebSocket")
		return
	}
}

// pingLoop sends periodic pings to keep the connection alive
func (c *BinanceWSClient) pingLoop(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.connMu.RLock()
			conn := c.conn
			c.connMu.RUnlock()

			if conn == nil {
				continue
			}

			if err := conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(writeWait)); err != nil {
				c.logger.WithError(err).Error("Failed to send ping")
			}
		}
	}
}

// streamEnvelope is the combined-stream wrapper:
// {"stream":"btcusdt@miniTicker","data":{...}}
type streamEnvelope struct {
	Stream string     `json:"stream"`
	Data   miniTicker `json:"data"`
}

// miniTicker is Binance's 24h rolling window ticker payload.
// 가격 필드는 문자열로 온다
type miniTicker struct {
	EventType string `json:"e"`
	EventTime int64  `json:"E"` // epoch millis
	Symbol    string `json:"s"` // e.g. BTCUSDT
	Close     string `json:"c"`
	Open      string `json:"o"`
	High      string `json:"h"`
	Low       string `json:"l"`
	Volume    string `json:"v"`
}

func (m *miniTicker) toPriceTick() (*realtime.PriceTick, error) {
	price, err := strconv.ParseFloat(m.Close, 64)
	if err != nil {
		return nil, fmt.Errorf("parse close %q: %w", m.Close, err)
	}
	open, err := strconv.ParseFloat(m.Open, 64)
	if err != nil {
		return nil, fmt.Errorf("parse open %q: %w", m.Open, err)
	}
	high, _ := strconv.ParseFloat(m.High, 64)
	low, _ := strconv.ParseFloat(m.Low, 64)
	volume, _ := strconv.ParseFloat(m.Volume, 64)

	changeRate := 0.0
	if open > 0 {
		changeRate = (price/open - 1) * 100
	}

	return &realtime.PriceTick{
		Symbol:     strings.TrimSuffix(m.Symbol, "USDT"),
		Price:      price,
		Open24h:    open,
		High24h:    high,
		Low24h:     low,
		ChangeRate: changeRate,
		Volume:     volume,
		Timestamp:  time.UnixMilli(m.EventTime),
		Source:     string(realtime.SourceBinanceWS),
	}, nil
}
