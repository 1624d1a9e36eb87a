package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// External data sources
	CoinGecko CoinGeckoConfig
	Binance   BinanceConfig

	// Analytics defaults
	Analytics AnalyticsConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	URL      string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// CoinGeckoConfig holds CoinGecko API configuration
type CoinGeckoConfig struct {
	BaseURL string
	APIKey  string
	// Requests per minute allowed against the public API
	RateLimitPerMin int
}

// BinanceConfig holds Binance WebSocket configuration
type BinanceConfig struct {
	WSBaseURL string
	Enabled   bool
}

// AnalyticsConfig holds analytics engine defaults
type AnalyticsConfig struct {
	// Annualized risk-free rate in percent (e.g. 4.5)
	RiskFreeRate float64
	// Default Monte Carlo sample count
	FrontierSamples int
	// Default breakout multiplier and invested capital fraction
	BreakoutK           float64
	BreakoutInvestRatio float64
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	// Try multiple paths for .env file
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8090"),
		Env:  getEnv("ENV", "development"),

		// Database
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			Name:            getEnv("DB_NAME", "quantcore"),
			User:            getEnv("DB_USER", "quantcore"),
			Password:        getEnv("DB_PASSWORD", ""),
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 5),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
		},

		// External data sources
		CoinGecko: CoinGeckoConfig{
			BaseURL:         getEnv("COINGECKO_BASE_URL", "https://api.coingecko.com/api/v3"),
			APIKey:          getEnv("COINGECKO_API_KEY", ""),
			RateLimitPerMin: getEnvAsInt("COINGECKO_RATE_LIMIT_PER_MIN", 30),
		},

		Binance: BinanceConfig{
			WSBaseURL: getEnv("BINANCE_WS_BASE_URL", "wss://stream.binance.com:9443/ws"),
			Enabled:   getEnvAsBool("BINANCE_WS_ENABLED", false),
		},

		// Analytics defaults
		Analytics: AnalyticsConfig{
			RiskFreeRate:        getEnvAsFloat("RISK_FREE_RATE", 4.5),
			FrontierSamples:     getEnvAsInt("FRONTIER_SAMPLES", 3000),
			BreakoutK:           getEnvAsFloat("BREAKOUT_K", 0.5),
			BreakoutInvestRatio: getEnvAsFloat("BREAKOUT_INVEST_RATIO", 1.0),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "debug"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	// Validate environment
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Analytics.FrontierSamples <= 0 {
		return fmt.Errorf("FRONTIER_SAMPLES must be positive")
	}

	if c.Analytics.BreakoutInvestRatio <= 0 || c.Analytics.BreakoutInvestRatio > 1 {
		return fmt.Errorf("BREAKOUT_INVEST_RATIO must be in (0, 1]")
	}

	if c.CoinGecko.RateLimitPerMin <= 0 {
		return fmt.Errorf("COINGECKO_RATE_LIMIT_PER_MIN must be positive")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	// Explicit override wins
	if path := os.Getenv("ENV_FILE"); path != "" {
		_ = godotenv.Load(path)
		return
	}

	// Try paths in order of priority
	paths := []string{
		".env", // Current directory
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
			filepath.Join(exeDir, "..", "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		// Fallback to default
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
