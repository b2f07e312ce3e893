package environment

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds every environment-driven setting. Values fall back to
// development defaults when the variable is unset.
type Config struct {
	Port         string
	DatabasePath string

	JWTSecret   string
	TokenExpiry time.Duration
	BcryptCost  int

	MLServiceURL    string
	UpstreamTimeout time.Duration

	CacheTTLHistory    time.Duration
	CacheTTLPrediction time.Duration

	RateAuthWindow    time.Duration
	RateAuthMax       int
	RateStockWindow   time.Duration
	RateStockMax      int
	RateGeneralWindow time.Duration
	RateGeneralMax    int

	TrustedProxies []string
}

// Load reads the configuration from environment variables.
func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "8080"),
		DatabasePath: getEnv("DATABASE_PATH", "data/dashboard.db"),

		JWTSecret:   getEnv("JWT_SECRET", "dev-secret-change-me"),
		TokenExpiry: getDuration("JWT_EXPIRES_IN", 168*time.Hour),
		BcryptCost:  getInt("BCRYPT_COST", 12),

		MLServiceURL:    getEnv("ML_SERVICE_URL", "http://localhost:8001"),
		UpstreamTimeout: getDuration("UPSTREAM_TIMEOUT", 30*time.Second),

		CacheTTLHistory:    getDuration("CACHE_TTL_HISTORY", 5*time.Minute),
		CacheTTLPrediction: getDuration("CACHE_TTL_PREDICTION", 15*time.Minute),

		RateAuthWindow:    getDuration("RATE_AUTH_WINDOW", 15*time.Minute),
		RateAuthMax:       getInt("RATE_AUTH_MAX", 5),
		RateStockWindow:   getDuration("RATE_STOCK_WINDOW", time.Minute),
		RateStockMax:      getInt("RATE_STOCK_MAX", 30),
		RateGeneralWindow: getDuration("RATE_GENERAL_WINDOW", 15*time.Minute),
		RateGeneralMax:    getInt("RATE_GENERAL_MAX", 100),

		TrustedProxies: getList("TRUSTED_PROXIES"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			log.Printf("invalid integer for %s: %s, using default %d", key, v, def)
			return def
		}
		return n
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("invalid duration for %s: %s, using default %s", key, v, def)
			return def
		}
		return d
	}
	return def
}

func getList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
