package shared

import (
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const devJWTSecret = "dev-insecure-secret-change-me"

type Config struct {
	AppEnv         string
	HTTPAddr       string
	MetricsAddr    string
	StoreBackend   string // mysql|memory
	MySQLDSN       string
	CacheBackend   string // redis|memory|none
	RedisAddr      string
	RedisDB        int
	RedisPass      string
	CacheTTL       time.Duration
	JWTSecret      string
	JWTTTL         time.Duration
	CancelCutoff   time.Duration
	SearchWorkers  int
	FeaturedCities []string
	AuthRateRPS    float64
	AuthRateBurst  int
	TrustedProxies []netip.Prefix
	RequestTimeout time.Duration
	SeedAdminEmail string
	SeedAdminPass  string
}

// Load reads an optional .env file, then the environment.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("could not read .env")
	}

	c := Config{
		AppEnv:         env("APP_ENV", "prod"),
		HTTPAddr:       env("HTTP_ADDR", ":8080"),
		MetricsAddr:    env("METRICS_ADDR", ""),
		StoreBackend:   strings.ToLower(env("STORE_BACKEND", "mysql")),
		MySQLDSN:       env("MYSQL_DSN", "root:root@tcp(localhost:3306)/hotel?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		CacheBackend:   strings.ToLower(env("CACHE_BACKEND", "redis")),
		RedisAddr:      env("REDIS_ADDR", "localhost:6379"),
		RedisPass:      env("REDIS_PASSWORD", ""),
		RedisDB:        atoi("REDIS_DB", 0),
		CacheTTL:       time.Duration(atoi("CACHE_TTL_SECONDS", 300)) * time.Second,
		JWTSecret:      env("JWT_SECRET", ""),
		JWTTTL:         time.Duration(atoi("JWT_TTL_HOURS", 24*7)) * time.Hour,
		CancelCutoff:   time.Duration(atoi("CANCEL_CUTOFF_HOURS", 24)) * time.Hour,
		SearchWorkers:  atoi("SEARCH_WORKERS", 8),
		FeaturedCities: list("FEATURED_CITIES", "Kyiv,Lviv,Odesa,Kharkiv"),
		AuthRateRPS:    atof("AUTH_RATE_RPS", 1),
		AuthRateBurst:  atoi("AUTH_RATE_BURST", 5),
		TrustedProxies: prefixes("TRUSTED_PROXIES"),
		RequestTimeout: time.Duration(atoi("REQUEST_TIMEOUT_SECONDS", 15)) * time.Second,
		SeedAdminEmail: env("SEED_ADMIN_EMAIL", "admin@hotelbooking.com"),
		SeedAdminPass:  env("SEED_ADMIN_PASSWORD", ""),
	}
	if c.JWTSecret == "" {
		if c.AppEnv != "dev" && c.AppEnv != "development" && c.AppEnv != "test" {
			log.Fatal().Msg("JWT_SECRET must be set outside dev")
		}
		log.Warn().Msg("JWT_SECRET is empty; using an insecure development secret")
		c.JWTSecret = devJWTSecret
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atoi(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Warn().Str("key", k).Str("value", v).Msg("not an integer; using default")
	}
	return def
}

func atof(k string, def float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Warn().Str("key", k).Str("value", v).Msg("not a number; using default")
	}
	return def
}

func list(k, def string) []string {
	var out []string
	for _, p := range strings.Split(env(k, def), ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// prefixes parses a comma-separated list of CIDRs or bare IPs.
func prefixes(k string) []netip.Prefix {
	var out []netip.Prefix
	for _, p := range list(k, "") {
		if pfx, err := netip.ParsePrefix(p); err == nil {
			out = append(out, pfx.Masked())
			continue
		}
		if addr, err := netip.ParseAddr(p); err == nil {
			out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
			continue
		}
		log.Warn().Str("key", k).Str("value", p).Msg("not an IP or CIDR; ignored")
	}
	return out
}
