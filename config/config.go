package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime settings read from the environment (and .env when present).
type Config struct {
	Env     string
	Port    string
	GinMode string

	DBDriver   string // mysql, postgres or sqlite
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	DBPath     string // sqlite file

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifeTime int // minutes

	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int

	CORSOrigin string

	ServiceOpen             string
	ServiceClose            string
	StrictReservationDelete bool

	RateLimit       int
	RateLimitWindow time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	RabbitMQURL string
}

// DefaultJWTSecret is only accepted when APP_ENV is dev.
const DefaultJWTSecret = "dev-secret-change-me"

var ErrDefaultJWTSecret = errors.New("JWT_SECRET must be set outside the dev environment")

// Validate rejects settings that are only safe for local development.
func (c Config) Validate() error {
	if c.Env != "dev" && (c.JWTSecret == "" || c.JWTSecret == DefaultJWTSecret) {
		return ErrDefaultJWTSecret
	}
	return nil
}

// Load reads .env (if any) and the process environment.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Env:     strings.ToLower(getEnv("APP_ENV", "dev")),
		Port:    getEnv("PORT", "5002"),
		GinMode: getEnv("GIN_MODE", "debug"),

		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnvInt("DB_PORT", 3306),
		DBUser:     getEnv("DB_USER", "root"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getEnv("DB_NAME", "bookahead"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		DBPath:     getEnv("DB_PATH", "bookahead.db"),

		MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
		MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifeTime: getEnvInt("DB_CONN_MAX_LIFETIME_MIN", 30),

		JWTSecret:  getEnv("JWT_SECRET", DefaultJWTSecret),
		TokenTTL:   getEnvDur("TOKEN_TTL", 72*time.Hour),
		BcryptCost: getEnvInt("BCRYPT_COST", 10),

		CORSOrigin: getEnv("CORS_ORIGIN", "http://localhost:3000"),

		ServiceOpen:             getEnv("SERVICE_OPEN", "11:00"),
		ServiceClose:            getEnv("SERVICE_CLOSE", "23:59"),
		StrictReservationDelete: getEnvBool("STRICT_RESERVATION_DELETE", false),

		RateLimit:       getEnvInt("RATE_LIMIT", 50),
		RateLimitWindow: getEnvDur("RATE_LIMIT_WINDOW", time.Second),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		CacheTTL:      getEnvDur("CACHE_TTL", 30*time.Second),

		RabbitMQURL: os.Getenv("RABBITMQ_URL"),
	}
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getEnvDur(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	return def
}
