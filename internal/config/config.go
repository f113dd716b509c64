package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultSeedMALIDs is the catalog imported on first start when the store is empty.
var DefaultSeedMALIDs = []int{30, 50059, 38000, 40748, 61128, 61517, 59517}

// Config holds all configuration for the anime catalog service.
type Config struct {
	DB        DBConfig
	Redis     RedisConfig
	Jikan     JikanConfig
	Seed      SeedConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Upload    UploadConfig
	Port      string
	LogLevel  string
}

// DBConfig holds PostgreSQL configuration.
type DBConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	SSLRootCert string
}

// DSN returns the PostgreSQL connection string.
func (d DBConfig) DSN() string {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
	if d.SSLRootCert != "" {
		dsn += fmt.Sprintf(" sslrootcert=%s", d.SSLRootCert)
	}
	return dsn
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// JikanConfig holds Jikan (MyAnimeList) API configuration.
type JikanConfig struct {
	BaseURL string
}

// SeedConfig controls the one-shot catalog import on an empty store.
type SeedConfig struct {
	Enabled  bool
	MALIDs   []int
	Interval time.Duration
}

// AuthConfig holds the admin credential and user token settings.
// An empty JWTSecret disables user tokens.
type AuthConfig struct {
	AdminPassword string
	JWTSecret     string
	JWTTTL        time.Duration
}

// RateLimitConfig bounds credential-bearing requests per client IP.
type RateLimitConfig struct {
	Max           int
	WindowSeconds int
}

// UploadConfig holds the local blob store settings for video uploads.
// An empty Secret disables uploads.
type UploadConfig struct {
	Dir           string
	Secret        string
	URLTTL        time.Duration
	PublicBaseURL string
	MaxBytes      int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	dbPort, err := getEnvInt("DB_PORT", 5432)
	if err != nil {
		return nil, err
	}
	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	seedEnabled, err := getEnvBool("SEED_ENABLED", true)
	if err != nil {
		return nil, err
	}
	seedIDs, err := parseIDList(getEnv("SEED_MAL_IDS", ""))
	if err != nil {
		return nil, err
	}
	if len(seedIDs) == 0 {
		seedIDs = append([]int(nil), DefaultSeedMALIDs...)
	}
	seedInterval, err := getEnvDuration("SEED_INTERVAL", 2*time.Second)
	if err != nil {
		return nil, err
	}
	jwtTTL, err := getEnvDuration("JWT_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	rateMax, err := getEnvInt("RATE_LIMIT_MAX", 20)
	if err != nil {
		return nil, err
	}
	rateWindow, err := getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60)
	if err != nil {
		return nil, err
	}
	uploadTTL, err := getEnvDuration("UPLOAD_URL_TTL", 15*time.Minute)
	if err != nil {
		return nil, err
	}
	uploadMax, err := getEnvInt("UPLOAD_MAX_BYTES", 512<<20)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DB: DBConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        dbPort,
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", "postgres"),
			DBName:      getEnv("DB_NAME", "anime_catalog"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			SSLRootCert: getEnv("DB_SSLROOTCERT", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Jikan: JikanConfig{
			BaseURL: strings.TrimRight(getEnv("JIKAN_BASE_URL", "https://api.jikan.moe/v4"), "/"),
		},
		Seed: SeedConfig{
			Enabled:  seedEnabled,
			MALIDs:   seedIDs,
			Interval: seedInterval,
		},
		Auth: AuthConfig{
			AdminPassword: os.Getenv("ADMIN_PASSWORD"),
			JWTSecret:     os.Getenv("JWT_SECRET"),
			JWTTTL:        jwtTTL,
		},
		RateLimit: RateLimitConfig{
			Max:           rateMax,
			WindowSeconds: rateWindow,
		},
		Upload: UploadConfig{
			Dir:           getEnv("UPLOAD_DIR", "./uploads"),
			Secret:        os.Getenv("UPLOAD_SECRET"),
			URLTTL:        uploadTTL,
			PublicBaseURL: strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
			MaxBytes:      uploadMax,
		},
		Port:     getEnv("SERVER_PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return b, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}

// parseIDList parses a comma-separated list of positive integers.
func parseIDList(s string) ([]int, error) {
	var ids []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid SEED_MAL_IDS entry %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
