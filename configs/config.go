package configs

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	DBDriver  string
	DBSource  string
	Port      string
	JWTSecret string
	JWTTTL    time.Duration

	LogLevel string
	LogFile  string

	CORSOrigins []string

	RedisAddr    string
	MenuCacheTTL time.Duration

	KafkaBrokers []string
	KafkaTopic   string

	SeedFile      string
	StaffEmail    string
	StaffPassword string
}

// LoadConfig reads .env (if present) and the environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	} else if err != nil {
		log.Info("no .env file, using environment only")
	}

	ttlHours, err := getInt("JWT_TTL_HOURS", 24)
	if err != nil {
		return nil, err
	}
	cacheSecs, err := getInt("MENU_CACHE_TTL_SECONDS", 300)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DBDriver:      getEnv("DB_DRIVER", "sqlite"),
		DBSource:      getEnv("DB_SOURCE", "cos.db"),
		Port:          getEnv("PORT", "8000"),
		JWTSecret:     getEnv("JWT_SECRET", "changeme"),
		JWTTTL:        time.Duration(ttlHours) * time.Hour,
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFile:       os.Getenv("LOG_FILE"),
		CORSOrigins:   getList("CORS_ORIGINS", []string{"*"}),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		MenuCacheTTL:  time.Duration(cacheSecs) * time.Second,
		KafkaBrokers:  getList("KAFKA_BROKERS", nil),
		KafkaTopic:    getEnv("KAFKA_TOPIC", "order-status"),
		SeedFile:      os.Getenv("SEED_FILE"),
		StaffEmail:    os.Getenv("STAFF_EMAIL"),
		StaffPassword: os.Getenv("STAFF_PASSWORD"),
	}

	switch cfg.DBDriver {
	case "sqlite", "postgres":
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, v)
	}
	return n, nil
}

func getList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
