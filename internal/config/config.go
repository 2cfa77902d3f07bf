package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	MaxConns int32
}

func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable pool_max_conns=%d",
		c.Host, c.Port, c.User, c.Password, c.Name, c.MaxConns)
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
	GroupID string
}

type OutboxConfig struct {
	PollInterval time.Duration
	BatchSize    int
	MaxAttempts  int
}

type Config struct {
	HTTPPort      string
	LogLevel      string
	StorageDriver string

	DB     DBConfig
	Kafka  KafkaConfig
	Outbox OutboxConfig

	RateLimit       int
	RateWindow      time.Duration
	StoreTimeout    time.Duration
	IdentityTimeout time.Duration
	ViewCacheTTL    time.Duration

	JWTSecret     string
	AdminUsername string
	AdminPassword string

	StrictTransitions      bool
	StrictQuoteProgression bool
	TrackingPrefix         string
	CORSAllowOrigin        string
}

// LoadEnv loads the first .env (or .example.env) found in the working
// directory or its two parents. Missing files are not an error: the process
// environment is used as is.
func LoadEnv() {
	wd, err := os.Getwd()
	if err != nil {
		log.Printf("Error getting working directory: %v", err)
		return
	}

	possiblePaths := []string{
		filepath.Join(wd, ".env"),
		filepath.Join(wd, "..", ".env"),
		filepath.Join(wd, "..", "..", ".env"),
	}

	for _, envPath := range possiblePaths {
		if err := godotenv.Load(envPath); err == nil {
			log.Printf("Loaded environment variables from %s", envPath)
			return
		}
	}

	for _, envPath := range possiblePaths {
		examplePath := filepath.Join(filepath.Dir(envPath), ".example.env")
		if err := godotenv.Load(examplePath); err == nil {
			log.Printf("Loaded environment variables from %s", examplePath)
			return
		}
	}
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	p := &parser{}

	cfg := &Config{
		HTTPPort:      getEnv("HTTP_PORT", "9000"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		StorageDriver: getEnv("STORAGE_DRIVER", DriverPostgres),
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     p.int("DB_PORT", 5432),
			User:     getEnv("POSTGRES_USER", "postgres"),
			Password: getEnv("POSTGRES_PASSWORD", "postgres"),
			Name:     getEnv("POSTGRES_DB", "tracker"),
			MaxConns: int32(p.int("DB_MAX_CONNS", 10)),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(os.Getenv("KAFKA_BROKERS")),
			Topic:   getEnv("KAFKA_TOPIC", "shipment_status_events"),
			GroupID: getEnv("KAFKA_GROUP_ID", "shipment-status-consumer-group"),
		},
		Outbox: OutboxConfig{
			PollInterval: p.duration("OUTBOX_POLL_INTERVAL", time.Second),
			BatchSize:    p.int("OUTBOX_BATCH_SIZE", 20),
			MaxAttempts:  p.int("OUTBOX_MAX_ATTEMPTS", 5),
		},
		RateLimit:              p.int("RATE_LIMIT", 30),
		RateWindow:             p.duration("RATE_WINDOW", time.Minute),
		StoreTimeout:           p.duration("STORE_TIMEOUT", 5*time.Second),
		IdentityTimeout:        p.duration("IDENTITY_TIMEOUT", 2*time.Second),
		ViewCacheTTL:           p.duration("VIEW_CACHE_TTL", 5*time.Second),
		JWTSecret:              os.Getenv("JWT_SECRET"),
		AdminUsername:          os.Getenv("ADMIN_USERNAME"),
		AdminPassword:          os.Getenv("ADMIN_PASSWORD"),
		StrictTransitions:      p.bool("STRICT_TRANSITIONS", false),
		StrictQuoteProgression: p.bool("STRICT_QUOTE_PROGRESSION", false),
		TrackingPrefix:         getEnv("TRACKING_PREFIX", "AFG"),
		CORSAllowOrigin:        getEnv("CORS_ALLOW_ORIGIN", "*"),
	}

	if p.err != nil {
		return nil, p.err
	}

	switch cfg.StorageDriver {
	case DriverPostgres, DriverMemory:
	default:
		return nil, fmt.Errorf("invalid STORAGE_DRIVER %q: want %q or %q", cfg.StorageDriver, DriverPostgres, DriverMemory)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parser keeps the first conversion error so Load can report it once.
type parser struct {
	err error
}

func (p *parser) int(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n
}

func (p *parser) duration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d
}

func (p *parser) bool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return b
}
