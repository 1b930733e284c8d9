package config

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"

	defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	DBDriver      string
	Port          string
	IsProduction  bool
	EnableDBCheck bool
	RunMigrations bool

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// Telegram
	BotToken               string
	TelegramAPIBaseURL     string
	TelegramSendTimeout    time.Duration
	TelegramInitDataMaxAge time.Duration

	AdminTelegramIDs     []int64
	AutoApprovePurchases bool
	DevMode              bool

	CORSOrigins []string
	RateLimit   string

	PosthogAPIKey   string
	PosthogEndpoint string

	KafkaBrokers []string
	KafkaTopic   string

	NotificationConcurrency int
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("DB_DRIVER", DriverPostgres)
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("RUN_MIGRATIONS", true)
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_EXPIRY_DURATION", "24h")
	v.SetDefault("JWT_ISSUER", "club-tab")
	v.SetDefault("BOT_TOKEN", "")
	v.SetDefault("TELEGRAM_API_BASE_URL", "https://api.telegram.org")
	v.SetDefault("TELEGRAM_SEND_TIMEOUT", "10s")
	v.SetDefault("TELEGRAM_INIT_DATA_MAX_AGE", "1h")
	v.SetDefault("ADMIN_TELEGRAM_IDS", "")
	v.SetDefault("AUTO_APPROVE_PURCHASES", true)
	v.SetDefault("DEV_MODE", false)
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("RATE_LIMIT", "300-M")
	v.SetDefault("POSTHOG_API_KEY", "")
	v.SetDefault("POSTHOG_ENDPOINT", "https://eu.i.posthog.com")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_TOPIC", "ledger-events")
	v.SetDefault("NOTIFICATION_CONCURRENCY", 4)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		DatabaseURL:          v.GetString("PGSQL_URL"),
		DBDriver:             strings.ToLower(strings.TrimSpace(v.GetString("DB_DRIVER"))),
		Port:                 v.GetString("PORT"),
		IsProduction:         v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:        v.GetBool("ENABLE_DB_CHECK"),
		RunMigrations:        v.GetBool("RUN_MIGRATIONS"),
		JWTSecret:            v.GetString("JWT_SECRET"),
		JWTIssuer:            v.GetString("JWT_ISSUER"),
		BotToken:             v.GetString("BOT_TOKEN"),
		TelegramAPIBaseURL:   strings.TrimRight(v.GetString("TELEGRAM_API_BASE_URL"), "/"),
		AutoApprovePurchases: v.GetBool("AUTO_APPROVE_PURCHASES"),
		DevMode:              v.GetBool("DEV_MODE"),
		RateLimit:            v.GetString("RATE_LIMIT"),
		PosthogAPIKey:        v.GetString("POSTHOG_API_KEY"),
		PosthogEndpoint:      v.GetString("POSTHOG_ENDPOINT"),
		KafkaTopic:           v.GetString("KAFKA_TOPIC"),
		CORSOrigins:          splitList(v.GetString("CORS_ORIGINS")),
		KafkaBrokers:         splitList(v.GetString("KAFKA_BROKERS")),
	}

	switch cfg.DBDriver {
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			log.Println("Warning: PGSQL_URL environment variable not set.")
		}
	case DriverMemory:
		log.Println("Warning: DB_DRIVER=memory, all data is lost on restart.")
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
		cfg.JWTSecret = defaultJWTSecret
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
		if cfg.IsProduction {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
	}

	cfg.JWTExpiryDuration = durationOrDefault(v, "JWT_EXPIRY_DURATION", 24*time.Hour)
	cfg.TelegramSendTimeout = durationOrDefault(v, "TELEGRAM_SEND_TIMEOUT", 10*time.Second)
	cfg.TelegramInitDataMaxAge = durationOrDefault(v, "TELEGRAM_INIT_DATA_MAX_AGE", time.Hour)

	ids, err := parseTelegramIDs(v.GetString("ADMIN_TELEGRAM_IDS"))
	if err != nil {
		return nil, err
	}
	cfg.AdminTelegramIDs = ids

	cfg.NotificationConcurrency = v.GetInt("NOTIFICATION_CONCURRENCY")
	if cfg.NotificationConcurrency < 1 {
		log.Printf("Warning: Invalid NOTIFICATION_CONCURRENCY (%d). Defaulting to 4.\n", cfg.NotificationConcurrency)
		cfg.NotificationConcurrency = 4
	}

	if cfg.BotToken == "" && !cfg.DevMode {
		log.Println("Warning: BOT_TOKEN not set. Telegram login and notifications will not function.")
	}
	if cfg.DevMode && cfg.IsProduction {
		return nil, fmt.Errorf("DEV_MODE cannot be enabled in production")
	}

	return cfg, nil
}

func durationOrDefault(v *viper.Viper, key string, def time.Duration) time.Duration {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, def)
		}
		return def
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseTelegramIDs(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range splitList(raw) {
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid ADMIN_TELEGRAM_IDS entry %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
