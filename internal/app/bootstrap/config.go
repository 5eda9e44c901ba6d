package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ServiceID string

	HTTPPort int
	GRPCPort int

	DatabaseURL  string
	RedisURL     string
	KafkaBrokers []string

	MaxDBConns               int32
	KafkaConsumerGroup       string
	KafkaTopicUserRegistered string
	KafkaTopicPaymentFailed  string
	KafkaTopicLoyaltyEvents  string

	OutboxPollInterval   time.Duration
	OutboxBatchSize      int
	ConsumerPollInterval time.Duration

	JWTSecret            string
	DefaultCountryCode   string
	VisitTokenTTL        time.Duration
	CouponValidityDays   int
	IdempotencyTTL       time.Duration
	EventDedupTTL        time.Duration
	PhoneSearchScanLimit int
}

type configFile struct {
	Service struct {
		ID       string `yaml:"id"`
		HTTPPort int    `yaml:"http_port"`
		GRPCPort int    `yaml:"grpc_port"`
	} `yaml:"service"`
	Dependencies struct {
		PostgresURL              string   `yaml:"postgres_url"`
		RedisURL                 string   `yaml:"redis_url"`
		KafkaBrokers             []string `yaml:"kafka_brokers"`
		KafkaConsumerGroup       string   `yaml:"kafka_consumer_group"`
		KafkaTopicUserRegistered string   `yaml:"kafka_topic_user_registered"`
		KafkaTopicPaymentFailed  string   `yaml:"kafka_topic_payment_failed"`
		KafkaTopicLoyaltyEvents  string   `yaml:"kafka_topic_loyalty_events"`
	} `yaml:"dependencies"`
	Loyalty struct {
		DefaultCountryCode   string `yaml:"default_country_code"`
		VisitTokenTTLSeconds int    `yaml:"visit_token_ttl_seconds"`
		CouponValidityDays   int    `yaml:"coupon_validity_days"`
		PhoneSearchScanLimit int    `yaml:"phone_search_scan_limit"`
	} `yaml:"loyalty"`
}

func LoadConfig(path string) (Config, error) {
	cfg := Config{
		ServiceID:                "Loyalty-Service",
		HTTPPort:                 8080,
		GRPCPort:                 9090,
		MaxDBConns:               20,
		KafkaConsumerGroup:       "loyalty-service",
		KafkaTopicUserRegistered: "user.registered",
		KafkaTopicPaymentFailed:  "billing.payment_failed",
		KafkaTopicLoyaltyEvents:  "loyalty.events",
		OutboxPollInterval:       2 * time.Second,
		OutboxBatchSize:          100,
		ConsumerPollInterval:     2 * time.Second,
		DefaultCountryCode:       "27",
		VisitTokenTTL:            5 * time.Minute,
		CouponValidityDays:       30,
		IdempotencyTTL:           7 * 24 * time.Hour,
		EventDedupTTL:            7 * 24 * time.Hour,
		PhoneSearchScanLimit:     5000,
	}

	raw, err := os.ReadFile(path)
	if err == nil {
		var f configFile
		if unmarshalErr := yaml.Unmarshal(raw, &f); unmarshalErr != nil {
			return Config{}, fmt.Errorf("parse config file: %w", unmarshalErr)
		}
		if f.Service.ID != "" {
			cfg.ServiceID = f.Service.ID
		}
		if f.Service.HTTPPort > 0 {
			cfg.HTTPPort = f.Service.HTTPPort
		}
		if f.Service.GRPCPort > 0 {
			cfg.GRPCPort = f.Service.GRPCPort
		}
		if f.Dependencies.PostgresURL != "" {
			cfg.DatabaseURL = f.Dependencies.PostgresURL
		}
		if f.Dependencies.RedisURL != "" {
			cfg.RedisURL = f.Dependencies.RedisURL
		}
		if len(f.Dependencies.KafkaBrokers) > 0 {
			cfg.KafkaBrokers = trimNonEmpty(f.Dependencies.KafkaBrokers)
		}
		if f.Dependencies.KafkaConsumerGroup != "" {
			cfg.KafkaConsumerGroup = f.Dependencies.KafkaConsumerGroup
		}
		if f.Dependencies.KafkaTopicUserRegistered != "" {
			cfg.KafkaTopicUserRegistered = f.Dependencies.KafkaTopicUserRegistered
		}
		if f.Dependencies.KafkaTopicPaymentFailed != "" {
			cfg.KafkaTopicPaymentFailed = f.Dependencies.KafkaTopicPaymentFailed
		}
		if f.Dependencies.KafkaTopicLoyaltyEvents != "" {
			cfg.KafkaTopicLoyaltyEvents = f.Dependencies.KafkaTopicLoyaltyEvents
		}
		if f.Loyalty.DefaultCountryCode != "" {
			cfg.DefaultCountryCode = f.Loyalty.DefaultCountryCode
		}
		if f.Loyalty.VisitTokenTTLSeconds > 0 {
			cfg.VisitTokenTTL = time.Duration(f.Loyalty.VisitTokenTTLSeconds) * time.Second
		}
		if f.Loyalty.CouponValidityDays > 0 {
			cfg.CouponValidityDays = f.Loyalty.CouponValidityDays
		}
		if f.Loyalty.PhoneSearchScanLimit > 0 {
			cfg.PhoneSearchScanLimit = f.Loyalty.PhoneSearchScanLimit
		}
	}

	cfg.DatabaseURL = envOrDefault("DB_URL", envOrDefault("POSTGRES_URL", cfg.DatabaseURL))
	cfg.RedisURL = envOrDefault("REDIS_URL", cfg.RedisURL)
	cfg.KafkaBrokers = envCSV("KAFKA_BROKERS", cfg.KafkaBrokers)
	cfg.KafkaConsumerGroup = envOrDefault("KAFKA_CONSUMER_GROUP", cfg.KafkaConsumerGroup)
	cfg.KafkaTopicUserRegistered = envOrDefault("KAFKA_TOPIC_USER_REGISTERED", cfg.KafkaTopicUserRegistered)
	cfg.KafkaTopicPaymentFailed = envOrDefault("KAFKA_TOPIC_PAYMENT_FAILED", cfg.KafkaTopicPaymentFailed)
	cfg.KafkaTopicLoyaltyEvents = envOrDefault("KAFKA_TOPIC_LOYALTY_EVENTS", cfg.KafkaTopicLoyaltyEvents)
	cfg.JWTSecret = envOrDefault("JWT_SECRET", cfg.JWTSecret)
	cfg.DefaultCountryCode = envOrDefault("DEFAULT_COUNTRY_CODE", cfg.DefaultCountryCode)
	cfg.HTTPPort = envInt("HTTP_PORT", cfg.HTTPPort)
	cfg.GRPCPort = envInt("GRPC_PORT", cfg.GRPCPort)
	cfg.MaxDBConns = int32(envInt("DB_MAX_CONNS", int(cfg.MaxDBConns)))
	cfg.OutboxPollInterval = time.Duration(envInt("OUTBOX_POLL_SECONDS", int(cfg.OutboxPollInterval.Seconds()))) * time.Second
	cfg.OutboxBatchSize = envInt("OUTBOX_BATCH_SIZE", cfg.OutboxBatchSize)
	cfg.ConsumerPollInterval = time.Duration(envInt("CONSUMER_POLL_SECONDS", int(cfg.ConsumerPollInterval.Seconds()))) * time.Second
	cfg.VisitTokenTTL = time.Duration(envInt("VISIT_TOKEN_TTL_SECONDS", int(cfg.VisitTokenTTL.Seconds()))) * time.Second
	cfg.CouponValidityDays = envInt("COUPON_VALIDITY_DAYS", cfg.CouponValidityDays)
	cfg.IdempotencyTTL = time.Duration(envInt("IDEMPOTENCY_TTL_HOURS", int(cfg.IdempotencyTTL.Hours()))) * time.Hour
	cfg.EventDedupTTL = time.Duration(envInt("EVENT_DEDUP_TTL_HOURS", int(cfg.EventDedupTTL.Hours()))) * time.Hour
	cfg.PhoneSearchScanLimit = envInt("PHONE_SEARCH_SCAN_LIMIT", cfg.PhoneSearchScanLimit)

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("missing DB_URL/POSTGRES_URL")
	}
	if cfg.RedisURL == "" {
		return Config{}, fmt.Errorf("missing REDIS_URL")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("missing JWT_SECRET")
	}
	return cfg, nil
}

func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func envCSV(name string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	items := strings.Split(raw, ",")
	return trimNonEmpty(items)
}

func trimNonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
