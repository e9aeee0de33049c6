package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the storefront binary needs at startup.
// Values come from the environment; a local .env file is honoured in development.
type Config struct {
	HTTP     HTTPConfig
	Postgres PostgresConfig
	SMTP     SMTPConfig
	Rabbit   RabbitConfig
	Admin    AdminConfig
	Shop     ShopConfig
}

type HTTPConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type PostgresConfig struct {
	DSN string
}

// SMTPConfig configures the outbound transactional mail transport.
// When Host is empty, mail delivery is disabled and notifications are logged only.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// RabbitConfig configures the event publisher. Empty URL disables publishing.
type RabbitConfig struct {
	URL string
}

type AdminConfig struct {
	// Email that receives the new-order alert.
	Email string
	// Secret used to sign admin session tokens.
	JWTSecret string
	// How long an admin token stays valid.
	TokenTTL time.Duration
}

type ShopConfig struct {
	// Name shown in notification mails.
	Name string
	// Default region for phone number parsing, e.g. "GA".
	PhoneRegion string
	// Session cart idle lifetime.
	CartTTL time.Duration
}

// Load reads the configuration from the environment.
// A .env file next to the binary is loaded first if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		HTTP: HTTPConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getDuration("HTTP_READ_TIMEOUT", 5*time.Second),
			WriteTimeout: getDuration("HTTP_WRITE_TIMEOUT", 15*time.Second),
		},
		Postgres: PostgresConfig{
			DSN: os.Getenv("SHOP_DB_DSN"),
		},
		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getInt("SMTP_PORT", 587),
			User:     os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     os.Getenv("SMTP_FROM"),
		},
		Rabbit: RabbitConfig{
			URL: os.Getenv("RABBITMQ_URL"),
		},
		Admin: AdminConfig{
			Email:     os.Getenv("ADMIN_EMAIL"),
			JWTSecret: os.Getenv("ADMIN_JWT_SECRET"),
			TokenTTL:  getDuration("ADMIN_TOKEN_TTL", 12*time.Hour),
		},
		Shop: ShopConfig{
			Name:        getEnv("SHOP_NAME", "Sensations by Arda J"),
			PhoneRegion: getEnv("SHOP_PHONE_REGION", "GA"),
			CartTTL:     getDuration("CART_TTL", 24*time.Hour),
		},
	}

	if cfg.Postgres.DSN == "" {
		return nil, fmt.Errorf("SHOP_DB_DSN not set")
	}
	if cfg.Admin.JWTSecret == "" {
		return nil, fmt.Errorf("ADMIN_JWT_SECRET not set")
	}
	if cfg.SMTP.From == "" {
		cfg.SMTP.From = cfg.SMTP.User
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
