package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config aggregates application configuration values.
type Config struct {
	Port     int
	Database DatabaseConfig
	JWT      JWTConfig
	Logging  LoggingConfig
	Paystack PaystackConfig
	Email    EmailConfig
	Media    MediaConfig
	Admin    AdminConfig

	AllowedOrigins string
	AuthRateLimit  int
}

// DatabaseConfig selects Postgres when a URL or DB_NAME is present, SQLite otherwise.
type DatabaseConfig struct {
	URL        string
	Host       string
	Port       string
	User       string
	Password   string
	Name       string
	SQLitePath string
	LogLevel   string
}

type JWTConfig struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type LoggingConfig struct {
	Level  string
	Format string // text|json
}

type PaystackConfig struct {
	SecretKey   string
	CallbackURL string
}

type EmailConfig struct {
	ResendAPIKey string
	From         string
}

type MediaConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

type AdminConfig struct {
	Username string
	Email    string
	Password string
}

// UsesPostgres reports whether enough settings exist to reach Postgres.
func (d DatabaseConfig) UsesPostgres() bool {
	return d.URL != "" || d.Name != ""
}

// DSN builds the Postgres connection string.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		d.Host, d.User, d.Password, d.Name, d.Port,
	)
}

// Configured reports whether all Cloudinary credentials are set.
func (m MediaConfig) Configured() bool {
	return m.CloudName != "" && m.APIKey != "" && m.APISecret != ""
}

// Load reads .env (if present), config.yaml (if present) and the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	v.SetDefault("PORT", 8080)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("SQLITE_PATH", "db.sqlite3")
	v.SetDefault("DB_LOG_LEVEL", "warn")
	v.SetDefault("JWT_ACCESS_TTL", 24*time.Hour)
	v.SetDefault("JWT_REFRESH_TTL", 7*24*time.Hour)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("FROM_EMAIL", "onboarding@resend.dev")
	v.SetDefault("ADMIN_USERNAME", "admin")
	v.SetDefault("ADMIN_EMAIL", "admin@mimi.com")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("AUTH_RATE_LIMIT", 20)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := Config{
		Port: v.GetInt("PORT"),
		Database: DatabaseConfig{
			URL:        v.GetString("DATABASE_URL"),
			Host:       v.GetString("DB_HOST"),
			Port:       v.GetString("DB_PORT"),
			User:       v.GetString("DB_USER"),
			Password:   v.GetString("DB_PASSWORD"),
			Name:       v.GetString("DB_NAME"),
			SQLitePath: v.GetString("SQLITE_PATH"),
			LogLevel:   v.GetString("DB_LOG_LEVEL"),
		},
		JWT: JWTConfig{
			Secret:     v.GetString("JWT_SECRET"),
			AccessTTL:  v.GetDuration("JWT_ACCESS_TTL"),
			RefreshTTL: v.GetDuration("JWT_REFRESH_TTL"),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Paystack: PaystackConfig{
			SecretKey:   v.GetString("PAYSTACK_SECRET_KEY"),
			CallbackURL: v.GetString("PAYSTACK_CALLBACK_URL"),
		},
		Email: EmailConfig{
			ResendAPIKey: v.GetString("RESEND_API_KEY"),
			From:         v.GetString("FROM_EMAIL"),
		},
		Media: MediaConfig{
			CloudName: v.GetString("CLOUDINARY_CLOUD_NAME"),
			APIKey:    v.GetString("CLOUDINARY_API_KEY"),
			APISecret: v.GetString("CLOUDINARY_API_SECRET"),
		},
		Admin: AdminConfig{
			Username: v.GetString("ADMIN_USERNAME"),
			Email:    v.GetString("ADMIN_EMAIL"),
			Password: v.GetString("ADMIN_PASSWORD"),
		},
		AllowedOrigins: strings.TrimSpace(v.GetString("CORS_ALLOWED_ORIGINS")),
		AuthRateLimit:  v.GetInt("AUTH_RATE_LIMIT"),
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("port %d is out of range", cfg.Port)
	}
	if cfg.JWT.Secret == "" {
		return Config{}, errors.New("JWT_SECRET environment variable not set")
	}
	if cfg.JWT.AccessTTL <= 0 || cfg.JWT.RefreshTTL <= 0 {
		return Config{}, errors.New("token lifetimes must be positive")
	}

	return cfg, nil
}

// Mask hides all but the edges of a secret for startup logs.
func Mask(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return s[:2] + "****" + s[len(s)-2:]
}
