package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the full runtime configuration, loaded from environment
// variables. Credentials for the room-provisioning service, the language
// model, and the document store are required; the process refuses to start
// without them.
type Config struct {
	Env            string
	Port           string
	AllowedOrigins []string

	// JWTSecret enables bearer-token auth on the interview routes when set.
	JWTSecret string

	Mongo  MongoConfig
	OpenAI OpenAIConfig
	Daily  DailyConfig
	SMTP   SMTPConfig
	Reaper ReaperConfig
}

type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

type OpenAIConfig struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
}

type DailyConfig struct {
	APIKey          string
	BaseURL         string
	RoomExpiry      time.Duration
	MaxParticipants int
}

// SMTPConfig is optional; the share endpoint reports mail as unconfigured
// when From cannot be resolved.
type SMTPConfig struct {
	Host string
	Port string
	User string
	Pass string
	From string
}

type ReaperConfig struct {
	Enabled  bool
	Schedule string
	RoomTTL  time.Duration
}

// Load reads configuration from environment variables and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		Env:            getEnvOrDefault("APP_ENV", "development"),
		Port:           getEnvOrDefault("PORT", "5000"),
		AllowedOrigins: splitList(getEnvOrDefault("ALLOWED_ORIGINS", "http://localhost:3000")),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		Mongo: MongoConfig{
			URI:        os.Getenv("MONGO_URI"),
			Database:   getEnvOrDefault("MONGO_DB", "talentsync"),
			Collection: getEnvOrDefault("INTERVIEWS_COLLECTION", "interviews"),
		},
		OpenAI: OpenAIConfig{
			APIKey:      os.Getenv("OPENAI_API_KEY"),
			Model:       getEnvOrDefault("OPENAI_MODEL", "gpt-3.5-turbo"),
			MaxTokens:   getEnvInt("OPENAI_MAX_TOKENS", 2000),
			Temperature: float32(getEnvFloat("OPENAI_TEMPERATURE", 0.7)),
		},
		Daily: DailyConfig{
			APIKey:          os.Getenv("DAILY_API_KEY"),
			BaseURL:         getEnvOrDefault("DAILY_BASE_URL", "https://api.daily.co/v1"),
			RoomExpiry:      getEnvDuration("DAILY_ROOM_EXPIRY", 2*time.Hour),
			MaxParticipants: getEnvInt("DAILY_MAX_PARTICIPANTS", 2),
		},
		SMTP: SMTPConfig{
			Host: getEnvOrDefault("SMTP_HOST", "smtp.gmail.com"),
			Port: getEnvOrDefault("SMTP_PORT", "587"),
			User: os.Getenv("SMTP_USER"),
			Pass: os.Getenv("SMTP_PASS"),
			From: os.Getenv("SMTP_FROM"),
		},
		Reaper: ReaperConfig{
			Enabled:  getEnvOrDefault("ROOM_REAPER_ENABLED", "false") == "true",
			Schedule: getEnvOrDefault("ROOM_REAPER_SCHEDULE", "*/15 * * * *"),
			RoomTTL:  getEnvDuration("ROOM_REAPER_TTL", 2*time.Hour),
		},
	}

	if cfg.SMTP.From == "" {
		cfg.SMTP.From = cfg.SMTP.User
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsDevelopment reports whether detailed error bodies should be exposed.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// MailConfigured reports whether the share endpoint can deliver email.
func (c *Config) MailConfigured() bool {
	return c.SMTP.User != "" && c.SMTP.Pass != "" && c.SMTP.From != ""
}

func validate(c *Config) error {
	if c.Mongo.URI == "" {
		return errors.New("MONGO_URI is required")
	}
	if c.OpenAI.APIKey == "" {
		return errors.New("OPENAI_API_KEY is required")
	}
	if c.Daily.APIKey == "" {
		return errors.New("DAILY_API_KEY is required")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
