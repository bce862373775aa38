package config

import (
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("DAILY_API_KEY", "daily-test")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "5000" {
		t.Errorf("Port = %q, want 5000", cfg.Port)
	}
	if cfg.Env != "development" || !cfg.IsDevelopment() {
		t.Errorf("Env = %q, want development", cfg.Env)
	}
	if cfg.Mongo.Database != "talentsync" || cfg.Mongo.Collection != "interviews" {
		t.Errorf("unexpected mongo defaults: %+v", cfg.Mongo)
	}
	if cfg.OpenAI.Model != "gpt-3.5-turbo" || cfg.OpenAI.MaxTokens != 2000 {
		t.Errorf("unexpected openai defaults: %+v", cfg.OpenAI)
	}
	if cfg.Daily.BaseURL != "https://api.daily.co/v1" {
		t.Errorf("Daily.BaseURL = %q", cfg.Daily.BaseURL)
	}
	if cfg.Daily.RoomExpiry != 2*time.Hour || cfg.Daily.MaxParticipants != 2 {
		t.Errorf("unexpected daily defaults: %+v", cfg.Daily)
	}
	if cfg.Reaper.Enabled {
		t.Error("reaper should be disabled by default")
	}
}

func TestLoadRequiredCredentials(t *testing.T) {
	cases := []struct {
		name  string
		unset string
	}{
		{"missing mongo uri", "MONGO_URI"},
		{"missing openai key", "OPENAI_API_KEY"},
		{"missing daily key", "DAILY_API_KEY"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tc.unset, "")

			if _, err := Load(); err == nil {
				t.Errorf("expected Load to fail without %s", tc.unset)
			}
		})
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("PORT", "8080")
	t.Setenv("ALLOWED_ORIGINS", "https://app.example.com, https://admin.example.com")
	t.Setenv("DAILY_ROOM_EXPIRY", "1h30m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.IsDevelopment() {
		t.Error("production env must not report development")
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://admin.example.com" {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
	if cfg.Daily.RoomExpiry != 90*time.Minute {
		t.Errorf("RoomExpiry = %v, want 1h30m", cfg.Daily.RoomExpiry)
	}
}

func TestMailConfigured(t *testing.T) {
	setRequired(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MailConfigured() {
		t.Error("mail should be unconfigured without SMTP credentials")
	}

	t.Setenv("SMTP_USER", "reports@talentsync.io")
	t.Setenv("SMTP_PASS", "secret")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.MailConfigured() {
		t.Error("mail should be configured with user and pass")
	}
	if cfg.SMTP.From != "reports@talentsync.io" {
		t.Errorf("From should default to the SMTP user, got %q", cfg.SMTP.From)
	}
}
