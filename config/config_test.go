package config

import (
	"strings"
	"testing"
	"time"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	for _, key := range []string{
		"SERVER_PORT", "DATABASE_URL", "REMINDER_INTERVAL", "REMINDER_TOLERANCE",
		"RATE_LIMIT", "CORS_ALLOWED_ORIGINS", "SMTP_HOST", "SMTP_FROM", "SMTP_PORT", "LEAGUE_TIMEZONE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ServerPort != 8080 {
		t.Errorf("ServerPort = %d, want 8080", cfg.ServerPort)
	}
	if cfg.ReminderInterval != 5*time.Minute || cfg.ReminderTolerance != 5*time.Minute {
		t.Errorf("reminder settings = %s/%s, want 5m/5m", cfg.ReminderInterval, cfg.ReminderTolerance)
	}
	if cfg.RateLimit != 120 {
		t.Errorf("RateLimit = %d, want 120", cfg.RateLimit)
	}
	if cfg.SMTP.Enabled() {
		t.Error("SMTP should be disabled without host")
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Errorf("CORSAllowedOrigins = %v", cfg.CORSAllowedOrigins)
	}
	if cfg.Location != time.UTC {
		t.Errorf("Location = %v, want UTC", cfg.Location)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"missing jwt", map[string]string{"JWT_SECRET_KEY": ""}, "JWT_SECRET_KEY"},
		{"bad port", map[string]string{"SERVER_PORT": "abc"}, "SERVER_PORT"},
		{"port out of range", map[string]string{"SERVER_PORT": "70000"}, "between 1 and 65535"},
		{"tolerance below interval", map[string]string{"REMINDER_INTERVAL": "10m", "REMINDER_TOLERANCE": "5m"}, "REMINDER_TOLERANCE"},
		{"bad duration", map[string]string{"REMINDER_INTERVAL": "soon"}, "REMINDER_INTERVAL"},
		{"zero rate limit", map[string]string{"RATE_LIMIT": "0"}, "RATE_LIMIT"},
		{"unknown timezone", map[string]string{"LEAGUE_TIMEZONE": "Mars/Olympus"}, "LEAGUE_TIMEZONE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setBaseEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadListsAndSMTP(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_FROM", "league@example.com")
	t.Setenv("SMTP_PORT", "465")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := cfg.CORSAllowedOrigins; len(got) != 2 || got[1] != "https://b.example" {
		t.Errorf("CORSAllowedOrigins = %v", got)
	}
	if !cfg.SMTP.Enabled() || cfg.SMTP.Port != 465 {
		t.Errorf("SMTP = %+v, want enabled on 465", cfg.SMTP)
	}
}
