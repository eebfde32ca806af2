package config

import (
	"testing"
	"time"

	"github.com/johnquangdev/memory-care/pkg/speechmetrics"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.Assembly.LanguageCode != "ko" {
		t.Errorf("language = %q, want ko", cfg.Assembly.LanguageCode)
	}
	if cfg.Worker.PollInterval != 15*time.Second {
		t.Errorf("poll interval = %v", cfg.Worker.PollInterval)
	}
	if got := cfg.Metrics.Thresholds(); got != speechmetrics.DefaultThresholds() {
		t.Errorf("default thresholds drifted:\nconfig %+v\npkg    %+v", got, speechmetrics.DefaultThresholds())
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("METRICS_RATE_RISK_WPM", "90")
	t.Setenv("CACHE_REPORT_TTL", "30s")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("port = %q", cfg.Server.Port)
	}
	if len(cfg.Server.AllowedOrigins) != 2 {
		t.Errorf("origins = %v", cfg.Server.AllowedOrigins)
	}
	if cfg.Metrics.RateRiskBelowWPM != 90 {
		t.Errorf("rate risk = %v", cfg.Metrics.RateRiskBelowWPM)
	}
	if cfg.Cache.ReportTTL != 30*time.Second {
		t.Errorf("report ttl = %v", cfg.Cache.ReportTTL)
	}
}

func TestValidate(t *testing.T) {
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error without JWT secret")
	}

	cfg.JWT.AccessSecret = "secret"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg.Metrics.PauseRiskAboveSec = 1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for inverted pause thresholds")
	}

	cfg.Metrics.PauseRiskAboveSec = 4.7
	cfg.Server.Environment = "production"
	cfg.Database.AutoMigrate = true
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for auto-migrate in production")
	}
}

func TestGetDatabaseDSN(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", Name: "n", SSLMode: "disable"}}
	want := "host=db port=5432 user=u password=p dbname=n sslmode=disable"
	if got := cfg.GetDatabaseDSN(); got != want {
		t.Fatalf("dsn = %q, want %q", got, want)
	}
}
