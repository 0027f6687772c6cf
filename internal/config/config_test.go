package config

import (
	"log/slog"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/academic")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("JWT_TTL", "30m")
	t.Setenv("KAFKA_BROKERS", "broker1:9092, broker2:9092")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("Port = %s, want 9090", cfg.Port)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v, want debug", cfg.LogLevel)
	}
	if cfg.JWT.TTL != 30*time.Minute {
		t.Errorf("JWT TTL = %v, want 30m", cfg.JWT.TTL)
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[1] != "broker2:9092" {
		t.Errorf("Kafka brokers = %v", cfg.Kafka.Brokers)
	}
}

func TestLoadConfig_RequiredValues(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "test-secret")

	if _, err := LoadConfig(); err == nil {
		t.Error("LoadConfig() without DATABASE_URL should fail")
	}

	t.Setenv("DATABASE_URL", "postgres://localhost/academic")
	t.Setenv("JWT_SECRET", "")

	if _, err := LoadConfig(); err == nil {
		t.Error("LoadConfig() without JWT_SECRET should fail")
	}
}

func TestParseDuration(t *testing.T) {
	if got := parseDuration("2h", time.Hour); got != 2*time.Hour {
		t.Errorf("parseDuration(2h) = %v", got)
	}
	if got := parseDuration("garbage", time.Hour); got != time.Hour {
		t.Errorf("parseDuration(garbage) = %v, want fallback", got)
	}
	if got := parseDuration("-5m", time.Hour); got != time.Hour {
		t.Errorf("parseDuration(-5m) = %v, want fallback", got)
	}
}
