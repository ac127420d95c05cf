package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Engine.BatchSize != 10 {
		t.Errorf("BatchSize = %d, want 10", cfg.Engine.BatchSize)
	}
	if cfg.Engine.MinWordLength != 3 {
		t.Errorf("MinWordLength = %d, want 3", cfg.Engine.MinWordLength)
	}
	if cfg.Engine.OptimizeCap != 5000 {
		t.Errorf("OptimizeCap = %d, want 5000", cfg.Engine.OptimizeCap)
	}
	if cfg.Cache.Backend != "memory" {
		t.Errorf("cache backend = %q, want memory", cfg.Cache.Backend)
	}
	if cfg.Cache.TTL != 60*time.Second {
		t.Errorf("cache TTL = %v, want 60s", cfg.Cache.TTL)
	}
	if cfg.Kafka.Enabled {
		t.Error("kafka enabled by default")
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
engine:
  batchSize: 25
  background: false
search:
  popularThreshold: 42
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Engine.BatchSize != 25 {
		t.Errorf("BatchSize = %d, want 25", cfg.Engine.BatchSize)
	}
	if cfg.Engine.JobDeadline != 60*time.Second {
		t.Errorf("JobDeadline = %v, want default 60s", cfg.Engine.JobDeadline)
	}
	if cfg.Engine.Background {
		t.Error("background not overridden to false")
	}
	if cfg.Search.PopularThreshold != 42 {
		t.Errorf("PopularThreshold = %d, want 42", cfg.Search.PopularThreshold)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("logging level = %q, want debug", cfg.Logging.Level)
	}
	// Untouched sections keep their defaults.
	if cfg.Engine.MinWordLength != 3 {
		t.Errorf("MinWordLength = %d, want default 3", cfg.Engine.MinWordLength)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected an error for a missing config file")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("WF_ENGINE_BATCH_SIZE", "77")
	t.Setenv("WF_CACHE_BACKEND", "redis")
	t.Setenv("WF_KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Engine.BatchSize != 77 {
		t.Errorf("BatchSize = %d, want 77", cfg.Engine.BatchSize)
	}
	if cfg.Cache.Backend != "redis" {
		t.Errorf("cache backend = %q, want redis", cfg.Cache.Backend)
	}
	if !cfg.Kafka.Enabled || len(cfg.Kafka.Brokers) != 2 {
		t.Errorf("kafka = enabled=%v brokers=%v, want enabled with 2 brokers", cfg.Kafka.Enabled, cfg.Kafka.Brokers)
	}
}

func TestPostgresDSN(t *testing.T) {
	p := PostgresConfig{
		Host: "db", Port: 5432, Database: "corpus",
		User: "svc", Password: "secret", SSLMode: "disable",
	}
	want := "host=db port=5432 user=svc password=secret dbname=corpus sslmode=disable"
	if got := p.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}
