package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("LLM_API_KEY", "test-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Fatalf("wrong default port: %q", cfg.Server.Port)
	}
	if cfg.Database.Name != "meeting_minutes" {
		t.Fatalf("wrong default db name: %q", cfg.Database.Name)
	}
	if cfg.Pipeline.ChunkTokens != 3000 || cfg.Pipeline.OverlapTokens != 200 {
		t.Fatalf("wrong default chunking knobs: %+v", cfg.Pipeline)
	}
	if cfg.Pipeline.CallTimeout != 120*time.Second {
		t.Fatalf("wrong default call timeout: %v", cfg.Pipeline.CallTimeout)
	}
	if cfg.Pipeline.DefaultLanguage != "en" {
		t.Fatalf("wrong default language: %q", cfg.Pipeline.DefaultLanguage)
	}
	if cfg.LLM.CacheTTL != 24*time.Hour {
		t.Fatalf("wrong default cache ttl: %v", cfg.LLM.CacheTTL)
	}
	if cfg.Database.AutoMigrate {
		t.Fatalf("auto migrate must default to off")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("LLM_API_KEY", "test-key")
	t.Setenv("PORT", "9999")
	t.Setenv("PIPELINE_CHUNK_TOKENS", "500")
	t.Setenv("PIPELINE_MAX_CONCURRENT", "8")
	t.Setenv("PIPELINE_CALL_TIMEOUT", "30s")
	t.Setenv("DB_AUTO_MIGRATE", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != "9999" {
		t.Fatalf("port override lost: %q", cfg.Server.Port)
	}
	if cfg.Pipeline.ChunkTokens != 500 || cfg.Pipeline.MaxConcurrentExtractions != 8 {
		t.Fatalf("pipeline overrides lost: %+v", cfg.Pipeline)
	}
	if cfg.Pipeline.CallTimeout != 30*time.Second {
		t.Fatalf("timeout override lost: %v", cfg.Pipeline.CallTimeout)
	}
	if !cfg.Database.AutoMigrate {
		t.Fatalf("auto migrate override lost")
	}
}

func TestLoadRequiresAPIKey(t *testing.T) {
	t.Setenv("LLM_API_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error without LLM_API_KEY")
	}
}

func TestValidateRejectsBadKnobs(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero chunk tokens", func(c *Config) { c.Pipeline.ChunkTokens = 0 }},
		{"negative overlap", func(c *Config) { c.Pipeline.OverlapTokens = -1 }},
		{"zero concurrency", func(c *Config) { c.Pipeline.MaxConcurrentExtractions = 0 }},
		{"zero attempts", func(c *Config) { c.Pipeline.MaxAttempts = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				LLM: LLMConfig{APIKey: "key"},
				Pipeline: PipelineConfig{
					ChunkTokens:              3000,
					OverlapTokens:            200,
					MaxConcurrentExtractions: 4,
					MaxAttempts:              3,
				},
			}
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestGetDatabaseDSN(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		Host: "db", Port: "5433", User: "app", Password: "secret",
		Name: "protocols", SSLMode: "require",
	}}
	want := "host=db port=5433 user=app password=secret dbname=protocols sslmode=require"
	if got := cfg.GetDatabaseDSN(); got != want {
		t.Fatalf("wrong dsn:\nwant %q\ngot  %q", want, got)
	}
}
