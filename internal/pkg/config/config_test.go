package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
	}))
	if err != nil {
		t.Fatalf("LoadWith: %v", err)
	}

	if cfg.Port != "8080" || cfg.Env != "development" || cfg.LogLevel != "info" {
		t.Fatalf("unexpected server defaults: %+v", cfg)
	}
	if cfg.TokenTTL != 7*24*time.Hour {
		t.Fatalf("expected 7 day token ttl, got %s", cfg.TokenTTL)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Fatalf("unexpected CORS origins: %v", cfg.CORSOrigins)
	}
	if !cfg.MetricsEnabled {
		t.Fatalf("metrics should be enabled by default")
	}
	if cfg.Mongo.URI != "mongodb://localhost:27017" || cfg.Mongo.Database != "jobboard" {
		t.Fatalf("unexpected mongo defaults: %+v", cfg.Mongo)
	}
	if cfg.Redis.Addr != "localhost:6379" || cfg.Redis.IdempotencyTTL != 24*time.Hour {
		t.Fatalf("unexpected redis defaults: %+v", cfg.Redis)
	}
	if cfg.IsProduction() {
		t.Fatalf("development must not be production")
	}
}

func TestLoadWith_Overrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":         "s3cret",
		"ENV":                "production",
		"PORT":               "9000",
		"CORS_ALLOW_ORIGINS": "https://a.example,https://b.example",
		"METRICS_ENABLED":    "false",
		"MONGODB_URI":        "mongodb://db:27017",
		"REDIS_DB":           "2",
	}))
	if err != nil {
		t.Fatalf("LoadWith: %v", err)
	}

	if !cfg.IsProduction() || cfg.Port != "9000" || cfg.MetricsEnabled {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Fatalf("expected 2 origins, got %v", cfg.CORSOrigins)
	}
	if cfg.Mongo.URI != "mongodb://db:27017" || cfg.Redis.DB != 2 {
		t.Fatalf("unexpected stores: %+v %+v", cfg.Mongo, cfg.Redis)
	}
}

func TestLoadWith_RequiresSecret(t *testing.T) {
	if _, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{})); err == nil {
		t.Fatalf("expected error without JWT_SECRET")
	}
}
