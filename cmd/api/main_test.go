package main

import (
	"context"
	"testing"

	"github.com/sethvargo/go-envconfig"

	"github.com/hireboard/jobboard-api/internal/pkg/config"
)

func TestLoggerOptions(t *testing.T) {
	tests := []struct {
		env        string
		wantPretty bool
	}{
		{"development", true},
		{"production", false},
	}
	for _, tc := range tests {
		t.Run(tc.env, func(t *testing.T) {
			cfg, err := config.LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
				"JWT_SECRET": "s3cret",
				"ENV":        tc.env,
				"LOG_LEVEL":  "debug",
			}))
			if err != nil {
				t.Fatalf("LoadWith: %v", err)
			}

			opts := loggerOptions(cfg)
			if opts.Pretty != tc.wantPretty || opts.Level != "debug" || opts.Service != "jobboard-api" {
				t.Fatalf("unexpected options: %+v", opts)
			}
		})
	}
}
