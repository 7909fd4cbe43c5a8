package main

import (
	"strings"
	"testing"
)

func setEnv(t *testing.T, env map[string]string) {
	t.Helper()
	for _, key := range []string{
		"DATABASE_URL", "HEROKU", "PORT", "SECRET_KEY",
		"SPOTIFY_CLIENT_ID", "SPOTIFY_CLIENT_SECRET", "SPOTIFY_API_URL", "SPOTIFY_TOKEN_URL",
		"LOG_LEVEL", "LOG_FORMAT", "AUTO_MIGRATE",
	} {
		t.Setenv(key, env[key])
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	setEnv(t, map[string]string{
		"SPOTIFY_CLIENT_ID":     "id",
		"SPOTIFY_CLIENT_SECRET": "secret",
	})

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}

	if cfg.DatabaseURL != defaultDatabaseURL {
		t.Fatalf("DatabaseURL = %q", cfg.DatabaseURL)
	}
	if cfg.Addr != "localhost:8080" {
		t.Fatalf("Addr = %q", cfg.Addr)
	}
	if cfg.Production || cfg.LogFormat != "text" || !cfg.AutoMigrate {
		t.Fatalf("unexpected development settings %+v", cfg)
	}
}

func TestLoadConfigProduction(t *testing.T) {
	setEnv(t, map[string]string{
		"HEROKU":                "1",
		"PORT":                  "5000",
		"SECRET_KEY":            "a-long-production-secret",
		"SPOTIFY_CLIENT_ID":     "id",
		"SPOTIFY_CLIENT_SECRET": "secret",
		"AUTO_MIGRATE":          "false",
	})

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Addr != "0.0.0.0:5000" || !cfg.Production || cfg.LogFormat != "json" || cfg.AutoMigrate {
		t.Fatalf("unexpected production settings %+v", cfg)
	}
}

func TestLoadConfigRejects(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want []string
	}{
		{
			name: "dev secret in production",
			env: map[string]string{
				"HEROKU":                "1",
				"SPOTIFY_CLIENT_ID":     "id",
				"SPOTIFY_CLIENT_SECRET": "secret",
			},
			want: []string{"SECRET_KEY must be set in production"},
		},
		{
			name: "short secret and missing credentials",
			env:  map[string]string{"SECRET_KEY": "short"},
			want: []string{"at least 16 characters", "SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET are required"},
		},
		{
			name: "bad log format",
			env: map[string]string{
				"SPOTIFY_CLIENT_ID":     "id",
				"SPOTIFY_CLIENT_SECRET": "secret",
				"LOG_FORMAT":            "xml",
			},
			want: []string{"LOG_FORMAT must be json or text"},
		},
		{
			name: "bad auto migrate",
			env:  map[string]string{"AUTO_MIGRATE": "sometimes"},
			want: []string{"parse AUTO_MIGRATE"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			setEnv(t, tc.env)

			_, err := loadConfig()
			if err == nil {
				t.Fatalf("expected error")
			}
			for _, want := range tc.want {
				if !strings.Contains(err.Error(), want) {
					t.Fatalf("error %q does not mention %q", err, want)
				}
			}
		})
	}
}
