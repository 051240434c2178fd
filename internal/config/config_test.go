package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		DataBackend:    "sqlite",
		SQLiteDBPath:   "./test.db",
		LogLevel:       "info",
		LogFormat:      "pretty",
		QueryCacheSize: 32,
		QueryCacheTTL:  5 * time.Minute,
		ChartWidth:     1100,
		ChartHeight:    600,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		wantErr     bool
		errorString string
	}{
		{
			name:   "valid sqlite backend config",
			mutate: func(c *Config) {},
		},
		{
			name: "valid memory backend without db path",
			mutate: func(c *Config) {
				c.DataBackend = "memory"
				c.SQLiteDBPath = ""
			},
		},
		{
			name: "cache disabled ignores TTL",
			mutate: func(c *Config) {
				c.QueryCacheSize = 0
				c.QueryCacheTTL = 0
			},
		},
		{
			name:        "invalid data backend",
			mutate:      func(c *Config) { c.DataBackend = "sheets" },
			wantErr:     true,
			errorString: "invalid data backend 'sheets': must be one of [memory sqlite]",
		},
		{
			name:        "sqlite backend missing database path",
			mutate:      func(c *Config) { c.SQLiteDBPath = "" },
			wantErr:     true,
			errorString: "SQLite database path cannot be empty when using sqlite backend",
		},
		{
			name:        "invalid log level",
			mutate:      func(c *Config) { c.LogLevel = "loud" },
			wantErr:     true,
			errorString: "invalid log level 'loud'",
		},
		{
			name:        "invalid log format",
			mutate:      func(c *Config) { c.LogFormat = "json" },
			wantErr:     true,
			errorString: "invalid log format 'json'",
		},
		{
			name:        "negative cache size",
			mutate:      func(c *Config) { c.QueryCacheSize = -1 },
			wantErr:     true,
			errorString: "invalid query cache size -1: must not be negative",
		},
		{
			name:        "cache TTL too short",
			mutate:      func(c *Config) { c.QueryCacheTTL = 500 * time.Millisecond },
			wantErr:     true,
			errorString: "invalid query cache TTL 500ms: must be at least 1 second",
		},
		{
			name:        "chart too narrow",
			mutate:      func(c *Config) { c.ChartWidth = 10 },
			wantErr:     true,
			errorString: "invalid chart width 10",
		},
		{
			name:        "chart too tall",
			mutate:      func(c *Config) { c.ChartHeight = 9000 },
			wantErr:     true,
			errorString: "invalid chart height 9000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Errorf("Config.Validate() error = nil, wantErr %v", tt.wantErr)
					return
				}
				if tt.errorString != "" && !strings.Contains(err.Error(), tt.errorString) {
					t.Errorf("Config.Validate() error = %v, want error containing %v", err.Error(), tt.errorString)
				}
			} else if err != nil {
				t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ValidateCollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.DataBackend = "nope"
	cfg.LogFormat = "xml"
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	if strings.Count(err.Error(), "\n- ") != 2 {
		t.Fatalf("expected two aggregated problems, got %q", err.Error())
	}
}

func TestConfig_ValidateCreatesDBDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data", "nested")
	cfg := validConfig()
	cfg.SQLiteDBPath = filepath.Join(dir, "golf.db")

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Config.Validate() error = %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("expected directory to be created: %v", err)
	}
}

func TestLoad(t *testing.T) {
	for _, key := range []string{
		"DATA_BACKEND", "SQLITE_DB_PATH", "LOG_LEVEL", "LOG_FORMAT",
		"QUERY_CACHE_SIZE", "QUERY_CACHE_TTL", "CHART_WIDTH", "CHART_HEIGHT",
	} {
		t.Setenv(key, "")
	}

	t.Run("default values", func(t *testing.T) {
		cfg := Load()

		if cfg.DataBackend != "sqlite" {
			t.Errorf("Load() DataBackend = %v, want sqlite", cfg.DataBackend)
		}
		if cfg.SQLiteDBPath != "./data/golf_scores.db" {
			t.Errorf("Load() SQLiteDBPath = %v, want ./data/golf_scores.db", cfg.SQLiteDBPath)
		}
		if cfg.QueryCacheSize != 32 {
			t.Errorf("Load() QueryCacheSize = %v, want 32", cfg.QueryCacheSize)
		}
		if cfg.QueryCacheTTL != 5*time.Minute {
			t.Errorf("Load() QueryCacheTTL = %v, want 5m", cfg.QueryCacheTTL)
		}
		if cfg.ChartWidth != 1100 || cfg.ChartHeight != 600 {
			t.Errorf("Load() chart size = %dx%d, want 1100x600", cfg.ChartWidth, cfg.ChartHeight)
		}
	})

	t.Run("environment variables", func(t *testing.T) {
		t.Setenv("DATA_BACKEND", "memory")
		t.Setenv("SQLITE_DB_PATH", "/tmp/test.db")
		t.Setenv("LOG_LEVEL", "debug")
		t.Setenv("QUERY_CACHE_SIZE", "8")
		t.Setenv("QUERY_CACHE_TTL", "45s")

		cfg := Load()

		if cfg.DataBackend != "memory" {
			t.Errorf("Load() DataBackend = %v, want memory", cfg.DataBackend)
		}
		if cfg.SQLiteDBPath != "/tmp/test.db" {
			t.Errorf("Load() SQLiteDBPath = %v, want /tmp/test.db", cfg.SQLiteDBPath)
		}
		if cfg.LogLevel != "debug" {
			t.Errorf("Load() LogLevel = %v, want debug", cfg.LogLevel)
		}
		if cfg.QueryCacheSize != 8 {
			t.Errorf("Load() QueryCacheSize = %v, want 8", cfg.QueryCacheSize)
		}
		if cfg.QueryCacheTTL != 45*time.Second {
			t.Errorf("Load() QueryCacheTTL = %v, want 45s", cfg.QueryCacheTTL)
		}
	})

	t.Run("invalid environment variables use defaults", func(t *testing.T) {
		t.Setenv("QUERY_CACHE_SIZE", "invalid")
		t.Setenv("QUERY_CACHE_TTL", "invalid")

		cfg := Load()

		if cfg.QueryCacheSize != 32 {
			t.Errorf("Load() QueryCacheSize = %v, want 32 (default for invalid input)", cfg.QueryCacheSize)
		}
		if cfg.QueryCacheTTL != 5*time.Minute {
			t.Errorf("Load() QueryCacheTTL = %v, want 5m (default for invalid input)", cfg.QueryCacheTTL)
		}
	})
}
