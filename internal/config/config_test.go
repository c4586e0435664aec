package config

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// clearEnv blanks every variable the loader reads so host settings do
// not leak into tests. An empty value is treated as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"SERVER_HOST", "SERVER_PORT", "PORT", "SERVER_READ_TIMEOUT",
		"SERVER_WRITE_TIMEOUT", "SERVER_IDLE_TIMEOUT", "SERVER_SHUTDOWN_TIMEOUT",
		"SERVER_REQUEST_TIMEOUT", "DATA_DIR", "SYSTEM_DIR", "INGEST_MAX_FILE_SIZE",
		"INGEST_DATA_PATTERN", "INGEST_PROFILE_PATTERN", "INGEST_MAX_CONCURRENT",
		"INGEST_MAX_WAIT", "RANGES_GENERIC_BODY_FAT",
		"RANGES_GENERIC_MUSCLE", "RANGES_GENERIC_WATER", "RATE_LIMIT_ENABLED",
		"RATE_LIMIT_REQUESTS_PER_MINUTE", "RATE_LIMIT_ANALYZE", "TRUSTED_PROXIES",
		"LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(name, "")
	}
}

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: 8080, ShutdownTimeout: time.Second, RequestTimeout: time.Minute},
		Ingest: IngestConfig{
			MaxFileSize:    1,
			DataPattern:    "DATA*.CSV",
			ProfilePattern: "PROF*.CSV",
			MaxConcurrent:  1,
			MaxWait:        time.Second,
		},
		Rate:   RateLimitConfig{Enabled: true, RequestsPerMinute: 100, AnalyzeLimit: 10},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 8080)
	}
	if cfg.Ingest.DataDir != "GRAPHV1/DATA" {
		t.Errorf("Ingest.DataDir = %q, want %q", cfg.Ingest.DataDir, "GRAPHV1/DATA")
	}
	if cfg.Ingest.SystemDir != "GRAPHV1/SYSTEM" {
		t.Errorf("Ingest.SystemDir = %q, want %q", cfg.Ingest.SystemDir, "GRAPHV1/SYSTEM")
	}
	if cfg.Ingest.MaxFileSize != 10485760 {
		t.Errorf("Ingest.MaxFileSize = %d, want %d", cfg.Ingest.MaxFileSize, 10485760)
	}
	if cfg.Ingest.DataPattern != "DATA*.CSV" || cfg.Ingest.ProfilePattern != "PROF*.CSV" {
		t.Errorf("patterns = %q, %q", cfg.Ingest.DataPattern, cfg.Ingest.ProfilePattern)
	}
	if cfg.Ingest.MaxConcurrent != 4 || cfg.Ingest.MaxWait != 10*time.Second {
		t.Errorf("Ingest concurrency = %d/%v, want 4/10s", cfg.Ingest.MaxConcurrent, cfg.Ingest.MaxWait)
	}
	if !cfg.Rate.Enabled || cfg.Rate.RequestsPerMinute != 100 || cfg.Rate.AnalyzeLimit != 10 {
		t.Errorf("Rate = %+v, want enabled 100/10", cfg.Rate)
	}
	if cfg.Ranges.GenericBodyFat != nil {
		t.Errorf("Ranges.GenericBodyFat = %v, want nil", cfg.Ranges.GenericBodyFat)
	}
}

func TestLoad_OverrideDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DATA_DIR", "/media/sd/GRAPHV1/DATA")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Ingest.DataDir != "/media/sd/GRAPHV1/DATA" {
		t.Errorf("Ingest.DataDir = %q", cfg.Ingest.DataDir)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestLoad_AltEnvVar(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "3000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 3000 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 3000)
	}
}

func TestLoad_Duration(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_READ_TIMEOUT", "45s")
	t.Setenv("SERVER_REQUEST_TIMEOUT", "1m30s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.ReadTimeout != 45*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want %v", cfg.Server.ReadTimeout, 45*time.Second)
	}
	if cfg.Server.RequestTimeout != 90*time.Second {
		t.Errorf("Server.RequestTimeout = %v, want %v", cfg.Server.RequestTimeout, 90*time.Second)
	}
}

func TestLoad_RangeEdges(t *testing.T) {
	clearEnv(t)
	t.Setenv("RANGES_GENERIC_BODY_FAT", "0, 12 ,22,32, 50")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := []float64{0, 12, 22, 32, 50}
	if diff := cmp.Diff(want, cfg.Ranges.GenericBodyFat); diff != "" {
		t.Errorf("GenericBodyFat mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_InvalidRangeEdge(t *testing.T) {
	clearEnv(t)
	t.Setenv("RANGES_GENERIC_MUSCLE", "0,30,forty,50")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() expected error for non-numeric edge")
	}
	if !strings.Contains(err.Error(), "RANGES_GENERIC_MUSCLE") {
		t.Errorf("error should mention RANGES_GENERIC_MUSCLE: %v", err)
	}
}

func TestLoad_InvalidInteger(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_PORT", "eighty")

	if _, err := Load(); err == nil {
		t.Fatal("Load() expected error for non-numeric port")
	}
}

func TestLoad_CommaSeparatedSlice(t *testing.T) {
	clearEnv(t)
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 172.16.0.0/12 , 192.168.0.0/16")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	expected := []string{"10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"}
	if diff := cmp.Diff(expected, cfg.Security.TrustedProxies); diff != "" {
		t.Errorf("TrustedProxies mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid config",
			mutate: func(*Config) {},
		},
		{
			name:    "invalid port",
			mutate:  func(c *Config) { c.Server.Port = 99999 },
			wantErr: "SERVER_PORT",
		},
		{
			name:    "zero max file size",
			mutate:  func(c *Config) { c.Ingest.MaxFileSize = 0 },
			wantErr: "INGEST_MAX_FILE_SIZE",
		},
		{
			name:    "empty data pattern",
			mutate:  func(c *Config) { c.Ingest.DataPattern = "" },
			wantErr: "INGEST_DATA_PATTERN",
		},
		{
			name:    "no analysis slots",
			mutate:  func(c *Config) { c.Ingest.MaxConcurrent = 0 },
			wantErr: "INGEST_MAX_CONCURRENT",
		},
		{
			name:    "descending edges",
			mutate:  func(c *Config) { c.Ranges.GenericWater = []float64{0, 60, 45, 80} },
			wantErr: "RANGES_GENERIC_WATER",
		},
		{
			name:    "single edge",
			mutate:  func(c *Config) { c.Ranges.GenericBodyFat = []float64{10} },
			wantErr: "RANGES_GENERIC_BODY_FAT",
		},
		{
			name:    "zero rate when enabled",
			mutate:  func(c *Config) { c.Rate.RequestsPerMinute = 0 },
			wantErr: "RATE_LIMIT_REQUESTS_PER_MINUTE",
		},
		{
			name: "zero rate when disabled",
			mutate: func(c *Config) {
				c.Rate.Enabled = false
				c.Rate.RequestsPerMinute = 0
				c.Rate.AnalyzeLimit = 0
			},
		},
		{
			name:    "invalid log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "LOG_LEVEL",
		},
		{
			name:    "invalid log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "LOG_FORMAT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error mentioning %s", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error should mention %s: %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 0
	cfg.Logging.Format = "xml"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error")
	}
	for _, want := range []string{"SERVER_PORT", "LOG_FORMAT"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error should mention %s: %v", want, err)
		}
	}
}

func TestServerAddr(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"", 8080, ":8080"},
		{"0.0.0.0", 8080, "0.0.0.0:8080"},
		{"127.0.0.1", 3000, "127.0.0.1:3000"},
		{"localhost", 443, "localhost:443"},
	}

	for _, tt := range tests {
		cfg := &ServerConfig{Host: tt.host, Port: tt.port}
		got := cfg.Addr()
		if got != tt.want {
			t.Errorf("Addr() with host=%q, port=%d = %q, want %q", tt.host, tt.port, got, tt.want)
		}
	}
}

func TestConfigString(t *testing.T) {
	cfg := validConfig()
	cfg.Ingest.DataDir = "/sd/DATA"
	str := cfg.String()
	if !strings.Contains(str, `DataDir: "/sd/DATA"`) {
		t.Errorf("String() = %q, want DataDir", str)
	}
}
