// cliparse/cliparse_test.go
package cliparse

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

// clearEnv blanks every variable ParseFlags reads so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "DATABASE_URL", "DATABASE_TYPE", "JWT_SECRET", "BASE_URL",
		"REQUIRE_VOTER_TO_START", "OPERATION_TIMEOUT", "SMTP_HOST", "SMTP_PORT",
		"SMTP_USER", "SMTP_PASSWORD", "SMTP_FROM", "NOTIFY_WORKERS", "CORS_ORIGINS",
	} {
		t.Setenv(k, "")
	}
}

func TestParseFlags_EnvVars(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://test")
	t.Setenv("DATABASE_TYPE", "postgres")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("REQUIRE_VOTER_TO_START", "true")
	t.Setenv("OPERATION_TIMEOUT", "2s")

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "postgres" {
		t.Errorf("expected postgres, got %s", cfg.DatabaseType)
	}
	if !cfg.RequireVoterToStart {
		t.Error("expected RequireVoterToStart from env")
	}
	if cfg.OperationTimeout != 2*time.Second {
		t.Errorf("expected 2s timeout, got %v", cfg.OperationTimeout)
	}
	if cfg.BaseURL != "http://localhost:9000" {
		t.Errorf("expected default base URL, got %s", cfg.BaseURL)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("JWT_SECRET", "env-secret")

	cfg, err := ParseFlags([]string{"-p", "8080", "-d", "file:test.db", "-jwt-secret", "cli-secret", "-require-voter"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.JWTSecret != "cli-secret" {
		t.Errorf("CLI should override env: expected cli-secret, got %s", cfg.JWTSecret)
	}
	if !cfg.RequireVoterToStart {
		t.Error("expected -require-voter to be set")
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "s")

	cfg, err := ParseFlags([]string{"-d", "elex.db"})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 3318 {
		t.Errorf("expected default port 3318, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "sqlite" {
		t.Errorf("expected default sqlite, got %s", cfg.DatabaseType)
	}
	if cfg.OperationTimeout != 5*time.Second {
		t.Errorf("expected default 5s, got %v", cfg.OperationTimeout)
	}
	if cfg.RequireVoterToStart {
		t.Error("RequireVoterToStart should default to false")
	}
	if cfg.NotifyWorkers != 4 {
		t.Errorf("expected 4 notify workers, got %d", cfg.NotifyWorkers)
	}
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{"missing database url", map[string]string{"JWT_SECRET": "s"}, nil},
		{"missing jwt secret", nil, []string{"-d", "elex.db"}},
		{"bad port", map[string]string{"PORT": "abc", "JWT_SECRET": "s"}, []string{"-d", "x"}},
		{"bad timeout", map[string]string{"OPERATION_TIMEOUT": "soon", "JWT_SECRET": "s"}, []string{"-d", "x"}},
		{"smtp without sender", map[string]string{"SMTP_HOST": "mail", "JWT_SECRET": "s"}, []string{"-d", "x"}},
		{"unknown flag", map[string]string{"JWT_SECRET": "s"}, []string{"-bogus"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := ParseFlags(tt.args); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestParseFlags_CORSOrigins(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("CORS_ORIGINS", " https://a.example , ,https://b.example")

	cfg, err := ParseFlags([]string{"-d", "x"})
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"https://a.example", "https://b.example"}; !slices.Equal(cfg.CORSOrigins, want) {
		t.Errorf("expected %v, got %v", want, cfg.CORSOrigins)
	}

	cfg, err = ParseFlags([]string{"-d", "x", "-cors-origins", "https://c.example"})
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"https://c.example"}; !slices.Equal(cfg.CORSOrigins, want) {
		t.Errorf("CLI should override env: expected %v, got %v", want, cfg.CORSOrigins)
	}

	clearEnv(t)
	t.Setenv("JWT_SECRET", "s")
	cfg, err = ParseFlags([]string{"-d", "x"})
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.CORSOrigins) != 0 {
		t.Errorf("expected no CORS origins by default, got %v", cfg.CORSOrigins)
	}
}

func TestParseFlags_MemoryNeedsNoURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "s")

	cfg, err := ParseFlags([]string{"-t", "memory"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DatabaseURL != "" {
		t.Errorf("expected empty URL, got %s", cfg.DatabaseURL)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("ELEX_TEST_VALUE=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("ELEX_TEST_VALUE") })

	if err := LoadDotEnv(path); err != nil {
		t.Fatal(err)
	}
	if got := os.Getenv("ELEX_TEST_VALUE"); got != "from-file" {
		t.Errorf("expected from-file, got %q", got)
	}

	if err := LoadDotEnv(filepath.Join(dir, "missing.env")); err != nil {
		t.Errorf("missing file should be ignored, got %v", err)
	}
}
