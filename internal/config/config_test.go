package config

import (
	"os"
	"testing"
)

func TestConfigLoad_Defaults(t *testing.T) {
	_ = os.Unsetenv("HRDESK_DB_DRIVER")
	_ = os.Unsetenv("HRDESK_HTTP_PORT")
	_ = os.Unsetenv("HRDESK_MAX_CONTEXT_LENGTH")
	_ = os.Unsetenv("HRDESK_CLEANUP_AGE_DAYS")

	cfg, err := New()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}
	if cfg.DBDriver != "sqlite" || cfg.HTTPPort != 8080 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.MaxContextLength != 10 || cfg.CleanupAgeDays != 30 {
		t.Fatalf("unexpected memory defaults: %+v", cfg)
	}
}

func TestConfigLoad_EnvOverride(t *testing.T) {
	_ = os.Setenv("HRDESK_MAX_CONTEXT_LENGTH", "25")
	defer func() { _ = os.Unsetenv("HRDESK_MAX_CONTEXT_LENGTH") }()

	cfg, err := New()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}
	if cfg.MaxContextLength != 25 {
		t.Fatalf("max context length env override failed, got %d", cfg.MaxContextLength)
	}
}

func TestResolveDefaults_RejectsUnknownDriver(t *testing.T) {
	cfg := NewForTesting()
	cfg.DBDriver = "oracle"
	if err := cfg.ResolveDefaults(); err == nil {
		t.Fatal("expected error for unsupported DB driver")
	}
}

func TestResolveDefaults_PostgresRequiresDSN(t *testing.T) {
	cfg := NewForTesting()
	cfg.DBDriver = "postgres"
	cfg.PostgresDSN = ""
	if err := cfg.ResolveDefaults(); err == nil {
		t.Fatal("expected error when postgres has no DSN")
	}

	cfg.PostgresDSN = "postgres://localhost:5432/hrdesk"
	if err := cfg.ResolveDefaults(); err != nil {
		t.Fatalf("valid postgres config rejected: %v", err)
	}
}

func TestResolveDefaults_RejectsUnknownProvider(t *testing.T) {
	cfg := NewForTesting()
	cfg.LLMProvider = "bard"
	if err := cfg.ResolveDefaults(); err == nil {
		t.Fatal("expected error for unsupported LLM provider")
	}
}

func TestResolveDefaults_RejectsNonPositiveContextLength(t *testing.T) {
	cfg := NewForTesting()
	cfg.MaxContextLength = 0
	if err := cfg.ResolveDefaults(); err == nil {
		t.Fatal("expected error for non-positive context length")
	}
}

func TestGetHTTPAddr(t *testing.T) {
	cfg := NewForTesting()
	cfg.HTTPPort = 9090
	if got := cfg.GetHTTPAddr(); got != ":9090" {
		t.Fatalf("unexpected addr %q", got)
	}
}
