package logger

import (
	"os"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewDefaultsToInfo(t *testing.T) {
	_ = os.Unsetenv("HRDESK_LOG_LEVEL")
	log := New("hrdesk")
	if log.GetLevel() != zerolog.InfoLevel {
		t.Fatalf("unexpected default level %v", log.GetLevel())
	}
}

func TestNewReadsLevelFromEnv(t *testing.T) {
	_ = os.Setenv("HRDESK_LOG_LEVEL", "debug")
	defer func() { _ = os.Unsetenv("HRDESK_LOG_LEVEL") }()

	log := New("hrdesk")
	if log.GetLevel() != zerolog.DebugLevel {
		t.Fatalf("unexpected level %v", log.GetLevel())
	}
}

func TestNewIgnoresUnparseableLevel(t *testing.T) {
	_ = os.Setenv("HRDESK_LOG_LEVEL", "chatty")
	defer func() { _ = os.Unsetenv("HRDESK_LOG_LEVEL") }()

	log := New("hrdesk")
	if log.GetLevel() != zerolog.InfoLevel {
		t.Fatalf("unexpected level %v", log.GetLevel())
	}
}
