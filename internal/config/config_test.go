package config

import (
	"os"
	"testing"
)

func TestGetEnvWithDefault(t *testing.T) {
	const key = "TEST_APP_PORT"

	// 环境变量未设置时，应该返回默认值
	_ = os.Unsetenv(key)
	if got := getEnv(key, "8081"); got != "8081" {
		t.Fatalf("getEnv(%q) = %q, want %q", key, got, "8081")
	}

	// 环境变量设置后，应优先返回环境变量
	if err := os.Setenv(key, "9000"); err != nil {
		t.Fatalf("Setenv error: %v", err)
	}
	defer os.Unsetenv(key)
	if got := getEnv(key, "8081"); got != "9000" {
		t.Fatalf("getEnv(%q) = %q, want %q", key, got, "9000")
	}
}

func TestLoadReadsKeysAndPort(t *testing.T) {
	_ = os.Setenv("APP_PORT", "1234")
	_ = os.Setenv("EXA_API_KEY", "exa-key")
	_ = os.Setenv("GEMINI_MODEL", "gemini-test")
	defer func() {
		_ = os.Unsetenv("APP_PORT")
		_ = os.Unsetenv("EXA_API_KEY")
		_ = os.Unsetenv("GEMINI_MODEL")
	}()

	cfg := Load()
	if cfg.AppPort != "1234" {
		t.Fatalf("AppPort = %q, want %q", cfg.AppPort, "1234")
	}
	if cfg.ExaAPIKey != "exa-key" {
		t.Fatalf("ExaAPIKey = %q, want %q", cfg.ExaAPIKey, "exa-key")
	}
	if cfg.GeminiModel != "gemini-test" {
		t.Fatalf("GeminiModel = %q, want %q", cfg.GeminiModel, "gemini-test")
	}
}

func TestDefaultFetchConfig(t *testing.T) {
	fc := DefaultFetchConfig()
	if len(fc.Domains) == 0 {
		t.Fatalf("default domains should not be empty")
	}
	if fc.ArticlesPerDomain != 9 || fc.LookbackDays != 3 {
		t.Fatalf("unexpected defaults: %+v", fc)
	}
}

func TestParseIntDefault(t *testing.T) {
	if got := ParseIntDefault("", 9); got != 9 {
		t.Fatalf("empty input should return default, got %d", got)
	}
	if got := ParseIntDefault("abc", 9); got != 9 {
		t.Fatalf("invalid input should return default, got %d", got)
	}
	if got := ParseIntDefault("-3", 9); got != 9 {
		t.Fatalf("non-positive input should return default, got %d", got)
	}
	if got := ParseIntDefault("15", 9); got != 15 {
		t.Fatalf("valid input should be parsed, got %d", got)
	}
}
