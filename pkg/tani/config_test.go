package tani

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, "environment: test\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Environment != "test" {
		t.Fatalf("expected environment override, got %q", cfg.Environment)
	}
	if cfg.Vendors.LLM.Provider != "mock" {
		t.Fatalf("expected mock llm default, got %q", cfg.Vendors.LLM.Provider)
	}
	if cfg.Weather.TTL() != 30*time.Minute {
		t.Fatalf("expected 30m weather ttl, got %s", cfg.Weather.TTL())
	}
	if cfg.Weather.MaxAttempts != 3 {
		t.Fatalf("expected 3 weather attempts, got %d", cfg.Weather.MaxAttempts)
	}
	if cfg.Speech.AudioFile != "agri_reply.wav" {
		t.Fatalf("expected default audio file, got %q", cfg.Speech.AudioFile)
	}
	if cfg.Advisor.Timeout() != 30*time.Second {
		t.Fatalf("expected 30s advisor timeout, got %s", cfg.Advisor.Timeout())
	}
}

func TestLoadConfigExpandsEnvReferences(t *testing.T) {
	t.Setenv("TEST_OWM_KEY", "owm-secret")
	t.Setenv("TEST_XI_KEY", "xi-secret")

	path := writeConfig(t, `
weather:
  api_key: ${TEST_OWM_KEY}
vendors:
  tts:
    provider: elevenlabs
    settings:
      api_key: ${TEST_XI_KEY}
      voice_id: abc123
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Weather.APIKey != "owm-secret" {
		t.Fatalf("weather api key not expanded: %q", cfg.Weather.APIKey)
	}
	if got := cfg.Vendors.TTS.Settings["api_key"]; got != "xi-secret" {
		t.Fatalf("tts api key not expanded: %v", got)
	}
}

func TestLoadConfigRejectsBlankOutputDir(t *testing.T) {
	path := writeConfig(t, `
speech:
  output_dir: " "
`)
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected validation error for blank output dir")
	}
}
