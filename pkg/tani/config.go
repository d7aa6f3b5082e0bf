package tani

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/harunnryd/tani/pkg/configutil"
)

type Config struct {
	Environment string        `mapstructure:"environment"`
	LogLevel    string        `mapstructure:"log_level"`
	LogFormat   string        `mapstructure:"log_format"`
	Vendors     VendorsConfig `mapstructure:"vendors"`
	Weather     WeatherConfig `mapstructure:"weather"`
	Speech      SpeechConfig  `mapstructure:"speech"`
	Advisor     AdvisorConfig `mapstructure:"advisor"`
}

// VendorConfig selects one provider implementation plus its free-form
// settings block. Settings values may reference environment variables with
// ${VAR} syntax.
type VendorConfig struct {
	Provider string         `mapstructure:"provider"`
	Settings map[string]any `mapstructure:"settings"`
}

type VendorsConfig struct {
	LLM VendorConfig `mapstructure:"llm"`
	STT VendorConfig `mapstructure:"stt"`
	TTS VendorConfig `mapstructure:"tts"`

	// TTSFallbacks are tried in order after the primary synthesizer fails.
	// A silent placeholder tier is always appended after these, so the
	// advisory flow ends with a playable file even fully offline.
	TTSFallbacks []VendorConfig `mapstructure:"tts_fallbacks"`
}

type WeatherConfig struct {
	APIKey      string `mapstructure:"api_key"`
	BaseURL     string `mapstructure:"base_url"`
	TTLMinutes  int    `mapstructure:"ttl_minutes"`
	MaxAttempts int    `mapstructure:"max_attempts"`
	BackoffMS   int    `mapstructure:"backoff_ms"`
	TimeoutMS   int    `mapstructure:"timeout_ms"`
}

func (c WeatherConfig) TTL() time.Duration     { return time.Duration(c.TTLMinutes) * time.Minute }
func (c WeatherConfig) Backoff() time.Duration { return time.Duration(c.BackoffMS) * time.Millisecond }
func (c WeatherConfig) Timeout() time.Duration { return time.Duration(c.TimeoutMS) * time.Millisecond }

type SpeechConfig struct {
	OutputDir string `mapstructure:"output_dir"`
	AudioFile string `mapstructure:"audio_file"`
}

type AdvisorConfig struct {
	RegionHint  string  `mapstructure:"region_hint"`
	Temperature float64 `mapstructure:"temperature"`
	MaxAttempts int     `mapstructure:"max_attempts"`
	TimeoutMS   int     `mapstructure:"timeout_ms"`
}

func (c AdvisorConfig) Timeout() time.Duration { return time.Duration(c.TimeoutMS) * time.Millisecond }

// LoadConfig reads the YAML config at path. A .env file next to the process
// is loaded first, best-effort, so ${VAR} references in settings blocks
// resolve during expansion.
func LoadConfig(path string) (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("environment", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("vendors.llm.provider", "mock")
	v.SetDefault("vendors.stt.provider", "mock")
	v.SetDefault("vendors.tts.provider", "mock")
	v.SetDefault("weather.ttl_minutes", 30)
	v.SetDefault("weather.max_attempts", 3)
	v.SetDefault("weather.backoff_ms", 500)
	v.SetDefault("weather.timeout_ms", 10000)
	v.SetDefault("speech.output_dir", "output_audio")
	v.SetDefault("speech.audio_file", "agri_reply.wav")
	v.SetDefault("advisor.region_hint", "unspecified region")
	v.SetDefault("advisor.temperature", 0.4)
	v.SetDefault("advisor.max_attempts", 3)
	v.SetDefault("advisor.timeout_ms", 30000)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}

	expandEnvStrings(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Vendors.LLM.Provider) == "" {
		return fmt.Errorf("vendors.llm.provider is required")
	}
	if strings.TrimSpace(c.Vendors.STT.Provider) == "" {
		return fmt.Errorf("vendors.stt.provider is required")
	}
	if strings.TrimSpace(c.Vendors.TTS.Provider) == "" {
		return fmt.Errorf("vendors.tts.provider is required")
	}
	if err := configutil.RequireString(c.Speech.OutputDir, "speech.output_dir"); err != nil {
		return err
	}
	if err := configutil.RequireString(c.Speech.AudioFile, "speech.audio_file"); err != nil {
		return err
	}
	return nil
}

func expandEnvStrings(cfg *Config) {
	cfg.Weather.APIKey = os.ExpandEnv(cfg.Weather.APIKey)
	cfg.Weather.BaseURL = os.ExpandEnv(cfg.Weather.BaseURL)
	cfg.Vendors.LLM.Settings = configutil.ExpandSettings(cfg.Vendors.LLM.Settings)
	cfg.Vendors.STT.Settings = configutil.ExpandSettings(cfg.Vendors.STT.Settings)
	cfg.Vendors.TTS.Settings = configutil.ExpandSettings(cfg.Vendors.TTS.Settings)
	for i := range cfg.Vendors.TTSFallbacks {
		cfg.Vendors.TTSFallbacks[i].Settings = configutil.ExpandSettings(cfg.Vendors.TTSFallbacks[i].Settings)
	}
}
