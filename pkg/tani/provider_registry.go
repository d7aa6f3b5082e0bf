package tani

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/harunnryd/tani/pkg/configutil"
	"github.com/harunnryd/tani/pkg/llm"
	"github.com/harunnryd/tani/pkg/providers/deepgram"
	"github.com/harunnryd/tani/pkg/providers/elevenlabs"
	"github.com/harunnryd/tani/pkg/providers/mock"
	"github.com/harunnryd/tani/pkg/providers/openai"
	"github.com/harunnryd/tani/pkg/providers/piper"
	"github.com/harunnryd/tani/pkg/speech"
)

type LLMFactory func(cfg VendorConfig, logger *slog.Logger) (llm.Adapter, error)
type STTFactory func(cfg VendorConfig, logger *slog.Logger) (speech.Transcriber, error)
type TTSFactory func(cfg VendorConfig, logger *slog.Logger) (speech.Synthesizer, error)

// ProviderRegistry maps vendor names from config to constructor functions.
// Names are matched case-insensitively.
type ProviderRegistry struct {
	llm map[string]LLMFactory
	stt map[string]STTFactory
	tts map[string]TTSFactory
}

func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{
		llm: make(map[string]LLMFactory),
		stt: make(map[string]STTFactory),
		tts: make(map[string]TTSFactory),
	}
}

func (r *ProviderRegistry) RegisterLLM(name string, factory LLMFactory) {
	r.llm[strings.ToLower(strings.TrimSpace(name))] = factory
}

func (r *ProviderRegistry) RegisterSTT(name string, factory STTFactory) {
	r.stt[strings.ToLower(strings.TrimSpace(name))] = factory
}

func (r *ProviderRegistry) RegisterTTS(name string, factory TTSFactory) {
	r.tts[strings.ToLower(strings.TrimSpace(name))] = factory
}

func (r *ProviderRegistry) BuildLLM(cfg VendorConfig, logger *slog.Logger) (llm.Adapter, error) {
	fn := r.llm[strings.ToLower(strings.TrimSpace(cfg.Provider))]
	if fn == nil {
		return nil, fmt.Errorf("llm provider not registered: %s", cfg.Provider)
	}
	return fn(cfg, logger)
}

func (r *ProviderRegistry) BuildSTT(cfg VendorConfig, logger *slog.Logger) (speech.Transcriber, error) {
	fn := r.stt[strings.ToLower(strings.TrimSpace(cfg.Provider))]
	if fn == nil {
		return nil, fmt.Errorf("stt provider not registered: %s", cfg.Provider)
	}
	return fn(cfg, logger)
}

func (r *ProviderRegistry) BuildTTS(cfg VendorConfig, logger *slog.Logger) (speech.Synthesizer, error) {
	fn := r.tts[strings.ToLower(strings.TrimSpace(cfg.Provider))]
	if fn == nil {
		return nil, fmt.Errorf("tts provider not registered: %s", cfg.Provider)
	}
	return fn(cfg, logger)
}

// DefaultRegistry returns a registry preloaded with every built-in provider.
func DefaultRegistry() *ProviderRegistry {
	r := NewProviderRegistry()

	r.RegisterLLM("openai", func(cfg VendorConfig, logger *slog.Logger) (llm.Adapter, error) {
		var s struct {
			APIKey    string `mapstructure:"api_key"`
			Model     string `mapstructure:"model"`
			TimeoutMS int    `mapstructure:"timeout_ms"`
		}
		if err := configutil.DecodeSettings(cfg.Settings, &s); err != nil {
			return nil, fmt.Errorf("openai settings: %w", err)
		}
		// A missing key selects the offline heuristic adapter instead of
		// failing construction, so the tool still answers without credentials.
		if strings.TrimSpace(s.APIKey) == "" {
			if logger != nil {
				logger.Warn("no openai api key, using offline heuristic adapter")
			}
			return mock.NewLLMAdapter(mock.LLMConfig{}), nil
		}
		return openai.NewAdapter(s.APIKey, s.Model, time.Duration(s.TimeoutMS)*time.Millisecond), nil
	})
	r.RegisterLLM("mock", func(cfg VendorConfig, _ *slog.Logger) (llm.Adapter, error) {
		var s struct {
			ResponseText string `mapstructure:"response_text"`
		}
		if err := configutil.DecodeSettings(cfg.Settings, &s); err != nil {
			return nil, fmt.Errorf("mock llm settings: %w", err)
		}
		return mock.NewLLMAdapter(mock.LLMConfig{ResponseText: s.ResponseText}), nil
	})

	r.RegisterSTT("deepgram", func(cfg VendorConfig, logger *slog.Logger) (speech.Transcriber, error) {
		var s struct {
			APIKey   string `mapstructure:"api_key"`
			Model    string `mapstructure:"model"`
			Language string `mapstructure:"language"`
		}
		if err := configutil.DecodeSettings(cfg.Settings, &s); err != nil {
			return nil, fmt.Errorf("deepgram settings: %w", err)
		}
		// A keyless transcriber fails per call and the chain falls through
		// to the offline tier.
		return deepgram.New(deepgram.Config{
			APIKey:   s.APIKey,
			Model:    s.Model,
			Language: s.Language,
		}, logger), nil
	})
	r.RegisterSTT("mock", func(cfg VendorConfig, _ *slog.Logger) (speech.Transcriber, error) {
		var s struct {
			Transcript string `mapstructure:"transcript"`
		}
		if err := configutil.DecodeSettings(cfg.Settings, &s); err != nil {
			return nil, fmt.Errorf("mock stt settings: %w", err)
		}
		return mock.NewTranscriber(mock.STTConfig{Transcript: s.Transcript}), nil
	})

	r.RegisterTTS("elevenlabs", func(cfg VendorConfig, logger *slog.Logger) (speech.Synthesizer, error) {
		var s struct {
			APIKey     string `mapstructure:"api_key"`
			VoiceID    string `mapstructure:"voice_id"`
			ModelID    string `mapstructure:"model_id"`
			SampleRate int    `mapstructure:"sample_rate"`
			TimeoutMS  int    `mapstructure:"timeout_ms"`
		}
		if err := configutil.DecodeSettings(cfg.Settings, &s); err != nil {
			return nil, fmt.Errorf("elevenlabs settings: %w", err)
		}
		// Missing key or voice fails per call; the next tier takes over.
		return elevenlabs.New(elevenlabs.Config{
			APIKey:     s.APIKey,
			VoiceID:    s.VoiceID,
			ModelID:    s.ModelID,
			SampleRate: s.SampleRate,
			Timeout:    time.Duration(s.TimeoutMS) * time.Millisecond,
		}, logger), nil
	})
	r.RegisterTTS("piper", func(cfg VendorConfig, logger *slog.Logger) (speech.Synthesizer, error) {
		var s struct {
			Endpoint  string `mapstructure:"endpoint"`
			Voice     string `mapstructure:"voice"`
			TimeoutMS int    `mapstructure:"timeout_ms"`
		}
		if err := configutil.DecodeSettings(cfg.Settings, &s); err != nil {
			return nil, fmt.Errorf("piper settings: %w", err)
		}
		return piper.New(piper.Config{
			Endpoint: s.Endpoint,
			Voice:    s.Voice,
			Timeout:  time.Duration(s.TimeoutMS) * time.Millisecond,
		}, logger), nil
	})
	r.RegisterTTS("mock", func(cfg VendorConfig, _ *slog.Logger) (speech.Synthesizer, error) {
		var s struct {
			Seconds    float64 `mapstructure:"seconds"`
			SampleRate int     `mapstructure:"sample_rate"`
		}
		if err := configutil.DecodeSettings(cfg.Settings, &s); err != nil {
			return nil, fmt.Errorf("mock tts settings: %w", err)
		}
		return mock.NewSynthesizer(mock.TTSConfig{Seconds: s.Seconds, SampleRate: s.SampleRate}), nil
	})

	return r
}
