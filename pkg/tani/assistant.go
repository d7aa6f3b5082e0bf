// Package tani wires the advisory pipeline together: config, provider
// registry, weather context, the advisory orchestrator, safety annotation,
// and the speech chains. The Assistant is the single entry point callers use.
package tani

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/harunnryd/tani/pkg/advisor"
	"github.com/harunnryd/tani/pkg/audio"
	"github.com/harunnryd/tani/pkg/errorsx"
	"github.com/harunnryd/tani/pkg/intent"
	"github.com/harunnryd/tani/pkg/logging"
	"github.com/harunnryd/tani/pkg/safety"
	"github.com/harunnryd/tani/pkg/speech"
	"github.com/harunnryd/tani/pkg/weather"
)

// AdvisoryRequest is one farmer question. FarmerText takes precedence; when
// it is empty and FarmerAudioPath is set, the transcription chain fills it in.
type AdvisoryRequest struct {
	ImagePath       string
	FarmerText      string
	FarmerAudioPath string
	Latitude        float64
	Longitude       float64
}

// AdvisoryResult carries the annotated advice plus everything useful for
// display: what was detected, how severe the advice reads, and where the
// spoken reply landed. AudioPath is empty only when every synthesis tier
// failed, which the flow treats as degraded rather than fatal.
type AdvisoryResult struct {
	RequestID      string
	FarmerText     string
	Crop           string
	PlantPart      string
	Advice         string
	Severity       safety.Level
	AudioPath      string
	TranscriptPath string
}

type Assistant struct {
	cfg     Config
	log     *slog.Logger
	advisor *advisor.Advisor
	weather *weather.Provider
	synth   *speech.SynthesisChain
	stt     *speech.TranscriptionChain
}

// NewAssistant builds the full pipeline from config. Provider construction
// errors are configuration mistakes and fail fast; a missing weather API key
// is not a mistake, it just selects the offline snapshot.
func NewAssistant(cfg Config, registry *ProviderRegistry, logger *slog.Logger) (*Assistant, error) {
	if registry == nil {
		registry = DefaultRegistry()
	}
	if logger == nil {
		logger = slog.Default()
	}

	var fetcher weather.Fetcher
	if strings.TrimSpace(cfg.Weather.APIKey) != "" {
		fetcher = weather.NewOpenWeatherFetcher(weather.OpenWeatherConfig{
			APIKey:  cfg.Weather.APIKey,
			BaseURL: cfg.Weather.BaseURL,
			Timeout: cfg.Weather.Timeout(),
		})
	}
	weatherProvider := weather.NewProvider(fetcher, weather.ProviderConfig{
		TTL:         cfg.Weather.TTL(),
		MaxAttempts: cfg.Weather.MaxAttempts,
		Backoff:     cfg.Weather.Backoff(),
	}, logging.NewComponentLogger(logger, "weather"))

	adapter, err := registry.BuildLLM(cfg.Vendors.LLM, logger)
	if err != nil {
		return nil, errorsx.Wrap(err, errorsx.ReasonConfig)
	}

	adv := advisor.New(adapter, weatherProvider, advisor.Config{
		RegionHint:  cfg.Advisor.RegionHint,
		Temperature: cfg.Advisor.Temperature,
		MaxAttempts: cfg.Advisor.MaxAttempts,
		Timeout:     cfg.Advisor.Timeout(),
	}, logging.NewComponentLogger(logger, "advisor"))

	synth, err := buildSynthesisChain(cfg, registry, logger)
	if err != nil {
		return nil, errorsx.Wrap(err, errorsx.ReasonConfig)
	}
	sttChain, err := buildTranscriptionChain(cfg, registry, logger)
	if err != nil {
		return nil, errorsx.Wrap(err, errorsx.ReasonConfig)
	}

	return &Assistant{
		cfg:     cfg,
		log:     logger,
		advisor: adv,
		weather: weatherProvider,
		synth:   synth,
		stt:     sttChain,
	}, nil
}

// Advise runs one question end to end: validate, transcribe if needed,
// detect intent, diagnose, annotate, speak. Weather and speech degrade
// silently; invalid input and diagnosis failures surface to the caller.
func (a *Assistant) Advise(ctx context.Context, req AdvisoryRequest) (AdvisoryResult, error) {
	requestID := uuid.NewString()
	log := a.log.With(slog.String("request_id", requestID))

	if strings.TrimSpace(req.ImagePath) == "" &&
		strings.TrimSpace(req.FarmerText) == "" &&
		strings.TrimSpace(req.FarmerAudioPath) == "" {
		return AdvisoryResult{}, errorsx.New("no crop image and no problem description", errorsx.ReasonInvalidInput)
	}
	if strings.TrimSpace(req.ImagePath) == "" {
		return AdvisoryResult{}, errorsx.New("no crop image provided", errorsx.ReasonNoImage)
	}
	if _, err := os.Stat(req.ImagePath); err != nil {
		return AdvisoryResult{}, errorsx.Wrap(err, errorsx.ReasonNoImage)
	}

	farmerText := strings.TrimSpace(req.FarmerText)
	if farmerText == "" && strings.TrimSpace(req.FarmerAudioPath) != "" {
		transcribed, err := a.stt.Transcribe(ctx, req.FarmerAudioPath)
		if err != nil {
			return AdvisoryResult{}, errorsx.Wrap(err, errorsx.ReasonSTTTranscribe)
		}
		farmerText = strings.TrimSpace(transcribed)
	}
	if farmerText == "" {
		return AdvisoryResult{}, errorsx.New("no problem description provided", errorsx.ReasonNoDesc)
	}

	crop := intent.DetectCrop(farmerText)
	part := intent.DetectPlantPart(farmerText)
	log.Info("advisory request accepted",
		slog.String("crop", crop),
		slog.String("part", part))

	raw, err := a.advisor.Analyze(ctx, advisor.Request{
		ImagePath:  req.ImagePath,
		FarmerText: farmerText,
		Crop:       crop,
		PlantPart:  part,
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
	})
	if err != nil {
		return AdvisoryResult{}, err
	}

	advice := safety.Annotate(raw)
	result := AdvisoryResult{
		RequestID:  requestID,
		FarmerText: farmerText,
		Crop:       crop,
		PlantPart:  part,
		Advice:     advice,
		Severity:   safety.Classify(raw),
	}

	if err := audio.EnsureDir(a.cfg.Speech.OutputDir); err != nil {
		log.Warn("cannot create audio output dir, skipping speech",
			slog.String("dir", a.cfg.Speech.OutputDir),
			slog.String("error", err.Error()))
		return result, nil
	}
	preferred := filepath.Join(a.cfg.Speech.OutputDir, a.cfg.Speech.AudioFile)
	artifact, err := a.synth.Speak(ctx, advice, preferred)
	if err != nil {
		log.Warn("speech synthesis unavailable, returning text only",
			slog.String("error", err.Error()))
		return result, nil
	}
	result.AudioPath = artifact.AudioPath
	result.TranscriptPath = artifact.TranscriptPath
	return result, nil
}

// ClearWeatherCache drops cached snapshots so the next request refetches.
func (a *Assistant) ClearWeatherCache() {
	a.weather.ClearCache()
}

func buildSynthesisChain(cfg Config, registry *ProviderRegistry, logger *slog.Logger) (*speech.SynthesisChain, error) {
	var tiers []speech.SynthTier
	mockConfigured := false

	vendorList := append([]VendorConfig{cfg.Vendors.TTS}, cfg.Vendors.TTSFallbacks...)
	for _, vendor := range vendorList {
		synth, err := registry.BuildTTS(vendor, logger)
		if err != nil {
			return nil, err
		}
		tiers = append(tiers, speech.SynthTier{Synthesizer: synth})
		if strings.EqualFold(strings.TrimSpace(vendor.Provider), "mock") {
			mockConfigured = true
		}
	}
	// The silent placeholder closes the chain so a playable file exists
	// even when every network tier is down.
	if !mockConfigured {
		placeholder, err := registry.BuildTTS(VendorConfig{Provider: "mock"}, logger)
		if err != nil {
			return nil, err
		}
		tiers = append(tiers, speech.SynthTier{Synthesizer: placeholder})
	}
	return speech.NewSynthesisChain(logging.NewComponentLogger(logger, "tts"), tiers...), nil
}

func buildTranscriptionChain(cfg Config, registry *ProviderRegistry, logger *slog.Logger) (*speech.TranscriptionChain, error) {
	var tiers []speech.Transcriber
	primary, err := registry.BuildSTT(cfg.Vendors.STT, logger)
	if err != nil {
		return nil, err
	}
	tiers = append(tiers, primary)
	if !strings.EqualFold(strings.TrimSpace(cfg.Vendors.STT.Provider), "mock") {
		fallback, err := registry.BuildSTT(VendorConfig{Provider: "mock"}, logger)
		if err != nil {
			return nil, err
		}
		tiers = append(tiers, fallback)
	}
	return speech.NewTranscriptionChain(logging.NewComponentLogger(logger, "stt"), tiers...), nil
}
