package tani

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harunnryd/tani/pkg/errorsx"
	"github.com/harunnryd/tani/pkg/safety"
)

func mockConfig(t *testing.T) Config {
	t.Helper()
	return Config{
		Vendors: VendorsConfig{
			LLM: VendorConfig{Provider: "mock"},
			STT: VendorConfig{Provider: "mock"},
			TTS: VendorConfig{Provider: "mock"},
		},
		Speech: SpeechConfig{
			OutputDir: t.TempDir(),
			AudioFile: "agri_reply.wav",
		},
	}
}

func tempImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "crop.jpg")
	if err := os.WriteFile(path, []byte{0xFF, 0xD8, 0xFF}, 0o644); err != nil {
		t.Fatalf("write image: %v", err)
	}
	return path
}

func TestAdviseEndToEndOffline(t *testing.T) {
	cfg := mockConfig(t)
	a, err := NewAssistant(cfg, nil, nil)
	if err != nil {
		t.Fatalf("build assistant: %v", err)
	}

	res, err := a.Advise(context.Background(), AdvisoryRequest{
		ImagePath:  tempImage(t),
		FarmerText: "My tomato leaves have brown spots after the rain",
	})
	if err != nil {
		t.Fatalf("advise: %v", err)
	}

	if res.RequestID == "" {
		t.Fatalf("expected a request id")
	}
	if res.Crop != "tomato" {
		t.Fatalf("expected tomato, got %q", res.Crop)
	}
	if res.PlantPart != "leaf" {
		t.Fatalf("expected leaf, got %q", res.PlantPart)
	}
	if !strings.Contains(strings.ToLower(res.Advice), "agronomist") {
		t.Fatalf("expected annotated advice with a disclaimer, got %q", res.Advice)
	}
	if res.Severity == safety.LevelUnknown {
		t.Fatalf("expected a classified severity")
	}

	if res.AudioPath == "" {
		t.Fatalf("expected placeholder audio")
	}
	info, err := os.Stat(res.AudioPath)
	if err != nil || info.Size() == 0 {
		t.Fatalf("expected non-empty audio file at %s: %v", res.AudioPath, err)
	}
	if res.TranscriptPath == "" {
		t.Fatalf("expected companion transcript")
	}
	transcript, err := os.ReadFile(res.TranscriptPath)
	if err != nil {
		t.Fatalf("read transcript: %v", err)
	}
	if string(transcript) != res.Advice {
		t.Fatalf("transcript must match spoken advice")
	}
}

func TestNewAssistantDegradesWithoutAPIKeys(t *testing.T) {
	cfg := mockConfig(t)
	cfg.Vendors.LLM = VendorConfig{Provider: "openai", Settings: map[string]any{"api_key": ""}}
	cfg.Vendors.STT = VendorConfig{Provider: "deepgram", Settings: map[string]any{"api_key": ""}}
	cfg.Vendors.TTS = VendorConfig{Provider: "elevenlabs", Settings: map[string]any{"api_key": "", "voice_id": ""}}

	a, err := NewAssistant(cfg, nil, nil)
	if err != nil {
		t.Fatalf("missing API keys must select fallback paths, not fail: %v", err)
	}

	res, err := a.Advise(context.Background(), AdvisoryRequest{
		ImagePath:  tempImage(t),
		FarmerText: "My tomato leaves have brown spots after the rain",
	})
	if err != nil {
		t.Fatalf("advise without credentials: %v", err)
	}
	if res.Advice == "" {
		t.Fatalf("expected offline heuristic advice")
	}
	if res.AudioPath == "" {
		t.Fatalf("expected the placeholder tier to produce audio")
	}
	info, err := os.Stat(res.AudioPath)
	if err != nil || info.Size() == 0 {
		t.Fatalf("expected non-empty placeholder audio at %s: %v", res.AudioPath, err)
	}
}

func TestAdviseRejectsFullyEmptyRequest(t *testing.T) {
	a, err := NewAssistant(mockConfig(t), nil, nil)
	if err != nil {
		t.Fatalf("build assistant: %v", err)
	}

	_, err = a.Advise(context.Background(), AdvisoryRequest{})
	if !errorsx.HasReason(err, errorsx.ReasonInvalidInput) {
		t.Fatalf("expected invalid-input reason, got %v", err)
	}
}

func TestAdviseRejectsMissingImage(t *testing.T) {
	a, err := NewAssistant(mockConfig(t), nil, nil)
	if err != nil {
		t.Fatalf("build assistant: %v", err)
	}

	_, err = a.Advise(context.Background(), AdvisoryRequest{FarmerText: "wilting plants"})
	if !errorsx.HasReason(err, errorsx.ReasonNoImage) {
		t.Fatalf("expected no-image reason, got %v", err)
	}

	_, err = a.Advise(context.Background(), AdvisoryRequest{
		ImagePath:  filepath.Join(t.TempDir(), "nope.jpg"),
		FarmerText: "wilting plants",
	})
	if !errorsx.HasReason(err, errorsx.ReasonNoImage) {
		t.Fatalf("expected no-image reason for unreadable path, got %v", err)
	}
}

func TestAdviseRejectsEmptyDescription(t *testing.T) {
	a, err := NewAssistant(mockConfig(t), nil, nil)
	if err != nil {
		t.Fatalf("build assistant: %v", err)
	}

	_, err = a.Advise(context.Background(), AdvisoryRequest{ImagePath: tempImage(t)})
	if !errorsx.HasReason(err, errorsx.ReasonNoDesc) {
		t.Fatalf("expected no-description reason, got %v", err)
	}
}

func TestAdviseTranscribesSpokenQuestion(t *testing.T) {
	a, err := NewAssistant(mockConfig(t), nil, nil)
	if err != nil {
		t.Fatalf("build assistant: %v", err)
	}

	res, err := a.Advise(context.Background(), AdvisoryRequest{
		ImagePath:       tempImage(t),
		FarmerAudioPath: "recordings/question.wav",
	})
	if err != nil {
		t.Fatalf("advise: %v", err)
	}
	if res.FarmerText == "" {
		t.Fatalf("expected transcription to fill in the farmer text")
	}

	// Same audio path, same transcript.
	again, err := a.Advise(context.Background(), AdvisoryRequest{
		ImagePath:       tempImage(t),
		FarmerAudioPath: "recordings/question.wav",
	})
	if err != nil {
		t.Fatalf("advise again: %v", err)
	}
	if again.FarmerText != res.FarmerText {
		t.Fatalf("transcript selection must be deterministic")
	}
}

func TestNewAssistantRejectsUnknownProvider(t *testing.T) {
	cfg := mockConfig(t)
	cfg.Vendors.LLM.Provider = "nonexistent"
	_, err := NewAssistant(cfg, nil, nil)
	if !errorsx.HasReason(err, errorsx.ReasonConfig) {
		t.Fatalf("expected config reason, got %v", err)
	}
}
