package advisor

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harunnryd/tani/pkg/errorsx"
	"github.com/harunnryd/tani/pkg/llm"
	"github.com/harunnryd/tani/pkg/resilience"
	"github.com/harunnryd/tani/pkg/weather"
)

type recordingAdapter struct {
	calls  int
	prompt llm.Prompt
	text   string
}

func (a *recordingAdapter) Name() string { return "recording" }

func (a *recordingAdapter) Generate(ctx context.Context, prompt llm.Prompt) (llm.Response, error) {
	a.calls++
	a.prompt = prompt
	return llm.Response{Text: a.text}, nil
}

type staticWeather struct{ summary string }

func (w staticWeather) Snapshot(ctx context.Context, lat, lon float64) *weather.Snapshot {
	return &weather.Snapshot{Summary: w.summary}
}

func writeTempImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "crop.jpg")
	if err := os.WriteFile(path, []byte("not-really-a-jpeg"), 0o644); err != nil {
		t.Fatalf("write image: %v", err)
	}
	return path
}

func TestAnalyzeRejectsEmptyTextBeforeNetwork(t *testing.T) {
	adapter := &recordingAdapter{}
	a := New(adapter, staticWeather{summary: "fine"}, Config{}, nil)

	_, err := a.Analyze(context.Background(), Request{ImagePath: writeTempImage(t), FarmerText: "   "})
	if err == nil {
		t.Fatalf("expected rejection for empty description")
	}
	if !errorsx.HasReason(err, errorsx.ReasonNoDesc) {
		t.Fatalf("expected no-description reason, got %s", errorsx.Reason(err))
	}
	if adapter.calls != 0 {
		t.Fatalf("model must not be called for invalid input")
	}
}

func TestAnalyzeSurfacesImageReadFailure(t *testing.T) {
	a := New(&recordingAdapter{}, staticWeather{summary: "fine"}, Config{}, nil)
	_, err := a.Analyze(context.Background(), Request{
		ImagePath:  filepath.Join(t.TempDir(), "missing.jpg"),
		FarmerText: "brown spots on leaves",
	})
	if !errorsx.HasReason(err, errorsx.ReasonImageRead) {
		t.Fatalf("expected image-read reason, got %v", err)
	}
}

func TestAnalyzeComposesPromptAndReturnsVerbatim(t *testing.T) {
	adapter := &recordingAdapter{text: "raw model advice"}
	a := New(adapter, staticWeather{summary: "High humidity can increase fungal disease risk."},
		Config{RegionHint: "central valley"}, nil)

	got, err := a.Analyze(context.Background(), Request{
		ImagePath:  writeTempImage(t),
		FarmerText: "My tomato leaves have brown spots",
		Crop:       "tomato",
		PlantPart:  "leaf",
	})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if got != "raw model advice" {
		t.Fatalf("expected verbatim model output, got %q", got)
	}

	user := adapter.prompt.User
	for _, want := range []string{
		"central valley",
		"High humidity can increase fungal disease risk.",
		"Crop: tomato",
		"Plant part shown in the image: leaf",
		"My tomato leaves have brown spots",
		partHints["leaf"],
	} {
		if !strings.Contains(user, want) {
			t.Fatalf("prompt missing %q:\n%s", want, user)
		}
	}
	if adapter.prompt.System != systemInstruction {
		t.Fatalf("unexpected system instruction %q", adapter.prompt.System)
	}
	if adapter.prompt.ImageB64 == "" {
		t.Fatalf("encoded image should be carried on the prompt")
	}
}

type rateLimitedAdapter struct{}

func (rateLimitedAdapter) Name() string { return "rate_limited" }

func (rateLimitedAdapter) Generate(ctx context.Context, prompt llm.Prompt) (llm.Response, error) {
	return llm.Response{}, resilience.RateLimitError{Provider: "openai", Message: "429 too many requests"}
}

func TestAnalyzeReportsRateLimitDistinctly(t *testing.T) {
	a := New(rateLimitedAdapter{}, staticWeather{summary: "fine"}, Config{MaxAttempts: 1}, nil)

	_, err := a.Analyze(context.Background(), Request{
		ImagePath:  writeTempImage(t),
		FarmerText: "brown spots on leaves",
	})
	if !errorsx.HasReason(err, errorsx.ReasonLLMRateLimit) {
		t.Fatalf("expected rate-limit reason, got %v", err)
	}
	want := "The advisory service is busy right now. Please try again in a moment."
	if got := errorsx.UserMessage(err); got != want {
		t.Fatalf("unexpected user message %q", got)
	}
}

func TestPartHintFallsBackForUnknownPart(t *testing.T) {
	if partHint("mystery") != defaultPartHint {
		t.Fatalf("expected default hint for unknown part")
	}
}
