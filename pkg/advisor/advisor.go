// Package advisor composes the diagnosis prompt from farmer text, crop
// context, image hints, and weather signals, and submits it to the
// configured language model. The completion call is load-bearing: its
// failure surfaces to the boundary layer instead of degrading.
package advisor

import (
	"context"
	"encoding/base64"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/harunnryd/tani/pkg/errorsx"
	"github.com/harunnryd/tani/pkg/llm"
	"github.com/harunnryd/tani/pkg/resilience"
	"github.com/harunnryd/tani/pkg/weather"
)

// WeatherSource yields the snapshot embedded in the prompt. It never fails;
// degraded snapshots carry an explanatory summary instead.
type WeatherSource interface {
	Snapshot(ctx context.Context, lat, lon float64) *weather.Snapshot
}

type Config struct {
	RegionHint  string
	Temperature float64
	MaxAttempts int
	Timeout     time.Duration
}

type Advisor struct {
	adapter llm.Adapter
	weather WeatherSource
	cfg     Config
	log     *slog.Logger
}

// Request carries one advisory question. Crop and PlantPart come from the
// intent detector; Latitude/Longitude locate the plot for weather context.
type Request struct {
	ImagePath  string
	FarmerText string
	Crop       string
	PlantPart  string
	Latitude   float64
	Longitude  float64
}

func New(adapter llm.Adapter, source WeatherSource, cfg Config, logger *slog.Logger) *Advisor {
	if cfg.RegionHint == "" {
		cfg.RegionHint = "unspecified region"
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = 0.4
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Advisor{adapter: adapter, weather: source, cfg: cfg, log: logger}
}

// Analyze returns the raw (pre-safety-annotation) guidance for a request.
// Empty farmer text is rejected before any network call. Image read
// failures and completion failures propagate to the caller.
func (a *Advisor) Analyze(ctx context.Context, req Request) (string, error) {
	if strings.TrimSpace(req.FarmerText) == "" {
		return "", errorsx.New("empty farmer description", errorsx.ReasonNoDesc)
	}

	// The encoded image is carried on the prompt for future vision-capable
	// models but is not transmitted yet; adapters reason over text only.
	imgB64, err := encodeImage(req.ImagePath)
	if err != nil {
		return "", errorsx.Wrap(err, errorsx.ReasonImageRead)
	}

	snap := a.weather.Snapshot(ctx, req.Latitude, req.Longitude)

	prompt := llm.Prompt{
		System:      systemInstruction,
		User:        buildPrompt(req.FarmerText, req.Crop, req.PlantPart, a.cfg.RegionHint, snap.Summary),
		Temperature: a.cfg.Temperature,
		ImageB64:    imgB64,
	}

	callCtx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
	defer cancel()

	a.log.Debug("submitting advisory prompt",
		slog.String("adapter", a.adapter.Name()),
		slog.String("crop", req.Crop),
		slog.String("part", req.PlantPart))

	resp, err := llm.Retry(callCtx, llm.RetryConfig{MaxAttempts: a.cfg.MaxAttempts},
		func(ctx context.Context) (llm.Response, error) {
			return a.adapter.Generate(ctx, prompt)
		})
	if err != nil {
		if resilience.IsRateLimit(err) {
			return "", errorsx.Wrap(err, errorsx.ReasonLLMRateLimit)
		}
		return "", errorsx.Wrap(err, errorsx.ReasonLLMGenerate)
	}
	return resp.Text, nil
}

func encodeImage(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}
