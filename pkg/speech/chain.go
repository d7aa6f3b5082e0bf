package speech

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/harunnryd/tani/pkg/errorsx"
)

// SynthTier is one strategy in the synthesis chain. An empty AudioPath means
// the tier renders to the caller's preferred path; fallback tiers usually
// pin their own alternate path.
type SynthTier struct {
	Synthesizer Synthesizer
	AudioPath   string
}

// SynthesisChain tries each tier in order and stops at the first success.
// The final tier is expected to be a placeholder that can only fail on
// filesystem errors, so some playable output always exists.
type SynthesisChain struct {
	tiers []SynthTier
	log   *slog.Logger
}

func NewSynthesisChain(logger *slog.Logger, tiers ...SynthTier) *SynthesisChain {
	if logger == nil {
		logger = slog.Default()
	}
	return &SynthesisChain{tiers: tiers, log: logger}
}

// Speak renders text through the chain. Each successful tier writes a
// best-effort companion transcript; a transcript failure never blocks the
// artifact. The returned error is non-nil only when every tier failed,
// which short of filesystem trouble should not happen.
func (c *SynthesisChain) Speak(ctx context.Context, text, preferredPath string) (Artifact, error) {
	var lastErr error
	for _, tier := range c.tiers {
		outPath := tier.AudioPath
		if outPath == "" {
			outPath = preferredPath
		}
		if err := tier.Synthesizer.Synthesize(ctx, text, outPath); err != nil {
			c.log.Warn("synthesis tier failed, trying next",
				slog.String("tier", tier.Synthesizer.Name()),
				slog.String("error", err.Error()))
			lastErr = err
			continue
		}

		artifact := Artifact{AudioPath: outPath}
		transcriptPath, err := writeTranscript(outPath, text)
		if err != nil {
			err = errorsx.Wrap(err, errorsx.ReasonTranscriptWrite)
			c.log.Warn("transcript write failed",
				slog.String("tier", tier.Synthesizer.Name()),
				slog.String("path", transcriptPath),
				slog.String("reason", string(errorsx.Reason(err))),
				slog.String("error", err.Error()))
		} else {
			artifact.TranscriptPath = transcriptPath
		}
		c.log.Info("advisory audio ready",
			slog.String("tier", tier.Synthesizer.Name()),
			slog.String("audio_path", outPath))
		return artifact, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no synthesis tiers configured")
	}
	return Artifact{}, fmt.Errorf("all synthesis tiers failed: %w", lastErr)
}

// TranscriptionChain applies the same ordered-fallback policy to
// speech-to-text. The final tier is expected to always produce some text.
type TranscriptionChain struct {
	tiers []Transcriber
	log   *slog.Logger
}

func NewTranscriptionChain(logger *slog.Logger, tiers ...Transcriber) *TranscriptionChain {
	if logger == nil {
		logger = slog.Default()
	}
	return &TranscriptionChain{tiers: tiers, log: logger}
}

func (c *TranscriptionChain) Transcribe(ctx context.Context, audioPath string) (string, error) {
	var lastErr error
	for _, tier := range c.tiers {
		text, err := tier.Transcribe(ctx, audioPath)
		if err != nil {
			c.log.Warn("transcription tier failed, trying next",
				slog.String("tier", tier.Name()),
				slog.String("error", err.Error()))
			lastErr = err
			continue
		}
		c.log.Info("farmer audio transcribed",
			slog.String("tier", tier.Name()),
			slog.Int("chars", len(text)))
		return text, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no transcription tiers configured")
	}
	return "", fmt.Errorf("all transcription tiers failed: %w", lastErr)
}
