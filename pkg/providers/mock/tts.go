package mock

import (
	"context"

	"github.com/harunnryd/tani/pkg/audio"
	"github.com/harunnryd/tani/pkg/speech"
)

// TTSConfig controls the silent placeholder written by the mock synthesizer.
type TTSConfig struct {
	Seconds    float64
	SampleRate int
}

// Synthesizer writes a fixed-duration silent WAV so the advisory flow always
// ends with a playable file. It is the terminal tier of the synthesis chain
// and can only fail on filesystem errors.
type Synthesizer struct {
	cfg TTSConfig
}

func NewSynthesizer(cfg TTSConfig) *Synthesizer {
	if cfg.Seconds <= 0 {
		cfg.Seconds = 3.0
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 16000
	}
	return &Synthesizer{cfg: cfg}
}

func (s *Synthesizer) Name() string { return "mock_tts" }

func (s *Synthesizer) Synthesize(ctx context.Context, text, outPath string) error {
	return audio.WriteSilentWAV(outPath, s.cfg.Seconds, s.cfg.SampleRate)
}

var _ speech.Synthesizer = (*Synthesizer)(nil)
