package mock

import (
	"context"
	"errors"
	"hash/fnv"

	"github.com/harunnryd/tani/pkg/speech"
)

// transcriptExamples are realistic farmer questions used when no live
// transcription service is available.
var transcriptExamples = []string{
	"My tomato leaves have yellow spots after heavy rain. What should I do?",
	"I see small holes in the leaves and some insects underneath. How do I fix this?",
	"The soil is very dry and my plants are starting to wilt. I need help.",
	"There's a white powdery substance on the leaves. Is this a disease?",
	"My corn plants are yellowing from the bottom. What nutrient are they missing?",
	"I noticed brown lesions on the cotton leaves that are spreading. What can I do?",
	"There's black fungal growth on my rice leaves. Is it serious?",
}

// STTConfig pins the transcript for tests; when empty, an example is chosen
// deterministically from the audio path so repeated runs agree.
type STTConfig struct {
	Transcript string
}

type Transcriber struct {
	cfg STTConfig
}

func NewTranscriber(cfg STTConfig) *Transcriber {
	return &Transcriber{cfg: cfg}
}

func (t *Transcriber) Name() string { return "mock_stt" }

func (t *Transcriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	if audioPath == "" {
		return "", errors.New("no audio path")
	}
	if t.cfg.Transcript != "" {
		return t.cfg.Transcript, nil
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(audioPath))
	return transcriptExamples[int(h.Sum32())%len(transcriptExamples)], nil
}

var _ speech.Transcriber = (*Transcriber)(nil)
