// Package speech turns advisory text into a playable audio artifact and
// farmer audio into text, each through an ordered list of providers that
// degrade gracefully. Adding, removing, or reordering a provider is a data
// change on the chain, not a control-flow rewrite.
package speech

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/harunnryd/tani/pkg/audio"
)

// Artifact is the output of one synthesis request: the audio file plus its
// companion transcript, written in the same directory.
type Artifact struct {
	AudioPath      string
	TranscriptPath string
}

// Synthesizer renders text to an audio file at outPath.
type Synthesizer interface {
	Name() string
	Synthesize(ctx context.Context, text, outPath string) error
}

// Transcriber converts an audio file to text.
type Transcriber interface {
	Name() string
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// TranscriptPath derives the companion transcript file name for an audio
// path: agri_reply.wav -> agri_reply_transcript.txt, same directory.
func TranscriptPath(audioPath string) string {
	ext := filepath.Ext(audioPath)
	return strings.TrimSuffix(audioPath, ext) + "_transcript.txt"
}

func writeTranscript(audioPath, text string) (string, error) {
	path := TranscriptPath(audioPath)
	if err := audio.EnsureDir(filepath.Dir(path)); err != nil {
		return path, err
	}
	return path, os.WriteFile(path, []byte(text), 0o644)
}
