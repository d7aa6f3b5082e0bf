package deepgram

import (
	"context"
	"errors"
	"log/slog"

	listenv1rest "github.com/deepgram/deepgram-go-sdk/v3/pkg/api/listen/v1/rest"
	interfaces "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/interfaces"
	client "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/listen"

	"github.com/harunnryd/tani/pkg/speech"
)

type Config struct {
	APIKey   string
	Model    string
	Language string
}

// Transcriber converts recorded farmer audio to text through the Deepgram
// prerecorded REST API. It is the premium tier of the transcription chain;
// failures fall through to the offline tier.
type Transcriber struct {
	cfg Config
	log *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Transcriber {
	if cfg.Model == "" {
		cfg.Model = "nova-2"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Transcriber{cfg: cfg, log: logger}
}

func (t *Transcriber) Name() string { return "deepgram_stt" }

func (t *Transcriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	if t.cfg.APIKey == "" {
		return "", errors.New("missing deepgram api key")
	}
	if audioPath == "" {
		return "", errors.New("no audio path")
	}

	c := client.NewREST(t.cfg.APIKey, &interfaces.ClientOptions{})
	dg := listenv1rest.New(c)

	options := &interfaces.PreRecordedTranscriptionOptions{
		Model:       t.cfg.Model,
		SmartFormat: true,
	}
	if t.cfg.Language != "" {
		options.Language = t.cfg.Language
	}

	res, err := dg.FromFile(ctx, audioPath, options)
	if err != nil {
		return "", err
	}
	if res == nil || res.Results == nil ||
		len(res.Results.Channels) == 0 ||
		len(res.Results.Channels[0].Alternatives) == 0 {
		return "", errors.New("deepgram returned no transcript")
	}

	transcript := res.Results.Channels[0].Alternatives[0].Transcript
	if transcript == "" {
		return "", errors.New("deepgram returned empty transcript")
	}
	t.log.Debug("deepgram transcription complete",
		slog.Int("chars", len(transcript)))
	return transcript, nil
}

var _ speech.Transcriber = (*Transcriber)(nil)
