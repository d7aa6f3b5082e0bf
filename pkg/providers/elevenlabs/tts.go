package elevenlabs

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"context"

	"github.com/gorilla/websocket"
	"github.com/harunnryd/tani/pkg/audio"
	"github.com/harunnryd/tani/pkg/resilience"
	"github.com/harunnryd/tani/pkg/speech"
)

type Config struct {
	APIKey     string
	VoiceID    string
	ModelID    string
	SampleRate int
	Timeout    time.Duration
}

// Synthesizer renders advisory text through the ElevenLabs stream-input
// websocket and writes the collected PCM as a WAV file. One connection per
// synthesis request; the advisory flow is single-shot, not conversational.
type Synthesizer struct {
	cfg Config
	log *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Synthesizer {
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 16000
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Synthesizer{cfg: cfg, log: logger}
}

func (s *Synthesizer) Name() string { return "elevenlabs_tts" }

func (s *Synthesizer) Synthesize(ctx context.Context, text, outPath string) error {
	if s.cfg.APIKey == "" || s.cfg.VoiceID == "" {
		return errors.New("missing elevenlabs config")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return errors.New("empty text for synthesis")
	}

	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: s.cfg.Timeout,
	}
	conn, resp, err := dialer.DialContext(ctx, s.buildURL(), http.Header{
		"xi-api-key": []string{s.cfg.APIKey},
	})
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusTooManyRequests {
			return resilience.RateLimitError{Provider: "elevenlabs", Message: resp.Status}
		}
		return fmt.Errorf("elevenlabs connect: %w", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(s.cfg.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetReadDeadline(deadline)
	_ = conn.SetWriteDeadline(deadline)

	if err := s.sendAll(conn, text); err != nil {
		return err
	}

	pcm, err := s.collectAudio(conn)
	if err != nil {
		return err
	}
	if len(pcm) == 0 {
		return errors.New("elevenlabs returned no audio")
	}
	s.log.Debug("elevenlabs synthesis complete",
		slog.Int("pcm_bytes", len(pcm)),
		slog.String("out_path", outPath))
	return audio.WritePCMAsWAV(outPath, pcm, s.cfg.SampleRate, 1, 2)
}

func (s *Synthesizer) buildURL() string {
	base := "wss://api.elevenlabs.io/v1/text-to-speech/" + s.cfg.VoiceID + "/stream-input"
	q := url.Values{}
	if s.cfg.ModelID != "" {
		q.Set("model_id", s.cfg.ModelID)
	}
	q.Set("output_format", fmt.Sprintf("pcm_%d", s.cfg.SampleRate))
	return base + "?" + q.Encode()
}

func (s *Synthesizer) sendAll(conn *websocket.Conn, text string) error {
	open := map[string]any{
		"text": " ",
		"voice_settings": map[string]any{
			"stability":        0.5,
			"similarity_boost": 0.8,
		},
	}
	if err := writeJSON(conn, open); err != nil {
		return fmt.Errorf("elevenlabs open: %w", err)
	}
	if !strings.HasSuffix(text, " ") {
		text += " "
	}
	if err := writeJSON(conn, map[string]any{"text": text, "try_trigger_generation": true}); err != nil {
		return fmt.Errorf("elevenlabs send text: %w", err)
	}
	// empty text closes the input stream so the server flushes and finishes
	if err := writeJSON(conn, map[string]any{"text": ""}); err != nil {
		return fmt.Errorf("elevenlabs close input: %w", err)
	}
	return nil
}

func (s *Synthesizer) collectAudio(conn *websocket.Conn) ([]byte, error) {
	var pcm []byte
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) && len(pcm) > 0 {
				return pcm, nil
			}
			return nil, fmt.Errorf("elevenlabs read: %w", err)
		}
		var msg struct {
			Audio   string  `json:"audio"`
			IsFinal *bool   `json:"isFinal"`
			Message *string `json:"message"`
			Error   *string `json:"error"`
		}
		if err := json.Unmarshal(data, &msg); err != nil {
			s.log.Warn("elevenlabs unexpected payload", slog.String("data", string(data)))
			continue
		}
		if msg.Error != nil {
			return nil, fmt.Errorf("elevenlabs error: %s", *msg.Error)
		}
		if msg.Audio != "" {
			chunk, err := base64.StdEncoding.DecodeString(msg.Audio)
			if err != nil {
				return nil, fmt.Errorf("elevenlabs audio decode: %w", err)
			}
			pcm = append(pcm, chunk...)
		}
		if msg.IsFinal != nil && *msg.IsFinal {
			return pcm, nil
		}
	}
}

func writeJSON(conn *websocket.Conn, payload map[string]any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, b)
}

var _ speech.Synthesizer = (*Synthesizer)(nil)
