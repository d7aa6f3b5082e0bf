// Package piper implements the local synthesis tier using a Piper Wyoming
// protocol server. Piper is a fast, offline neural text-to-speech system;
// the linuxserver/piper container exposes the Wyoming protocol on TCP port
// 10200.
//
// Wyoming protocol format (per event):
//
//	<json_length> <payload_length>\n
//	<json_bytes>\n
//	<payload_bytes>   (if payload_length > 0)
package piper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	"bytes"

	"github.com/harunnryd/tani/pkg/audio"
	"github.com/harunnryd/tani/pkg/speech"
)

type Config struct {
	Endpoint string // host:port of the Piper Wyoming server
	Voice    string // Piper voice model name
	Timeout  time.Duration
}

type Synthesizer struct {
	cfg Config
	log *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Synthesizer {
	if cfg.Voice == "" {
		cfg.Voice = "en_US-lessac-medium"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	cfg.Endpoint = strings.TrimPrefix(cfg.Endpoint, "tcp://")
	return &Synthesizer{cfg: cfg, log: logger}
}

func (s *Synthesizer) Name() string { return "piper_tts" }

// Synthesize sends text to the Piper server and writes the synthesized
// audio to outPath as WAV. Connections are per-request.
func (s *Synthesizer) Synthesize(ctx context.Context, text, outPath string) error {
	if s.cfg.Endpoint == "" {
		return fmt.Errorf("no piper endpoint configured")
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("empty text for synthesis")
	}

	dialer := net.Dialer{Timeout: 10 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", s.cfg.Endpoint)
	if err != nil {
		return fmt.Errorf("connecting to piper: %w", err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	} else {
		_ = conn.SetDeadline(time.Now().Add(s.cfg.Timeout))
	}

	synthEvent := wyomingEvent{
		Type: "synthesize",
		Data: map[string]any{
			"text": text,
			"voice": map[string]any{
				"name": s.cfg.Voice,
			},
		},
	}
	if err := writeEvent(conn, synthEvent, nil); err != nil {
		return fmt.Errorf("sending synthesize event: %w", err)
	}

	// Response events: audio-start -> audio-chunk* -> audio-stop
	var (
		pcmBuf     bytes.Buffer
		sampleRate = 22050
		channels   = 1
		width      = 2
	)
	for {
		evt, payload, err := readEvent(conn)
		if err != nil {
			return fmt.Errorf("reading piper event: %w", err)
		}
		switch evt.Type {
		case "audio-start":
			if rate, ok := evt.Data["rate"].(float64); ok {
				sampleRate = int(rate)
			}
			if ch, ok := evt.Data["channels"].(float64); ok {
				channels = int(ch)
			}
			if w, ok := evt.Data["width"].(float64); ok {
				width = int(w)
			}

		case "audio-chunk":
			if len(payload) > 0 {
				pcmBuf.Write(payload)
			}

		case "audio-stop":
			s.log.Debug("piper synthesis complete",
				slog.Int("pcm_bytes", pcmBuf.Len()),
				slog.Int("rate", sampleRate))
			return audio.WritePCMAsWAV(outPath, pcmBuf.Bytes(), sampleRate, channels, width)

		case "error":
			msg := "unknown error"
			if text, ok := evt.Data["text"].(string); ok {
				msg = text
			}
			return fmt.Errorf("piper error: %s", msg)
		}
	}
}

type wyomingEvent struct {
	Type          string         `json:"type"`
	Data          map[string]any `json:"data,omitempty"`
	PayloadLength int            `json:"payload_length,omitempty"`
}

func writeEvent(w io.Writer, evt wyomingEvent, payload []byte) error {
	evt.PayloadLength = 0 // length goes in the header line, not the JSON
	jsonBytes, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshalling event: %w", err)
	}

	header := fmt.Sprintf("%d %d\n", len(jsonBytes), len(payload))
	if _, err := io.WriteString(w, header); err != nil {
		return err
	}
	if _, err := w.Write(jsonBytes); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return err
	}
	if len(payload) > 0 {
		if _, err := w.Write(payload); err != nil {
			return err
		}
	}
	return nil
}

func readEvent(r io.Reader) (*wyomingEvent, []byte, error) {
	// Header line: "<json_length> <payload_length>\n"
	headerBuf := make([]byte, 0, 64)
	oneByte := make([]byte, 1)
	for {
		if _, err := io.ReadFull(r, oneByte); err != nil {
			return nil, nil, fmt.Errorf("reading header: %w", err)
		}
		if oneByte[0] == '\n' {
			break
		}
		headerBuf = append(headerBuf, oneByte[0])
	}

	parts := strings.SplitN(string(headerBuf), " ", 2)
	if len(parts) != 2 {
		return nil, nil, fmt.Errorf("invalid wyoming header: %q", string(headerBuf))
	}
	jsonLen, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil, nil, fmt.Errorf("parsing json_length: %w", err)
	}
	payloadLen, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, nil, fmt.Errorf("parsing payload_length: %w", err)
	}

	jsonBuf := make([]byte, jsonLen+1) // +1 for the trailing \n
	if _, err := io.ReadFull(r, jsonBuf); err != nil {
		return nil, nil, fmt.Errorf("reading json: %w", err)
	}
	jsonBuf = jsonBuf[:jsonLen]

	var evt wyomingEvent
	if err := json.Unmarshal(jsonBuf, &evt); err != nil {
		return nil, nil, fmt.Errorf("unmarshalling event: %w", err)
	}

	var payload []byte
	if payloadLen > 0 {
		payload = make([]byte, payloadLen)
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, nil, fmt.Errorf("reading payload: %w", err)
		}
	}
	return &evt, payload, nil
}

var _ speech.Synthesizer = (*Synthesizer)(nil)
