package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
)

// PCMToWAV wraps raw PCM data in a WAV container.
func PCMToWAV(pcm []byte, sampleRate, channels, bytesPerSample int) []byte {
	dataLen := len(pcm)
	fileLen := 36 + dataLen // 44-byte header minus 8 bytes for RIFF header

	buf := &bytes.Buffer{}
	buf.Grow(44 + dataLen)

	buf.WriteString("RIFF")
	_ = binary.Write(buf, binary.LittleEndian, uint32(fileLen))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	_ = binary.Write(buf, binary.LittleEndian, uint32(16)) // subchunk1 size
	_ = binary.Write(buf, binary.LittleEndian, uint16(1))  // PCM format
	_ = binary.Write(buf, binary.LittleEndian, uint16(channels))
	_ = binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	byteRate := sampleRate * channels * bytesPerSample
	_ = binary.Write(buf, binary.LittleEndian, uint32(byteRate))
	blockAlign := channels * bytesPerSample
	_ = binary.Write(buf, binary.LittleEndian, uint16(blockAlign))
	_ = binary.Write(buf, binary.LittleEndian, uint16(bytesPerSample*8))

	buf.WriteString("data")
	_ = binary.Write(buf, binary.LittleEndian, uint32(dataLen))
	buf.Write(pcm)

	return buf.Bytes()
}

// WritePCMAsWAV writes raw PCM to path wrapped in a WAV container, creating
// the parent directory when needed.
func WritePCMAsWAV(path string, pcm []byte, sampleRate, channels, bytesPerSample int) error {
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	return os.WriteFile(path, PCMToWAV(pcm, sampleRate, channels, bytesPerSample), 0o644)
}

// WriteSilentWAV creates a small silent mono 16-bit WAV so a playable file
// always exists, even with placeholder synthesis.
func WriteSilentWAV(path string, seconds float64, sampleRate int) error {
	if seconds <= 0 {
		return fmt.Errorf("silent wav duration must be positive, got %v", seconds)
	}
	if sampleRate <= 0 {
		sampleRate = 16000
	}
	pcm := make([]byte, int(seconds*float64(sampleRate))*2)
	return WritePCMAsWAV(path, pcm, sampleRate, 1, 2)
}

// EnsureDir creates dir and parents when missing. An empty dir is a no-op.
func EnsureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
