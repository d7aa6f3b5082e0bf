package audio

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

func TestPCMToWAVHeader(t *testing.T) {
	pcm := make([]byte, 320)
	wav := PCMToWAV(pcm, 16000, 1, 2)
	if len(wav) != 44+len(pcm) {
		t.Fatalf("expected %d bytes, got %d", 44+len(pcm), len(wav))
	}
	if string(wav[:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
		t.Fatalf("missing RIFF/WAVE markers")
	}
	rate := binary.LittleEndian.Uint32(wav[24:28])
	if rate != 16000 {
		t.Fatalf("expected sample rate 16000, got %d", rate)
	}
	dataLen := binary.LittleEndian.Uint32(wav[40:44])
	if int(dataLen) != len(pcm) {
		t.Fatalf("expected data length %d, got %d", len(pcm), dataLen)
	}
}

func TestWriteSilentWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "reply.wav")
	if err := WriteSilentWAV(path, 1.5, 16000); err != nil {
		t.Fatalf("write silent wav: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	want := int64(44 + int(1.5*16000)*2)
	if info.Size() != want {
		t.Fatalf("expected %d bytes on disk, got %d", want, info.Size())
	}
}

func TestWriteSilentWAVRejectsZeroDuration(t *testing.T) {
	if err := WriteSilentWAV(filepath.Join(t.TempDir(), "x.wav"), 0, 16000); err == nil {
		t.Fatalf("expected error for zero duration")
	}
}
