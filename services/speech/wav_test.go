package speech

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

func makeWAV(t *testing.T, sampleRate uint32, channels, bits uint16, samples int) []byte {
	t.Helper()
	dataSize := uint32(samples) * uint32(channels) * uint32(bits/8)
	h := waveHeader{
		FileSize:      36 + dataSize,
		FmtSize:       16,
		AudioFormat:   pcmFormat,
		NumChannels:   channels,
		SampleRate:    sampleRate,
		ByteRate:      sampleRate * uint32(channels) * uint32(bits/8),
		BlockAlign:    channels * bits / 8,
		BitsPerSample: bits,
		DataSize:      dataSize,
	}
	copy(h.RiffTag[:], "RIFF")
	copy(h.WaveTag[:], "WAVE")
	copy(h.FmtTag[:], "fmt ")
	copy(h.DataTag[:], "data")

	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, h); err != nil {
		t.Fatalf("failed to write header: %v", err)
	}
	buf.Write(make([]byte, dataSize))
	return buf.Bytes()
}

func TestValidateWAVAcceptsMono16k(t *testing.T) {
	wav := makeWAV(t, 16000, 1, 16, 100)
	pcm, err := ValidateWAV(wav)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pcm) != 200 {
		t.Fatalf("expected 200 bytes of samples, got %d", len(pcm))
	}
}

func TestValidateWAVRejects(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"short", []byte("RIFF")},
		{"stereo", makeWAV(t, 16000, 2, 16, 10)},
		{"44.1 kHz", makeWAV(t, 44100, 1, 16, 10)},
		{"8-bit", makeWAV(t, 16000, 1, 8, 10)},
		{"not riff", append([]byte("RIFX"), makeWAV(t, 16000, 1, 16, 10)[4:]...)},
		{"too large", makeWAV(t, 16000, 1, 16, MaxFileSize/2)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ValidateWAV(tc.data); !errors.Is(err, ErrInvalidAudio) {
				t.Fatalf("expected ErrInvalidAudio, got %v", err)
			}
		})
	}
}
