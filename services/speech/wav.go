package speech

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	MaxFileSize     = 5 * 1024 * 1024
	SampleRateHertz = 16000
	wavHeaderLen    = 44
	pcmFormat       = 1
)

var ErrInvalidAudio = errors.New("invalid audio")

type waveHeader struct {
	RiffTag       [4]byte
	FileSize      uint32
	WaveTag       [4]byte
	FmtTag        [4]byte
	FmtSize       uint32
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	DataTag       [4]byte
	DataSize      uint32
}

func parseWaveHeader(data []byte) (*waveHeader, error) {
	if len(data) < wavHeaderLen {
		return nil, fmt.Errorf("%w: WAV header too short", ErrInvalidAudio)
	}
	var header waveHeader
	if err := binary.Read(bytes.NewReader(data[:wavHeaderLen]), binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAudio, err)
	}
	if string(header.RiffTag[:]) != "RIFF" || string(header.WaveTag[:]) != "WAVE" {
		return nil, fmt.Errorf("%w: not a RIFF/WAVE file", ErrInvalidAudio)
	}
	return &header, nil
}

// ValidateWAV checks that data is 16 kHz mono 16-bit PCM and returns the
// samples after the header.
func ValidateWAV(data []byte) ([]byte, error) {
	if len(data) > MaxFileSize {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", ErrInvalidAudio, MaxFileSize)
	}
	h, err := parseWaveHeader(data)
	if err != nil {
		return nil, err
	}
	switch {
	case h.AudioFormat != pcmFormat:
		return nil, fmt.Errorf("%w: expected PCM, got format %d", ErrInvalidAudio, h.AudioFormat)
	case h.NumChannels != 1:
		return nil, fmt.Errorf("%w: expected mono, got %d channels", ErrInvalidAudio, h.NumChannels)
	case h.SampleRate != SampleRateHertz:
		return nil, fmt.Errorf("%w: expected %d Hz, got %d", ErrInvalidAudio, SampleRateHertz, h.SampleRate)
	case h.BitsPerSample != 16:
		return nil, fmt.Errorf("%w: expected 16-bit samples, got %d", ErrInvalidAudio, h.BitsPerSample)
	}
	return data[wavHeaderLen:], nil
}
