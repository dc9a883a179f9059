package audio

import (
	"encoding/binary"
	"math"
)

const DefaultSampleRate = 16000

// Format is a PCM sample encoding as named by the speech services.
type Format string

const (
	FormatLinear16 Format = "linear16"
	FormatMulaw    Format = "mulaw"
	FormatALaw     Format = "alaw"
)

// BytesPerSample returns the sample width, or 0 for unknown formats.
func (f Format) BytesPerSample() int {
	switch f {
	case FormatLinear16:
		return 2
	case FormatMulaw, FormatALaw:
		return 1
	}
	return 0
}

// SilenceByte is the byte value of a silent sample.
func (f Format) SilenceByte() byte {
	switch f {
	case FormatMulaw:
		return 0xFF
	case FormatALaw:
		return 0x55
	}
	return 0
}

// EncodingInfo describes mono PCM audio exchanged between the devices and the
// speech services.
type EncodingInfo struct {
	SampleRate int
	Format     Format
}

func DefaultEncoding() EncodingInfo {
	return EncodingInfo{SampleRate: DefaultSampleRate, Format: FormatLinear16}
}

func (e EncodingInfo) IsZero() bool {
	return e.SampleRate == 0 || e.Format == ""
}

// BytesFor returns the size of the given duration of audio.
func (e EncodingInfo) BytesFor(milliseconds int) int {
	return e.SampleRate * e.Format.BytesPerSample() * milliseconds / 1000
}

// Silence returns a chunk of silent audio of the given length in
// milliseconds.
func (e EncodingInfo) Silence(milliseconds int) []byte {
	chunk := make([]byte, e.BytesFor(milliseconds))
	if silence := e.Format.SilenceByte(); silence != 0 {
		for i := range chunk {
			chunk[i] = silence
		}
	}
	return chunk
}

// ScaleLinear16 applies a volume factor to little-endian 16 bit samples in
// place. Volumes outside [0, 1] are clamped.
func ScaleLinear16(samples []byte, volume float64) {
	volume = math.Max(0, math.Min(1, volume))
	if volume == 1 {
		return
	}

	for i := 0; i+1 < len(samples); i += 2 {
		sample := int16(binary.LittleEndian.Uint16(samples[i:]))
		binary.LittleEndian.PutUint16(samples[i:], uint16(int16(float64(sample)*volume)))
	}
}
