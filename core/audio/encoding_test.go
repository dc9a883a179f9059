package audio

import (
	"encoding/binary"
	"testing"
)

func TestEncodingSilence(t *testing.T) {
	linear := DefaultEncoding().Silence(50)
	if len(linear) != 1600 {
		t.Fatalf("expected 1600 bytes for 50ms of 16kHz linear16, got %d", len(linear))
	}
	for _, b := range linear {
		if b != 0 {
			t.Fatalf("expected zeroed linear16 silence")
		}
	}

	mulaw := EncodingInfo{SampleRate: 8000, Format: FormatMulaw}.Silence(10)
	if len(mulaw) != 80 || mulaw[0] != 0xFF {
		t.Fatalf("unexpected mulaw silence %d bytes, first %x", len(mulaw), mulaw[0])
	}
}

func TestScaleLinear16(t *testing.T) {
	samples := make([]byte, 4)
	binary.LittleEndian.PutUint16(samples[0:], uint16(int16(1000)))
	minusOneThousand := int16(-1000)
	binary.LittleEndian.PutUint16(samples[2:], uint16(minusOneThousand))

	ScaleLinear16(samples, 0.5)

	if got := int16(binary.LittleEndian.Uint16(samples[0:])); got != 500 {
		t.Fatalf("expected 500, got %d", got)
	}
	if got := int16(binary.LittleEndian.Uint16(samples[2:])); got != -500 {
		t.Fatalf("expected -500, got %d", got)
	}

	ScaleLinear16(samples, 3)
	if got := int16(binary.LittleEndian.Uint16(samples[0:])); got != 500 {
		t.Fatalf("expected clamped volume to leave samples untouched, got %d", got)
	}
}
