package deepgram

import (
	"fmt"

	"github.com/koscakluka/ema-festdesk/core/audio"
)

// validateEncoding checks the combinations the listen endpoint accepts for
// raw audio.
func validateEncoding(encoding audio.EncodingInfo) error {
	switch encoding.SampleRate {
	case 8000, 16000, 24000, 32000, 48000:
	default:
		return fmt.Errorf("unsupported sample rate %d", encoding.SampleRate)
	}

	switch encoding.Format {
	case audio.FormatLinear16:
	case audio.FormatALaw, audio.FormatMulaw:
		if encoding.SampleRate != 8000 {
			return fmt.Errorf("%s audio must be sampled at 8000Hz", encoding.Format)
		}
	default:
		return fmt.Errorf("unsupported encoding %q", encoding.Format)
	}

	return nil
}
