package orchestration

import (
	"strings"
	"time"
)

const defaultSilenceDuration = 2000 * time.Millisecond

// SilenceDetector debounces a growing transcript. It is plain state checked
// by the controller's scheduler tick, there are no timers of its own.
//
// The remembered text and the armed deadline are only ever cleared together
// by Reset.
type SilenceDetector struct {
	quiet time.Duration

	lastText      string
	armedDeadline time.Time
	fired         bool
}

func NewSilenceDetector(quiet time.Duration) *SilenceDetector {
	if quiet <= 0 {
		quiet = defaultSilenceDuration
	}
	return &SilenceDetector{quiet: quiet}
}

// Observe records the transcript as seen at now. Any change re-arms the
// quiet period.
func (d *SilenceDetector) Observe(text string, now time.Time) {
	if d.fired || text == d.lastText {
		return
	}

	d.lastText = text
	d.armedDeadline = now.Add(d.quiet)
}

// Poll returns the trimmed transcript once the quiet period elapsed. It fires
// at most once until Reset.
func (d *SilenceDetector) Poll(now time.Time) (string, bool) {
	if d.fired || d.armedDeadline.IsZero() || now.Before(d.armedDeadline) {
		return "", false
	}

	d.armedDeadline = time.Time{}
	text := strings.TrimSpace(d.lastText)
	if text == "" {
		return "", false
	}

	d.fired = true
	return text, true
}

func (d *SilenceDetector) Armed() bool {
	return !d.armedDeadline.IsZero()
}

func (d *SilenceDetector) Reset() {
	d.lastText = ""
	d.armedDeadline = time.Time{}
	d.fired = false
}
