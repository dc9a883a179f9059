package orchestration

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyUtterance = errors.New("utterance is empty")
	ErrTurnInProgress = errors.New("a turn is already in progress")
	errEmptyAnswer    = errors.New("answer service returned no answer")
)

const (
	errorMessagePrefix  = "⚠️ Error: "
	spokenErrorFallback = "Sorry, I encountered an error. Please try again."
)

// SpeechPlaybackError wraps a failure reported by the playback device. It is
// never fatal to the conversation.
type SpeechPlaybackError struct {
	JobID string
	Err   error
}

func (e *SpeechPlaybackError) Error() string {
	return fmt.Sprintf("speech playback %s failed: %v", e.JobID, e.Err)
}

func (e *SpeechPlaybackError) Unwrap() error {
	return e.Err
}
