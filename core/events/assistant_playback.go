package events

const (
	// KindAssistantPlaybackStarted identifies a speech job becoming audible.
	KindAssistantPlaybackStarted Kind = "assistant_playback.started"
	// KindAssistantPlaybackEnded identifies natural completion of a speech job.
	KindAssistantPlaybackEnded Kind = "assistant_playback.ended"
	// KindAssistantPlaybackFailed identifies a playback error.
	KindAssistantPlaybackFailed Kind = "assistant_playback.failed"
)

// AssistantPlaybackStarted marks the start of a speech job.
type AssistantPlaybackStarted struct {
	Base
	JobID string
}

// NewAssistantPlaybackStarted creates a playback started event.
func NewAssistantPlaybackStarted(jobID string) AssistantPlaybackStarted {
	return AssistantPlaybackStarted{Base: NewBase(KindAssistantPlaybackStarted), JobID: jobID}
}

// AssistantPlaybackEnded marks the natural end of a speech job.
type AssistantPlaybackEnded struct {
	Base
	JobID string
}

// NewAssistantPlaybackEnded creates a playback ended event.
func NewAssistantPlaybackEnded(jobID string) AssistantPlaybackEnded {
	return AssistantPlaybackEnded{Base: NewBase(KindAssistantPlaybackEnded), JobID: jobID}
}

// AssistantPlaybackFailed marks a speech job that could not be played.
type AssistantPlaybackFailed struct {
	Base
	JobID string
	Err   error
}

// NewAssistantPlaybackFailed creates a playback failed event.
func NewAssistantPlaybackFailed(jobID string, err error) AssistantPlaybackFailed {
	return AssistantPlaybackFailed{Base: NewBase(KindAssistantPlaybackFailed), JobID: jobID, Err: err}
}
