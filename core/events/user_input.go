package events

const (
	// KindUserTranscriptUpdated identifies a mutable live transcript snapshot.
	KindUserTranscriptUpdated Kind = "user_input.transcript_updated"
	// KindUserTextSubmitted identifies a typed entry submission.
	KindUserTextSubmitted Kind = "user_input.text_submitted"
)

// UserTranscriptUpdated carries the full live transcript as currently heard.
type UserTranscriptUpdated struct {
	Base
	Transcript string
}

// NewUserTranscriptUpdated creates a live transcript update event.
func NewUserTranscriptUpdated(transcript string) UserTranscriptUpdated {
	return UserTranscriptUpdated{Base: NewBase(KindUserTranscriptUpdated), Transcript: transcript}
}

// UserTextSubmitted carries typed input as entered by the user.
type UserTextSubmitted struct {
	Base
	Text string
}

// NewUserTextSubmitted creates a typed submission event.
func NewUserTextSubmitted(text string) UserTextSubmitted {
	return UserTextSubmitted{Base: NewBase(KindUserTextSubmitted), Text: text}
}
