package orchestration

type TurnState string

const (
	TurnStateIdle       TurnState = "idle"
	TurnStateListening  TurnState = "listening"
	TurnStateFinalizing TurnState = "finalizing"
	TurnStateSpeaking   TurnState = "speaking"
	TurnStateStopped    TurnState = "stopped"
)

// ConversationSession is the controller's single owned piece of conversation
// state. It is only touched from the controller loop.
type ConversationSession struct {
	// ID changes on every start, results tagged with an older ID are stale.
	ID     string
	Active bool

	CurrentState         TurnState
	PendingUtteranceText string

	// TurnID identifies the answer fetch currently in flight, if any.
	TurnID     string
	TurnSource UtteranceSource
}

func (s *ConversationSession) inProgress() bool {
	return s.CurrentState == TurnStateFinalizing || s.CurrentState == TurnStateSpeaking
}

type UtteranceSource string

const (
	UtteranceSourceVoice UtteranceSource = "voice"
	UtteranceSourceTyped UtteranceSource = "typed"
)

// Utterance is a finalized user input, consumed once by the answer fetch.
type Utterance struct {
	Text   string
	Source UtteranceSource
}

type MessageRole string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

type Message struct {
	Role    MessageRole
	Content string
}

// Status is the presence information displayed by the UI. At most one of
// Listening, Thinking and Speaking is set.
type Status struct {
	State     TurnState
	Active    bool
	Listening bool
	Thinking  bool
	Speaking  bool
}

// statusFor derives the presence flags. Listening follows the capture device
// rather than the state, which stays Listening through the settle delay and
// while capture is still being opened.
func statusFor(session ConversationSession, capturing bool) Status {
	return Status{
		State:     session.CurrentState,
		Active:    session.Active,
		Listening: capturing,
		Thinking:  session.CurrentState == TurnStateFinalizing,
		Speaking:  session.CurrentState == TurnStateSpeaking,
	}
}
