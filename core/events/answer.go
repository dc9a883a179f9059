package events

const (
	// KindAnswerReady identifies a produced answer.
	KindAnswerReady Kind = "answer.ready"
	// KindAnswerFailed identifies a failed answer fetch.
	KindAnswerFailed Kind = "answer.failed"
)

// AnswerReady carries the answer produced for a turn. SessionID and TurnID
// identify the turn the answer was requested for; the receiver must drop
// answers that no longer match its current turn.
type AnswerReady struct {
	Base
	SessionID string
	TurnID    string
	Answer    string
}

// NewAnswerReady creates an answer ready event.
func NewAnswerReady(sessionID, turnID, answer string) AnswerReady {
	return AnswerReady{Base: NewBase(KindAnswerReady), SessionID: sessionID, TurnID: turnID, Answer: answer}
}

// AnswerFailed carries the error of a failed answer fetch.
type AnswerFailed struct {
	Base
	SessionID string
	TurnID    string
	Err       error
}

// NewAnswerFailed creates an answer failed event.
func NewAnswerFailed(sessionID, turnID string, err error) AnswerFailed {
	return AnswerFailed{Base: NewBase(KindAnswerFailed), SessionID: sessionID, TurnID: turnID, Err: err}
}
