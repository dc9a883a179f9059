package events

const (
	// KindConversationStartRequested identifies a request to start voice mode.
	KindConversationStartRequested Kind = "conversation.start_requested"
	// KindConversationStopRequested identifies a request to stop voice mode.
	KindConversationStopRequested Kind = "conversation.stop_requested"
)

// ConversationStartRequested asks the controller to start listening.
type ConversationStartRequested struct{ Base }

// NewConversationStartRequested creates a conversation start event.
func NewConversationStartRequested() ConversationStartRequested {
	return ConversationStartRequested{Base: NewBase(KindConversationStartRequested)}
}

// ConversationStopRequested asks the controller to stop everything.
type ConversationStopRequested struct{ Base }

// NewConversationStopRequested creates a conversation stop event.
func NewConversationStopRequested() ConversationStopRequested {
	return ConversationStopRequested{Base: NewBase(KindConversationStopRequested)}
}
