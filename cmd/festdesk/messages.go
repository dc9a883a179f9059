package main

import orchestration "github.com/koscakluka/ema-festdesk/core"

// MessageAppendedMsg carries a message added to the conversation.
type MessageAppendedMsg struct {
	Message orchestration.Message
}

// StatusChangedMsg carries the controller's presence flags.
type StatusChangedMsg struct {
	Status orchestration.Status
}

// TranscriptMsg carries the live transcript while the user is speaking.
type TranscriptMsg struct {
	Text string
}

// ControllerStoppedMsg is sent when the controller loop exits.
type ControllerStoppedMsg struct {
	Err error
}

// SubmitRejectedMsg carries typed input the controller dropped after Submit
// had already accepted it.
type SubmitRejectedMsg struct {
	Text string
	Err  error
}
