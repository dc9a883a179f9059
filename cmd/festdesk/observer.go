package main

import (
	tea "github.com/charmbracelet/bubbletea"
	orchestration "github.com/koscakluka/ema-festdesk/core"
)

// programObserver forwards controller updates into the bubbletea program.
type programObserver struct {
	program *tea.Program
}

func (o *programObserver) OnMessage(message orchestration.Message) {
	o.program.Send(MessageAppendedMsg{Message: message})
}

func (o *programObserver) OnStatus(status orchestration.Status) {
	o.program.Send(StatusChangedMsg{Status: status})
}

func (o *programObserver) OnTranscript(transcript string) {
	o.program.Send(TranscriptMsg{Text: transcript})
}

func (o *programObserver) OnSubmitRejected(text string, err error) {
	o.program.Send(SubmitRejectedMsg{Text: text, Err: err})
}
