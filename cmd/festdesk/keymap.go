package main

const (
	keyQuit        = "ctrl+c"
	keyEscape      = "esc"
	keySubmit      = "enter"
	keyToggleVoice = "ctrl+v"
	keyQuickOne    = "f1"
	keyQuickTwo    = "f2"
	keyQuickThree  = "f3"
)

var quickQuestions = []string{
	"What programs are available?",
	"When is Tech Fest?",
	"Tell me about AI Room",
}
