package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	orchestration "github.com/koscakluka/ema-festdesk/core"
	"github.com/muesli/reflow/wordwrap"
)

// conversation is the part of the controller the UI drives.
type conversation interface {
	Start()
	Stop()
	Submit(text string) error
}

// Model is the root bubbletea model. It only renders what the controller
// reports, all turn-taking decisions stay in the controller.
type Model struct {
	conversation conversation
	title        string
	voiceEnabled bool

	messages   []orchestration.Message
	status     orchestration.Status
	transcript string
	notice     string

	input  textinput.Model
	width  int
	height int
}

func newModel(conv conversation, title string, voiceEnabled bool) Model {
	input := textinput.New()
	input.Placeholder = "Ask about the fest..."
	input.CharLimit = 500
	input.Focus()

	return Model{
		conversation: conv,
		title:        title,
		voiceEnabled: voiceEnabled,
		input:        input,
		width:        80,
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-4, 10)
		return m, nil

	case MessageAppendedMsg:
		m.messages = append(m.messages, msg.Message)
		if msg.Message.Role == orchestration.MessageRoleUser {
			m.transcript = ""
		}
		return m, nil

	case StatusChangedMsg:
		m.status = msg.Status
		if !msg.Status.Listening {
			m.transcript = ""
		}
		return m, nil

	case TranscriptMsg:
		m.transcript = msg.Text
		return m, nil

	case SubmitRejectedMsg:
		m.notice = "Still working on the last question, hold on."
		if m.input.Value() == "" {
			m.input.SetValue(msg.Text)
		}
		return m, nil

	case ControllerStoppedMsg:
		if msg.Err != nil {
			m.notice = fmt.Sprintf("Assistant stopped: %v", msg.Err)
		}
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyQuit, keyEscape:
		m.conversation.Stop()
		return m, tea.Quit

	case keySubmit:
		text := m.input.Value()
		if m.submit(text) {
			m.input.Reset()
		}
		return m, nil

	case keyToggleVoice:
		if !m.voiceEnabled {
			m.notice = "Voice is not available, type your question instead."
			return m, nil
		}
		m.notice = ""
		if m.status.Active {
			m.conversation.Stop()
		} else {
			m.conversation.Start()
		}
		return m, nil

	case keyQuickOne, keyQuickTwo, keyQuickThree:
		index := map[string]int{keyQuickOne: 0, keyQuickTwo: 1, keyQuickThree: 2}[msg.String()]
		m.submit(quickQuestions[index])
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) submit(text string) bool {
	err := m.conversation.Submit(text)
	switch {
	case err == nil:
		m.notice = ""
		return true
	case errors.Is(err, orchestration.ErrEmptyUtterance):
		return false
	case errors.Is(err, orchestration.ErrTurnInProgress):
		m.notice = "Still working on the last question, hold on."
		return false
	default:
		m.notice = err.Error()
		return false
	}
}

func (m Model) View() string {
	width := max(m.width-2, 20)
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")

	for _, message := range m.messages {
		label := assistantLabelStyle.Render("JARVIS")
		if message.Role == orchestration.MessageRoleUser {
			label = userLabelStyle.Render("You")
		}
		b.WriteString(label)
		b.WriteString("\n")
		b.WriteString(wordwrap.String(message.Content, width))
		b.WriteString("\n\n")
	}

	if m.transcript != "" {
		b.WriteString(transcriptStyle.Render(wordwrap.String(m.transcript, width)))
		b.WriteString("\n\n")
	}

	b.WriteString(m.statusLine())
	b.WriteString("\n")
	if m.notice != "" {
		b.WriteString(noticeStyle.Render(m.notice))
		b.WriteString("\n")
	}
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(m.footer())

	return b.String()
}

func (m Model) statusLine() string {
	switch {
	case m.status.Listening:
		return listeningStyle.Render("● Listening...")
	case m.status.Thinking:
		return thinkingStyle.Render("● Thinking...")
	case m.status.Speaking:
		return speakingStyle.Render("● Speaking...")
	case m.status.Active:
		return idleStyle.Render("○ Voice on")
	default:
		return idleStyle.Render("○ Voice off")
	}
}

func (m Model) footer() string {
	items := []struct{ key, desc string }{
		{"enter", "ask"},
		{"f1-f3", "quick questions"},
	}
	if m.voiceEnabled {
		items = append(items, struct{ key, desc string }{"ctrl+v", "voice on/off"})
	}
	items = append(items, struct{ key, desc string }{"ctrl+c", "quit"})

	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, footerKeyStyle.Render(item.key)+" "+footerDescStyle.Render(item.desc))
	}
	return strings.Join(parts, "  ")
}
