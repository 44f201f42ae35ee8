// Package tui provides the interactive terminal chat for the portfolio
// assistant.
package tui

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/lipgloss"

	"github.com/aayud22/ayushi.dev/internal/client"
	"github.com/aayud22/ayushi.dev/internal/models"
)

// Theme holds the color scheme for the chat display.
type Theme struct {
	User      lipgloss.Color
	Assistant lipgloss.Color
	Pending   lipgloss.Color
	Hint      lipgloss.Color
}

var defaultTheme = Theme{
	User:      lipgloss.Color("#5FAFD7"), // light blue
	Assistant: lipgloss.Color("#00D787"), // green
	Pending:   lipgloss.Color("#6C6C6C"), // dim gray
	Hint:      lipgloss.Color("#6C6C6C"),
}

func (t Theme) userStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.User).Bold(true)
}

func (t Theme) assistantStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Assistant).Bold(true)
}

func (t Theme) hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Hint).Italic(true)
}

// streamMsg carries one throttled update of the in-flight answer.
type streamMsg struct {
	content string
	done    bool
}

// Model is the bubbletea model for the chat session. One turn streams at
// a time; the input is disabled while an answer is in flight.
type Model struct {
	client     *client.Client
	transcript *models.Transcript
	input      textinput.Model
	theme      Theme

	streaming bool
	pendingID string
	cancel    context.CancelFunc
	updates   chan streamMsg

	width    int
	quitting bool
}

// New creates a chat model talking to the server behind c.
func New(c *client.Client) Model {
	input := textinput.New()
	input.Placeholder = "Ask about the portfolio..."
	input.Focus()

	return Model{
		client:     c,
		transcript: &models.Transcript{},
		input:      input,
		theme:      defaultTheme,
		width:      80,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and returns the updated model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			if m.cancel != nil {
				m.cancel()
			}
			m.quitting = true
			return m, tea.Quit

		case "esc":
			// Stop the in-flight answer; the reader settles the
			// transcript via its terminal update.
			if m.streaming && m.cancel != nil {
				m.cancel()
			}
			return m, nil

		case "enter":
			if m.streaming {
				return m, nil
			}
			question := strings.TrimSpace(m.input.Value())
			if question == "" {
				return m, nil
			}
			return m.startTurn(question)
		}

	case streamMsg:
		m.transcript.SetContent(m.pendingID, msg.content)
		if msg.done {
			m.streaming = false
			// Release the turn's context now that the stream settled.
			if m.cancel != nil {
				m.cancel()
				m.cancel = nil
			}
			return m, nil
		}
		return m, m.waitForUpdate()
	}

	if m.streaming {
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// startTurn appends the user message plus a pending assistant message and
// kicks off the stream.
func (m Model) startTurn(question string) (tea.Model, tea.Cmd) {
	m.transcript.Append(models.NewUserMessage(question))

	pending := models.NewPendingAssistantMessage()
	m.transcript.Append(pending)
	m.pendingID = pending.ID

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.streaming = true
	m.updates = make(chan streamMsg, 16)
	m.input.SetValue("")

	updates := m.updates
	go func() {
		//nolint:errcheck // failures surface through the terminal update
		_, _ = m.client.Stream(ctx, question, func(content string, done bool) {
			updates <- streamMsg{content: content, done: done}
		})
	}()

	return m, m.waitForUpdate()
}

// waitForUpdate blocks on the next stream update.
func (m Model) waitForUpdate() tea.Cmd {
	updates := m.updates
	return func() tea.Msg {
		return <-updates
	}
}

// View renders the transcript and input line.
func (m Model) View() tea.View {
	return tea.NewView(m.renderContent())
}

func (m Model) renderContent() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder
	for _, msg := range m.transcript.Messages() {
		switch msg.Role {
		case models.RoleUser:
			sb.WriteString(m.theme.userStyle().Render("You"))
			sb.WriteString(": ")
			sb.WriteString(msg.Content)
		case models.RoleAssistant:
			sb.WriteString(m.theme.assistantStyle().Render("AI"))
			sb.WriteString(": ")
			if msg.Content == "" {
				sb.WriteString(m.theme.hintStyle().Render("thinking..."))
			} else {
				sb.WriteString(msg.Content)
			}
		}
		sb.WriteString("\n\n")
	}

	sb.WriteString(m.input.View())
	sb.WriteString("\n")

	hint := "Enter to send, Ctrl+C to quit"
	if m.streaming {
		hint = "Esc to stop, Ctrl+C to quit"
	}
	sb.WriteString(m.theme.hintStyle().Render(hint))
	sb.WriteString("\n")

	return sb.String()
}

// Run starts the interactive chat program.
func Run(c *client.Client) error {
	if _, err := tea.NewProgram(New(c)).Run(); err != nil {
		return fmt.Errorf("chat UI: %w", err)
	}
	return nil
}
