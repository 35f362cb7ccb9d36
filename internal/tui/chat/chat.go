// Package chat is the interactive conversation TUI. It runs as an inline
// REPL: committed messages are printed to the terminal scrollback, only the
// in-flight frame (streaming partial, suggestions, input) is redrawn.
package chat

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/voyagerhq/voyager/internal/chat"
	"github.com/voyagerhq/voyager/internal/llm"
	"github.com/voyagerhq/voyager/internal/ui"
)

// ControllerEventMsg wraps a controller event for bubbletea
type ControllerEventMsg struct {
	Event chat.Event
}

// Model is the main chat TUI model
type Model struct {
	width  int
	height int

	textarea textarea.Model
	spinner  spinner.Model
	styles   *ui.Styles
	keyMap   KeyMap
	dialog   *DialogModel

	controller  *chat.Controller
	profileName string

	streaming   bool
	partial     string
	suggestions []string

	quitting bool
}

// New creates a new chat model
func New(controller *chat.Controller, profileName string) *Model {
	width := 80
	height := 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}

	s := spinner.New()
	s.Spinner = spinner.Dot

	styles := ui.DefaultStyles()
	s.Style = styles.Spinner

	ta := textarea.New()
	ta.Placeholder = "Type a message..."
	ta.Prompt = "❯ "
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetWidth(width)
	ta.SetHeight(1)
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle()
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(styles.Theme().Muted)
	ta.FocusedStyle.EndOfBuffer = lipgloss.NewStyle()
	ta.FocusedStyle.Prompt = lipgloss.NewStyle().Foreground(styles.Theme().Primary).Bold(true)
	ta.BlurredStyle = ta.FocusedStyle
	ta.Focus()

	dialog := NewDialogModel(styles)
	dialog.SetSize(width, height)

	return &Model{
		width:       width,
		height:      height,
		textarea:    ta,
		spinner:     s,
		styles:      styles,
		keyMap:      DefaultKeyMap(),
		dialog:      dialog,
		controller:  controller,
		profileName: profileName,
	}
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
	)
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textarea.SetWidth(m.width)
		m.dialog.SetSize(m.width, m.height)

		if history := m.renderHistory(); history != "" {
			return m, tea.Sequence(tea.ClearScreen, tea.Println(history))
		}
		return m, tea.ClearScreen

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case spinner.TickMsg:
		if m.streaming {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case ControllerEventMsg:
		return m.handleControllerEvent(msg.Event)
	}

	if !m.streaming {
		var cmd tea.Cmd
		m.textarea, cmd = m.textarea.Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleControllerEvent(ev chat.Event) (tea.Model, tea.Cmd) {
	switch ev.Kind {
	case chat.EventStreamDelta:
		m.partial = ev.Text
		return m, nil

	case chat.EventCommitted:
		m.partial = ""
		if ev.Message != nil {
			return m, tea.Println(ui.RenderMarkdown(ev.Message.Content, m.width) + "\n")
		}
		return m, nil

	case chat.EventAborted:
		cancelled := m.styles.Muted.Render("(cancelled)")
		out := cancelled
		if m.partial != "" {
			out = ui.RenderMarkdown(m.partial, m.width) + "\n" + cancelled
		}
		m.partial = ""
		return m, tea.Println(out + "\n")

	case chat.EventSendError:
		m.partial = ""
		return m, tea.Println(m.styles.Error.Render("Error: "+ev.Text) + "\n")

	case chat.EventSuggestions:
		m.suggestions = ev.Suggestions
		return m, nil

	case chat.EventSendDone:
		m.streaming = false
		m.textarea.Focus()
		return m, nil
	}
	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.dialog.IsOpen() {
		return m.handleDialogKey(msg)
	}

	// Quit cancels a stream first, quits when idle
	if key.Matches(msg, m.keyMap.Quit) {
		if m.streaming {
			m.controller.Abort()
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit
	}

	if key.Matches(msg, m.keyMap.Cancel) {
		if m.streaming {
			m.controller.Abort()
			return m, nil
		}
		if m.textarea.Value() != "" {
			m.textarea.SetValue("")
			m.textarea.SetHeight(1)
		}
		return m, nil
	}

	if m.streaming {
		return m, nil
	}

	if key.Matches(msg, m.keyMap.NewChat) {
		m.controller.NewConversation()
		m.suggestions = nil
		return m, tea.ClearScreen
	}

	if key.Matches(msg, m.keyMap.History) {
		items := make([]DialogItem, 0)
		for _, conv := range m.controller.Conversations() {
			items = append(items, DialogItem{
				ID:          conv.ID,
				Label:       conv.Title,
				Description: fmt.Sprintf("%d messages", len(conv.Messages)),
			})
		}
		m.dialog.Show(items, m.controller.ActiveID())
		return m, nil
	}

	if key.Matches(msg, m.keyMap.Newline) || key.Matches(msg, m.keyMap.NewlineAlt) {
		m.textarea.InsertString("\n")
		m.updateTextareaHeight()
		return m, nil
	}

	if key.Matches(msg, m.keyMap.Suggest1) {
		return m.insertSuggestion(0)
	}
	if key.Matches(msg, m.keyMap.Suggest2) {
		return m.insertSuggestion(1)
	}
	if key.Matches(msg, m.keyMap.Suggest3) {
		return m.insertSuggestion(2)
	}

	if key.Matches(msg, m.keyMap.Send) {
		content := strings.TrimSpace(m.textarea.Value())

		// Backslash continuation
		if strings.HasSuffix(content, "\\") {
			m.textarea.SetValue(strings.TrimSuffix(content, "\\") + "\n")
			m.updateTextareaHeight()
			return m, nil
		}

		if content != "" {
			return m.sendMessage(content)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	m.updateTextareaHeight()
	return m, cmd
}

func (m *Model) handleDialogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, key.NewBinding(key.WithKeys("enter"))):
		selected := m.dialog.Selected()
		m.dialog.Close()
		if selected != nil {
			m.controller.Select(selected.ID)
			m.suggestions = nil
			if history := m.renderHistory(); history != "" {
				return m, tea.Sequence(tea.ClearScreen, tea.Println(history))
			}
			return m, tea.ClearScreen
		}
		return m, nil

	case key.Matches(msg, key.NewBinding(key.WithKeys("ctrl+d"))):
		if selected := m.dialog.Selected(); selected != nil {
			id := selected.ID
			_ = m.controller.Delete(context.Background(), id)
			items := make([]DialogItem, 0)
			for _, conv := range m.controller.Conversations() {
				items = append(items, DialogItem{
					ID:          conv.ID,
					Label:       conv.Title,
					Description: fmt.Sprintf("%d messages", len(conv.Messages)),
				})
			}
			m.dialog.Show(items, m.controller.ActiveID())
		}
		return m, nil

	case key.Matches(msg, key.NewBinding(key.WithKeys("esc", "ctrl+c"))):
		m.dialog.Close()
		return m, nil

	case key.Matches(msg, key.NewBinding(key.WithKeys("up", "ctrl+p", "down", "ctrl+n"))):
		m.dialog.Update(msg)
		return m, nil

	case key.Matches(msg, key.NewBinding(key.WithKeys("backspace"))):
		query := m.dialog.Query()
		if len(query) > 0 {
			m.dialog.SetQuery(query[:len(query)-1])
		}
		return m, nil

	default:
		if len(msg.String()) == 1 {
			m.dialog.SetQuery(m.dialog.Query() + msg.String())
		}
		return m, nil
	}
}

func (m *Model) insertSuggestion(i int) (tea.Model, tea.Cmd) {
	if i >= len(m.suggestions) {
		return m, nil
	}
	m.textarea.SetValue(m.suggestions[i])
	m.updateTextareaHeight()
	return m, nil
}

func (m *Model) sendMessage(content string) (tea.Model, tea.Cmd) {
	theme := m.styles.Theme()
	userDisplay := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("❯") + " " + content

	m.textarea.SetValue("")
	m.textarea.SetHeight(1)
	m.textarea.Blur()

	m.streaming = true
	m.partial = ""
	m.suggestions = nil

	// Send blocks until the operation reaches a terminal state; events
	// arrive through the controller notify callback.
	go m.controller.Send(context.Background(), content, nil)

	return m, tea.Batch(
		tea.Println(userDisplay),
		m.spinner.Tick,
	)
}

// View renders the model (inline mode - only active frame)
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	if m.streaming {
		b.WriteString(m.renderStreamingInline())
	}

	if m.dialog.IsOpen() {
		b.WriteString(m.dialog.View())
		b.WriteString("\n")
	}

	b.WriteString(m.renderInputInline())

	title := m.terminalTitle()
	titleSeq := fmt.Sprintf("\x1b]0;%s\x07", title)

	return titleSeq + b.String()
}

func (m *Model) terminalTitle() string {
	if conv := m.controller.Active(); conv != nil {
		return "voyager - " + conv.Title
	}
	return "voyager"
}

func (m *Model) renderStreamingInline() string {
	var b strings.Builder

	if m.partial != "" {
		b.WriteString(ui.RenderMarkdown(m.partial, m.width))
		b.WriteString("\n")
	}

	b.WriteString(m.spinner.View())
	b.WriteString(" Thinking... ")
	b.WriteString(m.styles.Muted.Render("(esc to cancel)"))
	b.WriteString("\n")

	return b.String()
}

func (m *Model) renderInputInline() string {
	theme := m.styles.Theme()

	if m.streaming {
		return ""
	}

	var b strings.Builder

	separator := lipgloss.NewStyle().Foreground(theme.Muted).Render(strings.Repeat("─", m.width))
	b.WriteString(separator)

	if len(m.suggestions) > 0 {
		b.WriteString("\n")
		for i, s := range m.suggestions {
			b.WriteString(m.styles.Suggestion.Render(fmt.Sprintf("alt+%d %s", i+1, ui.Truncate(s, m.width-8))))
			b.WriteString("\n")
		}
	} else {
		b.WriteString("\n")
	}

	b.WriteString(m.textarea.View())
	b.WriteString("\n")
	b.WriteString(separator)
	b.WriteString("\n")
	b.WriteString(m.renderStatusLine())

	return b.String()
}

// renderStatusLine renders a tiny status line showing backend and session
func (m *Model) renderStatusLine() string {
	theme := m.styles.Theme()
	mutedStyle := lipgloss.NewStyle().Foreground(theme.Muted)

	parts := []string{m.controller.Backend().Name()}
	if m.profileName != "" {
		parts = append(parts, m.profileName)
	}
	if conv := m.controller.Active(); conv != nil {
		parts = append(parts, ui.Truncate(conv.Title, 40))
	}
	parts = append(parts, "ctrl+n new · ctrl+h history")

	return mutedStyle.Render(strings.Join(parts, " · "))
}

// renderHistory renders the whole active conversation for scrollback
// reprints after a clear or a conversation switch.
func (m *Model) renderHistory() string {
	conv := m.controller.Active()
	if conv == nil || len(conv.Messages) == 0 {
		return ""
	}

	theme := m.styles.Theme()
	promptStyle := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)

	var b strings.Builder
	for _, msg := range conv.Messages {
		if msg.Role == llm.RoleUser {
			b.WriteString(promptStyle.Render("❯") + " " + msg.Content)
			b.WriteString("\n")
		} else {
			b.WriteString(ui.RenderMarkdown(msg.Content, m.width))
			b.WriteString("\n\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// updateTextareaHeight adjusts textarea height based on content lines
// including wrapping
func (m *Model) updateTextareaHeight() {
	content := m.textarea.Value()
	textareaWidth := m.textarea.Width()
	if textareaWidth <= 0 {
		textareaWidth = m.width
	}

	// Account for prompt "❯ " (2 cells)
	effectiveWidth := textareaWidth - 2
	if effectiveWidth <= 0 {
		effectiveWidth = 1
	}

	visualLines := 0
	for _, line := range strings.Split(content, "\n") {
		lineLen := runewidth.StringWidth(line)
		if lineLen == 0 {
			visualLines++
		} else {
			visualLines += (lineLen + effectiveWidth - 1) / effectiveWidth
		}
	}

	if visualLines < 1 {
		visualLines = 1
	}

	maxHeight := m.height / 3
	if maxHeight < 5 {
		maxHeight = 5
	}
	if visualLines > maxHeight {
		visualLines = maxHeight
	}

	m.textarea.SetHeight(visualLines)
}
