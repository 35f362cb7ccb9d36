package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/voyagerhq/voyager/internal/ui"
)

// DialogItem represents a conversation entry in the history picker
type DialogItem struct {
	ID          string
	Label       string
	Description string
	Selected    bool
}

// dialogSource implements fuzzy.Source over dialog labels
type dialogSource []DialogItem

func (s dialogSource) String(i int) string { return s[i].Label }
func (s dialogSource) Len() int            { return len(s) }

// DialogModel is the conversation history picker. Type to filter, enter to
// open, ctrl+d to delete.
type DialogModel struct {
	open     bool
	items    []DialogItem
	filtered []DialogItem
	cursor   int
	query    string
	width    int
	height   int
	styles   *ui.Styles
}

func NewDialogModel(styles *ui.Styles) *DialogModel {
	return &DialogModel{styles: styles}
}

func (d *DialogModel) SetSize(width, height int) {
	d.width = width
	d.height = height
}

func (d *DialogModel) IsOpen() bool {
	return d.open
}

func (d *DialogModel) Close() {
	d.open = false
	d.items = nil
	d.filtered = nil
	d.query = ""
	d.cursor = 0
}

// Show opens the picker. items carry ID=conversation id, Label=title.
func (d *DialogModel) Show(items []DialogItem, currentID string) {
	d.open = true
	d.cursor = 0
	d.query = ""
	d.items = nil
	d.filtered = nil

	for _, item := range items {
		item.Selected = item.ID == currentID
		d.items = append(d.items, item)
		if item.Selected {
			d.cursor = len(d.items) - 1
		}
	}
	d.filtered = d.items
}

// Selected returns the item under the cursor, or nil
func (d *DialogModel) Selected() *DialogItem {
	if d.cursor < 0 || d.cursor >= len(d.filtered) {
		return nil
	}
	return &d.filtered[d.cursor]
}

func (d *DialogModel) Query() string {
	return d.query
}

// SetQuery updates the filter query and re-filters items
func (d *DialogModel) SetQuery(query string) {
	d.query = query
	d.cursor = 0

	if query == "" {
		d.filtered = d.items
		return
	}

	matches := fuzzy.FindFrom(query, dialogSource(d.items))
	d.filtered = nil
	for _, m := range matches {
		d.filtered = append(d.filtered, d.items[m.Index])
	}
}

// Update handles navigation keys
func (d *DialogModel) Update(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, key.NewBinding(key.WithKeys("up", "ctrl+p"))):
		if d.cursor > 0 {
			d.cursor--
		}
	case key.Matches(msg, key.NewBinding(key.WithKeys("down", "ctrl+n"))):
		if d.cursor < len(d.filtered)-1 {
			d.cursor++
		}
	}
}

// View renders the picker
func (d *DialogModel) View() string {
	if !d.open {
		return ""
	}

	theme := d.styles.Theme()
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.Secondary)
	b.WriteString(titleStyle.Render("Conversations"))
	if d.query != "" {
		b.WriteString(d.styles.Muted.Render("  filter: " + d.query))
	}
	b.WriteString("\n")

	if len(d.filtered) == 0 {
		b.WriteString(d.styles.Muted.Render("  no matches"))
		b.WriteString("\n")
	}

	maxRows := d.height / 2
	if maxRows < 5 {
		maxRows = 5
	}
	for i, item := range d.filtered {
		if i >= maxRows {
			b.WriteString(d.styles.Muted.Render("  …"))
			b.WriteString("\n")
			break
		}
		label := ui.Truncate(item.Label, d.width-6)
		switch {
		case i == d.cursor:
			b.WriteString(d.styles.Highlighted.Render("❯ " + label))
		case item.Selected:
			b.WriteString(d.styles.Success.Render("  " + label))
		default:
			b.WriteString("  " + label)
		}
		if item.Description != "" && i == d.cursor {
			b.WriteString(d.styles.Muted.Render("  " + item.Description))
		}
		b.WriteString("\n")
	}

	b.WriteString(d.styles.Footer.Render("enter open · ctrl+d delete · esc close"))
	return b.String()
}
