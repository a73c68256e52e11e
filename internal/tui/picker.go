// Package tui provides terminal user interface components for forage-dev
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Action represents the action to take after picker selection
type Action int

const (
	ActionNone Action = iota
	ActionSelect
	ActionQuit
)

// Item is a choice offered by the picker
type Item struct {
	ID   string
	Info string
}

// PickerResult holds the result of the picker
type PickerResult struct {
	Action Action
	ID     string
}

// pickerItem implements list.Item
type pickerItem struct {
	item Item
}

func (i pickerItem) Title() string {
	return i.item.ID
}

func (i pickerItem) Description() string {
	return truncate(i.item.Info, 60)
}

func (i pickerItem) FilterValue() string {
	return i.item.ID
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return "..." + s[len(s)-maxLen+3:]
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			MarginBottom(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)
)

// Model is the bubbletea model for the picker
type Model struct {
	list     list.Model
	result   PickerResult
	quitting bool
	width    int
	height   int
}

// NewPicker creates a new picker over items
func NewPicker(title string, items []Item) Model {
	listItems := make([]list.Item, len(items))
	for i, it := range items {
		listItems[i] = pickerItem{item: it}
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = selectedStyle
	delegate.Styles.SelectedDesc = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	l := list.New(listItems, delegate, 80, 20)
	l.Title = title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle

	return Model{list: l}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-4)
		return m, nil

	case tea.KeyMsg:
		// Don't handle keys if filtering
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "enter":
			if item, ok := m.list.SelectedItem().(pickerItem); ok {
				m.result = PickerResult{Action: ActionSelect, ID: item.item.ID}
				m.quitting = true
				return m, tea.Quit
			}

		case "q", "esc", "ctrl+c":
			m.result = PickerResult{Action: ActionQuit}
			m.quitting = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	help := helpStyle.Render("[enter] Select  [/] Filter  [q] Quit")

	return m.list.View() + "\n" + help
}

// Result returns the picker result
func (m Model) Result() PickerResult {
	return m.result
}

// RunPicker runs the interactive picker. With no items it returns ActionNone
// without drawing anything.
func RunPicker(title string, items []Item) (PickerResult, error) {
	if len(items) == 0 {
		return PickerResult{Action: ActionNone}, nil
	}

	m := NewPicker(title, items)
	p := tea.NewProgram(m, tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return PickerResult{}, err
	}

	return finalModel.(Model).Result(), nil
}

// SimpleList renders items as a numbered plain-text list for non-interactive
// terminals.
func SimpleList(title string, items []Item) string {
	var sb strings.Builder

	sb.WriteString(title + "\n")
	sb.WriteString(strings.Repeat("─", 60) + "\n\n")

	if len(items) == 0 {
		sb.WriteString("Nothing to choose from.\n")
		return sb.String()
	}

	for i, it := range items {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, it.ID))
		if it.Info != "" {
			sb.WriteString(fmt.Sprintf("   %s\n", truncate(it.Info, 60)))
		}
	}

	return sb.String()
}
