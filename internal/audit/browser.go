// Package audit provides a terminal UI for inspecting the seen store.
package audit

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wnaveed5/Job-Checker/internal/store"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type entryItem struct {
	entry store.Entry
}

func (i entryItem) Title() string {
	if i.entry.URL != "" {
		return i.entry.URL
	}
	// Composite-keyed entries have no URL; show the fingerprint prefix.
	return "(no url) " + i.entry.Key[:12]
}

func (i entryItem) Description() string {
	return i.entry.CreatedAt.Local().Format("Jan 02 2006, 3:04 PM")
}

func (i entryItem) FilterValue() string { return i.entry.URL }

type browserModel struct {
	list list.Model
}

func (m browserModel) Init() tea.Cmd { return nil }

func (m browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height-1)
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m browserModel) View() string {
	return m.list.View() + "\n" + dimStyle.Render("q: quit  /: filter")
}

// RunBrowser shows the recent seen entries in an interactive list. It blocks
// until the user quits.
func RunBrowser(entries []store.Entry) error {
	items := make([]list.Item, 0, len(entries))
	for _, e := range entries {
		items = append(items, entryItem{entry: e})
	}

	delegate := list.NewDefaultDelegate()
	l := list.New(items, delegate, 0, 0)
	l.Title = fmt.Sprintf("Seen listings (%d most recent)", len(entries))
	l.Styles.Title = titleStyle
	l.SetShowStatusBar(false)

	p := tea.NewProgram(browserModel{list: l}, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("seen browser: %w", err)
	}
	return nil
}
