package cli

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/inovacc/relic/internal/model"
)

var docStyle = lipgloss.NewStyle().Margin(1, 2)

type recordItem struct {
	record model.RepositoryRecord
}

func (i recordItem) Title() string {
	return fmt.Sprintf("%s  ★ %d", i.record.FullName, i.record.Stars)
}

func (i recordItem) Description() string {
	desc := ""
	if i.record.Language != nil {
		desc = *i.record.Language
	}

	if i.record.PushedAt != nil {
		if desc != "" {
			desc += " | "
		}
		desc += "last push " + i.record.PushedAt.Format("2006-01-02")
	}

	if i.record.Description != nil && *i.record.Description != "" {
		if desc != "" {
			desc += " | "
		}
		desc += *i.record.Description
	}

	return desc
}

func (i recordItem) FilterValue() string {
	return i.record.FullName
}

// BrowseModel is an interactive picker over collected repositories.
type BrowseModel struct {
	list     list.Model
	selected *model.RepositoryRecord
	quitting bool
}

// NewBrowse builds a browse model over the given records.
func NewBrowse(title string, records []model.RepositoryRecord) BrowseModel {
	items := make([]list.Item, len(records))
	for i, rec := range records {
		items[i] = recordItem{record: rec}
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)

	return BrowseModel{list: l}
}

func (m BrowseModel) Init() tea.Cmd {
	return nil
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v)

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.quitting = true

			return m, tea.Quit

		case "enter":
			if i, ok := m.list.SelectedItem().(recordItem); ok {
				m.selected = &i.record
			}

			return m, tea.Quit
		}
	}

	var cmd tea.Cmd

	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m BrowseModel) View() string {
	if m.quitting {
		return ""
	}

	return docStyle.Render(m.list.View())
}

// Selected returns the record picked with enter, or nil.
func (m BrowseModel) Selected() *model.RepositoryRecord {
	return m.selected
}

// Browse runs the picker and returns the chosen record, or nil if the user
// quit without choosing.
func Browse(title string, records []model.RepositoryRecord) (*model.RepositoryRecord, error) {
	final, err := tea.NewProgram(NewBrowse(title, records), tea.WithAltScreen()).Run()
	if err != nil {
		return nil, err
	}

	m, ok := final.(BrowseModel)
	if !ok {
		return nil, nil
	}

	return m.Selected(), nil
}
