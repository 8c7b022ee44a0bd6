package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ledgegame/ledge/internal/level"
	"github.com/ledgegame/ledge/internal/storage"
)

// PickerModel is the Bubble Tea model for the level picker.
type PickerModel struct {
	source    *level.FileSource
	store     *storage.Store
	items     []string
	runCounts map[string]int
	cursor    int
	width     int
	height    int
	status    string
	keyMapper *KeyMapper
	selected  string
	wantsRuns bool
	quitting  bool
	listErr   error
}

// NewPickerModel creates a picker over the levels the source can see.
// status is an optional line shown under the list, used for "last run"
// summaries when the player comes back from a session.
func NewPickerModel(source *level.FileSource, store *storage.Store, width, height int, status string) PickerModel {
	m := PickerModel{
		source:    source,
		store:     store,
		width:     width,
		height:    height,
		status:    status,
		keyMapper: NewKeyMapper(),
		runCounts: map[string]int{},
	}

	items, err := source.List()
	if err != nil {
		m.listErr = err
		return m
	}
	m.items = items

	if store != nil {
		for _, it := range items {
			if stats, statErr := store.GetLevelStats(it); statErr == nil {
				m.runCounts[it] = stats.RunsCount
			}
		}
	}

	return m
}

// Init initializes the picker model.
func (m PickerModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the picker.
func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for picker navigation.
func (m PickerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionSelect:
		if len(m.items) > 0 {
			m.selected = m.items[m.cursor]
			return m, tea.Quit // Exit picker to start the session
		}

	case MenuActionRuns:
		m.wantsRuns = true
		return m, tea.Quit // Exit picker to show run history
	}

	return m, nil
}

// View renders the picker.
func (m PickerModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	title := "  L E D G E  "
	b.WriteString("\n")
	b.WriteString(centerText(title, m.width))
	b.WriteString("\n\n")

	b.WriteString(centerText("Select a level", m.width))
	b.WriteString("\n\n")

	if m.listErr != nil {
		b.WriteString(centerText(fmt.Sprintf("cannot list levels: %v", m.listErr), m.width))
		b.WriteString("\n")
	} else if len(m.items) == 0 {
		b.WriteString(centerText("no levels found", m.width))
		b.WriteString("\n")
	}

	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		runsStr := ""
		if n := m.runCounts[item]; n > 0 {
			runsStr = fmt.Sprintf("  (%d runs)", n)
		}

		b.WriteString(centerText(cursor+item+runsStr, m.width))
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(centerText(m.status, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Play  |  Tab: Runs  |  Q: Quit"
	b.WriteString(centerText(controls, m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the chosen level path, or "" if none was chosen.
func (m PickerModel) Selected() string {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m PickerModel) IsQuitting() bool {
	return m.quitting
}

// WantsRuns returns true if user requested the run history browser.
func (m PickerModel) WantsRuns() bool {
	return m.wantsRuns
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	if len(text) >= width {
		return text
	}
	padding := (width - len(text)) / 2
	return strings.Repeat(" ", padding) + text
}

// PickerResult holds the result of running the picker.
type PickerResult struct {
	Level     string
	WantsRuns bool
	Quit      bool
}

// RunPicker runs the level picker and returns the selection result.
func RunPicker(source *level.FileSource, store *storage.Store, width, height int, status string) (PickerResult, error) {
	model := NewPickerModel(source, store, width, height, status)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return PickerResult{}, err
	}

	m, ok := finalModel.(PickerModel)
	if !ok {
		return PickerResult{Quit: true}, nil
	}

	result := PickerResult{}
	switch {
	case m.WantsRuns():
		result.WantsRuns = true
	case m.Selected() != "":
		result.Level = m.Selected()
	default:
		result.Quit = true
	}

	return result, nil
}
