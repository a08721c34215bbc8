package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/firefly-engineering/wolfi-dev/internal/sandbox"
)

// Action is what the user asked for when the picker closed.
type Action int

const (
	ActionNone Action = iota
	ActionOpen
	ActionNew
	ActionDelete
	ActionQuit
)

var actionNames = [...]string{"none", "open", "new", "delete", "quit"}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return actionNames[ActionNone]
	}
	return actionNames[a]
}

// PickerResult is the chosen action and, for open and delete, the sandbox.
type PickerResult struct {
	Action  Action
	Sandbox *sandbox.Info
}

type sandboxItem struct {
	info sandbox.Info
	age  string
}

func (i sandboxItem) Title() string       { return i.info.Name }
func (i sandboxItem) FilterValue() string { return i.info.Name }
func (i sandboxItem) Description() string {
	return i.age + " old | " + truncatePath(i.info.Path, 50)
}

// truncatePath keeps the tail of path, which holds the sandbox name.
func truncatePath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	return "..." + path[len(path)-(maxLen-3):]
}

// FormatAge renders a sandbox age at the coarsest useful unit.
func FormatAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "<1m"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d/time.Minute))
	case d < 48*time.Hour:
		return fmt.Sprintf("%dh", int(d/time.Hour))
	}
	return fmt.Sprintf("%dd", int(d/(24*time.Hour)))
}

type keyMap struct {
	Open, New, Delete, Filter, Quit key.Binding
	Up, Down                        key.Binding
}

var keys = keyMap{
	Open:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "Open")),
	New:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "New")),
	Delete: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "Delete")),
	Filter: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "Filter")),
	Quit:   key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q", "Quit")),
	Up:     key.NewBinding(key.WithKeys("up", "k")),
	Down:   key.NewBinding(key.WithKeys("down", "j")),
}

func (k keyMap) helpLine() string {
	parts := make([]string, 0, 5)
	for _, b := range []key.Binding{k.Open, k.New, k.Delete, k.Filter, k.Quit} {
		h := b.Help()
		parts = append(parts, "["+h.Key+"] "+h.Desc)
	}
	return strings.Join(parts, "  ")
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).MarginBottom(1)
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
)

// Model is the bubbletea model of the sandbox picker.
type Model struct {
	list   list.Model
	chosen PickerResult
	done   bool
	width  int
	height int
}

// NewPicker builds a picker over sandboxes, newest first. now anchors the
// age column and the day grouping.
func NewPicker(sandboxes []sandbox.Info, now time.Time) Model {
	l := list.New(groupByDay(sandboxes, now), newDayDelegate(), 80, 20)
	l.Title = "wolfi-dev - Select Sandbox"
	l.Styles.Title = titleStyle
	l.SetStatusBarItemName("sandbox", "sandboxes")
	l.SetShowHelp(false)
	settle(&l, 1)

	return Model{list: l}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = size.Width, size.Height
		m.list.SetSize(size.Width, size.Height-4)
		return m, nil
	}

	// Keys belong to the filter input while it is open.
	if k, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch {
		case key.Matches(k, keys.Open):
			return m.finish(ActionOpen, true)
		case key.Matches(k, keys.Delete):
			return m.finish(ActionDelete, true)
		case key.Matches(k, keys.New):
			return m.finish(ActionNew, false)
		case key.Matches(k, keys.Quit):
			return m.finish(ActionQuit, false)
		case key.Matches(k, keys.Up), key.Matches(k, keys.Down):
			var cmd tea.Cmd
			m.list, cmd = m.list.Update(msg)
			step := 1
			if key.Matches(k, keys.Up) {
				step = -1
			}
			settle(&m.list, step)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// finish records the action and quits. Actions that need a sandbox are
// ignored while the cursor is not on one.
func (m Model) finish(action Action, needsSandbox bool) (tea.Model, tea.Cmd) {
	res := PickerResult{Action: action}
	if needsSandbox {
		item, ok := m.list.SelectedItem().(sandboxItem)
		if !ok {
			return m, nil
		}
		info := item.info
		res.Sandbox = &info
	}
	m.chosen = res
	m.done = true
	return m, tea.Quit
}

func (m Model) View() string {
	if m.done {
		return ""
	}
	help := fmt.Sprintf("%d sandboxes  %s", countSandboxes(m.list.Items()), keys.helpLine())
	return m.list.View() + "\n" + helpStyle.Render(help)
}

// Result returns what the user chose.
func (m Model) Result() PickerResult {
	return m.chosen
}

// RunPicker shows the picker full screen. With no sandboxes there is
// nothing to pick, so it returns ActionNew straight away.
func RunPicker(sandboxes []sandbox.Info, now time.Time) (PickerResult, error) {
	if len(sandboxes) == 0 {
		return PickerResult{Action: ActionNew}, nil
	}

	final, err := tea.NewProgram(NewPicker(sandboxes, now), tea.WithAltScreen()).Run()
	if err != nil {
		return PickerResult{}, err
	}
	return final.(Model).Result(), nil
}

// SimplePicker renders the sandboxes as a numbered list for non-terminal
// output.
func SimplePicker(sandboxes []sandbox.Info, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "wolfi-dev - Sandboxes\n%s\n\n", strings.Repeat("─", 60))

	if len(sandboxes) == 0 {
		b.WriteString("No sandboxes found.\nCreate one with: wolfi-dev sandbox\n")
		return b.String()
	}

	for i, info := range sandboxes {
		fmt.Fprintf(&b, "%d. %s (%s old)\n   %s\n\n", i+1, info.Name, FormatAge(info.Age(now)), truncatePath(info.Path, 56))
	}
	return b.String()
}
