package tui

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"

	"github.com/firefly-engineering/wolfi-dev/internal/sandbox"
)

// dayHeader separates sandboxes created on different days. It cannot be
// selected and never matches a filter.
type dayHeader string

func (dayHeader) FilterValue() string { return "" }
func (h dayHeader) Title() string     { return string(h) }
func (dayHeader) Description() string { return "" }

var dayHeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("241")).
	PaddingLeft(2)

// dayLabel names the calendar day of t as seen from now.
func dayLabel(t, now time.Time) string {
	midnight := func(x time.Time) time.Time {
		y, m, d := x.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}

	days := int(midnight(now).Sub(midnight(t)).Hours() / 24)
	switch {
	case days <= 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	}
	return t.Format("2006-01-02")
}

// groupByDay turns a newest-first sandbox list into list items with a
// dayHeader in front of each run of same-day sandboxes.
func groupByDay(sandboxes []sandbox.Info, now time.Time) []list.Item {
	items := make([]list.Item, 0, len(sandboxes)+4)
	var last dayHeader
	for _, sb := range sandboxes {
		if h := dayHeader(dayLabel(sb.CreatedAt, now)); h != last {
			items = append(items, h)
			last = h
		}
		items = append(items, sandboxItem{info: sb, age: FormatAge(sb.Age(now))})
	}
	return items
}

// countSandboxes returns how many items are sandboxes rather than headers.
func countSandboxes(items []list.Item) int {
	n := 0
	for _, it := range items {
		if _, ok := it.(sandboxItem); ok {
			n++
		}
	}
	return n
}

// dayDelegate draws headers itself and leaves sandboxes to the default
// two-line delegate.
type dayDelegate struct {
	list.DefaultDelegate
}

func newDayDelegate() dayDelegate {
	d := list.NewDefaultDelegate()
	d.Styles.SelectedTitle = selectedStyle
	d.Styles.SelectedDesc = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	return dayDelegate{DefaultDelegate: d}
}

func (d dayDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	if h, ok := item.(dayHeader); ok {
		fmt.Fprint(w, dayHeaderStyle.Render(string(h)))
		return
	}
	d.DefaultDelegate.Render(w, m, index, item)
}

// settle moves the cursor off a header, first in the direction of travel
// (step is +1 or -1) and then the other way.
func settle(l *list.Model, step int) {
	items := l.Items()
	i := l.Index()
	if i < 0 || i >= len(items) {
		return
	}
	if _, ok := items[i].(dayHeader); !ok {
		return
	}

	for _, dir := range []int{step, -step} {
		for j := i + dir; j >= 0 && j < len(items); j += dir {
			if _, ok := items[j].(sandboxItem); ok {
				l.Select(j)
				return
			}
		}
	}
}
