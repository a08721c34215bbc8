package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/firefly-engineering/wolfi-dev/internal/sandbox"
)

var pickerNow = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

func testInfo(name string, age time.Duration) sandbox.Info {
	return sandbox.Info{
		Name:      name,
		Path:      "/home/user/sandboxes/" + name,
		CreatedAt: pickerNow.Add(-age),
	}
}

func TestTruncatePath(t *testing.T) {
	tests := []struct {
		path   string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"/home/user/workspace", 20, "/home/user/workspace"},
		{"/home/user/very/long/path/to/workspace", 20, "...path/to/workspace"},
		{"", 10, ""},
		{"exactly10!", 10, "exactly10!"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got := truncatePath(tt.path, tt.maxLen)
			if got != tt.want {
				t.Errorf("truncatePath(%q, %d) = %q, want %q", tt.path, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestFormatAge(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{10 * time.Second, "<1m"},
		{5 * time.Minute, "5m"},
		{3 * time.Hour, "3h"},
		{47 * time.Hour, "47h"},
		{72 * time.Hour, "3d"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatAge(tt.d); got != tt.want {
				t.Errorf("FormatAge(%v) = %q, want %q", tt.d, got, tt.want)
			}
		})
	}
}

func TestSandboxItemMethods(t *testing.T) {
	item := sandboxItem{info: testInfo("wolfi-dev-20261018-100000-abcdefgh", 2*time.Hour), age: "2h"}

	if got := item.Title(); got != "wolfi-dev-20261018-100000-abcdefgh" {
		t.Errorf("Title() = %q", got)
	}
	if got := item.FilterValue(); got != item.info.Name {
		t.Errorf("FilterValue() = %q", got)
	}
	desc := item.Description()
	if !strings.Contains(desc, "2h old") {
		t.Errorf("Description() = %q, should contain age", desc)
	}
	if !strings.Contains(desc, "abcdefgh") {
		t.Errorf("Description() = %q, should contain path", desc)
	}
}

func TestModelKeyHandling(t *testing.T) {
	sandboxes := []sandbox.Info{
		testInfo("wolfi-dev-20261018-110000-aaaaaaaa", time.Hour),
		testInfo("wolfi-dev-20261017-110000-bbbbbbbb", 25*time.Hour),
	}

	t.Run("initial selection skips header", func(t *testing.T) {
		m := NewPicker(sandboxes, pickerNow)
		if _, ok := m.list.SelectedItem().(sandboxItem); !ok {
			t.Errorf("selected item = %T, want sandboxItem", m.list.SelectedItem())
		}
	})

	t.Run("open with enter", func(t *testing.T) {
		m := NewPicker(sandboxes, pickerNow)
		newModel, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		model := newModel.(Model)

		if model.chosen.Action != ActionOpen {
			t.Errorf("Action = %v, want open", model.chosen.Action)
		}
		if model.chosen.Sandbox == nil || model.chosen.Sandbox.Name != sandboxes[0].Name {
			t.Errorf("Sandbox = %+v, want %s", model.chosen.Sandbox, sandboxes[0].Name)
		}
		if cmd == nil {
			t.Error("Should return tea.Quit command")
		}
	})

	t.Run("delete with d", func(t *testing.T) {
		m := NewPicker(sandboxes, pickerNow)
		newModel, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})
		model := newModel.(Model)

		if model.chosen.Action != ActionDelete {
			t.Errorf("Action = %v, want delete", model.chosen.Action)
		}
		if model.chosen.Sandbox == nil {
			t.Fatal("Sandbox should be set")
		}
	})

	t.Run("down skips the next header", func(t *testing.T) {
		m := NewPicker(sandboxes, pickerNow)
		newModel, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
		model := newModel.(Model)

		item, ok := model.list.SelectedItem().(sandboxItem)
		if !ok {
			t.Fatalf("selected item = %T, want sandboxItem", model.list.SelectedItem())
		}
		if item.info.Name != sandboxes[1].Name {
			t.Errorf("selected = %s, want %s", item.info.Name, sandboxes[1].Name)
		}
	})

	t.Run("quit with q", func(t *testing.T) {
		m := NewPicker(sandboxes, pickerNow)
		newModel, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
		model := newModel.(Model)

		if model.chosen.Action != ActionQuit {
			t.Errorf("Action = %v, want quit", model.chosen.Action)
		}
		if !model.done {
			t.Error("Model should be quitting")
		}
		if cmd == nil {
			t.Error("Should return tea.Quit command")
		}
	})

	t.Run("quit with esc", func(t *testing.T) {
		m := NewPicker(sandboxes, pickerNow)
		newModel, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
		if newModel.(Model).chosen.Action != ActionQuit {
			t.Errorf("Action = %v, want quit", newModel.(Model).chosen.Action)
		}
	})

	t.Run("new sandbox with n", func(t *testing.T) {
		m := NewPicker(sandboxes, pickerNow)
		newModel, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
		if newModel.(Model).chosen.Action != ActionNew {
			t.Errorf("Action = %v, want new", newModel.(Model).chosen.Action)
		}
	})

	t.Run("window size update", func(t *testing.T) {
		m := NewPicker(sandboxes, pickerNow)
		newModel, cmd := m.Update(tea.WindowSizeMsg{Width: 100, Height: 50})
		model := newModel.(Model)

		if model.width != 100 || model.height != 50 {
			t.Errorf("size = %dx%d, want 100x50", model.width, model.height)
		}
		if cmd != nil {
			t.Error("Window size update should not return a command")
		}
	})
}

func TestModelView(t *testing.T) {
	sandboxes := []sandbox.Info{testInfo("wolfi-dev-20261018-110000-aaaaaaaa", time.Hour)}

	t.Run("normal view contains help", func(t *testing.T) {
		view := NewPicker(sandboxes, pickerNow).View()

		for _, want := range []string{"[enter] Open", "[n] New", "[d] Delete", "[q] Quit", "1 sandboxes"} {
			if !strings.Contains(view, want) {
				t.Errorf("View should contain %q", want)
			}
		}
	})

	t.Run("quitting view is empty", func(t *testing.T) {
		m := NewPicker(sandboxes, pickerNow)
		m.done = true
		if view := m.View(); view != "" {
			t.Errorf("Quitting view should be empty, got %q", view)
		}
	})
}

func TestModelInit(t *testing.T) {
	if cmd := (Model{}).Init(); cmd != nil {
		t.Error("Init() should return nil")
	}
}

func TestRunPickerEmptySandboxes(t *testing.T) {
	result, err := RunPicker(nil, pickerNow)
	if err != nil {
		t.Fatalf("RunPicker with empty sandboxes failed: %v", err)
	}
	if result.Action != ActionNew {
		t.Errorf("Empty sandboxes should return ActionNew, got %v", result.Action)
	}
}

func TestSimplePicker(t *testing.T) {
	t.Run("empty sandboxes", func(t *testing.T) {
		output := SimplePicker(nil, pickerNow)

		if !strings.Contains(output, "No sandboxes found") {
			t.Error("Should indicate no sandboxes found")
		}
		if !strings.Contains(output, "wolfi-dev sandbox") {
			t.Error("Should show how to create sandbox")
		}
	})

	t.Run("with sandboxes", func(t *testing.T) {
		output := SimplePicker([]sandbox.Info{
			testInfo("wolfi-dev-20261018-110000-aaaaaaaa", time.Hour),
			testInfo("wolfi-dev-20261015-110000-bbbbbbbb", 73*time.Hour),
		}, pickerNow)

		for _, want := range []string{"1. wolfi-dev-20261018-110000-aaaaaaaa (1h old)", "2. wolfi-dev-20261015-110000-bbbbbbbb (3d old)", "/home/user/sandboxes/"} {
			if !strings.Contains(output, want) {
				t.Errorf("output missing %q:\n%s", want, output)
			}
		}
	})
}

func TestActionStrings(t *testing.T) {
	actions := []Action{ActionNone, ActionOpen, ActionNew, ActionDelete, ActionQuit}
	seen := make(map[string]bool)

	for _, a := range actions {
		s := a.String()
		if seen[s] {
			t.Errorf("Duplicate action string: %q", s)
		}
		seen[s] = true
	}
}
