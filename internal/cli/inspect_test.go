package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/qtranspile/pkg/backend"
	"github.com/matzehuels/qtranspile/pkg/pipeline"
)

func demoModel(t *testing.T) StageModel {
	t.Helper()
	res, err := pipeline.New().Transpile(pipeline.DemoSource, backend.IBMDemo())
	if err != nil {
		t.Fatalf("Transpile: %v", err)
	}
	return newStageModel(res)
}

func press(m StageModel, keys ...string) (StageModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(StageModel)
	}
	return m, cmd
}

func TestStageModelNavigation(t *testing.T) {
	m := demoModel(t)
	stages := len(m.Result.Stages)
	if stages != 4 {
		t.Fatalf("stages = %d, want parse, route, cancel, merge", stages)
	}

	tests := []struct {
		name string
		keys []string
		want int
	}{
		{"start", nil, 0},
		{"right", []string{"right"}, 1},
		{"tab", []string{"tab", "tab"}, 2},
		{"clamped right", []string{"right", "right", "right", "right", "l"}, stages - 1},
		{"clamped left", []string{"left", "h"}, 0},
		{"back and forth", []string{"right", "right", "left"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := press(m, tt.keys...)
			if got.Stage != tt.want {
				t.Errorf("Stage = %d, want %d", got.Stage, tt.want)
			}
		})
	}
}

func TestStageModelScroll(t *testing.T) {
	m := demoModel(t)
	m.Height = 2

	m, _ = press(m, "down", "down", "down", "down")
	if m.Offset != 3 {
		t.Errorf("Offset = %d, want 3 (5 gates, 2 rows)", m.Offset)
	}
	m, _ = press(m, "up")
	if m.Offset != 2 {
		t.Errorf("Offset = %d after up, want 2", m.Offset)
	}
	m, _ = press(m, "right")
	if m.Offset != 0 {
		t.Errorf("switching stage should reset Offset, got %d", m.Offset)
	}
}

func TestStageModelQuit(t *testing.T) {
	m := demoModel(t)
	for _, k := range []string{"q", "esc"} {
		var msg tea.KeyMsg
		if k == "esc" {
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		} else {
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		_, cmd := m.Update(msg)
		if cmd == nil {
			t.Fatalf("%s: expected a quit command", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s: command did not quit", k)
		}
	}
}

func TestStageModelWindowSize(t *testing.T) {
	m := demoModel(t)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 10})
	if got := next.(StageModel).Height; got != 5 {
		t.Errorf("Height = %d, want minimum 5", got)
	}
}

func TestStageModelView(t *testing.T) {
	m := demoModel(t)
	m, _ = press(m, "right", "right", "right")

	view := m.View()
	for _, want := range []string{"ibm_demo", "merge", "rz(3.1416) q[2]", "depth 4", "stage 4/4"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q:\n%s", want, view)
		}
	}

	empty := newStageModel(&pipeline.Result{Backend: "line_1"})
	if !strings.Contains(empty.View(), "no stages recorded") {
		t.Error("empty result should say so")
	}
}
