package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/a9s/pkg/annotator"
	"github.com/matzehuels/a9s/pkg/geom"
	"github.com/matzehuels/a9s/pkg/render/term"
	"github.com/matzehuels/a9s/pkg/selector"
)

func newTestDrawModel(t *testing.T) *drawModel {
	t.Helper()
	img := selector.ImageContext{Width: 80, Height: 40, Unit: selector.UnitPixel}
	m := newDrawModel("photo.jpg", img, term.NewCanvas(1, 1, geom.Identity))
	t.Cleanup(m.ann.Destroy)
	// 81x24 terminal: 22 canvas rows, so one image pixel per column and
	// two per row.
	m.Update(tea.WindowSizeMsg{Width: 81, Height: 24})
	return m
}

func mouse(m *drawModel, action tea.MouseAction, x, y int) {
	m.Update(tea.MouseMsg{X: x, Y: y, Action: action, Button: tea.MouseButtonLeft})
}

func key(m *drawModel, k string) tea.Cmd {
	msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	switch k {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEscape}
	}
	_, cmd := m.Update(msg)
	return cmd
}

func TestDrawModelDragCreates(t *testing.T) {
	m := newTestDrawModel(t)

	mouse(m, tea.MouseActionPress, 10, 5)
	mouse(m, tea.MouseActionMotion, 30, 15)
	mouse(m, tea.MouseActionRelease, 30, 15)

	list := m.ann.Annotations()
	if len(list) != 1 {
		t.Fatalf("got %d annotations, want 1", len(list))
	}
	if got := list[0].Target.Selector.Value; got != "xywh=pixel:10,10,20,20" {
		t.Errorf("selector = %q", got)
	}
	if !strings.HasPrefix(m.status, "selected ") {
		t.Errorf("status = %q", m.status)
	}
	view := m.View()
	if !strings.Contains(view, "1 annotations") || !strings.Contains(view, "rectangle") {
		t.Errorf("view status line missing:\n%s", view)
	}

	key(m, "d")
	if n := len(m.ann.Annotations()); n != 0 {
		t.Errorf("after delete got %d annotations", n)
	}
	if !strings.HasPrefix(m.status, "deleted ") {
		t.Errorf("status = %q", m.status)
	}
}

func TestDrawModelKeys(t *testing.T) {
	m := newTestDrawModel(t)

	key(m, "p")
	if got := m.ann.DrawingTool(); got != "polygon" {
		t.Errorf("tool = %q, want polygon", got)
	}
	key(m, "m")
	if got := m.ann.DrawingMode(); got != annotator.ModeClick {
		t.Errorf("mode = %q, want click", got)
	}
	key(m, "m")
	if got := m.ann.DrawingMode(); got != annotator.ModeDrag {
		t.Errorf("mode = %q, want drag", got)
	}

	// Two vertices are not a polygon.
	mouse(m, tea.MouseActionPress, 0, 0)
	mouse(m, tea.MouseActionRelease, 0, 0)
	mouse(m, tea.MouseActionPress, 20, 0)
	mouse(m, tea.MouseActionRelease, 20, 0)
	key(m, "enter")
	if m.err == nil {
		t.Error("finishing a two-vertex polygon should fail")
	}
	if !strings.Contains(m.View(), iconWarning) {
		t.Error("view should show the error")
	}

	key(m, "esc")
	if m.ann.Drawing() {
		t.Error("esc should cancel drawing")
	}

	if cmd := key(m, "q"); cmd == nil {
		t.Error("q should quit")
	}
}

func TestDrawModelResizeKeepsMapping(t *testing.T) {
	m := newTestDrawModel(t)
	m.Update(tea.WindowSizeMsg{Width: 161, Height: 46})

	// Two columns per image pixel now.
	mouse(m, tea.MouseActionPress, 20, 10)
	mouse(m, tea.MouseActionMotion, 60, 30)
	mouse(m, tea.MouseActionRelease, 60, 30)

	list := m.ann.Annotations()
	if len(list) != 1 {
		t.Fatalf("got %d annotations, want 1", len(list))
	}
	if got := list[0].Target.Selector.Value; got != "xywh=pixel:10,10,20,20" {
		t.Errorf("selector = %q", got)
	}
}
