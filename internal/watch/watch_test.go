package watch

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/odestep/internal/models"
	"github.com/san-kum/odestep/internal/ode"
	"github.com/san-kum/odestep/internal/scheme"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	sch := scheme.NewRK4(models.NewHarmonic(), 0.01)
	m, err := NewModel("harmonic", sch, 0, ode.State{1, 0})
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestTickAdvancesTime(t *testing.T) {
	m := newTestModel(t)

	next, cmd := m.Update(TickMsg(time.Now()))
	if cmd == nil {
		t.Error("expected tick reschedule")
	}

	got := next.(Model)
	if got.t <= 0 {
		t.Errorf("expected time to advance, got %f", got.t)
	}
	if len(got.hist) <= len(m.hist) {
		t.Error("expected history to grow")
	}
}

func TestSpaceTogglesPause(t *testing.T) {
	m := newTestModel(t)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeySpace})
	got := next.(Model)
	if got.running {
		t.Error("expected paused after space")
	}

	before := got.t
	next, _ = got.Update(TickMsg(time.Now()))
	got = next.(Model)
	if got.t != before {
		t.Error("expected no advance while paused")
	}
}

func TestResetRestoresInitialState(t *testing.T) {
	m := newTestModel(t)

	next, _ := m.Update(TickMsg(time.Now()))
	got := next.(Model)

	next, _ = got.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	got = next.(Model)

	if got.t != 0 {
		t.Errorf("expected time reset to 0, got %f", got.t)
	}
	if got.u[0] != 1 || got.u[1] != 0 {
		t.Errorf("expected initial state, got %v", got.u)
	}
}

func TestQuitKey(t *testing.T) {
	m := newTestModel(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
}

func TestViewShowsStatus(t *testing.T) {
	m := newTestModel(t)

	view := m.View()
	if !strings.Contains(view, "HARMONIC") {
		t.Error("expected model name in view")
	}
	if !strings.Contains(view, "RUNNING") {
		t.Error("expected running status in view")
	}
}
