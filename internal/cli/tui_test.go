package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/knapset/pkg/instance"
	"github.com/matzehuels/knapset/pkg/solver"
)

func watchInstance(t *testing.T) *instance.Instance {
	t.Helper()
	g := instance.New("toy", 5)
	for _, v := range []instance.Vertex{{ID: "A", Weight: 2, Value: 3}, {ID: "B", Weight: 3, Value: 5}} {
		if err := g.AddVertex(v); err != nil {
			t.Fatal(err)
		}
	}
	if err := g.AddEdge("A", "B"); err != nil {
		t.Fatal(err)
	}
	return g
}

func update(m WatchModel, msg tea.Msg) (WatchModel, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(WatchModel), cmd
}

func TestWatchModelProgress(t *testing.T) {
	m := NewWatchModel(watchInstance(t), nil)
	m.Height = 2

	if !strings.Contains(m.View(), "no feasible set yet") {
		t.Error("empty view should say no set was found")
	}

	m, _ = update(m, stepMsg(solver.Step{Depth: 1, Available: 1, Steps: 3}))
	for v := 1; v <= 3; v++ {
		m, _ = update(m, incumbentMsg(solver.Incumbent{Value: v, Weight: v, Size: 1, Steps: int64(v)}))
	}
	if m.Cursor != 2 || m.Offset != 1 {
		t.Errorf("cursor/offset = %d/%d, want the list to follow the newest incumbent", m.Cursor, m.Offset)
	}

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyUp})
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyUp})
	if m.Cursor != 0 || m.Offset != 0 {
		t.Errorf("after scrolling up cursor/offset = %d/%d", m.Cursor, m.Offset)
	}
	m, _ = update(m, incumbentMsg(solver.Incumbent{Value: 4}))
	if m.Cursor != 0 {
		t.Error("a new incumbent must not move a scrolled cursor")
	}

	view := m.View()
	for _, want := range []string{"Solving toy", "searching", "best", "[1/4]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	m, cmd := update(m, solveDoneMsg{res: solver.Result{Value: 4, Stats: solver.Stats{Steps: 9}}})
	if !m.Done || cmd == nil || m.Step.Steps != 9 {
		t.Errorf("done = %v, steps = %d, cmd = %v", m.Done, m.Step.Steps, cmd)
	}
	if !strings.Contains(m.View(), "done") {
		t.Error("finished view should say done")
	}
}

func TestWatchModelQuitAborts(t *testing.T) {
	aborted := false
	m := NewWatchModel(watchInstance(t), func() { aborted = true })

	m, cmd := update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if !aborted || !m.Aborted || cmd == nil {
		t.Errorf("aborted = %v, model.Aborted = %v", aborted, m.Aborted)
	}

	aborted = false
	done := NewWatchModel(watchInstance(t), func() { aborted = true })
	done, _ = update(done, solveDoneMsg{})
	update(done, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if aborted {
		t.Error("quitting after the search finished must not abort it")
	}
}

func TestTeaObserverThrottlesSteps(t *testing.T) {
	var msgs []tea.Msg
	obs := newTeaObserver(func(m tea.Msg) { msgs = append(msgs, m) })

	for i := 0; i < 100; i++ {
		obs.OnStepStart(solver.Step{Steps: int64(i)})
	}
	obs.OnIncumbent(solver.Incumbent{Value: 1})
	obs.OnIncumbent(solver.Incumbent{Value: 2})

	steps, incumbents := 0, 0
	for _, m := range msgs {
		switch m.(type) {
		case stepMsg:
			steps++
		case incumbentMsg:
			incumbents++
		}
	}
	if steps != 1 || incumbents != 2 {
		t.Errorf("steps = %d, incumbents = %d; want 1 and 2", steps, incumbents)
	}
}
