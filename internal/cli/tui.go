package cli

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/knapset/pkg/instance"
	"github.com/matzehuels/knapset/pkg/solver"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

const (
	watchTick         = 100 * time.Millisecond
	stepSendInterval  = 50 * time.Millisecond
	defaultListHeight = 10
)

// =============================================================================
// Messages
// =============================================================================

type stepMsg solver.Step

type incumbentMsg solver.Incumbent

type solveDoneMsg struct {
	res    solver.Result
	cached bool
	err    error
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(watchTick, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// =============================================================================
// teaObserver - forwards search events to a running program
// =============================================================================

// teaObserver sends every incumbent and at most one step per
// stepSendInterval to a bubbletea program.
type teaObserver struct {
	send func(tea.Msg)

	mu   sync.Mutex
	last time.Time
}

func newTeaObserver(send func(tea.Msg)) *teaObserver {
	return &teaObserver{send: send}
}

func (o *teaObserver) OnStepStart(s solver.Step) {
	o.mu.Lock()
	now := time.Now()
	due := now.Sub(o.last) >= stepSendInterval
	if due {
		o.last = now
	}
	o.mu.Unlock()
	if due {
		o.send(stepMsg(s))
	}
}

func (o *teaObserver) OnStepEnd(solver.Step) {}

func (o *teaObserver) OnIncumbent(inc solver.Incumbent) { o.send(incumbentMsg(inc)) }

var _ solver.Observer = (*teaObserver)(nil)

// =============================================================================
// WatchModel - live view of a running search
// =============================================================================

// WatchModel is the bubbletea model behind solve --watch. It shows search
// progress and a scrollable list of every improvement to the incumbent.
type WatchModel struct {
	Name     string
	Vertices int
	Edges    int
	Capacity int

	Step       solver.Step
	Incumbents []solver.Incumbent
	Cursor     int
	Offset     int
	Height     int

	Start   time.Time
	Elapsed time.Duration
	Done    bool
	Aborted bool
	Cached  bool
	Err     error

	// abort stops the search when the user quits early.
	abort func()
}

// NewWatchModel creates a watch model for a search over inst. abort is
// called when the user quits before the search has finished.
func NewWatchModel(inst *instance.Instance, abort func()) WatchModel {
	return WatchModel{
		Name:     inst.Name,
		Vertices: inst.VertexCount(),
		Edges:    inst.EdgeCount(),
		Capacity: inst.Capacity,
		Height:   defaultListHeight,
		Start:    time.Now(),
		abort:    abort,
	}
}

func (m WatchModel) Init() tea.Cmd {
	return tick()
}

func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if !m.Done {
				m.Aborted = true
				if m.abort != nil {
					m.abort()
				}
			}
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Incumbents)-1 {
				m.Cursor++
				m.follow()
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-12, 3)
		m.follow()
	case stepMsg:
		m.Step = solver.Step(msg)
	case incumbentMsg:
		atEnd := m.Cursor >= len(m.Incumbents)-1
		m.Incumbents = append(m.Incumbents, solver.Incumbent(msg))
		if atEnd {
			m.Cursor = len(m.Incumbents) - 1
			m.follow()
		}
	case solveDoneMsg:
		m.Done = true
		m.Cached = msg.cached
		m.Err = msg.err
		m.Step.Steps = msg.res.Stats.Steps
		m.Elapsed = time.Since(m.Start)
		return m, tea.Quit
	case tickMsg:
		if m.Done {
			return m, nil
		}
		m.Elapsed = time.Since(m.Start)
		return m, tick()
	}
	return m, nil
}

// follow scrolls so the cursor row is visible.
func (m *WatchModel) follow() {
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
}

func (m WatchModel) best() (solver.Incumbent, bool) {
	if len(m.Incumbents) == 0 {
		return solver.Incumbent{}, false
	}
	return m.Incumbents[len(m.Incumbents)-1], true
}

func (m WatchModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Solving " + m.Name))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("%d vertices  %d edges  capacity %d", m.Vertices, m.Edges, m.Capacity)))
	b.WriteString("\n\n")

	status := "searching"
	switch {
	case m.Aborted:
		status = "aborted"
	case m.Done && m.Cached:
		status = iconCached
	case m.Done:
		status = "done"
	}
	fmt.Fprintf(&b, "  %s %s\n", listDimStyle.Render("status "), listSelectedStyle.Render(status))
	fmt.Fprintf(&b, "  %s %s\n", listDimStyle.Render("steps  "), StyleNumber.Render(strconv.FormatInt(m.Step.Steps, 10)))
	fmt.Fprintf(&b, "  %s %d  %s %d\n", listDimStyle.Render("depth  "), m.Step.Depth, listDimStyle.Render("open"), m.Step.Available)
	if inc, ok := m.best(); ok {
		fmt.Fprintf(&b, "  %s %s  %s\n", listDimStyle.Render("best   "),
			StyleSuccess.Render(strconv.Itoa(inc.Value)),
			listDimStyle.Render(fmt.Sprintf("weight %d/%d, %d vertices", inc.Weight, m.Capacity, inc.Size)))
	}
	fmt.Fprintf(&b, "  %s %s\n\n", listDimStyle.Render("elapsed"), m.Elapsed.Round(time.Millisecond))

	if len(m.Incumbents) > 0 {
		b.WriteString(m.incumbentTable())
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  ↑/↓ scroll  q quit", m.Cursor+1, len(m.Incumbents))))
	} else {
		b.WriteString(listDimStyle.Render("  no feasible set yet  q quit"))
	}
	b.WriteString("\n")
	return b.String()
}

func (m WatchModel) incumbentTable() string {
	end := min(m.Offset+m.Height, len(m.Incumbents))

	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		inc := m.Incumbents[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			strconv.Itoa(i + 1),
			strconv.Itoa(inc.Value),
			strconv.Itoa(inc.Weight),
			strconv.Itoa(inc.Size),
			strconv.FormatInt(inc.Steps, 10),
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "#", "Value", "Weight", "Size", "Step").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			return lipgloss.NewStyle()
		}).
		Render()
}
