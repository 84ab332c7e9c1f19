// Package watch renders a live terminal view of a running
// integration: the scheme is stepped a few times per frame and the
// leading state component and energy are charted as they evolve.
package watch

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/odestep/internal/metrics"
	"github.com/san-kum/odestep/internal/ode"
	"github.com/san-kum/odestep/internal/scheme"
)

const (
	historyCapacity = 600
	frameInterval   = time.Second / 30
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Model is the bubbletea model driving the live view.
type Model struct {
	name string
	sch  scheme.Scheme

	// energy is nil for fields without an energy function.
	energy metrics.Energier

	t0 float64
	u0 ode.State

	t float64
	u ode.State

	stepsPerFrame int
	running       bool
	err           error

	hist       []float64
	energyHist []float64
}

// NewModel initializes the scheme at (t0, u0) and returns a paused
// view ready to run.
func NewModel(name string, sch scheme.Scheme, t0 float64, u0 ode.State) (Model, error) {
	if err := sch.Initialize(t0, u0); err != nil {
		return Model{}, err
	}
	m := Model{
		name:          name,
		sch:           sch,
		t0:            t0,
		u0:            u0.Clone(),
		t:             t0,
		u:             u0.Clone(),
		stepsPerFrame: 4,
		running:       true,
	}
	m.record()
	return m, nil
}

// SetEnergy attaches an energy function for the chart.
func (m *Model) SetEnergy(e metrics.Energier) { m.energy = e }

func (m Model) Init() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		}
	case TickMsg:
		if m.running && m.err == nil {
			m.advance()
		}
		return m, tea.Tick(frameInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

func (m *Model) advance() {
	for i := 0; i < m.stepsPerFrame; i++ {
		t1, u1, err := m.sch.Step(m.t, m.u)
		if err != nil {
			m.err = err
			m.running = false
			return
		}
		m.t, m.u = t1, u1
		m.record()
	}
}

func (m *Model) record() {
	m.hist = append(m.hist, m.u[0])
	if len(m.hist) > historyCapacity {
		m.hist = m.hist[1:]
	}
	if m.energy != nil {
		m.energyHist = append(m.energyHist, m.energy.Energy(m.u))
		if len(m.energyHist) > historyCapacity {
			m.energyHist = m.energyHist[1:]
		}
	}
}

func (m *Model) reset() {
	if err := m.sch.Initialize(m.t0, m.u0); err != nil {
		m.err = err
		return
	}
	m.t = m.t0
	m.u = m.u0.Clone()
	m.err = nil
	m.hist = nil
	m.energyHist = nil
	m.running = true
	m.record()
}

func (m Model) View() string {
	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.name)) + "\n")

	status := "RUNNING"
	if m.err != nil {
		status = errorStyle.Render("FAILED: " + m.err.Error())
	} else if !m.running {
		status = "PAUSED"
	}
	s.WriteString(status + "\n")

	if len(m.hist) > 1 {
		chart := asciigraph.Plot(m.hist,
			asciigraph.Height(8),
			asciigraph.Width(60),
			asciigraph.Caption("u0"),
		)
		s.WriteString(graphStyle.Render(chart) + "\n")
	}
	if len(m.energyHist) > 1 {
		chart := asciigraph.Plot(m.energyHist,
			asciigraph.Height(4),
			asciigraph.Width(60),
			asciigraph.Caption("energy"),
		)
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.3f", m.t)) + "\n")
	s.WriteString(labelStyle.Render("Stepsize") + valueStyle.Render(fmt.Sprintf("%.2e", m.sch.Stepsize())) + "\n")
	s.WriteString(labelStyle.Render("State") + valueStyle.Render(formatState(m.u)) + "\n")

	s.WriteString(helpStyle.Render("SP:Pause  R:Reset  Q:Quit"))
	return s.String()
}

func formatState(u ode.State) string {
	const maxShown = 6
	n := len(u)
	shown := n
	if shown > maxShown {
		shown = maxShown
	}
	parts := make([]string, 0, shown+1)
	for i := 0; i < shown; i++ {
		parts = append(parts, fmt.Sprintf("%.4f", u[i]))
	}
	if n > maxShown {
		parts = append(parts, "...")
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Run drives the view in the calling terminal until the user quits.
func Run(m Model) error {
	_, err := tea.NewProgram(m).Run()
	return err
}
