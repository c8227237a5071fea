package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/physics2d/internal/engine"
	"github.com/san-kum/physics2d/internal/geometry"
	"github.com/san-kum/physics2d/internal/logic"
	"github.com/san-kum/physics2d/internal/metrics"
	"github.com/san-kum/physics2d/internal/shapes"
	"github.com/san-kum/physics2d/internal/sim"
)

const (
	canvasWidth     = 80
	canvasHeight    = 24
	historyCapacity = 600

	explosionRadius  = 250
	explosionImpulse = 800
)

var explosionCenter = geometry.Vector2D{X: 700, Y: 650}

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model steps an engine on every tick and keeps the recent frames so the
// run can be scrubbed back and forth.
type Model struct {
	scene   string
	setup   sim.Setup
	seed    int64
	dt      float64
	gravity geometry.Vector2D

	engine *engine.PhysicsEngine
	shapes map[uint64]shapes.Shape
	t      float64
	err    error

	running  bool
	canvas   *Canvas
	viewport Viewport
	theme    int

	history  []sim.Frame
	energy   []float64
	contacts []float64
	playHead int
}

// NewModel builds the scene once so that setup errors surface before the
// program starts.
func NewModel(scene string, setup sim.Setup, seed int64, dt float64, gravity geometry.Vector2D) (Model, error) {
	if dt <= 0 {
		return Model{}, fmt.Errorf("invalid time step %g", dt)
	}
	canvas := NewCanvas(canvasWidth, canvasHeight)
	m := Model{
		scene:    scene,
		setup:    setup,
		seed:     seed,
		dt:       dt,
		gravity:  gravity,
		running:  true,
		canvas:   canvas,
		viewport: NewViewport(DefaultWorld, canvas),
		playHead: -1,
	}
	if err := m.reset(); err != nil {
		return Model{}, err
	}
	return m, nil
}

// SetTheme selects a theme by name. Unknown names select the first theme.
func (m *Model) SetTheme(name string) { m.theme = ThemeIndex(name) }

func (m Model) Engine() *engine.PhysicsEngine { return m.engine }
func (m Model) Time() float64                 { return m.t }
func (m Model) Running() bool                 { return m.running }
func (m Model) History() []sim.Frame          { return m.history }
func (m Model) PlayHead() int                 { return m.playHead }
func (m Model) Err() error                    { return m.err }

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			if err := m.reset(); err != nil {
				m.err = err
				m.running = false
			}
		case "e":
			m.explode()
		case "t":
			m.theme = (m.theme + 1) % len(Themes)
		case "[":
			m.scrub(-1)
		case "]":
			m.scrub(1)
		}
	case TickMsg:
		if m.running {
			if m.playHead == -1 {
				m.step()
			} else {
				m.playHead++
				if m.playHead >= len(m.history) {
					m.playHead = -1
				}
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) step() {
	if err := m.engine.Update(m.dt); err != nil {
		m.err = err
		m.running = false
		return
	}
	m.t += m.dt
	m.record()
}

// record appends the current engine state to the bounded histories.
func (m *Model) record() {
	for _, b := range m.engine.Bodies() {
		m.shapes[b.ID()] = b.Shape()
	}
	m.history = appendBounded(m.history, sim.Capture(m.engine, m.t))
	m.energy = appendBounded(m.energy, metrics.TotalEnergy(m.engine.Bodies(), m.gravity))
	m.contacts = appendBounded(m.contacts, float64(m.engine.Stats().ContactPoints))
}

func appendBounded[T any](s []T, v T) []T {
	s = append(s, v)
	if len(s) > historyCapacity {
		s = s[1:]
	}
	return s
}

func (m *Model) explode() {
	if m.playHead != -1 {
		return
	}
	if err := m.engine.AddLogic(logic.NewExplosionField(explosionCenter, explosionRadius, explosionImpulse)); err != nil {
		m.err = err
	}
}

// scrub moves the playback position. Moving past the newest frame returns
// to the live engine.
func (m *Model) scrub(dir int) {
	if m.playHead == -1 {
		if len(m.history) == 0 {
			return
		}
		m.playHead = len(m.history) - 1
		m.running = false
	}
	m.playHead += dir
	if m.playHead < 0 {
		m.playHead = 0
	}
	if m.playHead >= len(m.history) {
		m.playHead = -1
	}
}

// reset rebuilds the scene from the same seed.
func (m *Model) reset() error {
	e, err := m.setup(m.seed)
	if err != nil {
		return fmt.Errorf("build scene %s: %w", m.scene, err)
	}
	m.engine = e
	m.shapes = make(map[uint64]shapes.Shape)
	m.t = 0
	m.err = nil
	m.history = m.history[:0]
	m.energy = m.energy[:0]
	m.contacts = m.contacts[:0]
	m.playHead = -1
	m.record()
	return nil
}

func (m *Model) draw() {
	m.canvas.Clear()
	if m.playHead >= 0 && m.playHead < len(m.history) {
		DrawFrame(m.canvas, m.viewport, m.history[m.playHead], m.shapes)
		return
	}
	DrawBodies(m.canvas, m.viewport, m.engine.Bodies())
}

func (m Model) View() string {
	theme := Themes[m.theme]
	m.draw()
	canvasView := lipgloss.NewStyle().
		Foreground(theme.Bodies).
		Padding(1, 2).
		Render(m.canvas.String())

	t := m.t
	status := StatusRunning.Render("RUNNING")
	switch {
	case m.err != nil:
		status = lipgloss.NewStyle().Foreground(theme.Warning).Render("ERROR: " + m.err.Error())
	case m.playHead != -1:
		t = m.history[m.playHead].Time
		status = StatusReplay.Render(fmt.Sprintf("REPLAY (%.2fs)", t-m.t))
	case !m.running:
		status = StatusPaused.Render("PAUSED")
	}

	var s strings.Builder
	s.WriteString(lipgloss.NewStyle().Foreground(theme.Title).Bold(true).Render(strings.ToUpper(m.scene)) + "\n")
	s.WriteString(status + "\n\n")
	if len(m.energy) > 1 {
		s.WriteString(asciigraph.Plot(m.energy, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy")) + "\n\n")
	}

	stats := m.engine.Stats()
	s.WriteString(metricLine(theme, "Time", fmt.Sprintf("%.2fs", t)) + "\n")
	s.WriteString(metricLine(theme, "Steps", fmt.Sprintf("%d", stats.Steps)) + "\n")
	s.WriteString(metricLine(theme, "Bodies", fmt.Sprintf("%d", stats.Bodies)) + "\n")
	s.WriteString(metricLine(theme, "Joints", fmt.Sprintf("%d", stats.Joints)) + "\n")
	s.WriteString(metricLine(theme, "Pairs", fmt.Sprintf("%d", stats.CandidatePairs)) + "\n")
	s.WriteString(metricLine(theme, "Contacts", fmt.Sprintf("%d", stats.ContactPoints)) + "\n")
	s.WriteString(metricLine(theme, "Depth", fmt.Sprintf("%.4f", stats.MaxPenetration)) + "\n")
	if len(m.energy) > 0 {
		s.WriteString(metricLine(theme, "Energy", fmt.Sprintf("%.1f", m.energy[len(m.energy)-1])) + "\n")
	}
	s.WriteString("\n" + Sparkline(m.contacts, 30) + "\n")
	s.WriteString(KeyHint.Render("\nSP:Pause R:Reset Q:Quit\nE:Explode T:Theme\n[ ]:Time-Travel"))

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, panel(theme).Render(s.String()))
}
