package viz

import (
	"errors"
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/physics2d/internal/body"
	"github.com/san-kum/physics2d/internal/engine"
	"github.com/san-kum/physics2d/internal/geometry"
	"github.com/san-kum/physics2d/internal/logic"
	"github.com/san-kum/physics2d/internal/shapes"
	"github.com/san-kum/physics2d/internal/sim"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(1, 3)
	c.Set(-1, 0)
	c.Set(4, 0)
	c.Set(0, 4)

	if c.Grid[0][0] != rune(0x2800|0x1|0x80) {
		t.Errorf("expected %U, got %U", rune(0x2881), c.Grid[0][0])
	}
	if c.Grid[0][1] != blank {
		t.Errorf("expected blank second cell, got %U", c.Grid[0][1])
	}
	if !c.IsSet(1, 3) || c.IsSet(1, 2) || c.IsSet(10, 10) {
		t.Error("IsSet disagrees with Set")
	}

	c.Clear()
	if c.IsSet(0, 0) {
		t.Error("expected canvas to be cleared")
	}
}

func TestCanvasDrawLine(t *testing.T) {
	tests := []struct {
		name           string
		x0, y0, x1, y1 int
	}{
		{"inside", 0, 0, 3, 0},
		{"clipped", -1000, 0, 1000, 0},
		{"reversed", 3, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCanvas(2, 1)
			c.DrawLine(tt.x0, tt.y0, tt.x1, tt.y1)
			for x := 0; x < 4; x++ {
				if !c.IsSet(x, 0) {
					t.Errorf("expected pixel (%d, 0) set", x)
				}
				if c.IsSet(x, 1) {
					t.Errorf("expected pixel (%d, 1) clear", x)
				}
			}
		})
	}

	c := NewCanvas(2, 1)
	c.DrawLine(-50, -50, -10, -20)
	if strings.ContainsFunc(c.String(), func(r rune) bool { return r != blank && r != '\n' }) {
		t.Error("expected a line off the canvas to draw nothing")
	}
}

func TestCanvasDrawPolyline(t *testing.T) {
	c := NewCanvas(4, 2)
	c.DrawPolyline([]int{0, 6, 6}, []int{0, 0, 6}, true)
	for _, p := range [][2]int{{0, 0}, {6, 0}, {6, 6}, {3, 3}} {
		if !c.IsSet(p[0], p[1]) {
			t.Errorf("expected pixel %v set", p)
		}
	}

	c.Clear()
	c.DrawPolyline([]int{0, 6, 6}, []int{0, 0, 6}, false)
	if c.IsSet(3, 3) {
		t.Error("expected open polyline to skip the closing edge")
	}
}

func TestViewportProject(t *testing.T) {
	v := NewViewport(DefaultWorld, NewCanvas(canvasWidth, canvasHeight))

	x, y := v.Project(geometry.Vector2D{X: 700, Y: 400})
	if x != 80 || y != 48 {
		t.Errorf("expected centre at (80, 48), got (%d, %d)", x, y)
	}
	x, y = v.Project(geometry.Zero)
	if x != 0 || y != 2 {
		t.Errorf("expected origin at (0, 2), got (%d, %d)", x, y)
	}

	p := v.Unproject(80, 48)
	if math.Abs(p.X-700) > 1e-6 || math.Abs(p.Y-400) > 1e-6 {
		t.Errorf("expected (700, 400), got %v", p)
	}
}

func TestDrawShape(t *testing.T) {
	c := NewCanvas(canvasWidth, canvasHeight)
	v := NewViewport(DefaultWorld, c)
	square, err := shapes.NewPolygon(shapes.CreateRectangle(200, 200))
	if err != nil {
		t.Fatal(err)
	}
	DrawShape(c, v, square, geometry.NewALVector2D(0, geometry.Vector2D{X: 700, Y: 400}))

	x, y := v.Project(geometry.Vector2D{X: 600, Y: 300})
	if !c.IsSet(x, y) {
		t.Errorf("expected corner pixel (%d, %d) set", x, y)
	}
	x, y = v.Project(geometry.Vector2D{X: 700, Y: 400})
	if c.IsSet(x, y) {
		t.Error("expected outline only, centre is set")
	}

	c.Clear()
	DrawFrame(c, v, sim.Frame{Bodies: []sim.BodyState{{ID: 42, X: 700, Y: 400}}}, nil)
	if c.IsSet(80, 48) {
		t.Error("expected unknown body to be skipped")
	}
	DrawFrame(c, v, sim.Frame{Bodies: []sim.BodyState{{ID: 42, X: 700, Y: 400}}}, map[uint64]shapes.Shape{42: shapes.NewParticle()})
	if !c.IsSet(80, 48) {
		t.Error("expected particle drawn as a point")
	}
}

func ballSetup(seed int64) (*engine.PhysicsEngine, error) {
	e, err := engine.New(engine.DefaultConfig())
	if err != nil {
		return nil, err
	}
	ball, err := shapes.NewCircle(20, 16)
	if err != nil {
		return nil, err
	}
	pos := geometry.NewALVector2D(0, geometry.Vector2D{X: 700 + float64(seed), Y: 400})
	b, err := body.NewWithMass(body.NewPhysicsState(pos), ball, 1, body.Coefficients{}, nil)
	if err != nil {
		return nil, err
	}
	if err := e.AddBody(b); err != nil {
		return nil, err
	}
	return e, e.AddLogic(logic.NewGravityField(geometry.Vector2D{Y: 10}, nil))
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestModelTick(t *testing.T) {
	m, err := NewModel("drop", ballSetup, 0, 0.01, geometry.Vector2D{Y: 10})
	if err != nil {
		t.Fatal(err)
	}
	if len(m.History()) != 1 || m.Time() != 0 {
		t.Fatalf("expected initial frame at t=0, got %d frames at %f", len(m.History()), m.Time())
	}

	m = update(t, m, TickMsg{})
	m = update(t, m, TickMsg{})
	if len(m.History()) != 3 {
		t.Errorf("expected 3 frames, got %d", len(m.History()))
	}
	if math.Abs(m.Time()-0.02) > 1e-12 {
		t.Errorf("expected time 0.02, got %f", m.Time())
	}
	if m.Engine().Stats().Steps != 2 {
		t.Errorf("expected 2 engine steps, got %d", m.Engine().Stats().Steps)
	}

	m = update(t, m, key(" "))
	if m.Running() {
		t.Error("expected paused model")
	}
	m = update(t, m, TickMsg{})
	if m.Engine().Stats().Steps != 2 {
		t.Errorf("expected paused model to stay at 2 steps, got %d", m.Engine().Stats().Steps)
	}
	if !strings.Contains(m.View(), "PAUSED") {
		t.Error("expected PAUSED in view")
	}
	if !strings.Contains(m.View(), "DROP") {
		t.Error("expected scene name in view")
	}
}

func TestModelScrub(t *testing.T) {
	m, err := NewModel("drop", ballSetup, 0, 0.01, geometry.Vector2D{Y: 10})
	if err != nil {
		t.Fatal(err)
	}
	m = update(t, m, TickMsg{})
	m = update(t, m, TickMsg{})

	m = update(t, m, key("["))
	if m.PlayHead() != 1 {
		t.Errorf("expected play head 1, got %d", m.PlayHead())
	}
	if m.Running() {
		t.Error("expected scrubbing to pause the model")
	}
	if !strings.Contains(m.View(), "REPLAY") {
		t.Error("expected REPLAY in view")
	}
	m = update(t, m, key("["))
	m = update(t, m, key("["))
	if m.PlayHead() != 0 {
		t.Errorf("expected play head clamped at 0, got %d", m.PlayHead())
	}

	m = update(t, m, key("]"))
	m = update(t, m, key("]"))
	m = update(t, m, key("]"))
	if m.PlayHead() != -1 {
		t.Errorf("expected live view, got play head %d", m.PlayHead())
	}
}

func TestModelResetAndExplode(t *testing.T) {
	m, err := NewModel("drop", ballSetup, 3, 0.01, geometry.Vector2D{Y: 10})
	if err != nil {
		t.Fatal(err)
	}
	m = update(t, m, TickMsg{})
	m = update(t, m, key("e"))
	if len(m.Engine().Logics()) != 2 {
		t.Errorf("expected gravity and explosion logics, got %d", len(m.Engine().Logics()))
	}

	m = update(t, m, key("r"))
	if m.Time() != 0 || len(m.History()) != 1 {
		t.Errorf("expected fresh run, got t=%f with %d frames", m.Time(), len(m.History()))
	}
	if x := m.Engine().Bodies()[0].State.Position.Linear.X; x != 703 {
		t.Errorf("expected rebuilt ball at x=703, got %f", x)
	}

	m = update(t, m, key("t"))
	if m.theme != 1 {
		t.Errorf("expected theme 1, got %d", m.theme)
	}

	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Error("expected quit command")
	}
}

func TestNewModelErrors(t *testing.T) {
	boom := errors.New("boom")
	_, err := NewModel("broken", func(int64) (*engine.PhysicsEngine, error) { return nil, boom }, 0, 0.01, geometry.Zero)
	if !errors.Is(err, boom) {
		t.Errorf("expected setup error, got %v", err)
	}
	if _, err := NewModel("drop", ballSetup, 0, 0, geometry.Zero); err == nil {
		t.Error("expected error for zero time step")
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline(nil, 3); got != "───" {
		t.Errorf("expected empty line, got %q", got)
	}
	if got := Sparkline([]float64{0, 1, 2, 7}, 3); got != "▁▂█" {
		t.Errorf("expected ▁▂█, got %q", got)
	}
}
