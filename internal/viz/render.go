package viz

import (
	"math"

	"github.com/san-kum/physics2d/internal/body"
	"github.com/san-kum/physics2d/internal/geometry"
	"github.com/san-kum/physics2d/internal/shapes"
	"github.com/san-kum/physics2d/internal/sim"
)

// DefaultWorld is the region shown by the live view. It matches the
// 1400x800 layout the demo scenes are built for.
var DefaultWorld = geometry.NewBoundingRectangle(0, 0, 1400, 800)

// Viewport maps world coordinates onto canvas sub-pixels, preserving the
// aspect ratio. World Y grows downwards, like the canvas.
type Viewport struct {
	world   geometry.BoundingRectangle
	scale   float64
	offsetX float64
	offsetY float64
}

func NewViewport(world geometry.BoundingRectangle, c *Canvas) Viewport {
	w, h := float64(c.Width*2), float64(c.Height*4)
	scale := math.Min(w/world.Width(), h/world.Height())
	return Viewport{
		world:   world,
		scale:   scale,
		offsetX: (w - world.Width()*scale) / 2,
		offsetY: (h - world.Height()*scale) / 2,
	}
}

func (v Viewport) Project(p geometry.Vector2D) (int, int) {
	x := (p.X-v.world.Min.X)*v.scale + v.offsetX
	y := (p.Y-v.world.Min.Y)*v.scale + v.offsetY
	return int(math.Round(x)), int(math.Round(y))
}

// Unproject is the inverse of Project for the centre of a sub-pixel.
func (v Viewport) Unproject(x, y int) geometry.Vector2D {
	return geometry.Vector2D{
		X: (float64(x)-v.offsetX)/v.scale + v.world.Min.X,
		Y: (float64(y)-v.offsetY)/v.scale + v.world.Min.Y,
	}
}

// DrawShape outlines shape placed at pose.
func DrawShape(c *Canvas, v Viewport, shape shapes.Shape, pose geometry.ALVector2D) {
	m := geometry.FromALVector(pose)
	switch s := shape.(type) {
	case *shapes.Line:
		for _, seg := range s.Segments() {
			x0, y0 := v.Project(m.Transform(seg[0]))
			x1, y1 := v.Project(m.Transform(seg[1]))
			c.DrawLine(x0, y0, x1, y1)
		}
	default:
		world := m.TransformAll(shape.Vertices(), nil)
		xs, ys := make([]int, len(world)), make([]int, len(world))
		for i, p := range world {
			xs[i], ys[i] = v.Project(p)
		}
		c.DrawPolyline(xs, ys, true)
	}
}

func DrawBodies(c *Canvas, v Viewport, bodies []*body.Body) {
	for _, b := range bodies {
		DrawShape(c, v, b.Shape(), b.State.Position)
	}
}

// DrawFrame draws a recorded frame. Bodies missing from shapes are
// skipped.
func DrawFrame(c *Canvas, v Viewport, f sim.Frame, shapesByID map[uint64]shapes.Shape) {
	for _, bs := range f.Bodies {
		s, ok := shapesByID[bs.ID]
		if !ok {
			continue
		}
		DrawShape(c, v, s, geometry.NewALVector2D(bs.Angle, geometry.Vector2D{X: bs.X, Y: bs.Y}))
	}
}
