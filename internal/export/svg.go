package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/physics2d/internal/geometry"
	"github.com/san-kum/physics2d/internal/shapes"
	"github.com/san-kum/physics2d/internal/sim"
	"github.com/san-kum/physics2d/internal/viz"
)

const (
	background = "#0a0a0a"
	bodyStroke = "#00ffff"
)

// ShapeIndex remembers the shape of every body it has seen. It is a
// sim.Observer so a run can be drawn from its recorded frames afterwards.
type ShapeIndex map[uint64]shapes.Shape

func (s ShapeIndex) OnStep(w sim.World, t float64) {
	for _, b := range w.Bodies() {
		s[b.ID()] = b.Shape()
	}
}

func header(sb *strings.Builder, width, height float64) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)
}

// CanvasToSVG converts a Braille canvas to SVG format
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2
	height := float64(canvas.Height) * scale * 4

	var sb strings.Builder
	header(&sb, width, height)
	sb.WriteString(`<g fill="#00ff00">` + "\n")

	dotRadius := scale * 0.4
	for y := 0; y < canvas.Height*4; y++ {
		for x := 0; x < canvas.Width*2; x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f"/>`+"\n", cx, cy, dotRadius)
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// FrameToSVG outlines every body of a frame in world units. The view box
// is the world rectangle, so the picture keeps the scene's proportions.
// Bodies without a known shape are skipped.
func FrameToSVG(frame sim.Frame, index ShapeIndex, world geometry.BoundingRectangle) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="%.1f %.1f %.1f %.1f">
<rect x="%.1f" y="%.1f" width="100%%" height="100%%" fill="%s"/>
<g fill="none" stroke="%s" stroke-width="2">
`, world.Width(), world.Height(), world.Min.X, world.Min.Y, world.Width(), world.Height(),
		world.Min.X, world.Min.Y, background, bodyStroke)

	for _, bs := range frame.Bodies {
		shape, ok := index[bs.ID]
		if !ok {
			continue
		}
		m := geometry.FromALVector(geometry.NewALVector2D(bs.Angle, geometry.Vector2D{X: bs.X, Y: bs.Y}))
		switch s := shape.(type) {
		case *shapes.Particle:
			fmt.Fprintf(&sb, `<circle cx="%.2f" cy="%.2f" r="2" fill="%s"/>`+"\n", bs.X, bs.Y, bodyStroke)
		case *shapes.Line:
			fmt.Fprintf(&sb, `<polyline stroke-width="%.2f" points="%s"/>`+"\n",
				max(s.Thickness(), 1), points(m.TransformAll(s.Vertices(), nil)))
		default:
			fmt.Fprintf(&sb, `<polygon points="%s"/>`+"\n", points(m.TransformAll(s.Vertices(), nil)))
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

func points(vs []geometry.Vector2D) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = fmt.Sprintf("%.2f,%.2f", v.X, v.Y)
	}
	return strings.Join(parts, " ")
}

// Trajectory collects the positions of one body across frames. Frames the
// body is absent from are skipped.
func Trajectory(frames []sim.Frame, id uint64) []geometry.Vector2D {
	var out []geometry.Vector2D
	for _, f := range frames {
		for _, bs := range f.Bodies {
			if bs.ID == id {
				out = append(out, geometry.Vector2D{X: bs.X, Y: bs.Y})
				break
			}
		}
	}
	return out
}

// TrajectoryToSVG creates an SVG path from trajectory data, fitted to the
// image with a 10% margin. World Y grows downwards, as in SVG.
func TrajectoryToSVG(path []geometry.Vector2D, width, height int, strokeColor string) string {
	if len(path) < 2 {
		return ""
	}

	bounds := geometry.FromVectors(path)
	rangeX := bounds.Width()
	rangeY := bounds.Height()
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	bounds = geometry.NewBoundingRectangle(
		bounds.Min.X-rangeX*0.1, bounds.Min.Y-rangeY*0.1,
		bounds.Min.X+rangeX*1.1, bounds.Min.Y+rangeY*1.1,
	)

	var sb strings.Builder
	header(&sb, float64(width), float64(height))
	fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor)

	for i, p := range path {
		x := (p.X - bounds.Min.X) / bounds.Width() * float64(width)
		y := (p.Y - bounds.Min.Y) / bounds.Height() * float64(height)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
