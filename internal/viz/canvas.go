package viz

import (
	"strings"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Canvas is a grid of braille cells. Each cell holds 2x4 sub-pixels, so
// the drawable area is (Width*2) x (Height*4).
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Set lights the sub-pixel (x, y). Points off the canvas are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// IsSet reports whether the sub-pixel (x, y) is lit.
func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm. Lines far outside
// the canvas are clipped to a margin around it first.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	if !c.clip(&x0, &y0, &x1, &y1) {
		return
	}
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// clip trims the segment to the canvas with Liang-Barsky so a floor
// thousands of pixels wide does not cost thousands of Set calls.
func (c *Canvas) clip(x0, y0, x1, y1 *int) bool {
	minX, minY := -1.0, -1.0
	maxX, maxY := float64(c.Width*2), float64(c.Height*4)
	fx0, fy0 := float64(*x0), float64(*y0)
	dx, dy := float64(*x1)-fx0, float64(*y1)-fy0

	t0, t1 := 0.0, 1.0
	for _, edge := range [4][2]float64{
		{-dx, fx0 - minX},
		{dx, maxX - fx0},
		{-dy, fy0 - minY},
		{dy, maxY - fy0},
	} {
		p, q := edge[0], edge[1]
		if p == 0 {
			if q < 0 {
				return false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return false
			}
			if r > t0 {
				t0 = r
			}
		} else {
			if r < t0 {
				return false
			}
			if r < t1 {
				t1 = r
			}
		}
	}
	if t1 < 1 {
		*x1, *y1 = int(fx0+t1*dx), int(fy0+t1*dy)
	}
	if t0 > 0 {
		*x0, *y0 = int(fx0+t0*dx), int(fy0+t0*dy)
	}
	return true
}

// DrawPolyline joins consecutive points, and the last to the first when
// closed is set.
func (c *Canvas) DrawPolyline(xs, ys []int, closed bool) {
	n := len(xs)
	if n == 0 {
		return
	}
	if n == 1 {
		c.Set(xs[0], ys[0])
		return
	}
	for i := 0; i+1 < n; i++ {
		c.DrawLine(xs[i], ys[i], xs[i+1], ys[i+1])
	}
	if closed && n > 2 {
		c.DrawLine(xs[n-1], ys[n-1], xs[0], ys[0])
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
