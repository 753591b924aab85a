package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
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

// Canvas is a Braille pixel buffer with an optional per-cell color layer.
// Colors are species indices resolved through typeStyles at render time;
// -1 means uncolored. A cell keeps the color of the last dot set in it.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Color         [][]int
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		Color:  make([][]int, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Color[i] = make([]int, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800 // Empty braille char
			c.Color[i][j] = -1
		}
	}
	return c
}

// Set sets a pixel at (x, y) in sub-pixel coordinates. The canvas size in
// sub-pixels is (Width*2) x (Height*4).
func (c *Canvas) Set(x, y int) {
	c.SetColored(x, y, -1)
}

// SetColored sets a pixel and tags its cell with a species color index.
func (c *Canvas) SetColored(x, y, colorIdx int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
	if colorIdx >= 0 {
		c.Color[row][col] = colorIdx
	}
}

// Clear resets the canvas
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800
			c.Color[i][j] = -1
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
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

func (c *Canvas) String() string {
	var b strings.Builder
	for row := range c.Grid {
		b.WriteString(c.renderRow(row))
		b.WriteByte('\n')
	}
	return b.String()
}

// renderRow styles consecutive same-color cells as one run to keep the
// escape-sequence overhead down.
func (c *Canvas) renderRow(row int) string {
	var b strings.Builder
	runStart := 0
	runColor := c.Color[row][0]
	flush := func(end int) {
		seg := string(c.Grid[row][runStart:end])
		if runColor >= 0 {
			seg = typeStyle(runColor).Render(seg)
		}
		b.WriteString(seg)
	}
	for col := 1; col < c.Width; col++ {
		if c.Color[row][col] != runColor {
			flush(col)
			runStart = col
			runColor = c.Color[row][col]
		}
	}
	flush(c.Width)
	return b.String()
}

func typeStyle(idx int) lipgloss.Style {
	return typeStyles[idx%len(typeStyles)]
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
