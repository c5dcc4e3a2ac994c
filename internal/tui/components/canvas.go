package components

import (
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/paulmach/orb"

	"github.com/rendis/firmap/internal/engine/render"
	"github.com/rendis/firmap/internal/tui/styles"
)

// Braille character encoding:
// Each braille char is a 2x4 dot grid.
// Dot positions:  0 3
//
//	1 4
//	2 5
//	6 7
//
// Unicode: 0x2800 + sum of raised dot bits
var brailleDots = [8]rune{0x01, 0x02, 0x04, 0x08, 0x10, 0x20, 0x40, 0x80}

var dotPositions = [8][2]int{
	{0, 0}, {1, 0}, {2, 0}, {0, 1},
	{1, 1}, {2, 1}, {3, 0}, {3, 1},
}

// Dots per terminal cell.
const (
	CellDotsX = 2
	CellDotsY = 4
)

// ViewportFor returns the dot viewport covering cols x rows terminal cells.
func ViewportFor(cols, rows int) (float64, float64) {
	return float64(cols * CellDotsX), float64(rows * CellDotsY)
}

// dot is one braille dot. Lower rank is closer to the top of the stack.
type dot struct {
	color string
	rank  int
}

// Canvas is a scene painted into braille dots.
type Canvas struct {
	cols, rows int
	dotW, dotH int
	dots       [][]dot
	released   bool
}

// Released reports whether the canvas was unmounted.
func (c *Canvas) Released() bool { return c.released }

// Release drops the dot grid.
func (c *Canvas) Release() {
	c.dots = nil
	c.released = true
}

// Size returns the canvas size in terminal cells.
func (c *Canvas) Size() (cols, rows int) { return c.cols, c.rows }

// BrailleDrawer paints scenes built for a ViewportFor viewport.
type BrailleDrawer struct {
	drawn int
}

// Drawn counts the canvases produced so far.
func (d *BrailleDrawer) Drawn() int { return d.drawn }

func (d *BrailleDrawer) Draw(scene *render.Scene) (render.Artifact, error) {
	c := newCanvas(int(scene.Width)/CellDotsX, int(scene.Height)/CellDotsY)
	for rank := len(scene.Layers) - 1; rank >= 0; rank-- {
		c.paintLayer(scene.Layers[rank], rank)
	}
	d.drawn++
	return c, nil
}

func newCanvas(cols, rows int) *Canvas {
	c := &Canvas{cols: cols, rows: rows, dotW: cols * CellDotsX, dotH: rows * CellDotsY}
	c.dots = make([][]dot, c.dotH)
	for i := range c.dots {
		c.dots[i] = make([]dot, c.dotW)
	}
	return c
}

func (c *Canvas) paintLayer(l render.SceneLayer, rank int) {
	shift := orb.Point{l.Style.DX, l.Style.DY}
	density := fillDensity(l.Style)
	for _, sh := range l.Shapes {
		for _, poly := range sh.Polygons {
			if sh.Fill != "" && density > 0 {
				c.fillPolygon(poly, shift, sh.Fill, rank, density)
			}
			if l.Style.Stroke != "" && l.Style.StrokeWidth > 0 {
				for _, ring := range poly {
					c.strokeLine(orb.LineString(ring), shift, l.Style.Stroke, rank, 1)
				}
			}
		}
		if l.Style.Stroke != "" {
			for _, line := range sh.Lines {
				c.strokeLine(line, shift, l.Style.Stroke, rank, 2)
			}
		}
	}
}

// fillDensity maps layer opacity to the spacing between filled dots.
func fillDensity(s render.Style) int {
	alpha := 1.0
	if s.FillOpacity > 0 {
		alpha = s.FillOpacity
	}
	if s.Opacity > 0 {
		alpha *= s.Opacity
	}
	switch {
	case alpha >= 0.8:
		return 1
	case alpha >= 0.25:
		return 2
	case alpha > 0:
		return 3
	}
	return 0
}

// fillPolygon scanline-fills poly with the even-odd rule, keeping every
// density-th dot.
func (c *Canvas) fillPolygon(poly orb.Polygon, shift orb.Point, color string, rank, density int) {
	var xs []float64
	for y := 0; y < c.dotH; y++ {
		fy := float64(y) + 0.5 - shift[1]
		xs = xs[:0]
		for _, ring := range poly {
			for i := 0; i+1 < len(ring); i++ {
				a, b := ring[i], ring[i+1]
				if (a[1] <= fy) == (b[1] <= fy) {
					continue
				}
				t := (fy - a[1]) / (b[1] - a[1])
				xs = append(xs, a[0]+t*(b[0]-a[0])+shift[0])
			}
		}
		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			x0 := int(math.Ceil(xs[i] - 0.5))
			x1 := int(math.Floor(xs[i+1] - 0.5))
			for x := x0; x <= x1; x++ {
				if (x+y)%density == 0 && (density < 3 || y%2 == 0) {
					c.set(x, y, color, rank)
				}
			}
		}
	}
}

// strokeLine draws line with Bresenham, keeping every step-th dot.
func (c *Canvas) strokeLine(line orb.LineString, shift orb.Point, color string, rank, step int) {
	n := 0
	for i := 0; i+1 < len(line); i++ {
		x0, y0 := toDot(line[i], shift)
		x1, y1 := toDot(line[i+1], shift)
		drawLine(x0, y0, x1, y1, func(x, y int) {
			if n%step == 0 {
				c.set(x, y, color, rank)
			}
			n++
		})
	}
}

func toDot(p, shift orb.Point) (int, int) {
	return int(math.Floor(p[0] + shift[0])), int(math.Floor(p[1] + shift[1]))
}

func (c *Canvas) set(x, y int, color string, rank int) {
	if x < 0 || x >= c.dotW || y < 0 || y >= c.dotH {
		return
	}
	d := &c.dots[y][x]
	if d.color == "" || rank <= d.rank {
		d.color, d.rank = color, rank
	}
}

// Lit reports whether the dot at (x, y) is painted.
func (c *Canvas) Lit(x, y int) bool {
	if c.released || x < 0 || x >= c.dotW || y < 0 || y >= c.dotH {
		return false
	}
	return c.dots[y][x].color != ""
}

// DotColor returns the color of the dot at (x, y), "" when unpainted.
func (c *Canvas) DotColor(x, y int) string {
	if !c.Lit(x, y) {
		return ""
	}
	return c.dots[y][x].color
}

// View renders the canvas with a crosshair at cell (cx, cy); a negative cx
// hides it.
func (c *Canvas) View(cx, cy int) string {
	if c.released || c.cols <= 0 || c.rows <= 0 {
		return ""
	}

	crossStyle := lipgloss.NewStyle().Foreground(styles.Warning).Bold(true)
	cache := map[string]lipgloss.Style{}

	var sb strings.Builder
	for row := 0; row < c.rows; row++ {
		for col := 0; col < c.cols; col++ {
			if col == cx && row == cy {
				sb.WriteString(crossStyle.Render("+"))
				continue
			}

			var val rune = 0x2800
			top := dot{rank: math.MaxInt}
			for i, pos := range dotPositions {
				d := c.dots[row*CellDotsY+pos[0]][col*CellDotsX+pos[1]]
				if d.color == "" {
					continue
				}
				val |= brailleDots[i]
				if d.rank < top.rank {
					top = d
				}
			}

			if val == 0x2800 {
				sb.WriteRune(' ')
				continue
			}
			st, ok := cache[top.color]
			if !ok {
				st = lipgloss.NewStyle().Foreground(lipgloss.Color(expandHex(top.color)))
				cache[top.color] = st
			}
			sb.WriteString(st.Render(string(val)))
		}
		if row < c.rows-1 {
			sb.WriteRune('\n')
		}
	}

	return sb.String()
}

// expandHex turns #rgb into #rrggbb.
func expandHex(c string) string {
	if len(c) != 4 || c[0] != '#' {
		return c
	}
	return string([]byte{'#', c[1], c[1], c[2], c[2], c[3], c[3]})
}

// drawLine walks the segment between two dots using Bresenham's algorithm.
func drawLine(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 >= x1 {
		sx = -1
	}
	sy := 1
	if y0 >= y1 {
		sy = -1
	}
	err := dx + dy

	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
