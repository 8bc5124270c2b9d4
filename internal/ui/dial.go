// ABOUTME: Draws the analog clock face as a character grid
// ABOUTME: Hands are rasterised from the face angles
package ui

import (
	"math"
	"strings"

	"github.com/harperreed/tiktok-clock/internal/face"
)

const (
	hourRune   = '#'
	minuteRune = '+'
	secondRune = '.'
	centerRune = 'o'
	tickRune   = '·'
)

// Terminal cells are roughly twice as tall as they are wide
const aspect = 2

type grid struct {
	cells  [][]rune
	cx, cy int
}

func newGrid(radius int) *grid {
	rows := 2*radius + 1
	cols := 2*aspect*radius + 1

	cells := make([][]rune, rows)
	for y := range cells {
		cells[y] = []rune(strings.Repeat(" ", cols))
	}
	return &grid{cells: cells, cx: aspect * radius, cy: radius}
}

func (g *grid) set(x, y int, r rune) {
	if y < 0 || y >= len(g.cells) || x < 0 || x >= len(g.cells[y]) {
		return
	}
	g.cells[y][x] = r
}

// point returns the cell at distance d along a hand rotated by angle degrees.
// Negative angles turn clockwise, matching the face package.
func (g *grid) point(angle, d float64) (int, int) {
	theta := -angle * math.Pi / 180
	x := g.cx + int(math.Round(d*math.Sin(theta)*aspect))
	y := g.cy - int(math.Round(d*math.Cos(theta)))
	return x, y
}

func (g *grid) hand(angle, length float64, r rune) {
	for d := 0.5; d <= length; d += 0.5 {
		x, y := g.point(angle, d)
		g.set(x, y, r)
	}
}

func (g *grid) String() string {
	lines := make([]string, len(g.cells))
	for i, row := range g.cells {
		lines[i] = string(row)
	}
	return strings.Join(lines, "\n")
}

// renderDial draws the rim, hour marks and the three hands
func renderDial(f face.Face, radius int) string {
	g := newGrid(radius)
	r := float64(radius)

	for h := 0; h < 12; h++ {
		x, y := g.point(-float64(h)*30, r)
		g.set(x, y, tickRune)
	}
	g.set(g.cx-1, 0, '1')
	g.set(g.cx, 0, '2')
	g.set(len(g.cells[0])-1, g.cy, '3')
	g.set(g.cx, len(g.cells)-1, '6')
	g.set(0, g.cy, '9')

	g.hand(f.Second, r*0.9, secondRune)
	g.hand(f.Minute, r*0.8, minuteRune)
	g.hand(f.Hour, r*0.5, hourRune)
	g.set(g.cx, g.cy, centerRune)

	return g.String()
}
