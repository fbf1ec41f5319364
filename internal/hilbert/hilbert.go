// Package hilbert maps sequence positions to Hilbert curve cells by direct
// bit manipulation.
//
// Each pass consumes two bits of the index and, when the lower bit pair says
// so, rotates the partial coordinate before offsetting it into the next
// quadrant. The transform is a bijection from [0, 4^k) onto a 2^k x 2^k grid
// and consecutive indices always land on edge-adjacent cells.
package hilbert

import "github.com/roach88/uncurl/internal/ir"

// Point returns the cell visited at position i of the curve of width 2^widthLog2.
// i must be in [0, 4^widthLog2).
func Point(i, widthLog2 int) ir.Point {
	width := 1 << widthLog2
	x, y := 0, 0
	t := i
	for s := 1; s < width; s <<= 1 {
		rx := 1 & (t >> 1)
		ry := 1 & (t ^ rx)
		if ry == 0 {
			if rx == 1 {
				x = s - 1 - x
				y = s - 1 - y
			}
			x, y = y, x
		}
		x += s * rx
		y += s * ry
		t >>= 2
	}
	return ir.Point{X: x, Y: y}
}

// Index is the inverse of Point: the position at which the curve visits p.
// p must lie on the 2^widthLog2 grid.
func Index(p ir.Point, widthLog2 int) int {
	width := 1 << widthLog2
	x, y := p.X, p.Y
	d := 0
	for s := width >> 1; s > 0; s >>= 1 {
		rx, ry := 0, 0
		if x&s != 0 {
			rx = 1
		}
		if y&s != 0 {
			ry = 1
		}
		d += s * s * ((3 * rx) ^ ry)
		if ry == 0 {
			if rx == 1 {
				x = width - 1 - x
				y = width - 1 - y
			}
			x, y = y, x
		}
	}
	return d
}

// Generator produces Point(i) for i = 0..n-1. Each step is computed
// independently; the only state is the position counter.
type Generator struct {
	widthLog2 int
	n         int
	i         int
}

// NewGenerator returns a generator over the first n positions of the curve
// of width 2^widthLog2.
func NewGenerator(widthLog2, n int) *Generator {
	return &Generator{widthLog2: widthLog2, n: n}
}

// Next returns the next coordinate, or false once n coordinates were produced.
func (g *Generator) Next() (ir.Point, bool) {
	if g.i >= g.n {
		return ir.Point{}, false
	}
	p := Point(g.i, g.widthLog2)
	g.i++
	return p, true
}
