// Package view maps window coordinates onto grid cells through an explicit
// pan/zoom transform.
//
// A Transform is a plain value. Pan and Zoom return the updated transform;
// nothing is kept in package state.
package view

import (
	"math"

	"github.com/roach88/uncurl/internal/grid"
	"github.com/roach88/uncurl/internal/ir"
)

// WheelSensitivity is the scale factor applied per wheel step.
const WheelSensitivity = 1.017

// Transform places the grid image in a window. The image is centred on the
// window midpoint shifted by (PanX, PanY) and drawn Scale screen pixels per
// cell.
type Transform struct {
	PanX    float64 `json:"pan_x" yaml:"pan_x"`
	PanY    float64 `json:"pan_y" yaml:"pan_y"`
	Scale   float64 `json:"scale" yaml:"scale"`
	WindowW int     `json:"window_w" yaml:"window_w"`
	WindowH int     `json:"window_h" yaml:"window_h"`
}

// New returns an unpanned, unscaled transform for a window.
func New(windowW, windowH int) Transform {
	return Transform{Scale: 1, WindowW: windowW, WindowH: windowH}
}

// ScreenToLocal converts a window position to coordinates relative to the
// image centre, in cells.
func (t Transform) ScreenToLocal(sx, sy float64) (lx, ly float64) {
	midX := float64(t.WindowW) * 0.5
	midY := float64(t.WindowH) * 0.5
	return (sx - midX - t.PanX) / t.Scale, (sy - midY - t.PanY) / t.Scale
}

// Pan shifts the image by a mouse drag of (dx, dy) screen pixels.
func (t Transform) Pan(dx, dy float64) Transform {
	t.PanX += dx
	t.PanY += dy
	return t
}

// Zoom scales by WheelSensitivity^steps around the screen point (mx, my),
// which keeps its local coordinates.
func (t Transform) Zoom(mx, my, steps float64) Transform {
	plx, ply := t.ScreenToLocal(mx, my)
	t.Scale *= math.Pow(WheelSensitivity, steps)
	lx, ly := t.ScreenToLocal(mx, my)
	t.PanX += (lx - plx) * t.Scale
	t.PanY += (ly - ply) * t.Scale
	return t
}

// Pick returns the grid cell under a window position, or false when the
// position falls outside the image.
func (t Transform) Pick(sx, sy float64, dims grid.Dimensions) (ir.Point, bool) {
	lx, ly := t.ScreenToLocal(sx, sy)
	half := float64(dims.Width) * 0.5
	lx += half
	ly += half
	w := float64(dims.Width)
	if math.IsNaN(lx) || math.IsNaN(ly) || lx < 0 || ly < 0 || lx >= w || ly >= w {
		return ir.Point{}, false
	}
	return ir.Point{X: int(lx), Y: int(ly)}, true
}

// CellToScreen returns the window position of the centre of a cell.
func (t Transform) CellToScreen(p ir.Point, dims grid.Dimensions) (sx, sy float64) {
	half := float64(dims.Width) * 0.5
	lx := float64(p.X) + 0.5 - half
	ly := float64(p.Y) + 0.5 - half
	return lx*t.Scale + float64(t.WindowW)*0.5 + t.PanX, ly*t.Scale + float64(t.WindowH)*0.5 + t.PanY
}
