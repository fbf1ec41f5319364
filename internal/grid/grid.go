// Package grid sizes the square power-of-two grid a sequence is laid onto.
package grid

import (
	"strconv"

	"github.com/roach88/uncurl/internal/ir"
)

// MaxWidthLog2 bounds the grid at 2^15 x 2^15 cells, so every cell index
// and every sequence position fits an int32 reverse index.
const MaxWidthLog2 = 15

// Dimensions describes an allocated grid. Immutable once computed.
type Dimensions struct {
	Width     int `json:"width"`
	WidthLog2 int `json:"width_log2"`
	CellCount int `json:"cell_count"`
}

// Allocate returns the smallest power-of-two grid with Width*Width >= n.
// n must be at least 1: an empty sequence has no layout.
func Allocate(n int) (Dimensions, error) {
	if n < 1 {
		return Dimensions{}, ir.NewError(ir.ErrCodeInvalidLength, "input length must be at least 1, got %d", n).
			WithDetail("length", strconv.Itoa(n))
	}

	// 1<<ceil(log2(sqrt(n))) without floating point
	log2 := 0
	for log2 <= MaxWidthLog2 && (1<<(2*log2)) < n {
		log2++
	}
	if log2 > MaxWidthLog2 {
		return Dimensions{}, ir.NewError(ir.ErrCodeInvalidLength,
			"input length %d exceeds the largest grid (%d cells)", n, 1<<(2*MaxWidthLog2)).
			WithDetail("length", strconv.Itoa(n))
	}
	return ForLog2(log2)
}

// ForLog2 returns the grid of width 2^log2.
func ForLog2(log2 int) (Dimensions, error) {
	if log2 < 0 || log2 > MaxWidthLog2 {
		return Dimensions{}, ir.NewError(ir.ErrCodeInvalidLength, "width_log2 %d outside [0, %d]", log2, MaxWidthLog2)
	}
	return Dimensions{
		Width:     1 << log2,
		WidthLog2: log2,
		CellCount: 1 << (2 * log2),
	}, nil
}

// Contains reports whether p lies on the grid.
func (d Dimensions) Contains(p ir.Point) bool {
	return p.X >= 0 && p.X < d.Width && p.Y >= 0 && p.Y < d.Width
}

// Index returns the row-major cell index of p. p must be on the grid.
func (d Dimensions) Index(p ir.Point) int {
	return (p.Y << d.WidthLog2) + p.X
}

// Point returns the coordinate of a row-major cell index.
func (d Dimensions) Point(cell int) ir.Point {
	return ir.Point{X: cell & (d.Width - 1), Y: cell >> d.WidthLog2}
}
