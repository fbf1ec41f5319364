// Package mapping scatters a payload onto the grid along a curve and keeps
// the reverse index from cells back to sequence positions.
//
// A Mapping is built once and is read-only afterwards; concurrent readers
// need no locking.
package mapping

import (
	"strconv"

	"github.com/roach88/uncurl/internal/curve"
	"github.com/roach88/uncurl/internal/grid"
	"github.com/roach88/uncurl/internal/ir"
)

// Unset marks a cell no sequence position was written to.
const Unset int32 = -1

// Mapping is a scattered grid plus its reverse index.
type Mapping struct {
	dims     grid.Dimensions
	elemSize int
	length   int
	cells    []byte  // CellCount * elemSize, row-major
	reverse  []int32 // CellCount, Unset or the position written there
}

// Build validates payload against layout and scatters it.
//
// payload must hold exactly layout.Length elements of elemSize bytes;
// otherwise an INVALID_PAYLOAD error is returned and nothing is built.
func Build(layout *curve.Layout, payload []byte, elemSize int) (*Mapping, error) {
	if elemSize < 1 {
		return nil, ir.NewError(ir.ErrCodeInvalidPayload, "element size must be at least 1, got %d", elemSize)
	}
	if len(payload)%elemSize != 0 {
		return nil, ir.NewError(ir.ErrCodeInvalidPayload, "payload of %d bytes is not a multiple of %d", len(payload), elemSize).
			WithDetail("bytes", strconv.Itoa(len(payload)))
	}
	if n := len(payload) / elemSize; n != layout.Length {
		return nil, ir.NewError(ir.ErrCodeInvalidPayload, "payload holds %d elements, layout expects %d", n, layout.Length)
	}
	return Scatter(layout.Dims, layout.Generator(), payload, elemSize), nil
}

// Scatter drives gen for every element of payload, copying element i into
// the cell gen yields for step i and recording reverse[cell] = i.
//
// gen must be bijective over the driven range. A coordinate off the grid, a
// cell produced twice, or a generator that stops early is a broken
// generator and panics with *ir.InvariantError.
func Scatter(dims grid.Dimensions, gen curve.Generator, payload []byte, elemSize int) *Mapping {
	n := len(payload) / elemSize
	m := &Mapping{
		dims:     dims,
		elemSize: elemSize,
		length:   n,
		cells:    make([]byte, dims.CellCount*elemSize),
		reverse:  make([]int32, dims.CellCount),
	}
	for i := range m.reverse {
		m.reverse[i] = Unset
	}

	p := curve.NewProducer(gen, n)
	for {
		s, ok := p.Next()
		if !ok {
			break
		}
		if !dims.Contains(s.Point) {
			panic(&ir.InvariantError{Code: ir.InvOutOfBounds, Index: s.Index, Point: s.Point})
		}
		cell := dims.Index(s.Point)
		if prior := m.reverse[cell]; prior != Unset {
			panic(&ir.InvariantError{Code: ir.InvCollisionDetected, Index: s.Index, Point: s.Point, Prior: int(prior)})
		}
		copy(m.cells[cell*elemSize:(cell+1)*elemSize], payload[s.Index*elemSize:(s.Index+1)*elemSize])
		m.reverse[cell] = int32(s.Index)
	}
	if p.Produced() < n {
		panic(&ir.InvariantError{Code: ir.InvShortCurve, Index: p.Produced()})
	}
	return m
}

// Lookup resolves a cell back to the sequence position written there.
// Returns false for cells off the grid and for cells beyond the input.
func (m *Mapping) Lookup(p ir.Point) (int, bool) {
	if !m.dims.Contains(p) {
		return 0, false
	}
	i := m.reverse[m.dims.Index(p)]
	if i == Unset {
		return 0, false
	}
	return int(i), true
}

// Element returns the payload bytes stored at p, or nil off the grid.
// The returned slice aliases the grid and must not be modified.
func (m *Mapping) Element(p ir.Point) []byte {
	if !m.dims.Contains(p) {
		return nil
	}
	cell := m.dims.Index(p)
	return m.cells[cell*m.elemSize : (cell+1)*m.elemSize]
}

// Grid returns the scattered payload, row-major, elemSize bytes per cell.
// Unset cells are zero. The slice must not be modified.
func (m *Mapping) Grid() []byte {
	return m.cells
}

// Dimensions returns the grid dimensions.
func (m *Mapping) Dimensions() grid.Dimensions {
	return m.dims
}

// Length returns the number of sequence elements placed.
func (m *Mapping) Length() int {
	return m.length
}

// ElemSize returns the bytes per element.
func (m *Mapping) ElemSize() int {
	return m.elemSize
}

// UnsetCells returns the number of cells that hold no element.
func (m *Mapping) UnsetCells() int {
	return m.dims.CellCount - m.length
}
