package curve

import (
	"fmt"

	"github.com/roach88/uncurl/internal/engine"
	"github.com/roach88/uncurl/internal/grid"
	"github.com/roach88/uncurl/internal/hilbert"
	"github.com/roach88/uncurl/internal/ir"
)

// Config selects a curve for a sequence of Length elements.
type Config struct {
	Curve  ir.CurveType
	Length int

	// Depth overrides the engine's recursion bound. nil means width_log2,
	// which keeps the canonical grammar identical to the direct mapper.
	// Direct curves take no depth.
	Depth *int
}

// Layout is a validated curve for a fixed input length. Immutable.
type Layout struct {
	Info   Info
	Dims   grid.Dimensions
	Length int
	Depth  int // engine recursion bound; 0 for direct curves

	grammar *ir.Grammar
}

// New allocates the grid for cfg.Length and prepares the selected curve.
// All construction errors surface here; generators built from the returned
// layout cannot fail.
func (r *Registry) New(cfg Config) (*Layout, error) {
	e, err := r.get(cfg.Curve)
	if err != nil {
		return nil, err
	}

	dims, err := grid.Allocate(cfg.Length)
	if err != nil {
		return nil, err
	}

	l := &Layout{
		Info:    e.info,
		Dims:    dims,
		Length:  cfg.Length,
		grammar: e.grammar,
	}

	if e.grammar == nil {
		if cfg.Depth != nil {
			return nil, ir.NewError(ir.ErrCodeInvalidGrammar, "curve %q takes no depth", e.info.Name)
		}
		return l, nil
	}

	l.Depth = dims.WidthLog2
	if cfg.Depth != nil {
		l.Depth = *cfg.Depth
	}
	if err := engine.Validate(*e.grammar, l.Depth); err != nil {
		return nil, err
	}

	if !l.canonical() {
		if err := l.verify(); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// canonical reports whether the layout is the builtin grammar at its
// default depth, which is bijective by construction.
func (l *Layout) canonical() bool {
	return l.Info.Builtin && l.Depth == l.Dims.WidthLog2
}

// Grammar returns the grammar behind the layout, or nil for direct curves.
func (l *Layout) Grammar() *ir.Grammar {
	return l.grammar
}

// Generator returns a fresh generator positioned at index 0. Each call
// builds a new single-shot instance.
func (l *Layout) Generator() Generator {
	if l.grammar == nil {
		return hilbert.NewGenerator(l.Dims.WidthLog2, l.Length)
	}
	e, err := engine.New(*l.grammar, l.Depth)
	if err != nil {
		// New validated this exact grammar and depth.
		panic(fmt.Sprintf("curve: layout grammar became invalid: %v", err))
	}
	return e
}

// Producer returns a fresh producer over the layout's [0, Length) range.
func (l *Layout) Producer() *Producer {
	return NewProducer(l.Generator(), l.Length)
}

// verify dry-runs a fresh generator over [0, Length) and rejects curves
// that leave the grid, revisit a cell, or end early.
func (l *Layout) verify() error {
	if n := engine.Emissions(*l.grammar, l.Depth); n < int64(l.Length) {
		return l.verifyError("curve yields %d coordinates at depth %d, input needs %d", n, l.Depth, l.Length)
	}

	seen := make([]uint64, (l.Dims.CellCount+63)/64)
	p := l.Producer()
	for {
		s, ok := p.Next()
		if !ok {
			break
		}
		if !l.Dims.Contains(s.Point) {
			return l.verifyError("index %d maps to %s outside the %dx%d grid", s.Index, s.Point, l.Dims.Width, l.Dims.Width)
		}
		cell := l.Dims.Index(s.Point)
		word, bit := cell/64, uint64(1)<<(cell%64)
		if seen[word]&bit != 0 {
			return l.verifyError("index %d revisits %s", s.Index, s.Point)
		}
		seen[word] |= bit
	}
	if p.Produced() < l.Length {
		return l.verifyError("curve yields %d coordinates, input needs %d", p.Produced(), l.Length)
	}
	return nil
}

func (l *Layout) verifyError(format string, args ...any) error {
	return ir.NewError(ir.ErrCodeInvalidGrammar, format, args...).
		WithDetail("curve", string(l.Info.Name))
}
