package curve

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/uncurl/internal/engine"
	"github.com/roach88/uncurl/internal/hilbert"
	"github.com/roach88/uncurl/internal/ir"
)

// transposed is the Hilbert curve mirrored about the diagonal: turn signs
// swapped and the heading reflected from +x to +y.
func transposed() ir.Grammar {
	const a, b = 0, 1
	return ir.Grammar{
		Name:    "Transposed",
		Heading: 1,
		Rules: []ir.Rule{
			{Name: "A", Program: []ir.Instr{
				ir.Right(), ir.Invoke(b), ir.Move(), ir.Left(), ir.Invoke(a), ir.Move(),
				ir.Invoke(a), ir.Left(), ir.Move(), ir.Invoke(b), ir.Right(),
			}},
			{Name: "B", Program: []ir.Instr{
				ir.Left(), ir.Invoke(a), ir.Move(), ir.Right(), ir.Invoke(b), ir.Move(),
				ir.Invoke(b), ir.Right(), ir.Move(), ir.Invoke(a), ir.Left(),
			}},
		},
	}
}

// line walks along +x forever; it leaves any grid wider than one row.
func line() ir.Grammar {
	return ir.Grammar{
		Name:  "line",
		Rules: []ir.Rule{{Name: "A", Program: []ir.Instr{ir.Move(), ir.Move(), ir.Invoke(0)}}},
	}
}

func depth(d int) *int { return &d }

func collect(g Generator) []ir.Point {
	var out []ir.Point
	for {
		p, ok := g.Next()
		if !ok {
			return out
		}
		out = append(out, p)
	}
}

func collectSteps(p *Producer) []ir.Point {
	var out []ir.Point
	for {
		s, ok := p.Next()
		if !ok {
			return out
		}
		out = append(out, s.Point)
	}
}

func TestRegistry_Builtins(t *testing.T) {
	r := NewRegistry()

	info, ok := r.Lookup(ir.CurveHilbert)
	require.True(t, ok)
	assert.Equal(t, KindDirect, info.Kind)
	assert.True(t, info.Builtin)
	assert.Empty(t, info.Hash)

	info, ok = r.Lookup("  HILBERT-Grammar ")
	require.True(t, ok, "lookup normalizes case and whitespace")
	assert.Equal(t, ir.CurveHilbertGrammar, info.Name)
	assert.Equal(t, KindGrammar, info.Kind)
	assert.NotEmpty(t, info.Hash)

	_, ok = r.Lookup("peano")
	assert.False(t, ok)
}

func TestRegistry_Grammar(t *testing.T) {
	r := NewRegistry()

	_, ok := r.Grammar(ir.CurveHilbert)
	assert.False(t, ok, "direct curves have no grammar")

	g, ok := r.Grammar(ir.CurveHilbertGrammar)
	require.True(t, ok)
	assert.Equal(t, engine.Hilbert().Rules, g.Rules)

	g.Rules[0] = ir.Rule{Name: "Z"}
	again, _ := r.Grammar(ir.CurveHilbertGrammar)
	assert.Equal(t, "A", again.Rules[0].Name, "returned grammar is a copy")
}

func TestRegistry_RegisterGrammar(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.RegisterGrammar(transposed()))

	info, ok := r.Lookup("transposed")
	require.True(t, ok)
	assert.Equal(t, ir.CurveType("Transposed"), info.Name)
	assert.False(t, info.Builtin)

	err := r.RegisterGrammar(transposed())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")

	clash := transposed()
	clash.Name = "Hilbert"
	assert.True(t, ir.IsInvalidGrammar(r.RegisterGrammar(clash)))

	unnamed := transposed()
	unnamed.Name = " "
	assert.True(t, ir.IsInvalidGrammar(r.RegisterGrammar(unnamed)))

	broken := line()
	broken.Name = "broken"
	broken.Rules[0].Program = append(broken.Rules[0].Program, ir.Invoke(3))
	assert.True(t, ir.IsInvalidGrammar(r.RegisterGrammar(broken)))

	names := []ir.CurveType{}
	for _, i := range r.List() {
		names = append(names, i.Name)
	}
	assert.Equal(t, []ir.CurveType{"hilbert", "hilbert-grammar", "Transposed"}, names)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "hilbert", Normalize(" Hilbert\t"))
	assert.Equal(t, Normalize("café"), Normalize("CAFÉ"))
}

func TestNew_UnknownCurve(t *testing.T) {
	_, err := NewRegistry().New(Config{Curve: "peano", Length: 4})
	require.Error(t, err)
	assert.Equal(t, ir.ErrCodeUnknownCurve, ir.CodeOf(err))
}

func TestNew_InvalidLength(t *testing.T) {
	_, err := NewRegistry().New(Config{Curve: ir.CurveHilbert, Length: 0})
	assert.True(t, ir.IsInvalidLength(err))
}

func TestNew_DirectTakesNoDepth(t *testing.T) {
	_, err := NewRegistry().New(Config{Curve: ir.CurveHilbert, Length: 4, Depth: depth(1)})
	assert.True(t, ir.IsInvalidGrammar(err))
}

func TestLayout_DirectAndGrammarAgree(t *testing.T) {
	r := NewRegistry()
	for _, n := range []int{1, 2, 4, 5, 17, 100, 1000} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			direct, err := r.New(Config{Curve: ir.CurveHilbert, Length: n})
			require.NoError(t, err)
			rules, err := r.New(Config{Curve: ir.CurveHilbertGrammar, Length: n})
			require.NoError(t, err)

			assert.Equal(t, direct.Dims, rules.Dims)
			assert.Equal(t, rules.Dims.WidthLog2, rules.Depth)
			assert.Nil(t, direct.Grammar())
			assert.NotNil(t, rules.Grammar())

			a := collectSteps(direct.Producer())
			b := collectSteps(rules.Producer())
			require.Len(t, a, n)
			assert.Equal(t, a, b)
		})
	}
}

func TestLayout_GeneratorIsFresh(t *testing.T) {
	l, err := NewRegistry().New(Config{Curve: ir.CurveHilbertGrammar, Length: 16})
	require.NoError(t, err)

	first := collect(l.Generator())
	second := collect(l.Generator())
	assert.Equal(t, first, second)
	assert.Len(t, first, 16)
}

func TestLayout_CustomGrammarVerified(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.RegisterGrammar(transposed()))

	l, err := r.New(Config{Curve: "transposed", Length: 64})
	require.NoError(t, err)

	got := collectSteps(l.Producer())
	for i, p := range got {
		want := hilbert.Point(i, 3)
		assert.Equal(t, ir.Point{X: want.Y, Y: want.X}, p, "index %d", i)
	}
}

func TestLayout_RejectsOutOfGrid(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.RegisterGrammar(line()))

	_, err := r.New(Config{Curve: "line", Length: 5})
	require.Error(t, err)
	assert.True(t, ir.IsInvalidGrammar(err))
	assert.Contains(t, err.Error(), "outside the 4x4 grid")
}

func TestLayout_RejectsShortCurve(t *testing.T) {
	r := NewRegistry()

	_, err := r.New(Config{Curve: ir.CurveHilbertGrammar, Length: 100, Depth: depth(2)})
	require.Error(t, err)
	assert.True(t, ir.IsInvalidGrammar(err))
	assert.Contains(t, err.Error(), "yields 16 coordinates")
}

func TestLayout_ShallowDepthFitsShortInput(t *testing.T) {
	// The first three cells of the order-2 curve stay inside a 2x2 grid.
	l, err := NewRegistry().New(Config{Curve: ir.CurveHilbertGrammar, Length: 3, Depth: depth(2)})
	require.NoError(t, err)
	assert.Equal(t, 2, l.Depth)
	assert.Equal(t, 2, l.Dims.Width)
	assert.Equal(t, []ir.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}, collectSteps(l.Producer()))
}

func TestLayout_RejectsRevisit(t *testing.T) {
	// Forward, back, forward: the third move revisits (1,0).
	g := ir.Grammar{
		Name: "shuttle",
		Rules: []ir.Rule{{Name: "A", Program: []ir.Instr{
			ir.Move(), ir.Left(), ir.Left(), ir.Move(), ir.Left(), ir.Move(),
		}}},
	}
	r := NewRegistry()
	require.NoError(t, r.RegisterGrammar(g))

	_, err := r.New(Config{Curve: "shuttle", Length: 4, Depth: depth(1)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "revisits (0,0)")
}

func TestProducer_NumbersAndLimits(t *testing.T) {
	p := NewProducer(hilbert.NewGenerator(2, 16), 3)
	var steps []Step
	for {
		s, ok := p.Next()
		if !ok {
			break
		}
		steps = append(steps, s)
	}
	assert.Equal(t, []Step{
		{Index: 0, Point: ir.Point{X: 0, Y: 0}},
		{Index: 1, Point: ir.Point{X: 1, Y: 0}},
		{Index: 2, Point: ir.Point{X: 1, Y: 1}},
	}, steps)
	assert.Equal(t, 3, p.Produced())
}
