package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/uncurl/internal/hilbert"
	"github.com/roach88/uncurl/internal/ir"
)

// drain runs e to exhaustion and returns every coordinate it produced.
func drain(t *testing.T, e *Engine) []ir.Point {
	t.Helper()
	var out []ir.Point
	for {
		p, ok := e.Next()
		if !ok {
			return out
		}
		out = append(out, p)
	}
}

func newEngine(t *testing.T, g ir.Grammar, depth int) *Engine {
	t.Helper()
	e, err := New(g, depth)
	require.NoError(t, err)
	return e
}

func TestEngine_MatchesDirectMapper(t *testing.T) {
	for log2 := 0; log2 <= 8; log2++ {
		t.Run(fmt.Sprintf("log2=%d", log2), func(t *testing.T) {
			got := drain(t, newEngine(t, Hilbert(), log2))
			require.Len(t, got, 1<<(2*log2))
			for i, p := range got {
				require.Equal(t, hilbert.Point(i, log2), p, "index %d", i)
			}
		})
	}
}

func TestEngine_Order1Sequence(t *testing.T) {
	got := drain(t, newEngine(t, Hilbert(), 1))
	assert.Equal(t, []ir.Point{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 0}}, got)
}

func TestEngine_StateMachine(t *testing.T) {
	e := newEngine(t, Hilbert(), 1)
	assert.Equal(t, NotStarted, e.State())
	assert.Equal(t, 0, e.Depth())

	p, ok := e.Next()
	require.True(t, ok)
	assert.Equal(t, ir.Point{}, p, "first emission is the origin")
	assert.Equal(t, Running, e.State())
	assert.Equal(t, 1, e.Depth(), "axiom frame seeded")

	for i := 0; i < 3; i++ {
		_, ok = e.Next()
		require.True(t, ok)
	}
	assert.Equal(t, Running, e.State())

	_, ok = e.Next()
	assert.False(t, ok)
	assert.Equal(t, Exhausted, e.State())
	assert.Equal(t, 0, e.Depth())

	// Not resumable.
	_, ok = e.Next()
	assert.False(t, ok)
	assert.Equal(t, Exhausted, e.State())
	assert.Equal(t, 4, e.Emitted())
}

func TestEngine_ZeroDepthEmitsOriginOnly(t *testing.T) {
	e := newEngine(t, Hilbert(), 0)
	got := drain(t, e)
	assert.Equal(t, []ir.Point{{X: 0, Y: 0}}, got)
	assert.Equal(t, Exhausted, e.State())
	assert.Equal(t, 0, e.HighWater())
}

func TestEngine_StackNeverExceedsDepth(t *testing.T) {
	for depth := 1; depth <= 6; depth++ {
		e := newEngine(t, Hilbert(), depth)
		for {
			_, ok := e.Next()
			require.LessOrEqual(t, e.Depth(), depth)
			if !ok {
				break
			}
		}
		assert.Equal(t, depth, e.HighWater())
	}
}

func TestEngine_TruncationTerminates(t *testing.T) {
	// A depth below the grid's width_log2 yields the smaller curve, then stops.
	const widthLog2 = 6
	for depth := 0; depth < widthLog2; depth++ {
		t.Run(fmt.Sprintf("depth=%d", depth), func(t *testing.T) {
			e := newEngine(t, Hilbert(), depth)
			got := drain(t, e)
			assert.Len(t, got, 1<<(2*depth))
			assert.EqualValues(t, Emissions(Hilbert(), depth), len(got))
			assert.LessOrEqual(t, e.HighWater(), depth)
			if depth > 0 {
				assert.Positive(t, e.Truncated(), "invocations at the bound are skipped")
			}
		})
	}
}

func TestEngine_RecursiveGrammarBoundedByDepth(t *testing.T) {
	// A = F A : a straight line whose length is set by the depth bound alone.
	g := ir.Grammar{
		Name:  "line",
		Rules: []ir.Rule{{Name: "A", Program: []ir.Instr{ir.Move(), ir.Invoke(0)}}},
	}
	e := newEngine(t, g, 5)
	got := drain(t, e)
	require.Len(t, got, 6)
	for i, p := range got {
		assert.Equal(t, ir.Point{X: i, Y: 0}, p)
	}
	assert.Equal(t, 1, e.Truncated())
	assert.EqualValues(t, 6, Emissions(g, 5))
}

func TestEngine_TurnsWrap(t *testing.T) {
	// Four right turns followed by a move lands back on the original heading.
	g := ir.Grammar{
		Name:    "spin",
		Heading: 1,
		Rules: []ir.Rule{{Name: "A", Program: []ir.Instr{
			ir.Right(), ir.Right(), ir.Right(), ir.Right(), ir.Move(),
			ir.Left(), ir.Move(),
		}}},
	}
	got := drain(t, newEngine(t, g, 1))
	assert.Equal(t, []ir.Point{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: -1, Y: 1}}, got)
}

func TestEngine_EmptyRulePops(t *testing.T) {
	g := ir.Grammar{
		Name: "hollow",
		Rules: []ir.Rule{
			{Name: "A", Program: []ir.Instr{ir.Invoke(1), ir.Move(), ir.Invoke(1), ir.Move()}},
			{Name: "B"},
		},
	}
	got := drain(t, newEngine(t, g, 2))
	assert.Equal(t, []ir.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}}, got)
}

func TestEngine_Accessors(t *testing.T) {
	e := newEngine(t, Hilbert(), 3)
	assert.Equal(t, 3, e.MaxDepth())
	assert.Equal(t, 0, e.Heading())
	assert.Equal(t, "hilbert-grammar", e.Grammar().Name)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "NotStarted", NotStarted.String())
	assert.Equal(t, "Running", Running.String())
	assert.Equal(t, "Exhausted", Exhausted.String())
	assert.Equal(t, "Unknown", State(9).String())
}
