package engine

import (
	"github.com/roach88/uncurl/internal/ir"
)

// State is the engine's run state.
type State int

const (
	NotStarted State = iota
	Running
	Exhausted
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "NotStarted"
	case Running:
		return "Running"
	case Exhausted:
		return "Exhausted"
	default:
		return "Unknown"
	}
}

// Engine expands a grammar into a coordinate sequence one coordinate at a time.
type Engine struct {
	grammar  ir.Grammar
	maxDepth int
	stack    *Stack
	state    State

	pos     ir.Point
	heading int

	emitted   int
	truncated int
}

// New validates g against maxDepth and returns an engine positioned before
// the origin. Validation failures are INVALID_GRAMMAR errors.
func New(g ir.Grammar, maxDepth int) (*Engine, error) {
	if err := Validate(g, maxDepth); err != nil {
		return nil, err
	}
	return &Engine{
		grammar:  g,
		maxDepth: maxDepth,
		stack:    NewStack(maxDepth),
		state:    NotStarted,
		heading:  g.Heading,
	}, nil
}

// Next returns the next coordinate of the curve, or false once exhausted.
func (e *Engine) Next() (ir.Point, bool) {
	switch e.state {
	case Exhausted:
		return ir.Point{}, false
	case NotStarted:
		e.state = Running
		// A zero depth bound leaves no room for the axiom frame; the curve is
		// the origin alone.
		if !e.stack.Push(Frame{Rule: 0}) {
			e.state = Exhausted
		}
		e.emitted++
		return e.pos, true
	}

	for {
		top := e.stack.Top()
		if top == nil {
			e.state = Exhausted
			return ir.Point{}, false
		}

		program := e.grammar.Rules[top.Rule].Program
		if top.PC >= len(program) {
			e.stack.Pop()
			parent := e.stack.Top()
			if parent == nil {
				e.state = Exhausted
				return ir.Point{}, false
			}
			parent.PC++
			continue
		}

		in := program[top.PC]
		switch in.Op {
		case ir.OpMove:
			d := ir.Directions[e.heading]
			e.pos.X += d.X
			e.pos.Y += d.Y
			top.PC++
			e.emitted++
			return e.pos, true
		case ir.OpLeft:
			e.heading = ir.Turn(e.heading, 1)
			top.PC++
		case ir.OpRight:
			e.heading = ir.Turn(e.heading, -1)
			top.PC++
		case ir.OpInvoke:
			// The parent's PC advances when the child frame is popped.
			if !e.stack.Push(Frame{Rule: in.Rule}) {
				e.truncated++
				top.PC++
			}
		}
	}
}

// State returns the current run state.
func (e *Engine) State() State {
	return e.state
}

// MaxDepth returns the configured recursion bound.
func (e *Engine) MaxDepth() int {
	return e.maxDepth
}

// Depth returns the current stack height.
func (e *Engine) Depth() int {
	return e.stack.Len()
}

// HighWater returns the largest stack height reached so far.
func (e *Engine) HighWater() int {
	return e.stack.HighWater()
}

// Emitted returns how many coordinates have been produced, origin included.
func (e *Engine) Emitted() int {
	return e.emitted
}

// Truncated returns how many invocations were skipped at the depth bound.
func (e *Engine) Truncated() int {
	return e.truncated
}

// Heading returns the current direction, 0..3.
func (e *Engine) Heading() int {
	return e.heading
}

// Grammar returns the grammar being expanded.
func (e *Engine) Grammar() ir.Grammar {
	return e.grammar
}
