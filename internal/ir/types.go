package ir

import "fmt"

// Point is a grid cell coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// CurveType selects the generator that lays the sequence onto the grid.
// Grammars compiled at runtime register under their own names.
type CurveType string

const (
	// CurveHilbert selects the direct bit-rotation mapper.
	CurveHilbert CurveType = "hilbert"

	// CurveHilbertGrammar selects the grammar engine running the canonical
	// two-rule Hilbert grammar. Its output is identical to CurveHilbert.
	CurveHilbertGrammar CurveType = "hilbert-grammar"
)

// Op is a grammar operation code.
type Op string

const (
	OpMove   Op = "move"   // advance one unit and emit the new position
	OpLeft   Op = "left"   // direction + 1 (mod 4)
	OpRight  Op = "right"  // direction - 1 (mod 4)
	OpInvoke Op = "invoke" // expand another rule
)

// ValidOps defines the recognized operation codes.
var ValidOps = map[Op]bool{
	OpMove:   true,
	OpLeft:   true,
	OpRight:  true,
	OpInvoke: true,
}

// Instr is one step of a rule program. Rule is only meaningful for OpInvoke.
type Instr struct {
	Op   Op  `json:"op"`
	Rule int `json:"rule,omitempty"`
}

// Move, Left, Right and Invoke are shorthands for building programs in Go.
func Move() Instr           { return Instr{Op: OpMove} }
func Left() Instr           { return Instr{Op: OpLeft} }
func Right() Instr          { return Instr{Op: OpRight} }
func Invoke(rule int) Instr { return Instr{Op: OpInvoke, Rule: rule} }

// Rule is a named, ordered program of operations.
type Rule struct {
	Name    string  `json:"name"`
	Program []Instr `json:"program"`
}

// Len returns the program length.
func (r Rule) Len() int {
	return len(r.Program)
}

// Grammar is a self-similar curve definition. Rules[0] is the axiom.
type Grammar struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Heading     int    `json:"heading"` // initial direction, 0..3
	Rules       []Rule `json:"rules"`
}

// RuleIndex returns the index of the named rule, or -1.
func (g *Grammar) RuleIndex(name string) int {
	for i, r := range g.Rules {
		if r.Name == name {
			return i
		}
	}
	return -1
}

// Direction vectors indexed by heading.
var Directions = [4]Point{
	{X: 1, Y: 0},
	{X: 0, Y: 1},
	{X: -1, Y: 0},
	{X: 0, Y: -1},
}

// Turn rotates a heading by delta quarter turns, wrapping mod 4.
func Turn(heading, delta int) int {
	return ((heading+delta)%4 + 4) % 4
}
