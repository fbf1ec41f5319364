package engine

import (
	"math"
	"strconv"

	"github.com/roach88/uncurl/internal/grid"
	"github.com/roach88/uncurl/internal/ir"
)

// MaxDepth is the largest recursion bound an engine accepts. It matches the
// largest grid so a canonical curve can always cover it.
const MaxDepth = grid.MaxWidthLog2

// Unbounded is returned by StructuralDepth for grammars whose rules recurse.
const Unbounded = -1

// Validate checks g and maxDepth before any generation happens:
//   - at least one rule, heading in 0..3
//   - every operation code is recognized
//   - every invoke targets an existing rule
//   - maxDepth is within [0, MaxDepth]
//   - for non-recursive grammars, maxDepth does not exceed the deepest
//     possible expansion (StructuralDepth)
//
// Returns the first problem found as an INVALID_GRAMMAR error.
func Validate(g ir.Grammar, maxDepth int) error {
	if len(g.Rules) == 0 {
		return grammarError(g, "grammar has no rules")
	}
	if g.Heading < 0 || g.Heading > 3 {
		return grammarError(g, "heading %d outside 0..3", g.Heading)
	}

	for ri, rule := range g.Rules {
		for pc, in := range rule.Program {
			if !ir.ValidOps[in.Op] {
				return grammarError(g, "rule %q[%d]: unrecognized operation %q", rule.Name, pc, in.Op).
					WithDetail("rule", strconv.Itoa(ri))
			}
			if in.Op == ir.OpInvoke && (in.Rule < 0 || in.Rule >= len(g.Rules)) {
				return grammarError(g, "rule %q[%d]: invokes rule %d, grammar has %d rules", rule.Name, pc, in.Rule, len(g.Rules)).
					WithDetail("rule", strconv.Itoa(ri))
			}
		}
	}

	if maxDepth < 0 || maxDepth > MaxDepth {
		return grammarError(g, "max depth %d outside [0, %d]", maxDepth, MaxDepth)
	}

	if bound := StructuralDepth(g); bound != Unbounded && maxDepth > bound {
		return grammarError(g, "max depth %d exceeds the grammar's recursion bound %d", maxDepth, bound).
			WithDetail("bound", strconv.Itoa(bound))
	}

	return nil
}

func grammarError(g ir.Grammar, format string, args ...any) *ir.Error {
	e := ir.NewError(ir.ErrCodeInvalidGrammar, format, args...)
	if g.Name != "" {
		e.WithDetail("grammar", g.Name)
	}
	return e
}

// StructuralDepth returns the number of frames the deepest expansion from
// the axiom can occupy, or Unbounded when a reachable rule recurses.
// The grammar must have valid invoke targets.
func StructuralDepth(g ir.Grammar) int {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make([]int, len(g.Rules))
	depth := make([]int, len(g.Rules))

	var visit func(r int) bool
	visit = func(r int) bool {
		switch state[r] {
		case visiting:
			return false
		case done:
			return true
		}
		state[r] = visiting
		d := 1
		for _, in := range g.Rules[r].Program {
			if in.Op != ir.OpInvoke {
				continue
			}
			if !visit(in.Rule) {
				return false
			}
			d = max(d, depth[in.Rule]+1)
		}
		depth[r] = d
		state[r] = done
		return true
	}

	if len(g.Rules) == 0 {
		return 0
	}
	if !visit(0) {
		return Unbounded
	}
	return depth[0]
}

// Emissions returns exactly how many coordinates a fresh engine for g and
// maxDepth produces before exhausting, origin included. Saturates at
// math.MaxInt64. The arguments must pass Validate.
func Emissions(g ir.Grammar, maxDepth int) int64 {
	if maxDepth == 0 {
		return 1
	}

	// memo[h-1][r] = moves emitted by expanding rule r in a frame at height h
	memo := make([][]int64, maxDepth)
	for h := maxDepth; h >= 1; h-- {
		row := make([]int64, len(g.Rules))
		for r, rule := range g.Rules {
			var n int64
			for _, in := range rule.Program {
				switch in.Op {
				case ir.OpMove:
					n = addSat(n, 1)
				case ir.OpInvoke:
					if h < maxDepth {
						n = addSat(n, memo[h][in.Rule])
					}
				}
			}
			row[r] = n
		}
		memo[h-1] = row
	}
	return addSat(1, memo[0][0])
}

func addSat(a, b int64) int64 {
	if a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}
