package compiler

import (
	"fmt"
	"strings"

	"github.com/roach88/uncurl/internal/ir"
)

// Validation error codes (E200-E299)
const (
	ErrNoRules          = "E201" // grammar has no rules
	ErrInvalidHeading   = "E202" // heading outside 0..3
	ErrUnknownOp        = "E203" // unrecognized operation code
	ErrInvokeOutOfRange = "E204" // invoke targets a missing rule
	ErrDuplicateRule    = "E205" // two rules share a name
	ErrEmptyName        = "E206" // grammar or rule without a name
	ErrNeverMoves       = "E207" // no move reachable from the axiom
	ErrReservedName     = "E208" // curve name shadows a builtin curve
)

// ValidationError represents a grammar validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks a compiled grammar and returns all problems found
// (does not fail-fast).
func Validate(g *ir.Grammar) []ValidationError {
	var errs []ValidationError

	// E206: name is required
	if strings.TrimSpace(g.Name) == "" {
		errs = append(errs, ValidationError{
			Field:   "name",
			Message: "curve name is required",
			Code:    ErrEmptyName,
		})
	}

	// E208: builtin names are reserved
	switch ir.CurveType(strings.ToLower(strings.TrimSpace(g.Name))) {
	case ir.CurveHilbert, ir.CurveHilbertGrammar:
		errs = append(errs, ValidationError{
			Field:   "name",
			Message: fmt.Sprintf("curve name %q is reserved for a builtin curve", g.Name),
			Code:    ErrReservedName,
		})
	}

	// E201: at least one rule
	if len(g.Rules) == 0 {
		errs = append(errs, ValidationError{
			Field:   "rules",
			Message: "at least one rule is required",
			Code:    ErrNoRules,
		})
	}

	// E202: heading range
	if g.Heading < 0 || g.Heading > 3 {
		errs = append(errs, ValidationError{
			Field:   "heading",
			Message: fmt.Sprintf("heading %d outside 0..3", g.Heading),
			Code:    ErrInvalidHeading,
		})
	}

	names := make(map[string]bool)
	structural := true
	for i, rule := range g.Rules {
		// E206: rule name
		if strings.TrimSpace(rule.Name) == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("rules[%d].name", i),
				Message: "rule name is required",
				Code:    ErrEmptyName,
			})
		}

		// E205: duplicate rule name
		if names[rule.Name] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("rules[%d].name", i),
				Message: fmt.Sprintf("duplicate rule name: %q", rule.Name),
				Code:    ErrDuplicateRule,
			})
		}
		names[rule.Name] = true

		for pc, in := range rule.Program {
			field := fmt.Sprintf("rules[%d].program[%d]", i, pc)

			// E203: op code
			if !ir.ValidOps[in.Op] {
				errs = append(errs, ValidationError{
					Field:   field,
					Message: fmt.Sprintf("unrecognized operation %q", in.Op),
					Code:    ErrUnknownOp,
				})
				structural = false
				continue
			}

			// E204: invoke target
			if in.Op == ir.OpInvoke && (in.Rule < 0 || in.Rule >= len(g.Rules)) {
				errs = append(errs, ValidationError{
					Field:   field,
					Message: fmt.Sprintf("invokes rule %d, grammar has %d rules", in.Rule, len(g.Rules)),
					Code:    ErrInvokeOutOfRange,
				})
				structural = false
			}
		}
	}

	// E207: something must move. Only meaningful once the rule graph is sound.
	if structural && len(g.Rules) > 0 && !movesFromAxiom(g) {
		errs = append(errs, ValidationError{
			Field:   "rules",
			Message: "no move operation is reachable from the axiom",
			Code:    ErrNeverMoves,
		})
	}

	return errs
}

// movesFromAxiom reports whether any rule reachable from rule 0 contains a move.
func movesFromAxiom(g *ir.Grammar) bool {
	seen := make([]bool, len(g.Rules))
	queue := []int{0}
	seen[0] = true
	for len(queue) > 0 {
		r := queue[0]
		queue = queue[1:]
		for _, in := range g.Rules[r].Program {
			switch in.Op {
			case ir.OpMove:
				return true
			case ir.OpInvoke:
				if !seen[in.Rule] {
					seen[in.Rule] = true
					queue = append(queue, in.Rule)
				}
			}
		}
	}
	return false
}
