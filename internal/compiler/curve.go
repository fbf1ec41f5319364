package compiler

import (
	"fmt"
	"unicode"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/uncurl/internal/ir"
)

// Program symbols.
const (
	SymMove  = 'F'
	SymLeft  = '+'
	SymRight = '-'
)

// CompileCurve parses a CUE value into a Grammar.
// Uses the CUE SDK's Go API directly.
//
// The CUE value should be the curve struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(src)
//	g, err := CompileCurve(v.LookupPath(cue.ParsePath("curve.transposed")))
func CompileCurve(v cue.Value) (*ir.Grammar, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	g := &ir.Grammar{}

	// Curve name from the struct label
	labels := v.Path().Selectors()
	if len(labels) > 0 {
		g.Name = unquote(labels[len(labels)-1].String())
	}

	if descVal := v.LookupPath(cue.ParsePath("description")); descVal.Exists() {
		desc, err := descVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		g.Description = desc
	}

	if headingVal := v.LookupPath(cue.ParsePath("heading")); headingVal.Exists() {
		heading, err := headingVal.Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		g.Heading = int(heading)
	}

	rulesVal := v.LookupPath(cue.ParsePath("rules"))
	if !rulesVal.Exists() {
		return nil, &CompileError{
			Field:   "rules",
			Message: "rules are required",
			Pos:     v.Pos(),
		}
	}

	type source struct {
		name    string
		program string
		pos     token.Pos
	}
	var sources []source

	iter, err := rulesVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		program, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		sources = append(sources, source{
			name:    unquote(iter.Label()),
			program: program,
			pos:     iter.Value().Pos(),
		})
	}
	if len(sources) == 0 {
		return nil, &CompileError{
			Field:   "rules",
			Message: "at least one rule is required",
			Pos:     rulesVal.Pos(),
		}
	}

	// The axiom moves to index 0; the rest keep declaration order.
	if axiomVal := v.LookupPath(cue.ParsePath("axiom")); axiomVal.Exists() {
		axiom, err := axiomVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		at := -1
		for i, s := range sources {
			if s.name == axiom {
				at = i
				break
			}
		}
		if at < 0 {
			return nil, &CompileError{
				Field:   "axiom",
				Message: fmt.Sprintf("axiom %q is not a rule", axiom),
				Pos:     axiomVal.Pos(),
			}
		}
		axiomSrc := sources[at]
		copy(sources[1:at+1], sources[:at])
		sources[0] = axiomSrc
	}

	index := make(map[rune]int, len(sources))
	for i, s := range sources {
		r, ok := ruleSymbol(s.name)
		if !ok {
			return nil, &CompileError{
				Field:   "rules." + s.name,
				Message: fmt.Sprintf("rule name %q must be a single upper-case letter other than %c", s.name, SymMove),
				Pos:     s.pos,
			}
		}
		index[r] = i
	}

	for _, s := range sources {
		program, err := parseProgram(s.program, index)
		if err != nil {
			return nil, &CompileError{
				Field:   "rules." + s.name,
				Message: err.Error(),
				Pos:     s.pos,
			}
		}
		g.Rules = append(g.Rules, ir.Rule{Name: s.name, Program: program})
	}

	return g, nil
}

// ruleSymbol returns the letter a rule is invoked by.
func ruleSymbol(name string) (rune, bool) {
	runes := []rune(name)
	if len(runes) != 1 {
		return 0, false
	}
	r := runes[0]
	if r == SymMove || r > unicode.MaxASCII || !unicode.IsUpper(r) {
		return 0, false
	}
	return r, true
}

// parseProgram translates an L-system string into instructions.
func parseProgram(src string, rules map[rune]int) ([]ir.Instr, error) {
	program := []ir.Instr{}
	for offset, r := range src {
		switch {
		case unicode.IsSpace(r):
		case r == SymMove:
			program = append(program, ir.Move())
		case r == SymLeft:
			program = append(program, ir.Left())
		case r == SymRight:
			program = append(program, ir.Right())
		case r <= unicode.MaxASCII && unicode.IsUpper(r):
			k, ok := rules[r]
			if !ok {
				return nil, fmt.Errorf("offset %d: invokes undefined rule %q", offset, string(r))
			}
			program = append(program, ir.Invoke(k))
		default:
			return nil, fmt.Errorf("offset %d: unrecognized operation %q", offset, string(r))
		}
	}
	return program, nil
}

// FormatProgram renders a rule program back into its L-system string.
func FormatProgram(g ir.Grammar, r ir.Rule) string {
	out := make([]byte, 0, len(r.Program))
	for _, in := range r.Program {
		switch in.Op {
		case ir.OpMove:
			out = append(out, SymMove)
		case ir.OpLeft:
			out = append(out, SymLeft)
		case ir.OpRight:
			out = append(out, SymRight)
		case ir.OpInvoke:
			if in.Rule >= 0 && in.Rule < len(g.Rules) {
				out = append(out, g.Rules[in.Rule].Name...)
			} else {
				out = append(out, '?')
			}
		default:
			out = append(out, '?')
		}
	}
	return string(out)
}

// unquote strips the quotes CUE keeps on labels that are not identifiers.
func unquote(label string) string {
	if len(label) >= 2 && label[0] == '"' && label[len(label)-1] == '"' {
		return label[1 : len(label)-1]
	}
	return label
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
