package compiler

import (
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/uncurl/internal/engine"
	"github.com/roach88/uncurl/internal/ir"
)

func compileNamed(t *testing.T, src, path string) (*ir.Grammar, error) {
	t.Helper()
	v := cuecontext.New().CompileString(src)
	require.NoError(t, v.Err())
	return CompileCurve(v.LookupPath(cue.ParsePath(path)))
}

func TestCompileCurveCanonical(t *testing.T) {
	g, err := compileNamed(t, `
		curve: canonical: {
			description: "Hilbert"
			axiom: "A"
			rules: {
				A: "+BF-AFA-FB+"
				B: "-AF+BFB+FA-"
			}
		}
	`, "curve.canonical")
	require.NoError(t, err)

	want := engine.Hilbert()
	assert.Equal(t, "canonical", g.Name)
	assert.Equal(t, "Hilbert", g.Description)
	assert.Equal(t, 0, g.Heading)
	assert.Equal(t, want.Rules, g.Rules)
}

func TestCompileCurveAxiomMovesFirst(t *testing.T) {
	g, err := compileNamed(t, `
		curve: c: {
			axiom: "B"
			rules: {
				A: "F"
				B: "AFA"
			}
		}
	`, "curve.c")
	require.NoError(t, err)

	require.Len(t, g.Rules, 2)
	assert.Equal(t, "B", g.Rules[0].Name)
	assert.Equal(t, "A", g.Rules[1].Name)
	assert.Equal(t, []ir.Instr{ir.Invoke(1), ir.Move(), ir.Invoke(1)}, g.Rules[0].Program)
}

func TestCompileCurveQuotedName(t *testing.T) {
	g, err := compileNamed(t, `
		curve: "my-curve": {
			rules: A: "F"
		}
	`, `curve."my-curve"`)
	require.NoError(t, err)
	assert.Equal(t, "my-curve", g.Name)
}

func TestCompileCurveWhitespaceIgnored(t *testing.T) {
	g, err := compileNamed(t, `
		curve: c: rules: A: "F + F - F"
	`, "curve.c")
	require.NoError(t, err)
	assert.Equal(t, []ir.Instr{ir.Move(), ir.Left(), ir.Move(), ir.Right(), ir.Move()}, g.Rules[0].Program)
}

func TestCompileCurveErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		message string
	}{
		{"missing rules", `curve: c: { heading: 0 }`, "rules are required"},
		{"empty rules", `curve: c: { rules: {} }`, "at least one rule"},
		{"unknown axiom", `curve: c: { axiom: "Z", rules: A: "F" }`, `axiom "Z" is not a rule`},
		{"bad rule name", `curve: c: { rules: Ab: "F" }`, "single upper-case letter"},
		{"rule named F", `curve: c: { rules: F: "F" }`, "single upper-case letter"},
		{"undefined rule", `curve: c: { rules: A: "FQ" }`, `offset 1: invokes undefined rule "Q"`},
		{"bad symbol", `curve: c: { rules: A: "F*" }`, `offset 1: unrecognized operation "*"`},
		{"heading not int", `curve: c: { heading: "up", rules: A: "F" }`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compileNamed(t, tt.src, "curve.c")
			require.Error(t, err)
			if tt.message != "" {
				assert.Contains(t, err.Error(), tt.message)
			}
		})
	}
}

func TestFormatProgramRoundTrip(t *testing.T) {
	g := engine.Hilbert()
	assert.Equal(t, "+BF-AFA-FB+", FormatProgram(g, g.Rules[0]))
	assert.Equal(t, "-AF+BFB+FA-", FormatProgram(g, g.Rules[1]))
}

func TestFormatProgramBadInvoke(t *testing.T) {
	g := ir.Grammar{Rules: []ir.Rule{{Name: "A", Program: []ir.Instr{ir.Move(), ir.Invoke(7)}}}}
	assert.Equal(t, "F?", FormatProgram(g, g.Rules[0]))
}
