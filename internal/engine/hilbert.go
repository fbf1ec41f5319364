package engine

import "github.com/roach88/uncurl/internal/ir"

// Hilbert returns the canonical two-rule Hilbert grammar:
//
//	A = +BF-AFA-FB+
//	B = -AF+BFB+FA-
//
// where F is move, + is left and - is right, starting along +x.
// With maxDepth = width_log2 it visits the 2^width_log2 grid in exactly the
// order of hilbert.Point.
func Hilbert() ir.Grammar {
	const a, b = 0, 1
	return ir.Grammar{
		Name:        string(ir.CurveHilbertGrammar),
		Description: "Hilbert curve by rule expansion",
		Heading:     0,
		Rules: []ir.Rule{
			{
				Name: "A",
				Program: []ir.Instr{
					ir.Left(), ir.Invoke(b), ir.Move(), ir.Right(), ir.Invoke(a), ir.Move(),
					ir.Invoke(a), ir.Right(), ir.Move(), ir.Invoke(b), ir.Left(),
				},
			},
			{
				Name: "B",
				Program: []ir.Instr{
					ir.Right(), ir.Invoke(a), ir.Move(), ir.Left(), ir.Invoke(b), ir.Move(),
					ir.Invoke(b), ir.Left(), ir.Move(), ir.Invoke(a), ir.Right(),
				},
			},
		},
	}
}
