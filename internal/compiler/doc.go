// Package compiler turns CUE curve definitions into grammars the engine runs.
//
// A curve file declares one or more curves under the top-level "curve" field:
//
//	curve: transposed: {
//		description: "Hilbert curve mirrored about the diagonal"
//		heading:     1          // 0=+x 1=+y 2=-x 3=-y, default 0
//		axiom:       "A"        // default: first rule
//		rules: {
//			A: "-BF+AFA+FB-"
//			B: "+AF-BFB-FA+"
//		}
//	}
//
// Rule programs use the L-system alphabet: F moves and emits, + turns left,
// - turns right, and any other upper-case letter invokes the rule of that
// name. Whitespace is ignored.
//
// CompileCurve parses and reports the first structural problem with its CUE
// position. Validate inspects a compiled grammar and reports every problem it
// finds, each with a stable error code.
package compiler
