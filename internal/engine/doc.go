// Package engine implements the grammar curve engine.
//
// The engine generates a space-filling curve by expanding a small rule
// grammar instead of evaluating a closed-form formula. New self-similar
// curves are added by writing a grammar; the traversal machinery does not
// change.
//
// ARCHITECTURE:
//
// Explicit Stack Machine:
// Rule expansion runs on a Stack of (rule, program counter) frames with a
// hard capacity of maxDepth. There is no language-level recursion, so memory
// is bounded by maxDepth regardless of how many coordinates are produced.
//
// Pull-Based Emission:
// Each call to Engine.Next resumes the machine and runs it until the next
// move operation, then suspends and returns that coordinate.
//
//	NotStarted --Next--> Running   emits the origin, seeds frame {0, 0}
//	Running    --Next--> Running   emits the next coordinate
//	Running    --Next--> Exhausted stack drained, returns false
//	Exhausted  --Next--> Exhausted returns false forever
//
// Operations:
//   - move: step one unit along the heading, emit
//   - left / right: heading +1 / -1 mod 4, no emission
//   - invoke(k): push {k, 0}; at the depth bound the invocation is skipped
//
// Skipping an invocation at the depth bound is the truncation policy, not an
// error. With the canonical Hilbert grammar and maxDepth = width_log2 the
// engine reproduces the hilbert package's direct mapping cell for cell.
//
// An Engine is single-shot. Once Exhausted it cannot be restarted; build a
// new one to regenerate the curve.
package engine
