// Package curve selects and constructs the generator that lays a sequence
// onto the grid.
//
// A Registry maps curve names to either the direct Hilbert mapper or a
// grammar run by the engine. Registry.New turns a Config into a Layout:
// the grid dimensions plus a factory for fresh single-shot generators.
//
// Configurations that are not known to be bijective (a custom grammar, or an
// explicit depth) are dry-run over the whole input range during
// construction. A curve that leaves the grid, revisits a cell, or runs dry
// early is rejected with INVALID_GRAMMAR before any real generation starts.
package curve
