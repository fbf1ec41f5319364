// Package harness runs curve conformance scenarios.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: hilbert_order1
//	description: "Canonical grammar over a 2x2 grid"
//	curve: hilbert-grammar
//	curves:            # optional CUE files or directories, relative to the scenario
//	  - ../curves
//	length: 4
//	depth: 1           # optional engine depth
//	elem_size: 1       # optional, default 1
//	lookups:           # cells resolved after the mapping is built
//	  - {x: 1, y: 0}
//	assertions:
//	  - type: dimensions
//	    width: 2
//	    cell_count: 4
//	  - type: path_prefix
//	    points: [{x: 0, y: 0}, {x: 0, y: 1}]
//	  - type: lookup
//	    at: {x: 1, y: 0}
//	    position: 3
//
// # Assertion Types
//
//   - dimensions: grid width and cell count
//   - path_prefix: the first coordinates the curve yields
//   - lookup: the sequence position stored at a cell (omit position for an unset cell)
//   - bijective: the curve visits Length distinct in-grid cells
//   - unset_count: number of cells holding no element
//   - recorded: number of lookups in the session log
//   - error: curve construction fails with the given code
//
// # Deterministic Testing
//
// Scenarios run against an in-memory SQLite lookup log with a fixed session
// id, and payload element i is filled with byte(i), so the same scenario
// always produces the same trace. RunWithGolden compares that trace with a
// golden file under testdata/golden.
package harness
