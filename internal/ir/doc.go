// Package ir provides the shared data model for uncurl.
//
// This package contains type definitions, the typed core errors, and the
// canonical encoding used to identify grammars. All other internal packages
// import ir; ir imports nothing internal.
//
// Key design constraints:
//   - Coordinates and indices are plain ints; no floats outside the view layer
//   - Rule 0 of a Grammar is always the axiom
//   - Directions are 0=+x, 1=+y, 2=-x, 3=-y and wrap mod 4
//   - All JSON tags use snake_case
package ir
