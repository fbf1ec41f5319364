package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/uncurl/internal/ir"
	"github.com/roach88/uncurl/internal/mapping"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// EvaluateAssertions checks every assertion and returns the failure
// messages. m is nil when construction was rejected; only error assertions
// can pass then.
func EvaluateAssertions(result *Result, m *mapping.Mapping, assertions []Assertion) []string {
	var failures []string
	for i, a := range assertions {
		if err := evaluateAssertion(result, m, a); err != nil {
			failures = append(failures, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}

	// An unexpected construction error fails the run even without assertions on it.
	if result.ErrorCode != "" && !expectsError(assertions) {
		failures = append(failures, fmt.Sprintf("unexpected error: %s", result.ErrorCode))
	}
	return failures
}

func expectsError(assertions []Assertion) bool {
	for _, a := range assertions {
		if a.Type == AssertError {
			return true
		}
	}
	return false
}

func evaluateAssertion(result *Result, m *mapping.Mapping, a Assertion) error {
	if a.Type == AssertError {
		return assertError(result, a)
	}
	if m == nil {
		return &AssertionError{Type: a.Type, Expected: "a built mapping", Actual: "construction failed"}
	}

	switch a.Type {
	case AssertDimensions:
		return assertDimensions(result, a)
	case AssertPathPrefix:
		return assertPathPrefix(result, a)
	case AssertLookup:
		return assertLookup(m, a)
	case AssertBijective:
		return assertBijective(result, m)
	case AssertUnsetCount:
		return assertCount(a.Type, a.Count, result.Unset)
	case AssertRecorded:
		return assertCount(a.Type, a.Count, result.Recorded)
	default:
		return fmt.Errorf("unknown assertion type: %s", a.Type)
	}
}

func assertError(result *Result, a Assertion) error {
	if string(result.ErrorCode) != a.Code {
		actual := "no error"
		if result.ErrorCode != "" {
			actual = string(result.ErrorCode)
		}
		return &AssertionError{Type: a.Type, Expected: a.Code, Actual: actual}
	}
	return nil
}

func assertDimensions(result *Result, a Assertion) error {
	if result.Dims.Width != a.Width || result.Dims.CellCount != a.CellCount {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("width %d, cell_count %d", a.Width, a.CellCount),
			Actual:   fmt.Sprintf("width %d, cell_count %d", result.Dims.Width, result.Dims.CellCount),
		}
	}
	return nil
}

func assertPathPrefix(result *Result, a Assertion) error {
	steps := result.Steps()
	if len(steps) < len(a.Points) {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("at least %d steps", len(a.Points)),
			Actual:   fmt.Sprintf("%d steps", len(steps)),
		}
	}
	for i, c := range a.Points {
		want := ir.Point{X: c.X, Y: c.Y}
		if steps[i].Point != want {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("step %d at %s", i, want),
				Actual:   fmt.Sprintf("step %d at %s", i, steps[i].Point),
			}
		}
	}
	return nil
}

func assertLookup(m *mapping.Mapping, a Assertion) error {
	p := ir.Point{X: a.At.X, Y: a.At.Y}
	got, ok := m.Lookup(p)

	describe := func(ok bool, i int) string {
		if !ok {
			return "unset"
		}
		return fmt.Sprintf("position %d", i)
	}

	wantOK := a.Position != nil
	want := 0
	if wantOK {
		want = *a.Position
	}
	if ok != wantOK || got != want {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%s at %s", describe(wantOK, want), p),
			Actual:   describe(ok, got),
		}
	}
	return nil
}

func assertBijective(result *Result, m *mapping.Mapping) error {
	steps := result.Steps()
	if len(steps) != m.Length() {
		return &AssertionError{
			Type:     AssertBijective,
			Expected: fmt.Sprintf("%d steps", m.Length()),
			Actual:   fmt.Sprintf("%d steps", len(steps)),
		}
	}
	for _, s := range steps {
		i, ok := m.Lookup(s.Point)
		if !ok || int64(i) != s.Seq {
			return &AssertionError{
				Type:     AssertBijective,
				Expected: fmt.Sprintf("cell %s maps back to %d", s.Point, s.Seq),
				Actual:   fmt.Sprintf("lookup gives %d (set=%v)", i, ok),
			}
		}
	}
	return nil
}

func assertCount(kind string, want, got int) error {
	if want != got {
		return &AssertionError{
			Type:     kind,
			Expected: fmt.Sprintf("%d", want),
			Actual:   fmt.Sprintf("%d", got),
		}
	}
	return nil
}
