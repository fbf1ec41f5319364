package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a curve conformance scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Curve selects a registered curve by name.
	Curve string `yaml:"curve"`

	// Curves lists CUE files or directories with extra curve definitions.
	// Paths are relative to the scenario file location.
	Curves []string `yaml:"curves,omitempty"`

	// Length is the number of sequence elements.
	Length int `yaml:"length"`

	// Depth overrides the engine recursion bound for grammar curves.
	Depth *int `yaml:"depth,omitempty"`

	// ElemSize is the bytes per element. Defaults to 1.
	ElemSize int `yaml:"elem_size,omitempty"`

	// SessionID is the fixed session id for the lookup log.
	// If empty, defaults to "test-session-default".
	SessionID string `yaml:"session_id,omitempty"`

	// Lookups are resolved in order once the mapping is built.
	Lookups []Cell `yaml:"lookups,omitempty"`

	// Assertions validate the run.
	Assertions []Assertion `yaml:"assertions"`
}

// Cell is a grid coordinate in scenario files.
type Cell struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// Assertion validates one aspect of a run.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Width and CellCount are used by dimensions.
	Width     int `yaml:"width,omitempty"`
	CellCount int `yaml:"cell_count,omitempty"`

	// Points is used by path_prefix.
	Points []Cell `yaml:"points,omitempty"`

	// At and Position are used by lookup. A nil Position expects an unset cell.
	At       *Cell `yaml:"at,omitempty"`
	Position *int  `yaml:"position,omitempty"`

	// Count is used by unset_count and recorded.
	Count int `yaml:"count,omitempty"`

	// Code is used by error.
	Code string `yaml:"code,omitempty"`
}

// Assertion type constants.
const (
	AssertDimensions = "dimensions"
	AssertPathPrefix = "path_prefix"
	AssertLookup     = "lookup"
	AssertBijective  = "bijective"
	AssertUnsetCount = "unset_count"
	AssertRecorded   = "recorded"
	AssertError      = "error"
)

const defaultSessionID = "test-session-default"

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
// Curve paths are resolved relative to the scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Parse YAML with strict field validation (catches typos like "assertion:" vs "assertions:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	base := filepath.Dir(path)
	for i, p := range scenario.Curves {
		if !filepath.IsAbs(p) {
			scenario.Curves[i] = filepath.Join(base, p)
		}
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Curve == "" {
		return fmt.Errorf("curve is required")
	}

	if s.ElemSize < 0 {
		return fmt.Errorf("elem_size must be positive")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for _, p := range s.Curves {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			return fmt.Errorf("curve file not found: %s", p)
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertDimensions:
		if a.Width <= 0 || a.CellCount <= 0 {
			return fmt.Errorf("assertions[%d]: width and cell_count are required for dimensions", index)
		}
	case AssertPathPrefix:
		if len(a.Points) == 0 {
			return fmt.Errorf("assertions[%d]: points list is required for path_prefix", index)
		}
	case AssertLookup:
		if a.At == nil {
			return fmt.Errorf("assertions[%d]: at is required for lookup", index)
		}
	case AssertUnsetCount, AssertRecorded:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for %s", index, a.Type)
		}
	case AssertBijective:
	case AssertError:
		if a.Code == "" {
			return fmt.Errorf("assertions[%d]: code is required for error", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
