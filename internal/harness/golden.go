package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/uncurl/internal/ir"
)

// TraceSnapshot captures what a scenario run produced.
type TraceSnapshot struct {
	ScenarioName string
	Result       *Result
}

// toCanonicalMap converts the snapshot to the generic form accepted by
// ir.MarshalCanonical.
func (s *TraceSnapshot) toCanonicalMap() map[string]any {
	traceList := make([]any, len(s.Result.Trace))
	for i, event := range s.Result.Trace {
		eventMap := map[string]any{
			"type": event.Type,
			"seq":  event.Seq,
			"x":    event.Point.X,
			"y":    event.Point.Y,
		}
		if event.Position != nil {
			eventMap["position"] = *event.Position
		}
		traceList[i] = eventMap
	}

	result := map[string]any{
		"scenario_name": s.ScenarioName,
		"dims": map[string]any{
			"width":      s.Result.Dims.Width,
			"width_log2": s.Result.Dims.WidthLog2,
			"cell_count": s.Result.Dims.CellCount,
		},
		"trace": traceList,
		"unset": s.Result.Unset,
	}
	if s.Result.Curve != "" {
		result["curve"] = string(s.Result.Curve)
	}
	if s.Result.GrammarHash != "" {
		result["grammar_hash"] = s.Result.GrammarHash
	}
	if s.Result.ErrorCode != "" {
		result["error_code"] = string(s.Result.ErrorCode)
	}
	return result
}

// Snapshot renders a result as canonical JSON followed by a newline.
func Snapshot(scenarioName string, result *Result) ([]byte, error) {
	snapshot := TraceSnapshot{ScenarioName: scenarioName, Result: result}
	data, err := ir.MarshalCanonical(snapshot.toCanonicalMap())
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// RunWithGolden executes a scenario and compares the trace against a golden file.
// The golden file is stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns the result so callers can check assertions too.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	data, err := Snapshot(scenario.Name, result)
	if err != nil {
		return nil, err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)

	return result, nil
}
