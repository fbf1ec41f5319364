package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runValidateCmd(t *testing.T, format, dir string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewValidateCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{dir})
	err := cmd.Execute()
	return buf.String(), err
}

func TestValidate_ValidCurves(t *testing.T) {
	out, err := runValidateCmd(t, "text", curvesDir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ 2 curve(s) valid in 2 file(s)")
	assert.Contains(t, out, "transposed")
}

func TestValidate_ValidCurvesJSON(t *testing.T) {
	out, err := runValidateCmd(t, "json", curvesDir)
	require.NoError(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Valid)
	assert.Equal(t, 2, resp.Data.Files)
	assert.ElementsMatch(t, []string{"canonical", "transposed"}, resp.Data.Curves)
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	out, err := runValidateCmd(t, "json", filepath.Join("..", "compiler", "testdata", "broken"))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Data ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.False(t, resp.Data.Valid)
	assert.Empty(t, resp.Data.Curves)

	var codes []string
	for _, e := range resp.Data.Errors {
		codes = append(codes, e.Code)
	}
	assert.ElementsMatch(t, []string{"E006", "E202", "E207"}, codes)
}

func TestValidate_TextListsProblems(t *testing.T) {
	out, err := runValidateCmd(t, "text", filepath.Join("..", "compiler", "testdata", "broken"))
	require.Error(t, err)
	assert.Contains(t, out, "✗ 3 problem(s) found")
	assert.Contains(t, out, "[E202]")
}

func TestValidate_NonExistentDirectory(t *testing.T) {
	out, err := runValidateCmd(t, "text", "/nonexistent/directory/path")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "E001")
	assert.Contains(t, out, "not found")
}

func TestValidate_EmptyDirectory(t *testing.T) {
	_, err := runValidateCmd(t, "text", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "E002")
}

func TestValidationResult_TextWithPositions(t *testing.T) {
	r := ValidationResult{Errors: []ValidationIssue{
		{Code: "E006", Message: "curve.x.rules.A: unknown symbol", File: "x.cue", Line: 4},
		{Code: "E207", Message: "curve.y: never moves"},
	}}
	assert.Equal(t,
		"✗ 2 problem(s) found\n  x.cue:4: [E006] curve.x.rules.A: unknown symbol\n  [E207] curve.y: never moves\n",
		r.Text())
}
