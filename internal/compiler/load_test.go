package compiler

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/uncurl/internal/engine"
)

func TestLoadDir(t *testing.T) {
	result, errs := LoadDir("testdata/curves", LoadModeCollectAll)
	require.Empty(t, errs)
	require.NotNil(t, result)

	assert.Equal(t, 2, result.FileCount)
	require.Len(t, result.Curves, 2)

	byName := make(map[string]int)
	for i, g := range result.Curves {
		byName[g.Name] = i
	}
	require.Contains(t, byName, "canonical")
	require.Contains(t, byName, "transposed")

	canonical := result.Curves[byName["canonical"]]
	assert.Equal(t, engine.Hilbert().Rules, canonical.Rules)
	assert.Equal(t, 1, result.Curves[byName["transposed"]].Heading)
}

func TestLoadDirMissing(t *testing.T) {
	_, errs := LoadDir("testdata/nope", LoadModeFailFast)
	require.Len(t, errs, 1)

	var le *LoadError
	require.True(t, errors.As(errs[0], &le))
	assert.Equal(t, ErrCodeNotFound, le.Code)
}

func TestLoadDirNoFiles(t *testing.T) {
	_, errs := LoadDir(t.TempDir(), LoadModeFailFast)
	require.Len(t, errs, 1)

	var le *LoadError
	require.True(t, errors.As(errs[0], &le))
	assert.Equal(t, ErrCodeNoFiles, le.Code)
}

func TestLoadDirBrokenCollectAll(t *testing.T) {
	result, errs := LoadDir("testdata/broken", LoadModeCollectAll)
	require.NotNil(t, result)
	assert.Empty(t, result.Curves)
	require.Len(t, errs, 3)

	var got []string
	for _, err := range errs {
		var le *LoadError
		require.True(t, errors.As(err, &le))
		got = append(got, le.Code)
	}
	assert.ElementsMatch(t, []string{ErrCodeCompileError, ErrInvalidHeading, ErrNeverMoves}, got)
}

func TestLoadDirBrokenFailFast(t *testing.T) {
	_, errs := LoadDir("testdata/broken", LoadModeFailFast)
	assert.Len(t, errs, 1)
}

func TestLoadSource(t *testing.T) {
	result, errs := LoadSource("inline.cue", []byte(`
		curve: line: {
			description: "straight"
			rules: A: "FFF"
		}
	`), LoadModeFailFast)
	require.Empty(t, errs)
	require.Len(t, result.Curves, 1)
	assert.Equal(t, "line", result.Curves[0].Name)
	assert.Equal(t, "straight", result.Curves[0].Description)
}

func TestLoadSourceSyntaxError(t *testing.T) {
	_, errs := LoadSource("inline.cue", []byte(`curve: {`), LoadModeFailFast)
	require.Len(t, errs, 1)

	var le *LoadError
	require.True(t, errors.As(errs[0], &le))
	assert.Equal(t, ErrCodeBuildFailed, le.Code)
}

func TestLoadSourceNoCurves(t *testing.T) {
	result, errs := LoadSource("inline.cue", []byte(`other: 1`), LoadModeFailFast)
	require.Empty(t, errs)
	assert.Empty(t, result.Curves)
}
