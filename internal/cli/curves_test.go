package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurves_Builtins(t *testing.T) {
	out, _, err := execute(t, nil, "curves")
	require.NoError(t, err)

	assert.Contains(t, out, "hilbert              direct   builtin")
	assert.Contains(t, out, "hilbert-grammar      grammar  builtin")
	assert.Contains(t, out, "    A = +BF-AFA-FB+\n    B = -AF+BFB+FA-\n")
}

func TestCurves_WithCustomDir(t *testing.T) {
	out, _, err := execute(t, nil, "--curves", curvesDir, "curves", "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string       `json:"status"`
		Data   CurvesResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data.Curves, 4)

	var names []string
	for _, c := range resp.Data.Curves {
		names = append(names, string(c.Name))
	}
	assert.Equal(t, []string{"hilbert", "hilbert-grammar", "canonical", "transposed"}, names)

	direct := resp.Data.Curves[0]
	assert.Empty(t, direct.Rules)
	assert.Empty(t, direct.Hash)

	transposed := resp.Data.Curves[3]
	assert.False(t, transposed.Builtin)
	assert.Equal(t, "A", transposed.Axiom)
	assert.Equal(t, map[string]string{"A": "-BF+AFA+FB-", "B": "+AF-BFB-FA+"}, transposed.Rules)
	assert.Equal(t, "sha256:40e9e37c4592b3facee68fc37775551e12a9ccd40543ee5b4f08fa746fdfc17f", transposed.Hash)

	// same rules as the builtin under another name
	assert.Equal(t, resp.Data.Curves[1].Axiom, resp.Data.Curves[2].Axiom)
	assert.Equal(t, resp.Data.Curves[1].Rules, resp.Data.Curves[2].Rules)
	assert.NotEqual(t, resp.Data.Curves[1].Hash, resp.Data.Curves[2].Hash)
}

func TestSortedRuleNames_AxiomFirst(t *testing.T) {
	entry := CurveEntry{
		Axiom: "Z",
		Rules: map[string]string{"A": "F", "Z": "AF", "M": "+"},
	}
	assert.Equal(t, []string{"Z", "A", "M"}, sortedRuleNames(entry))
	assert.Nil(t, sortedRuleNames(CurveEntry{}))
}
