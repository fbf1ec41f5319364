package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)
}

func TestLoadConfig_AllFields(t *testing.T) {
	path := writeTemp(t, "uncurl.yaml", []byte(`curve: transposed
depth: 3
elem_size: 1
curves: ./curves
write: ["-", out.txt]
db: uncurl.db
window:
  width: 1024
  height: 768
`))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "transposed", cfg.Curve)
	require.NotNil(t, cfg.Depth)
	assert.Equal(t, 3, *cfg.Depth)
	assert.Equal(t, 1, cfg.ElemSize)
	assert.Equal(t, "./curves", cfg.Curves)
	assert.Equal(t, []string{"-", "out.txt"}, cfg.Write)
	assert.Equal(t, "uncurl.db", cfg.DB)
	assert.Equal(t, Window{Width: 1024, Height: 768}, cfg.Window)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"unknown field", "colour: red\n", "field colour not found"},
		{"negative elem size", "elem_size: -1\n", "elem_size must be positive"},
		{"negative depth", "depth: -2\n", "depth must be non-negative"},
		{"negative window", "window: {width: -5}\n", "window size"},
		{"not yaml", "curve: [\n", "failed to parse config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeTemp(t, "c.yaml", []byte(tt.content)))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig("/nonexistent/uncurl.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}
