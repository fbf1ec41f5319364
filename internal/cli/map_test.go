package cli

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodePNG(t *testing.T, path string) image.Image {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}

func pixel(img image.Image, x, y int) color.RGBA {
	return color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
}

func TestMap_RGB(t *testing.T) {
	input := writeTemp(t, "in.rgb", elements(12))
	output := filepath.Join(t.TempDir(), "out.png")

	out, _, err := execute(t, nil, "map", input, "-o", output)
	require.NoError(t, err)
	assert.Contains(t, out, "Mapped 4 elements along hilbert onto a 2x2 grid (0 unset cells)")

	img := decodePNG(t, output)
	assert.Equal(t, image.Rect(0, 0, 2, 2), img.Bounds())
	assert.Equal(t, color.RGBA{1, 2, 3, 255}, pixel(img, 0, 0))
	assert.Equal(t, color.RGBA{4, 5, 6, 255}, pixel(img, 0, 1))
	assert.Equal(t, color.RGBA{7, 8, 9, 255}, pixel(img, 1, 1))
	assert.Equal(t, color.RGBA{10, 11, 12, 255}, pixel(img, 1, 0))
}

func TestMap_GrayWithUnsetCell(t *testing.T) {
	input := writeTemp(t, "in.bin", elements(3))
	output := filepath.Join(t.TempDir(), "out.png")

	out, _, err := execute(t, nil, "map", "--elem-size", "1", input, "-o", output, "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string    `json:"status"`
		Data   MapResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, MapResult{
		Curve:    "hilbert",
		Length:   3,
		ElemSize: 1,
		Width:    2,
		Unset:    1,
		Output:   output,
		Encoding: "png",
	}, resp.Data)

	img := decodePNG(t, output)
	gray := color.GrayModel.Convert(img.At(1, 1)).(color.Gray)
	assert.Equal(t, uint8(3), gray.Y)
	unset := color.GrayModel.Convert(img.At(1, 0)).(color.Gray)
	assert.Equal(t, uint8(0), unset.Y)
}

func TestMap_RawToStdout(t *testing.T) {
	out, _, err := execute(t, elements(8), "map", "--elem-size", "2", "-", "-o", "-")
	require.NoError(t, err)

	// row-major cells (0,0) (1,0) (0,1) (1,1) hold elements 0, 3, 1, 2
	assert.Equal(t, []byte{1, 2, 7, 8, 3, 4, 5, 6}, []byte(out))
}

func TestMap_GrammarCurveMatchesDirect(t *testing.T) {
	input := writeTemp(t, "in.rgb", elements(3*13))
	dir := t.TempDir()
	direct := filepath.Join(dir, "direct.png")
	grammar := filepath.Join(dir, "grammar.png")

	_, _, err := execute(t, nil, "map", input, "-o", direct)
	require.NoError(t, err)
	_, _, err = execute(t, nil, "map", "--curve", "hilbert-grammar", input, "-o", grammar)
	require.NoError(t, err)

	a, err := os.ReadFile(direct)
	require.NoError(t, err)
	b, err := os.ReadFile(grammar)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestMap_CustomCurve(t *testing.T) {
	input := writeTemp(t, "in.rgb", elements(12))
	output := filepath.Join(t.TempDir(), "out.png")

	_, _, err := execute(t, nil, "--curves", curvesDir, "map", "--curve", "transposed", input, "-o", output)
	require.NoError(t, err)

	img := decodePNG(t, output)
	assert.Equal(t, color.RGBA{4, 5, 6, 255}, pixel(img, 1, 0))
	assert.Equal(t, color.RGBA{10, 11, 12, 255}, pixel(img, 0, 1))
}

func TestMap_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		args     []string
		wantCode string
	}{
		{"empty input", []byte{}, nil, "INVALID_LENGTH"},
		{"partial element", elements(5), nil, "INVALID_PAYLOAD"},
		{"zero element size", elements(3), []string{"--elem-size", "0"}, "INVALID_PAYLOAD"},
		{"unknown curve", elements(3), []string{"--curve", "peano"}, "UNKNOWN_CURVE"},
		{"depth on direct curve", elements(3), []string{"--depth", "2"}, "INVALID_GRAMMAR"},
		{"grammar too shallow", elements(3 * 16), []string{"--curve", "hilbert-grammar", "--depth", "1"}, "INVALID_GRAMMAR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := writeTemp(t, "in.bin", tt.input)
			args := append([]string{"map", input, "-o", filepath.Join(t.TempDir(), "out.png")}, tt.args...)

			out, _, err := execute(t, nil, args...)
			require.Error(t, err)
			assert.Equal(t, ExitFailure, GetExitCode(err))
			assert.Contains(t, out, "Error ["+tt.wantCode+"]")
		})
	}
}

func TestMap_MissingInput(t *testing.T) {
	_, _, err := execute(t, nil, "map", "/nonexistent/input.rgb", "-o", "-")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestMap_BadCurvesDir(t *testing.T) {
	input := writeTemp(t, "in.rgb", elements(3))
	_, _, err := execute(t, nil, "--curves", filepath.Join("..", "compiler", "testdata", "broken"), "map", input, "-o", "-")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "failed to load curves")
}
