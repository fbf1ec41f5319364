package cli

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/uncurl/internal/mapping"
)

// MapOptions holds flags for the map command.
type MapOptions struct {
	*RootOptions
	curveFlags
	Output string
}

// MapResult summarizes a written grid.
type MapResult struct {
	Curve    string `json:"curve"`
	Length   int    `json:"length"`
	ElemSize int    `json:"elem_size"`
	Width    int    `json:"width"`
	Unset    int    `json:"unset_cells"`
	Output   string `json:"output"`
	Encoding string `json:"encoding"` // "png" or "raw"
}

// Text renders the summary for text output.
func (r MapResult) Text() string {
	return fmt.Sprintf("Mapped %d elements along %s onto a %dx%d grid (%d unset cells)\nWrote %s (%s)\n",
		r.Length, r.Curve, r.Width, r.Width, r.Unset, r.Output, r.Encoding)
}

// NewMapCommand creates the map command.
func NewMapCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MapOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "map <input>",
		Short: "Scatter an input onto the grid and write it out",
		Long: `Scatter the elements of an input file onto the smallest square grid
along the selected curve.

3-byte elements are written as an RGB PNG, 1-byte elements as a grayscale
PNG. Any other element size is written as the raw row-major grid. Unset
cells are zero. Use "-" for stdin or stdout.

Examples:
  uncurl map image.rgb -o grid.png
  uncurl map --elem-size 1 --curve hilbert-grammar data.bin -o grid.png
  cat data.bin | uncurl map --elem-size 8 - -o grid.raw`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMap(opts, args[0], cmd)
		},
	}

	opts.curveFlags.register(cmd, true)
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output path, \"-\" for stdout (required)")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func runMap(opts *MapOptions, input string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	l, err := opts.loadMapping(cmd, f, opts.curveFlags, input)
	if err != nil {
		return err
	}

	data, encoding, err := encodeGrid(l.Mapping)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to encode grid", err)
	}

	if opts.Output == "-" {
		if _, err := cmd.OutOrStdout().Write(data); err != nil {
			return WrapExitError(ExitCommandError, "failed to write output", err)
		}
		opts.logger().Info("grid written", "output", "stdout", "encoding", encoding, "bytes", len(data))
		return nil
	}

	if err := os.WriteFile(opts.Output, data, 0o644); err != nil {
		return WrapExitError(ExitCommandError, "failed to write output", err)
	}
	opts.logger().Debug("grid written", "output", opts.Output, "encoding", encoding, "bytes", len(data))

	return f.Success(MapResult{
		Curve:    string(l.Layout.Info.Name),
		Length:   l.Mapping.Length(),
		ElemSize: l.ElemSize,
		Width:    l.Mapping.Dimensions().Width,
		Unset:    l.Mapping.UnsetCells(),
		Output:   opts.Output,
		Encoding: encoding,
	})
}

// encodeGrid renders the scattered grid as PNG when the element size has
// a pixel format, raw bytes otherwise.
func encodeGrid(m *mapping.Mapping) ([]byte, string, error) {
	width := m.Dimensions().Width
	cells := m.Grid()
	rect := image.Rect(0, 0, width, width)

	var img image.Image
	switch m.ElemSize() {
	case 3:
		rgba := image.NewRGBA(rect)
		for i := 0; i < width*width; i++ {
			rgba.Pix[i*4+0] = cells[i*3+0]
			rgba.Pix[i*4+1] = cells[i*3+1]
			rgba.Pix[i*4+2] = cells[i*3+2]
			rgba.Pix[i*4+3] = 0xff
		}
		img = rgba
	case 1:
		gray := image.NewGray(rect)
		copy(gray.Pix, cells)
		img = gray
	default:
		return append([]byte(nil), cells...), "raw", nil
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), "png", nil
}
