package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/uncurl/internal/compiler"
	"github.com/roach88/uncurl/internal/curve"
	"github.com/roach88/uncurl/internal/ir"
	"github.com/roach88/uncurl/internal/mapping"
)

// buildRegistry returns the builtin curves plus every curve defined in dir.
// An empty dir yields the builtins only.
func buildRegistry(dir string) (*curve.Registry, error) {
	reg := curve.NewRegistry()
	if dir == "" {
		return reg, nil
	}

	loaded, errs := compiler.LoadDir(dir, compiler.LoadModeFailFast)
	if len(errs) > 0 {
		return nil, WrapExitError(ExitCommandError, fmt.Sprintf("failed to load curves from %s", dir), errors.Join(errs...))
	}
	for _, g := range loaded.Curves {
		if err := reg.RegisterGrammar(g); err != nil {
			return nil, WrapExitError(ExitCommandError, fmt.Sprintf("failed to register curve %q", g.Name), err)
		}
	}
	return reg, nil
}

// readInput reads a whole input file; "-" reads the command's stdin.
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to read stdin", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to read input", err)
	}
	return data, nil
}

// curveFlags are the flags shared by commands that build a layout.
type curveFlags struct {
	Curve    string
	Depth    int
	ElemSize int
}

func (f *curveFlags) register(cmd *cobra.Command, withElemSize bool) {
	cmd.Flags().StringVar(&f.Curve, "curve", string(ir.CurveHilbert), "curve name (see 'uncurl curves')")
	cmd.Flags().IntVar(&f.Depth, "depth", 0, "grammar recursion depth (default: grid width_log2)")
	if withElemSize {
		cmd.Flags().IntVar(&f.ElemSize, "elem-size", 3, "bytes per sequence element")
	}
}

// loaded is an input scattered along a curve.
type loaded struct {
	Layout   *curve.Layout
	Mapping  *mapping.Mapping
	Source   string
	ElemSize int
}

// loadMapping reads input and scatters it along the selected curve.
// Core errors are reported through f and come back as ExitFailure.
func (o *RootOptions) loadMapping(cmd *cobra.Command, f *OutputFormatter, flags curveFlags, input string) (*loaded, error) {
	s := settings{cmd: cmd, cfg: o.config()}
	log := o.logger()

	reg, err := buildRegistry(o.CurvesDir)
	if err != nil {
		return nil, err
	}

	payload, err := readInput(cmd, input)
	if err != nil {
		return nil, err
	}

	elemSize := s.elemSize(flags.ElemSize)
	if elemSize < 1 {
		return nil, f.CoreError("invalid element size", ir.NewError(ir.ErrCodeInvalidPayload, "element size must be at least 1, got %d", elemSize))
	}
	if len(payload)%elemSize != 0 {
		return nil, f.CoreError("invalid payload", ir.NewError(ir.ErrCodeInvalidPayload,
			"input of %d bytes is not a multiple of %d", len(payload), elemSize))
	}

	layout, err := reg.New(curve.Config{
		Curve:  ir.CurveType(s.curve(flags.Curve)),
		Length: len(payload) / elemSize,
		Depth:  s.depth(flags.Depth),
	})
	if err != nil {
		return nil, f.CoreError("failed to build curve", err)
	}
	log.Debug("layout ready",
		"curve", layout.Info.Name,
		"length", layout.Length,
		"width", layout.Dims.Width,
		"depth", layout.Depth,
	)

	m, err := mapping.Build(layout, payload, elemSize)
	if err != nil {
		return nil, f.CoreError("failed to map input", err)
	}
	log.Debug("mapping built", "unset_cells", m.UnsetCells())

	return &loaded{Layout: layout, Mapping: m, Source: input, ElemSize: elemSize}, nil
}
