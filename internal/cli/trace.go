package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/uncurl/internal/curve"
	"github.com/roach88/uncurl/internal/engine"
	"github.com/roach88/uncurl/internal/ir"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	curveFlags
	Length int
	Limit  int
}

// TraceResult is the (index, x, y) sequence of a curve.
type TraceResult struct {
	Curve       string       `json:"curve"`
	GrammarHash string       `json:"grammar_hash,omitempty"`
	Width       int          `json:"width"`
	WidthLog2   int          `json:"width_log2"`
	Length      int          `json:"length"`
	Depth       int          `json:"depth,omitempty"`
	Steps       []curve.Step `json:"steps"`

	// Engine statistics, grammar curves only.
	StackHighWater int `json:"stack_high_water,omitempty"`
	Truncated      int `json:"truncated_invocations,omitempty"`
}

// Text renders a header comment and one "index x y" line per step.
func (r TraceResult) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s %dx%d length=%d", r.Curve, r.Width, r.Width, r.Length)
	if r.Depth > 0 {
		fmt.Fprintf(&b, " depth=%d", r.Depth)
	}
	b.WriteByte('\n')
	for _, s := range r.Steps {
		fmt.Fprintf(&b, "%d %d %d\n", s.Index, s.Point.X, s.Point.Y)
	}
	return b.String()
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Print the cells a curve visits",
		Long: `Print the (index, x, y) triples a curve produces for a sequence of
--length elements, in order.

Examples:
  uncurl trace --length 16
  uncurl trace --curve hilbert-grammar --length 64 --limit 8
  uncurl trace --curves ./curves --curve transposed --length 16 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	opts.curveFlags.register(cmd, false)
	cmd.Flags().IntVarP(&opts.Length, "length", "n", 0, "sequence length (required)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "print at most this many steps (0 = all)")
	_ = cmd.MarkFlagRequired("length")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	s := settings{cmd: cmd, cfg: opts.config()}

	reg, err := buildRegistry(opts.CurvesDir)
	if err != nil {
		return err
	}

	layout, err := reg.New(curve.Config{
		Curve:  ir.CurveType(s.curve(opts.Curve)),
		Length: opts.Length,
		Depth:  s.depth(opts.Depth),
	})
	if err != nil {
		return f.CoreError("failed to build curve", err)
	}

	limit := layout.Length
	if opts.Limit > 0 && opts.Limit < limit {
		limit = opts.Limit
	}

	gen := layout.Generator()
	p := curve.NewProducer(gen, limit)
	result := TraceResult{
		Curve:       string(layout.Info.Name),
		GrammarHash: layout.Info.Hash,
		Width:       layout.Dims.Width,
		WidthLog2:   layout.Dims.WidthLog2,
		Length:      layout.Length,
		Depth:       layout.Depth,
		Steps:       make([]curve.Step, 0, limit),
	}
	for {
		step, ok := p.Next()
		if !ok {
			break
		}
		result.Steps = append(result.Steps, step)
	}

	if e, ok := gen.(*engine.Engine); ok {
		result.StackHighWater = e.HighWater()
		result.Truncated = e.Truncated()
	}
	opts.logger().Debug("trace produced", "curve", result.Curve, "steps", len(result.Steps))

	return f.Success(result)
}
