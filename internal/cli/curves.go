package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/uncurl/internal/compiler"
	"github.com/roach88/uncurl/internal/curve"
)

// CurveEntry describes one registered curve.
type CurveEntry struct {
	curve.Info
	Rules map[string]string `json:"rules,omitempty"` // rule name -> L-system program
	Axiom string            `json:"axiom,omitempty"`
}

// CurvesResult lists the registered curves.
type CurvesResult struct {
	Curves []CurveEntry `json:"curves"`
}

// Text renders one curve per line, with grammar rules indented below.
func (r CurvesResult) Text() string {
	var b strings.Builder
	for _, c := range r.Curves {
		origin := "custom"
		if c.Builtin {
			origin = "builtin"
		}
		fmt.Fprintf(&b, "%-20s %-8s %-8s %s\n", c.Name, c.Kind, origin, c.Description)
		for _, name := range sortedRuleNames(c) {
			fmt.Fprintf(&b, "    %s = %s\n", name, c.Rules[name])
		}
	}
	return b.String()
}

// sortedRuleNames lists the axiom first, then the other rules by name.
func sortedRuleNames(c CurveEntry) []string {
	if len(c.Rules) == 0 {
		return nil
	}
	names := []string{c.Axiom}
	var rest []string
	for name := range c.Rules {
		if name != c.Axiom {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(names, rest...)
}

// NewCurvesCommand creates the curves command.
func NewCurvesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "curves",
		Short: "List available curves",
		Long: `List the builtin curves and every curve defined in the --curves directory.

Examples:
  uncurl curves
  uncurl curves --curves ./curves --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCurves(rootOpts, cmd)
		},
	}

	return cmd
}

func runCurves(opts *RootOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	reg, err := buildRegistry(opts.CurvesDir)
	if err != nil {
		return err
	}

	result := CurvesResult{Curves: []CurveEntry{}}
	for _, info := range reg.List() {
		entry := CurveEntry{Info: info}
		if g, ok := reg.Grammar(info.Name); ok {
			entry.Rules = make(map[string]string, len(g.Rules))
			for _, r := range g.Rules {
				entry.Rules[r.Name] = compiler.FormatProgram(g, r)
			}
			entry.Axiom = g.Rules[0].Name
		}
		result.Curves = append(result.Curves, entry)
	}

	return f.Success(result)
}
