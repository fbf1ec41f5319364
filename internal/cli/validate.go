package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/uncurl/internal/compiler"
)

// ValidationIssue is one problem found in a curves directory.
type ValidationIssue struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
	File    string `json:"file,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Files  int               `json:"files"`
	Curves []string          `json:"curves"`
	Errors []ValidationIssue `json:"errors,omitempty"`
}

// Text renders a summary line and one line per issue.
func (r ValidationResult) Text() string {
	var b strings.Builder
	if r.Valid {
		fmt.Fprintf(&b, "✓ %d curve(s) valid in %d file(s): %s\n", len(r.Curves), r.Files, strings.Join(r.Curves, ", "))
		return b.String()
	}
	fmt.Fprintf(&b, "✗ %d problem(s) found\n", len(r.Errors))
	for _, e := range r.Errors {
		if e.File != "" {
			fmt.Fprintf(&b, "  %s:%d: [%s] %s\n", e.File, e.Line, e.Code, e.Message)
		} else {
			fmt.Fprintf(&b, "  [%s] %s\n", e.Code, e.Message)
		}
	}
	return b.String()
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <curves-dir>",
		Short: "Validate CUE curve definitions",
		Long: `Compile and validate every curve in a directory of CUE files and report
all problems found.

Exit codes:
  0 - All curves valid
  1 - One or more curves invalid
  2 - Command error (directory missing, no CUE files, etc.)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, dir string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	loaded, loadErrors := compiler.LoadDir(dir, compiler.LoadModeCollectAll)

	// Directory-level failures: nothing was loaded at all
	if loaded == nil {
		var loadErr *compiler.LoadError
		if errors.As(loadErrors[0], &loadErr) {
			_ = f.Error(loadErr.Code, loadErr.Message, nil)
			return WrapExitError(ExitCommandError, "validation could not run", loadErr)
		}
		_ = f.Error("E099", loadErrors[0].Error(), nil)
		return WrapExitError(ExitCommandError, "validation could not run", loadErrors[0])
	}

	f.VerboseLog("Found %d CUE file(s) in %s", loaded.FileCount, dir)

	result := ValidationResult{
		Valid:  len(loadErrors) == 0,
		Files:  loaded.FileCount,
		Curves: []string{},
	}
	for _, g := range loaded.Curves {
		result.Curves = append(result.Curves, g.Name)
	}
	for _, err := range loadErrors {
		issue := ValidationIssue{Code: "E099", Message: err.Error()}
		var loadErr *compiler.LoadError
		if errors.As(err, &loadErr) {
			issue.Code = loadErr.Code
			issue.Message = loadErr.Message
			if loadErr.Pos.IsValid() {
				issue.File = loadErr.Pos.Filename()
				issue.Line = loadErr.Pos.Line()
			}
		}
		result.Errors = append(result.Errors, issue)
	}

	if err := f.Success(result); err != nil {
		return err
	}
	if !result.Valid {
		return NewExitError(ExitFailure, fmt.Sprintf("%d validation error(s)", len(result.Errors)))
	}
	return nil
}
