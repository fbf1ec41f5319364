package compiler

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/roach88/uncurl/internal/ir"
)

// LoadMode controls how errors are handled during curve loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// Load error codes.
const (
	ErrCodeNotFound     = "E001"
	ErrCodeNoFiles      = "E002"
	ErrCodeScanError    = "E003"
	ErrCodeLoadFailed   = "E004"
	ErrCodeBuildFailed  = "E005"
	ErrCodeCompileError = "E006"
	ErrCodeGeneric      = "E099"
)

// LoadResult contains the curves loaded from a directory or source.
type LoadResult struct {
	Curves    []ir.Grammar
	FileCount int
}

// LoadError represents an error that occurred during curve loading.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// fail is the single-error result of a load that could not get as far as
// compiling curves.
func fail(code, format string, args ...any) (*LoadResult, []error) {
	return nil, []error{&LoadError{Code: code, Message: fmt.Sprintf(format, args...)}}
}

// LoadDir loads, compiles and validates every curve in the CUE package at
// dir. LoadModeFailFast stops at the first bad curve; LoadModeCollectAll
// reports them all and still returns the good ones.
func LoadDir(dir string, mode LoadMode) (*LoadResult, []error) {
	switch info, err := os.Stat(dir); {
	case errors.Is(err, fs.ErrNotExist):
		return fail(ErrCodeNotFound, "curves directory not found: %s", dir)
	case err != nil:
		return fail(ErrCodeNotFound, "error accessing curves directory: %v", err)
	case !info.IsDir():
		return fail(ErrCodeNotFound, "not a directory: %s", dir)
	}

	files, err := FindCUEFiles(dir)
	if err != nil {
		return fail(ErrCodeScanError, "error scanning directory: %v", err)
	}
	if len(files) == 0 {
		return fail(ErrCodeNoFiles, "no CUE files found in %s", dir)
	}

	insts := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(insts) == 0 {
		return fail(ErrCodeLoadFailed, "no CUE instances loaded")
	}
	if insts[0].Err != nil {
		return fail(ErrCodeLoadFailed, "loading CUE files: %v", insts[0].Err)
	}

	value := cuecontext.New().BuildInstance(insts[0])
	if err := value.Err(); err != nil {
		return fail(ErrCodeBuildFailed, "building CUE value: %v", err)
	}

	c := collector{mode: mode, result: &LoadResult{FileCount: len(files)}}
	c.curves(value)
	return c.result, c.errs
}

// LoadSource compiles and validates the curves of a single CUE document.
func LoadSource(filename string, src []byte, mode LoadMode) (*LoadResult, []error) {
	value := cuecontext.New().CompileBytes(src, cue.Filename(filename))
	if err := value.Err(); err != nil {
		return fail(ErrCodeBuildFailed, "building CUE value: %v", err)
	}
	c := collector{mode: mode, result: &LoadResult{FileCount: 1}}
	c.curves(value)
	return c.result, c.errs
}

type collector struct {
	mode   LoadMode
	result *LoadResult
	errs   []error
}

// add records err and reports whether loading should go on.
func (c *collector) add(err error) bool {
	c.errs = append(c.errs, err)
	return c.mode != LoadModeFailFast
}

// curves walks the top-level curve struct. Curves are only kept when they
// both compile and validate.
func (c *collector) curves(value cue.Value) {
	curvesVal := value.LookupPath(cue.ParsePath("curve"))
	if !curvesVal.Exists() {
		return
	}
	iter, err := curvesVal.Fields()
	if err != nil {
		c.add(&LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("iterating curves: %v", err)})
		return
	}

	for iter.Next() {
		label := "curve." + iter.Label()
		g, err := CompileCurve(iter.Value())
		if err != nil {
			if !c.add(convertCompileError(err, label)) {
				return
			}
			continue
		}
		verrs := Validate(g)
		for _, ve := range verrs {
			if !c.add(&LoadError{Code: ve.Code, Message: fmt.Sprintf("%s.%s: %s", label, ve.Field, ve.Message)}) {
				return
			}
		}
		if len(verrs) == 0 {
			c.result.Curves = append(c.result.Curves, *g)
		}
	}
}

// convertCompileError converts a CompileError into a LoadError.
func convertCompileError(err error, label string) *LoadError {
	var ce *CompileError
	if errors.As(err, &ce) {
		return &LoadError{
			Code:    ErrCodeCompileError,
			Message: fmt.Sprintf("%s.%s: %s", label, ce.Field, ce.Message),
			Pos:     ce.Pos,
		}
	}
	return &LoadError{Code: ErrCodeCompileError, Message: fmt.Sprintf("%s: %v", label, err)}
}

// FindCUEFiles returns the sorted .cue files directly inside dir.
func FindCUEFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".cue" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}
