package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/roach88/uncurl/internal/compiler"
	"github.com/roach88/uncurl/internal/curve"
	"github.com/roach88/uncurl/internal/ir"
	"github.com/roach88/uncurl/internal/mapping"
	"github.com/roach88/uncurl/internal/store"
)

// Harness holds the per-run collaborators.
type Harness struct {
	registry *curve.Registry
	store    *store.Store
	ids      store.IDGenerator
	logger   *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Execution flow:
//  1. Register the scenario's CUE curves
//  2. Build the layout (a construction error ends the run; error assertions apply)
//  3. Record every curve step in the trace
//  4. Scatter a deterministic payload and resolve the scenario's lookups
//     through a fresh in-memory lookup log
//  5. Evaluate assertions
//
// The returned error covers failures of the harness itself (unreadable
// curve files, store failures), not assertion failures.
func Run(scenario *Scenario) (*Result, error) {
	return RunWithLogger(scenario, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// RunWithLogger is Run with a caller-supplied logger.
func RunWithLogger(scenario *Scenario, logger *slog.Logger) (*Result, error) {
	st, err := store.Open(store.MemoryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	sessionID := scenario.SessionID
	if sessionID == "" {
		sessionID = defaultSessionID
	}

	h := &Harness{
		registry: curve.NewRegistry(),
		store:    st,
		ids:      store.NewFixedGenerator(sessionID),
		logger:   logger,
	}

	if err := h.registerCurves(scenario.Curves); err != nil {
		return nil, err
	}

	result := NewResult()
	ctx := context.Background()
	m, err := h.execute(ctx, scenario, result)
	if err != nil {
		return nil, err
	}

	for _, msg := range EvaluateAssertions(result, m, scenario.Assertions) {
		result.AddError(msg)
	}

	h.logger.Info("scenario finished",
		"scenario", scenario.Name,
		"pass", result.Pass,
		"errors", len(result.Errors),
	)
	return result, nil
}

func (h *Harness) registerCurves(paths []string) error {
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("curve path %s: %w", path, err)
		}

		var (
			loaded *compiler.LoadResult
			errs   []error
		)
		if info.IsDir() {
			loaded, errs = compiler.LoadDir(path, compiler.LoadModeFailFast)
		} else {
			src, readErr := os.ReadFile(path)
			if readErr != nil {
				return fmt.Errorf("failed to read curve file: %w", readErr)
			}
			loaded, errs = compiler.LoadSource(path, src, compiler.LoadModeFailFast)
		}
		if len(errs) > 0 {
			return fmt.Errorf("load curves from %s: %w", path, errors.Join(errs...))
		}

		for _, g := range loaded.Curves {
			if err := h.registry.RegisterGrammar(g); err != nil {
				return fmt.Errorf("register curve from %s: %w", path, err)
			}
			h.logger.Debug("curve registered", "curve", g.Name, "path", path)
		}
	}
	return nil
}

// execute builds the mapping and fills the trace. A nil mapping with a nil
// error means construction was rejected and result.ErrorCode says why.
func (h *Harness) execute(ctx context.Context, scenario *Scenario, result *Result) (m *mapping.Mapping, err error) {
	layout, err := h.registry.New(curve.Config{
		Curve:  ir.CurveType(scenario.Curve),
		Length: scenario.Length,
		Depth:  scenario.Depth,
	})
	if err != nil {
		result.ErrorCode = ir.CodeOf(err)
		h.logger.Info("curve rejected", "scenario", scenario.Name, "error", err)
		return nil, nil
	}

	result.Curve = layout.Info.Name
	result.GrammarHash = layout.Info.Hash
	result.Dims = layout.Dims

	p := layout.Producer()
	for {
		s, ok := p.Next()
		if !ok {
			break
		}
		result.AddStepTrace(s.Index, s.Point)
	}

	elemSize := scenario.ElemSize
	if elemSize == 0 {
		elemSize = 1
	}
	payload := make([]byte, scenario.Length*elemSize)
	for i := 0; i < scenario.Length; i++ {
		for j := 0; j < elemSize; j++ {
			payload[i*elemSize+j] = byte(i)
		}
	}

	defer func() {
		if r := recover(); r != nil {
			inv, ok := r.(*ir.InvariantError)
			if !ok {
				panic(r)
			}
			result.AddError(inv.Error())
			m, err = nil, nil
		}
	}()

	m, err = mapping.Build(layout, payload, elemSize)
	if err != nil {
		result.ErrorCode = ir.CodeOf(err)
		return nil, nil
	}
	result.Unset = m.UnsetCells()

	rec, err := store.NewRecorder(ctx, h.store, store.Session{
		ID:            h.ids.Generate(),
		Curve:         layout.Info.Name,
		Grammar:       layout.Grammar(),
		Source:        scenario.Name,
		Length:        layout.Length,
		WidthLog2:     layout.Dims.WidthLog2,
		Depth:         layout.Depth,
		ElemSize:      elemSize,
		EngineVersion: ir.EngineVersion,
		IRVersion:     ir.IRVersion,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}

	for _, c := range scenario.Lookups {
		pt := ir.Point{X: c.X, Y: c.Y}
		var position *int
		if i, ok := m.Lookup(pt); ok {
			position = &i
		}
		l, err := rec.Record(ctx, pt, position)
		if err != nil {
			return nil, fmt.Errorf("failed to record lookup %s: %w", pt, err)
		}
		result.AddLookupTrace(l.Seq, l.Point, l.Position)
	}

	recorded, err := h.store.ReadLookups(ctx, rec.SessionID())
	if err != nil {
		return nil, fmt.Errorf("failed to read lookups: %w", err)
	}
	result.Recorded = len(recorded)

	return m, nil
}
