package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/uncurl/internal/engine"
	"github.com/roach88/uncurl/internal/ir"
)

// createTestStore creates a new store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestSession creates a grammar session with minimal required fields.
func createTestSession(id string) Session {
	g := engine.Hilbert()
	return Session{
		ID:            id,
		Curve:         ir.CurveHilbertGrammar,
		Grammar:       &g,
		Source:        "input.bin",
		Length:        10,
		WidthLog2:     2,
		Depth:         2,
		ElemSize:      3,
		EngineVersion: ir.EngineVersion,
		IRVersion:     ir.IRVersion,
	}
}

func intPtr(v int) *int { return &v }
