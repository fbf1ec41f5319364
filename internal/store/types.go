package store

import "github.com/roach88/uncurl/internal/ir"

// Session describes one mapped input.
type Session struct {
	ID            string       `json:"id"`
	Curve         ir.CurveType `json:"curve"`
	Grammar       *ir.Grammar  `json:"grammar,omitempty"`
	GrammarHash   string       `json:"grammar_hash,omitempty"`
	Source        string       `json:"source"` // input path, "-" for stdin
	Length        int          `json:"length"`
	WidthLog2     int          `json:"width_log2"`
	Depth         int          `json:"depth"`
	ElemSize      int          `json:"elem_size"`
	EngineVersion string       `json:"engine_version"`
	IRVersion     string       `json:"ir_version"`
}

// Lookup is one resolved grid cell. Position is nil for cells no element
// was written to.
type Lookup struct {
	SessionID string   `json:"session_id"`
	Seq       int64    `json:"seq"`
	Point     ir.Point `json:"point"`
	Position  *int     `json:"position"`
}
