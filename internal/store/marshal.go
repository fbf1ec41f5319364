package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/roach88/uncurl/internal/ir"
)

// marshalGrammar converts a grammar to canonical JSON TEXT and its hash.
// A nil grammar stores as NULL.
func marshalGrammar(g *ir.Grammar) (sql.NullString, sql.NullString, error) {
	if g == nil {
		return sql.NullString{}, sql.NullString{}, nil
	}
	data, err := ir.MarshalCanonical(ir.GrammarObject(*g))
	if err != nil {
		return sql.NullString{}, sql.NullString{}, fmt.Errorf("marshal grammar: %w", err)
	}
	hash, err := ir.GrammarHash(*g)
	if err != nil {
		return sql.NullString{}, sql.NullString{}, fmt.Errorf("hash grammar: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, sql.NullString{String: hash, Valid: true}, nil
}

// unmarshalGrammar converts stored grammar TEXT back to a grammar.
func unmarshalGrammar(text sql.NullString) (*ir.Grammar, error) {
	if !text.Valid {
		return nil, nil
	}
	var g ir.Grammar
	if err := json.Unmarshal([]byte(text.String), &g); err != nil {
		return nil, fmt.Errorf("unmarshal grammar: %w", err)
	}
	return &g, nil
}

func nullablePosition(pos *int) sql.NullInt64 {
	if pos == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*pos), Valid: true}
}

func positionFromNull(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	p := int(v.Int64)
	return &p
}
