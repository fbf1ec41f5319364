package store

import (
	"context"
	"fmt"
)

// WriteSession inserts a session record into the store.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - duplicate IDs are silently ignored.
//
// The grammar, when present, is stored as canonical JSON and its content
// hash replaces sess.GrammarHash.
func (s *Store) WriteSession(ctx context.Context, sess Session) error {
	grammarJSON, grammarHash, err := marshalGrammar(sess.Grammar)
	if err != nil {
		return fmt.Errorf("write session: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions
		(id, curve, grammar, grammar_hash, source, length, width_log2, depth, elem_size, engine_version, ir_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		sess.ID,
		string(sess.Curve),
		grammarJSON,
		grammarHash,
		sess.Source,
		sess.Length,
		sess.WidthLog2,
		sess.Depth,
		sess.ElemSize,
		sess.EngineVersion,
		sess.IRVersion,
	)
	if err != nil {
		return fmt.Errorf("write session: %w", err)
	}

	return nil
}

// WriteLookup inserts a lookup record into the store.
// Uses ON CONFLICT DO NOTHING for idempotency - a (session, seq) pair is written once.
//
// Note: The session referenced by SessionID must exist (foreign key constraint).
func (s *Store) WriteLookup(ctx context.Context, l Lookup) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO lookups
		(session_id, seq, x, y, position)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`,
		l.SessionID,
		l.Seq,
		l.Point.X,
		l.Point.Y,
		nullablePosition(l.Position),
	)
	if err != nil {
		return fmt.Errorf("write lookup: %w", err)
	}

	return nil
}
