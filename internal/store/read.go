package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/uncurl/internal/ir"
)

const sessionColumns = `id, curve, grammar, grammar_hash, source, length, width_log2, depth, elem_size, engine_version, ir_version`

// ReadSession returns the session with the given id.
// Returns (Session{}, false, nil) if it does not exist.
func (s *Store) ReadSession(ctx context.Context, id string) (Session, bool, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id)
	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, err
	}
	return sess, true, nil
}

// ReadSessions returns every session ordered by id. UUIDv7 ids make this
// creation order.
//
// Returns an empty slice (not nil) if there are none.
func (s *Store) ReadSessions(ctx context.Context) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+sessionColumns+` FROM sessions ORDER BY id COLLATE BINARY ASC`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []Session{}
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

// ReadLookups returns all lookups of a session ordered by seq.
//
// Returns an empty slice (not nil) if there are none.
func (s *Store) ReadLookups(ctx context.Context, sessionID string) ([]Lookup, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id, seq, x, y, position
		FROM lookups
		WHERE session_id = ?
		ORDER BY seq ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query lookups: %w", err)
	}
	defer rows.Close()

	lookups := []Lookup{}
	for rows.Next() {
		var (
			l   Lookup
			pos sql.NullInt64
		)
		if err := rows.Scan(&l.SessionID, &l.Seq, &l.Point.X, &l.Point.Y, &pos); err != nil {
			return nil, fmt.Errorf("scan lookup: %w", err)
		}
		l.Position = positionFromNull(pos)
		lookups = append(lookups, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lookups: %w", err)
	}
	return lookups, nil
}

// LastSeq returns the highest lookup seq of a session, 0 if it has none.
func (s *Store) LastSeq(ctx context.Context, sessionID string) (int64, error) {
	var seq sql.NullInt64
	err := s.db.QueryRowContext(ctx, `SELECT MAX(seq) FROM lookups WHERE session_id = ?`, sessionID).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("query last seq: %w", err)
	}
	return seq.Int64, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (Session, error) {
	var (
		sess        Session
		curve       string
		grammarJSON sql.NullString
		grammarHash sql.NullString
	)
	err := row.Scan(
		&sess.ID,
		&curve,
		&grammarJSON,
		&grammarHash,
		&sess.Source,
		&sess.Length,
		&sess.WidthLog2,
		&sess.Depth,
		&sess.ElemSize,
		&sess.EngineVersion,
		&sess.IRVersion,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, err
	}
	if err != nil {
		return Session{}, fmt.Errorf("scan session: %w", err)
	}

	sess.Curve = ir.CurveType(curve)
	sess.GrammarHash = grammarHash.String
	if sess.Grammar, err = unmarshalGrammar(grammarJSON); err != nil {
		return Session{}, err
	}
	return sess, nil
}
