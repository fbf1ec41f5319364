package store

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/roach88/uncurl/internal/ir"
)

// Clock is a monotonic logical clock for lookup ordering.
//
// Thread-safety: Clock is safe for concurrent use (atomic operations).
type Clock struct {
	seq atomic.Int64
}

// NewClockAt creates a clock whose next value is start+1.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number and increments the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}

// Recorder appends lookups to one session.
type Recorder struct {
	store     *Store
	sessionID string
	clock     *Clock
}

// NewRecorder writes sess (a no-op if it already exists) and returns a
// recorder that continues after the session's last recorded lookup.
func NewRecorder(ctx context.Context, s *Store, sess Session) (*Recorder, error) {
	if err := s.WriteSession(ctx, sess); err != nil {
		return nil, err
	}
	last, err := s.LastSeq(ctx, sess.ID)
	if err != nil {
		return nil, fmt.Errorf("resume session %s: %w", sess.ID, err)
	}
	return &Recorder{store: s, sessionID: sess.ID, clock: NewClockAt(last)}, nil
}

// SessionID returns the session the recorder appends to.
func (r *Recorder) SessionID() string {
	return r.sessionID
}

// Record stores a resolved cell. position is nil for an unset cell.
func (r *Recorder) Record(ctx context.Context, p ir.Point, position *int) (Lookup, error) {
	l := Lookup{
		SessionID: r.sessionID,
		Seq:       r.clock.Next(),
		Point:     p,
		Position:  position,
	}
	if err := r.store.WriteLookup(ctx, l); err != nil {
		return Lookup{}, err
	}
	return l, nil
}
