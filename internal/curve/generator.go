package curve

import "github.com/roach88/uncurl/internal/ir"

// Generator produces grid coordinates in curve order.
// Next returns false once the generator is exhausted.
type Generator interface {
	Next() (ir.Point, bool)
}

// Step is one (index, x, y) triple.
type Step struct {
	Index int      `json:"index"`
	Point ir.Point `json:"point"`
}

// Producer numbers the coordinates of a generator, stopping after limit steps.
type Producer struct {
	gen   Generator
	limit int
	next  int
}

// NewProducer yields at most limit steps from gen.
func NewProducer(gen Generator, limit int) *Producer {
	return &Producer{gen: gen, limit: limit}
}

// Next returns the next triple, or false when the limit is reached or the
// generator is exhausted.
func (p *Producer) Next() (Step, bool) {
	if p.next >= p.limit {
		return Step{}, false
	}
	pt, ok := p.gen.Next()
	if !ok {
		return Step{}, false
	}
	s := Step{Index: p.next, Point: pt}
	p.next++
	return s, true
}

// Produced returns how many steps have been yielded.
func (p *Producer) Produced() int {
	return p.next
}
