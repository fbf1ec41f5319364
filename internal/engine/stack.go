package engine

// Frame is one active rule expansion.
type Frame struct {
	Rule int // index into Grammar.Rules
	PC   int // next instruction to execute
}

// Stack holds the active expansions with a hard capacity.
//
// The capacity is the recursion bound. Push refuses to grow past it
// instead of reallocating, so the bound holds however the stack is used.
type Stack struct {
	frames    []Frame
	capacity  int
	highWater int
}

// NewStack creates an empty stack that never holds more than capacity frames.
func NewStack(capacity int) *Stack {
	if capacity < 0 {
		capacity = 0
	}
	return &Stack{
		frames:   make([]Frame, 0, capacity),
		capacity: capacity,
	}
}

// Push adds f on top. Returns false, leaving the stack unchanged, when full.
func (s *Stack) Push(f Frame) bool {
	if len(s.frames) >= s.capacity {
		return false
	}
	s.frames = append(s.frames, f)
	if len(s.frames) > s.highWater {
		s.highWater = len(s.frames)
	}
	return true
}

// Pop removes and returns the top frame.
func (s *Stack) Pop() (Frame, bool) {
	if len(s.frames) == 0 {
		return Frame{}, false
	}
	f := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	return f, true
}

// Top returns the top frame for in-place update, or nil when empty.
// The pointer is valid until the next Push or Pop.
func (s *Stack) Top() *Frame {
	if len(s.frames) == 0 {
		return nil
	}
	return &s.frames[len(s.frames)-1]
}

// Len returns the current height.
func (s *Stack) Len() int {
	return len(s.frames)
}

// Cap returns the capacity.
func (s *Stack) Cap() int {
	return s.capacity
}

// HighWater returns the largest height the stack has reached.
// Used for diagnostics and for checking the depth bound in tests.
func (s *Stack) HighWater() int {
	return s.highWater
}
