package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStack_HardCapacity(t *testing.T) {
	s := NewStack(2)
	assert.Equal(t, 2, s.Cap())
	assert.Nil(t, s.Top())

	require.True(t, s.Push(Frame{Rule: 0}))
	require.True(t, s.Push(Frame{Rule: 1}))
	assert.False(t, s.Push(Frame{Rule: 2}), "push beyond capacity is refused")
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, 1, s.Top().Rule)

	s.Top().PC = 7
	f, ok := s.Pop()
	require.True(t, ok)
	assert.Equal(t, Frame{Rule: 1, PC: 7}, f)

	_, ok = s.Pop()
	require.True(t, ok)
	_, ok = s.Pop()
	assert.False(t, ok)

	assert.Equal(t, 2, s.HighWater())
}

func TestStack_ZeroCapacity(t *testing.T) {
	s := NewStack(0)
	assert.False(t, s.Push(Frame{}))
	assert.Equal(t, 0, s.HighWater())

	neg := NewStack(-4)
	assert.Equal(t, 0, neg.Cap())
}
