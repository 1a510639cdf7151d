package controller_test

import (
	"testing"

	"github.com/joao678/Xidi-xtended/pkg/controller"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBufferPushAndPop(t *testing.T) {
	b := controller.NewEventBuffer(4)
	b.Push(1, 0, 10)
	b.Push(2, 0, 20)
	b.Push(3, 0, 30)

	got := b.PeekOldest(2)
	require.Len(t, got, 2)
	assert.Equal(t, int32(10), got[0].Value)
	assert.Equal(t, int32(20), got[1].Value)
	assert.False(t, b.Overflow())

	popped := b.PopOldest(1)
	require.Len(t, popped, 1)
	assert.Equal(t, int32(10), popped[0].Value)

	remaining := b.PeekOldest(10)
	require.Len(t, remaining, 2)
	assert.Equal(t, int32(20), remaining[0].Value)
}

func TestEventBufferOverflowIsSticky(t *testing.T) {
	b := controller.NewEventBuffer(2)
	b.Push(1, 0, 1)
	b.Push(2, 0, 2)
	b.Push(3, 0, 3)
	assert.True(t, b.Overflow())

	got := b.PeekOldest(2)
	require.Len(t, got, 2)
	assert.Equal(t, int32(2), got[0].Value)
	assert.Equal(t, int32(3), got[1].Value)

	assert.True(t, b.Overflow())
	b.ClearOverflow()
	assert.False(t, b.Overflow())
}

func TestEventBufferSequenceIsMonotonic(t *testing.T) {
	b := controller.NewEventBuffer(3)
	b.Push(1, 0, 1)
	b.Push(1, 0, 2)
	got := b.PeekOldest(2)
	require.Len(t, got, 2)
	assert.Equal(t, uint64(1), got[0].Sequence)
	assert.Equal(t, uint64(2), got[1].Sequence)
}

func TestEventBufferDisabledIsNoop(t *testing.T) {
	b := controller.NewEventBuffer(0)
	b.Push(1, 0, 1)
	assert.Empty(t, b.PeekOldest(5))
	assert.False(t, b.Overflow())
}

func TestEventBufferResizeDiscardsBacklog(t *testing.T) {
	b := controller.NewEventBuffer(2)
	b.Push(1, 0, 1)
	b.Push(2, 0, 2)
	b.Push(3, 0, 3)
	require.True(t, b.Overflow())

	b.Resize(5)
	assert.Empty(t, b.PeekOldest(5))
	assert.False(t, b.Overflow())
	assert.Equal(t, 5, b.Capacity())
}
