// Copyright 2026 The Mongory Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package arena

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAllocZeroInitialized(t *testing.T) {
	a := New()
	b := a.Alloc(16)
	require.Len(t, b, 16)
	for _, c := range b {
		require.Zero(t, c)
	}
}

func TestAllocIsAligned(t *testing.T) {
	a := New()
	a.Alloc(3)
	b := a.Alloc(8)
	require.Len(t, b, 8)
	// The second region starts at offset 8, not 3: 8 + 8 bytes used.
	require.Equal(t, 16, a.Used())
}

func TestAllocGrowsChunks(t *testing.T) {
	a := New()
	require.Len(t, a.chunks, 1)

	// Exceed the initial 2 KiB chunk to force growth.
	_ = a.Alloc(initialChunkSize + 1)
	require.Len(t, a.chunks, 2)
	require.GreaterOrEqual(t, len(a.chunks[1].buf), initialChunkSize)
}

func TestAllocNeverMovesPriorRegions(t *testing.T) {
	a := New()
	first := a.Alloc(4)
	first[0] = 0xAB
	// Force a chunk grow.
	a.Alloc(initialChunkSize * 4)
	require.Equal(t, byte(0xAB), first[0])
}

func TestResetRetainsCapacityAndInvalidatesError(t *testing.T) {
	a := New()
	a.Alloc(16)
	_ = a.Alloc(-1) // sets the error slot
	require.NotNil(t, a.Error())

	a.Reset()
	require.Nil(t, a.Error())
	require.Equal(t, 0, a.Used())
	require.Len(t, a.chunks[0].buf, initialChunkSize)
}

func TestErrorDoesNotOverwriteFirstFailure(t *testing.T) {
	a := New()
	_ = a.Alloc(-1)
	first := a.Error()
	_ = a.Alloc(-2)
	require.Same(t, first, a.Error())
}

func TestFreeMakesArenaUnusable(t *testing.T) {
	a := New()
	a.Free()
	require.Nil(t, a.Alloc(8))
	require.NotNil(t, a.Error())
}

func TestAllocStringCopiesIntoArena(t *testing.T) {
	a := New()
	src := []byte("hello")
	s := a.AllocString(string(src))
	src[0] = 'H'
	require.Equal(t, "hello", s)
}

func TestTraceAdoptsForeignAllocation(t *testing.T) {
	a := New()
	foreign := make([]byte, 4)
	a.Trace(foreign)
	require.Len(t, a.adopted, 1)
	a.Free()
	require.Nil(t, a.adopted)
}
