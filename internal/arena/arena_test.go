// Copyright 2024 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package arena

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAllocateBumpsWithinChunk(t *testing.T) {
	a := New()
	b1 := a.Allocate(16)
	b2 := a.Allocate(16)
	require.Len(t, b1, 16)
	require.Len(t, b2, 16)
	// Both allocations came out of the same 4096-byte chunk.
	require.Equal(t, uint64(blockSize), a.MemoryUsage())
}

func TestAllocateLargeGetsDedicatedBlock(t *testing.T) {
	a := New()
	a.Allocate(8)
	before := a.MemoryUsage()
	big := a.Allocate(blockSize) // > blockSize/4, gets its own block
	require.Len(t, big, blockSize)
	require.Equal(t, before+blockSize, a.MemoryUsage())
}

func TestAllocateSpansMultipleChunks(t *testing.T) {
	a := New()
	const n = blockSize/4 - 1 // small enough to trigger a fresh chunk, not a dedicated block
	for i := 0; i < 10; i++ {
		b := a.Allocate(n)
		require.Len(t, b, n)
	}
	require.Greater(t, a.MemoryUsage(), uint64(0))
}

func TestAllocateAlignedIsWordAligned(t *testing.T) {
	a := New()
	for n := 1; n <= 9; n++ {
		_ = a.Allocate(n) // walk the chunk cursor through every misalignment
		b := a.AllocateAligned(24)
		require.Len(t, b, 24)
		addr := reflect.ValueOf(&b[0]).Pointer()
		require.Zero(t, addr%8, "AllocateAligned returned an address not aligned to 8 bytes")
	}
}

func TestAllocationsDoNotOverlap(t *testing.T) {
	a := New()
	bufs := make([][]byte, 100)
	for i := range bufs {
		bufs[i] = a.Allocate(17)
		for j := range bufs[i] {
			bufs[i][j] = byte(i)
		}
	}
	for i, b := range bufs {
		for _, v := range b {
			require.Equal(t, byte(i), v)
		}
	}
}

func TestZeroOrNegativeAllocationPanics(t *testing.T) {
	a := New()
	require.Panics(t, func() { a.Allocate(0) })
}
