// Copyright 2024 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package crc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMaskRoundTrip(t *testing.T) {
	testCases := [][]byte{
		nil,
		[]byte(""),
		[]byte("a"),
		[]byte("hello world"),
		make([]byte, 4096),
	}
	for _, tc := range testCases {
		c := New(tc)
		masked := c.Mask()
		require.Equal(t, c, Unmask(masked))
	}
}

func TestMaskNeverZeroForZeroCRC(t *testing.T) {
	// The checksum of empty input is 0; its mask must not be zero, which is
	// the entire reason leveldb masks checksums before storing them.
	c := New(nil)
	require.Equal(t, Checksum(0), c)
	require.NotZero(t, c.Mask())
}

func TestExtend(t *testing.T) {
	whole := New([]byte("hello world"))
	parts := New([]byte("hello ")).Extend([]byte("world"))
	require.Equal(t, whole, parts)
}

func TestKnownValue(t *testing.T) {
	// Regression pin: the Castagnoli CRC-32 of "123456789" is a well known
	// test vector (0xE3069283).
	require.Equal(t, Checksum(0xE3069283), New([]byte("123456789")))
}
