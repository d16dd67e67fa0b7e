// Copyright 2024 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package crc computes the masked Castagnoli CRC-32 checksum used in every
// block trailer, matching the classic leveldb on-disk format.
package crc

import "hash/crc32"

var table = crc32.MakeTable(crc32.Castagnoli)

// Checksum is a CRC-32 value, as stored (masked) in a block trailer.
type Checksum uint32

// New returns the Castagnoli CRC-32 of b, unmasked.
func New(b []byte) Checksum {
	return Checksum(crc32.Checksum(b, table))
}

// Extend returns the Castagnoli CRC-32 of b appended to the data that
// produced c, unmasked.
func (c Checksum) Extend(b []byte) Checksum {
	return Checksum(crc32.Update(uint32(c), table, b))
}

// Mask returns a masked representation of c so it can be stored in a block
// trailer. leveldb masks the crc of the checksummed data so that a raw
// checksum of zero (the checksum of empty input) is not stored as zero,
// matching its util/crc32c.h Mask function.
func (c Checksum) Mask() uint32 {
	v := uint32(c)
	return ((v >> 15) | (v << 17)) + 0xa282ead8
}

// Unmask reverses Mask, recovering the raw CRC-32 value stored in a block
// trailer.
func Unmask(masked uint32) Checksum {
	rot := masked - 0xa282ead8
	return Checksum((rot >> 17) | (rot << 15))
}
