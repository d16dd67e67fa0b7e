// Copyright 2024 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sstable

import (
	"encoding/binary"

	"github.com/duskdb/sstable/internal/base"
)

// magic is the 8-byte footer magic number, bit-exact with the classic
// leveldb on-disk format.
const magic uint64 = 0xdb4775248b80fb57

// footerLen is the fixed size of the trailing footer: two block handles,
// zero-padded to 40 bytes, plus the 8-byte magic.
const footerLen = 48

// blockTrailerLen is the size of the trailer appended after every block's
// payload: 1 compression-type byte plus a 4-byte little-endian masked CRC.
const blockTrailerLen = 5

// BlockHandle identifies a byte range within a table file.
type BlockHandle struct {
	Offset uint64
	Length uint64
}

// encode appends the varint-encoded handle to dst, returning the extended
// slice.
func (h BlockHandle) encode(dst []byte) []byte {
	var buf [2 * binary.MaxVarintLen64]byte
	n := binary.PutUvarint(buf[:], h.Offset)
	n += binary.PutUvarint(buf[n:], h.Length)
	return append(dst, buf[:n]...)
}

// decodeBlockHandle decodes a BlockHandle from the front of src, returning
// the handle and the number of bytes consumed.
func decodeBlockHandle(src []byte) (BlockHandle, int, error) {
	offset, n := binary.Uvarint(src)
	if n <= 0 {
		return BlockHandle{}, 0, base.CorruptionErrorf("sstable: invalid block handle")
	}
	length, m := binary.Uvarint(src[n:])
	if m <= 0 {
		return BlockHandle{}, 0, base.CorruptionErrorf("sstable: invalid block handle")
	}
	return BlockHandle{Offset: offset, Length: length}, n + m, nil
}

// footer is the fully decoded contents of a table's trailing 48 bytes.
type footer struct {
	metaindexHandle BlockHandle
	indexHandle     BlockHandle
}

func (f footer) encode() []byte {
	buf := make([]byte, footerLen)
	n := 0
	enc := f.metaindexHandle.encode(nil)
	n += copy(buf[n:], enc)
	enc = f.indexHandle.encode(nil)
	n += copy(buf[n:], enc)
	// The remainder up to byte 40 is zero padding, already zero-valued.
	binary.LittleEndian.PutUint64(buf[40:], magic)
	return buf
}

func decodeFooter(buf []byte) (footer, error) {
	if len(buf) != footerLen {
		return footer{}, base.CorruptionErrorf("sstable: invalid footer length %d", len(buf))
	}
	if got := binary.LittleEndian.Uint64(buf[40:]); got != magic {
		return footer{}, base.CorruptionErrorf("sstable: invalid table (bad magic number)")
	}
	metaindexHandle, n, err := decodeBlockHandle(buf)
	if err != nil {
		return footer{}, err
	}
	indexHandle, _, err := decodeBlockHandle(buf[n:])
	if err != nil {
		return footer{}, err
	}
	return footer{metaindexHandle: metaindexHandle, indexHandle: indexHandle}, nil
}
