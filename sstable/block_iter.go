// Copyright 2024 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sstable

import (
	"encoding/binary"
	"sort"

	"github.com/duskdb/sstable/internal/base"
)

// blockIter is a cursor over a decoded block payload. It never mutates or
// retains ownership of data; the caller must keep data alive for the
// cursor's lifetime.
type blockIter struct {
	cmp base.Compare

	data     []byte
	restarts []byte // the raw restart array, num_restarts little-endian u32s
	numRestarts int
	restartsOff int // offset of the restart array within data

	// offset is the position in data of the record the cursor is currently
	// positioned on; entryEnd is one past its value bytes.
	offset, entryEnd int

	key   []byte
	value []byte
	valid bool
	err   error
}

func newBlockIter(cmp base.Compare, block []byte) (*blockIter, error) {
	i := &blockIter{cmp: cmp}
	if err := i.init(block); err != nil {
		return nil, err
	}
	return i, nil
}

func (i *blockIter) init(block []byte) error {
	if len(block) < 4 {
		return base.CorruptionErrorf("sstable: block too short")
	}
	numRestarts := int(binary.LittleEndian.Uint32(block[len(block)-4:]))
	restartsOff := len(block) - 4*(numRestarts+1)
	if numRestarts <= 0 || restartsOff < 0 || restartsOff > len(block)-4 {
		return base.CorruptionErrorf("sstable: invalid block restart offset")
	}
	i.data = block
	i.numRestarts = numRestarts
	i.restartsOff = restartsOff
	i.restarts = block[restartsOff : len(block)-4]
	return nil
}

func (i *blockIter) restart(idx int) uint32 {
	return binary.LittleEndian.Uint32(i.restarts[4*idx:])
}

// decodeEntry decodes the record at offset, returning the offset just past
// its value and setting i.key/i.value. It never scans past restartsOff.
func (i *blockIter) decodeEntry(offset int) (int, error) {
	p := i.data[offset:i.restartsOff]
	shared, n := binary.Uvarint(p)
	if n <= 0 {
		return 0, base.CorruptionErrorf("sstable: bad varint decoding shared length")
	}
	p = p[n:]
	nonShared, n := binary.Uvarint(p)
	if n <= 0 {
		return 0, base.CorruptionErrorf("sstable: bad varint decoding non-shared length")
	}
	p = p[n:]
	valueLen, n := binary.Uvarint(p)
	if n <= 0 {
		return 0, base.CorruptionErrorf("sstable: bad varint decoding value length")
	}
	p = p[n:]

	if shared > uint64(len(i.key)) {
		return 0, base.CorruptionErrorf("sstable: shared key length exceeds previous key")
	}
	if uint64(len(p)) < nonShared+valueLen {
		return 0, base.CorruptionErrorf("sstable: record runs past block")
	}

	key := make([]byte, shared+nonShared)
	copy(key, i.key[:shared])
	copy(key[shared:], p[:nonShared])
	i.key = key
	i.value = p[nonShared : nonShared+valueLen]

	consumed := len(i.data[offset:i.restartsOff]) - len(p) + int(nonShared) + int(valueLen)
	return offset + consumed, nil
}

func (i *blockIter) clearError() {
	i.err = nil
}

func (i *blockIter) corrupt(err error) bool {
	i.err = err
	i.valid = false
	i.key, i.value = nil, nil
	return false
}

// SeekGE implements Iterator.
func (i *blockIter) SeekGE(target []byte) bool {
	i.clearError()
	if i.restartsOff == 0 {
		i.valid = false
		return false
	}

	// Binary search the restart points for the last one whose key <=
	// target.
	index := sort.Search(i.numRestarts, func(idx int) bool {
		off := i.restart(idx)
		k, ok := i.restartKey(off)
		if !ok {
			return true
		}
		return i.cmp(k, target) > 0
	}) - 1
	if index < 0 {
		index = 0
	}

	i.key = i.key[:0]
	offset := int(i.restart(index))
	for {
		next, err := i.decodeEntry(offset)
		if err != nil {
			return i.corrupt(err)
		}
		if i.cmp(i.key, target) >= 0 {
			i.offset, i.entryEnd = offset, next
			i.valid = true
			return true
		}
		offset = next
		if offset >= i.restartsOff {
			i.valid = false
			i.key, i.value = nil, nil
			return false
		}
	}
}

// restartKey decodes just the key stored at a restart point (shared is
// always 0 there), without disturbing cursor state.
func (i *blockIter) restartKey(offset uint32) ([]byte, bool) {
	p := i.data[offset:i.restartsOff]
	shared, n := binary.Uvarint(p)
	if n <= 0 || shared != 0 {
		return nil, false
	}
	p = p[n:]
	nonShared, n := binary.Uvarint(p)
	if n <= 0 {
		return nil, false
	}
	p = p[n:]
	if _, n = binary.Uvarint(p); n <= 0 {
		return nil, false
	}
	p = p[n:]
	if uint64(len(p)) < nonShared {
		return nil, false
	}
	return p[:nonShared], true
}

// First implements Iterator.
func (i *blockIter) First() bool {
	i.clearError()
	if i.restartsOff == 0 {
		i.valid = false
		return false
	}
	i.key = i.key[:0]
	next, err := i.decodeEntry(int(i.restart(0)))
	if err != nil {
		return i.corrupt(err)
	}
	i.offset, i.entryEnd = int(i.restart(0)), next
	i.valid = true
	return true
}

// Last implements Iterator.
func (i *blockIter) Last() bool {
	i.clearError()
	if i.restartsOff == 0 {
		i.valid = false
		return false
	}
	i.key = i.key[:0]
	offset := int(i.restart(i.numRestarts - 1))
	for {
		next, err := i.decodeEntry(offset)
		if err != nil {
			return i.corrupt(err)
		}
		if next >= i.restartsOff {
			i.offset, i.entryEnd = offset, next
			i.valid = true
			return true
		}
		offset = next
	}
}

// Next implements Iterator.
func (i *blockIter) Next() bool {
	if !i.valid {
		return false
	}
	if i.entryEnd >= i.restartsOff {
		i.valid = false
		i.key, i.value = nil, nil
		return false
	}
	next, err := i.decodeEntry(i.entryEnd)
	if err != nil {
		return i.corrupt(err)
	}
	i.offset, i.entryEnd = i.entryEnd, next
	return true
}

// Prev implements Iterator.
func (i *blockIter) Prev() bool {
	if !i.valid {
		return false
	}
	// Find the restart point at or before the current record, then scan
	// forward stopping just before the current offset: true reverse
	// decoding is impossible because records only store a shared prefix
	// length against their predecessor.
	target := i.offset
	index := sort.Search(i.numRestarts, func(idx int) bool {
		return int(i.restart(idx)) > target
	}) - 1
	if index < 0 {
		i.valid = false
		i.key, i.value = nil, nil
		return false
	}
	if int(i.restart(index)) == target {
		// The current record is itself a restart point; its predecessor,
		// if any, lies in the prior restart block.
		index--
		if index < 0 {
			i.valid = false
			i.key, i.value = nil, nil
			return false
		}
	}

	i.key = i.key[:0]
	offset := int(i.restart(index))
	var prevOffset, prevEnd int
	for offset < target {
		next, err := i.decodeEntry(offset)
		if err != nil {
			return i.corrupt(err)
		}
		prevOffset, prevEnd = offset, next
		offset = next
	}
	if prevEnd == 0 {
		i.valid = false
		i.key, i.value = nil, nil
		return false
	}
	// Re-decode the record at prevOffset so i.key/i.value reflect it (the
	// loop above left them at the entry just before target).
	i.key = i.key[:0]
	offset = int(i.restart(index))
	for offset <= prevOffset {
		next, err := i.decodeEntry(offset)
		if err != nil {
			return i.corrupt(err)
		}
		if offset == prevOffset {
			i.offset, i.entryEnd = offset, next
			i.valid = true
			return true
		}
		offset = next
	}
	i.valid = false
	return false
}

// Valid implements Iterator.
func (i *blockIter) Valid() bool { return i.valid }

// Key implements Iterator.
func (i *blockIter) Key() []byte { return i.key }

// Value implements Iterator.
func (i *blockIter) Value() []byte { return i.value }

// Error implements Iterator.
func (i *blockIter) Error() error { return i.err }

// Close implements Iterator.
func (i *blockIter) Close() error { return i.err }

var _ Iterator = (*blockIter)(nil)
