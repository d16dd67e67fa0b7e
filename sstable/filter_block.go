// Copyright 2024 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sstable

import (
	"encoding/binary"

	"github.com/duskdb/sstable/internal/base"
)

// filterBaseLg is the log2 of the number of data bytes covered by one
// filter: a new filter is generated for every 2 KiB of data blocks.
const filterBaseLg = 11
const filterBase = 1 << filterBaseLg

// filterBlockBuilder accumulates keys from data blocks and, every 2 KiB of
// data-block bytes, hands the accumulated key set to the filter policy to
// produce one filter. Calls must follow startBlock (addKey)* in sequence,
// finished by a single finish.
type filterBlockBuilder struct {
	policy base.FilterPolicy

	keys  [][]byte // pending keys for the filter currently being accumulated
	result        []byte
	filterOffsets []uint32
}

func newFilterBlockBuilder(policy base.FilterPolicy) *filterBlockBuilder {
	return &filterBlockBuilder{policy: policy}
}

// startBlock is called once a data block has been flushed at blockOffset,
// generating any filters needed to cover the newly-written bytes.
func (b *filterBlockBuilder) startBlock(blockOffset uint64) {
	filterIndex := blockOffset / filterBase
	for filterIndex > uint64(len(b.filterOffsets)) {
		b.generateFilter()
	}
}

func (b *filterBlockBuilder) addKey(key []byte) {
	b.keys = append(b.keys, append([]byte(nil), key...))
}

func (b *filterBlockBuilder) generateFilter() {
	if len(b.keys) == 0 {
		b.filterOffsets = append(b.filterOffsets, uint32(len(b.result)))
		return
	}
	b.filterOffsets = append(b.filterOffsets, uint32(len(b.result)))
	b.result = b.policy.CreateFilter(b.keys, b.result)
	b.keys = b.keys[:0]
}

// finish flushes any pending filter and appends the offset array, returning
// the complete filter block payload.
func (b *filterBlockBuilder) finish() []byte {
	if len(b.keys) > 0 {
		b.generateFilter()
	}

	arrayOffset := uint32(len(b.result))
	var tmp4 [4]byte
	for _, off := range b.filterOffsets {
		binary.LittleEndian.PutUint32(tmp4[:], off)
		b.result = append(b.result, tmp4[:]...)
	}
	binary.LittleEndian.PutUint32(tmp4[:], arrayOffset)
	b.result = append(b.result, tmp4[:]...)
	b.result = append(b.result, filterBaseLg)
	return b.result
}

// filterBlockReader answers KeyMayMatch queries against a decoded filter
// block, given the offset of the data block a key would have been read
// from.
type filterBlockReader struct {
	policy base.FilterPolicy

	data      []byte // the whole filter block
	offsetPos int    // start of the offset array within data
	num       int    // number of filters
	baseLg    byte
}

func newFilterBlockReader(policy base.FilterPolicy, contents []byte) *filterBlockReader {
	r := &filterBlockReader{policy: policy}
	n := len(contents)
	if n < 5 {
		return r
	}
	r.baseLg = contents[n-1]
	lastWord := binary.LittleEndian.Uint32(contents[n-5:])
	if lastWord > uint32(n-5) {
		return r
	}
	r.data = contents
	r.offsetPos = int(lastWord)
	r.num = (n - 5 - int(lastWord)) / 4
	return r
}

// keyMayMatch reports whether key might be present in the data block that
// starts at blockOffset. It fails open: any inability to decode a well-
// formed filter index is treated as a potential match rather than a
// definite miss.
func (r *filterBlockReader) keyMayMatch(blockOffset uint64, key []byte) bool {
	if r.data == nil {
		return true
	}
	index := int(blockOffset >> r.baseLg)
	if index >= r.num {
		return true
	}
	start := binary.LittleEndian.Uint32(r.data[r.offsetPos+index*4:])
	limit := binary.LittleEndian.Uint32(r.data[r.offsetPos+index*4+4:])
	if start > limit || int(limit) > r.offsetPos {
		return true
	}
	if start == limit {
		return false
	}
	return r.policy.KeyMayMatch(key, r.data[start:limit])
}
