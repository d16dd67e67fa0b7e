// Copyright 2024 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sstable

import (
	"bytes"
	"encoding/binary"

	"github.com/duskdb/sstable/internal/base"
)

// blockWriter accumulates prefix-compressed records with periodic restart
// points. add requires keys in strictly increasing order; that requirement
// is a programmer contract, not a runtime error, and is enforced with a
// panic just like the classic implementation's assertion.
type blockWriter struct {
	restartInterval int
	nEntries        int
	buf             []byte
	restarts        []uint32
	lastKey         []byte
	tmp             [3 * binary.MaxVarintLen64]byte
}

func newBlockWriter(restartInterval int) *blockWriter {
	return &blockWriter{restartInterval: restartInterval}
}

func (w *blockWriter) add(key, value []byte) {
	if w.nEntries > 0 && bytes.Compare(key, w.lastKey) <= 0 {
		panic("sstable: keys must be added in strictly increasing order")
	}

	shared := 0
	if w.nEntries%w.restartInterval == 0 {
		w.restarts = append(w.restarts, uint32(len(w.buf)))
	} else {
		shared = base.SharedPrefixLen(w.lastKey, key)
	}

	n := binary.PutUvarint(w.tmp[:], uint64(shared))
	n += binary.PutUvarint(w.tmp[n:], uint64(len(key)-shared))
	n += binary.PutUvarint(w.tmp[n:], uint64(len(value)))
	w.buf = append(w.buf, w.tmp[:n]...)
	w.buf = append(w.buf, key[shared:]...)
	w.buf = append(w.buf, value...)

	w.lastKey = append(w.lastKey[:0], key...)
	w.nEntries++
}

// finish appends the restart array and count, returning the finished block
// payload. The writer must not be reused without calling reset.
func (w *blockWriter) finish() []byte {
	if w.nEntries == 0 {
		w.restarts = append(w.restarts, 0)
	}
	var tmp4 [4]byte
	for _, r := range w.restarts {
		binary.LittleEndian.PutUint32(tmp4[:], r)
		w.buf = append(w.buf, tmp4[:]...)
	}
	binary.LittleEndian.PutUint32(tmp4[:], uint32(len(w.restarts)))
	w.buf = append(w.buf, tmp4[:]...)
	return w.buf
}

func (w *blockWriter) reset() {
	w.nEntries = 0
	w.buf = w.buf[:0]
	w.restarts = w.restarts[:0]
	w.lastKey = w.lastKey[:0]
}

// currentSizeEstimate returns the size the block would have if finished
// right now, without mutating any state.
func (w *blockWriter) currentSizeEstimate() int {
	n := len(w.restarts)
	if w.nEntries == 0 {
		n = 1
	}
	return len(w.buf) + 4*(n+1)
}

func (w *blockWriter) empty() bool {
	return w.nEntries == 0
}
