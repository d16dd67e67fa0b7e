// Copyright 2024 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sstable

import (
	"encoding/binary"

	"github.com/duskdb/sstable/internal/arena"
	"github.com/duskdb/sstable/internal/base"
	"github.com/duskdb/sstable/internal/crc"
	"github.com/duskdb/sstable/vfs"
	"github.com/golang/snappy"
)

// Writer builds a table file one increasing key at a time. Every method
// after the first error checks and returns that latched error rather than
// attempting further work, mirroring pebble's own writer.
type Writer struct {
	file vfs.File
	opts WriterOptions
	err  error

	offset uint64
	closed bool

	dataBlock  *blockWriter
	indexBlock *blockWriter
	filter     *filterBlockBuilder
	arena      *arena.Arena

	lastKey           []byte
	pendingIndexEntry bool
	pendingHandle     BlockHandle
	numEntries        int64

	compressedBuf []byte
	sepBuf        []byte
}

// NewWriter creates a Writer that appends to file. Opts is defaulted via
// ensureDefaults.
func NewWriter(file vfs.File, opts WriterOptions) *Writer {
	opts = opts.ensureDefaults()
	w := &Writer{
		file:       file,
		opts:       opts,
		dataBlock:  newBlockWriter(opts.BlockRestartInterval),
		indexBlock: newBlockWriter(1),
		arena:      arena.New(),
	}
	if opts.FilterPolicy != nil {
		w.filter = newFilterBlockBuilder(opts.FilterPolicy)
		w.filter.startBlock(0)
	}
	return w
}

// Add appends a key/value pair. Keys must be added in order strictly
// increasing according to opts.Comparer; violating this panics, the same
// programmer-contract behavior as the underlying block writer.
func (w *Writer) Add(key, value []byte) error {
	if w.err != nil {
		return w.err
	}
	if w.closed {
		return base.InvalidArgumentf("sstable: writer is closed")
	}
	if w.numEntries > 0 && w.opts.Comparer.Compare(key, w.lastKey) <= 0 {
		panic("sstable: keys must be added in strictly increasing order")
	}

	if w.pendingIndexEntry {
		w.sepBuf = w.opts.Comparer.FindShortestSeparator(w.sepBuf[:0], w.lastKey, key)
		w.indexBlock.add(w.sepBuf, w.pendingHandle.encode(nil))
		w.pendingIndexEntry = false
	}

	if w.filter != nil {
		w.filter.addKey(key)
	}

	w.lastKey = w.copyKey(key)
	w.numEntries++
	w.dataBlock.add(key, value)

	if w.dataBlock.currentSizeEstimate() >= w.opts.BlockSize {
		w.flush()
	}
	return w.err
}

// copyKey stashes a copy of key in the writer's arena; lastKey must survive
// past the caller's buffer since it is compared against on every subsequent
// Add and consulted by FindShortestSeparator/FindShortSuccessor.
func (w *Writer) copyKey(key []byte) []byte {
	if len(key) == 0 {
		return nil
	}
	buf := w.arena.Allocate(len(key))
	copy(buf, key)
	return buf
}

// flush writes the current data block to file, if non-empty.
func (w *Writer) flush() {
	if w.err != nil || w.dataBlock.empty() {
		return
	}
	handle, err := w.writeBlock(w.dataBlock)
	if err != nil {
		w.err = err
		return
	}
	w.pendingHandle = handle
	w.pendingIndexEntry = true
	if err := w.file.Flush(); err != nil {
		w.err = err
		return
	}
	if w.filter != nil {
		w.filter.startBlock(w.offset)
	}
}

// writeBlock finishes and resets block, compressing it if beneficial, and
// writes it to file.
func (w *Writer) writeBlock(block *blockWriter) (BlockHandle, error) {
	raw := block.finish()

	compressionType := NoCompression
	payload := raw
	if *w.opts.Compression == SnappyCompression {
		w.compressedBuf = snappy.Encode(w.compressedBuf, raw)
		if len(w.compressedBuf) < len(raw)-len(raw)/8 {
			payload = w.compressedBuf
			compressionType = SnappyCompression
		}
	}

	handle, err := w.writeRawBlock(payload, compressionType)
	block.reset()
	return handle, err
}

// writeRawBlock appends payload plus its 5-byte trailer to file, returning
// the handle describing the on-disk region of payload as written (possibly
// compressed; trailer excluded from Length).
func (w *Writer) writeRawBlock(payload []byte, compressionType Compression) (BlockHandle, error) {
	handle := BlockHandle{Offset: w.offset, Length: uint64(len(payload))}

	if err := w.file.Append(payload); err != nil {
		return BlockHandle{}, err
	}

	var trailer [blockTrailerLen]byte
	trailer[0] = byte(compressionType)
	sum := crc.New(payload).Extend(trailer[:1])
	binary.LittleEndian.PutUint32(trailer[1:], sum.Mask())
	if err := w.file.Append(trailer[:]); err != nil {
		return BlockHandle{}, err
	}

	w.offset += uint64(len(payload)) + blockTrailerLen
	return handle, nil
}

// Finish flushes any pending data, writes the filter, metaindex, index
// blocks and the footer, and closes the underlying file.
func (w *Writer) Finish() error {
	if w.closed {
		return w.err
	}
	w.flush()
	w.closed = true
	if w.err != nil {
		w.file.Close()
		return w.err
	}

	var filterHandle, metaindexHandle, indexHandle BlockHandle
	var err error

	if w.filter != nil {
		filterHandle, err = w.writeRawBlock(w.filter.finish(), NoCompression)
		if err != nil {
			w.err = err
			w.file.Close()
			return w.err
		}
	}

	metaindexBlock := newBlockWriter(w.opts.BlockRestartInterval)
	if w.filter != nil {
		metaindexBlock.add([]byte("filter."+w.opts.FilterPolicy.Name()), filterHandle.encode(nil))
	}
	metaindexHandle, err = w.writeBlock(metaindexBlock)
	if err != nil {
		w.err = err
		w.file.Close()
		return w.err
	}

	if w.pendingIndexEntry {
		w.lastKey = w.opts.Comparer.FindShortSuccessor(w.lastKey[:0], w.lastKey)
		w.indexBlock.add(w.lastKey, w.pendingHandle.encode(nil))
		w.pendingIndexEntry = false
	}
	indexHandle, err = w.writeBlock(w.indexBlock)
	if err != nil {
		w.err = err
		w.file.Close()
		return w.err
	}

	f := footer{metaindexHandle: metaindexHandle, indexHandle: indexHandle}
	if err := w.file.Append(f.encode()); err != nil {
		w.err = err
		w.file.Close()
		return w.err
	}
	w.offset += footerLen

	if err := w.file.Sync(); err != nil {
		w.err = err
		w.file.Close()
		return w.err
	}
	if err := w.file.Close(); err != nil {
		w.err = err
		return w.err
	}
	return nil
}

// Abandon marks the writer closed without producing a valid table. The
// caller remains responsible for closing or removing the underlying file.
func (w *Writer) Abandon() {
	w.closed = true
}

// EstimatedSize returns the number of bytes written so far, including the
// pending (unflushed) data block.
func (w *Writer) EstimatedSize() uint64 {
	if w.dataBlock.empty() {
		return w.offset
	}
	return w.offset + uint64(w.dataBlock.currentSizeEstimate())
}
