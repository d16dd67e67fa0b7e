// Copyright 2024 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sstable

import (
	"github.com/duskdb/sstable/internal/base"
	"github.com/duskdb/sstable/internal/cache"
)

// Compression identifies the block compression codec.
type Compression int

// The recognized compression codecs. Unknown values encountered on disk are
// a Corruption error, never silently treated as None.
const (
	NoCompression Compression = iota
	SnappyCompression
)

// String implements fmt.Stringer.
func (c Compression) String() string {
	switch c {
	case NoCompression:
		return "none"
	case SnappyCompression:
		return "snappy"
	default:
		return "unknown"
	}
}

// compressionPtr is a convenience for building the *Compression literals
// exported below; a plain &SnappyCompression is not legal against a typed
// const.
func compressionPtr(c Compression) *Compression { return &c }

// DefaultCompression is the codec ensureDefaults fills in when
// WriterOptions.Compression is left nil.
var DefaultCompression = compressionPtr(SnappyCompression)

// WriterOptions configures a Writer.
type WriterOptions struct {
	// BlockSize is the target uncompressed size, in bytes, of a data block
	// before it is flushed.
	BlockSize int
	// BlockRestartInterval is the number of records between restart points
	// in a data block.
	BlockRestartInterval int
	// Compression selects the codec applied to data, metaindex, and index
	// blocks. The filter block and footer are never compressed. Nil defaults
	// to DefaultCompression (Snappy); to opt out, set it explicitly to a
	// pointer to NoCompression.
	Compression *Compression
	// FilterPolicy, if non-nil, causes a filter block to be built alongside
	// the data blocks.
	FilterPolicy base.FilterPolicy
	// Comparer orders keys. It must be stable across the file's lifetime;
	// the table does not record its name, so a reader opened with a
	// different comparer is not detected.
	Comparer *base.Comparer
}

func (o WriterOptions) ensureDefaults() WriterOptions {
	if o.BlockSize <= 0 {
		o.BlockSize = 4096
	}
	if o.BlockRestartInterval <= 0 {
		o.BlockRestartInterval = 16
	}
	if o.Comparer == nil {
		o.Comparer = base.DefaultComparer
	}
	if o.Compression == nil {
		o.Compression = DefaultCompression
	}
	return o
}

// ReaderOptions configures a Reader.
type ReaderOptions struct {
	// Comparer must match the one the table was written with.
	Comparer *base.Comparer
	// FilterPolicy, if non-nil, must match the policy used at write time in
	// order for the filter block to be consulted; a mismatched name causes
	// the reader to simply ignore the on-disk filter.
	FilterPolicy base.FilterPolicy
	// Cache, if non-nil, is consulted for every data block read, and
	// populated with blocks fetched by ReadOptions with FillCache set.
	Cache *cache.Cache
	// ParanoidChecks verifies the CRC of every block read, not just those
	// always checked on Open (index, metaindex, filter).
	ParanoidChecks bool
}

func (o ReaderOptions) ensureDefaults() ReaderOptions {
	if o.Comparer == nil {
		o.Comparer = base.DefaultComparer
	}
	return o
}

// ReadOptions controls the behavior of a single read (Get or NewIter).
type ReadOptions struct {
	// VerifyChecksums forces a CRC check on every block this read touches,
	// regardless of ReaderOptions.ParanoidChecks.
	VerifyChecksums bool
	// FillCache controls whether blocks fetched to satisfy this read are
	// admitted into ReaderOptions.Cache.
	FillCache bool
}
