// Copyright 2024 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sstable

import (
	"bytes"
	"encoding/binary"

	"github.com/duskdb/sstable/internal/base"
	"github.com/duskdb/sstable/internal/cache"
	"github.com/duskdb/sstable/internal/crc"
	"github.com/duskdb/sstable/vfs"
	"github.com/golang/snappy"
)

// Reader serves point lookups and iteration over a single table file.
type Reader struct {
	file vfs.File
	opts ReaderOptions

	index  []byte
	filter *filterBlockReader

	cacheID uint64
}

// Open reads and validates a table's footer, index block, and (if present)
// filter block, returning a Reader ready to serve Get and NewIter.
func Open(fs vfs.FS, name string, opts ReaderOptions) (*Reader, error) {
	opts = opts.ensureDefaults()

	file, err := fs.Open(name)
	if err != nil {
		return nil, err
	}

	size, err := file.Size()
	if err != nil {
		file.Close()
		return nil, err
	}
	if size < footerLen {
		file.Close()
		return nil, base.CorruptionErrorf("sstable: file too short to contain a footer")
	}

	footerBuf := make([]byte, footerLen)
	if _, err := file.ReadAt(footerBuf, size-footerLen); err != nil {
		file.Close()
		return nil, err
	}
	f, err := decodeFooter(footerBuf)
	if err != nil {
		file.Close()
		return nil, err
	}

	r := &Reader{file: file, opts: opts}

	r.index, err = r.readBlock(f.indexHandle, true)
	if err != nil {
		file.Close()
		return nil, err
	}

	if opts.FilterPolicy != nil {
		metaindex, err := r.readBlock(f.metaindexHandle, true)
		if err != nil {
			file.Close()
			return nil, err
		}
		if handle, ok := lookupMetaindex(metaindex, "filter."+opts.FilterPolicy.Name()); ok {
			filterBytes, err := r.readBlock(handle, true)
			if err != nil {
				file.Close()
				return nil, err
			}
			r.filter = newFilterBlockReader(opts.FilterPolicy, filterBytes)
		}
	}

	if opts.Cache != nil {
		r.cacheID = opts.Cache.NewID()
	}

	return r, nil
}

// lookupMetaindex linear-scans a decoded metaindex block for key, returning
// its decoded BlockHandle value.
func lookupMetaindex(block []byte, key string) (BlockHandle, bool) {
	iter, err := newBlockIter(base.DefaultComparer.Compare, block)
	if err != nil {
		return BlockHandle{}, false
	}
	target := []byte(key)
	for valid := iter.First(); valid; valid = iter.Next() {
		if bytes.Equal(iter.Key(), target) {
			handle, _, err := decodeBlockHandle(iter.Value())
			if err != nil {
				return BlockHandle{}, false
			}
			return handle, true
		}
	}
	return BlockHandle{}, false
}

// readBlock reads, checksums, and decompresses the block at handle.
func (r *Reader) readBlock(handle BlockHandle, verify bool) ([]byte, error) {
	buf := make([]byte, handle.Length+blockTrailerLen)
	if _, err := r.file.ReadAt(buf, int64(handle.Offset)); err != nil {
		return nil, err
	}

	payload := buf[:handle.Length]
	compressionType := Compression(buf[handle.Length])

	if verify || r.opts.ParanoidChecks {
		want := crc.Unmask(binary.LittleEndian.Uint32(buf[handle.Length+1:]))
		got := crc.New(buf[:handle.Length+1])
		if got != want {
			return nil, base.CorruptionErrorf("sstable: block checksum mismatch at offset %d", handle.Offset)
		}
	}

	switch compressionType {
	case NoCompression:
		return payload, nil
	case SnappyCompression:
		decoded, err := snappy.Decode(nil, payload)
		if err != nil {
			return nil, base.CorruptionErrorf("sstable: snappy decompression failed: %s", err)
		}
		return decoded, nil
	default:
		return nil, base.CorruptionErrorf("sstable: unrecognized compression type %d", compressionType)
	}
}

// cacheKey encodes a per-Reader cache namespace and block offset into a
// single lookup key.
func (r *Reader) cacheKey(offset uint64) []byte {
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[:8], r.cacheID)
	binary.BigEndian.PutUint64(buf[8:], offset)
	return buf[:]
}

// blockFor returns a cursor over the data block described by the encoded
// index value handleBytes, consulting and populating the cache if
// configured.
func (r *Reader) blockFor(readOpts ReadOptions, handleBytes []byte) (Iterator, error) {
	handle, _, err := decodeBlockHandle(handleBytes)
	if err != nil {
		return nil, err
	}

	if r.opts.Cache != nil {
		key := r.cacheKey(handle.Offset)
		if h, ok := r.opts.Cache.Lookup(key); ok {
			it, err := newBlockIter(r.opts.Comparer.Compare, h.Value().([]byte))
			if err != nil {
				r.opts.Cache.Release(h)
				return nil, err
			}
			return &cachedBlockIter{blockIter: it, cache: r.opts.Cache, handle: h}, nil
		}
	}

	block, err := r.readBlock(handle, readOpts.VerifyChecksums)
	if err != nil {
		return nil, err
	}
	it, err := newBlockIter(r.opts.Comparer.Compare, block)
	if err != nil {
		return nil, err
	}
	if r.opts.Cache != nil && readOpts.FillCache {
		key := r.cacheKey(handle.Offset)
		h := r.opts.Cache.Insert(key, block, int64(len(block)), func([]byte, interface{}) {})
		return &cachedBlockIter{blockIter: it, cache: r.opts.Cache, handle: h}, nil
	}
	return it, nil
}

// cachedBlockIter wraps a blockIter built from a cache-resident block,
// releasing the cache handle when the cursor is closed.
type cachedBlockIter struct {
	*blockIter
	cache  *cache.Cache
	handle *cache.Handle
}

func (c *cachedBlockIter) Close() error {
	c.cache.Release(c.handle)
	return c.blockIter.Error()
}

// NewIter returns a cursor over every key/value pair in the table, in
// ascending order.
func (r *Reader) NewIter(readOpts ReadOptions) (Iterator, error) {
	indexIter, err := newBlockIter(r.opts.Comparer.Compare, r.index)
	if err != nil {
		return nil, err
	}
	fn := func(handleBytes []byte) (Iterator, error) {
		return r.blockFor(readOpts, handleBytes)
	}
	return newTwoLevelIterator(indexIter, fn), nil
}

// Get returns the value stored for key, or a Kind-Corruption/NotFound
// error. The filter block, if present, may short-circuit the lookup
// without ever reading the data block.
func (r *Reader) Get(key []byte, readOpts ReadOptions) ([]byte, error) {
	indexIter, err := newBlockIter(r.opts.Comparer.Compare, r.index)
	if err != nil {
		return nil, err
	}
	if !indexIter.SeekGE(key) {
		return nil, base.ErrNotFound
	}

	handle, _, err := decodeBlockHandle(indexIter.Value())
	if err != nil {
		return nil, err
	}

	if r.filter != nil && !r.filter.keyMayMatch(handle.Offset, key) {
		return nil, base.ErrNotFound
	}

	dataIter, err := r.blockFor(readOpts, indexIter.Value())
	if err != nil {
		return nil, err
	}
	defer dataIter.Close()

	if !dataIter.SeekGE(key) || !bytes.Equal(dataIter.Key(), key) {
		return nil, base.ErrNotFound
	}
	return append([]byte(nil), dataIter.Value()...), nil
}

// Close releases the underlying file.
func (r *Reader) Close() error {
	return r.file.Close()
}
