// Copyright 2013 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package bloom implements the classic leveldb Bloom filter FilterPolicy:
// one flat bit array per filter window, addressed by double hashing, with
// no cache-line partitioning. This is deliberately simpler than pebble's
// own bloom package, whose cache-line-blocked layout only pays off for
// filters spanning an entire multi-megabyte file rather than a single 2 KiB
// filter-block window.
package bloom

import (
	"math"

	"github.com/duskdb/sstable/internal/base"
)

var _ base.FilterPolicy = (*FilterPolicy)(nil)

// hash implements the Murmur-like hash leveldb and pebble both use for
// their bloom filters, byte-for-byte compatible with pebble's bloom.hash.
func hash(b []byte) uint32 {
	const (
		seed = 0xbc9f1d34
		m    = 0xc6a4a793
	)
	h := uint32(seed) ^ (uint32(len(b)) * m)
	for ; len(b) >= 4; b = b[4:] {
		h += uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
		h *= m
		h ^= h >> 16
	}
	switch len(b) {
	case 3:
		h += uint32(int8(b[2])) << 16
		fallthrough
	case 2:
		h += uint32(int8(b[1])) << 8
		fallthrough
	case 1:
		h += uint32(int8(b[0]))
		h *= m
		h ^= h >> 24
	}
	return h
}

// FilterPolicy implements base.FilterPolicy as a classic double-hashing
// bloom filter with the given number of bits per key.
type FilterPolicy struct {
	BitsPerKey int
}

// New returns a FilterPolicy targeting the given bits per key. 10 is a
// reasonable default, yielding roughly a 1% false positive rate.
func New(bitsPerKey int) *FilterPolicy {
	return &FilterPolicy{BitsPerKey: bitsPerKey}
}

// Name implements base.FilterPolicy.
func (p *FilterPolicy) Name() string {
	return "leveldb.BuiltinBloomFilter2"
}

func (p *FilterPolicy) numProbes() int {
	k := int(math.Round(float64(p.BitsPerKey) * math.Ln2))
	if k < 1 {
		return 1
	}
	if k > 30 {
		return 30
	}
	return k
}

// CreateFilter implements base.FilterPolicy.
func (p *FilterPolicy) CreateFilter(keys [][]byte, dst []byte) []byte {
	bitsPerKey := p.BitsPerKey
	if bitsPerKey < 0 {
		bitsPerKey = 0
	}
	numBits := len(keys) * bitsPerKey
	// Ensure a small enough filter still gets a handful of bytes, matching
	// leveldb's minimum of 64 bits.
	if numBits < 64 {
		numBits = 64
	}
	numBytes := (numBits + 7) / 8
	numBits = numBytes * 8

	k := p.numProbes()
	off := len(dst)
	dst = append(dst, make([]byte, numBytes)...)
	dst = append(dst, byte(k))
	array := dst[off : off+numBytes]

	for _, key := range keys {
		h := hash(key)
		delta := (h >> 17) | (h << 15) // rotate right 17 bits
		for i := 0; i < k; i++ {
			bitpos := h % uint32(numBits)
			array[bitpos/8] |= 1 << (bitpos % 8)
			h += delta
		}
	}
	return dst
}

// KeyMayMatch implements base.FilterPolicy.
func (p *FilterPolicy) KeyMayMatch(key, filter []byte) bool {
	n := len(filter)
	if n < 2 {
		return false
	}
	numBits := (n - 1) * 8
	k := int(filter[n-1])
	if k > 30 {
		// Reserved for potential future encodings; treat as a match to
		// avoid a false negative on formats we don't understand.
		return true
	}
	array := filter[:n-1]

	h := hash(key)
	delta := (h >> 17) | (h << 15)
	for i := 0; i < k; i++ {
		bitpos := h % uint32(numBits)
		if array[bitpos/8]&(1<<(bitpos%8)) == 0 {
			return false
		}
		h += delta
	}
	return true
}
