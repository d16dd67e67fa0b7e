// Copyright 2024 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package base

import (
	"bytes"
	"encoding/binary"
)

// Compare returns -1, 0, or +1 depending on whether a is less than, equal
// to, or greater than b.
type Compare func(a, b []byte) int

// FindShortestSeparator appends to dst a key k such that a <= k < b,
// preferring the shortest such k. A trivial implementation may return
// append(dst, a...).
//
// Given keys a, b for which Compare(a, b) < 0, FindShortestSeparator
// produces a key k such that:
//
//  1. Compare(a, k) <= 0, and
//  2. Compare(k, b) < 0.
type FindShortestSeparator func(dst, a, b []byte) []byte

// FindShortSuccessor appends to dst a key k such that Compare(a, k) <= 0,
// preferring the shortest such k. A trivial implementation may return
// append(dst, a...).
type FindShortSuccessor func(dst, a []byte) []byte

// Comparer defines a total ordering over the space of []byte keys, plus the
// two key-shortening helpers the table builder uses to pack the index
// block. Both helpers must be deterministic and side-effect free, and must
// preserve ordering with respect to every previously stored key.
type Comparer struct {
	Compare               Compare
	FindShortestSeparator FindShortestSeparator
	FindShortSuccessor    FindShortSuccessor

	// Name identifies the ordering. Tables do not record it, and the reader
	// does not check that it matches the comparer a table was built with.
	Name string
}

// EnsureDefaults returns c, or DefaultComparer if c is nil. It panics if c is
// non-nil but missing a mandatory field.
func (c *Comparer) EnsureDefaults() *Comparer {
	if c == nil {
		return DefaultComparer
	}
	if c.Compare == nil || c.FindShortestSeparator == nil || c.FindShortSuccessor == nil || c.Name == "" {
		panic("sstable: invalid Comparer: mandatory field not set")
	}
	return c
}

// SharedPrefixLen returns the largest i such that a[:i] equals b[:i].
func SharedPrefixLen(a, b []byte) int {
	i, n := 0, len(a)
	if n > len(b) {
		n = len(b)
	}
	for i < n-7 && binary.LittleEndian.Uint64(a[i:]) == binary.LittleEndian.Uint64(b[i:]) {
		i += 8
	}
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}

// DefaultComparer orders keys lexicographically by byte value, matching the
// on-disk format of the classic leveldb implementation. Its Name is the one
// the classic implementation uses for this ordering.
var DefaultComparer = &Comparer{
	Compare: bytes.Compare,

	FindShortestSeparator: func(dst, a, b []byte) []byte {
		i, n := SharedPrefixLen(a, b), len(dst)
		dst = append(dst, a...)

		limit := len(a)
		if limit > len(b) {
			limit = len(b)
		}
		if i >= limit {
			// One is a prefix of the other; no shorter separator exists.
			return dst
		}

		if a[i] >= b[i] {
			// a sorts after b, so no separator exists; return a unchanged.
			return dst
		}

		if i < len(b)-1 || a[i]+1 < b[i] {
			i += n
			dst[i]++
			return dst[:i+1]
		}

		i += n + 1
		for ; i < len(dst); i++ {
			if dst[i] != 0xff {
				dst[i]++
				return dst[:i+1]
			}
		}
		return dst
	},

	FindShortSuccessor: func(dst, a []byte) []byte {
		for i := 0; i < len(a); i++ {
			if a[i] != 0xff {
				dst = append(dst, a[:i+1]...)
				dst[len(dst)-1]++
				return dst
			}
		}
		// a is a run of 0xff bytes; there is no shorter successor.
		return append(dst, a...)
	},

	Name: "leveldb.BytewiseComparator",
}
