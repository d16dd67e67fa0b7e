// Copyright 2024 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package base

// FilterPolicy is a pluggable per-block-window filter, matching the classic
// leveldb include/leveldb/filter_policy.h contract. Implementations must
// never produce false negatives: KeyMayMatch may return a false positive,
// but must never return false for a key that CreateFilter actually saw.
type FilterPolicy interface {
	// Name identifies the filter's encoding. It is stored in the metaindex
	// block so a reader can refuse to use a filter it does not understand.
	Name() string

	// CreateFilter appends an encoded filter over the given keys to dst,
	// returning the extended slice. keys are the raw, unsorted (but
	// deduplication is not required) keys observed in one filter window.
	CreateFilter(keys [][]byte, dst []byte) []byte

	// KeyMayMatch reports whether key might be present in the set that
	// produced filter. False positives are permitted; false negatives are
	// not.
	KeyMayMatch(key, filter []byte) bool
}
