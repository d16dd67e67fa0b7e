// Copyright 2024 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sstable

// Iterator is the cursor protocol shared by block, two-level, and merging
// cursors. Every positioning method returns whether the cursor landed on a
// valid record; on false, callers must consult Error to distinguish
// exhaustion from failure. Key and Value are only valid to call while
// Valid() would return true, and the returned slices may be overwritten by
// the next positioning call.
type Iterator interface {
	// SeekGE positions the cursor at the first record with a key >= target.
	SeekGE(target []byte) bool
	// First positions the cursor at the first record.
	First() bool
	// Last positions the cursor at the last record.
	Last() bool
	// Next advances the cursor by one record.
	Next() bool
	// Prev moves the cursor back by one record.
	Prev() bool
	// Valid reports whether the cursor is positioned at a record.
	Valid() bool
	// Key returns the current record's key.
	Key() []byte
	// Value returns the current record's value.
	Value() []byte
	// Error returns the first error the cursor encountered, or nil.
	Error() error
	// Close releases any resources (e.g. a cache handle) held by the
	// cursor. It is safe to call Close without exhausting the cursor.
	Close() error
}
