// Copyright 2024 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sstable

import "github.com/duskdb/sstable/internal/base"

// ErrNotFound is returned by Reader.Get when the key is absent from the
// table.
var ErrNotFound = base.ErrNotFound

// IsCorruption reports whether err indicates on-disk data that failed a
// structural or checksum check.
func IsCorruption(err error) bool {
	return base.IsCorruption(err)
}
