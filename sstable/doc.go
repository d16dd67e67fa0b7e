// Copyright 2024 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package sstable implements the classic leveldb sorted-string-table file
// format: a sequence of prefix-compressed data blocks, an optional filter
// block, a two-level index, and a fixed-size trailing footer.
package sstable
