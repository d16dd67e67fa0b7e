// Copyright 2024 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package base holds the types shared by every layer of the sstable
// subsystem: the Kind-tagged error values, the Comparer contract used to
// order keys and shorten index entries, and the FilterPolicy contract
// implemented by bloom.
package base
