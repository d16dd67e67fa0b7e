// Copyright 2012 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package vfs is the narrow file-handle abstraction the sstable subsystem
// reads and writes through; nothing outside this package touches os
// directly.
package vfs

import "io"

// File is a readable, writable, appendable sequence of bytes.
type File interface {
	io.ReaderAt
	io.Closer

	// Append writes p at the current end of the file.
	Append(p []byte) error
	// Flush pushes any buffered writes to the underlying storage without
	// necessarily guaranteeing durability.
	Flush() error
	// Sync guarantees every write made before the call to Sync returns is
	// durable.
	Sync() error
	// Size returns the file's current length in bytes.
	Size() (int64, error)
}

// FS is a namespace of Files, addressed by name.
type FS interface {
	// Create creates the named file for writing, truncating it if it
	// already exists.
	Create(name string) (File, error)
	// Open opens the named file for reading.
	Open(name string) (File, error)
	// Remove removes the named file. It is not an error to remove a file
	// that does not exist.
	Remove(name string) error
}
