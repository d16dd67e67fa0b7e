// Copyright 2012 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package vfs

import (
	"sync"

	"github.com/cockroachdb/errors"
)

// NewMem returns an in-memory FS, useful for tests that should never touch
// disk.
func NewMem() FS {
	return &memFS{files: make(map[string]*memFile)}
}

type memFS struct {
	mu    sync.Mutex
	files map[string]*memFile
}

func (fs *memFS) Create(name string) (File, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	f := &memFile{}
	fs.files[name] = f
	return f, nil
}

func (fs *memFS) Open(name string) (File, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	f, ok := fs.files[name]
	if !ok {
		return nil, errors.Newf("vfs: file does not exist: %s", name)
	}
	return &memFileReader{f: f}, nil
}

func (fs *memFS) Remove(name string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	delete(fs.files, name)
	return nil
}

// memFile is a growable in-memory buffer, shared (by pointer) between the
// writer returned by Create and any reader returned by Open after it.
type memFile struct {
	mu   sync.RWMutex
	data []byte
}

func (f *memFile) Append(p []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data = append(f.data, p...)
	return nil
}

func (f *memFile) Flush() error { return nil }
func (f *memFile) Sync() error  { return nil }
func (f *memFile) Close() error { return nil }

func (f *memFile) Size() (int64, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return int64(len(f.data)), nil
}

func (f *memFile) ReadAt(p []byte, off int64) (int, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if off < 0 || off > int64(len(f.data)) {
		return 0, errors.Newf("vfs: invalid offset %d", off)
	}
	n := copy(p, f.data[off:])
	if n < len(p) {
		return n, errors.New("vfs: short read")
	}
	return n, nil
}

// memFileReader is the handle Open returns: it shares memFile's backing
// buffer but never mutates it, so a table can be read while it is still
// being written in tests.
type memFileReader struct {
	f *memFile
}

func (r *memFileReader) ReadAt(p []byte, off int64) (int, error) { return r.f.ReadAt(p, off) }
func (r *memFileReader) Close() error                            { return nil }
func (r *memFileReader) Append([]byte) error {
	return errors.New("vfs: file opened for reading is not writable")
}
func (r *memFileReader) Flush() error          { return nil }
func (r *memFileReader) Sync() error           { return nil }
func (r *memFileReader) Size() (int64, error) { return r.f.Size() }
