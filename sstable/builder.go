// Copyright 2024 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sstable

import "github.com/duskdb/sstable/vfs"

// WriteMetadata summarizes a table written by BuildTable.
type WriteMetadata struct {
	Smallest []byte
	Largest  []byte
	FileSize uint64
}

// BuildTable positions iter at First and drains it in order into a new
// table file at path, removing the partially-written file if anything goes
// wrong. iter is not closed; the caller retains ownership of it.
func BuildTable(fs vfs.FS, path string, opts WriterOptions, iter Iterator) (*WriteMetadata, error) {
	if !iter.First() {
		if err := iter.Error(); err != nil {
			return nil, err
		}
		return &WriteMetadata{}, nil
	}

	file, err := fs.Create(path)
	if err != nil {
		return nil, err
	}

	meta := &WriteMetadata{Smallest: append([]byte(nil), iter.Key()...)}

	w := NewWriter(file, opts)
	var lastKey []byte
	for valid := true; valid; valid = iter.Next() {
		lastKey = append(lastKey[:0], iter.Key()...)
		if err := w.Add(iter.Key(), iter.Value()); err != nil {
			w.Abandon()
			file.Close()
			fs.Remove(path)
			return nil, err
		}
	}
	meta.Largest = lastKey

	if err := iter.Error(); err != nil {
		w.Abandon()
		file.Close()
		fs.Remove(path)
		return nil, err
	}

	if err := w.Finish(); err != nil {
		fs.Remove(path)
		return nil, err
	}

	meta.FileSize = w.EstimatedSize()
	return meta, nil
}
