// Copyright 2024 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sstable

import "bytes"

// blockFunc materializes the cursor for a data block, given the encoded
// BlockHandle stored as an index entry's value.
type blockFunc func(handle []byte) (Iterator, error)

// twoLevelIterator composes an index cursor with a per-entry data cursor.
// Next and Prev step the data cursor, moving the index cursor only when the
// data cursor runs off its block; the data cursor for the index entry it
// lands on is created lazily via blockFunc and reused across steps as long
// as the index entry hasn't changed.
type twoLevelIterator struct {
	indexIter Iterator
	fn        blockFunc

	dataIter   Iterator
	dataHandle []byte // the encoded handle dataIter was built from

	err error
}

func newTwoLevelIterator(indexIter Iterator, fn blockFunc) *twoLevelIterator {
	return &twoLevelIterator{indexIter: indexIter, fn: fn}
}

func (t *twoLevelIterator) saveError(err error) {
	if t.err == nil && err != nil {
		t.err = err
	}
}

func (t *twoLevelIterator) setDataIter(it Iterator, handle []byte) {
	if t.dataIter != nil {
		t.saveError(t.dataIter.Error())
		t.dataIter.Close()
	}
	t.dataIter = it
	t.dataHandle = handle
}

// initDataBlock ensures dataIter reflects the index cursor's current entry,
// reusing the existing data cursor if the index entry hasn't moved.
func (t *twoLevelIterator) initDataBlock() {
	if !t.indexIter.Valid() {
		t.setDataIter(nil, nil)
		return
	}
	handle := t.indexIter.Value()
	if t.dataIter != nil && bytes.Equal(handle, t.dataHandle) {
		return
	}
	it, err := t.fn(handle)
	if err != nil {
		t.saveError(err)
		t.setDataIter(nil, nil)
		return
	}
	t.setDataIter(it, append([]byte(nil), handle...))
}

func (t *twoLevelIterator) skipEmptyForward() bool {
	for t.dataIter == nil || !t.dataIter.Valid() {
		if !t.indexIter.Valid() {
			t.setDataIter(nil, nil)
			return false
		}
		t.indexIter.Next()
		t.initDataBlock()
		if t.dataIter != nil {
			t.dataIter.First()
		}
	}
	return true
}

func (t *twoLevelIterator) skipEmptyBackward() bool {
	for t.dataIter == nil || !t.dataIter.Valid() {
		if !t.indexIter.Valid() {
			t.setDataIter(nil, nil)
			return false
		}
		t.indexIter.Prev()
		t.initDataBlock()
		if t.dataIter != nil {
			t.dataIter.Last()
		}
	}
	return true
}

// SeekGE implements Iterator.
func (t *twoLevelIterator) SeekGE(target []byte) bool {
	t.indexIter.SeekGE(target)
	t.initDataBlock()
	if t.dataIter != nil {
		t.dataIter.SeekGE(target)
	}
	return t.skipEmptyForward()
}

// First implements Iterator.
func (t *twoLevelIterator) First() bool {
	t.indexIter.First()
	t.initDataBlock()
	if t.dataIter != nil {
		t.dataIter.First()
	}
	return t.skipEmptyForward()
}

// Last implements Iterator.
func (t *twoLevelIterator) Last() bool {
	t.indexIter.Last()
	t.initDataBlock()
	if t.dataIter != nil {
		t.dataIter.Last()
	}
	return t.skipEmptyBackward()
}

// Next implements Iterator.
func (t *twoLevelIterator) Next() bool {
	if t.dataIter == nil {
		return false
	}
	t.dataIter.Next()
	return t.skipEmptyForward()
}

// Prev implements Iterator.
func (t *twoLevelIterator) Prev() bool {
	if t.dataIter == nil {
		return false
	}
	t.dataIter.Prev()
	return t.skipEmptyBackward()
}

// Valid implements Iterator.
func (t *twoLevelIterator) Valid() bool {
	return t.dataIter != nil && t.dataIter.Valid()
}

// Key implements Iterator.
func (t *twoLevelIterator) Key() []byte { return t.dataIter.Key() }

// Value implements Iterator.
func (t *twoLevelIterator) Value() []byte { return t.dataIter.Value() }

// Error implements Iterator.
func (t *twoLevelIterator) Error() error {
	if t.err != nil {
		return t.err
	}
	if err := t.indexIter.Error(); err != nil {
		return err
	}
	if t.dataIter != nil {
		return t.dataIter.Error()
	}
	return nil
}

// Close implements Iterator.
func (t *twoLevelIterator) Close() error {
	if t.dataIter != nil {
		t.saveError(t.dataIter.Close())
	}
	t.saveError(t.indexIter.Close())
	return t.err
}

var _ Iterator = (*twoLevelIterator)(nil)
