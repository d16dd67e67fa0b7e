// Copyright 2024 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sstable

import "github.com/duskdb/sstable/internal/base"

type mergeDirection int

const (
	mergeForward mergeDirection = iota
	mergeReverse
)

// mergingIterator k-way merges a small number of child cursors into a
// single ascending or descending sequence. It does not deduplicate keys
// across children: if two children hold the same key, both are emitted, in
// child order for ties.
type mergingIterator struct {
	cmp       base.Compare
	children  []Iterator
	current   int // index into children, or -1 if invalid
	direction mergeDirection
	err       error
}

// newMergingIterator returns a cursor merging children in cmp order.
func newMergingIterator(cmp base.Compare, children []Iterator) Iterator {
	switch len(children) {
	case 0:
		return &emptyIterator{}
	case 1:
		return children[0]
	default:
		return &mergingIterator{cmp: cmp, children: children, current: -1}
	}
}

func (m *mergingIterator) findSmallest() {
	smallest := -1
	for i, c := range m.children {
		if !c.Valid() {
			continue
		}
		if smallest == -1 || m.cmp(c.Key(), m.children[smallest].Key()) < 0 {
			smallest = i
		}
	}
	m.current = smallest
}

func (m *mergingIterator) findLargest() {
	largest := -1
	for i := len(m.children) - 1; i >= 0; i-- {
		c := m.children[i]
		if !c.Valid() {
			continue
		}
		if largest == -1 || m.cmp(c.Key(), m.children[largest].Key()) > 0 {
			largest = i
		}
	}
	m.current = largest
}

// SeekGE implements Iterator.
func (m *mergingIterator) SeekGE(target []byte) bool {
	for _, c := range m.children {
		c.SeekGE(target)
	}
	m.findSmallest()
	m.direction = mergeForward
	return m.Valid()
}

// First implements Iterator.
func (m *mergingIterator) First() bool {
	for _, c := range m.children {
		c.First()
	}
	m.findSmallest()
	m.direction = mergeForward
	return m.Valid()
}

// Last implements Iterator.
func (m *mergingIterator) Last() bool {
	for _, c := range m.children {
		c.Last()
	}
	m.findLargest()
	m.direction = mergeReverse
	return m.Valid()
}

// Next implements Iterator.
func (m *mergingIterator) Next() bool {
	if !m.Valid() {
		return false
	}
	key := m.Key()

	if m.direction != mergeForward {
		// Bring every other child to just past key so the smallest among
		// them again reflects forward order.
		for i, c := range m.children {
			if i == m.current {
				continue
			}
			c.SeekGE(key)
			if c.Valid() && m.cmp(key, c.Key()) == 0 {
				c.Next()
			}
		}
		m.direction = mergeForward
	}

	m.children[m.current].Next()
	m.findSmallest()
	return m.Valid()
}

// Prev implements Iterator.
func (m *mergingIterator) Prev() bool {
	if !m.Valid() {
		return false
	}
	key := m.Key()

	if m.direction != mergeReverse {
		for i, c := range m.children {
			if i == m.current {
				continue
			}
			if c.SeekGE(key) {
				c.Prev()
			} else {
				c.Last()
			}
		}
		m.direction = mergeReverse
	}

	m.children[m.current].Prev()
	m.findLargest()
	return m.Valid()
}

// Valid implements Iterator.
func (m *mergingIterator) Valid() bool { return m.current >= 0 }

// Key implements Iterator.
func (m *mergingIterator) Key() []byte { return m.children[m.current].Key() }

// Value implements Iterator.
func (m *mergingIterator) Value() []byte { return m.children[m.current].Value() }

// Error implements Iterator.
func (m *mergingIterator) Error() error {
	if m.err != nil {
		return m.err
	}
	for _, c := range m.children {
		if err := c.Error(); err != nil {
			return err
		}
	}
	return nil
}

// Close implements Iterator.
func (m *mergingIterator) Close() error {
	for _, c := range m.children {
		if err := c.Close(); err != nil && m.err == nil {
			m.err = err
		}
	}
	return m.err
}

var _ Iterator = (*mergingIterator)(nil)

// emptyIterator is the merge of zero children: always invalid.
type emptyIterator struct{}

func (emptyIterator) SeekGE([]byte) bool { return false }
func (emptyIterator) First() bool        { return false }
func (emptyIterator) Last() bool         { return false }
func (emptyIterator) Next() bool         { return false }
func (emptyIterator) Prev() bool         { return false }
func (emptyIterator) Valid() bool        { return false }
func (emptyIterator) Key() []byte        { return nil }
func (emptyIterator) Value() []byte      { return nil }
func (emptyIterator) Error() error       { return nil }
func (emptyIterator) Close() error       { return nil }

var _ Iterator = emptyIterator{}
