// Copyright 2024 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package cache

import (
	"container/list"
	"sync"
)

// shard is one independently-locked LRU partition. Splitting the cache into
// shards lets concurrent Insert/Lookup calls on different keys proceed
// without contending on a single mutex.
type shard struct {
	mu sync.Mutex

	capacity int64
	size     int64 // sum of charge across every entry in table, in either list

	table map[string]*entry

	// lru holds entries with refs==1 (only the table references them),
	// ordered least-recently-used at the back. Eviction only ever removes
	// from the back of lru.
	lru list.List
	// inUse holds entries with refs>=2 (at least one Handle is outstanding).
	// These are never eligible for eviction.
	inUse list.List

	hits, misses uint64
}

func newShard(capacity int64) *shard {
	s := &shard{capacity: capacity, table: make(map[string]*entry)}
	s.lru.Init()
	s.inUse.Init()
	return s
}

func (s *shard) insert(key string, value interface{}, charge int64, deleter Deleter) *Handle {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.table[key]; ok {
		s.unlink(old)
		delete(s.table, key)
		s.size -= old.charge
		s.unref(old)
	}

	e := &entry{key: key, value: value, charge: charge, deleter: deleter, refs: 2, sh: s}
	s.table[key] = e
	e.elem = s.inUse.PushFront(e)
	s.size += charge

	s.evict()
	return &Handle{e: e}
}

// evict removes entries from the back of lru until the shard is within
// capacity. It never touches inUse.
func (s *shard) evict() {
	for s.size > s.capacity {
		back := s.lru.Back()
		if back == nil {
			return
		}
		e := back.Value.(*entry)
		s.lru.Remove(back)
		delete(s.table, e.key)
		s.size -= e.charge
		s.unref(e)
	}
}

func (s *shard) lookup(key string) (*Handle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.table[key]
	if !ok {
		s.misses++
		return nil, false
	}
	s.hits++
	e.refs++
	if e.refs == 2 {
		// Was sitting in lru with only the table's reference; now a caller
		// holds it too.
		s.lru.Remove(e.elem)
		e.elem = s.inUse.PushFront(e)
	}
	return &Handle{e: e}, true
}

func (s *shard) release(e *entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unref(e)
}

func (s *shard) erase(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.table[key]
	if !ok {
		return
	}
	delete(s.table, key)
	s.size -= e.charge
	s.unlink(e)
	s.unref(e)
}

// prune evicts every entry currently eligible for eviction (refs==1),
// regardless of capacity.
func (s *shard) prune() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for {
		back := s.lru.Back()
		if back == nil {
			return
		}
		e := back.Value.(*entry)
		s.lru.Remove(back)
		delete(s.table, e.key)
		s.size -= e.charge
		s.unref(e)
	}
}

func (s *shard) totalCharge() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.size
}

// unlink removes e from whichever list currently holds it, called while
// e is still present in s.table.
func (s *shard) unlink(e *entry) {
	if e.refs == 1 {
		s.lru.Remove(e.elem)
	} else {
		s.inUse.Remove(e.elem)
	}
}

// unref drops one reference to e. Call it after e has already been removed
// from s.table when the reference being dropped is the table's own, or
// directly (with e still linked) when releasing a caller's Handle.
func (s *shard) unref(e *entry) {
	e.refs--
	switch {
	case e.refs > 1:
		// Still referenced by more than the table; nothing to do.
	case e.refs == 1:
		// The table's own reference is now the only one left: move to lru
		// if e is still present in the table (i.e. this was a Handle
		// release, not an erase/eviction unref).
		if cur, ok := s.table[e.key]; ok && cur == e {
			s.inUse.Remove(e.elem)
			e.elem = s.lru.PushFront(e)
		}
	case e.refs == 0:
		if e.deleter != nil {
			e.deleter([]byte(e.key), e.value)
		}
	}
}
