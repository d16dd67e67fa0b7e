// Copyright 2024 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package cache implements a sharded, reference-counted LRU block cache
// matching the classic leveldb include/leveldb/cache.h contract: Insert
// always returns a Handle with one external reference; a deleter runs
// exactly once, when both the cache's own retention and every outstanding
// Handle have been released.
package cache

import (
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
)

// DefaultShards is the number of independently-locked partitions a Cache
// splits its capacity across, unless overridden by New.
const DefaultShards = 16

// Cache is a fixed-capacity, sharded LRU cache safe for concurrent use.
type Cache struct {
	shards []*shard
	nextID atomic.Uint64
}

// New creates a cache with the given total capacity, split evenly across
// DefaultShards shards.
func New(capacity int64) *Cache {
	return NewShards(capacity, DefaultShards)
}

// NewShards creates a cache with the given total capacity, split evenly
// across numShards independently-locked shards. numShards must be positive.
func NewShards(capacity int64, numShards int) *Cache {
	if numShards <= 0 {
		panic("cache: numShards must be positive")
	}
	c := &Cache{shards: make([]*shard, numShards)}
	perShard := capacity / int64(numShards)
	for i := range c.shards {
		c.shards[i] = newShard(perShard)
	}
	return c
}

func (c *Cache) getShard(key []byte) *shard {
	h := xxhash.Sum64(key)
	return c.shards[(h>>32)%uint64(len(c.shards))]
}

// Insert adds key->value to the cache with the given charge against
// capacity, returning a Handle the caller must Release exactly once. If key
// is already present, the existing entry is evicted as though Erase had
// been called on it first: its deleter still runs, but only once every
// Handle referencing it has also been released.
func (c *Cache) Insert(key []byte, value interface{}, charge int64, deleter Deleter) *Handle {
	return c.getShard(key).insert(string(key), value, charge, deleter)
}

// Lookup returns a Handle for key, and true, if key is present. The caller
// must Release the handle exactly once. It returns nil, false if key is not
// present.
func (c *Cache) Lookup(key []byte) (*Handle, bool) {
	return c.getShard(key).lookup(string(key))
}

// Release releases a Handle obtained from Insert or Lookup. It must be
// called exactly once per Handle.
func (c *Cache) Release(h *Handle) {
	h.e.sh.release(h.e)
}

// Erase removes key from the cache, if present. The underlying entry is
// kept alive until every outstanding Handle referencing it is released.
func (c *Cache) Erase(key []byte) {
	c.getShard(key).erase(string(key))
}

// NewID returns a new, cache-wide unique id. Multiple clients sharing one
// Cache can prepend their id to their cache keys to partition the key
// space.
func (c *Cache) NewID() uint64 {
	return c.nextID.Add(1)
}

// Prune evicts every entry not currently referenced by an outstanding
// Handle, regardless of capacity.
func (c *Cache) Prune() {
	for _, s := range c.shards {
		s.prune()
	}
}

// TotalCharge returns the combined charge of every entry currently held by
// the cache, across all shards.
func (c *Cache) TotalCharge() int64 {
	var total int64
	for _, s := range c.shards {
		total += s.totalCharge()
	}
	return total
}
