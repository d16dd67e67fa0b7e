// Copyright 2024 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package cache

import "container/list"

// Deleter is invoked exactly once for an entry, once every reference to it
// (the cache's own table slot plus every outstanding Handle) has been
// released.
type Deleter func(key []byte, value interface{})

// entry is the cache's internal bookkeeping for one key. It is only ever
// touched while its shard's mutex is held.
type entry struct {
	key     string
	value   interface{}
	charge  int64
	deleter Deleter

	// refs counts the shard's own table slot (1, while the entry is present
	// in the shard's map) plus one for every outstanding Handle. An entry
	// with refs==0 has already been unlinked from every list and its
	// deleter has already run.
	refs int32

	// elem is this entry's node in whichever of the shard's two lists
	// currently holds it: lru (refs==1, nobody but the cache references it,
	// eligible for eviction) or inUse (refs>=2).
	elem *list.Element

	// sh is the shard this entry belongs to, cached so Release doesn't need
	// to rehash the key.
	sh *shard
}
