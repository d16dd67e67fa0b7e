// Copyright 2024 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package cache

import "github.com/cockroachdb/redact"

// Metrics is a point-in-time snapshot of a Cache's state.
type Metrics struct {
	// Size is the sum of the charges of every entry currently held (in the
	// LRU list or actively referenced by a Handle).
	Size int64
	// Count is the number of entries currently held.
	Count int64
	// Hits is the number of Lookup calls that found their key.
	Hits int64
	// Misses is the number of Lookup calls that did not find their key.
	Misses int64
}

// Metrics returns a snapshot of the cache's current state, summed across all
// shards.
func (c *Cache) Metrics() Metrics {
	var m Metrics
	for i := range c.shards {
		s := c.shards[i]
		s.mu.Lock()
		m.Count += int64(len(s.table))
		m.Size += s.size
		m.Hits += int64(s.hits)
		m.Misses += int64(s.misses)
		s.mu.Unlock()
	}
	return m
}

// String implements fmt.Stringer via SafeFormat, matching pebble's
// convention for its own metrics types.
func (m Metrics) String() string {
	return redact.StringWithoutMarkers(m)
}

// SafeFormat implements redact.SafeFormatter.
func (m Metrics) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("size=%d count=%d hits=%d misses=%d", m.Size, m.Count, m.Hits, m.Misses)
}
