// Copyright 2024 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package cache

// Handle is an opaque reference to an entry returned by Insert or Lookup.
// Every Handle obtained from the cache must eventually be passed to
// Cache.Release exactly once.
type Handle struct {
	e *entry
}

// Value returns the value the handle refers to. It is only valid to call
// before the handle is released.
func (h *Handle) Value() interface{} {
	return h.e.value
}
