// Copyright 2012 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package vfs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemFSRoundTrip(t *testing.T) {
	fs := NewMem()
	w, err := fs.Create("a.sst")
	require.NoError(t, err)
	require.NoError(t, w.Append([]byte("hello ")))
	require.NoError(t, w.Append([]byte("world")))
	require.NoError(t, w.Sync())
	require.NoError(t, w.Close())

	r, err := fs.Open("a.sst")
	require.NoError(t, err)
	buf := make([]byte, 5)
	n, err := r.ReadAt(buf, 6)
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, "world", string(buf))
	require.NoError(t, r.Close())
}

func TestMemFSOpenMissing(t *testing.T) {
	fs := NewMem()
	_, err := fs.Open("missing")
	require.Error(t, err)
}

func TestMemFSRemove(t *testing.T) {
	fs := NewMem()
	_, err := fs.Create("a.sst")
	require.NoError(t, err)
	require.NoError(t, fs.Remove("a.sst"))
	_, err = fs.Open("a.sst")
	require.Error(t, err)

	// Removing a nonexistent file is not an error.
	require.NoError(t, fs.Remove("never-existed"))
}

func TestMemFSReadPastEnd(t *testing.T) {
	fs := NewMem()
	w, err := fs.Create("a.sst")
	require.NoError(t, err)
	require.NoError(t, w.Append([]byte("abc")))

	r, err := fs.Open("a.sst")
	require.NoError(t, err)
	buf := make([]byte, 10)
	_, err = r.ReadAt(buf, 0)
	require.Error(t, err)
}

func TestMemFSSize(t *testing.T) {
	fs := NewMem()
	w, err := fs.Create("a.sst")
	require.NoError(t, err)
	require.NoError(t, w.Append([]byte("hello world")))

	sz, err := w.Size()
	require.NoError(t, err)
	require.EqualValues(t, 11, sz)

	r, err := fs.Open("a.sst")
	require.NoError(t, err)
	sz, err = r.Size()
	require.NoError(t, err)
	require.EqualValues(t, 11, sz)
}

func TestMemFileOpenedForReadingIsNotWritable(t *testing.T) {
	fs := NewMem()
	_, err := fs.Create("a.sst")
	require.NoError(t, err)
	r, err := fs.Open("a.sst")
	require.NoError(t, err)
	require.Error(t, r.Append([]byte("x")))
}
