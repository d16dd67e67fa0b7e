// Copyright 2024 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package sstable

import (
	"fmt"
	"sort"
	"testing"

	"github.com/duskdb/sstable/bloom"
	"github.com/duskdb/sstable/internal/base"
	"github.com/duskdb/sstable/internal/cache"
	"github.com/duskdb/sstable/vfs"
	"github.com/stretchr/testify/require"
)

func writeTable(t *testing.T, fs vfs.FS, name string, opts WriterOptions, kv map[string]string) []string {
	t.Helper()
	var keys []string
	for k := range kv {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	file, err := fs.Create(name)
	require.NoError(t, err)
	w := NewWriter(file, opts)
	for _, k := range keys {
		require.NoError(t, w.Add([]byte(k), []byte(kv[k])))
	}
	require.NoError(t, w.Finish())
	return keys
}

func TestWriteReadSmallTable(t *testing.T) {
	fs := vfs.NewMem()
	kv := map[string]string{
		"apple":  "red",
		"banana": "yellow",
		"cherry": "dark red",
		"date":   "brown",
	}
	keys := writeTable(t, fs, "small.sst", WriterOptions{}, kv)

	r, err := Open(fs, "small.sst", ReaderOptions{})
	require.NoError(t, err)
	defer r.Close()

	for _, k := range keys {
		v, err := r.Get([]byte(k), ReadOptions{})
		require.NoError(t, err)
		require.Equal(t, kv[k], string(v))
	}

	_, err = r.Get([]byte("missing"), ReadOptions{})
	require.True(t, base.IsNotFound(err))
}

func TestWriteReadLargeTableTwoLevelIteration(t *testing.T) {
	fs := vfs.NewMem()
	kv := make(map[string]string)
	const n = 10000
	for i := 0; i < n; i++ {
		kv[fmt.Sprintf("k%05d", i)] = fmt.Sprintf("v%05d", i)
	}
	opts := WriterOptions{BlockSize: 256}
	writeTable(t, fs, "large.sst", opts, kv)

	r, err := Open(fs, "large.sst", ReaderOptions{})
	require.NoError(t, err)
	defer r.Close()

	iter, err := r.NewIter(ReadOptions{})
	require.NoError(t, err)
	defer iter.Close()

	count := 0
	for valid := iter.First(); valid; valid = iter.Next() {
		expected := fmt.Sprintf("k%05d", count)
		require.Equal(t, expected, string(iter.Key()))
		count++
	}
	require.Equal(t, n, count)
	require.NoError(t, iter.Error())

	require.True(t, iter.SeekGE([]byte("k04242")))
	require.Equal(t, "k04242", string(iter.Key()))
	require.True(t, iter.Prev())
	require.Equal(t, "k04241", string(iter.Key()))
}

func TestWriteReadWithFilterShortCircuits(t *testing.T) {
	fs := vfs.NewMem()
	kv := map[string]string{"present": "yes"}
	opts := WriterOptions{FilterPolicy: bloom.New(10)}
	writeTable(t, fs, "filtered.sst", opts, kv)

	r, err := Open(fs, "filtered.sst", ReaderOptions{FilterPolicy: bloom.New(10)})
	require.NoError(t, err)
	defer r.Close()
	require.NotNil(t, r.filter)

	v, err := r.Get([]byte("present"), ReadOptions{})
	require.NoError(t, err)
	require.Equal(t, "yes", string(v))

	_, err = r.Get([]byte("absent"), ReadOptions{})
	require.True(t, base.IsNotFound(err))
}

func TestWriteReadWithCache(t *testing.T) {
	fs := vfs.NewMem()
	kv := make(map[string]string)
	for i := 0; i < 200; i++ {
		kv[fmt.Sprintf("k%04d", i)] = fmt.Sprintf("v%04d", i)
	}
	opts := WriterOptions{BlockSize: 512}
	writeTable(t, fs, "cached.sst", opts, kv)

	c := cache.New(1 << 20)
	r, err := Open(fs, "cached.sst", ReaderOptions{Cache: c})
	require.NoError(t, err)
	defer r.Close()

	for i := 0; i < 200; i++ {
		k := fmt.Sprintf("k%04d", i)
		v, err := r.Get([]byte(k), ReadOptions{FillCache: true})
		require.NoError(t, err)
		require.Equal(t, kv[k], string(v))
	}
	require.Greater(t, c.TotalCharge(), int64(0))
}

func TestEmptyTable(t *testing.T) {
	fs := vfs.NewMem()
	file, err := fs.Create("empty.sst")
	require.NoError(t, err)
	w := NewWriter(file, WriterOptions{})
	require.NoError(t, w.Finish())

	r, err := Open(fs, "empty.sst", ReaderOptions{})
	require.NoError(t, err)
	defer r.Close()

	iter, err := r.NewIter(ReadOptions{})
	require.NoError(t, err)
	require.False(t, iter.First())
	require.NoError(t, iter.Error())

	_, err = r.Get([]byte("anything"), ReadOptions{})
	require.True(t, base.IsNotFound(err))
}

func TestSingleKeyTable(t *testing.T) {
	fs := vfs.NewMem()
	writeTable(t, fs, "single.sst", WriterOptions{}, map[string]string{"only": "value"})

	r, err := Open(fs, "single.sst", ReaderOptions{})
	require.NoError(t, err)
	defer r.Close()

	iter, err := r.NewIter(ReadOptions{})
	require.NoError(t, err)
	require.True(t, iter.First())
	require.Equal(t, "only", string(iter.Key()))
	require.False(t, iter.Next())
	require.True(t, iter.Last())
	require.Equal(t, "only", string(iter.Key()))
}

func TestWriterRejectsOutOfOrderAdd(t *testing.T) {
	fs := vfs.NewMem()
	file, err := fs.Create("bad.sst")
	require.NoError(t, err)
	w := NewWriter(file, WriterOptions{})
	require.NoError(t, w.Add([]byte("b"), []byte("1")))
	require.Panics(t, func() { w.Add([]byte("a"), []byte("2")) })
}

func TestCorruptedTrailerDetected(t *testing.T) {
	fs := vfs.NewMem()
	writeTable(t, fs, "corrupt.sst", WriterOptions{}, map[string]string{"a": "1", "b": "2"})

	// Flip a bit inside the memFS-backed file's data.
	f, err := fs.Open("corrupt.sst")
	require.NoError(t, err)
	sz, err := f.Size()
	require.NoError(t, err)
	buf := make([]byte, sz)
	_, err = f.ReadAt(buf, 0)
	require.NoError(t, err)
	buf[0] ^= 0xff

	require.NoError(t, fs.Remove("corrupt.sst"))
	w, err := fs.Create("corrupt.sst")
	require.NoError(t, err)
	require.NoError(t, w.Append(buf))
	require.NoError(t, w.Close())

	r, err := Open(fs, "corrupt.sst", ReaderOptions{})
	require.NoError(t, err) // footer and index are untouched by a flip at offset 0
	defer r.Close()

	_, err = r.Get([]byte("a"), ReadOptions{VerifyChecksums: true})
	require.Error(t, err)
	require.True(t, base.IsCorruption(err))
}

func TestSnappyCompressionRoundTrip(t *testing.T) {
	fs := vfs.NewMem()
	kv := make(map[string]string)
	// Highly repetitive values compress well under snappy.
	for i := 0; i < 50; i++ {
		kv[fmt.Sprintf("k%03d", i)] = fmt.Sprintf("%0200d", 0)
	}
	opts := WriterOptions{Compression: compressionPtr(SnappyCompression)}
	writeTable(t, fs, "snappy.sst", opts, kv)

	r, err := Open(fs, "snappy.sst", ReaderOptions{})
	require.NoError(t, err)
	defer r.Close()

	for k, v := range kv {
		got, err := r.Get([]byte(k), ReadOptions{})
		require.NoError(t, err)
		require.Equal(t, v, string(got))
	}
}

func TestDefaultCompressionIsSnappy(t *testing.T) {
	fs := vfs.NewMem()
	kv := make(map[string]string)
	for i := 0; i < 50; i++ {
		kv[fmt.Sprintf("k%03d", i)] = fmt.Sprintf("%0200d", 0)
	}

	// WriterOptions{} leaves Compression nil; ensureDefaults must still
	// produce a compressed table.
	writeTable(t, fs, "default.sst", WriterOptions{}, kv)
	writeTable(t, fs, "uncompressed.sst", WriterOptions{Compression: compressionPtr(NoCompression)}, kv)

	defaultFile, err := fs.Open("default.sst")
	require.NoError(t, err)
	defaultSize, err := defaultFile.Size()
	require.NoError(t, err)

	uncompressedFile, err := fs.Open("uncompressed.sst")
	require.NoError(t, err)
	uncompressedSize, err := uncompressedFile.Size()
	require.NoError(t, err)

	require.Less(t, defaultSize, uncompressedSize, "default WriterOptions must compress with snappy")

	r, err := Open(fs, "default.sst", ReaderOptions{})
	require.NoError(t, err)
	defer r.Close()
	for k, v := range kv {
		got, err := r.Get([]byte(k), ReadOptions{})
		require.NoError(t, err)
		require.Equal(t, v, string(got))
	}
}

func TestBuildTableFromIterator(t *testing.T) {
	fs := vfs.NewMem()
	src := map[string]string{"a": "1", "b": "2", "c": "3"}
	writeTable(t, fs, "src.sst", WriterOptions{}, src)

	srcReader, err := Open(fs, "src.sst", ReaderOptions{})
	require.NoError(t, err)
	defer srcReader.Close()
	iter, err := srcReader.NewIter(ReadOptions{})
	require.NoError(t, err)
	defer iter.Close()

	meta, err := BuildTable(fs, "built.sst", WriterOptions{}, iter)
	require.NoError(t, err)
	require.Equal(t, "a", string(meta.Smallest))
	require.Equal(t, "c", string(meta.Largest))
	require.Greater(t, meta.FileSize, uint64(0))

	built, err := Open(fs, "built.sst", ReaderOptions{})
	require.NoError(t, err)
	defer built.Close()
	for k, v := range src {
		got, err := built.Get([]byte(k), ReadOptions{})
		require.NoError(t, err)
		require.Equal(t, v, string(got))
	}
}

func TestMergingIteratorInterleaving(t *testing.T) {
	fs := vfs.NewMem()
	writeTable(t, fs, "m1.sst", WriterOptions{}, map[string]string{"a": "1", "d": "4", "g": "7"})
	writeTable(t, fs, "m2.sst", WriterOptions{}, map[string]string{"b": "2", "e": "5"})
	writeTable(t, fs, "m3.sst", WriterOptions{}, map[string]string{"c": "3", "f": "6"})

	var children []Iterator
	for _, name := range []string{"m1.sst", "m2.sst", "m3.sst"} {
		r, err := Open(fs, name, ReaderOptions{})
		require.NoError(t, err)
		defer r.Close()
		it, err := r.NewIter(ReadOptions{})
		require.NoError(t, err)
		children = append(children, it)
	}

	merged := newMergingIterator(base.DefaultComparer.Compare, children)
	var got []string
	for valid := merged.First(); valid; valid = merged.Next() {
		got = append(got, string(merged.Key()))
	}
	require.Equal(t, []string{"a", "b", "c", "d", "e", "f", "g"}, got)

	require.True(t, merged.Last())
	var reversed []string
	for valid := true; valid; valid = merged.Prev() {
		reversed = append(reversed, string(merged.Key()))
	}
	require.Equal(t, []string{"g", "f", "e", "d", "c", "b", "a"}, reversed)
}
