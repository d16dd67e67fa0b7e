// Copyright 2024 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package base

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultComparer_FindShortestSeparator(t *testing.T) {
	testCases := []struct {
		a, b, want string
	}{
		{"black", "blue", "blb"},
		{"1", "2", "1"},
		{"1", "29", "2"},
		{"13", "19", "14"},
		{"13", "99", "2"},
		{"135", "19", "14"},
		{"1357", "19", "14"},
		{"1357", "2", "14"},
		{"13\xff", "14", "13\xff"},
		{"13\xff", "19", "14"},
		{"1\xff\xff", "2", "1\xff\xff"},
		{"1\xff\xff", "9", "2"},
	}
	for _, tc := range testCases {
		t.Run(tc.a+"/"+tc.b, func(t *testing.T) {
			got := string(DefaultComparer.FindShortestSeparator(nil, []byte(tc.a), []byte(tc.b)))
			require.Equal(t, tc.want, got)
			require.LessOrEqual(t, DefaultComparer.Compare([]byte(tc.a), []byte(got)), 0)
			require.Less(t, DefaultComparer.Compare([]byte(got), []byte(tc.b)), 0)
		})
	}

	// a sorts after b, so no separator exists: a is returned unchanged.
	got := string(DefaultComparer.FindShortestSeparator(nil, []byte("1\xff\xff"), []byte("19")))
	require.Equal(t, "1\xff\xff", got)
}

func TestDefaultComparer_FindShortSuccessor(t *testing.T) {
	testCases := []struct {
		a, want string
	}{
		{"green", "h"},
		{"", ""},
		{"1", "2"},
		{"11", "2"},
		{"11\xff", "2"},
		{"1\xff", "2"},
		{"1\xff\xff", "2"},
		{"\xff", "\xff"},
		{"\xff\xff", "\xff\xff"},
		{"\xff\xff\xff", "\xff\xff\xff"},
	}
	for _, tc := range testCases {
		t.Run(tc.a, func(t *testing.T) {
			got := string(DefaultComparer.FindShortSuccessor(nil, []byte(tc.a)))
			require.Equal(t, tc.want, got)
			require.LessOrEqual(t, DefaultComparer.Compare([]byte(tc.a), []byte(got)), 0)
		})
	}
}

func TestSharedPrefixLen(t *testing.T) {
	testCases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"a", "", 0},
		{"abc", "abd", 2},
		{"abcdefgh", "abcdefgh", 8},
		{"abcdefghi", "abcdefghj", 8},
		{"x", "y", 0},
	}
	for _, tc := range testCases {
		got := SharedPrefixLen([]byte(tc.a), []byte(tc.b))
		require.Equal(t, tc.want, got, "SharedPrefixLen(%q, %q)", tc.a, tc.b)
	}
}

func TestComparer_EnsureDefaults(t *testing.T) {
	require.Same(t, DefaultComparer, (*Comparer)(nil).EnsureDefaults())
	require.Same(t, DefaultComparer, DefaultComparer.EnsureDefaults())

	require.Panics(t, func() {
		(&Comparer{Name: "incomplete"}).EnsureDefaults()
	})
}
