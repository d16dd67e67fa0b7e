// Copyright 2024 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package base holds types shared by every layer of the sstable subsystem:
// error kinds, the Comparer contract, and the FilterPolicy contract.
package base

import (
	"github.com/cockroachdb/errors"
)

// Kind classifies an error the way the sstable subsystem's callers expect to
// switch on: NotFound for a missing key, Corruption for anything that failed
// to parse, IOError for anything the environment reported, InvalidArgument
// for misuse of an API, NotSupported for a recognized-but-unimplemented
// feature. An unknown compression type on disk is a Corruption.
type Kind byte

// The recognized error kinds.
const (
	KindOk Kind = iota
	KindNotFound
	KindCorruption
	KindIOError
	KindInvalidArgument
	KindNotSupported
)

func (k Kind) String() string {
	switch k {
	case KindOk:
		return "ok"
	case KindNotFound:
		return "not found"
	case KindCorruption:
		return "corruption"
	case KindIOError:
		return "IO error"
	case KindInvalidArgument:
		return "invalid argument"
	case KindNotSupported:
		return "not supported"
	default:
		return "unknown error kind"
	}
}

type kindError struct {
	kind Kind
	error
}

func (e *kindError) Unwrap() error { return e.error }

// WithKind tags err with kind so that Kind of the returned error reports it.
func WithKind(err error, kind Kind) error {
	if err == nil {
		return nil
	}
	return &kindError{kind: kind, error: err}
}

// KindOf reports the Kind attached to err via WithKind, or KindIOError if
// none was attached (the safest default: treat unclassified errors as
// environment failures rather than silently matching NotFound).
func KindOf(err error) Kind {
	if err == nil {
		return KindOk
	}
	var ke *kindError
	if errors.As(err, &ke) {
		return ke.kind
	}
	return KindIOError
}

// IsNotFound reports whether err (or a wrapped cause) is a NotFound error.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// IsCorruption reports whether err (or a wrapped cause) is a Corruption
// error.
func IsCorruption(err error) bool {
	return KindOf(err) == KindCorruption
}

// ErrNotFound is returned by Reader.Get when the key is absent.
var ErrNotFound = WithKind(errors.New("sstable: key not found"), KindNotFound)

// CorruptionErrorf formats a Corruption error, mirroring the call
// convention pebble's sstable/block package uses for its own corruption
// errors (base.CorruptionErrorf).
func CorruptionErrorf(format string, args ...interface{}) error {
	return WithKind(errors.Newf(format, args...), KindCorruption)
}

// InvalidArgumentf formats an InvalidArgument error.
func InvalidArgumentf(format string, args ...interface{}) error {
	return WithKind(errors.Newf(format, args...), KindInvalidArgument)
}

// NotSupportedf formats a NotSupported error.
func NotSupportedf(format string, args ...interface{}) error {
	return WithKind(errors.Newf(format, args...), KindNotSupported)
}
