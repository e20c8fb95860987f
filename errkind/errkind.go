/*
DESCRIPTION
  errkind.go defines the typed error kinds shared across every component of
  the rendering engine, plus helpers for wrapping and classifying them.

AUTHORS
  lightfield contributors

LICENSE
  Copyright (C) 2026 the lightfield contributors. Licensed under the
  MIT License; see the LICENSE file for details.
*/

// Package errkind defines the sentinel error kinds returned by the
// rendering engine's components, and helpers for wrapping and testing them.
package errkind

import (
	"github.com/pkg/errors"
)

// Sentinel error kinds. Every fallible operation in the engine returns one
// of these, possibly wrapped with additional context via Wrap.
var (
	// InvalidParam indicates a wrong pixel type, bad geometry, or an
	// out-of-range configuration value.
	InvalidParam = errors.New("invalid parameter")

	// FileSysError indicates a read/write/open failure on the underlying
	// YUV file.
	FileSysError = errors.New("file system error")

	// OutOfMemory indicates an allocation failure of working buffers.
	OutOfMemory = errors.New("out of memory")
)

// Wrap attaches msg as context to kind, preserving kind as the error's
// cause so that errors.Is(err, kind) continues to hold.
func Wrap(kind error, msg string) error {
	return errors.Wrap(kind, msg)
}

// Wrapf is Wrap with fmt-style formatting.
func Wrapf(kind error, format string, args ...interface{}) error {
	return errors.Wrapf(kind, format, args...)
}

// Is reports whether err is, or wraps, kind.
func Is(err, kind error) bool {
	return errors.Is(err, kind)
}
