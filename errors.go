// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package fdt

import (
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// Sentinel errors, checkable with errors.Is. Each is wrapped by a richer
// error type below that adds the context the operation had available.
var (
	ErrBadMagic          = errors.New("bad FDT magic")
	ErrUnsupportedVersion = errors.New("unsupported FDT version")
	ErrTruncated         = errors.New("truncated FDT data")
	ErrUnknownTag        = errors.New("unknown FDT structure-block tag")
	ErrNotFound          = errors.New("not found")
	ErrUnsupported       = errors.New("unsupported DTS construct")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrIO                = errors.New("i/o error")
)

// DecodeError wraps a failure encountered while decoding a DTB blob, with
// the byte offset at which it was detected.
type DecodeError struct {
	Op     string
	Offset int
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("fdt: %s: at offset %#x: %v", e.Op, e.Offset, e.Err)
}
func (e *DecodeError) Unwrap() error { return e.Err }

// EncodeError wraps a failure encountered while encoding a Tree to DTB.
type EncodeError struct {
	Op  string
	Err error
}

func (e *EncodeError) Error() string { return fmt.Sprintf("fdt: %s: %v", e.Op, e.Err) }
func (e *EncodeError) Unwrap() error { return e.Err }

// SyntaxError wraps a failure encountered while parsing DTS text, with the
// 1-indexed source line it was detected on.
type SyntaxError struct {
	Line int
	Err  error
}

func (e *SyntaxError) Error() string {
	if e.Line <= 0 {
		return fmt.Sprintf("fdt: dts syntax error: %v", e.Err)
	}
	return fmt.Sprintf("fdt: dts syntax error: line %d: %v", e.Line, e.Err)
}
func (e *SyntaxError) Unwrap() error { return e.Err }

func (e *SyntaxError) Is(target error) bool { return target == ErrUnsupported && errors.Is(e.Err, ErrUnsupported) }

// wrapLine is a thin github.com/pkg/errors.Wrapf of a DTS parse error with
// its source line, matching the contextual-wrapping idiom pkg/errors is
// used for elsewhere in the corpus.
func wrapLine(line int, err error) error {
	if err == nil {
		return nil
	}
	return &SyntaxError{Line: line, Err: pkgerrors.Wrapf(err, "line %d", line)}
}

// PathError records an operation, a node path, and the error that occurred.
// It mirrors the standard library's *fs.PathError shape.
type PathError struct {
	Op   string
	Path string
	Err  error
}

func (e *PathError) Error() string { return fmt.Sprintf("fdt: %s %q: %v", e.Op, e.Path, e.Err) }
func (e *PathError) Unwrap() error { return e.Err }
