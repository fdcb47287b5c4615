// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package fdt

// FileLoader is the sole I/O seam of the core library (§5, §9 "Global
// filesystem access"): DTS `/incbin/` properties ask a caller-supplied
// loader for bytes instead of touching the filesystem directly, so tests
// (and non-OS embedders) can supply in-memory contents.
//
// When length is 0, Load reads to the end of the file starting at offset.
// Errors returned by Load are surfaced to the DTS parser's caller wrapped
// in ErrIO.
type FileLoader interface {
	Load(path string, offset, length int) ([]byte, error)
}
