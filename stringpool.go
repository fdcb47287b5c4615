// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package fdt

import "strings"

// stringPool is the DTB string block (§4.B): an append-only, deduplicated,
// NUL-terminated pool of property names. Offsets are stable once assigned.
type stringPool struct {
	unique  []string       // unique strings, in first-insertion order
	offsets map[string]int // exact-match memo: name -> offset
	length  int            // cumulative serialized length so far
}

func newStringPool() *stringPool {
	return &stringPool{offsets: make(map[string]int)}
}

// intern registers name in the pool and returns its byte offset. Repeated
// interning of the same name returns the same offset (exact dedup). If name
// is a suffix of an already-interned string, its offset is computed by
// pointing into that string's tail instead of storing a new copy (suffix
// dedup), matching the layout canonical DTB writers produce.
func (p *stringPool) intern(name string) int {
	if off, ok := p.offsets[name]; ok {
		return off
	}
	for _, existing := range p.unique {
		if strings.HasSuffix(existing, name) {
			off := p.offsets[existing] + (len(existing) - len(name))
			p.offsets[name] = off
			return off
		}
	}
	off := p.length
	p.unique = append(p.unique, name)
	p.offsets[name] = off
	p.length += len(name) + 1 // + NUL terminator
	return off
}

// bytes serializes the pool: each unique string, in insertion order,
// followed by a single NUL byte.
func (p *stringPool) bytes() []byte {
	buf := make([]byte, 0, p.length)
	for _, s := range p.unique {
		buf = append(buf, s...)
		buf = append(buf, 0)
	}
	return buf
}
