// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package bufpool provides a typed scratch-buffer pool for the DTB
// emitter's reservation-block and structure-block builders, adapted from the
// teacher's lib/containers.SlicePool.
package bufpool

import (
	"git.lukeshu.com/go/typedsync"
)

// Pool is a reusable pool of byte slices of at least a requested capacity.
type Pool struct {
	inner typedsync.Pool[[]byte]
}

// Get returns a zero-length slice with capacity at least size.
func (p *Pool) Get(size int) []byte {
	if size == 0 {
		return nil
	}
	buf, ok := p.inner.Get()
	if ok && cap(buf) >= size {
		return buf[:0]
	}
	return make([]byte, 0, size)
}

// Put returns buf to the pool for reuse.
func (p *Pool) Put(buf []byte) {
	if buf == nil {
		return
	}
	p.inner.Put(buf)
}
