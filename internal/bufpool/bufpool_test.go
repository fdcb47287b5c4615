// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package bufpool_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"git.lukeshu.com/go/fdt/internal/bufpool"
)

func TestGetZeroSize(t *testing.T) {
	t.Parallel()
	var p bufpool.Pool
	assert.Nil(t, p.Get(0))
}

func TestGetReturnsZeroLengthWithCapacity(t *testing.T) {
	t.Parallel()
	var p bufpool.Pool
	buf := p.Get(16)
	assert.Len(t, buf, 0)
	assert.GreaterOrEqual(t, cap(buf), 16)
}

func TestPutGetReuses(t *testing.T) {
	t.Parallel()
	var p bufpool.Pool
	buf := p.Get(64)
	buf = append(buf, make([]byte, 64)...)
	p.Put(buf)

	got := p.Get(32)
	assert.GreaterOrEqual(t, cap(got), 32)
}

func TestPutNilIsNoop(t *testing.T) {
	t.Parallel()
	var p bufpool.Pool
	assert.NotPanics(t, func() { p.Put(nil) })
}
