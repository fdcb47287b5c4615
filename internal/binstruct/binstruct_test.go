// Copyright (C) 2022  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package binstruct_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.lukeshu.com/go/fdt/internal/binstruct"
)

func TestSmoke(t *testing.T) {
	type Inner struct {
		A             binstruct.U32be `bin:"off=0x0, siz=0x4"`
		B             binstruct.U64be `bin:"off=0x4, siz=0x8"`
		binstruct.End `bin:"off=0xc"`
	}
	type Outer struct {
		Magic         binstruct.U32be `bin:"off=0x0,  siz=0x4"`
		Inner         Inner           `bin:"off=0x4,  siz=0xc"`
		binstruct.End `bin:"off=0x10"`
	}

	input := Outer{
		Magic: 0xd00dfeed,
		Inner: Inner{A: 1, B: 0xdeadbeef},
	}

	bs, err := binstruct.Marshal(input)
	require.NoError(t, err)
	assert.Len(t, bs, 0x10)

	var output Outer
	n, err := binstruct.Unmarshal(bs, &output)
	require.NoError(t, err)
	assert.Equal(t, 0x10, n)
	assert.Equal(t, input, output)
}

func TestOffsetMismatchPanics(t *testing.T) {
	type Bad struct {
		A             binstruct.U32be `bin:"off=0x4, siz=0x4"`
		binstruct.End `bin:"off=0x8"`
	}
	assert.Panics(t, func() {
		_, _ = binstruct.Marshal(Bad{})
	})
}

func TestUnmarshalTruncated(t *testing.T) {
	type S struct {
		A             binstruct.U32be `bin:"off=0x0, siz=0x4"`
		binstruct.End `bin:"off=0x4"`
	}
	var out S
	_, err := binstruct.Unmarshal([]byte{0, 1}, &out)
	assert.Error(t, err)
}
