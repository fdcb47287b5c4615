// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package fdt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPropertyFromRawEmpty(t *testing.T) {
	t.Parallel()
	p := newPropertyFromRaw("foo", nil)
	_, ok := p.(*EmptyProp)
	require.True(t, ok)
}

func TestNewPropertyFromRawStrings(t *testing.T) {
	t.Parallel()
	p := newPropertyFromRaw("compatible", []byte("hello\x00world\x00"))
	sp, ok := p.(*StringsProp)
	require.True(t, ok)
	assert.Equal(t, []string{"hello", "world"}, sp.Values)
}

func TestNewPropertyFromRawBytes(t *testing.T) {
	t.Parallel()
	p := newPropertyFromRaw("data", []byte{0xDE, 0xAD})
	bp, ok := p.(*BytesProp)
	require.True(t, ok)
	assert.Equal(t, []byte{0xDE, 0xAD}, bp.Values)
}

func TestNewPropertyFromRawWords(t *testing.T) {
	t.Parallel()
	p := newPropertyFromRaw("reg", []byte{0, 0, 0, 1, 0, 0, 0, 2})
	wp, ok := p.(*WordsProp)
	require.True(t, ok)
	assert.Equal(t, []uint32{1, 2}, wp.Values)
}

func TestPropertyCloneIndependence(t *testing.T) {
	t.Parallel()
	orig := &WordsProp{PropName: "reg", Values: []uint32{1, 2, 3}}
	clone := orig.Clone().(*WordsProp)
	clone.Values[0] = 99
	assert.Equal(t, uint32(1), orig.Values[0])
	assert.True(t, orig.Equal(orig))
	assert.False(t, orig.Equal(clone))
}

func TestPropertyToDTS(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "foo;\n", (&EmptyProp{PropName: "foo"}).ToDTS(""))
	assert.Equal(t, `reg = <0x1 0x2>;`+"\n", (&WordsProp{PropName: "reg", Values: []uint32{1, 2}}).ToDTS(""))
	assert.Equal(t, `data = [DE AD];`+"\n", (&BytesProp{PropName: "data", Values: []byte{0xDE, 0xAD}}).ToDTS(""))
	assert.Equal(t, `compatible = "a", "b";`+"\n", (&StringsProp{PropName: "compatible", Values: []string{"a", "b"}}).ToDTS(""))
}
