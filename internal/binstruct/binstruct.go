// Copyright (C) 2022  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package binstruct is a small reflection-driven binary struct codec: a
// struct whose fields are tagged `bin:"off=...,siz=..."` can be marshaled
// to and unmarshaled from a flat byte slice, field by field, in declaration
// order. It is used for the fixed-width pieces of the DTB wire format (the
// header, memory-reservation entries, and FDT_PROP headers) where a plain
// encoding/binary.Read would otherwise need to be hand-rolled per type.
package binstruct

import (
	"reflect"

	"git.lukeshu.com/go/fdt/internal/binstruct/binint"
)

type (
	U32be = binint.U32be
	U64be = binint.U64be
)

var intKind2Type = map[reflect.Kind]reflect.Type{
	reflect.Uint32: reflect.TypeOf(U32be(0)),
	reflect.Uint64: reflect.TypeOf(U64be(0)),
}
