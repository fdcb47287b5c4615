// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package fdt

import (
	"encoding/binary"

	"git.lukeshu.com/go/fdt/internal/binstruct"
	"git.lukeshu.com/go/fdt/internal/bufpool"
)

var structPool bufpool.Pool

// ToDTBOptions overrides header fields just before emission (§6).
type ToDTBOptions struct {
	Version         *uint32
	LastCompVersion *uint32
	BootCpuidPhys   *uint32
}

// ToDTB serializes t to a binary device tree blob (§4.F). The header's
// Version must end up set (either already on t.Header, or via opts),
// otherwise ErrInvalidArgument.
func (t *Tree) ToDTB(opts ...ToDTBOptions) ([]byte, error) {
	header := t.Header
	for _, o := range opts {
		if o.Version != nil {
			header.Version = o.Version
		}
		if o.LastCompVersion != nil {
			header.LastCompVersion = *o.LastCompVersion
		}
		if o.BootCpuidPhys != nil {
			header.BootCpuidPhys = *o.BootCpuidPhys
		}
	}
	if header.Version == nil {
		return nil, &EncodeError{Op: "Tree.ToDTB", Err: ErrInvalidArgument}
	}

	reservations := structPool.Get(16 * (len(t.Reservations) + 1))
	defer structPool.Put(reservations)
	for _, r := range t.Reservations {
		raw := rawReservation{Address: binstruct.U64be(r.Address), Size: binstruct.U64be(r.Size)}
		bs, err := binstruct.Marshal(raw)
		if err != nil {
			return nil, &EncodeError{Op: "Tree.ToDTB", Err: err}
		}
		reservations = append(reservations, bs...)
	}
	terminator, err := binstruct.Marshal(rawReservation{})
	if err != nil {
		return nil, &EncodeError{Op: "Tree.ToDTB", Err: err}
	}
	reservations = append(reservations, terminator...)

	pool := newStringPool()
	structure, err := emitNode(t.Root, pool)
	if err != nil {
		return nil, err
	}
	structure = append(structure, beU32(tagEnd)...)
	strings := pool.bytes()

	headerSizeBytes := headerSize
	header.OffMemRsvmap = uint32(headerSizeBytes)
	header.OffDtStruct = uint32(headerSizeBytes + len(reservations))
	header.OffDtStrings = header.OffDtStruct + uint32(len(structure))
	header.SizeDtStruct = uint32(len(structure))
	header.SizeDtStrings = uint32(len(strings))
	header.TotalSize = header.OffDtStrings + header.SizeDtStrings

	headerBytes, err := header.export()
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(headerBytes)+len(reservations)+len(structure)+len(strings))
	out = append(out, headerBytes...)
	out = append(out, reservations...)
	out = append(out, structure...)
	out = append(out, strings...)
	return out, nil
}

func beU32(v uint32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return b[:]
}

func padTo4(buf []byte) []byte {
	for len(buf)%4 != 0 {
		buf = append(buf, 0)
	}
	return buf
}

// emitNode serializes node and its subtree in document order, registering
// every property name into pool.
func emitNode(node *Node, pool *stringPool) ([]byte, error) {
	buf := structPool.Get(64)
	buf = append(buf, beU32(tagBeginNode)...)
	name := node.Name
	if name == "/" {
		name = ""
	}
	buf = append(buf, name...)
	buf = append(buf, 0)
	buf = padTo4(buf)

	for _, prop := range node.Props {
		raw, err := prop.ToDTBRaw()
		if err != nil {
			return nil, &EncodeError{Op: "emitNode", Err: err}
		}
		nameOff := pool.intern(prop.Name())
		header, err := binstruct.Marshal(rawPropHeader{
			Len:     binstruct.U32be(len(raw)),
			NameOff: binstruct.U32be(nameOff),
		})
		if err != nil {
			return nil, &EncodeError{Op: "emitNode", Err: err}
		}
		buf = append(buf, beU32(tagProp)...)
		buf = append(buf, header...)
		buf = append(buf, raw...)
		buf = padTo4(buf)
	}

	for _, child := range node.Children {
		childBytes, err := emitNode(child, pool)
		if err != nil {
			return nil, err
		}
		buf = append(buf, childBytes...)
	}

	buf = append(buf, beU32(tagEndNode)...)
	return buf, nil
}
