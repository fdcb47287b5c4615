// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package fdt

import (
	"encoding/binary"
	"fmt"

	"git.lukeshu.com/go/fdt/internal/binstruct"
)

// rawReservation is the fixed 16-byte on-the-wire layout of one
// memory-reservation-map entry: two big-endian u64s.
type rawReservation struct {
	Address       binstruct.U64be `bin:"off=0x0, siz=0x8"`
	Size          binstruct.U64be `bin:"off=0x8, siz=0x8"`
	binstruct.End `bin:"off=0x10"`
}

// rawPropHeader is the fixed 8-byte FDT_PROP payload header: the property
// value's length and its name's offset into the string block.
type rawPropHeader struct {
	Len           binstruct.U32be `bin:"off=0x0, siz=0x4"`
	NameOff       binstruct.U32be `bin:"off=0x4, siz=0x4"`
	binstruct.End `bin:"off=0x8"`
}

func align4(n int) int { return (n + 3) &^ 3 }
func align8(n int) int { return (n + 7) &^ 7 }

// ParseDTB parses a binary device tree blob at data[offset:] (§4.E).
func ParseDTB(data []byte, offset int) (*Tree, error) {
	header, err := parseHeader(data, offset)
	if err != nil {
		return nil, err
	}

	t := &Tree{Header: header}

	reservations, err := parseReservations(data, offset+int(header.OffMemRsvmap))
	if err != nil {
		return nil, err
	}
	t.Reservations = reservations

	root, err := parseStructureBlock(data, offset, header)
	if err != nil {
		return nil, err
	}
	t.Root = root

	return t, nil
}

func parseReservations(data []byte, index int) ([]Reservation, error) {
	var out []Reservation
	for {
		if index+16 > len(data) {
			return nil, &DecodeError{Op: "parseReservations", Offset: index, Err: ErrTruncated}
		}
		var raw rawReservation
		if _, err := binstruct.Unmarshal(data[index:index+16], &raw); err != nil {
			return nil, &DecodeError{Op: "parseReservations", Offset: index, Err: err}
		}
		index += 16
		if raw.Address == 0 && raw.Size == 0 {
			return out, nil
		}
		out = append(out, Reservation{Address: uint64(raw.Address), Size: uint64(raw.Size)})
	}
}

func extractCString(data []byte, offset int) (string, error) {
	if offset < 0 || offset > len(data) {
		return "", &DecodeError{Op: "extractCString", Offset: offset, Err: ErrTruncated}
	}
	end := offset
	for end < len(data) && data[end] != 0 {
		end++
	}
	if end >= len(data) {
		return "", &DecodeError{Op: "extractCString", Offset: offset, Err: ErrTruncated}
	}
	return string(data[offset:end]), nil
}

// parseStructureBlock walks the tagged stream (§4.E).
func parseStructureBlock(data []byte, offset int, header Header) (*Node, error) {
	index := int(header.OffDtStruct)
	version := uint32(0)
	if header.Version != nil {
		version = *header.Version
	}

	var root, current *Node
	for {
		if offset+index+4 > len(data) {
			return nil, &DecodeError{Op: "parseStructureBlock", Offset: index, Err: ErrTruncated}
		}
		tag := binary.BigEndian.Uint32(data[offset+index : offset+index+4])
		index += 4

		switch tag {
		case tagBeginNode:
			name, err := extractCString(data, offset+index)
			if err != nil {
				return nil, err
			}
			index = align4(index + len(name) + 1)
			if name == "" {
				name = "/"
			}
			node := NewNode(name)
			if root == nil {
				root = node
			}
			if current != nil {
				current.AppendNode(node)
			}
			current = node

		case tagEndNode:
			if current != nil {
				current = current.Parent
			}

		case tagProp:
			if offset+index+8 > len(data) {
				return nil, &DecodeError{Op: "parseStructureBlock", Offset: index, Err: ErrTruncated}
			}
			var raw rawPropHeader
			if _, err := binstruct.Unmarshal(data[offset+index:offset+index+8], &raw); err != nil {
				return nil, &DecodeError{Op: "parseStructureBlock", Offset: index, Err: err}
			}
			propLen := int(raw.Len)
			propStart := index + 8
			// Pre-v16 quirk (§4.E, testable property 9): payloads of at
			// least 8 bytes were aligned to an 8-byte boundary.
			if version != 0 && version < 16 && propLen >= 8 {
				propStart = align8(propStart)
			}
			name, err := extractCString(data, offset+int(header.OffDtStrings)+int(raw.NameOff))
			if err != nil {
				return nil, err
			}
			if offset+propStart+propLen > len(data) {
				return nil, &DecodeError{Op: "parseStructureBlock", Offset: propStart, Err: ErrTruncated}
			}
			rawValue := data[offset+propStart : offset+propStart+propLen]
			index = align4(propStart + propLen)
			if current != nil {
				current.AppendProperty(newPropertyFromRaw(name, rawValue))
			}

		case tagNop:
			// skip

		case tagEnd:
			return root, nil

		default:
			return nil, &DecodeError{Op: "parseStructureBlock", Offset: index - 4,
				Err: fmt.Errorf("%w: %d", ErrUnknownTag, tag)}
		}
	}
}
