// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package fdt

import (
	"fmt"

	"git.lukeshu.com/go/fdt/internal/binstruct"
)

// Magic is the fixed 32-bit value that opens every DTB blob.
const Magic uint32 = 0xd00dfeed

// Structure-block tags (§4.E).
const (
	tagBeginNode uint32 = 1
	tagEndNode   uint32 = 2
	tagProp      uint32 = 3
	tagNop       uint32 = 4
	tagEnd       uint32 = 9
)

const (
	minVersion = 2
	maxVersion = 17

	// headerSize is the fixed on-the-wire length of the header: ten
	// big-endian u32 words, regardless of the declared version. This is
	// the "implementations may simply always emit the 40-byte legacy
	// prefix plus any of the three extension words" option, taken to
	// its natural conclusion: the three extension words' slots are
	// always present, just not always meaningful (see S1 in the test
	// matrix, which pins a v17 header at exactly 40 bytes).
	headerSize = 40
)

// Header holds the ten fields of the FDT preamble. Version is a pointer
// because a tree that hasn't yet been encoded may not have one (§3).
type Header struct {
	Magic           uint32
	TotalSize       uint32
	OffDtStruct     uint32
	OffDtStrings    uint32
	OffMemRsvmap    uint32
	Version         *uint32
	LastCompVersion uint32
	BootCpuidPhys   uint32
	SizeDtStrings   uint32
	SizeDtStruct    uint32
}

// rawHeader is the fixed 40-byte wire layout, decoded with binstruct.
type rawHeader struct {
	Magic           binstruct.U32be `bin:"off=0x0,  siz=0x4"`
	TotalSize       binstruct.U32be `bin:"off=0x4,  siz=0x4"`
	OffDtStruct     binstruct.U32be `bin:"off=0x8,  siz=0x4"`
	OffDtStrings    binstruct.U32be `bin:"off=0xc,  siz=0x4"`
	OffMemRsvmap    binstruct.U32be `bin:"off=0x10, siz=0x4"`
	Version         binstruct.U32be `bin:"off=0x14, siz=0x4"`
	LastCompVersion binstruct.U32be `bin:"off=0x18, siz=0x4"`
	BootCpuidPhys   binstruct.U32be `bin:"off=0x1c, siz=0x4"`
	SizeDtStrings   binstruct.U32be `bin:"off=0x20, siz=0x4"`
	SizeDtStruct    binstruct.U32be `bin:"off=0x24, siz=0x4"`
	binstruct.End   `bin:"off=0x28"`
}

// parseHeader decodes the header at data[offset:] and validates its magic
// and version. Fails with ErrBadMagic or ErrUnsupportedVersion.
func parseHeader(data []byte, offset int) (Header, error) {
	if offset < 0 || offset+headerSize > len(data) {
		return Header{}, &DecodeError{Op: "parseHeader", Offset: offset, Err: ErrTruncated}
	}
	var raw rawHeader
	if _, err := binstruct.Unmarshal(data[offset:offset+headerSize], &raw); err != nil {
		return Header{}, &DecodeError{Op: "parseHeader", Offset: offset, Err: err}
	}
	if uint32(raw.Magic) != Magic {
		return Header{}, &DecodeError{Op: "parseHeader", Offset: offset,
			Err: fmt.Errorf("%w: got %#08x, want %#08x", ErrBadMagic, uint32(raw.Magic), Magic)}
	}
	version := uint32(raw.Version)
	if version < minVersion || version > maxVersion {
		return Header{}, &DecodeError{Op: "parseHeader", Offset: offset,
			Err: fmt.Errorf("%w: %d (supported: %d..%d)", ErrUnsupportedVersion, version, minVersion, maxVersion)}
	}
	h := Header{
		Magic:           uint32(raw.Magic),
		TotalSize:       uint32(raw.TotalSize),
		OffDtStruct:     uint32(raw.OffDtStruct),
		OffDtStrings:    uint32(raw.OffDtStrings),
		OffMemRsvmap:    uint32(raw.OffMemRsvmap),
		Version:         &version,
		LastCompVersion: uint32(raw.LastCompVersion),
		SizeDtStrings:   uint32(raw.SizeDtStrings),
		SizeDtStruct:    uint32(raw.SizeDtStruct),
	}
	if version >= 2 {
		h.BootCpuidPhys = uint32(raw.BootCpuidPhys)
	}
	return h, nil
}

// export encodes the header. The caller (Tree.ToDTB) must have already
// populated every field; Version must be non-nil.
func (h Header) export() ([]byte, error) {
	if h.Version == nil {
		return nil, &EncodeError{Op: "Header.export", Err: fmt.Errorf("%w: version must be set", ErrInvalidArgument)}
	}
	version := *h.Version
	if version < minVersion || version > maxVersion {
		return nil, &EncodeError{Op: "Header.export",
			Err: fmt.Errorf("%w: version %d (supported: %d..%d)", ErrInvalidArgument, version, minVersion, maxVersion)}
	}
	if h.LastCompVersion > version {
		return nil, &EncodeError{Op: "Header.export",
			Err: fmt.Errorf("%w: last_comp_version %d > version %d", ErrInvalidArgument, h.LastCompVersion, version)}
	}
	raw := rawHeader{
		Magic:           binstruct.U32be(Magic),
		TotalSize:       binstruct.U32be(h.TotalSize),
		OffDtStruct:     binstruct.U32be(h.OffDtStruct),
		OffDtStrings:    binstruct.U32be(h.OffDtStrings),
		OffMemRsvmap:    binstruct.U32be(h.OffMemRsvmap),
		Version:         binstruct.U32be(version),
		LastCompVersion: binstruct.U32be(h.LastCompVersion),
		BootCpuidPhys:   binstruct.U32be(h.BootCpuidPhys),
		SizeDtStrings:   binstruct.U32be(h.SizeDtStrings),
		SizeDtStruct:    binstruct.U32be(h.SizeDtStruct),
	}
	return binstruct.Marshal(raw)
}
