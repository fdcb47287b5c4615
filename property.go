// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package fdt

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// Property is the common capability set every property-value kind
// implements (§4.C, §9 "Property polymorphism"): a shared name attribute
// plus equality, cloning, and the two renderings (DTS text, raw DTB bytes).
// Deep inheritance is deliberately avoided in favor of this small interface.
type Property interface {
	Name() string
	Equal(other Property) bool
	Clone() Property
	ToDTS(indent string) string
	ToDTBRaw() ([]byte, error)
}

// EmptyProp is a valueless property ("foo;").
type EmptyProp struct{ PropName string }

func (p *EmptyProp) Name() string { return p.PropName }
func (p *EmptyProp) Equal(other Property) bool {
	o, ok := other.(*EmptyProp)
	return ok && o.PropName == p.PropName
}
func (p *EmptyProp) Clone() Property           { return &EmptyProp{PropName: p.PropName} }
func (p *EmptyProp) ToDTS(indent string) string { return fmt.Sprintf("%s%s;\n", indent, p.PropName) }
func (p *EmptyProp) ToDTBRaw() ([]byte, error)  { return nil, nil }

// WordsProp is a "<...>" property: an ordered list of 32-bit cells.
type WordsProp struct {
	PropName string
	Values   []uint32
}

func (p *WordsProp) Name() string { return p.PropName }
func (p *WordsProp) Equal(other Property) bool {
	o, ok := other.(*WordsProp)
	if !ok || o.PropName != p.PropName || len(o.Values) != len(p.Values) {
		return false
	}
	for i := range p.Values {
		if p.Values[i] != o.Values[i] {
			return false
		}
	}
	return true
}
func (p *WordsProp) Clone() Property {
	return &WordsProp{PropName: p.PropName, Values: append([]uint32(nil), p.Values...)}
}
func (p *WordsProp) ToDTS(indent string) string {
	cells := make([]string, len(p.Values))
	for i, v := range p.Values {
		cells[i] = fmt.Sprintf("0x%X", v)
	}
	return fmt.Sprintf("%s%s = <%s>;\n", indent, p.PropName, strings.Join(cells, " "))
}
func (p *WordsProp) ToDTBRaw() ([]byte, error) {
	buf := make([]byte, 4*len(p.Values))
	for i, v := range p.Values {
		buf[4*i+0] = byte(v >> 24)
		buf[4*i+1] = byte(v >> 16)
		buf[4*i+2] = byte(v >> 8)
		buf[4*i+3] = byte(v)
	}
	return buf, nil
}

// BytesProp is a "[...]" property: an ordered list of raw bytes.
type BytesProp struct {
	PropName string
	Values   []byte
}

func (p *BytesProp) Name() string { return p.PropName }
func (p *BytesProp) Equal(other Property) bool {
	o, ok := other.(*BytesProp)
	if !ok || o.PropName != p.PropName || len(o.Values) != len(p.Values) {
		return false
	}
	for i := range p.Values {
		if p.Values[i] != o.Values[i] {
			return false
		}
	}
	return true
}
func (p *BytesProp) Clone() Property {
	return &BytesProp{PropName: p.PropName, Values: append([]byte(nil), p.Values...)}
}
func (p *BytesProp) ToDTS(indent string) string {
	cells := make([]string, len(p.Values))
	for i, v := range p.Values {
		cells[i] = fmt.Sprintf("%02X", v)
	}
	return fmt.Sprintf("%s%s = [%s];\n", indent, p.PropName, strings.Join(cells, " "))
}
func (p *BytesProp) ToDTBRaw() ([]byte, error) {
	return append([]byte(nil), p.Values...), nil
}

// StringsProp is a `"a", "b"` property: an ordered list of NUL-free UTF-8
// strings.
type StringsProp struct {
	PropName string
	Values   []string
}

func (p *StringsProp) Name() string { return p.PropName }
func (p *StringsProp) Equal(other Property) bool {
	o, ok := other.(*StringsProp)
	if !ok || o.PropName != p.PropName || len(o.Values) != len(p.Values) {
		return false
	}
	for i := range p.Values {
		if p.Values[i] != o.Values[i] {
			return false
		}
	}
	return true
}
func (p *StringsProp) Clone() Property {
	return &StringsProp{PropName: p.PropName, Values: append([]string(nil), p.Values...)}
}
func (p *StringsProp) ToDTS(indent string) string {
	quoted := make([]string, len(p.Values))
	for i, v := range p.Values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return fmt.Sprintf("%s%s = %s;\n", indent, p.PropName, strings.Join(quoted, ", "))
}
func (p *StringsProp) ToDTBRaw() ([]byte, error) {
	var buf []byte
	for _, v := range p.Values {
		buf = append(buf, v...)
		buf = append(buf, 0)
	}
	return buf, nil
}

// IncBinProp is a `/incbin/("file")` property: raw bytes sourced from an
// external file, plus that file's basename (for re-rendering to DTS).
type IncBinProp struct {
	PropName string
	Data     []byte
	Source   string
}

func (p *IncBinProp) Name() string { return p.PropName }
func (p *IncBinProp) Equal(other Property) bool {
	o, ok := other.(*IncBinProp)
	if !ok || o.PropName != p.PropName || o.Source != p.Source || len(o.Data) != len(p.Data) {
		return false
	}
	for i := range p.Data {
		if p.Data[i] != o.Data[i] {
			return false
		}
	}
	return true
}
func (p *IncBinProp) Clone() Property {
	return &IncBinProp{PropName: p.PropName, Data: append([]byte(nil), p.Data...), Source: p.Source}
}
func (p *IncBinProp) ToDTS(indent string) string {
	return fmt.Sprintf("%s%s = /incbin/(%q);\n", indent, p.PropName, p.Source)
}
func (p *IncBinProp) ToDTBRaw() ([]byte, error) {
	return append([]byte(nil), p.Data...), nil
}

// utf8Decoder runs a candidate string payload through golang.org/x/text's
// UTF-8 decoder before it is split on NUL; a decode error rejects the
// payload. looksLikeStringList then also requires every non-NUL byte to be
// printable ASCII, so Strings recovered from a DTB are always ASCII text.
var utf8Decoder = unicode.UTF8.NewDecoder()

// newPropertyFromRaw recovers a Property's kind from an untyped DTB payload
// using the heuristic of §4.C / §9: a DTB has no type tag for properties,
// so the kind must be guessed from the shape of the bytes. The order is
// significant and is part of the public contract: Empty, then Words (when
// a multiple of 4 and not printable+NUL), then Strings (when printable and
// NUL-terminated), else Bytes.
func newPropertyFromRaw(name string, raw []byte) Property {
	if len(raw) == 0 {
		return &EmptyProp{PropName: name}
	}
	printable := looksLikeStringList(raw)
	if len(raw)%4 == 0 && !printable {
		values := make([]uint32, len(raw)/4)
		for i := range values {
			values[i] = uint32(raw[4*i])<<24 | uint32(raw[4*i+1])<<16 | uint32(raw[4*i+2])<<8 | uint32(raw[4*i+3])
		}
		return &WordsProp{PropName: name, Values: values}
	}
	if printable {
		segments := strings.Split(strings.TrimRight(string(raw), "\x00"), "\x00")
		return &StringsProp{PropName: name, Values: segments}
	}
	return &BytesProp{PropName: name, Values: append([]byte(nil), raw...)}
}

// looksLikeStringList reports whether raw is a non-empty sequence of
// printable, NUL-terminated segments: at least one NUL, no segment empty
// (aside from a permitted run of trailing NULs), and every byte outside the
// NUL terminators is printable ASCII (0x20..0x7e).
func looksLikeStringList(raw []byte) bool {
	if len(raw) == 0 || raw[len(raw)-1] != 0 {
		return false
	}
	if _, err := utf8Decoder.Bytes(raw[:len(raw)-1]); err != nil {
		return false
	}
	segments := strings.Split(strings.TrimRight(string(raw), "\x00"), "\x00")
	for _, seg := range segments {
		if seg == "" {
			return false
		}
		for _, b := range []byte(seg) {
			if b < 0x20 || b > 0x7e {
				return false
			}
		}
	}
	return true
}
