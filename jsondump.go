// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package fdt

import (
	"bytes"
	"fmt"
	"io"

	"git.lukeshu.com/go/lowmemjson"

	"git.lukeshu.com/go/fdt/internal/jsonutil"
)

var (
	_ lowmemjson.Encodable = (*EmptyProp)(nil)
	_ lowmemjson.Encodable = (*WordsProp)(nil)
	_ lowmemjson.Encodable = (*BytesProp)(nil)
	_ lowmemjson.Encodable = (*StringsProp)(nil)
	_ lowmemjson.Encodable = (*IncBinProp)(nil)
	_ lowmemjson.Encodable = (*Node)(nil)
	_ lowmemjson.Decodable = (*Node)(nil)
)

func quoteJSON(w io.Writer, s string) error {
	return lowmemjson.NewEncoder(w).Encode(s)
}

func (p *EmptyProp) EncodeJSON(w io.Writer) error {
	if _, err := fmt.Fprint(w, `{"name":`); err != nil {
		return err
	}
	if err := quoteJSON(w, p.PropName); err != nil {
		return err
	}
	_, err := fmt.Fprint(w, `}`)
	return err
}

func (p *WordsProp) EncodeJSON(w io.Writer) error {
	if _, err := fmt.Fprint(w, `{"name":`); err != nil {
		return err
	}
	if err := quoteJSON(w, p.PropName); err != nil {
		return err
	}
	if _, err := fmt.Fprint(w, `,"words":`); err != nil {
		return err
	}
	if err := lowmemjson.NewEncoder(w).Encode(p.Values); err != nil {
		return err
	}
	_, err := w.Write([]byte{'}'})
	return err
}

func (p *BytesProp) EncodeJSON(w io.Writer) error {
	if _, err := fmt.Fprint(w, `{"name":`); err != nil {
		return err
	}
	if err := quoteJSON(w, p.PropName); err != nil {
		return err
	}
	if _, err := fmt.Fprint(w, `,"bytes":`); err != nil {
		return err
	}
	if err := jsonutil.EncodeHexString(w, p.Values); err != nil {
		return err
	}
	_, err := w.Write([]byte{'}'})
	return err
}

func (p *StringsProp) EncodeJSON(w io.Writer) error {
	if _, err := fmt.Fprint(w, `{"name":`); err != nil {
		return err
	}
	if err := quoteJSON(w, p.PropName); err != nil {
		return err
	}
	if _, err := fmt.Fprint(w, `,"strings":`); err != nil {
		return err
	}
	if err := lowmemjson.NewEncoder(w).Encode(p.Values); err != nil {
		return err
	}
	_, err := w.Write([]byte{'}'})
	return err
}

func (p *IncBinProp) EncodeJSON(w io.Writer) error {
	if _, err := fmt.Fprint(w, `{"name":`); err != nil {
		return err
	}
	if err := quoteJSON(w, p.PropName); err != nil {
		return err
	}
	if _, err := fmt.Fprint(w, `,"source":`); err != nil {
		return err
	}
	if err := quoteJSON(w, p.Source); err != nil {
		return err
	}
	if _, err := fmt.Fprint(w, `,"bytes":`); err != nil {
		return err
	}
	if err := jsonutil.EncodeHexString(w, p.Data); err != nil {
		return err
	}
	_, err := w.Write([]byte{'}'})
	return err
}

// decodeProperty decodes one property object produced by the EncodeJSON
// methods above, recovering the concrete Property kind from which typed
// key ("words", "bytes", "strings", "source") is present — the JSON
// analog of the untyped-payload kind recovery §4.C does for raw DTB
// bytes, where newPropertyFromRaw plays the same role.
func decodeProperty(r io.RuneScanner) (Property, error) {
	var (
		name                           string
		words                          []uint32
		data                           bytes.Buffer
		strs                           []string
		source                         string
		hasWords, hasBytes, hasStrings bool
	)
	var key string
	err := lowmemjson.DecodeObject(r,
		func(r io.RuneScanner) error {
			return lowmemjson.NewDecoder(r).Decode(&key)
		},
		func(r io.RuneScanner) error {
			switch key {
			case "name":
				return lowmemjson.NewDecoder(r).Decode(&name)
			case "words":
				hasWords = true
				return lowmemjson.NewDecoder(r).Decode(&words)
			case "bytes":
				hasBytes = true
				return jsonutil.DecodeHexString(r, &data)
			case "strings":
				hasStrings = true
				return lowmemjson.NewDecoder(r).Decode(&strs)
			case "source":
				return lowmemjson.NewDecoder(r).Decode(&source)
			default:
				return fmt.Errorf("property: unknown key %q", key)
			}
		})
	if err != nil {
		return nil, err
	}

	switch {
	case source != "":
		return &IncBinProp{PropName: name, Data: data.Bytes(), Source: source}, nil
	case hasWords:
		return &WordsProp{PropName: name, Values: words}, nil
	case hasBytes:
		return &BytesProp{PropName: name, Values: data.Bytes()}, nil
	case hasStrings:
		return &StringsProp{PropName: name, Values: strs}, nil
	default:
		return &EmptyProp{PropName: name}, nil
	}
}

func (n *Node) EncodeJSON(w io.Writer) error {
	if _, err := fmt.Fprint(w, `{"name":`); err != nil {
		return err
	}
	if err := quoteJSON(w, n.Name); err != nil {
		return err
	}
	if _, err := fmt.Fprint(w, `,"props":[`); err != nil {
		return err
	}
	for i, p := range n.Props {
		if i > 0 {
			if _, err := w.Write([]byte{','}); err != nil {
				return err
			}
		}
		enc, ok := p.(lowmemjson.Encodable)
		if !ok {
			return fmt.Errorf("property %q: %T does not support JSON encoding", p.Name(), p)
		}
		if err := enc.EncodeJSON(w); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprint(w, `],"children":[`); err != nil {
		return err
	}
	for i, c := range n.Children {
		if i > 0 {
			if _, err := w.Write([]byte{','}); err != nil {
				return err
			}
		}
		if err := c.EncodeJSON(w); err != nil {
			return err
		}
	}
	_, err := fmt.Fprint(w, `]}`)
	return err
}

func (n *Node) DecodeJSON(r io.RuneScanner) error {
	*n = Node{}
	var key string
	return lowmemjson.DecodeObject(r,
		func(r io.RuneScanner) error {
			return lowmemjson.NewDecoder(r).Decode(&key)
		},
		func(r io.RuneScanner) error {
			switch key {
			case "name":
				return lowmemjson.NewDecoder(r).Decode(&n.Name)
			case "props":
				return lowmemjson.DecodeArray(r, func(r io.RuneScanner) error {
					p, err := decodeProperty(r)
					if err != nil {
						return err
					}
					n.Props = append(n.Props, p)
					return nil
				})
			case "children":
				return lowmemjson.DecodeArray(r, func(r io.RuneScanner) error {
					child := NewNode("")
					if err := child.DecodeJSON(r); err != nil {
						return err
					}
					n.AppendNode(child)
					return nil
				})
			default:
				return fmt.Errorf("node: unknown key %q", key)
			}
		})
}

// EncodeJSON renders t's tree (not its header or reservations, which have
// no natural JSON shape of their own) as a nested JSON object, for the
// cmd/fdt `dump --format=json` command.
func (t *Tree) EncodeJSON(w io.Writer) error {
	return t.Root.EncodeJSON(w)
}

// DecodeJSON is the inverse of EncodeJSON; t's Header and Reservations are
// left untouched.
func (t *Tree) DecodeJSON(r io.RuneScanner) error {
	if t.Root == nil {
		t.Root = NewNode("/")
	}
	return t.Root.DecodeJSON(r)
}
