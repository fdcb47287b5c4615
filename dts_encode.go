// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package fdt

import (
	"fmt"
	"strings"
)

// ToDTS renders t as DTS source text (§4.H), indenting each nesting level
// by tabsize spaces.
func (t *Tree) ToDTS(tabsize int) string {
	var b strings.Builder
	b.WriteString("/dts-v1/;\n")
	if t.Header.Version != nil {
		fmt.Fprintf(&b, "// version: %d\n", *t.Header.Version)
		fmt.Fprintf(&b, "// last_comp_version: %d\n", t.Header.LastCompVersion)
		if t.Header.BootCpuidPhys != 0 {
			fmt.Fprintf(&b, "// boot_cpuid_phys: 0x%X\n", t.Header.BootCpuidPhys)
		}
	}

	for _, r := range t.Reservations {
		fmt.Fprintf(&b, "/memreserve/ %s %s;\n", dtsHexOrZero(r.Address), dtsHexOrZero(r.Size))
	}

	b.WriteString("\n")
	writeNodeDTS(&b, t.Root, 0, tabsize)
	return b.String()
}

// dtsHexOrZero renders a /memreserve/ field the way the original prints it:
// a bare "0" when the field is zero, hex otherwise. Each field of a
// reservation is formatted independently, not the pair as a whole.
func dtsHexOrZero(v uint64) string {
	if v == 0 {
		return "0"
	}
	return fmt.Sprintf("0x%X", v)
}

func writeNodeDTS(b *strings.Builder, n *Node, depth, tabsize int) {
	indent := strings.Repeat(" ", depth*tabsize)
	name := n.Name
	if depth == 0 {
		name = "/"
	}
	fmt.Fprintf(b, "%s%s {\n", indent, name)

	childIndent := strings.Repeat(" ", (depth+1)*tabsize)
	for _, p := range n.Props {
		b.WriteString(p.ToDTS(childIndent))
	}
	for _, c := range n.Children {
		writeNodeDTS(b, c, depth+1, tabsize)
	}

	fmt.Fprintf(b, "%s};\n", indent)
}
