// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package textui

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Fprintf is like fmt.Fprintf, but includes the extensions of
// golang.org/x/text/message.Printer (thousands separators and the like).
func Fprintf(w io.Writer, key string, a ...any) (n int, err error) {
	return printer.Fprintf(w, key, a...)
}

// Sprintf is like fmt.Sprintf, but includes the extensions of
// golang.org/x/text/message.Printer.
func Sprintf(key string, a ...any) string {
	return printer.Sprintf(key, a...)
}

// fmtStateString returns the fmt.Printf verb string that produced a given
// fmt.State and verb.
func fmtStateString(st fmt.State, verb rune) string {
	var ret strings.Builder
	ret.WriteByte('%')
	for _, flag := range []int{'-', '+', '#', ' ', '0'} {
		if st.Flag(flag) {
			ret.WriteByte(byte(flag))
		}
	}
	if width, ok := st.Width(); ok {
		fmt.Fprintf(&ret, "%v", width)
	}
	if prec, ok := st.Precision(); ok {
		if prec == 0 {
			ret.WriteByte('.')
		} else {
			fmt.Fprintf(&ret, ".%v", prec)
		}
	}
	ret.WriteRune(verb)
	return ret.String()
}

// IEC renders x with a binary (1024-based) unit prefix, e.g. "4KiB".
type iec struct {
	Val  float64
	Unit string
}

func IEC(x float64, unit string) fmt.Stringer { return iec{Val: x, Unit: unit} }

var iecPrefixes = []string{"Ki", "Mi", "Gi", "Ti", "Pi", "Ei", "Zi", "Yi"}

func (v iec) String() string { return fmt.Sprintf("%v", v) }

// Format implements fmt.Formatter.
func (v iec) Format(f fmt.State, verb rune) {
	y := v.Val
	neg := y < 0
	if neg {
		y = -y
	}
	var prefix string
	for i := 0; y > 1024 && i < len(iecPrefixes); i++ {
		y /= 1024
		prefix = iecPrefixes[i]
	}
	if neg {
		y = -y
	}
	printer.Fprintf(f, fmtStateString(f, verb)+"%s%s", y, prefix, v.Unit)
}
