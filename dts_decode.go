// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package fdt

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// ParseDTS parses DTS source text into a Tree (§4.G). loader resolves
// `/incbin/` properties; it may be nil if the source contains none.
func ParseDTS(text string, loader FileLoader) (*Tree, error) {
	hints := extractVersionHints(text)
	text = stripDTSComments(text)

	lines := splitDTSLines(text)

	t := NewTree()
	if v, ok := hints["version"]; ok {
		vv := v
		t.Header.Version = &vv
	}
	if v, ok := hints["last_comp_version"]; ok {
		t.Header.LastCompVersion = v
	}
	if v, ok := hints["boot_cpuid_phys"]; ok {
		t.Header.BootCpuidPhys = v
	}

	var current *Node
	lineNo, srcLine := 0, 1
	for _, line := range lines {
		lineNo = srcLine + strings.Count(line[:len(line)-len(strings.TrimLeft(line, " \t\r\n"))], "\n")
		srcLine += strings.Count(line, "\n")
		line = strings.TrimSpace(line)
		// A lone ";" is what is left of a "};" node closer once the
		// "}" has been split off as its own statement.
		if line == "" || line == ";" {
			continue
		}

		switch {
		case line == "/dts-v1/;":
			continue

		case strings.HasPrefix(line, "/memreserve/"):
			rsv, err := parseMemReserve(line)
			if err != nil {
				return nil, wrapLine(lineNo, err)
			}
			t.Reservations = append(t.Reservations, rsv)

		case strings.HasSuffix(line, "{"):
			name := strings.TrimSpace(strings.TrimSuffix(line, "{"))
			name = strings.TrimSuffix(name, ";")
			name = strings.TrimSpace(name)
			if name == "/" || name == "" {
				if current != nil {
					return nil, wrapLine(lineNo, &SyntaxError{Err: ErrInvalidArgument})
				}
				current = t.Root
				continue
			}
			node := NewNode(name)
			if current == nil {
				return nil, wrapLine(lineNo, &SyntaxError{Err: ErrInvalidArgument})
			}
			current.AppendNode(node)
			current = node

		case line == "}" || line == "};":
			if current == nil {
				return nil, wrapLine(lineNo, &SyntaxError{Err: ErrInvalidArgument})
			}
			current = current.Parent

		default:
			stmt := strings.TrimSuffix(strings.TrimSpace(line), ";")
			if current == nil {
				return nil, wrapLine(lineNo, &SyntaxError{Err: ErrInvalidArgument})
			}
			prop, err := parseProperty(stmt, loader)
			if err != nil {
				return nil, wrapLine(lineNo, err)
			}
			current.AppendProperty(prop)
		}
	}

	if current != nil && current != t.Root {
		return nil, &SyntaxError{Err: ErrTruncated}
	}

	return t, nil
}

// extractVersionHints scans the original, unstripped text for the
// `/dts-v1/;` preamble and the `// version: N`-style comment hints that
// carry header metadata that otherwise has no home in DTS syntax (§4.G).
func extractVersionHints(text string) map[string]uint32 {
	out := map[string]uint32{}
	for _, rawLine := range strings.Split(text, "\n") {
		line := strings.TrimSpace(rawLine)
		if strings.HasPrefix(line, "/dts-v1/") {
			out["version"] = 17
			continue
		}
		for _, key := range []string{"version", "last_comp_version", "boot_cpuid_phys"} {
			prefix := "// " + key + ":"
			if strings.HasPrefix(line, prefix) {
				valStr := strings.TrimSpace(strings.TrimPrefix(line, prefix))
				if v, err := strconv.ParseUint(valStr, 0, 32); err == nil {
					out[key] = uint32(v)
				}
			}
		}
	}
	return out
}

// stripDTSComments removes "//" and "/* */" comments outside of quoted
// string literals (§4.G step 1).
func stripDTSComments(text string) string {
	var b strings.Builder
	inString := false
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch {
		case inString:
			b.WriteRune(c)
			if c == '\\' && i+1 < len(runes) {
				i++
				b.WriteRune(runes[i])
				continue
			}
			if c == '"' {
				inString = false
			}
		case c == '"':
			inString = true
			b.WriteRune(c)
		case c == '/' && i+1 < len(runes) && runes[i+1] == '/':
			for i < len(runes) && runes[i] != '\n' {
				i++
			}
			if i < len(runes) {
				b.WriteRune('\n')
			}
		case c == '/' && i+1 < len(runes) && runes[i+1] == '*':
			i += 2
			for i+1 < len(runes) && !(runes[i] == '*' && runes[i+1] == '/') {
				if runes[i] == '\n' {
					b.WriteRune('\n')
				}
				i++
			}
			i++
		default:
			b.WriteRune(c)
		}
	}
	return b.String()
}

// splitDTSLines regroups comment-stripped source into logical statements,
// each ending in ';', '{', or '}', the way the original tokenizer does.
func splitDTSLines(text string) []string {
	var lines []string
	var cur strings.Builder
	inString := false
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		cur.WriteRune(c)
		if inString {
			if c == '\\' && i+1 < len(runes) {
				i++
				cur.WriteRune(runes[i])
				continue
			}
			if c == '"' {
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case ';', '{', '}':
			lines = append(lines, cur.String())
			cur.Reset()
		}
	}
	if strings.TrimSpace(cur.String()) != "" {
		lines = append(lines, cur.String())
	}
	return lines
}

// parseMemReserve parses a `/memreserve/ ADDR SIZE;` statement (§3, §4.G).
func parseMemReserve(line string) (Reservation, error) {
	rest := strings.TrimSuffix(strings.TrimSpace(strings.TrimPrefix(line, "/memreserve/")), ";")
	fields := strings.Fields(rest)
	if len(fields) != 2 {
		return Reservation{}, &SyntaxError{Err: ErrInvalidArgument}
	}
	addr, err := strconv.ParseUint(fields[0], 0, 64)
	if err != nil {
		return Reservation{}, &SyntaxError{Err: ErrInvalidArgument}
	}
	size, err := strconv.ParseUint(fields[1], 0, 64)
	if err != nil {
		return Reservation{}, &SyntaxError{Err: ErrInvalidArgument}
	}
	return Reservation{Address: addr, Size: size}, nil
}

// parseProperty parses a single property statement body (without the
// trailing ';'), dispatching on the value syntax (§4.G, §4.C).
func parseProperty(stmt string, loader FileLoader) (Property, error) {
	eq := strings.Index(stmt, "=")
	if eq < 0 {
		name := strings.TrimSpace(stmt)
		return &EmptyProp{PropName: name}, nil
	}
	name := strings.TrimSpace(stmt[:eq])
	value := strings.TrimSpace(stmt[eq+1:])

	switch {
	case strings.HasPrefix(value, "<") && strings.HasSuffix(value, ">"):
		return parseWordsValue(name, value)

	case strings.HasPrefix(value, "[") && strings.HasSuffix(value, "]"):
		return parseBytesValue(name, value)

	case strings.HasPrefix(value, "\""):
		return parseStringsValue(name, value)

	case strings.HasPrefix(value, "/incbin/"):
		return parseIncBinValue(name, value, loader)

	case strings.HasPrefix(value, "/plugin/"):
		return nil, &SyntaxError{Err: ErrUnsupported}

	case strings.HasPrefix(value, "/bits/"):
		return nil, &SyntaxError{Err: ErrUnsupported}

	default:
		return nil, &SyntaxError{Err: ErrInvalidArgument}
	}
}

func parseWordsValue(name, value string) (Property, error) {
	inner := strings.TrimSuffix(strings.TrimPrefix(value, "<"), ">")
	fields := strings.Fields(inner)
	values := make([]uint32, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseUint(f, 0, 32)
		if err != nil {
			return nil, &SyntaxError{Err: ErrInvalidArgument}
		}
		values = append(values, uint32(v))
	}
	return &WordsProp{PropName: name, Values: values}, nil
}

func parseBytesValue(name, value string) (Property, error) {
	inner := strings.TrimSuffix(strings.TrimPrefix(value, "["), "]")
	fields := strings.Fields(inner)
	values := make([]byte, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseUint(f, 16, 8)
		if err != nil {
			return nil, &SyntaxError{Err: ErrInvalidArgument}
		}
		values = append(values, byte(v))
	}
	return &BytesProp{PropName: name, Values: values}, nil
}

func parseStringsValue(name, value string) (Property, error) {
	var values []string
	i := 0
	runes := []rune(value)
	for i < len(runes) {
		for i < len(runes) && (runes[i] == ' ' || runes[i] == ',' || runes[i] == '\t' || runes[i] == '\n') {
			i++
		}
		if i >= len(runes) {
			break
		}
		if runes[i] != '"' {
			return nil, &SyntaxError{Err: ErrInvalidArgument}
		}
		i++
		var sb strings.Builder
		for i < len(runes) && runes[i] != '"' {
			if runes[i] == '\\' && i+1 < len(runes) {
				i++
				switch runes[i] {
				case 'n':
					sb.WriteRune('\n')
				case 't':
					sb.WriteRune('\t')
				case '0':
					sb.WriteRune('\x00')
				default:
					sb.WriteRune(runes[i])
				}
				i++
				continue
			}
			sb.WriteRune(runes[i])
			i++
		}
		if i >= len(runes) {
			return nil, &SyntaxError{Err: ErrTruncated}
		}
		i++ // closing quote
		values = append(values, sb.String())
	}
	return &StringsProp{PropName: name, Values: values}, nil
}

// parseIncBinValue parses `/incbin/("path"[, offset[, length]])` and asks
// loader for the referenced bytes (§5, §9 "Global filesystem access").
func parseIncBinValue(name, value string, loader FileLoader) (Property, error) {
	inner := strings.TrimSuffix(strings.TrimPrefix(value, "/incbin/"), "")
	inner = strings.TrimSpace(inner)
	inner = strings.TrimPrefix(inner, "(")
	inner = strings.TrimSuffix(inner, ")")

	parts := strings.Split(inner, ",")
	if len(parts) == 0 {
		return nil, &SyntaxError{Err: ErrInvalidArgument}
	}
	path := strings.TrimSpace(parts[0])
	path = strings.TrimSuffix(strings.TrimPrefix(path, "\""), "\"")

	var offset, length int
	if len(parts) > 1 {
		v, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 0, 64)
		if err != nil {
			return nil, &SyntaxError{Err: ErrInvalidArgument}
		}
		offset = int(v)
	}
	if len(parts) > 2 {
		v, err := strconv.ParseInt(strings.TrimSpace(parts[2]), 0, 64)
		if err != nil {
			return nil, &SyntaxError{Err: ErrInvalidArgument}
		}
		length = int(v)
	}

	if loader == nil {
		return nil, &SyntaxError{Err: ErrIO}
	}
	data, err := loader.Load(path, offset, length)
	if err != nil {
		return nil, &SyntaxError{Err: fmt.Errorf("%w: %v", ErrIO, err)}
	}
	return &IncBinProp{PropName: name, Data: data, Source: filepath.Base(path)}, nil
}
