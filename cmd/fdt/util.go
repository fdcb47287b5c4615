// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"os"
	"path/filepath"
	"strings"

	"git.lukeshu.com/go/fdt"
	"git.lukeshu.com/go/fdt/fdtfile"
)

// loadTree reads path as either a DTB or a DTS source file, dispatching
// on its extension (".dts" vs. everything else).
func loadTree(path string) (*fdt.Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".dts") {
		return fdt.ParseDTS(string(data), fdtfile.OSLoader{Root: filepath.Dir(path)})
	}
	return fdt.ParseDTB(data, 0)
}
