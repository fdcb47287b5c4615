// Copyright (C) 2022-2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/datawire/dlib/dlog"
	"github.com/datawire/ocibuild/pkg/cliutil"
	"github.com/spf13/cobra"

	"git.lukeshu.com/go/fdt"
	"git.lukeshu.com/go/fdt/fdtfile"
)

func init() {
	var out string
	var version uint32

	cmd := cobra.Command{
		Use:   "dts2dtb INPUT.dts",
		Short: "Compile DTS source into a binary device tree blob",
		Args:  cliutil.WrapPositionalArgs(cobra.ExactArgs(1)),
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "write the DTB to `file` instead of stdout")
	cmd.Flags().Uint32Var(&version, "version", 17, "DTB header version to emit if the source has no version hint")

	subcommands = append(subcommands, subcommand{
		Command: cmd,
		RunE: func(ctx context.Context, cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			loader := fdtfile.OSLoader{Root: filepath.Dir(args[0])}
			dlog.Debugf(ctx, "parsing %s", args[0])
			tree, err := fdt.ParseDTS(string(src), loader)
			if err != nil {
				return err
			}
			var opts fdt.ToDTBOptions
			if cmd.Flags().Changed("version") || tree.Header.Version == nil {
				opts.Version = &version
			}
			blob, err := tree.ToDTB(opts)
			if err != nil {
				return err
			}
			if out == "" {
				_, err = os.Stdout.Write(blob)
				return err
			}
			return os.WriteFile(out, blob, 0o644)
		},
	})
}
